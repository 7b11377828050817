// Package compare scores the similarity of origin and target pages.
package compare

import (
	"math"
	"strings"

	"github.com/fwojciec/webcompare"
	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/text/unicode/norm"
)

// Normalize prepares text for comparison: NFKC normalization, runs of
// whitespace collapsed to single spaces, lower case.
func Normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(norm.NFKC.String(s)), " "))
}

// Fuzziness returns the similarity of a and b between MatchNothing and
// MatchPerfect. Either side being empty, before or after normalization,
// scores MatchNothing. The score does not depend on argument order.
func Fuzziness(a, b string) int {
	if a == "" || b == "" {
		return webcompare.MatchNothing
	}
	a, b = Normalize(a), Normalize(b)
	if a == "" || b == "" {
		return webcompare.MatchNothing
	}
	if a == b {
		return webcompare.MatchPerfect
	}
	if a > b {
		a, b = b, a
	}
	return Unfraction(difflib.NewMatcher(runes(a), runes(b)).Ratio())
}

// Unfraction scales a ratio in [0, 1] to a score, rounding to the nearest
// integer and clamping to the score range.
func Unfraction(f float64) int {
	if math.IsNaN(f) {
		return webcompare.MatchNothing
	}
	score := int(math.Round(f * float64(webcompare.MatchPerfect-webcompare.MatchNothing)))
	return max(webcompare.MatchNothing, min(webcompare.MatchPerfect, score))
}

// runes splits s into one element per code point, the unit difflib
// matches on.
func runes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
