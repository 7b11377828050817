package compare

import (
	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/webcompare"
)

// Compile-time interface verification.
var (
	_ webcompare.Comparator = TitleComparator{}
	_ webcompare.Comparator = BodyComparator{}
	_ webcompare.Comparator = ContentComparator{}
	_ webcompare.Comparator = LengthComparator{}
	_ webcompare.Comparator = ChecksumComparator{}
)

// TitleComparator compares the <title> text of two HTML pages.
type TitleComparator struct{}

func (TitleComparator) Name() string { return "TitleComparator" }

// Compare scores MatchNothing if either page is not HTML or has no title.
func (TitleComparator) Compare(origin, target *webcompare.Page) int {
	if !bothHTML(origin, target) {
		return webcompare.MatchNothing
	}
	ot, ok := origin.Document.Title()
	if !ok {
		return webcompare.MatchNothing
	}
	tt, ok := target.Document.Title()
	if !ok {
		return webcompare.MatchNothing
	}
	return Fuzziness(ot, tt)
}

// BodyComparator compares the visible body text of two HTML pages, with
// scripts, styles and other non-content elements dropped.
type BodyComparator struct{}

func (BodyComparator) Name() string { return "BodyComparator" }

func (BodyComparator) Compare(origin, target *webcompare.Page) int {
	if !bothHTML(origin, target) {
		return webcompare.MatchNothing
	}
	return Fuzziness(origin.Document.BodyText(true), target.Document.BodyText(true))
}

// ContentComparator compares the raw response bodies, markup included.
type ContentComparator struct{}

func (ContentComparator) Name() string { return "ContentComparator" }

func (ContentComparator) Compare(origin, target *webcompare.Page) int {
	return Fuzziness(string(origin.Body()), string(target.Body()))
}

// LengthComparator compares raw body sizes: the shorter length as a share
// of the longer one.
type LengthComparator struct{}

func (LengthComparator) Name() string { return "LengthComparator" }

func (LengthComparator) Compare(origin, target *webcompare.Page) int {
	ol, tl := len(origin.Body()), len(target.Body())
	if ol == 0 || tl == 0 {
		return webcompare.MatchNothing
	}
	return Unfraction(float64(min(ol, tl)) / float64(max(ol, tl)))
}

// ChecksumComparator scores MatchPerfect when the raw bodies are byte for
// byte identical and MatchNothing otherwise.
type ChecksumComparator struct{}

func (ChecksumComparator) Name() string { return "ChecksumComparator" }

func (ChecksumComparator) Compare(origin, target *webcompare.Page) int {
	ob, tb := origin.Body(), target.Body()
	if len(ob) == 0 || len(tb) == 0 {
		return webcompare.MatchNothing
	}
	if xxhash.Sum64(ob) == xxhash.Sum64(tb) {
		return webcompare.MatchPerfect
	}
	return webcompare.MatchNothing
}

func bothHTML(origin, target *webcompare.Page) bool {
	return origin != nil && target != nil && origin.Document != nil && target.Document != nil
}
