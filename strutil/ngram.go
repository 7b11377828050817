// Package strutil scores page similarity with string metrics from
// github.com/adrg/strutil.
package strutil

import (
	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"github.com/fwojciec/webcompare"
	"github.com/fwojciec/webcompare/compare"
)

// DefaultNgramSize is the n-gram length used by NewNgramComparator.
const DefaultNgramSize = 2

var _ webcompare.Comparator = (*NgramComparator)(nil)

// NgramComparator compares the cleaned body text of two pages with the
// Sørensen–Dice coefficient over character n-grams. Unlike the sequence
// ratio it ignores the order of passages, so moved sections still score.
type NgramComparator struct {
	metric *metrics.SorensenDice
}

// NewNgramComparator returns a comparator over n-grams of size n. A
// non-positive n uses DefaultNgramSize.
func NewNgramComparator(n int) *NgramComparator {
	if n <= 0 {
		n = DefaultNgramSize
	}
	m := metrics.NewSorensenDice()
	m.NgramSize = n
	return &NgramComparator{metric: m}
}

func (c *NgramComparator) Name() string { return "NgramComparator" }

// Compare scores MatchNothing if either page is not HTML or has no text.
func (c *NgramComparator) Compare(origin, target *webcompare.Page) int {
	if origin == nil || target == nil || origin.Document == nil || target.Document == nil {
		return webcompare.MatchNothing
	}
	ot := compare.Normalize(origin.Document.BodyText(true))
	tt := compare.Normalize(target.Document.BodyText(true))
	if ot == "" || tt == "" {
		return webcompare.MatchNothing
	}
	if ot == tt {
		return webcompare.MatchPerfect
	}
	return compare.Unfraction(strutil.Similarity(ot, tt, c.metric))
}
