// Package bloom provides approximate URL deduplication for very large crawls.
package bloom

import (
	"github.com/bits-and-blooms/bloom/v3"
	"github.com/fwojciec/webcompare"
)

// DefaultFalsePositiveRate is used by NewURLSet.
const DefaultFalsePositiveRate = 0.001

var _ webcompare.URLSet = (*Filter)(nil)

// Filter is a webcompare.URLSet backed by a Bloom filter. Memory use is
// fixed at construction. A false positive makes the walker treat an
// unseen URL as seen, so the page is skipped rather than fetched twice.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected URLs
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// NewURLSet sizes a filter for n URLs at DefaultFalsePositiveRate.
func NewURLSet(n uint) *Filter {
	return NewFilter(n, DefaultFalsePositiveRate)
}

// Add records a URL.
func (f *Filter) Add(url string) {
	f.f.AddString(url)
}

// Test returns true if the URL might have been added.
func (f *Filter) Test(url string) bool {
	return f.f.TestString(url)
}

// EstimatedCount returns the approximate number of URLs added.
func (f *Filter) EstimatedCount() uint {
	return uint(f.f.ApproximatedSize())
}

// Capacity returns the size of the underlying bit set.
func (f *Filter) Capacity() uint {
	return f.f.Cap()
}
