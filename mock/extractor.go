package mock

import "github.com/fwojciec/webcompare"

var _ webcompare.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of webcompare.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*webcompare.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*webcompare.ExtractResult, error) {
	return e.ExtractFn(html)
}
