package mock

import "github.com/fwojciec/webcompare"

var _ webcompare.Comparator = (*Comparator)(nil)

// Comparator is a mock implementation of webcompare.Comparator.
type Comparator struct {
	NameFn    func() string
	CompareFn func(origin, target *webcompare.Page) int
}

func (c *Comparator) Name() string {
	return c.NameFn()
}

func (c *Comparator) Compare(origin, target *webcompare.Page) int {
	return c.CompareFn(origin, target)
}
