package mock

import "github.com/fwojciec/webcompare"

var _ webcompare.Converter = (*Converter)(nil)

// Converter is a mock implementation of webcompare.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
