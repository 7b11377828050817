package mock

import (
	"context"

	"github.com/fwojciec/webcompare"
)

var _ webcompare.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of webcompare.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (*webcompare.Response, error)
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*webcompare.Response, error) {
	return f.FetchFn(ctx, url)
}
