package mock

import (
	"context"

	"github.com/fwojciec/webcompare"
)

var _ webcompare.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of webcompare.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string, filter *webcompare.URLFilter) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *webcompare.URLFilter) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL, filter)
}
