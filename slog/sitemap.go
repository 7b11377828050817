package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/webcompare"
)

var _ webcompare.SitemapService = (*LoggingSitemapService)(nil)

// LoggingSitemapService logs the sitemap seeding of a walk. A failure is
// logged at warn level since the walk goes on from the origin base alone.
type LoggingSitemapService struct {
	next   webcompare.SitemapService
	logger *slog.Logger
}

// NewLoggingSitemapService wraps next.
func NewLoggingSitemapService(next webcompare.SitemapService, logger *slog.Logger) *LoggingSitemapService {
	return &LoggingSitemapService{next: next, logger: logger}
}

// DiscoverURLs delegates to the wrapped service.
func (s *LoggingSitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *webcompare.URLFilter) (urls []string, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"base", baseURL,
			"urls", len(urls),
			"duration", time.Since(begin),
		}
		if filter != nil && len(filter.Exclude) > 0 {
			attrs = append(attrs, "ignore_patterns", len(filter.Exclude))
		}
		if err != nil {
			s.logger.Warn("sitemap discovery failed", append(attrs, "err", err)...)
			return
		}
		s.logger.Info("sitemap discovery", attrs...)
	}(time.Now())
	return s.next.DiscoverURLs(ctx, baseURL, filter)
}
