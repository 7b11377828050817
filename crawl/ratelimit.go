package crawl

import (
	"context"
	"net/url"
	"sync"

	"github.com/fwojciec/webcompare"
	"golang.org/x/time/rate"
)

var _ webcompare.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter provides per-host rate limiting using token buckets.
// Origin and target hosts get separate buckets, so a walk never slows one
// site down on account of the other.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
}

// NewDomainLimiter creates a DomainLimiter allowing rps requests per second
// to each host, with a burst of 1. A non-positive rps disables limiting.
func NewDomainLimiter(rps float64) *DomainLimiter {
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    limit,
	}
}

// Wait blocks until the rate limit allows a request to the domain.
// Returns an error if the context is canceled before the wait completes.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	d.mu.Lock()
	limiter, ok := d.limiters[domain]
	if !ok {
		limiter = rate.NewLimiter(d.limit, 1)
		d.limiters[domain] = limiter
	}
	d.mu.Unlock()

	return limiter.Wait(ctx)
}

// waitForURL waits on the bucket for rawURL's host. A nil limiter or an
// unparseable URL never blocks; the fetch reports the bad URL instead.
func waitForURL(ctx context.Context, limiter webcompare.DomainLimiter, rawURL string) error {
	if limiter == nil {
		return nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil
	}
	return limiter.Wait(ctx, u.Host)
}

var _ webcompare.Fetcher = (*LimitedFetcher)(nil)

// LimitedFetcher waits on a DomainLimiter before every fetch. It paces
// requests made outside the walk, such as robots.txt and sitemap fetches.
type LimitedFetcher struct {
	next    webcompare.Fetcher
	limiter webcompare.DomainLimiter
}

// NewLimitedFetcher wraps next.
func NewLimitedFetcher(next webcompare.Fetcher, limiter webcompare.DomainLimiter) *LimitedFetcher {
	return &LimitedFetcher{next: next, limiter: limiter}
}

// Fetch waits for the URL's host bucket, then delegates.
func (f *LimitedFetcher) Fetch(ctx context.Context, url string) (*webcompare.Response, error) {
	if err := waitForURL(ctx, f.limiter, url); err != nil {
		return nil, err
	}
	return f.next.Fetch(ctx, url)
}
