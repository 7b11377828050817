// Package robotstxt implements webcompare.RobotsPolicy on top of
// github.com/temoto/robotstxt.
package robotstxt

import (
	"context"
	"net/url"
	"sync"

	"github.com/fwojciec/webcompare"
	"github.com/temoto/robotstxt"
)

// DefaultUserAgent is the agent name matched against robots.txt groups.
const DefaultUserAgent = "webcompare"

// Ensure Policy implements webcompare.RobotsPolicy.
var _ webcompare.RobotsPolicy = (*Policy)(nil)

// Policy answers whether a URL may be crawled. Each host's robots.txt is
// fetched once and cached for the lifetime of the Policy.
type Policy struct {
	fetcher   webcompare.Fetcher
	userAgent string

	mu    sync.Mutex
	hosts map[string]*hostRules
}

type hostRules struct {
	once sync.Once
	data *robotstxt.RobotsData
}

// Option configures a Policy.
type Option func(*Policy)

// WithUserAgent sets the agent name used to select a robots.txt group.
func WithUserAgent(ua string) Option {
	return func(p *Policy) {
		p.userAgent = ua
	}
}

// NewPolicy creates a Policy that fetches robots.txt files with fetcher.
func NewPolicy(fetcher webcompare.Fetcher, opts ...Option) *Policy {
	p := &Policy{
		fetcher:   fetcher,
		userAgent: DefaultUserAgent,
		hosts:     make(map[string]*hostRules),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Allowed reports whether rawURL may be fetched. URLs that cannot be parsed
// and hosts whose robots.txt cannot be retrieved are allowed.
func (p *Policy) Allowed(ctx context.Context, rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return true
	}

	data := p.rules(ctx, u)
	if data == nil {
		return true
	}
	return data.TestAgent(u.RequestURI(), p.userAgent)
}

func (p *Policy) rules(ctx context.Context, u *url.URL) *robotstxt.RobotsData {
	key := u.Scheme + "://" + u.Host

	p.mu.Lock()
	h, ok := p.hosts[key]
	if !ok {
		h = &hostRules{}
		p.hosts[key] = h
	}
	p.mu.Unlock()

	h.once.Do(func() {
		h.data = p.fetch(ctx, key)
	})
	return h.data
}

// fetch retrieves and parses robots.txt for origin. A 4xx response allows
// everything and a 5xx response disallows everything.
func (p *Policy) fetch(ctx context.Context, origin string) *robotstxt.RobotsData {
	resp, err := p.fetcher.Fetch(ctx, origin+"/robots.txt")
	if err != nil {
		return nil
	}
	data, err := robotstxt.FromStatusAndBytes(resp.StatusCode, resp.Body)
	if err != nil {
		return nil
	}
	return data
}
