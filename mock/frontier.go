package mock

import (
	"context"

	"github.com/fwojciec/webcompare"
)

var _ webcompare.URLSet = (*URLSet)(nil)

// URLSet is a mock implementation of webcompare.URLSet.
type URLSet struct {
	AddFn  func(url string)
	TestFn func(url string) bool
}

func (s *URLSet) Add(url string) {
	s.AddFn(url)
}

func (s *URLSet) Test(url string) bool {
	return s.TestFn(url)
}

var _ webcompare.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of webcompare.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}

var _ webcompare.RobotsPolicy = (*RobotsPolicy)(nil)

// RobotsPolicy is a mock implementation of webcompare.RobotsPolicy.
type RobotsPolicy struct {
	AllowedFn func(ctx context.Context, url string) bool
}

func (p *RobotsPolicy) Allowed(ctx context.Context, url string) bool {
	return p.AllowedFn(ctx, url)
}
