package webcompare

import "context"

// URLSet records URLs for deduplication.
type URLSet interface {
	// Add records the URL.
	Add(url string)

	// Test reports whether the URL may have been added.
	Test(url string) bool
}

// URLFrontier is a FIFO crawl queue with deduplication.
type URLFrontier interface {
	// Push appends a URL to the queue.
	// Returns false if the URL has already been queued or visited.
	Push(url string) bool

	// Pop removes and returns the oldest queued URL.
	// Returns false if the frontier is empty.
	Pop() (string, bool)

	// Len returns the number of URLs in the queue.
	Len() int

	// Seen returns true if the URL has been queued or visited.
	Seen(url string) bool

	// MarkSeen records a URL as visited without queueing it.
	MarkSeen(url string)
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}

// RobotsPolicy decides whether robots.txt allows crawling a URL.
type RobotsPolicy interface {
	Allowed(ctx context.Context, url string) bool
}
