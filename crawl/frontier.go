package crawl

import (
	"sync"

	"github.com/fwojciec/webcompare"
)

// Compile-time interface verification.
var (
	_ webcompare.URLFrontier = (*Frontier)(nil)
	_ webcompare.URLSet      = (*StringSet)(nil)
)

// Frontier is an in-memory FIFO URL queue with deduplication.
// It is safe for concurrent use by multiple goroutines.
type Frontier struct {
	mu    sync.Mutex
	seen  webcompare.URLSet
	queue []string
	head  int
}

// NewFrontier creates a Frontier that records queued and visited URLs in
// seen. A nil seen uses an exact in-memory set.
func NewFrontier(seen webcompare.URLSet) *Frontier {
	if seen == nil {
		seen = NewStringSet()
	}
	return &Frontier{seen: seen}
}

// Push appends url to the queue.
// Returns false if the URL has already been queued or visited.
func (f *Frontier) Push(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.seen.Test(url) {
		return false
	}
	f.seen.Add(url)
	f.queue = append(f.queue, url)
	return true
}

// Pop returns the oldest queued URL.
// The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.head == len(f.queue) {
		return "", false
	}
	url := f.queue[f.head]
	f.queue[f.head] = ""
	f.head++
	if f.head == len(f.queue) {
		f.queue = f.queue[:0]
		f.head = 0
	}
	return url, true
}

// Len returns the number of URLs in the queue.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue) - f.head
}

// Seen returns true if the URL has been queued or visited.
func (f *Frontier) Seen(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen.Test(url)
}

// MarkSeen records url as visited without queueing it.
func (f *Frontier) MarkSeen(url string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen.Add(url)
}

// StringSet is an exact URLSet. It is not safe for concurrent use.
type StringSet struct {
	m map[string]struct{}
}

// NewStringSet returns an empty StringSet.
func NewStringSet() *StringSet {
	return &StringSet{m: make(map[string]struct{})}
}

// Add records url.
func (s *StringSet) Add(url string) {
	s.m[url] = struct{}{}
}

// Test reports whether url has been added.
func (s *StringSet) Test(url string) bool {
	_, ok := s.m[url]
	return ok
}

// Len returns the number of distinct URLs added.
func (s *StringSet) Len() int {
	return len(s.m)
}
