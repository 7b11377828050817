package compare

import (
	"sort"
	"sync"

	"github.com/fwojciec/webcompare"
)

var _ webcompare.ComparatorRegistry = (*Registry)(nil)

// DefaultComparators are the comparator names used when none are chosen.
var DefaultComparators = []string{"LengthComparator", "TitleComparator", "BodyComparator"}

// Registry maps comparator names to comparators. It is safe for
// concurrent use.
type Registry struct {
	mu          sync.RWMutex
	comparators map[string]webcompare.Comparator
}

// NewRegistry creates a Registry holding the comparators that need no
// configuration.
func NewRegistry() *Registry {
	r := &Registry{comparators: make(map[string]webcompare.Comparator)}
	r.Register(TitleComparator{})
	r.Register(BodyComparator{})
	r.Register(ContentComparator{})
	r.Register(LengthComparator{})
	r.Register(ChecksumComparator{})
	return r
}

// Get returns the comparator registered under name.
func (r *Registry) Get(name string) (webcompare.Comparator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.comparators[name]
	if !ok {
		return nil, webcompare.Errorf(webcompare.ENOTFOUND, "unknown comparator %q", name)
	}
	return c, nil
}

// Register adds c under its name.
// If a comparator is already registered with that name, it is replaced.
func (r *Registry) Register(c webcompare.Comparator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.comparators[c.Name()] = c
}

// List returns all registered names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.comparators))
	for name := range r.comparators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve looks up each name in order. It fails on the first unknown name.
func (r *Registry) Resolve(names []string) ([]webcompare.Comparator, error) {
	out := make([]webcompare.Comparator, 0, len(names))
	for _, name := range names {
		c, err := r.Get(name)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
