package webcompare

// Comparator scores how similar two pages are.
type Comparator interface {
	// Name identifies the comparator in result comparisons.
	Name() string

	// Compare returns a score between MatchNothing and MatchPerfect.
	Compare(origin, target *Page) int
}

// Score bounds for comparators.
const (
	MatchNothing = 0
	MatchPerfect = 100
)

// ComparatorRegistry resolves comparators by name.
type ComparatorRegistry interface {
	// Get returns the comparator registered under name.
	// Returns ENOTFOUND if no comparator has that name.
	Get(name string) (Comparator, error)

	// Register adds a comparator, replacing any with the same name.
	Register(c Comparator)

	// List returns all registered names in sorted order.
	List() []string
}
