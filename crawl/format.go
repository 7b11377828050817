package crawl

import (
	"fmt"
	"sort"
	"strings"
)

// TruncateURL shortens a URL for display, keeping the end which is more informative.
func TruncateURL(url string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if maxLen < 4 {
		// Too short for "..." prefix, just return dots
		return url[:min(len(url), maxLen)]
	}
	if len(url) <= maxLen {
		return url
	}
	return "..." + url[len(url)-maxLen+3:]
}

// FormatScores renders comparator scores sorted by name, e.g.
// "BodyComparator=87 TitleComparator=100".
func FormatScores(scores map[string]int) string {
	names := make([]string, 0, len(scores))
	for name := range scores {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s=%d", name, scores[name])
	}
	return strings.Join(parts, " ")
}

// FormatStats renders report stats sorted by result type name.
func FormatStats(stats map[string]int) string {
	if len(stats) == 0 {
		return "no results"
	}
	return FormatScores(stats)
}
