package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/webcompare"
)

// Ensure LoggingComparator implements webcompare.Comparator.
var _ webcompare.Comparator = (*LoggingComparator)(nil)

// LoggingComparator wraps a Comparator with debug logging of each score.
type LoggingComparator struct {
	next   webcompare.Comparator
	logger *slog.Logger
}

// NewLoggingComparator creates a new LoggingComparator.
func NewLoggingComparator(next webcompare.Comparator, logger *slog.Logger) *LoggingComparator {
	return &LoggingComparator{next: next, logger: logger}
}

// Name returns the wrapped comparator's name.
func (c *LoggingComparator) Name() string {
	return c.next.Name()
}

// Compare delegates to the wrapped comparator and logs the score.
func (c *LoggingComparator) Compare(origin, target *webcompare.Page) (score int) {
	defer func(begin time.Time) {
		c.logger.Debug("compare",
			"comparator", c.next.Name(),
			"url", origin.URL,
			"score", score,
			"duration", time.Since(begin),
		)
	}(time.Now())
	return c.next.Compare(origin, target)
}
