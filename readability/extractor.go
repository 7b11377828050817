// Package readability finds the article of a page with go-readability. Its
// text feeds the ReadabilityComparator, which scores origin and target on
// what the page says rather than on the site template around it.
package readability

import (
	"strings"

	"github.com/fwojciec/webcompare"
	"github.com/go-shiori/go-readability"
)

var _ webcompare.Extractor = (*Extractor)(nil)

// Extractor returns the article of a page with navigation, headers, footers
// and sidebars stripped.
type Extractor struct{}

// NewExtractor returns an Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract parses rawHTML and returns its article. Text has runs of
// whitespace collapsed, so a template that wraps or indents the same
// paragraphs differently yields the same text.
func (e *Extractor) Extract(rawHTML string) (*webcompare.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, webcompare.Errorf(webcompare.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, webcompare.Errorf(webcompare.EINVALID, "no readable article: %v", err)
	}

	return &webcompare.ExtractResult{
		Title:       strings.TrimSpace(article.Title),
		ContentHTML: article.Content,
		Text:        collapseSpace(article.TextContent),
	}, nil
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
