// Package trafilatura finds the main content of a page with go-trafilatura.
// Its text feeds the TrafilaturaComparator.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/webcompare"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

var _ webcompare.Extractor = (*Extractor)(nil)

// Extractor returns the main content of a page without its template.
// Reader comment sections are excluded; they change independently of the
// page they sit under.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract parses rawHTML and returns its main content. Text has runs of
// whitespace collapsed.
func (e *Extractor) Extract(rawHTML string) (*webcompare.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, webcompare.Errorf(webcompare.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback:  true,
		ExcludeComments: true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, webcompare.Errorf(webcompare.EINVALID, "no main content: %v", err)
	}

	var contentHTML string
	if result.ContentNode != nil {
		contentHTML, err = renderNode(result.ContentNode)
		if err != nil {
			return nil, err
		}
	}

	return &webcompare.ExtractResult{
		Title:       result.Metadata.Title,
		ContentHTML: contentHTML,
		Text:        strings.Join(strings.Fields(result.ContentText), " "),
	}, nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
