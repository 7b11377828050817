package compare

import (
	"github.com/fwojciec/webcompare"
)

var (
	_ webcompare.Comparator = (*ExtractComparator)(nil)
	_ webcompare.Comparator = (*MarkdownComparator)(nil)
)

// ExtractComparator compares the main article text of two pages, as
// found by an Extractor. Navigation, sidebars and footers that differ
// between site templates do not affect the score.
type ExtractComparator struct {
	name      string
	extractor webcompare.Extractor
}

// NewExtractComparator returns an ExtractComparator reporting under name.
func NewExtractComparator(name string, extractor webcompare.Extractor) *ExtractComparator {
	return &ExtractComparator{name: name, extractor: extractor}
}

func (c *ExtractComparator) Name() string { return c.name }

// Compare scores MatchNothing if either page is not HTML or extraction fails.
func (c *ExtractComparator) Compare(origin, target *webcompare.Page) int {
	if !bothHTML(origin, target) {
		return webcompare.MatchNothing
	}
	ot, ok := c.text(origin)
	if !ok {
		return webcompare.MatchNothing
	}
	tt, ok := c.text(target)
	if !ok {
		return webcompare.MatchNothing
	}
	return Fuzziness(ot, tt)
}

func (c *ExtractComparator) text(p *webcompare.Page) (string, bool) {
	html, err := p.Document.HTML()
	if err != nil {
		return "", false
	}
	res, err := c.extractor.Extract(html)
	if err != nil {
		return "", false
	}
	return res.Text, true
}

// MarkdownComparator compares pages rendered to Markdown, so differences in
// headings, lists, links and tables count even when the plain text matches.
type MarkdownComparator struct {
	converter webcompare.Converter
}

// NewMarkdownComparator returns a MarkdownComparator using converter.
func NewMarkdownComparator(converter webcompare.Converter) *MarkdownComparator {
	return &MarkdownComparator{converter: converter}
}

func (c *MarkdownComparator) Name() string { return "MarkdownComparator" }

func (c *MarkdownComparator) Compare(origin, target *webcompare.Page) int {
	if !bothHTML(origin, target) {
		return webcompare.MatchNothing
	}
	om, ok := c.markdown(origin)
	if !ok {
		return webcompare.MatchNothing
	}
	tm, ok := c.markdown(target)
	if !ok {
		return webcompare.MatchNothing
	}
	return Fuzziness(om, tm)
}

func (c *MarkdownComparator) markdown(p *webcompare.Page) (string, bool) {
	html, err := p.Document.HTML()
	if err != nil {
		return "", false
	}
	md, err := c.converter.Convert(html)
	if err != nil {
		return "", false
	}
	return md, true
}
