package mock

import "github.com/fwojciec/webcompare"

var _ webcompare.Document = (*Document)(nil)

// Document is a mock implementation of webcompare.Document.
type Document struct {
	LinksFn          func() []string
	TitleFn          func() (string, bool)
	BodyTextFn       func(cleaned bool) string
	HTMLFn           func() (string, error)
	ParseErrorsFn    func() []string
	RemoveMatchingFn func(selector string) (int, error)
}

func (d *Document) Links() []string {
	return d.LinksFn()
}

func (d *Document) Title() (string, bool) {
	return d.TitleFn()
}

func (d *Document) BodyText(cleaned bool) string {
	return d.BodyTextFn(cleaned)
}

func (d *Document) HTML() (string, error) {
	return d.HTMLFn()
}

func (d *Document) ParseErrors() []string {
	return d.ParseErrorsFn()
}

func (d *Document) RemoveMatching(selector string) (int, error) {
	return d.RemoveMatchingFn(selector)
}

var _ webcompare.DocumentParser = (*DocumentParser)(nil)

// DocumentParser is a mock implementation of webcompare.DocumentParser.
type DocumentParser struct {
	ParseFn func(resp *webcompare.Response) (webcompare.Document, error)
}

func (p *DocumentParser) Parse(resp *webcompare.Response) (webcompare.Document, error) {
	return p.ParseFn(resp)
}
