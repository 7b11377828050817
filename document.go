package webcompare

// Document is a parsed HTML page.
type Document interface {
	// Links returns the absolute URLs of all hyperlinks in the document,
	// in document order. Relative references are resolved against the
	// document's <base href> or its final URL.
	Links() []string

	// Title returns the text of the <title> element.
	// The bool result is false if the document has no title element.
	Title() (string, bool)

	// BodyText returns the text content of <body>. When cleaned is true,
	// scripts, styles and other non-content elements are dropped first.
	BodyText(cleaned bool) string

	// HTML renders the current document, including any noise removal.
	HTML() (string, error)

	// ParseErrors returns HTML validity diagnostics, one per line.
	ParseErrors() []string

	// RemoveMatching removes every element matching the CSS selector and
	// returns the number of elements removed.
	RemoveMatching(selector string) (int, error)
}

// DocumentParser builds Documents from fetched responses.
type DocumentParser interface {
	// Parse returns the parsed document, or nil if the response is not HTML.
	Parse(resp *Response) (Document, error)
}

// Page is one side of a comparison: the response and, for HTML content,
// its parsed document.
type Page struct {
	URL      string
	Response *Response
	// Document is nil when the content is not HTML.
	Document Document
}

// Body returns the raw response body.
func (p *Page) Body() []byte {
	if p == nil || p.Response == nil {
		return nil
	}
	return p.Response.Body
}
