// Package goquery parses fetched pages into webcompare.Documents using
// goquery, and validates their markup.
package goquery

import (
	"bytes"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/fwojciec/webcompare"
)

// Compile-time interface verification.
var (
	_ webcompare.DocumentParser = (*Parser)(nil)
	_ webcompare.Document       = (*Document)(nil)
)

// nonContentSelector matches elements whose text never counts as page
// content.
const nonContentSelector = "script, style, noscript, template, link, meta"

// Parser builds Documents from HTML responses.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse returns nil for responses that are not HTML.
func (p *Parser) Parse(resp *webcompare.Response) (webcompare.Document, error) {
	if resp == nil || !isHTML(resp) {
		return nil, nil
	}

	base, err := url.Parse(resp.URL)
	if err != nil {
		return nil, webcompare.Errorf(webcompare.EINVALID, "invalid page URL %q: %v", resp.URL, err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, webcompare.Errorf(webcompare.EINVALID, "failed to parse HTML: %v", err)
	}

	if href, ok := doc.Find("base[href]").First().Attr("href"); ok {
		if ref, err := url.Parse(strings.TrimSpace(href)); err == nil {
			base = base.ResolveReference(ref)
		}
	}

	return &Document{
		doc:    doc,
		base:   base,
		errors: ValidateBytes(resp.Body),
	}, nil
}

func isHTML(resp *webcompare.Response) bool {
	ct := resp.ContentType()
	if ct == "" {
		ct = http.DetectContentType(resp.Body)
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return false
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}

// Document is a parsed HTML page. Noise removal mutates it in place.
type Document struct {
	doc    *goquery.Document
	base   *url.URL
	errors []string
}

// Links returns the absolute http(s) URLs of a[href] and area[href]
// elements in document order, without duplicates.
func (d *Document) Links() []string {
	seen := make(map[string]bool)
	var links []string
	d.doc.Find("a[href], area[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || isNonHTTPLink(href) {
			return
		}
		resolved := resolveURL(d.base, href)
		if resolved == "" || seen[resolved] {
			return
		}
		seen[resolved] = true
		links = append(links, resolved)
	})
	return links
}

// Title returns the text of the first <title> element.
func (d *Document) Title() (string, bool) {
	title := d.doc.Find("title").First()
	if title.Length() == 0 {
		return "", false
	}
	return title.Text(), true
}

// BodyText returns the text of <body>. Comments never contribute.
func (d *Document) BodyText(cleaned bool) string {
	body := d.doc.Find("body").First()
	if body.Length() == 0 {
		body = d.doc.Selection
	}
	if !cleaned {
		return body.Text()
	}
	clone := body.Clone()
	clone.Find(nonContentSelector).Remove()
	return clone.Text()
}

// HTML renders the document as it stands after any removals.
func (d *Document) HTML() (string, error) {
	return d.doc.Html()
}

// ParseErrors returns the markup diagnostics found when the page was parsed.
func (d *Document) ParseErrors() []string {
	out := make([]string, len(d.errors))
	copy(out, d.errors)
	return out
}

// RemoveMatching removes every element matching the CSS selector.
func (d *Document) RemoveMatching(selector string) (int, error) {
	m, err := cascadia.Compile(selector)
	if err != nil {
		return 0, webcompare.Errorf(webcompare.EINVALID, "invalid selector %q: %v", selector, err)
	}
	sel := d.doc.FindMatcher(m)
	n := sel.Length()
	sel.Remove()
	return n, nil
}

// CompileSelectors checks that every selector is valid CSS, reporting the
// first invalid one as EINVALID.
func CompileSelectors(selectors []string) error {
	for _, s := range selectors {
		if _, err := cascadia.Compile(s); err != nil {
			return webcompare.Errorf(webcompare.EINVALID, "invalid selector %q: %v", s, err)
		}
	}
	return nil
}

// resolveURL resolves href against base, dropping the fragment.
// Returns empty string if href cannot be parsed or the result is not
// an http(s) URL.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""
	resolved.RawFragment = ""
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	return resolved.String()
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(href)
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}
