package goquery

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// voidElements never have content or an end tag.
var voidElements = setOf(
	"area", "base", "br", "col", "embed", "hr", "img", "input", "keygen",
	"link", "meta", "param", "source", "track", "wbr",
)

// optionalEndTags may be left open without a warning.
var optionalEndTags = setOf(
	"html", "head", "body", "p", "li", "dt", "dd", "option", "optgroup",
	"tr", "td", "th", "thead", "tbody", "tfoot", "colgroup", "caption",
	"rb", "rt", "rtc", "rp",
)

// knownElements are the HTML element names that are not reported as
// unrecognized. Custom elements (names containing "-") and anything inside
// <svg> or <math> are always accepted.
var knownElements = setOf(
	"a", "abbr", "acronym", "address", "applet", "area", "article", "aside",
	"audio", "b", "base", "basefont", "bdi", "bdo", "big", "blockquote", "body",
	"br", "button", "canvas", "caption", "center", "cite", "code", "col",
	"colgroup", "data", "datalist", "dd", "del", "details", "dfn", "dialog",
	"dir", "div", "dl", "dt", "em", "embed", "fieldset", "figcaption", "figure",
	"font", "footer", "form", "frame", "frameset", "h1", "h2", "h3", "h4", "h5",
	"h6", "head", "header", "hgroup", "hr", "html", "i", "iframe", "img",
	"input", "ins", "kbd", "keygen", "label", "legend", "li", "link", "main",
	"map", "mark", "math", "menu", "meta", "meter", "nav", "nobr", "noembed",
	"noframes", "noscript", "object", "ol", "optgroup", "option", "output",
	"p", "param", "picture", "pre", "progress", "q", "rb", "rp", "rt", "rtc",
	"ruby", "s", "samp", "script", "search", "section", "select", "slot",
	"small", "source", "span", "strike", "strong", "style", "sub", "summary",
	"sup", "svg", "table", "tbody", "td", "template", "textarea", "tfoot",
	"th", "thead", "time", "title", "tr", "track", "tt", "u", "ul", "var",
	"video", "wbr", "xmp",
)

func setOf(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

type openElement struct {
	name      string
	line, col int
}

// Validate reports HTML validity problems in the style of HTML Tidy, one
// line per problem: "line L column C - Warning: message". The result is
// never nil. A missing DOCTYPE is not reported.
func Validate(r io.Reader) ([]string, error) {
	v := &validator{z: html.NewTokenizer(r), line: 1, col: 1, warnings: []string{}}
	if err := v.run(); err != nil {
		return nil, err
	}
	return v.warnings, nil
}

// ValidateBytes is Validate over an in-memory document.
func ValidateBytes(body []byte) []string {
	warnings, _ := Validate(bytes.NewReader(body))
	if warnings == nil {
		return []string{}
	}
	return warnings
}

type validator struct {
	z         *html.Tokenizer
	line, col int
	stack     []openElement
	foreign   int
	warnings  []string
}

func (v *validator) warnf(line, col int, format string, args ...any) {
	v.warnings = append(v.warnings,
		fmt.Sprintf("line %d column %d - Warning: %s", line, col, fmt.Sprintf(format, args...)))
}

func (v *validator) run() error {
	for {
		tt := v.z.Next()
		line, col := v.line, v.col
		v.advance(v.z.Raw())

		switch tt {
		case html.ErrorToken:
			if err := v.z.Err(); err != io.EOF {
				return err
			}
			v.closeAll()
			return nil
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := v.z.Token()
			v.startTag(tok, line, col, tt == html.SelfClosingTagToken)
		case html.EndTagToken:
			tok := v.z.Token()
			v.endTag(tok.Data, line, col)
		}
	}
}

// advance moves the position past raw.
func (v *validator) advance(raw []byte) {
	for _, b := range raw {
		if b == '\n' {
			v.line++
			v.col = 1
		} else {
			v.col++
		}
	}
}

func (v *validator) startTag(tok html.Token, line, col int, selfClosing bool) {
	name := tok.Data

	if v.foreign == 0 && !knownElements[name] && !isCustomElement(name) {
		v.warnf(line, col, "<%s> is not recognized!", name)
	}

	seen := make(map[string]bool, len(tok.Attr))
	hasAlt := false
	for _, a := range tok.Attr {
		if seen[a.Key] {
			v.warnf(line, col, "<%s> dropping value %q for repeated attribute %q", name, a.Val, a.Key)
			continue
		}
		seen[a.Key] = true
		if a.Key == "alt" {
			hasAlt = true
		}
	}
	if name == "img" && v.foreign == 0 && !hasAlt {
		v.warnf(line, col, "<img> lacks \"alt\" attribute")
	}

	if selfClosing || (v.foreign == 0 && voidElements[name]) {
		return
	}
	if name == "svg" || name == "math" {
		v.foreign++
	}
	v.stack = append(v.stack, openElement{name: name, line: line, col: col})
}

func (v *validator) endTag(name string, line, col int) {
	idx := -1
	for i := len(v.stack) - 1; i >= 0; i-- {
		if v.stack[i].name == name {
			idx = i
			break
		}
	}
	if idx == -1 {
		v.warnf(line, col, "discarding unexpected </%s>", name)
		return
	}
	for i := len(v.stack) - 1; i > idx; i-- {
		open := v.stack[i]
		if v.foreign == 0 && !optionalEndTags[open.name] {
			v.warnf(line, col, "missing </%s> before </%s>", open.name, name)
		}
		v.pop()
	}
	v.pop()
}

func (v *validator) pop() {
	top := v.stack[len(v.stack)-1]
	if top.name == "svg" || top.name == "math" {
		v.foreign--
	}
	v.stack = v.stack[:len(v.stack)-1]
}

func (v *validator) closeAll() {
	for len(v.stack) > 0 {
		open := v.stack[len(v.stack)-1]
		if v.foreign == 0 && !optionalEndTags[open.name] {
			v.warnf(open.line, open.col, "missing </%s>", open.name)
		}
		v.pop()
	}
}

func isCustomElement(name string) bool {
	return strings.IndexByte(name, '-') > 0
}
