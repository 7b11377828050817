package compare_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/fwojciec/webcompare"
	"github.com/fwojciec/webcompare/compare"
	"github.com/fwojciec/webcompare/mock"
	"github.com/stretchr/testify/assert"
)

// htmlPage builds a page whose document reports the given title and body text.
func htmlPage(title string, hasTitle bool, body string) *webcompare.Page {
	return &webcompare.Page{
		URL:      "http://example.test/",
		Response: &webcompare.Response{StatusCode: 200, Body: []byte("<html>" + body + "</html>")},
		Document: &mock.Document{
			TitleFn: func() (string, bool) { return title, hasTitle },
			BodyTextFn: func(cleaned bool) string {
				if !cleaned {
					return body + " var tracking = 1;"
				}
				return body
			},
			HTMLFn: func() (string, error) { return "<html><body>" + body + "</body></html>", nil },
		},
	}
}

func rawPage(body string) *webcompare.Page {
	return &webcompare.Page{
		URL:      "http://example.test/file.pdf",
		Response: &webcompare.Response{StatusCode: 200, Body: []byte(body)},
	}
}

func TestTitleComparator(t *testing.T) {
	t.Parallel()

	c := compare.TitleComparator{}

	t.Run("is named after itself", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "TitleComparator", c.Name())
	})

	t.Run("scores matching titles perfectly", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 100, c.Compare(htmlPage("About Us", true, ""), htmlPage("about us", true, "")))
	})

	t.Run("scores nothing when a title is missing", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 0, c.Compare(htmlPage("About", true, ""), htmlPage("", false, "")))
		assert.Equal(t, 0, c.Compare(htmlPage("", false, ""), htmlPage("About", true, "")))
	})

	t.Run("scores nothing for non-html pages", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 0, c.Compare(rawPage("x"), htmlPage("About", true, "")))
	})
}

func TestBodyComparator(t *testing.T) {
	t.Parallel()

	c := compare.BodyComparator{}

	t.Run("compares cleaned text", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 100, c.Compare(htmlPage("", false, "Hello world"), htmlPage("", false, "hello   world")))
	})

	t.Run("scores nothing for an empty body", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 0, c.Compare(htmlPage("", false, ""), htmlPage("", false, "text")))
	})

	t.Run("scores partial matches in between", func(t *testing.T) {
		t.Parallel()
		score := c.Compare(htmlPage("", false, "the cat sat on the mat"), htmlPage("", false, "the dog sat on the log"))
		assert.Greater(t, score, 0)
		assert.Less(t, score, 100)
	})
}

func TestContentComparator(t *testing.T) {
	t.Parallel()

	c := compare.ContentComparator{}

	assert.Equal(t, "ContentComparator", c.Name())
	assert.Equal(t, 100, c.Compare(rawPage("%PDF-1.4 data"), rawPage("%PDF-1.4 data")))
	assert.Equal(t, 0, c.Compare(rawPage(""), rawPage("data")))
}

func TestLengthComparator(t *testing.T) {
	t.Parallel()

	c := compare.LengthComparator{}

	tests := []struct {
		name           string
		origin, target int
		want           int
	}{
		{"equal lengths", 10, 10, 100},
		{"target half the origin", 100, 50, 50},
		{"origin half the target", 50, 100, 50},
		{"a third", 1, 3, 33},
		{"two thirds", 2, 3, 67},
		{"empty origin", 0, 10, 0},
		{"empty target", 10, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := c.Compare(rawPage(strings.Repeat("a", tt.origin)), rawPage(strings.Repeat("b", tt.target)))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestChecksumComparator(t *testing.T) {
	t.Parallel()

	c := compare.ChecksumComparator{}

	assert.Equal(t, 100, c.Compare(rawPage("same bytes"), rawPage("same bytes")))
	assert.Equal(t, 0, c.Compare(rawPage("same bytes"), rawPage("same bytes!")))
	assert.Equal(t, 0, c.Compare(rawPage(""), rawPage("")))
}

func TestExtractComparator(t *testing.T) {
	t.Parallel()

	t.Run("compares extracted text under its name", func(t *testing.T) {
		t.Parallel()

		extractor := &mock.Extractor{
			ExtractFn: func(html string) (*webcompare.ExtractResult, error) {
				text := strings.TrimSuffix(strings.TrimPrefix(html, "<html><body>"), "</body></html>")
				return &webcompare.ExtractResult{Text: text}, nil
			},
		}
		c := compare.NewExtractComparator("ReadabilityComparator", extractor)

		assert.Equal(t, "ReadabilityComparator", c.Name())
		assert.Equal(t, 100, c.Compare(htmlPage("", false, "Article"), htmlPage("", false, "article")))
	})

	t.Run("scores nothing when extraction fails", func(t *testing.T) {
		t.Parallel()

		extractor := &mock.Extractor{
			ExtractFn: func(string) (*webcompare.ExtractResult, error) {
				return nil, errors.New("no article")
			},
		}
		c := compare.NewExtractComparator("TrafilaturaComparator", extractor)

		assert.Equal(t, 0, c.Compare(htmlPage("", false, "a"), htmlPage("", false, "a")))
	})
}

func TestMarkdownComparator(t *testing.T) {
	t.Parallel()

	t.Run("compares converted markdown", func(t *testing.T) {
		t.Parallel()

		converter := &mock.Converter{
			ConvertFn: func(html string) (string, error) {
				if strings.Contains(html, "Heading") {
					return "# Heading", nil
				}
				return "Heading", nil
			},
		}
		c := compare.NewMarkdownComparator(converter)

		assert.Equal(t, "MarkdownComparator", c.Name())
		assert.Equal(t, 100, c.Compare(htmlPage("", false, "Heading"), htmlPage("", false, "Heading")))
		assert.Less(t, c.Compare(htmlPage("", false, "Heading"), htmlPage("", false, "other")), 100)
	})

	t.Run("scores nothing when conversion fails", func(t *testing.T) {
		t.Parallel()

		converter := &mock.Converter{
			ConvertFn: func(string) (string, error) { return "", errors.New("bad html") },
		}
		c := compare.NewMarkdownComparator(converter)

		assert.Equal(t, 0, c.Compare(htmlPage("", false, "a"), htmlPage("", false, "a")))
	})
}
