package htmltomarkdown_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/webcompare"
	"github.com/fwojciec/webcompare/htmltomarkdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pricingPage renders the same page as each site would serve it: links
// point at the site's own host.
func pricingPage(host string) string {
	return strings.ReplaceAll(`<html><body>
<h1>Pricing</h1>
<p>Compare plans below or read the <a href="https://HOST/docs/billing">billing guide</a>.</p>
<ul>
<li><a href="https://HOST/plans/starter">Starter</a></li>
<li><a href="/plans/team">Team</a></li>
</ul>
<table>
<tr><th>Plan</th><th>Seats</th></tr>
<tr><td>Starter</td><td>3</td></tr>
</table>
<p>Annual price: <del>120</del> 99</p>
</body></html>`, "HOST", host)
}

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()

		_, err := htmltomarkdown.NewConverter().Convert(" \n ")

		require.Error(t, err)
		assert.Equal(t, webcompare.EINVALID, webcompare.ErrorCode(err))
	})

	t.Run("renders the page structure", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert(pricingPage("old.example.com"))

		require.NoError(t, err)
		assert.Contains(t, md, "# Pricing")
		assert.Contains(t, md, "- ")
		assert.Contains(t, md, "| Plan")
		assert.Contains(t, md, "---")
		assert.Contains(t, md, "~~120~~")
	})

	t.Run("keeps link targets by default", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert(pricingPage("old.example.com"))

		require.NoError(t, err)
		assert.Contains(t, md, "(https://old.example.com/docs/billing)")
	})

	t.Run("renders two hosts sharing paths identically without link targets", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter(htmltomarkdown.WithoutLinkTargets())
		origin, err := conv.Convert(pricingPage("old.example.com"))
		require.NoError(t, err)
		target, err := conv.Convert(pricingPage("www.example.org"))
		require.NoError(t, err)

		assert.Equal(t, origin, target)
		assert.Contains(t, origin, "billing guide")
		assert.NotContains(t, origin, "example")
	})

	t.Run("renders two hosts differently when link targets are kept", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		origin, err := conv.Convert(pricingPage("old.example.com"))
		require.NoError(t, err)
		target, err := conv.Convert(pricingPage("www.example.org"))
		require.NoError(t, err)

		assert.NotEqual(t, origin, target)
	})

	t.Run("distinguishes structure that plain text hides", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter(htmltomarkdown.WithoutLinkTargets())
		heading, err := conv.Convert(`<h2>Cancelling a plan</h2><p>Go to billing.</p>`)
		require.NoError(t, err)
		paragraph, err := conv.Convert(`<p>Cancelling a plan</p><p>Go to billing.</p>`)
		require.NoError(t, err)

		assert.NotEqual(t, heading, paragraph)
		assert.Contains(t, heading, "## Cancelling a plan")
	})
}
