package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"regexp"
	"testing"

	"github.com/fwojciec/webcompare"
	"github.com/fwojciec/webcompare/mock"
	wcslog "github.com/fwojciec/webcompare/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingSitemapService_DiscoverURLs(t *testing.T) {
	t.Parallel()

	t.Run("logs the seeded url count at info", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.SitemapService{
			DiscoverURLsFn: func(context.Context, string, *webcompare.URLFilter) ([]string, error) {
				return []string{"http://old.test/shop/a", "http://old.test/shop/b", "http://old.test/shop/c"}, nil
			},
		}

		svc := wcslog.NewLoggingSitemapService(inner, slog.New(slog.NewTextHandler(&buf, nil)))
		urls, err := svc.DiscoverURLs(context.Background(), "http://old.test/shop/", nil)

		require.NoError(t, err)
		assert.Len(t, urls, 3)
		out := buf.String()
		assert.Contains(t, out, "level=INFO")
		assert.Contains(t, out, `msg="sitemap discovery"`)
		assert.Contains(t, out, "base=http://old.test/shop/")
		assert.Contains(t, out, "urls=3")
		assert.NotContains(t, out, "ignore_patterns")
	})

	t.Run("passes the ignore filter through and logs its size", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		filter := &webcompare.URLFilter{Exclude: []*regexp.Regexp{
			regexp.MustCompile(`/cart`),
			regexp.MustCompile(`\.pdf$`),
		}}
		var got *webcompare.URLFilter
		inner := &mock.SitemapService{
			DiscoverURLsFn: func(_ context.Context, _ string, f *webcompare.URLFilter) ([]string, error) {
				got = f
				return nil, nil
			},
		}

		svc := wcslog.NewLoggingSitemapService(inner, slog.New(slog.NewTextHandler(&buf, nil)))
		_, err := svc.DiscoverURLs(context.Background(), "http://old.test/", filter)

		require.NoError(t, err)
		assert.Same(t, filter, got)
		assert.Contains(t, buf.String(), "ignore_patterns=2")
	})

	t.Run("logs a failure at warn", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.SitemapService{
			DiscoverURLsFn: func(context.Context, string, *webcompare.URLFilter) ([]string, error) {
				return nil, errors.New("sitemap.xml: unexpected EOF")
			},
		}

		svc := wcslog.NewLoggingSitemapService(inner, slog.New(slog.NewTextHandler(&buf, nil)))
		_, err := svc.DiscoverURLs(context.Background(), "http://old.test/", nil)

		require.Error(t, err)
		out := buf.String()
		assert.Contains(t, out, "level=WARN")
		assert.Contains(t, out, `msg="sitemap discovery failed"`)
		assert.Contains(t, out, `err="sitemap.xml: unexpected EOF"`)
		assert.Contains(t, out, "urls=0")
	})
}
