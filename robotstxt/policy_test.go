package robotstxt_test

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/fwojciec/webcompare"
	"github.com/fwojciec/webcompare/mock"
	"github.com/fwojciec/webcompare/robotstxt"
	"github.com/stretchr/testify/assert"
)

func robotsFetcher(status int, body string, calls *atomic.Int32) *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (*webcompare.Response, error) {
			if calls != nil {
				calls.Add(1)
			}
			return &webcompare.Response{URL: url, StatusCode: status, Body: []byte(body)}, nil
		},
	}
}

func TestPolicy_Allowed(t *testing.T) {
	t.Parallel()

	robots := "User-agent: *\nDisallow: /private/\n\nUser-agent: webcompare\nDisallow: /slow/\n"

	t.Run("allows paths not disallowed", func(t *testing.T) {
		t.Parallel()

		p := robotstxt.NewPolicy(robotsFetcher(http.StatusOK, robots, nil), robotstxt.WithUserAgent("other"))

		assert.True(t, p.Allowed(context.Background(), "http://example.com/docs/"))
		assert.False(t, p.Allowed(context.Background(), "http://example.com/private/page"))
	})

	t.Run("selects the group for the configured agent", func(t *testing.T) {
		t.Parallel()

		p := robotstxt.NewPolicy(robotsFetcher(http.StatusOK, robots, nil))

		assert.False(t, p.Allowed(context.Background(), "http://example.com/slow/page"))
		assert.True(t, p.Allowed(context.Background(), "http://example.com/private/page"))
	})

	t.Run("allows everything when robots.txt is missing", func(t *testing.T) {
		t.Parallel()

		p := robotstxt.NewPolicy(robotsFetcher(http.StatusNotFound, "", nil))

		assert.True(t, p.Allowed(context.Background(), "http://example.com/private/page"))
	})

	t.Run("disallows everything on server errors", func(t *testing.T) {
		t.Parallel()

		p := robotstxt.NewPolicy(robotsFetcher(http.StatusServiceUnavailable, "", nil))

		assert.False(t, p.Allowed(context.Background(), "http://example.com/"))
	})

	t.Run("allows everything when the fetch fails", func(t *testing.T) {
		t.Parallel()

		f := &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (*webcompare.Response, error) {
				return nil, &webcompare.TransportError{URL: url, Err: errors.New("connection refused")}
			},
		}
		p := robotstxt.NewPolicy(f)

		assert.True(t, p.Allowed(context.Background(), "http://example.com/private/page"))
	})

	t.Run("fetches robots.txt once per host", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		var requested []string
		f := robotsFetcher(http.StatusOK, robots, &calls)
		fetch := f.FetchFn
		f.FetchFn = func(ctx context.Context, url string) (*webcompare.Response, error) {
			requested = append(requested, url)
			return fetch(ctx, url)
		}
		p := robotstxt.NewPolicy(f)

		p.Allowed(context.Background(), "http://example.com/a")
		p.Allowed(context.Background(), "http://example.com/b?q=1")
		p.Allowed(context.Background(), "http://other.example.com/a")

		assert.Equal(t, int32(2), calls.Load())
		assert.Equal(t, []string{
			"http://example.com/robots.txt",
			"http://other.example.com/robots.txt",
		}, requested)
	})

	t.Run("allows unparseable urls", func(t *testing.T) {
		t.Parallel()

		p := robotstxt.NewPolicy(robotsFetcher(http.StatusServiceUnavailable, "", nil))

		assert.True(t, p.Allowed(context.Background(), "::not a url"))
	})
}
