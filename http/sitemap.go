package http

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/webcompare"
	"github.com/temoto/robotstxt"
)

// DefaultMaxSitemaps bounds how many sitemap documents one discovery reads,
// index files included.
const DefaultMaxSitemaps = 500

// Ensure SitemapService implements webcompare.SitemapService.
var _ webcompare.SitemapService = (*SitemapService)(nil)

// SitemapService discovers URLs from website sitemaps. Requests go through a
// webcompare.Fetcher so they share its timeout, user agent and logging.
type SitemapService struct {
	fetcher     webcompare.Fetcher
	maxSitemaps int
}

// NewSitemapService creates a SitemapService using fetcher.
// If fetcher is nil, a default Fetcher is used.
func NewSitemapService(fetcher webcompare.Fetcher) *SitemapService {
	if fetcher == nil {
		fetcher = NewFetcher()
	}
	return &SitemapService{fetcher: fetcher, maxSitemaps: DefaultMaxSitemaps}
}

// DiscoverURLs finds all URLs from a site's sitemap that start with baseURL.
// Returns an empty slice (not nil) if no sitemaps are found.
func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *webcompare.URLFilter) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, webcompare.Errorf(webcompare.EINVALID, "invalid base URL: %v", err)
	}

	// Sitemaps are announced at the root of the host, whatever the base path.
	root := &url.URL{Scheme: base.Scheme, Host: base.Host}

	sitemapURLs, err := s.findSitemapURLs(ctx, root)
	if err != nil {
		return nil, err
	}

	urls := []string{}
	seenSitemaps := make(map[string]bool)
	seenURLs := make(map[string]bool)

	for _, sitemapURL := range sitemapURLs {
		found, err := s.processSitemap(ctx, sitemapURL, seenSitemaps)
		if err != nil {
			return nil, err
		}
		for _, u := range found {
			if seenURLs[u] || !strings.HasPrefix(u, baseURL) || !filter.Match(u) {
				continue
			}
			seenURLs[u] = true
			urls = append(urls, u)
		}
	}

	return urls, nil
}

// findSitemapURLs discovers sitemap URLs from robots.txt or falls back to /sitemap.xml.
func (s *SitemapService) findSitemapURLs(ctx context.Context, root *url.URL) ([]string, error) {
	robotsURL := root.ResolveReference(&url.URL{Path: "/robots.txt"})
	resp, err := s.fetcher.Fetch(ctx, robotsURL.String())
	if err != nil && ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if err == nil && resp.StatusCode == http.StatusOK {
		robots, err := robotstxt.FromStatusAndBytes(resp.StatusCode, resp.Body)
		if err == nil && len(robots.Sitemaps) > 0 {
			return robots.Sitemaps, nil
		}
	}

	sitemapURL := root.ResolveReference(&url.URL{Path: "/sitemap.xml"})
	return []string{sitemapURL.String()}, nil
}

// processSitemap fetches and parses a sitemap, handling both urlset and
// sitemapindex. A missing sitemap contributes no URLs.
func (s *SitemapService) processSitemap(ctx context.Context, sitemapURL string, seen map[string]bool) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if seen[sitemapURL] || len(seen) >= s.maxSitemaps {
		return nil, nil
	}
	seen[sitemapURL] = true

	resp, err := s.fetcher.Fetch(ctx, sitemapURL)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}

	body, err := decompress(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading sitemap %s: %w", sitemapURL, err)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return nil, fmt.Errorf("parsing sitemap XML %s: %w", sitemapURL, err)
	}

	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("empty sitemap XML %s", sitemapURL)
	}

	if root.Tag == "sitemapindex" {
		return s.processSitemapIndex(ctx, root, seen)
	}
	return parseURLSet(root), nil
}

// processSitemapIndex processes a <sitemapindex> element recursively.
func (s *SitemapService) processSitemapIndex(ctx context.Context, root *etree.Element, seen map[string]bool) ([]string, error) {
	var allURLs []string

	for _, sitemap := range root.SelectElements("sitemap") {
		loc := sitemap.SelectElement("loc")
		if loc == nil {
			continue
		}
		sitemapURL := strings.TrimSpace(loc.Text())
		if sitemapURL == "" {
			continue
		}

		urls, err := s.processSitemap(ctx, sitemapURL, seen)
		if err != nil {
			return nil, err
		}
		allURLs = append(allURLs, urls...)
	}

	return allURLs, nil
}

// parseURLSet extracts URLs from a <urlset> element.
func parseURLSet(root *etree.Element) []string {
	var urls []string
	for _, urlEl := range root.SelectElements("url") {
		loc := urlEl.SelectElement("loc")
		if loc == nil {
			continue
		}
		u := strings.TrimSpace(loc.Text())
		if u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

// decompress unwraps gzip-compressed sitemaps (sitemap.xml.gz).
func decompress(body []byte) ([]byte, error) {
	if len(body) < 2 || body[0] != 0x1f || body[1] != 0x8b {
		return body, nil
	}
	zr, err := gzip.NewReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}
