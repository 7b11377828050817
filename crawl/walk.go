// Package crawl walks an origin site, fetches the matching target page for
// every origin page it finds, and records how the two compare.
package crawl

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"sync"

	"github.com/fwojciec/webcompare"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of pages processed at once when
// Walker.Concurrency is not set.
const DefaultConcurrency = 4

// Config describes what a Walker compares.
type Config struct {
	// OriginBase is the URL prefix of the site being migrated from. Only
	// URLs inside it are crawled. A base that does not end in "/" still
	// only matches whole path segments: "http://h/docs" covers
	// "http://h/docs/a" but not "http://h/docs-old".
	OriginBase string
	// TargetBase replaces OriginBase to derive each target URL.
	TargetBase string
	// Ignore skips discovered URLs matching any expression.
	Ignore []*regexp.Regexp
	// OriginNoise and TargetNoise are CSS selectors for elements removed
	// from the respective documents before comparison.
	OriginNoise []string
	TargetNoise []string
}

// ProgressEvent is reported once for every recorded result.
type ProgressEvent struct {
	Result *webcompare.Result
	// Completed is the number of results recorded so far.
	Completed int
	// Queued is the number of URLs waiting in the frontier.
	Queued int
}

// Walker crawls the origin site and compares each page with its target.
type Walker struct {
	Fetcher  webcompare.Fetcher
	Parser   webcompare.DocumentParser
	Sitemaps webcompare.SitemapService
	// Robots is consulted by the workers before each origin fetch, never
	// for the seed URL. Disallowed URLs produce no result.
	Robots      webcompare.RobotsPolicy
	RateLimiter webcompare.DomainLimiter
	// Seen records queued and visited URLs. Defaults to an exact set.
	Seen     webcompare.URLSet
	Logger   *slog.Logger
	Progress func(ProgressEvent)
	// Concurrency is the number of worker goroutines. 1 gives a strictly
	// sequential breadth-first walk.
	Concurrency int
	// MaxURLs stops dispatching after this many origin pages. 0 means no limit.
	MaxURLs int

	cfg               Config
	targetUnderOrigin bool
	comparators       []webcompare.Comparator

	mu      sync.Mutex
	results []*webcompare.Result
}

// NewWalker validates cfg and returns a Walker for it.
func NewWalker(cfg Config) (*Walker, error) {
	if err := validateBase("origin", cfg.OriginBase); err != nil {
		return nil, err
	}
	if err := validateBase("target", cfg.TargetBase); err != nil {
		return nil, err
	}
	if cfg.OriginBase == cfg.TargetBase {
		return nil, webcompare.Errorf(webcompare.EINVALID, "origin and target urls are both %q", cfg.OriginBase)
	}
	return &Walker{
		cfg:               cfg,
		targetUnderOrigin: withinBase(cfg.TargetBase, cfg.OriginBase),
	}, nil
}

// AddComparator appends c to the comparators run on every good page pair.
func (w *Walker) AddComparator(c webcompare.Comparator) {
	w.comparators = append(w.comparators, c)
}

// Results returns a copy of the results recorded so far.
func (w *Walker) Results() []*webcompare.Result {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]*webcompare.Result, len(w.results))
	copy(out, w.results)
	return out
}

// Report builds a report from the results recorded so far.
func (w *Walker) Report() *webcompare.Report {
	return webcompare.NewReport(w.Results())
}

// pageResult is what a worker hands back to the coordinator. A nil result
// with a nil err means robots.txt disallowed the URL.
type pageResult struct {
	url            string
	finalURL       string
	targetURL      string
	targetFinalURL string
	result         *webcompare.Result
	links          []string
	err            error
}

// Run crawls from the origin base until no URLs remain. If ctx is canceled
// Run returns ctx.Err() and the results recorded so far stay available.
func (w *Walker) Run(ctx context.Context) error {
	if w.Fetcher == nil || w.Parser == nil {
		return webcompare.Errorf(webcompare.EINVALID, "walker requires a fetcher and a parser")
	}

	w.mu.Lock()
	w.results = nil
	w.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	frontier := NewFrontier(w.Seen)
	frontier.Push(w.cfg.OriginBase)
	if w.Sitemaps != nil {
		w.seedFromSitemap(runCtx, frontier)
	}

	concurrency := w.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	workCh := make(chan string)
	resultCh := make(chan pageResult)

	g, gctx := errgroup.WithContext(runCtx)
	for range concurrency {
		g.Go(func() error {
			for u := range workCh {
				res := w.processURL(gctx, u)
				select {
				case resultCh <- res:
				case <-gctx.Done():
					return nil
				}
			}
			return nil
		})
	}

	runErr := w.coordinate(runCtx, frontier, workCh, resultCh)
	close(workCh)
	cancel()
	_ = g.Wait()

	if runErr != nil {
		return runErr
	}
	return ctx.Err()
}

// coordinate owns the frontier and the result list. It returns a non-nil
// error only for failures that abort the run.
func (w *Walker) coordinate(ctx context.Context, frontier *Frontier, workCh chan<- string, resultCh <-chan pageResult) error {
	dispatched := 0
	pending := 0
	next, hasNext := w.popNext(frontier, dispatched)

	for hasNext || pending > 0 {
		if ctx.Err() != nil {
			return nil
		}

		var sendCh chan<- string
		if hasNext {
			sendCh = workCh
		}

		select {
		case <-ctx.Done():
			return nil
		case sendCh <- next:
			dispatched++
			pending++
			hasNext = false
		case res := <-resultCh:
			pending--
			if res.err != nil {
				if errors.Is(res.err, context.Canceled) || errors.Is(res.err, context.DeadlineExceeded) {
					return nil
				}
				return res.err
			}
			if res.result == nil {
				// Disallowed pages do not count against MaxURLs.
				dispatched--
				w.logger().Debug("robots.txt disallows url", "url", res.url)
			} else {
				w.handleResult(frontier, res)
			}
		}

		if !hasNext {
			next, hasNext = w.popNext(frontier, dispatched)
		}
	}
	return nil
}

func (w *Walker) popNext(frontier *Frontier, dispatched int) (string, bool) {
	if w.MaxURLs > 0 && dispatched >= w.MaxURLs {
		return "", false
	}
	return frontier.Pop()
}

func (w *Walker) handleResult(frontier *Frontier, res pageResult) {
	w.mu.Lock()
	w.results = append(w.results, res.result)
	completed := len(w.results)
	w.mu.Unlock()

	links := res.links
	if final := NormalizeURL(res.finalURL); final != "" && final != res.url {
		if w.inOrigin(final) {
			frontier.MarkSeen(final)
		} else {
			w.logger().Info("redirect left the origin site, skipping its links",
				"url", res.url, "final_url", res.finalURL)
			links = nil
		}
	}
	if res.targetFinalURL != "" && !withinBase(NormalizeURL(res.targetFinalURL), w.cfg.TargetBase) {
		w.logger().Info("redirect left the target site",
			"url", res.targetURL, "final_url", res.targetFinalURL)
	}

	for _, link := range links {
		w.admit(frontier, link)
	}

	if w.Progress != nil {
		w.Progress(ProgressEvent{
			Result:    res.result,
			Completed: completed,
			Queued:    frontier.Len(),
		})
	}
}

// admit normalizes a discovered link and queues it if it is in scope.
func (w *Walker) admit(frontier *Frontier, link string) bool {
	u := NormalizeURL(link)
	if !w.inOrigin(u) {
		return false
	}
	if frontier.Seen(u) {
		return false
	}
	for _, re := range w.cfg.Ignore {
		if re.MatchString(u) {
			w.logger().Debug("ignoring url", "url", u, "pattern", re.String())
			return false
		}
	}
	if w.targetUnderOrigin && withinBase(u, w.cfg.TargetBase) {
		return false
	}
	return frontier.Push(u)
}

func (w *Walker) inOrigin(u string) bool {
	return withinBase(u, w.cfg.OriginBase)
}

// withinBase reports whether u lies inside the hierarchy rooted at base.
func withinBase(u, base string) bool {
	if !strings.HasPrefix(u, base) {
		return false
	}
	return len(u) == len(base) || strings.HasSuffix(base, "/") || u[len(base)] == '/'
}

func (w *Walker) seedFromSitemap(ctx context.Context, frontier *Frontier) {
	filter := &webcompare.URLFilter{Exclude: w.cfg.Ignore}
	urls, err := w.Sitemaps.DiscoverURLs(ctx, w.cfg.OriginBase, filter)
	if err != nil {
		w.logger().Warn("sitemap discovery failed", "url", w.cfg.OriginBase, "error", err)
		return
	}
	added := 0
	for _, u := range urls {
		if w.admit(frontier, u) {
			added++
		}
	}
	w.logger().Info("seeded from sitemap", "found", len(urls), "queued", added)
}

// processURL fetches an origin page and its target and classifies the pair.
// It only reads Walker configuration.
func (w *Walker) processURL(ctx context.Context, originURL string) pageResult {
	res := pageResult{url: originURL}

	if w.Robots != nil && originURL != w.cfg.OriginBase && !w.Robots.Allowed(ctx, originURL) {
		if ctx.Err() != nil {
			res.err = ctx.Err()
		}
		return res
	}

	if err := waitForURL(ctx, w.RateLimiter, originURL); err != nil {
		res.err = err
		return res
	}
	originResp, err := w.Fetcher.Fetch(ctx, originURL)
	if err != nil {
		if ctx.Err() != nil {
			res.err = ctx.Err()
			return res
		}
		res.result = webcompare.NewErrorResult(originURL, webcompare.TransportErrorCode(err))
		return res
	}
	res.finalURL = originResp.URL

	if originResp.StatusCode != http.StatusOK {
		res.result = webcompare.NewBadOriginResult(originURL, originResp.StatusCode)
		return res
	}

	originPage := w.parse(originURL, originResp)
	origin := fetched(originURL, originResp, originPage)
	if originPage.Document != nil {
		res.links = originPage.Document.Links()
	}

	targetURL, err := TargetURL(originURL, w.cfg.OriginBase, w.cfg.TargetBase)
	if err != nil {
		res.err = err
		return res
	}
	res.targetURL = targetURL

	if err := waitForURL(ctx, w.RateLimiter, targetURL); err != nil {
		res.err = err
		return res
	}
	targetResp, err := w.Fetcher.Fetch(ctx, targetURL)
	if err != nil {
		if ctx.Err() != nil {
			res.err = ctx.Err()
			return res
		}
		res.result = webcompare.NewBadTargetResult(origin, targetURL, webcompare.TransportErrorCode(err))
		return res
	}

	res.targetFinalURL = targetResp.URL

	targetPage := w.parse(targetURL, targetResp)
	target := fetched(targetURL, targetResp, targetPage)

	w.denoise(originPage, w.cfg.OriginNoise)
	w.denoise(targetPage, w.cfg.TargetNoise)

	res.result = webcompare.NewGoodResult(origin, target, w.compare(originPage, targetPage))
	return res
}

func (w *Walker) parse(u string, resp *webcompare.Response) *webcompare.Page {
	page := &webcompare.Page{URL: u, Response: resp}
	doc, err := w.Parser.Parse(resp)
	if err != nil {
		w.logger().Warn("parsing html failed", "url", u, "error", err)
		return page
	}
	page.Document = doc
	return page
}

func (w *Walker) denoise(page *webcompare.Page, selectors []string) {
	if page.Document == nil {
		return
	}
	for _, sel := range selectors {
		n, err := page.Document.RemoveMatching(sel)
		if err != nil {
			w.logger().Warn("removing noise failed", "url", page.URL, "selector", sel, "error", err)
			continue
		}
		if n > 0 {
			w.logger().Debug("removed noise", "url", page.URL, "selector", sel, "elements", n)
		}
	}
}

func (w *Walker) compare(origin, target *webcompare.Page) map[string]int {
	scores := make(map[string]int, len(w.comparators))
	for _, c := range w.comparators {
		scores[c.Name()] = max(webcompare.MatchNothing, min(webcompare.MatchPerfect, c.Compare(origin, target)))
	}
	return scores
}

func (w *Walker) logger() *slog.Logger {
	if w.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return w.Logger
}

func fetched(u string, resp *webcompare.Response, page *webcompare.Page) webcompare.Fetched {
	f := webcompare.Fetched{
		URL:  u,
		Code: resp.StatusCode,
		Time: resp.Elapsed.Seconds(),
	}
	if page.Document != nil {
		f.HTMLErrors = page.Document.ParseErrors()
		if f.HTMLErrors == nil {
			f.HTMLErrors = []string{}
		}
	}
	return f
}
