package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime/pprof"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/webcompare"
	"github.com/fwojciec/webcompare/bloom"
	"github.com/fwojciec/webcompare/crawl"
	"github.com/fwojciec/webcompare/fs"
	"github.com/fwojciec/webcompare/goquery"
	wchttp "github.com/fwojciec/webcompare/http"
	"github.com/fwojciec/webcompare/robotstxt"
	wcslog "github.com/fwojciec/webcompare/slog"
	"github.com/google/uuid"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Fetcher replaces the HTTP fetcher. Set before calling Run().
	Fetcher webcompare.Fetcher

	// ProfilePath is where --profile writes the CPU profile.
	ProfilePath string
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		ProfilePath: "webcompare.pprof",
	}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("webcompare"),
		kong.Description("Crawl an origin site and compare every page with its counterpart on a target site"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("must specify origin and target urls")
	}

	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}

	if cli.Config != "" {
		cfg, err := LoadConfig(cli.Config)
		if err != nil {
			return err
		}
		cli.ApplyConfig(cfg)
	}
	cli.ApplyDefaults()

	comparators := newComparatorRegistry()
	if cli.ListComparators {
		for _, name := range comparators.List() {
			fmt.Fprintln(stdout, name)
		}
		return nil
	}

	// Everything that can be checked offline is checked before the output
	// file is opened and before any request is made.
	opts, err := cli.RunOptions(comparators)
	if err != nil {
		return err
	}

	walker, err := crawl.NewWalker(opts.Walk)
	if err != nil {
		return err
	}

	var out *fs.ReportFile
	if cli.File != "" {
		out, err = fs.CreateReportFile(cli.File)
		if err != nil {
			return fmt.Errorf("opening output file: %w", err)
		}
		defer func() { _ = out.Abort() }()
	}

	logger := newLogger(stderr, cli.Verbose)
	logger.Info("starting", "origin", cli.Origin, "target", cli.Target,
		"comparators", cli.Comparators, "ignore", cli.Ignore)

	if cli.Profile {
		stopProfile, err := m.startProfile()
		if err != nil {
			return err
		}
		defer func() {
			stopProfile()
			logger.Warn("wrote cpu profile", "path", m.ProfilePath)
		}()
	}

	m.wire(walker, cli, logger)
	for _, c := range opts.Comparators {
		walker.AddComparator(wcslog.NewLoggingComparator(c, logger))
	}

	runErr := walker.Run(ctx)
	report := walker.Report()

	var w io.Writer = stdout
	if out != nil {
		w = out
	}
	if err := webcompare.WriteReport(w, report); err != nil {
		return err
	}
	if out != nil {
		if err := out.Commit(); err != nil {
			return fmt.Errorf("saving report: %w", err)
		}
	}
	logger.Info("finished", "results", len(report.Results), "stats", crawl.FormatStats(report.Stats))

	if runErr != nil {
		if errors.Is(runErr, context.Canceled) {
			return fmt.Errorf("interrupted after %d results, partial report written", len(report.Results))
		}
		return runErr
	}
	return nil
}

// wire attaches network services to walker according to cli.
func (m *Main) wire(walker *crawl.Walker, cli *CLI, logger *slog.Logger) {
	fetcher := m.Fetcher
	if fetcher == nil {
		fetcher = wchttp.NewFetcher(
			wchttp.WithTimeout(cli.Timeout),
			wchttp.WithUserAgent(cli.UserAgent),
		)
	}
	fetcher = wcslog.NewLoggingFetcher(fetcher, logger)

	walker.Fetcher = fetcher
	walker.Parser = goquery.NewParser()
	walker.Logger = logger
	walker.Concurrency = cli.Concurrency
	walker.MaxURLs = cli.MaxURLs
	walker.Progress = logProgress(logger)

	// Sitemap and robots.txt requests share the page buckets.
	var metaFetcher webcompare.Fetcher = fetcher
	if cli.Rate > 0 {
		limiter := crawl.NewDomainLimiter(cli.Rate)
		walker.RateLimiter = limiter
		metaFetcher = crawl.NewLimitedFetcher(fetcher, limiter)
	}
	if cli.Bloom > 0 {
		walker.Seen = bloom.NewURLSet(cli.Bloom)
	}
	if cli.Sitemap {
		walker.Sitemaps = wcslog.NewLoggingSitemapService(wchttp.NewSitemapService(metaFetcher), logger)
	}
	if cli.RespectRobots {
		walker.Robots = robotstxt.NewPolicy(metaFetcher, robotstxt.WithUserAgent(cli.UserAgent))
	}
}

func (m *Main) startProfile() (func(), error) {
	f, err := os.Create(m.ProfilePath)
	if err != nil {
		return nil, fmt.Errorf("creating cpu profile: %w", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("starting cpu profile: %w", err)
	}
	return func() {
		pprof.StopCPUProfile()
		_ = f.Close()
	}, nil
}

// newLogger maps the -v count to a level: warnings by default, info with
// one -v and debug with two or more. Every line carries the run id.
func newLogger(w io.Writer, verbose int) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case verbose >= 2:
		level = slog.LevelDebug
	case verbose == 1:
		level = slog.LevelInfo
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With("run", uuid.NewString())
}

// logProgress logs good results at info and every other kind at warn.
func logProgress(logger *slog.Logger) func(crawl.ProgressEvent) {
	return func(ev crawl.ProgressEvent) {
		level := slog.LevelWarn
		if ev.Result.Type == webcompare.ResultGood {
			level = slog.LevelInfo
		}
		logger.Log(context.Background(), level, ev.Result.String())
		logger.Debug("progress",
			"url", crawl.TruncateURL(ev.Result.OriginURL, 60),
			"completed", ev.Completed,
			"queued", ev.Queued,
		)
	}
}
