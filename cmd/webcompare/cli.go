package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fwojciec/webcompare"
	"github.com/fwojciec/webcompare/compare"
	"github.com/fwojciec/webcompare/crawl"
	"github.com/fwojciec/webcompare/goquery"
	"github.com/fwojciec/webcompare/htmltomarkdown"
	wchttp "github.com/fwojciec/webcompare/http"
	"github.com/fwojciec/webcompare/readability"
	"github.com/fwojciec/webcompare/strutil"
	"github.com/fwojciec/webcompare/trafilatura"
)

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Origin string `arg:"" optional:"" name:"origin_url" help:"Base URL of the site being migrated from"`
	Target string `arg:"" optional:"" name:"target_url" help:"Base URL of the site being migrated to"`

	Verbose         int      `short:"v" type:"counter" help:"Log info about processing (repeat for debug)"`
	File            string   `short:"f" type:"path" help:"Path to store the JSON results (default: stdout)"`
	Ignore          []string `short:"i" name:"ignorere" sep:"none" help:"Ignore URLs matching this regular expression (repeatable)"`
	IgnoreFile      string   `short:"I" name:"ignorere-file" type:"path" help:"File of regular expressions for URLs to ignore, one per line"`
	OriginNoiseFile string   `name:"origin-noise-xpath-file" type:"path" help:"File of CSS selectors to strip from origin pages, one per line"`
	TargetNoiseFile string   `name:"target-noise-xpath-file" type:"path" help:"File of CSS selectors to strip from target pages, one per line"`
	Profile         bool     `help:"Write a CPU profile to webcompare.pprof"`

	Config          string        `short:"C" type:"path" help:"YAML run configuration; flags take precedence"`
	Comparators     []string      `name:"comparator" sep:"none" help:"Comparator to run (repeatable, default: LengthComparator, TitleComparator, BodyComparator)"`
	ListComparators bool          `help:"List available comparators and exit"`
	Concurrency     int           `short:"c" help:"Pages processed at once (default: 4)"`
	Timeout         time.Duration `short:"t" help:"Timeout per request (default: 10s)"`
	Rate            float64       `help:"Requests per second per host, 0 for unlimited"`
	UserAgent       string        `name:"user-agent" help:"User-Agent header sent with every request"`
	MaxURLs         int           `name:"max-urls" help:"Stop after this many origin pages, 0 for unlimited"`
	Sitemap         bool          `help:"Also seed the crawl from the origin sitemap"`
	RespectRobots   bool          `name:"respect-robots" help:"Skip origin URLs disallowed by robots.txt"`
	Bloom           uint          `help:"Track visited URLs approximately, sized for this many URLs"`

	configNoise *Config `kong:"-"`
}

// ApplyConfig fills every option not given on the command line from cfg.
func (c *CLI) ApplyConfig(cfg *Config) {
	if c.Origin == "" {
		c.Origin = cfg.Origin
	}
	if c.Target == "" {
		c.Target = cfg.Target
	}
	if len(c.Ignore) == 0 {
		c.Ignore = cfg.Ignore
	}
	if len(c.Comparators) == 0 {
		c.Comparators = cfg.Comparators
	}
	if c.Concurrency == 0 {
		c.Concurrency = cfg.Concurrency
	}
	if c.Timeout == 0 {
		c.Timeout = cfg.Timeout
	}
	if c.Rate == 0 {
		c.Rate = cfg.Rate
	}
	if c.UserAgent == "" {
		c.UserAgent = cfg.UserAgent
	}
	if c.MaxURLs == 0 {
		c.MaxURLs = cfg.MaxURLs
	}
	if c.Bloom == 0 {
		c.Bloom = cfg.Bloom
	}
	c.Sitemap = c.Sitemap || cfg.Sitemap
	c.RespectRobots = c.RespectRobots || cfg.RespectRobots
	c.configNoise = cfg
}

// ApplyDefaults sets defaults for options left empty by flags and config.
func (c *CLI) ApplyDefaults() {
	if len(c.Comparators) == 0 {
		c.Comparators = compare.DefaultComparators
	}
	if c.Concurrency <= 0 {
		c.Concurrency = crawl.DefaultConcurrency
	}
	if c.Timeout <= 0 {
		c.Timeout = wchttp.DefaultFetchTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = wchttp.DefaultUserAgent
	}
}

// RunOptions is the validated configuration for one run.
type RunOptions struct {
	Walk        crawl.Config
	Comparators []webcompare.Comparator
}

// RunOptions reads the pattern and selector files, compiles everything and
// resolves comparator names. Any failure here is a configuration error.
func (c *CLI) RunOptions(registry *compare.Registry) (*RunOptions, error) {
	if c.Origin == "" || c.Target == "" {
		return nil, webcompare.Errorf(webcompare.EINVALID, "must specify origin and target urls")
	}

	patterns := append([]string(nil), c.Ignore...)
	if c.IgnoreFile != "" {
		lines, err := readLines(c.IgnoreFile)
		if err != nil {
			return nil, fmt.Errorf("reading ignore file: %w", err)
		}
		patterns = append(patterns, lines...)
	}
	ignore, err := webcompare.CompilePatterns(patterns)
	if err != nil {
		return nil, err
	}
	c.Ignore = patterns

	originNoise, err := c.noise(c.OriginNoiseFile, "origin")
	if err != nil {
		return nil, err
	}
	targetNoise, err := c.noise(c.TargetNoiseFile, "target")
	if err != nil {
		return nil, err
	}

	comparators, err := registry.Resolve(c.Comparators)
	if err != nil {
		return nil, err
	}

	return &RunOptions{
		Walk: crawl.Config{
			OriginBase:  c.Origin,
			TargetBase:  c.Target,
			Ignore:      ignore,
			OriginNoise: originNoise,
			TargetNoise: targetNoise,
		},
		Comparators: comparators,
	}, nil
}

// noise returns the selectors from path, or from the config file when no
// path was given, and checks that they compile.
func (c *CLI) noise(path, side string) ([]string, error) {
	var selectors []string
	switch {
	case path != "":
		lines, err := readLines(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s noise file: %w", side, err)
		}
		selectors = lines
	case c.configNoise != nil && side == "origin":
		selectors = c.configNoise.OriginNoise
	case c.configNoise != nil:
		selectors = c.configNoise.TargetNoise
	}
	if err := goquery.CompileSelectors(selectors); err != nil {
		return nil, err
	}
	return selectors, nil
}

// readLines returns the non-blank lines of path, skipping # comments.
func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// newComparatorRegistry returns the built-in comparators plus those backed
// by content extraction and Markdown rendering.
func newComparatorRegistry() *compare.Registry {
	registry := compare.NewRegistry()
	registry.Register(strutil.NewNgramComparator(0))
	registry.Register(compare.NewExtractComparator("ReadabilityComparator", readability.NewExtractor()))
	registry.Register(compare.NewExtractComparator("TrafilaturaComparator", trafilatura.NewExtractor()))
	registry.Register(compare.NewMarkdownComparator(htmltomarkdown.NewConverter(htmltomarkdown.WithoutLinkTargets())))
	return registry
}
