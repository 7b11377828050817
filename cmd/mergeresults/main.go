package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/webcompare"
	"github.com/fwojciec/webcompare/crawl"
	"github.com/fwojciec/webcompare/fs"
	"golang.org/x/sync/errgroup"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Concurrency bounds how many files are read at once.
	Concurrency int
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{Concurrency: 8}
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Output              string   `short:"f" type:"path" help:"Store combined results in FILE (default: stdout)"`
	StripHTMLValidation bool     `name:"strip-html-validation" help:"Remove HTML validation messages to reduce size"`
	Files               []string `arg:"" name:"file" help:"Result files to merge; glob patterns are expanded"`
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("mergeresults"),
		kong.Description("Combine webcompare result files into one report"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("provide at least one result file")
	}

	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}

	var out *fs.ReportFile
	if cli.Output != "" {
		out, err = fs.CreateReportFile(cli.Output)
		if err != nil {
			return fmt.Errorf("opening output file: %w", err)
		}
		defer func() { _ = out.Abort() }()
	}

	files, err := expandGlobs(cli.Files, stderr)
	if err != nil {
		return err
	}

	reports, err := m.load(ctx, files, stderr)
	if err != nil {
		return err
	}

	merged := webcompare.Merge(reports...)
	if cli.StripHTMLValidation {
		merged.StripHTMLErrors()
	}

	var w io.Writer = stdout
	if out != nil {
		w = out
	}
	if err := webcompare.WriteReport(w, merged); err != nil {
		return err
	}
	if out != nil {
		if err := out.Commit(); err != nil {
			return fmt.Errorf("saving report: %w", err)
		}
	}

	fmt.Fprintf(stderr, "merged %d of %d files: %s\n", countLoaded(reports), len(files), crawl.FormatStats(merged.Stats))
	return nil
}

// load reads files concurrently. Files that cannot be read or are not valid
// reports are reported on stderr and left out; the rest keep their order.
func (m *Main) load(ctx context.Context, files []string, stderr io.Writer) ([]*webcompare.Report, error) {
	reports := make([]*webcompare.Report, len(files))
	errs := make([]error, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, m.Concurrency))
	for i, name := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			reports[i], errs[i] = loadReport(name)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, err := range errs {
		if err != nil {
			fmt.Fprintf(stderr, "unable to load %s: %v\n", files[i], err)
		}
	}
	return reports, nil
}

func loadReport(name string) (*webcompare.Report, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return webcompare.ReadReport(f)
}

// expandGlobs expands a leading ~ and glob patterns in args. Patterns that
// match nothing are reported on stderr.
func expandGlobs(args []string, stderr io.Writer) ([]string, error) {
	var files []string
	for _, arg := range args {
		pattern := expandHome(arg)
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, webcompare.Errorf(webcompare.EINVALID, "invalid pattern %q: %v", arg, err)
		}
		if len(matches) == 0 {
			fmt.Fprintf(stderr, "no files match %s\n", arg)
			continue
		}
		files = append(files, matches...)
	}
	return files, nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

func countLoaded(reports []*webcompare.Report) int {
	n := 0
	for _, r := range reports {
		if r != nil {
			n++
		}
	}
	return n
}
