// Package format drives the plugin over files and streams: it expands
// paths, formats concurrently and reports in the order paths were given.
package format

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"

	"github.com/jsvensson/luafmt/internal/plugin"
)

var log = commonlog.GetLogger("luafmt.format")

// Options selects what the runner does with formatted output. With no mode
// set the formatted text goes to Stdout.
type Options struct {
	// Check lists files that would change without writing them.
	Check bool
	// Diff prints a unified diff for every file that would change.
	Diff bool
	// Write rewrites files that changed in place.
	Write bool
	// Jobs bounds concurrent formatting. Zero means GOMAXPROCS.
	Jobs int

	Stdout io.Writer
	Stderr io.Writer
}

// Summary counts what a run did.
type Summary struct {
	Files   int
	Changed int
	Failed  int
}

// Runner formats files with a resolved configuration.
type Runner struct {
	Config  plugin.Configuration
	Options Options
}

type fileResult struct {
	path     string
	original string
	result   plugin.Result
	err      error
}

// Run formats every supported file under paths. Per-file failures are
// reported on Stderr and counted; the returned error is reserved for paths
// that cannot be expanded or a cancelled context.
func (r *Runner) Run(ctx context.Context, paths []string) (Summary, error) {
	files, err := collectFiles(paths)
	if err != nil {
		return Summary{}, err
	}

	results := make([]fileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.jobs())
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = r.formatFile(path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	summary := Summary{Files: len(files)}
	for _, res := range results {
		if res.err != nil {
			summary.Failed++
			log.Errorf("%s", res.err)
			fmt.Fprintf(r.stderr(), "Error %v\n", res.err)
			continue
		}
		if res.result.Changed {
			summary.Changed++
		}
		if err := r.report(res); err != nil {
			return summary, err
		}
	}
	log.Infof("formatted %d files, %d changed, %d failed", summary.Files, summary.Changed, summary.Failed)
	return summary, nil
}

// RunStdin formats in into out. path only names the input in errors and
// diffs.
func (r *Runner) RunStdin(in io.Reader, out io.Writer, path string) (Summary, error) {
	if path == "" {
		path = "<stdin>"
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return Summary{}, fmt.Errorf("reading stdin: %w", err)
	}

	original := string(data)
	result, err := plugin.Format(path, original, r.Config)
	if err != nil {
		return Summary{Files: 1, Failed: 1}, err
	}

	summary := Summary{Files: 1}
	if result.Changed {
		summary.Changed = 1
	}
	switch {
	case r.Options.Diff:
		err = writeDiff(out, path, original, result)
	case r.Options.Check:
		if result.Changed {
			_, err = fmt.Fprintln(out, path)
		}
	default:
		_, err = io.WriteString(out, result.Text)
	}
	return summary, err
}

func (r *Runner) formatFile(path string) fileResult {
	log.Debugf("formatting %s", path)
	res := fileResult{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		res.err = fmt.Errorf("reading %s: %w", path, err)
		return res
	}
	res.original = string(data)

	res.result, res.err = plugin.Format(path, res.original, r.Config)
	if res.err != nil || !res.result.Changed || !r.Options.Write || r.Options.Check {
		return res
	}

	info, err := os.Stat(path)
	if err != nil {
		res.err = fmt.Errorf("writing %s: %w", path, err)
		return res
	}
	if err := os.WriteFile(path, []byte(res.result.Text), info.Mode().Perm()); err != nil {
		res.err = fmt.Errorf("writing %s: %w", path, err)
	}
	return res
}

func (r *Runner) report(res fileResult) error {
	out := r.stdout()
	switch {
	case r.Options.Diff:
		return writeDiff(out, res.path, res.original, res.result)
	case r.Options.Check, r.Options.Write:
		if res.result.Changed {
			_, err := fmt.Fprintln(out, res.path)
			return err
		}
		return nil
	default:
		_, err := io.WriteString(out, res.result.Text)
		return err
	}
}

func writeDiff(w io.Writer, path, original string, result plugin.Result) error {
	if !result.Changed {
		return nil
	}
	return difflib.WriteUnifiedDiff(w, difflib.UnifiedDiff{
		A:        difflib.SplitLines(original),
		B:        difflib.SplitLines(result.Text),
		FromFile: path,
		ToFile:   path + " (formatted)",
		Context:  3,
	})
}

func (r *Runner) jobs() int {
	if r.Options.Jobs > 0 {
		return r.Options.Jobs
	}
	return runtime.GOMAXPROCS(0)
}

func (r *Runner) stdout() io.Writer {
	if r.Options.Stdout != nil {
		return r.Options.Stdout
	}
	return os.Stdout
}

func (r *Runner) stderr() io.Writer {
	if r.Options.Stderr != nil {
		return r.Options.Stderr
	}
	return os.Stderr
}

// collectFiles expands directories to the supported files beneath them,
// skipping hidden directories. Files named directly are kept whatever
// their extension. Duplicates are dropped.
func collectFiles(paths []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("collecting files: %w", err)
		}
		if !info.IsDir() {
			add(root)
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if plugin.SupportsPath(path) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("collecting files: %w", err)
		}
	}
	return files, nil
}
