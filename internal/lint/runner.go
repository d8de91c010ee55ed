package lint

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/danprince/relcheck/internal/config"
	"github.com/danprince/relcheck/internal/report"
	"golang.org/x/sync/errgroup"
)

// Runner lints every file under a set of paths.
type Runner struct {
	// Directory that paths in the report are relative to, and that config
	// globs are matched against.
	Root   string
	Config *config.Config
	// Write fixed files back to disk.
	Fix bool
	// Maximum number of files linted at once, defaults to the number of CPUs.
	Concurrency int

	linter *Linter
	// Absolute paths of every file found by the last scan.
	files []string
	seen  map[string]bool
}

func NewRunner(root string, cfg *config.Config) *Runner {
	return &Runner{
		Root:   root,
		Config: cfg,
		linter: New(cfg.Level()),
	}
}

// Resets the state of the runner to prevent leaking memory across runs.
func (r *Runner) reset() {
	r.files = nil
	r.seen = map[string]bool{}
}

// Scans the paths, then lints all the files found concurrently.
func (r *Runner) Run(paths []string) (*report.Report, error) {
	r.reset()
	r.linter.Severity = r.Config.Level()

	if len(paths) == 0 {
		paths = []string{r.Root}
	}

	for _, p := range paths {
		if !filepath.IsAbs(p) {
			p = filepath.Join(r.Root, p)
		}

		if err := r.scan(p); err != nil {
			return nil, err
		}
	}

	results := make([]*report.FileResult, len(r.files))

	var g errgroup.Group
	limit := r.Concurrency

	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	g.SetLimit(limit)

	for i, file := range r.files {
		g.Go(func() error {
			res, err := r.lintFile(file)
			results[i] = res
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	rep := report.New()

	for _, res := range results {
		rep.Add(res)
	}

	return rep, nil
}

// Returns p relative to the root with forward slashes, or p itself if it is
// outside of the root.
func (r *Runner) rel(p string) string {
	rel, err := filepath.Rel(r.Root, p)

	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(p)
	}

	return filepath.ToSlash(rel)
}

// Recursive walk from p to find lintable files. Files that are named
// explicitly are linted whatever their extension.
func (r *Runner) scan(p string) error {
	info, err := os.Stat(p)

	if err != nil {
		return err
	}

	if !info.IsDir() {
		if !r.Config.Ignored(r.rel(p)) {
			r.addFile(p)
		}
		return nil
	}

	return filepath.WalkDir(p, func(absPath string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		name := entry.Name()
		rel := r.rel(absPath)

		if absPath != p {
			if name[0] == '.' || name == "node_modules" || r.Config.Ignored(rel) {
				if entry.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}

		if !entry.IsDir() && r.Config.Lints(name) {
			r.addFile(absPath)
		}

		return nil
	})
}

func (r *Runner) addFile(p string) {
	if !r.seen[p] {
		r.seen[p] = true
		r.files = append(r.files, p)
	}
}

// Lints a single file, writing fixes back to disk if needed. Problems with
// the file itself are recorded in the result, the returned error is only for
// failures to write.
func (r *Runner) lintFile(file string) (*report.FileResult, error) {
	rel := r.rel(file)
	res := &report.FileResult{Path: rel}

	src, err := os.ReadFile(file)

	if err != nil {
		res.Err = err
		return res, nil
	}

	res.Source = src
	opts := r.Config.OptionsFor(rel)

	if !r.Fix {
		res.Diagnostics, res.Err = r.linter.Lint(rel, src, opts)
		return res, nil
	}

	fixed, diagnostics, err := r.linter.Fix(rel, src, opts)
	res.Diagnostics = diagnostics
	res.Err = err

	if err != nil || bytes.Equal(fixed, src) {
		return res, nil
	}

	info, err := os.Stat(file)

	if err != nil {
		return res, err
	}

	if err := os.WriteFile(file, fixed, info.Mode().Perm()); err != nil {
		return res, fmt.Errorf("writing fixes to %s: %w", rel, err)
	}

	res.Source = fixed
	res.Output = fixed
	return res, nil
}
