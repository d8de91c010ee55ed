package main

import (
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/danprince/relcheck/internal/config"
	"github.com/danprince/relcheck/internal/errors"
	"github.com/danprince/relcheck/internal/lint"
	"github.com/danprince/relcheck/internal/report"
	"github.com/fsnotify/fsnotify"
)

// Watches dirs recursively, ignoring directories that match patterns in
// excludes (see config.Match). Events are batched and sent in groups at most
// every 100ms.
func watch(dirs []string, excludes []string) chan []fsnotify.Event {
	w, err := fsnotify.NewWatcher()
	ch := make(chan []fsnotify.Event)

	if err != nil {
		log.Fatal(err)
	}

	go func() {
		defer w.Close()
		ticker := time.Tick(100 * time.Millisecond)
		queue := []fsnotify.Event{}

		for {
			for _, dir := range w.WatchList() {
				w.Remove(dir)
			}

			for _, dir := range dirs {
				filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
					if err != nil || !d.IsDir() {
						return nil
					}

					if path != dir {
						rel, _ := filepath.Rel(dir, path)
						if d.Name()[0] == '.' || d.Name() == "node_modules" || config.MatchAny(excludes, rel) {
							return filepath.SkipDir
						}
					}

					w.Add(path)
					return nil
				})
			}

		polling:
			for {
				select {
				case err := <-w.Errors:
					log.Fatal(err)
				case e := <-w.Events:
					if e.Op != fsnotify.Chmod {
						queue = append(queue, e)
					}
				case <-ticker:
					if len(queue) > 0 {
						ch <- queue
						queue = []fsnotify.Event{}
						break polling
					}
				}
			}
		}
	}()

	return ch
}

// Lints once, then again after every batch of changes until the process is
// killed. Failures are printed rather than returned, so that fixing a broken
// file doesn't require a restart.
func watchAndLint(runner *lint.Runner, paths []string, excludes []string, output func(*report.Report) error) error {
	changes := watch(watchRoots(runner.Root, paths), excludes)

	for {
		start := time.Now()
		rep, err := runner.Run(paths)

		if err != nil {
			fmt.Fprintln(os.Stderr, errors.FmtError(err))
		} else if err := output(rep); err != nil {
			fmt.Fprintln(os.Stderr, errors.FmtError(err))
		} else {
			fmt.Printf("linted %d files in %s\n", len(rep.Files), time.Since(start))
		}

		events := <-changes
		log.Printf("%d changes, linting again", len(events))
	}
}

// Returns the directories to watch for a run over paths. The root covers
// everything inside it, paths outside of it are watched separately (their
// parent directory, for files).
func watchRoots(root string, paths []string) []string {
	roots := []string{root}

	covered := func(dir string) bool {
		for _, r := range roots {
			rel, err := filepath.Rel(r, dir)
			if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
				return true
			}
		}
		return false
	}

	for _, p := range paths {
		if !filepath.IsAbs(p) {
			p = filepath.Join(root, p)
		}

		dir := filepath.Clean(p)

		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			dir = filepath.Dir(dir)
		}

		if !covered(dir) {
			roots = append(roots, dir)
		}
	}

	return roots
}
