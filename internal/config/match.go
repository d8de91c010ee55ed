package config

import (
	"path"
	"path/filepath"
	"strings"
)

// Reports whether a glob matches a slash separated relative path. Patterns
// without a slash match any single path segment ("*.md", "node_modules").
// Patterns with a slash match the whole path or any of its parent
// directories, so "docs/legacy" covers everything below it.
func Match(pattern, p string) bool {
	p = filepath.ToSlash(p)
	p = strings.TrimPrefix(p, "./")
	pattern = strings.TrimPrefix(pattern, "./")
	pattern = strings.TrimSuffix(pattern, "/")

	if !strings.Contains(pattern, "/") {
		for _, segment := range strings.Split(p, "/") {
			if ok, _ := path.Match(pattern, segment); ok {
				return true
			}
		}
		return false
	}

	for {
		if ok, _ := path.Match(pattern, p); ok {
			return true
		}

		i := strings.LastIndexByte(p, '/')

		if i < 0 {
			return false
		}

		p = p[:i]
	}
}

func MatchAny(patterns []string, p string) bool {
	for _, pattern := range patterns {
		if Match(pattern, p) {
			return true
		}
	}
	return false
}

func checkGlob(pattern string) error {
	_, err := path.Match(pattern, "")
	return err
}
