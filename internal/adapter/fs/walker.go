package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// Resolve expands patterns relative to root into a sorted, de-duplicated list of
// absolute file paths. Patterns without glob syntax are returned even when the
// file does not exist, so callers can report it as missing.
func Resolve(root string, patterns []string) ([]string, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var files []string
	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		files = append(files, p)
	}

	for _, pattern := range patterns {
		full := pattern
		if !filepath.IsAbs(full) {
			full = filepath.Join(root, pattern)
		}
		if !hasMeta(pattern) {
			add(filepath.Clean(full))
			continue
		}
		if !doublestar.ValidatePattern(filepath.ToSlash(full)) {
			return nil, fmt.Errorf("invalid pattern %q", pattern)
		}
		matches, err := doublestar.FilepathGlob(full, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}
		for _, m := range matches {
			add(m)
		}
	}

	sort.Strings(files)
	return files, nil
}

// Matcher reports whether a path belongs to the pattern set.
type Matcher struct {
	root     string
	patterns []string
}

func NewMatcher(root string, patterns []string) *Matcher {
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}
	return &Matcher{root: abs, patterns: patterns}
}

func (m *Matcher) Match(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	for _, pattern := range m.patterns {
		full := pattern
		if !filepath.IsAbs(full) {
			full = filepath.Join(m.root, pattern)
		}
		matched, err := doublestar.PathMatch(filepath.Clean(full), abs)
		if err == nil && matched {
			return true
		}
	}
	return false
}

// Dirs returns the existing directories that hold the pattern matches, for watching.
// For a glob pattern that is the deepest directory before the first wildcard.
func (m *Matcher) Dirs() []string {
	seen := make(map[string]struct{})
	var dirs []string
	for _, pattern := range m.patterns {
		full := pattern
		if !filepath.IsAbs(full) {
			full = filepath.Join(m.root, pattern)
		}
		base, _ := doublestar.SplitPattern(filepath.ToSlash(full))
		dir := filepath.FromSlash(base)
		if !hasMeta(pattern) {
			dir = filepath.Dir(full)
		}
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			continue
		}
		if _, ok := seen[dir]; !ok {
			seen[dir] = struct{}{}
			dirs = append(dirs, dir)
		}
	}
	sort.Strings(dirs)
	return dirs
}

func hasMeta(pattern string) bool {
	for _, r := range pattern {
		switch r {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}
