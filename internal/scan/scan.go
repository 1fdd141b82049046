// Package scan walks a server's root directory looking for files it
// handles, honoring .gitignore and caller-supplied glob patterns, and
// bounding recursion depth. It backs EnsureAllServersReady's workspace
// anchor discovery and get_all_diagnostics' file enumeration.
package scan

import (
	"io/fs"
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
)

// MaxDepth bounds recursion beneath root to cap the cost of a large
// workspace walk.
const MaxDepth = 3

// Options narrows which files Walk visits.
type Options struct {
	Extensions   []string // bare extensions (no leading dot); empty matches any
	IncludeGlobs []string
	ExcludeGlobs []string
}

func (o Options) matchesExtension(path string) bool {
	if len(o.Extensions) == 0 {
		return true
	}
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	for _, e := range o.Extensions {
		if strings.EqualFold(strings.TrimPrefix(e, "."), ext) {
			return true
		}
	}
	return false
}

func (o Options) matchesGlobs(relPath string) bool {
	if len(o.IncludeGlobs) > 0 {
		matched := false
		for _, g := range o.IncludeGlobs {
			if ok, _ := filepath.Match(g, relPath); ok {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	for _, g := range o.ExcludeGlobs {
		if ok, _ := filepath.Match(g, relPath); ok {
			return false
		}
	}
	return true
}

// loadIgnore loads root/.gitignore if present; a missing file yields a
// matcher that ignores nothing.
func loadIgnore(root string) *gitignore.GitIgnore {
	ig, err := gitignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return gitignore.CompileIgnoreLines() // empty matcher
	}
	return ig
}

// Walk visits every regular file under root matching opts, depth-limited
// and gitignore-aware, calling fn for each. Walk stops early if fn
// returns false.
func Walk(root string, opts Options, fn func(path string) bool) error {
	ig := loadIgnore(root)

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable entries rather than aborting the scan
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		if rel == "." {
			return nil
		}

		depth := strings.Count(rel, string(filepath.Separator))
		if d.IsDir() {
			if depth >= MaxDepth || ig.MatchesPath(rel) || strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if depth > MaxDepth || ig.MatchesPath(rel) {
			return nil
		}
		if !opts.matchesExtension(path) || !opts.matchesGlobs(rel) {
			return nil
		}
		if !fn(path) {
			return fs.SkipAll
		}
		return nil
	})
}

// FirstMatch returns the first file under root matching opts, or "" if
// none exists. Used to find a workspace anchor file for a server that
// has no open file yet.
func FirstMatch(root string, opts Options) string {
	var found string
	_ = Walk(root, opts, func(path string) bool {
		found = path
		return false
	})
	return found
}

// All returns every matching file under root, in walk order.
func All(root string, opts Options) []string {
	var out []string
	_ = Walk(root, opts, func(path string) bool {
		out = append(out, path)
		return true
	})
	return out
}
