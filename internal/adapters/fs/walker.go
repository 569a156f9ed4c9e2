// Package fs provides file system adapters for walking, matching and hashing files.
package fs

import (
	"io/fs"
	"iter"
	"path/filepath"
)

// Walker provides file walking functionality.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// WalkFiles yields all files under root that the matcher accepts.
// Directories whose relative path is excluded wholesale are pruned early.
func (w *Walker) WalkFiles(root string, matcher *GlobMatcher) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				// Skip unreadable entries and keep walking.
				return nil //nolint:nilerr // intentional: problematic entries are skipped
			}

			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				return nil
			}

			if d.IsDir() {
				if rel != "." && matcher != nil && matcher.ExcludesDir(rel) {
					return filepath.SkipDir
				}
				return nil
			}

			if matcher != nil && !matcher.Match(rel) {
				return nil
			}

			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}
