package fs

import (
	"path/filepath"
	"strings"
)

// GlobMatcher matches relative file paths against include and exclude
// patterns. Patterns use glob syntax with ** for recursive matching:
//
//   - *  matches any sequence of non-separator characters
//   - ** matches any sequence of characters including separators
//   - ?  matches any single non-separator character
//
// An empty include set matches every file. Excludes win over includes.
// GlobMatcher is safe for concurrent use after creation.
type GlobMatcher struct {
	includes []string
	excludes []string
}

// NewGlobMatcher creates a matcher with the given include and exclude patterns.
func NewGlobMatcher(includes, excludes []string) *GlobMatcher {
	return &GlobMatcher{includes: includes, excludes: excludes}
}

// Match reports whether the relative path is included and not excluded.
func (m *GlobMatcher) Match(rel string) bool {
	rel = filepath.ToSlash(rel)

	for _, pattern := range m.excludes {
		if matchGlob(pattern, rel) {
			return false
		}
	}

	if len(m.includes) == 0 {
		return true
	}
	for _, pattern := range m.includes {
		if matchGlob(pattern, rel) {
			return true
		}
	}
	return false
}

// ExcludesDir reports whether the relative directory path is excluded
// wholesale, allowing the walker to prune the subtree.
func (m *GlobMatcher) ExcludesDir(rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, pattern := range m.excludes {
		// "node_modules/**" prunes the node_modules directory itself.
		if prefix, ok := strings.CutSuffix(pattern, "/**"); ok {
			if rel == prefix || strings.HasPrefix(rel, prefix+"/") {
				return true
			}
		}
	}
	return false
}

// matchGlob matches a single ** aware pattern against a slash-separated path.
func matchGlob(pattern, path string) bool {
	if !strings.Contains(pattern, "**") {
		ok, err := filepath.Match(pattern, path)
		return err == nil && ok
	}

	parts := strings.SplitN(pattern, "**", 2)
	prefix, suffix := parts[0], parts[1]

	if prefix != "" {
		p := strings.TrimSuffix(prefix, "/")
		if !strings.HasPrefix(path, p) {
			return false
		}
		rest := path[len(p):]
		if rest != "" && rest[0] != '/' {
			return false
		}
		path = strings.TrimPrefix(rest, "/")
	}

	suffix = strings.TrimPrefix(suffix, "/")
	if suffix == "" {
		return true
	}

	// The suffix may match at any depth below the prefix.
	if matchGlob(suffix, path) {
		return true
	}
	for i := 0; i < len(path); i++ {
		if path[i] == '/' && matchGlob(suffix, path[i+1:]) {
			return true
		}
	}
	return false
}
