// Package cache implements the incremental analysis cache: content-hash
// keyed entries, dependency-aware invalidation and size-bounded eviction.
package cache

import (
	"path/filepath"
	"strings"

	"go.trai.ch/drift/internal/core/domain"
	"go.trai.ch/drift/internal/core/ports"
	"go.trai.ch/zerr"
)

// kindByExtension maps file extensions to the fact shape extracted from them.
var kindByExtension = map[string]domain.FileKind{
	".tsx":    domain.KindComponent,
	".jsx":    domain.KindComponent,
	".vue":    domain.KindComponent,
	".svelte": domain.KindComponent,
	".css":    domain.KindStylesheet,
	".scss":   domain.KindStylesheet,
	".less":   domain.KindStylesheet,
	".html":   domain.KindMarkup,
	".htm":    domain.KindMarkup,
}

// KindForPath returns the file kind for a path based on its extension.
func KindForPath(path string) (domain.FileKind, bool) {
	kind, ok := kindByExtension[strings.ToLower(filepath.Ext(path))]
	return kind, ok
}

// Registry routes paths to the extractor registered for their file kind.
type Registry struct {
	extractors map[domain.FileKind]ports.Extractor
}

// NewRegistry creates a registry holding the given extractors.
// A later extractor for the same kind replaces an earlier one.
func NewRegistry(extractors ...ports.Extractor) *Registry {
	r := &Registry{extractors: make(map[domain.FileKind]ports.Extractor, len(extractors))}
	for _, e := range extractors {
		r.Register(e)
	}
	return r
}

// Register adds an extractor for its file kind.
func (r *Registry) Register(e ports.Extractor) {
	r.extractors[e.Kind()] = e
}

// ExtractorFor returns the extractor responsible for the given path.
func (r *Registry) ExtractorFor(path string) (ports.Extractor, error) {
	kind, ok := KindForPath(path)
	if !ok {
		return nil, zerr.With(domain.ErrUnknownFileKind, "path", path)
	}
	e, ok := r.extractors[kind]
	if !ok {
		return nil, zerr.With(domain.ErrNoExtractor, "kind", string(kind))
	}
	return e, nil
}
