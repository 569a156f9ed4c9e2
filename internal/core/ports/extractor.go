// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/drift/internal/core/domain"
)

// Extractor turns raw file bytes into structured facts for one file kind.
// Implementations live outside this module; the pipeline only depends on this
// contract. A failing extraction must return a *domain.ExtractionError and
// never panic.
//
//go:generate mockgen -source=extractor.go -destination=mocks/mock_extractor.go -package=mocks
type Extractor interface {
	// Kind returns the file kind this extractor handles.
	Kind() domain.FileKind

	// Extract parses the file at path and returns its facts.
	// The context carries the per-file soft timeout.
	Extract(ctx context.Context, path string) (domain.Facts, error)
}
