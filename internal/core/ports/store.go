package ports

import "go.trai.ch/drift/internal/core/domain"

// SnapshotStore persists and restores the cache snapshot document.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type SnapshotStore interface {
	// Save writes the snapshot for the given root atomically
	// (write-then-replace, so interruption never leaves a partial file).
	Save(root string, snap *domain.Snapshot) error

	// Load reads the snapshot for the given root.
	// Returns nil, nil when no snapshot exists.
	Load(root string) (*domain.Snapshot, error)
}
