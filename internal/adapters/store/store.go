// Package store persists the cache snapshot as a single JSON document.
package store

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/drift/internal/core/domain"
	"go.trai.ch/drift/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.SnapshotStore = (*Store)(nil)

// Store implements ports.SnapshotStore with a file-per-root strategy.
type Store struct{}

// NewStore creates a new snapshot store.
func NewStore() *Store {
	return &Store{}
}

// Load reads the snapshot for the given root. Returns nil, nil when no
// snapshot exists. A document that cannot be decoded is reported as corrupt;
// callers decide whether that aborts startup or just discards the cache.
func (s *Store) Load(root string) (*domain.Snapshot, error) {
	path := domain.DefaultSnapshotPath(root)
	data, err := os.ReadFile(path) //nolint:gosec // Path derives from the watch root
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrSnapshotReadFailed.Error()), "path", path)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrSnapshotCorrupt.Error()), "path", path)
	}
	return &snap, nil
}

// Save writes the snapshot atomically: the document goes to a temp file in
// the same directory first and is renamed over the target, so an interrupted
// write never leaves a partial snapshot behind.
func (s *Store) Save(root string, snap *domain.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return zerr.Wrap(err, domain.ErrSnapshotMarshalFailed.Error())
	}

	path := domain.DefaultSnapshotPath(root)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrSnapshotStoreCreateFailed.Error()), "dir", dir)
	}

	tmp, err := os.CreateTemp(dir, "cache-*.json.tmp")
	if err != nil {
		return zerr.Wrap(err, domain.ErrSnapshotWriteFailed.Error())
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return zerr.Wrap(err, domain.ErrSnapshotWriteFailed.Error())
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return zerr.Wrap(err, domain.ErrSnapshotWriteFailed.Error())
	}
	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		_ = os.Remove(tmpName)
		return zerr.Wrap(err, domain.ErrSnapshotWriteFailed.Error())
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return zerr.With(zerr.Wrap(err, domain.ErrSnapshotWriteFailed.Error()), "path", path)
	}
	return nil
}
