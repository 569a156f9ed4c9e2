package domain

import (
	"encoding/json"
	"time"

	"go.trai.ch/zerr"
)

// FileHash identifies one content version of a file. The hash is a pure
// function of the file bytes; mtime and size are recorded for diagnostics only.
type FileHash struct {
	Path        string    `json:"path"`
	ContentHash string    `json:"hash"`
	Size        int64     `json:"size"`
	ModTime     time.Time `json:"mtime"`
}

// CacheEntry is the cached analysis result for a single path.
// At most one entry exists per path; the entry is valid only while
// ContentHash matches the stored FileHash for that path.
type CacheEntry struct {
	Path         string
	Facts        Facts
	ContentHash  string
	AnalyzedAt   time.Time
	Dependencies []string
	// Stale is set when the most recent extraction for this path failed;
	// the entry keeps serving the last good facts until the next settle.
	Stale bool
	// Size is the serialized-facts byte estimate used for eviction accounting.
	Size int64
}

// persistedEntry is the JSON form of a CacheEntry with the facts envelope inlined.
type persistedEntry struct {
	Path         string          `json:"path"`
	Facts        json.RawMessage `json:"facts"`
	ContentHash  string          `json:"hash"`
	AnalyzedAt   time.Time       `json:"analyzedAt"`
	Dependencies []string        `json:"dependencies,omitempty"`
	Stale        bool            `json:"stale,omitempty"`
	Size         int64           `json:"size"`
}

// MarshalJSON implements json.Marshaler.
func (e *CacheEntry) MarshalJSON() ([]byte, error) {
	facts, err := EncodeFacts(e.Facts)
	if err != nil {
		return nil, err
	}
	return json.Marshal(persistedEntry{
		Path:         e.Path,
		Facts:        facts,
		ContentHash:  e.ContentHash,
		AnalyzedAt:   e.AnalyzedAt,
		Dependencies: e.Dependencies,
		Stale:        e.Stale,
		Size:         e.Size,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *CacheEntry) UnmarshalJSON(data []byte) error {
	var p persistedEntry
	if err := json.Unmarshal(data, &p); err != nil {
		return zerr.Wrap(err, "failed to unmarshal cache entry")
	}
	facts, err := DecodeFacts(p.Facts)
	if err != nil {
		return err
	}
	e.Path = p.Path
	e.Facts = facts
	e.ContentHash = p.ContentHash
	e.AnalyzedAt = p.AnalyzedAt
	e.Dependencies = p.Dependencies
	e.Stale = p.Stale
	e.Size = p.Size
	return nil
}

// ChangeType classifies a file change relative to the cache.
type ChangeType string

const (
	// ChangeAdded indicates a path with no prior hash entered the cache.
	ChangeAdded ChangeType = "added"
	// ChangeModified indicates a path's content hash changed.
	ChangeModified ChangeType = "modified"
	// ChangeDeleted indicates a path no longer exists on disk.
	ChangeDeleted ChangeType = "deleted"
)

// Change describes one cache update produced by an analysis pass.
// Facts is nil for deletions; OldFacts is nil for additions.
type Change struct {
	Type     ChangeType `json:"type"`
	Path     string     `json:"path"`
	Facts    Facts      `json:"-"`
	OldFacts Facts      `json:"-"`
}

// Snapshot is the persisted cache document: content hashes, cache entries,
// the dependency graph (dependency -> dependents), and the save timestamp.
type Snapshot struct {
	FileHashes map[string]FileHash    `json:"fileHashes"`
	Entries    map[string]*CacheEntry `json:"cacheEntries"`
	Dependents map[string][]string    `json:"dependencyGraph"`
	SavedAt    time.Time              `json:"savedAt"`
}
