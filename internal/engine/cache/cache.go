package cache

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"slices"
	"sort"
	"sync"
	"time"

	"go.trai.ch/drift/internal/core/domain"
	"go.trai.ch/drift/internal/core/ports"
	"golang.org/x/sync/errgroup"
)

// evictTargetRatio is the fill level eviction drains the cache down to
// once the budget is exceeded.
const evictTargetRatio = 0.8

// BatchResult is the outcome of one analysis pass over a settle batch.
// Failures and skips never abort the batch.
type BatchResult struct {
	Changes  []domain.Change
	Failures []*domain.ExtractionError
	Skips    []domain.Skip
}

// Cache is the incremental analysis cache. It maps paths to content hashes
// and extracted facts, maintains the dependency -> dependents index, and
// enforces a serialized-facts byte budget via least-recently-analyzed
// eviction. All reads and commits are serialized under one mutex; only the
// hash-and-extract phase of a batch runs concurrently.
type Cache struct {
	hasher         ports.Hasher
	registry       *Registry
	budget         int64
	parallelism    int
	extractTimeout time.Duration
	maxFileSize    int64

	mu         sync.Mutex
	hashes     map[string]domain.FileHash
	entries    map[string]*domain.CacheEntry
	dependents map[string]map[string]struct{}
	totalSize  int64
}

// New creates an empty cache configured from cfg. Zero config values fall
// back to the domain defaults.
func New(hasher ports.Hasher, registry *Registry, cfg *domain.Config) *Cache {
	budget := cfg.CacheBudget
	if budget <= 0 {
		budget = domain.DefaultCacheBudget
	}
	parallelism := cfg.Parallelism
	if parallelism <= 0 {
		parallelism = 4
	}
	timeout := cfg.ExtractTimeout
	if timeout <= 0 {
		timeout = domain.DefaultExtractTimeout
	}
	maxFileSize := cfg.MaxFileSize
	if maxFileSize <= 0 {
		maxFileSize = domain.DefaultMaxFileSize
	}
	return &Cache{
		hasher:         hasher,
		registry:       registry,
		budget:         budget,
		parallelism:    parallelism,
		extractTimeout: timeout,
		maxFileSize:    maxFileSize,
		hashes:         make(map[string]domain.FileHash),
		entries:        make(map[string]*domain.CacheEntry),
		dependents:     make(map[string]map[string]struct{}),
	}
}

// probe is the per-path result of the concurrent hash-and-extract phase.
type probe struct {
	path    string
	deleted bool
	skip    *domain.Skip
	failure *domain.ExtractionError
	// set on successful extraction
	hash  domain.FileHash
	facts domain.Facts
	size  int64
}

// AnalyzeChangedFiles re-analyzes the given paths against their on-disk
// content. Deleted paths emit a deleted change and invalidate their direct
// dependents; paths whose content hash is unchanged and whose entry is still
// live are skipped silently; everything else is extracted, committed, and
// emitted as an added or modified change. After the call returns, every
// surviving path whose extraction succeeded has an entry reflecting its
// on-disk content at call time.
func (c *Cache) AnalyzeChangedFiles(ctx context.Context, paths []string) BatchResult {
	paths = dedupe(paths)
	probes := c.probeAll(ctx, paths)

	c.mu.Lock()
	defer c.mu.Unlock()

	var res BatchResult
	committed := make(map[string]struct{}, len(probes))

	for _, p := range probes {
		switch {
		case p.deleted:
			c.commitDeleteLocked(p, &res, committed)
		case p.skip != nil:
			res.Skips = append(res.Skips, *p.skip)
		case p.failure != nil:
			if prev, ok := c.entries[p.path]; ok {
				prev.Stale = true
			}
			res.Failures = append(res.Failures, p.failure)
		case p.facts != nil:
			c.commitUpdateLocked(p, &res, committed)
		}
	}

	c.evictLocked(committed)
	return res
}

// probeAll runs the hash-and-extract phase with bounded parallelism.
// Results come back in the same order as paths.
func (c *Cache) probeAll(ctx context.Context, paths []string) []probe {
	// Snapshot the state the workers need so they run lock-free.
	c.mu.Lock()
	stored := make(map[string]string, len(c.hashes))
	for path, fh := range c.hashes {
		stored[path] = fh.ContentHash
	}
	live := make(map[string]struct{}, len(c.entries))
	for path := range c.entries {
		live[path] = struct{}{}
	}
	c.mu.Unlock()

	probes := make([]probe, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.parallelism)
	for i, path := range paths {
		g.Go(func() error {
			probes[i] = c.probeOne(ctx, path, stored, live)
			return nil
		})
	}
	_ = g.Wait()

	// Drop paths that resolved to nothing (unchanged content, or paths the
	// cache never knew about that vanished before we looked).
	out := probes[:0]
	for _, p := range probes {
		if p.path != "" {
			out = append(out, p)
		}
	}
	return out
}

// probeOne classifies a single path: deleted, skipped, unchanged, extracted
// or failed. A zero-valued probe means the path produced no work.
func (c *Cache) probeOne(ctx context.Context, path string, stored map[string]string, live map[string]struct{}) probe {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		_, knownHash := stored[path]
		_, knownEntry := live[path]
		if !knownHash && !knownEntry {
			return probe{}
		}
		return probe{path: path, deleted: true}
	case err != nil:
		return probe{path: path, failure: &domain.ExtractionError{Kind: domain.FailureIO, Path: path, Err: err}}
	case info.IsDir():
		return probe{}
	case info.Size() > c.maxFileSize:
		return probe{path: path, skip: &domain.Skip{Path: path, Reason: "file exceeds size limit"}}
	}

	fh, err := c.hasher.HashFile(path)
	if err != nil {
		return probe{path: path, failure: &domain.ExtractionError{Kind: domain.FailureIO, Path: path, Err: err}}
	}

	// Unchanged content with a live entry needs no work. A missing entry
	// means the path was invalidated or evicted and must be re-extracted
	// even though its bytes did not change.
	if prev, ok := stored[path]; ok && prev == fh.ContentHash {
		if _, ok := live[path]; ok {
			return probe{}
		}
	}

	extractor, err := c.registry.ExtractorFor(path)
	if err != nil {
		return probe{path: path, failure: &domain.ExtractionError{Kind: domain.FailureIO, Path: path, Err: err}}
	}

	extractCtx, cancel := context.WithTimeout(ctx, c.extractTimeout)
	defer cancel()

	facts, err := extractor.Extract(extractCtx, path)
	if err != nil {
		return probe{path: path, failure: classifyFailure(path, err)}
	}

	encoded, err := domain.EncodeFacts(facts)
	if err != nil {
		return probe{path: path, failure: &domain.ExtractionError{Kind: domain.FailureEncoding, Path: path, Err: err}}
	}

	return probe{path: path, hash: fh, facts: facts, size: int64(len(encoded))}
}

// commitDeleteLocked removes all state for a deleted path and invalidates
// its direct dependents.
func (c *Cache) commitDeleteLocked(p probe, res *BatchResult, committed map[string]struct{}) {
	var oldFacts domain.Facts
	if prev, ok := c.entries[p.path]; ok {
		oldFacts = prev.Facts
	}

	c.removeEntryLocked(p.path)
	delete(c.hashes, p.path)
	c.invalidateDependentsLocked(p.path, committed)

	committed[p.path] = struct{}{}
	res.Changes = append(res.Changes, domain.Change{
		Type:     domain.ChangeDeleted,
		Path:     p.path,
		OldFacts: oldFacts,
	})
}

// commitUpdateLocked writes the freshly extracted entry, rebuilds the path's
// outgoing dependency edges, and invalidates its direct dependents.
func (c *Cache) commitUpdateLocked(p probe, res *BatchResult, committed map[string]struct{}) {
	changeType := domain.ChangeModified
	if _, ok := c.hashes[p.path]; !ok {
		changeType = domain.ChangeAdded
	}

	var oldFacts domain.Facts
	if prev, ok := c.entries[p.path]; ok {
		oldFacts = prev.Facts
	}

	c.removeEntryLocked(p.path)

	entry := &domain.CacheEntry{
		Path:         p.path,
		Facts:        p.facts,
		ContentHash:  p.hash.ContentHash,
		AnalyzedAt:   time.Now(),
		Dependencies: p.facts.Dependencies(),
		Size:         p.size,
	}
	c.entries[p.path] = entry
	c.totalSize += entry.Size
	c.hashes[p.path] = p.hash
	for _, dep := range entry.Dependencies {
		set, ok := c.dependents[dep]
		if !ok {
			set = make(map[string]struct{})
			c.dependents[dep] = set
		}
		set[p.path] = struct{}{}
	}

	c.invalidateDependentsLocked(p.path, committed)

	committed[p.path] = struct{}{}
	res.Changes = append(res.Changes, domain.Change{
		Type:     changeType,
		Path:     p.path,
		Facts:    p.facts,
		OldFacts: oldFacts,
	})
}

// invalidateDependentsLocked drops the cache entries of every direct
// dependent of path, forcing re-extraction on their next settle. This is
// single-hop on purpose: re-analysis of a dependent does not cascade further
// unless that dependent itself changes. Paths already committed in the
// current batch keep their fresh entries.
func (c *Cache) invalidateDependentsLocked(path string, committed map[string]struct{}) {
	for dependent := range c.dependents[path] {
		if _, ok := committed[dependent]; ok {
			continue
		}
		c.removeEntryLocked(dependent)
	}
}

// removeEntryLocked drops a path's entry, its outgoing edges and its size
// contribution. The stored content hash is left alone.
func (c *Cache) removeEntryLocked(path string) {
	entry, ok := c.entries[path]
	if !ok {
		return
	}
	for _, dep := range entry.Dependencies {
		if set, ok := c.dependents[dep]; ok {
			delete(set, path)
			if len(set) == 0 {
				delete(c.dependents, dep)
			}
		}
	}
	c.totalSize -= entry.Size
	delete(c.entries, path)
}

// evictLocked enforces the byte budget: when total size exceeds the budget,
// least-recently-analyzed entries are dropped until usage is at or below
// 80% of budget. Entries touched by the current batch are never evicted.
func (c *Cache) evictLocked(protected map[string]struct{}) {
	if c.totalSize <= c.budget {
		return
	}
	target := int64(float64(c.budget) * evictTargetRatio)

	candidates := make([]*domain.CacheEntry, 0, len(c.entries))
	for path, entry := range c.entries {
		if _, ok := protected[path]; ok {
			continue
		}
		candidates = append(candidates, entry)
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].AnalyzedAt.Before(candidates[j].AnalyzedAt)
	})

	for _, entry := range candidates {
		if c.totalSize <= target {
			return
		}
		c.removeEntryLocked(entry.Path)
	}
}

// Entries returns a copy of all live cache entries sorted by path.
func (c *Cache) Entries() []*domain.CacheEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]*domain.CacheEntry, 0, len(c.entries))
	for _, entry := range c.entries {
		cp := *entry
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Size returns the current serialized-facts byte total.
func (c *Cache) Size() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalSize
}

// Snapshot captures the full cache state for persistence.
func (c *Cache) Snapshot() *domain.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := &domain.Snapshot{
		FileHashes: make(map[string]domain.FileHash, len(c.hashes)),
		Entries:    make(map[string]*domain.CacheEntry, len(c.entries)),
		Dependents: make(map[string][]string, len(c.dependents)),
		SavedAt:    time.Now(),
	}
	for path, fh := range c.hashes {
		snap.FileHashes[path] = fh
	}
	for path, entry := range c.entries {
		cp := *entry
		snap.Entries[path] = &cp
	}
	for dep, set := range c.dependents {
		deps := make([]string, 0, len(set))
		for dependent := range set {
			deps = append(deps, dependent)
		}
		slices.Sort(deps)
		snap.Dependents[dep] = deps
	}
	return snap
}

// Restore loads a persisted snapshot. A snapshot older than ttl is discarded
// wholesale. With revalidate set, every restored entry's hash is checked
// against current disk content and mismatches are dropped.
func (c *Cache) Restore(snap *domain.Snapshot, ttl time.Duration, revalidate bool) {
	if snap == nil || time.Since(snap.SavedAt) > ttl {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.hashes = make(map[string]domain.FileHash, len(snap.FileHashes))
	for path, fh := range snap.FileHashes {
		c.hashes[path] = fh
	}
	c.entries = make(map[string]*domain.CacheEntry, len(snap.Entries))
	c.dependents = make(map[string]map[string]struct{})
	c.totalSize = 0

	for path, entry := range snap.Entries {
		cp := *entry
		if revalidate {
			fh, err := c.hasher.HashFile(path)
			if err != nil || fh.ContentHash != cp.ContentHash {
				delete(c.hashes, path)
				continue
			}
		}
		c.entries[path] = &cp
		c.totalSize += cp.Size
		for _, dep := range cp.Dependencies {
			set, ok := c.dependents[dep]
			if !ok {
				set = make(map[string]struct{})
				c.dependents[dep] = set
			}
			set[path] = struct{}{}
		}
	}
}

// classifyFailure normalizes an extraction error into a classified failure.
func classifyFailure(path string, err error) *domain.ExtractionError {
	var extErr *domain.ExtractionError
	if errors.As(err, &extErr) {
		return extErr
	}
	kind := domain.FailureSyntax
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		kind = domain.FailureIO
	}
	return &domain.ExtractionError{Kind: kind, Path: path, Err: err}
}

// dedupe removes duplicate paths preserving first-seen order.
func dedupe(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
