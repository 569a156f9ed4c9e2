// Package app implements the application layer: the watch session that ties
// change detection, the incremental cache, the learner, the evaluator and the
// aggregator together.
package app

import (
	"context"
	"sync"
	"time"

	driftfs "go.trai.ch/drift/internal/adapters/fs"
	"go.trai.ch/drift/internal/adapters/watcher"
	"go.trai.ch/drift/internal/core/domain"
	"go.trai.ch/drift/internal/core/ports"
	"go.trai.ch/drift/internal/engine/aggregator"
	"go.trai.ch/drift/internal/engine/cache"
	"go.trai.ch/drift/internal/engine/evaluator"
	"go.trai.ch/drift/internal/engine/learner"
	"go.trai.ch/zerr"
)

// Session is one watch session over a project root. It owns the cache, the
// dependency graph and the learned profile; nothing is shared between
// sessions, so tests and repeated runs never see each other's state.
//
// Settle batches are processed one at a time: the batch mutex serializes the
// full analyze/learn/evaluate pass, so the next batch waits for the previous
// commit phase to finish.
type Session struct {
	cfg       *domain.Config
	logger    ports.Logger
	store     ports.SnapshotStore
	tracer    ports.Tracer
	cache     *cache.Cache
	evaluator *evaluator.Evaluator
	metrics   *aggregator.Aggregator
	detector  *watcher.Detector

	ctx context.Context

	batchMu sync.Mutex

	mu          sync.Mutex
	started     bool
	observers   map[int]ports.Observer
	nextID      int
	profile     *domain.DesignPatternProfile
	fingerprint uint64
}

// NewSession wires a session from its collaborators. Extractors are supplied
// by the host; paths without a registered extractor surface as failures.
func NewSession(
	cfg *domain.Config,
	logger ports.Logger,
	store ports.SnapshotStore,
	tracer ports.Tracer,
	hasher ports.Hasher,
	fsWatcher ports.Watcher,
	walker *driftfs.Walker,
	extractors ...ports.Extractor,
) *Session {
	s := &Session{
		cfg:       cfg,
		logger:    logger,
		store:     store,
		tracer:    tracer,
		cache:     cache.New(hasher, cache.NewRegistry(extractors...), cfg),
		evaluator: evaluator.New(logger),
		metrics:   aggregator.New(cfg.History),
		observers: make(map[int]ports.Observer),
	}

	matcher := driftfs.NewGlobMatcher(cfg.Include, cfg.Exclude)
	s.detector = watcher.NewDetector(
		fsWatcher, walker, matcher, cfg.Debounce,
		s.processBatch, s.handleWatchError,
	)
	return s
}

// Start restores the persisted cache, learns the initial baseline, and begins
// watching. An invalid root or a corrupt snapshot aborts the start.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return domain.ErrSessionAlreadyStarted
	}
	s.mu.Unlock()

	snap, err := s.store.Load(s.cfg.Root)
	if err != nil {
		return zerr.Wrap(err, "cannot start session")
	}
	s.cache.Restore(snap, s.cfg.SnapshotTTL, s.cfg.RevalidateOnLoad)

	if err := s.detector.Start(ctx, s.cfg.Root); err != nil {
		return err
	}

	profile := learner.ExtractProfile(s.cache.Entries())

	s.mu.Lock()
	s.ctx = ctx
	s.started = true
	s.profile = profile
	s.fingerprint = profile.Fingerprint()
	s.mu.Unlock()

	s.logger.Info("watching " + s.cfg.Root)
	for _, o := range s.snapshotObservers() {
		o.OnReady()
	}
	return nil
}

// Stop flushes pending work, persists the cache snapshot and returns the
// final session statistics. It is idempotent; observers are dropped so a
// later session starts clean.
func (s *Session) Stop() domain.SessionStats {
	stats := s.detector.Stop()

	// Wait for an in-flight batch before persisting.
	s.batchMu.Lock()
	snap := s.cache.Snapshot()
	s.batchMu.Unlock()

	if err := s.store.Save(s.cfg.Root, snap); err != nil {
		// Persistence is best effort; the next session rebuilds from disk.
		s.logger.Error(err)
	}

	s.mu.Lock()
	s.started = false
	s.observers = make(map[int]ports.Observer)
	s.mu.Unlock()

	return stats
}

// Stats returns the current session statistics. Queryable at any time.
func (s *Session) Stats() domain.SessionStats {
	return s.detector.Stats()
}

// Profile returns the most recently published baseline.
func (s *Session) Profile() *domain.DesignPatternProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

// Metrics exposes the aggregator for pull-style consumers.
func (s *Session) Metrics() *aggregator.Aggregator {
	return s.metrics
}

// Subscribe registers an observer for the current session and returns its
// unsubscribe function. All subscriptions are dropped on Stop.
func (s *Session) Subscribe(o ports.Observer) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.observers[id] = o

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.observers, id)
	}
}

// processBatch runs the full pipeline for one settle batch: analyze, learn,
// evaluate, aggregate, notify. Batches never overlap.
func (s *Session) processBatch(paths []string) {
	s.batchMu.Lock()
	defer s.batchMu.Unlock()

	started := time.Now()
	ctx := s.sessionContext()
	ctx, span := s.tracer.Start(ctx, "analyze-batch")
	defer span.End()
	span.SetAttribute("batch.size", len(paths))

	result := s.cache.AnalyzeChangedFiles(ctx, paths)

	observers := s.snapshotObservers()
	for _, skip := range result.Skips {
		s.logger.Warn("skipped " + skip.Path + ": " + skip.Reason)
	}
	for _, failure := range result.Failures {
		span.RecordError(failure)
		s.logger.Error(failure)
		for _, o := range observers {
			o.OnError(failure)
		}
	}

	entries := s.cache.Entries()
	profile := learner.ExtractProfile(entries)
	profileChanged := s.publishProfile(profile)

	report := s.evaluator.Evaluate(entries, profile, s.cfg)
	s.metrics.Record(report.Score, report.Violations, time.Since(started))
	s.detector.AddViolations(len(report.Violations))
	span.SetAttribute("drift.score", report.Score)

	stats := s.detector.Stats()
	for _, o := range observers {
		o.OnAnalysisComplete(result.Changes, stats)
		if len(result.Changes) > 0 {
			o.OnDriftDetected(result.Changes)
		}
		if len(report.Violations) > 0 {
			o.OnViolationsDetected(report.Violations, result.Changes)
		}
		if profileChanged {
			o.OnPatternsUpdated(profile)
		}
	}
}

// publishProfile swaps in the new baseline and reports whether its
// fingerprint actually changed.
func (s *Session) publishProfile(profile *domain.DesignPatternProfile) bool {
	fp := profile.Fingerprint()

	s.mu.Lock()
	defer s.mu.Unlock()
	if fp == s.fingerprint {
		return false
	}
	s.profile = profile
	s.fingerprint = fp
	return true
}

// handleWatchError surfaces a recoverable watcher failure without stopping
// the session.
func (s *Session) handleWatchError(err error) {
	s.logger.Error(err)
	for _, o := range s.snapshotObservers() {
		o.OnError(err)
	}
}

// snapshotObservers copies the observer set so notification runs lock-free.
func (s *Session) snapshotObservers() []ports.Observer {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]ports.Observer, 0, len(s.observers))
	for _, o := range s.observers {
		out = append(out, o)
	}
	return out
}

func (s *Session) sessionContext() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx != nil {
		return s.ctx
	}
	return context.Background()
}
