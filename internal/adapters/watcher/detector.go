package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	driftfs "go.trai.ch/drift/internal/adapters/fs"
	"go.trai.ch/drift/internal/core/domain"
	"go.trai.ch/drift/internal/core/ports"
	"go.trai.ch/zerr"
)

// State is the lifecycle state of a detector session.
type State uint8

const (
	// StateStopped indicates the detector is not watching.
	StateStopped State = iota
	// StateWatching indicates the detector is delivering settle batches.
	StateWatching
)

// Detector is the change-detection stage of the pipeline. It filters raw
// watcher events through the configured glob patterns, debounces them per
// path, and delivers settle batches to the supplied callback. Paths outside
// the configured patterns are never observed downstream.
type Detector struct {
	watcher   ports.Watcher
	walker    *driftfs.Walker
	matcher   *driftfs.GlobMatcher
	debouncer *Debouncer
	onBatch   func(paths []string)
	onError   func(err error)

	mu     sync.Mutex
	state  State
	stats  domain.SessionStats
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewDetector creates a detector delivering settle batches to onBatch and
// recoverable watcher failures to onError.
func NewDetector(
	w ports.Watcher,
	walker *driftfs.Walker,
	matcher *driftfs.GlobMatcher,
	window time.Duration,
	onBatch func(paths []string),
	onError func(err error),
) *Detector {
	d := &Detector{
		watcher: w,
		walker:  walker,
		matcher: matcher,
		onBatch: onBatch,
		onError: onError,
	}
	d.debouncer = NewDebouncer(window, d.deliver)
	return d
}

// Start begins watching root. An invalid root is a fatal startup failure.
func (d *Detector) Start(ctx context.Context, root string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == StateWatching {
		return domain.ErrSessionAlreadyStarted
	}

	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return zerr.With(domain.ErrInvalidRoot, "root", root)
	}

	// Counters reset on every session start.
	d.stats = domain.SessionStats{StartedAt: time.Now()}
	for range d.walker.WalkFiles(root, d.matcher) {
		d.stats.FilesWatched++
	}

	ctx, cancel := context.WithCancel(ctx)
	if err := d.watcher.Start(ctx, root); err != nil {
		cancel()
		return zerr.Wrap(err, domain.ErrWatcherStartFailed.Error())
	}
	d.cancel = cancel
	d.state = StateWatching

	d.wg.Add(2)
	go d.consumeEvents(root)
	go d.consumeErrors()

	return nil
}

// Stop flushes pending debounce timers, delivers the final settle batch
// synchronously, and returns the final session statistics. It is idempotent.
func (d *Detector) Stop() domain.SessionStats {
	d.mu.Lock()
	if d.state == StateStopped {
		stats := d.stats
		d.mu.Unlock()
		return stats
	}
	d.state = StateStopped
	cancel := d.cancel
	d.mu.Unlock()

	_ = d.watcher.Stop()
	if cancel != nil {
		cancel()
	}
	d.wg.Wait()

	// Deliver pending work before reporting final stats.
	d.debouncer.Flush()

	d.mu.Lock()
	d.stats.DurationMs = time.Since(d.stats.StartedAt).Milliseconds()
	stats := d.stats
	d.mu.Unlock()
	return stats
}

// Stats returns a snapshot of the session statistics.
func (d *Detector) Stats() domain.SessionStats {
	d.mu.Lock()
	defer d.mu.Unlock()
	stats := d.stats
	if d.state == StateWatching {
		stats.DurationMs = time.Since(stats.StartedAt).Milliseconds()
	}
	return stats
}

// consumeEvents feeds matching watcher events into the debouncer.
func (d *Detector) consumeEvents(root string) {
	defer d.wg.Done()

	for event := range d.watcher.Events() {
		rel, err := filepath.Rel(root, event.Path)
		if err != nil || !d.matcher.Match(rel) {
			continue
		}

		if event.Operation == ports.OpCreate {
			d.mu.Lock()
			d.stats.FilesWatched++
			d.mu.Unlock()
		}

		d.debouncer.Add(event.Path)
	}
}

// consumeErrors surfaces recoverable backend errors without stopping the session.
func (d *Detector) consumeErrors() {
	defer d.wg.Done()

	for err := range d.watcher.Errors() {
		if d.onError != nil {
			d.onError(err)
		}
	}
}

// deliver forwards one settle batch downstream and updates counters.
func (d *Detector) deliver(paths []string) {
	d.mu.Lock()
	d.stats.ChangesDetected += len(paths)
	d.mu.Unlock()

	if d.onBatch != nil {
		d.onBatch(paths)
	}
}

// AddViolations records evaluator findings in the session statistics.
func (d *Detector) AddViolations(n int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stats.ViolationsFound += n
}
