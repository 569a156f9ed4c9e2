package watcher

import (
	"sync"
	"time"
	"unique"
)

// settleTick groups paths whose debounce windows expire near-simultaneously
// into a single settle batch.
const settleTick = 10 * time.Millisecond

// Debouncer coalesces rapid file system events into settle batches. Unlike a
// single-timer debouncer, each path gets its own timer: a burst on one path
// never delays the settlement of another.
type Debouncer struct {
	mu         sync.Mutex
	window     time.Duration
	timers     map[unique.Handle[string]]*time.Timer
	settled    []unique.Handle[string]
	settledSet map[unique.Handle[string]]struct{}
	flushTimer *time.Timer
	callback   func(paths []string)
}

// NewDebouncer creates a new debouncer with the given quiet-period window and
// settle-batch callback.
func NewDebouncer(window time.Duration, callback func(paths []string)) *Debouncer {
	return &Debouncer{
		window:     window,
		timers:     make(map[unique.Handle[string]]*time.Timer),
		settledSet: make(map[unique.Handle[string]]struct{}),
		callback:   callback,
	}
}

// Add records a raw event for the path, resetting its debounce timer.
func (d *Debouncer) Add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	handle := unique.Make(path)
	if timer, ok := d.timers[handle]; ok {
		timer.Stop()
	}
	d.timers[handle] = time.AfterFunc(d.window, func() {
		d.settle(handle)
	})
}

// settle moves a quiet path into the pending settle batch and schedules the
// batch flush if one is not already scheduled.
func (d *Debouncer) settle(handle unique.Handle[string]) {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.timers, handle)
	if _, ok := d.settledSet[handle]; ok {
		return
	}
	d.settledSet[handle] = struct{}{}
	d.settled = append(d.settled, handle)

	if d.flushTimer == nil {
		d.flushTimer = time.AfterFunc(settleTick, d.fire)
	}
}

// fire delivers the current settle batch.
func (d *Debouncer) fire() {
	d.mu.Lock()
	paths := d.takeSettledLocked()
	d.flushTimer = nil
	d.mu.Unlock()

	if len(paths) > 0 && d.callback != nil {
		d.callback(paths)
	}
}

// Flush immediately settles every pending path and delivers the batch
// synchronously. It blocks until the callback completes, which makes it
// suitable for graceful shutdown where pending work must finish first.
func (d *Debouncer) Flush() {
	d.mu.Lock()

	for handle, timer := range d.timers {
		timer.Stop()
		delete(d.timers, handle)
		if _, ok := d.settledSet[handle]; !ok {
			d.settledSet[handle] = struct{}{}
			d.settled = append(d.settled, handle)
		}
	}
	if d.flushTimer != nil {
		d.flushTimer.Stop()
		d.flushTimer = nil
	}

	paths := d.takeSettledLocked()
	d.mu.Unlock()

	if len(paths) > 0 && d.callback != nil {
		d.callback(paths)
	}
}

// takeSettledLocked drains the settle batch. Caller must hold the mutex.
func (d *Debouncer) takeSettledLocked() []string {
	paths := make([]string, 0, len(d.settled))
	for _, handle := range d.settled {
		paths = append(paths, handle.Value())
	}
	d.settled = nil
	d.settledSet = make(map[unique.Handle[string]]struct{})
	return paths
}
