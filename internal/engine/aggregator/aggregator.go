// Package aggregator keeps a bounded history of analysis outcomes and derives
// hotspots and trend signals from it. It is read-only over cache and profile.
package aggregator

import (
	"sort"
	"sync"
	"time"

	"go.trai.ch/drift/internal/core/domain"
)

// trendHysteresis is the relative change in mean violation count required
// before the trend label leaves "stable".
const trendHysteresis = 0.1

// Trend labels for the violation history.
const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"
)

// Sample is one metric point recorded after a batch evaluation.
type Sample struct {
	Timestamp        time.Time     `json:"timestamp"`
	Score            int           `json:"score"`
	ViolationCount   int           `json:"violationCount"`
	ErrorCount       int           `json:"errorCount"`
	WarningCount     int           `json:"warningCount"`
	AnalysisDuration time.Duration `json:"analysisDurationMs"`
}

// Hotspot is the recent violation load of a single file.
type Hotspot struct {
	Path     string `json:"path"`
	Total    int    `json:"total"`
	Errors   int    `json:"errors"`
	Warnings int    `json:"warnings"`
	Infos    int    `json:"infos"`
}

// Aggregator maintains a ring buffer of the last N samples plus the per-file
// violation breakdown of the most recent evaluation.
type Aggregator struct {
	mu      sync.Mutex
	samples []Sample
	next    int
	filled  bool
	byFile  map[string]Hotspot
}

// New creates an aggregator retaining the last history samples.
func New(history int) *Aggregator {
	if history <= 0 {
		history = domain.DefaultHistory
	}
	return &Aggregator{
		samples: make([]Sample, history),
		byFile:  make(map[string]Hotspot),
	}
}

// Record stores one evaluation outcome. Each evaluation covers the whole
// fact set, so the per-file breakdown replaces the previous one wholesale.
func (a *Aggregator) Record(score int, violations []domain.Violation, duration time.Duration) Sample {
	sample := Sample{
		Timestamp:        time.Now(),
		Score:            score,
		ViolationCount:   len(violations),
		AnalysisDuration: duration,
	}

	byFile := make(map[string]Hotspot)
	for _, v := range violations {
		h := byFile[v.Path]
		h.Path = v.Path
		h.Total++
		switch v.Severity {
		case domain.SeverityError:
			h.Errors++
			sample.ErrorCount++
		case domain.SeverityWarning:
			h.Warnings++
			sample.WarningCount++
		case domain.SeverityInfo:
			h.Infos++
		}
		byFile[v.Path] = h
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.samples[a.next] = sample
	a.next++
	if a.next == len(a.samples) {
		a.next = 0
		a.filled = true
	}
	a.byFile = byFile
	return sample
}

// CurrentMetrics returns the most recent sample, if any exists.
func (a *Aggregator) CurrentMetrics() (Sample, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.next == 0 && !a.filled {
		return Sample{}, false
	}
	idx := a.next - 1
	if idx < 0 {
		idx = len(a.samples) - 1
	}
	return a.samples[idx], true
}

// EventStream returns up to limit samples in chronological order, newest
// last. A non-positive limit returns the full retained history.
func (a *Aggregator) EventStream(limit int) []Sample {
	a.mu.Lock()
	defer a.mu.Unlock()

	ordered := a.orderedLocked()
	if limit > 0 && len(ordered) > limit {
		ordered = ordered[len(ordered)-limit:]
	}
	out := make([]Sample, len(ordered))
	copy(out, ordered)
	return out
}

// Hotspots returns the top-k files by recent violation count with severity
// breakdown. Ties sort by path for determinism.
func (a *Aggregator) Hotspots(k int) []Hotspot {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]Hotspot, 0, len(a.byFile))
	for _, h := range a.byFile {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Path < out[j].Path
	})
	if k > 0 && len(out) > k {
		out = out[:k]
	}
	return out
}

// Trend compares the mean violation count of the recent half of the history
// against the older half. Fewer than four samples always reads as stable.
func (a *Aggregator) Trend() string {
	a.mu.Lock()
	defer a.mu.Unlock()

	ordered := a.orderedLocked()
	if len(ordered) < 4 {
		return TrendStable
	}

	mid := len(ordered) / 2
	older := meanViolations(ordered[:mid])
	recent := meanViolations(ordered[mid:])

	switch {
	case older == 0 && recent == 0:
		return TrendStable
	case older == 0:
		return TrendIncreasing
	case recent > older*(1+trendHysteresis):
		return TrendIncreasing
	case recent < older*(1-trendHysteresis):
		return TrendDecreasing
	default:
		return TrendStable
	}
}

// orderedLocked returns the retained samples oldest first.
func (a *Aggregator) orderedLocked() []Sample {
	if !a.filled {
		return a.samples[:a.next]
	}
	out := make([]Sample, 0, len(a.samples))
	out = append(out, a.samples[a.next:]...)
	out = append(out, a.samples[:a.next]...)
	return out
}

func meanViolations(samples []Sample) float64 {
	if len(samples) == 0 {
		return 0
	}
	total := 0
	for _, s := range samples {
		total += s.ViolationCount
	}
	return float64(total) / float64(len(samples))
}
