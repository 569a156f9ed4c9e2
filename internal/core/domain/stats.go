package domain

import "time"

// SessionStats tracks counters for one watch session. It is mutated only by
// the change detector and aggregator during a session and reset on start.
type SessionStats struct {
	FilesWatched     int       `json:"filesWatched"`
	ChangesDetected  int       `json:"changesDetected"`
	ViolationsFound  int       `json:"violationsFound"`
	StartedAt        time.Time `json:"startedAt"`
	// DurationMs is populated when the session stops.
	DurationMs int64 `json:"durationMs"`
}
