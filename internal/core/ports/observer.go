package ports

import "go.trai.ch/drift/internal/core/domain"

// Observer receives pipeline events during a watch session. Subscriptions are
// tied to the session lifecycle: they are registered before start and dropped
// on stop, so repeated sessions never leak listeners.
//
// Callbacks run on the pipeline goroutine; implementations must not block and
// must not mutate the values they receive.
//
//go:generate mockgen -source=observer.go -destination=mocks/mock_observer.go -package=mocks
type Observer interface {
	// OnReady fires once the session is watching and the cache is warm.
	OnReady()

	// OnAnalysisComplete fires after each settle batch commits.
	OnAnalysisComplete(changes []domain.Change, stats domain.SessionStats)

	// OnDriftDetected fires when a batch produced at least one change.
	OnDriftDetected(changes []domain.Change)

	// OnViolationsDetected fires when an evaluation produced violations.
	OnViolationsDetected(violations []domain.Violation, changes []domain.Change)

	// OnPatternsUpdated fires when the learned profile changed.
	OnPatternsUpdated(profile *domain.DesignPatternProfile)

	// OnError fires for recoverable failures (watcher errors, extraction
	// failures). The session keeps running.
	OnError(cause error)
}
