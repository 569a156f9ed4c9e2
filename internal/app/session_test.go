package app_test

import (
	"context"
	"io"
	"iter"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	driftfs "go.trai.ch/drift/internal/adapters/fs"
	"go.trai.ch/drift/internal/adapters/logger"
	"go.trai.ch/drift/internal/adapters/store"
	"go.trai.ch/drift/internal/adapters/telemetry"
	"go.trai.ch/drift/internal/app"
	"go.trai.ch/drift/internal/core/domain"
	"go.trai.ch/drift/internal/core/ports"
	"go.trai.ch/drift/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

// fakeWatcher feeds scripted events into a session.
type fakeWatcher struct {
	events   chan ports.WatchEvent
	errs     chan error
	stopOnce sync.Once
}

func newFakeWatcher() *fakeWatcher {
	return &fakeWatcher{
		events: make(chan ports.WatchEvent, 16),
		errs:   make(chan error, 16),
	}
}

func (f *fakeWatcher) Start(context.Context, string) error { return nil }

func (f *fakeWatcher) Stop() error {
	f.stopOnce.Do(func() {
		close(f.events)
		close(f.errs)
	})
	return nil
}

func (f *fakeWatcher) Events() iter.Seq[ports.WatchEvent] {
	return func(yield func(ports.WatchEvent) bool) {
		for event := range f.events {
			if !yield(event) {
				return
			}
		}
	}
}

func (f *fakeWatcher) Errors() iter.Seq[error] {
	return func(yield func(error) bool) {
		for err := range f.errs {
			if !yield(err) {
				return
			}
		}
	}
}

// recordingObserver captures every pipeline callback for later assertions.
type recordingObserver struct {
	mu         sync.Mutex
	ready      int
	analyses   [][]domain.Change
	drift      [][]domain.Change
	violations [][]domain.Violation
	profiles   []*domain.DesignPatternProfile
	errs       []error
}

func (r *recordingObserver) OnReady() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ready++
}

func (r *recordingObserver) OnAnalysisComplete(changes []domain.Change, _ domain.SessionStats) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.analyses = append(r.analyses, changes)
}

func (r *recordingObserver) OnDriftDetected(changes []domain.Change) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drift = append(r.drift, changes)
}

func (r *recordingObserver) OnViolationsDetected(violations []domain.Violation, _ []domain.Change) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.violations = append(r.violations, violations)
}

func (r *recordingObserver) OnPatternsUpdated(profile *domain.DesignPatternProfile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles = append(r.profiles, profile)
}

func (r *recordingObserver) OnError(cause error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, cause)
}

func (r *recordingObserver) readyCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ready
}

func componentExtractor(t *testing.T, facts map[string]domain.Facts) *mocks.MockExtractor {
	t.Helper()
	m := mocks.NewMockExtractor(gomock.NewController(t))
	m.EXPECT().Kind().Return(domain.KindComponent).AnyTimes()
	m.EXPECT().Extract(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, path string) (domain.Facts, error) {
			f, ok := facts[path]
			if !ok {
				return nil, &domain.ExtractionError{Kind: domain.FailureSyntax, Path: path}
			}
			return f, nil
		},
	).AnyTimes()
	return m
}

func quietLogger(t *testing.T) ports.Logger {
	t.Helper()
	l := logger.New()
	l.(*logger.Logger).SetOutput(io.Discard)
	return l
}

func testSession(t *testing.T, root string, fw ports.Watcher, facts map[string]domain.Facts) *app.Session {
	t.Helper()
	cfg := &domain.Config{Root: root, Debounce: 20 * time.Millisecond}
	cfg.ApplyDefaults()

	return app.NewSession(
		cfg,
		quietLogger(t),
		store.NewStore(),
		telemetry.NewOTelTracer(t.Name()),
		driftfs.NewHasher(),
		fw,
		driftfs.NewWalker(),
		componentExtractor(t, facts),
	)
}

func writeComponent(t *testing.T, root, name string) string {
	t.Helper()
	path := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), domain.DirPerm))
	require.NoError(t, os.WriteFile(path, []byte("export const x = 1"), domain.FilePerm))
	return path
}

func TestSession_StartTwice(t *testing.T) {
	root := t.TempDir()
	sess := testSession(t, root, newFakeWatcher(), nil)

	require.NoError(t, sess.Start(context.Background()))
	defer sess.Stop()

	err := sess.Start(context.Background())
	require.ErrorIs(t, err, domain.ErrSessionAlreadyStarted)
}

func TestSession_StartNotifiesObservers(t *testing.T) {
	root := t.TempDir()
	sess := testSession(t, root, newFakeWatcher(), nil)

	subscribed := &recordingObserver{}
	dropped := &recordingObserver{}
	sess.Subscribe(subscribed)
	unsubscribe := sess.Subscribe(dropped)
	unsubscribe()

	require.NoError(t, sess.Start(context.Background()))
	defer sess.Stop()

	assert.Equal(t, 1, subscribed.readyCount())
	assert.Zero(t, dropped.readyCount(), "unsubscribed observers stay silent")
}

func TestSession_ChangePipeline(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		root := t.TempDir()
		component := writeComponent(t, root, "src/Button.tsx")

		facts := map[string]domain.Facts{
			component: &domain.ComponentFacts{
				Components:        []domain.ComponentDecl{{Name: "Button"}},
				UnlabeledControls: 1,
			},
		}

		fw := newFakeWatcher()
		sess := testSession(t, root, fw, facts)
		obs := &recordingObserver{}
		sess.Subscribe(obs)

		require.NoError(t, sess.Start(context.Background()))

		fw.events <- ports.WatchEvent{Path: component, Operation: ports.OpWrite}
		time.Sleep(100 * time.Millisecond)
		synctest.Wait()

		obs.mu.Lock()
		require.Len(t, obs.analyses, 1)
		require.Len(t, obs.analyses[0], 1)
		assert.Equal(t, domain.ChangeAdded, obs.analyses[0][0].Type)
		assert.Equal(t, component, obs.analyses[0][0].Path)
		require.Len(t, obs.drift, 1)
		require.Len(t, obs.violations, 1, "the unlabeled control is a violation")
		require.Len(t, obs.profiles, 1, "learning Button changes the baseline")
		obs.mu.Unlock()

		profile := sess.Profile()
		usage, ok := profile.Usage("Button")
		require.True(t, ok)
		assert.Equal(t, 1, usage.Count)

		sample, ok := sess.Metrics().CurrentMetrics()
		require.True(t, ok)
		assert.Equal(t, 1, sample.ViolationCount)

		stats := sess.Stop()
		assert.Equal(t, 1, stats.ChangesDetected)
	})
}

func TestSession_ExtractionFailureIsSurfaced(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		root := t.TempDir()
		component := writeComponent(t, root, "src/Broken.tsx")

		fw := newFakeWatcher()
		// No facts registered: extraction fails for every path.
		sess := testSession(t, root, fw, nil)
		obs := &recordingObserver{}
		sess.Subscribe(obs)

		require.NoError(t, sess.Start(context.Background()))

		fw.events <- ports.WatchEvent{Path: component, Operation: ports.OpWrite}
		time.Sleep(100 * time.Millisecond)
		synctest.Wait()

		obs.mu.Lock()
		require.Len(t, obs.errs, 1)
		var extractionErr *domain.ExtractionError
		require.ErrorAs(t, obs.errs[0], &extractionErr)
		assert.Equal(t, component, extractionErr.Path)
		assert.Empty(t, obs.drift, "a failed extraction commits no change")
		obs.mu.Unlock()

		sess.Stop()
	})
}

func TestSession_WatcherErrorKeepsSessionRunning(t *testing.T) {
	root := t.TempDir()

	fw := newFakeWatcher()
	sess := testSession(t, root, fw, nil)
	obs := &recordingObserver{}
	sess.Subscribe(obs)

	require.NoError(t, sess.Start(context.Background()))
	defer sess.Stop()

	fw.errs <- os.ErrPermission

	require.Eventually(t, func() bool {
		obs.mu.Lock()
		defer obs.mu.Unlock()
		return len(obs.errs) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestSession_StopPersistsSnapshot(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		root := t.TempDir()
		component := writeComponent(t, root, "src/Button.tsx")

		facts := map[string]domain.Facts{
			component: &domain.ComponentFacts{Components: []domain.ComponentDecl{{Name: "Button"}}},
		}

		fw := newFakeWatcher()
		sess := testSession(t, root, fw, facts)
		require.NoError(t, sess.Start(context.Background()))

		fw.events <- ports.WatchEvent{Path: component, Operation: ports.OpWrite}
		time.Sleep(100 * time.Millisecond)
		synctest.Wait()

		sess.Stop()

		snap, err := store.NewStore().Load(root)
		require.NoError(t, err)
		require.NotNil(t, snap)
		require.Contains(t, snap.Entries, component)
		assert.IsType(t, &domain.ComponentFacts{}, snap.Entries[component].Facts)
	})
}

func TestSession_RestartWarmsBaselineFromSnapshot(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		root := t.TempDir()
		component := writeComponent(t, root, "src/Button.tsx")

		facts := map[string]domain.Facts{
			component: &domain.ComponentFacts{Components: []domain.ComponentDecl{{Name: "Button"}}},
		}

		fw := newFakeWatcher()
		first := testSession(t, root, fw, facts)
		require.NoError(t, first.Start(context.Background()))
		fw.events <- ports.WatchEvent{Path: component, Operation: ports.OpWrite}
		time.Sleep(100 * time.Millisecond)
		synctest.Wait()
		first.Stop()

		second := testSession(t, root, newFakeWatcher(), facts)
		require.NoError(t, second.Start(context.Background()))
		defer second.Stop()

		_, ok := second.Profile().Usage("Button")
		assert.True(t, ok, "the baseline is learned from the restored cache")
	})
}

func TestSession_StopClearsObservers(t *testing.T) {
	root := t.TempDir()
	sess := testSession(t, root, newFakeWatcher(), nil)

	obs := &recordingObserver{}
	sess.Subscribe(obs)

	require.NoError(t, sess.Start(context.Background()))
	sess.Stop()
	require.Equal(t, 1, obs.readyCount())

	// A restarted session only notifies fresh subscriptions.
	require.NoError(t, sess.Start(context.Background()))
	defer sess.Stop()
	assert.Equal(t, 1, obs.readyCount())
}
