package watcher_test

import (
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/drift/internal/adapters/watcher"
)

func TestNewDebouncer(t *testing.T) {
	tests := []struct {
		name     string
		window   time.Duration
		callback func([]string)
	}{
		{
			name:     "with callback",
			window:   100 * time.Millisecond,
			callback: func([]string) {},
		},
		{
			name:     "with nil callback",
			window:   50 * time.Millisecond,
			callback: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := watcher.NewDebouncer(tt.window, tt.callback)
			require.NotNil(t, d)
		})
	}
}

func TestDebouncer_Add_SinglePath(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var callCount int
		var receivedPaths []string

		d := watcher.NewDebouncer(100*time.Millisecond, func(paths []string) {
			callCount++
			receivedPaths = paths
		})

		d.Add("/project/src/Button.tsx")

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		require.Equal(t, 1, callCount)
		require.Len(t, receivedPaths, 1)
		assert.Equal(t, "/project/src/Button.tsx", receivedPaths[0])
	})
}

func TestDebouncer_Add_CoalescesSamePath(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var callCount int
		var receivedPaths []string

		d := watcher.NewDebouncer(100*time.Millisecond, func(paths []string) {
			callCount++
			receivedPaths = paths
		})

		// A burst of events on the same path within the window.
		for range 10 {
			d.Add("/project/src/Button.tsx")
			time.Sleep(10 * time.Millisecond)
		}

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		// Exactly one settle entry for the path.
		require.Equal(t, 1, callCount)
		require.Equal(t, []string{"/project/src/Button.tsx"}, receivedPaths)
	})
}

func TestDebouncer_Add_NearbyExpiriesFormOneBatch(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var callCount int
		var receivedPaths []string

		d := watcher.NewDebouncer(100*time.Millisecond, func(paths []string) {
			callCount++
			receivedPaths = paths
		})

		d.Add("/project/src/Button.tsx")
		d.Add("/project/src/Input.tsx")
		d.Add("/project/styles/theme.css")

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		require.Equal(t, 1, callCount)
		assert.ElementsMatch(t, []string{
			"/project/src/Button.tsx",
			"/project/src/Input.tsx",
			"/project/styles/theme.css",
		}, receivedPaths)
	})
}

func TestDebouncer_Add_BurstOnOnePathDoesNotDelayAnother(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var mu sync.Mutex
		var batches [][]string

		d := watcher.NewDebouncer(100*time.Millisecond, func(paths []string) {
			mu.Lock()
			defer mu.Unlock()
			batches = append(batches, paths)
		})

		d.Add("/project/src/quiet.tsx")

		// Keep resetting the noisy path's timer past the quiet path's window.
		for range 30 {
			d.Add("/project/src/noisy.tsx")
			time.Sleep(10 * time.Millisecond)
		}

		synctest.Wait()

		mu.Lock()
		require.NotEmpty(t, batches, "quiet path must settle despite the burst")
		assert.Equal(t, []string{"/project/src/quiet.tsx"}, batches[0])
		mu.Unlock()

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		mu.Lock()
		require.Len(t, batches, 2)
		assert.Equal(t, []string{"/project/src/noisy.tsx"}, batches[1])
		mu.Unlock()
	})
}

func TestDebouncer_Flush_DeliversPendingSynchronously(t *testing.T) {
	var callCount int
	var receivedPaths []string

	d := watcher.NewDebouncer(time.Hour, func(paths []string) {
		callCount++
		receivedPaths = paths
	})

	d.Add("/project/src/Button.tsx")
	d.Add("/project/src/Input.tsx")

	d.Flush()

	require.Equal(t, 1, callCount)
	assert.ElementsMatch(t, []string{
		"/project/src/Button.tsx",
		"/project/src/Input.tsx",
	}, receivedPaths)

	// Nothing pending; a second flush is a no-op.
	d.Flush()
	assert.Equal(t, 1, callCount)
}
