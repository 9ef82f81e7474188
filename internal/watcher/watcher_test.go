package watcher

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfscope/shelfscope-server/internal/logger"
)

func newTestWatcher(t *testing.T, opts Options) *Watcher {
	t.Helper()
	log := logger.New(logger.Config{Writer: io.Discard, Format: "json"})
	w, err := New(log, opts)
	require.NoError(t, err)
	return w
}

// waitForEvent blocks until an event for path arrives or the timeout fires.
func waitForEvent(t *testing.T, w *Watcher, path string, timeout time.Duration) Event {
	t.Helper()
	deadline := time.After(timeout)
	for {
		select {
		case ev := <-w.Events():
			if ev.Path == path {
				return ev
			}
		case err := <-w.Errors():
			t.Fatalf("watcher error: %v", err)
		case <-deadline:
			t.Fatalf("timed out waiting for event on %s", path)
		}
	}
}

func TestEventType_String(t *testing.T) {
	assert.Equal(t, "added", EventAdded.String())
	assert.Equal(t, "modified", EventModified.String())
	assert.Equal(t, "removed", EventRemoved.String())
	assert.Equal(t, "unknown", EventType(99).String())
}

func TestOptions_ShouldIgnore(t *testing.T) {
	opts := Options{}
	opts.setDefaults()

	tests := []struct {
		path   string
		ignore bool
	}{
		{"/data/awards/hugo.csv", false},
		{"/data/awards/.hugo.csv.swp", true},
		{"/data/awards/hugo.csv.tmp", true},
		{"/data/.git/config", true},
		{"/data/lists/npr-top-100.csv", false},
		{"/data/.DS_Store", true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.ignore, opts.shouldIgnore(tt.path), tt.path)
	}
}

func TestOptions_Defaults(t *testing.T) {
	opts := Options{}
	opts.setDefaults()

	assert.Equal(t, 200*time.Millisecond, opts.SettleDelay)
	assert.NotEmpty(t, opts.IgnorePatterns)
	assert.True(t, opts.IgnoreHidden)

	// Explicit empty patterns are respected.
	custom := Options{IgnorePatterns: []string{}}
	custom.setDefaults()
	assert.Empty(t, custom.IgnorePatterns)
	assert.False(t, custom.IgnoreHidden)
}

func TestWatcher_DetectsNewFile(t *testing.T) {
	dir := t.TempDir()
	w := newTestWatcher(t, Options{SettleDelay: 50 * time.Millisecond})
	defer w.Stop()

	require.NoError(t, w.Watch(dir))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	path := filepath.Join(dir, "hugo.csv")
	require.NoError(t, os.WriteFile(path, []byte("Hyperion,Dan Simmons,Hugo Award 1990\n"), 0644))

	ev := waitForEvent(t, w, path, 5*time.Second)
	assert.Equal(t, EventAdded, ev.Type)
	assert.Positive(t, ev.Size)
}

func TestWatcher_DetectsModification(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lists.csv")
	require.NoError(t, os.WriteFile(path, []byte("Dune,Frank Herbert,NPR Top 100\n"), 0644))

	w := newTestWatcher(t, Options{SettleDelay: 50 * time.Millisecond})
	defer w.Stop()

	require.NoError(t, w.Watch(dir))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	require.NoError(t, os.WriteFile(path, []byte("Dune,Frank Herbert,NPR Top 100\nHyperion,Dan Simmons,NPR Top 100\n"), 0644))

	ev := waitForEvent(t, w, path, 5*time.Second)
	assert.Equal(t, EventModified, ev.Type)
}

func TestWatcher_DetectsRemoval(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stale.csv")
	require.NoError(t, os.WriteFile(path, []byte("x\n"), 0644))

	w := newTestWatcher(t, Options{SettleDelay: 50 * time.Millisecond})
	defer w.Stop()

	require.NoError(t, w.Watch(dir))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	require.NoError(t, os.Remove(path))

	ev := waitForEvent(t, w, path, 5*time.Second)
	assert.Equal(t, EventRemoved, ev.Type)
}

func TestWatcher_IgnoresTempFiles(t *testing.T) {
	dir := t.TempDir()
	w := newTestWatcher(t, Options{SettleDelay: 50 * time.Millisecond})
	defer w.Stop()

	require.NoError(t, w.Watch(dir))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	tmpPath := filepath.Join(dir, "edit.tmp")
	realPath := filepath.Join(dir, "real.csv")
	require.NoError(t, os.WriteFile(tmpPath, []byte("scratch"), 0644))
	require.NoError(t, os.WriteFile(realPath, []byte("data"), 0644))

	// Only the csv should surface.
	ev := waitForEvent(t, w, realPath, 5*time.Second)
	assert.Equal(t, realPath, ev.Path)
}
