// Package watcher monitors the source data directories for changes so
// the catalog can re-aggregate when an awards or list file is edited.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/shelfscope/shelfscope-server/internal/logger"
)

// Watcher monitors file system changes using fsnotify with debouncing.
// Editors save files in multiple writes, so an event is only emitted
// once the file's size and mtime have stopped changing for SettleDelay.
type Watcher struct {
	logger  *logger.Logger
	opts    Options
	watcher *fsnotify.Watcher

	known   map[string]struct{}       // paths we have already seen
	pending map[string]*pendingChange // path -> pending change info
	mu      sync.Mutex                // protects known and pending

	events chan Event
	errors chan error
	done   chan struct{}
	wg     sync.WaitGroup
}

// pendingChange tracks a file that may still be changing
type pendingChange struct {
	path    string
	size    int64
	modTime time.Time
	timer   *time.Timer
}

// New creates a new file watcher
func New(log *logger.Logger, opts Options) (*Watcher, error) {
	opts.setDefaults()

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	return &Watcher{
		logger:  log,
		opts:    opts,
		watcher: fsw,
		known:   make(map[string]struct{}),
		pending: make(map[string]*pendingChange),
		events:  make(chan Event, 100),
		errors:  make(chan error, 10),
		done:    make(chan struct{}),
	}, nil
}

// Watch adds a path to be monitored
// The path can be a file or directory. Directories are watched recursively.
func (w *Watcher) Watch(path string) error {
	path = filepath.Clean(path)

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat path: %w", err)
	}

	if info.IsDir() {
		return w.watchDir(path)
	}
	return w.watcher.Add(filepath.Dir(path))
}

// watchDir recursively watches a directory and records existing files
// so later writes report as modifications rather than additions.
func (w *Watcher) watchDir(path string) error {
	return filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			w.logger.Warn("failed to access path", "path", p, "error", err)
			return nil
		}

		if w.opts.shouldIgnore(p) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if !info.IsDir() {
			w.mu.Lock()
			w.known[p] = struct{}{}
			w.mu.Unlock()
			return nil
		}

		if err := w.watcher.Add(p); err != nil {
			w.logger.Error("failed to add watch", "path", p, "error", err)
			return nil
		}

		w.logger.Debug("added watch", "path", p)
		return nil
	})
}

// Start begins watching for events
// This method blocks until the context is cancelled
func (w *Watcher) Start(ctx context.Context) error {
	w.wg.Add(1)
	go w.processEvents(ctx)

	<-ctx.Done()
	return nil
}

// processEvents processes fsnotify events
func (w *Watcher) processEvents(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFsnotifyEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.errors <- err
		}
	}
}

// handleFsnotifyEvent handles an fsnotify event with debouncing
func (w *Watcher) handleFsnotifyEvent(event fsnotify.Event) {
	path := event.Name

	if w.opts.shouldIgnore(path) {
		return
	}

	// Handle directory creation
	if event.Op&fsnotify.Create != 0 {
		info, err := os.Stat(path)
		if err == nil && info.IsDir() {
			w.watchDir(path)
			return
		}
	}

	// Handle deletion and renames away
	if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
		w.cancelPending(path)
		w.mu.Lock()
		delete(w.known, path)
		w.mu.Unlock()
		w.emitEvent(Event{
			Type: EventRemoved,
			Path: path,
		})
		return
	}

	// Handle write/create events (need debouncing)
	if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
		w.startSettling(path)
	}
}

// startSettling begins the settling process for a file
func (w *Watcher) startSettling(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	// Cancel existing timer if any
	if pending, exists := w.pending[path]; exists {
		pending.timer.Stop()
	}

	info, err := os.Stat(path)
	if err != nil {
		w.logger.Warn("failed to stat file", "path", path, "error", err)
		delete(w.pending, path)
		return
	}

	// Skip directories
	if info.IsDir() {
		return
	}

	pending := &pendingChange{
		path:    path,
		size:    info.Size(),
		modTime: info.ModTime(),
	}

	pending.timer = time.AfterFunc(w.opts.SettleDelay, func() {
		w.checkSettled(path)
	})

	w.pending[path] = pending
}

// checkSettled checks if a file has finished settling
func (w *Watcher) checkSettled(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	pending, exists := w.pending[path]
	if !exists {
		return
	}

	info, err := os.Stat(path)
	if err != nil {
		// File was deleted mid-settle
		delete(w.pending, path)
		delete(w.known, path)
		w.emitEvent(Event{
			Type: EventRemoved,
			Path: path,
		})
		return
	}

	// Check if size/mtime changed
	if info.Size() != pending.size || info.ModTime() != pending.modTime {
		// Still changing, restart timer
		pending.size = info.Size()
		pending.modTime = info.ModTime()
		pending.timer = time.AfterFunc(w.opts.SettleDelay, func() {
			w.checkSettled(path)
		})
		return
	}

	// File has settled, emit event
	delete(w.pending, path)

	eventType := EventAdded
	if _, seen := w.known[path]; seen {
		eventType = EventModified
	}
	w.known[path] = struct{}{}

	w.emitEvent(Event{
		Type:    eventType,
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	})
}

// cancelPending cancels a pending change
func (w *Watcher) cancelPending(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if pending, exists := w.pending[path]; exists {
		pending.timer.Stop()
		delete(w.pending, path)
	}
}

// emitEvent sends an event to the events channel
func (w *Watcher) emitEvent(event Event) {
	select {
	case w.events <- event:
	case <-w.done:
	}
}

// Events returns the events channel
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors returns the errors channel
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Stop stops the watcher and releases resources
func (w *Watcher) Stop() error {
	close(w.done)

	// Cancel all pending timers
	w.mu.Lock()
	for _, pending := range w.pending {
		pending.timer.Stop()
	}
	clear(w.pending)
	w.mu.Unlock()

	w.watcher.Close()

	w.wg.Wait()

	close(w.events)
	close(w.errors)

	return nil
}
