package aggregate

import (
	"context"
	"fmt"
	"time"

	"github.com/shelfscope/shelfscope-server/internal/watcher"
)

// coalesceWindow batches a burst of file events into one re-aggregation.
// Editing a CSV produces several write events; re-running once per
// event would hammer the external surfaces.
const coalesceWindow = 2 * time.Second

// WatchSources re-runs aggregation whenever the source directory
// changes. It blocks until the context is cancelled.
func (p *Pipeline) WatchSources(ctx context.Context, loader *Loader, w *watcher.Watcher, path string) error {
	if err := w.Watch(path); err != nil {
		return fmt.Errorf("watch sources: %w", err)
	}

	go w.Start(ctx)

	p.logger.Info("watching sources for changes", "path", path)

	var pending *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.Events():
			if !ok {
				return nil
			}
			p.logger.Debug("source change detected",
				"path", event.Path,
				"type", event.Type.String(),
			)
			if pending == nil {
				pending = time.NewTimer(coalesceWindow)
				fire = pending.C
			} else {
				pending.Reset(coalesceWindow)
			}

		case err, ok := <-w.Errors():
			if !ok {
				return nil
			}
			p.logger.Error("source watcher error", "error", err)

		case <-fire:
			pending = nil
			fire = nil

			records, err := loader.Load()
			if err != nil {
				p.logger.Error("failed to reload sources", "error", err)
				continue
			}
			if _, err := p.Run(ctx, records); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				p.logger.Error("re-aggregation failed", "error", err)
			}
		}
	}
}
