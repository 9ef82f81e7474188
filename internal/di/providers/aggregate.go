package providers

import (
	"fmt"

	"github.com/samber/do/v2"

	"github.com/shelfscope/shelfscope-server/internal/aggregate"
	"github.com/shelfscope/shelfscope-server/internal/config"
	"github.com/shelfscope/shelfscope-server/internal/logger"
	"github.com/shelfscope/shelfscope-server/internal/metadata/googlebooks"
	"github.com/shelfscope/shelfscope-server/internal/resolve"
	"github.com/shelfscope/shelfscope-server/internal/watcher"
)

// ProvideSourceLoader provides the award/list CSV loader.
func ProvideSourceLoader(i do.Injector) (*aggregate.Loader, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	return aggregate.NewLoader(cfg.Sources.Path, log), nil
}

// ProvidePipeline provides the aggregation pipeline.
func ProvidePipeline(i do.Injector) (*aggregate.Pipeline, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	resolver := do.MustInvoke[*resolve.Resolver](i)
	volumes := do.MustInvoke[*googlebooks.Client](i)

	p := aggregate.NewPipeline(storeHandle.Store, resolver, volumes, indexHandle.Index, log)
	p.Delay = cfg.Sources.Delay
	return p, nil
}

// SourceWatcherHandle wraps the source file watcher with Shutdownable.
type SourceWatcherHandle struct {
	*watcher.Watcher
}

// Shutdown implements do.Shutdownable.
func (h *SourceWatcherHandle) Shutdown() error {
	return h.Stop()
}

// ProvideSourceWatcher provides the watcher for source CSV changes.
func ProvideSourceWatcher(i do.Injector) (*SourceWatcherHandle, error) {
	log := do.MustInvoke[*logger.Logger](i)

	w, err := watcher.New(log, watcher.Options{})
	if err != nil {
		return nil, fmt.Errorf("create source watcher: %w", err)
	}

	return &SourceWatcherHandle{Watcher: w}, nil
}
