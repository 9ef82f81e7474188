// Package main provides the one-shot aggregation command. It loads the
// award and list CSV sources, enriches each book from the external
// surfaces, and persists the catalog the API server reads.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"

	"github.com/shelfscope/shelfscope-server/internal/aggregate"
	"github.com/shelfscope/shelfscope-server/internal/config"
	"github.com/shelfscope/shelfscope-server/internal/di"
	"github.com/shelfscope/shelfscope-server/internal/logger"
)

func main() {
	injector := di.NewContainer()

	cfg, err := do.Invoke[*config.Config](injector)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	log := do.MustInvoke[*logger.Logger](injector)

	if cfg.Sources.Path == "" {
		log.Fatal("No sources path configured, set SOURCES_PATH or --sources-path")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loader := do.MustInvoke[*aggregate.Loader](injector)
	pipeline := do.MustInvoke[*aggregate.Pipeline](injector)

	records, err := loader.Load()
	if err != nil {
		log.Fatal("Failed to load sources", "error", err)
	}
	log.Info("Loaded source records", "count", len(records), "path", cfg.Sources.Path)

	summary, err := pipeline.Run(ctx, records)
	if err != nil {
		shutdown(injector, log)
		log.Fatal("Aggregation failed", "error", err)
	}

	log.Info("Aggregation complete",
		"run_id", summary.RunID,
		"total", summary.Total,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
		"duration", summary.Duration,
	)

	shutdown(injector, log)
}

func shutdown(injector *do.RootScope, log *logger.Logger) {
	if err := injector.Shutdown(); err != nil {
		log.Error("Shutdown error", "error", err)
	}
}
