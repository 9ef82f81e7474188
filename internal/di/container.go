// Package di provides dependency injection configuration for the Shelfscope server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/shelfscope/shelfscope-server/internal/aggregate"
	"github.com/shelfscope/shelfscope-server/internal/config"
	"github.com/shelfscope/shelfscope-server/internal/di/providers"
	"github.com/shelfscope/shelfscope-server/internal/logger"
	"github.com/shelfscope/shelfscope-server/internal/metadata/goodreads"
	"github.com/shelfscope/shelfscope-server/internal/metadata/googlebooks"
	"github.com/shelfscope/shelfscope-server/internal/resolve"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Persistence
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideSearchIndex)

	// Metadata surfaces
	do.Provide(injector, providers.ProvideGoodreadsClient)
	do.Provide(injector, providers.ProvideGoogleBooksClient)
	do.Provide(injector, providers.ProvideResolver)

	// Aggregation
	do.Provide(injector, providers.ProvideSourceLoader)
	do.Provide(injector, providers.ProvidePipeline)
	do.Provide(injector, providers.ProvideSourceWatcher)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns once the server is
// running. This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	_ = do.MustInvoke[*goodreads.Client](injector)
	_ = do.MustInvoke[*googlebooks.Client](injector)
	_ = do.MustInvoke[*resolve.Resolver](injector)
	_ = do.MustInvoke[*aggregate.Loader](injector)
	_ = do.MustInvoke[*aggregate.Pipeline](injector)
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
