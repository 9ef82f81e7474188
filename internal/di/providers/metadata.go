package providers

import (
	"github.com/samber/do/v2"

	"github.com/shelfscope/shelfscope-server/internal/config"
	"github.com/shelfscope/shelfscope-server/internal/logger"
	"github.com/shelfscope/shelfscope-server/internal/metadata/goodreads"
	"github.com/shelfscope/shelfscope-server/internal/metadata/googlebooks"
	"github.com/shelfscope/shelfscope-server/internal/resolve"
)

// ProvideGoodreadsClient provides the rating search surface client.
func ProvideGoodreadsClient(i do.Injector) (*goodreads.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	return goodreads.New(cfg.Metadata.GoodreadsBaseURL, log), nil
}

// ProvideGoogleBooksClient provides the volume metadata client.
func ProvideGoogleBooksClient(i do.Injector) (*googlebooks.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	return googlebooks.New(cfg.Metadata.GoogleBooksBaseURL, log), nil
}

// ProvideResolver provides the rating resolver over the search surface.
func ProvideResolver(i do.Injector) (*resolve.Resolver, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	searcher := do.MustInvoke[*goodreads.Client](i)

	opts := resolve.DefaultOptions()
	opts.SimilarityThreshold = cfg.Resolver.SimilarityThreshold
	opts.MinRatings = cfg.Resolver.MinRatings

	return resolve.New(searcher, log, opts), nil
}
