// Package resolve matches a claimed (title, author) pair against an
// external search surface and flags ambiguous results for review.
//
// Resolution is two-staged: a combined title+author query first, then a
// quoted title-only query when the first result isn't convincing.
// Author-name variations (translations, middle names, "Jr.") and
// subtitle differences frequently make the combined query surface an
// unrelated high-popularity book; comparing it against the title-only
// candidate guards against silently accepting a wrong, more popular
// mismatch while still surfacing the discrepancy.
package resolve

import (
	"context"

	"github.com/shelfscope/shelfscope-server/internal/logger"
)

// Candidate is a single row from the search surface.
type Candidate struct {
	Title      string
	Author     string
	AvgRating  *float64
	NumRatings *int
}

// Result is the outcome of a resolution. All fields are nil when
// neither query produced a usable candidate.
type Result struct {
	AvgRating  *float64
	NumRatings *int

	// PossibleMisread is the candidate the resolver considered but
	// rejected, close enough in similarity to warrant human review.
	// It is never the accepted candidate.
	PossibleMisread *Candidate
}

// Searcher is the external search surface the resolver queries.
type Searcher interface {
	Search(ctx context.Context, query string) ([]Candidate, error)
}

// Options tunes resolution behavior.
type Options struct {
	// SimilarityThreshold is the minimum title and author similarity
	// (0-100) for direct acceptance of the combined-query candidate.
	SimilarityThreshold int

	// MinRatings is the minimum rating count for direct acceptance.
	MinRatings int

	// MaxResults caps how many search-result rows are considered per query.
	MaxResults int
}

// DefaultOptions returns the standard resolution thresholds.
func DefaultOptions() Options {
	return Options{
		SimilarityThreshold: 95,
		MinRatings:          1000,
		MaxResults:          5,
	}
}

// Resolver finds the best external match for a (title, author) pair.
type Resolver struct {
	searcher Searcher
	logger   *logger.Logger
	opts     Options
}

// New creates a resolver backed by the given search surface.
func New(searcher Searcher, log *logger.Logger, opts Options) *Resolver {
	if opts.MaxResults <= 0 {
		opts.MaxResults = DefaultOptions().MaxResults
	}
	return &Resolver{
		searcher: searcher,
		logger:   log,
		opts:     opts,
	}
}

// Resolve finds the best match for the pair. It never returns an
// error: query failures are logged and degrade to "no candidate", and
// total failure yields a zero Result.
func (r *Resolver) Resolve(ctx context.Context, title, author string) Result {
	primary := r.bestCandidate(ctx, title+" "+author)

	// Fast path: the combined query found a popular candidate whose
	// title and author both clearly match.
	if primary != nil {
		titleSim := Ratio(primary.Title, title)
		authorSim := Ratio(primary.Author, author)

		if titleSim >= r.opts.SimilarityThreshold &&
			authorSim >= r.opts.SimilarityThreshold &&
			primary.NumRatings != nil && *primary.NumRatings >= r.opts.MinRatings {
			return Result{AvgRating: primary.AvgRating, NumRatings: primary.NumRatings}
		}
	}

	// Quoting biases the search toward exact-title matches.
	fallback := r.bestCandidate(ctx, `"`+title+`"`)

	switch {
	case primary == nil && fallback == nil:
		return Result{}
	case primary == nil:
		return Result{AvgRating: fallback.AvgRating, NumRatings: fallback.NumRatings}
	case fallback == nil:
		return Result{AvgRating: primary.AvgRating, NumRatings: primary.NumRatings}
	}

	primaryMean := meanSimilarity(primary, title, author)
	fallbackMean := meanSimilarity(fallback, title, author)

	// The title-only candidate wins only on strictly higher mean
	// similarity; ties keep the combined-query candidate.
	if fallbackMean > primaryMean {
		return Result{
			AvgRating:       fallback.AvgRating,
			NumRatings:      fallback.NumRatings,
			PossibleMisread: primary,
		}
	}
	return Result{
		AvgRating:       primary.AvgRating,
		NumRatings:      primary.NumRatings,
		PossibleMisread: fallback,
	}
}

// bestCandidate runs one query and picks the candidate with the
// highest rating count. Rows without a count are ignored; query
// failures degrade to no candidate.
func (r *Resolver) bestCandidate(ctx context.Context, query string) *Candidate {
	candidates, err := r.searcher.Search(ctx, query)
	if err != nil {
		r.logger.Warn("search query failed", "query", query, "error", err)
		return nil
	}

	if len(candidates) > r.opts.MaxResults {
		candidates = candidates[:r.opts.MaxResults]
	}

	var best *Candidate
	for i := range candidates {
		c := &candidates[i]
		if c.NumRatings == nil {
			continue
		}
		if best == nil || *c.NumRatings > *best.NumRatings {
			best = c
		}
	}
	return best
}

func meanSimilarity(c *Candidate, title, author string) float64 {
	return float64(Ratio(c.Title, title)+Ratio(c.Author, author)) / 2
}
