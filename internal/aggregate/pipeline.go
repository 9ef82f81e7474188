package aggregate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shelfscope/shelfscope-server/internal/domain"
	"github.com/shelfscope/shelfscope-server/internal/id"
	"github.com/shelfscope/shelfscope-server/internal/logger"
	"github.com/shelfscope/shelfscope-server/internal/metadata/googlebooks"
	"github.com/shelfscope/shelfscope-server/internal/resolve"
	"github.com/shelfscope/shelfscope-server/internal/search"
	"github.com/shelfscope/shelfscope-server/internal/store"
	"github.com/shelfscope/shelfscope-server/internal/textclean"
)

// RatingResolver resolves community ratings for a (title, author) pair.
type RatingResolver interface {
	Resolve(ctx context.Context, title, author string) resolve.Result
}

// VolumeFetcher fetches volume metadata for a (title, author) pair.
type VolumeFetcher interface {
	FetchVolume(ctx context.Context, title, author string) (*googlebooks.Volume, error)
}

// Summary reports the outcome of one aggregation run.
type Summary struct {
	RunID     string
	Total     int
	Succeeded int
	Failed    int
	Duration  time.Duration
}

// Pipeline enriches source records and persists them as catalog books.
type Pipeline struct {
	store    store.Store
	resolver RatingResolver
	volumes  VolumeFetcher
	index    *search.Index
	logger   *logger.Logger

	// Delay is the courtesy pause between records so the external
	// surfaces aren't hammered. Zero means no pause.
	Delay time.Duration
}

// NewPipeline creates an aggregation pipeline.
func NewPipeline(st store.Store, resolver RatingResolver, volumes VolumeFetcher, index *search.Index, log *logger.Logger) *Pipeline {
	return &Pipeline{
		store:    st,
		resolver: resolver,
		volumes:  volumes,
		index:    index,
		logger:   log,
	}
}

// Run aggregates every record sequentially. Per-record failures are
// logged and counted rather than aborting the run; the error return is
// reserved for context cancellation and index commit failures.
//
// The search index is rebuilt from this run's books once the run
// completes, so the dashboard always reflects the current sources.
func (p *Pipeline) Run(ctx context.Context, records []Record) (*Summary, error) {
	start := time.Now()
	summary := &Summary{
		RunID: uuid.NewString(),
		Total: len(records),
	}

	log := p.logger.WithField("run_id", summary.RunID)
	log.Info("starting aggregation run", "records", len(records))

	docs := make([]*search.Document, 0, len(records))

	for i, record := range records {
		if i > 0 && p.Delay > 0 {
			select {
			case <-ctx.Done():
				summary.Duration = time.Since(start)
				return summary, ctx.Err()
			case <-time.After(p.Delay):
			}
		}

		book, err := p.aggregateRecord(ctx, record)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				summary.Duration = time.Since(start)
				return summary, err
			}
			log.Error("failed to aggregate record",
				"title", record.Title,
				"author", record.Author,
				"error", err,
			)
			summary.Failed++
			continue
		}

		docs = append(docs, search.BookToDocument(book))
		summary.Succeeded++
	}

	// Replace the index wholesale so books dropped from the sources
	// disappear from the dashboard.
	if err := p.index.Rebuild(); err != nil {
		summary.Duration = time.Since(start)
		return summary, fmt.Errorf("rebuild search index: %w", err)
	}
	if err := p.index.IndexDocuments(docs); err != nil {
		summary.Duration = time.Since(start)
		return summary, fmt.Errorf("index documents: %w", err)
	}

	summary.Duration = time.Since(start)
	log.Info("aggregation run complete",
		"total", summary.Total,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
		"duration", summary.Duration,
	)
	return summary, nil
}

// aggregateRecord enriches and persists a single record.
func (p *Pipeline) aggregateRecord(ctx context.Context, record Record) (*domain.Book, error) {
	now := time.Now().UTC()

	// A previous run's row supplies the stable ID and fallback values
	// for fields the external surfaces fail to produce this time.
	existing, err := p.store.GetBookByTitleAuthor(ctx, record.Title, record.Author)
	if err != nil && !errors.Is(err, store.ErrBookNotFound) {
		return nil, fmt.Errorf("look up existing book: %w", err)
	}

	book := &domain.Book{
		Title:     record.Title,
		Author:    record.Author,
		Awards:    record.Awards,
		Lists:     record.Lists,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if existing != nil {
		book.ID = existing.ID
		book.CreatedAt = existing.CreatedAt
	} else {
		newID, err := id.Generate("book")
		if err != nil {
			return nil, fmt.Errorf("generate book id: %w", err)
		}
		book.ID = newID
	}

	result := p.resolver.Resolve(ctx, record.Title, record.Author)
	book.AvgRating = result.AvgRating
	book.NumRatings = result.NumRatings
	if misread := result.PossibleMisread; misread != nil {
		book.PossibleMisread = fmt.Sprintf("%s by %s", misread.Title, misread.Author)
	}
	if book.AvgRating == nil && existing != nil {
		// Nothing resolved this run, keep the previous values rather
		// than erasing a rating the catalog already had.
		book.AvgRating = existing.AvgRating
		book.NumRatings = existing.NumRatings
		book.PossibleMisread = existing.PossibleMisread
	}

	volume, err := p.volumes.FetchVolume(ctx, record.Title, record.Author)
	switch {
	case err == nil:
		book.PublishYear = volume.PublishYear
		book.Categories = volume.Categories
		book.Description = textclean.Clean(volume.Description)
		book.DescriptionMarkdown = textclean.Markdown(volume.Description)
	case existing != nil:
		p.logger.Warn("volume lookup failed, keeping previous metadata",
			"title", record.Title,
			"author", record.Author,
			"error", err,
		)
		book.PublishYear = existing.PublishYear
		book.Categories = existing.Categories
		book.Description = existing.Description
		book.DescriptionMarkdown = existing.DescriptionMarkdown
	default:
		p.logger.Warn("volume lookup failed",
			"title", record.Title,
			"author", record.Author,
			"error", err,
		)
	}

	if err := p.store.UpsertBook(ctx, book); err != nil {
		return nil, fmt.Errorf("persist book: %w", err)
	}

	p.logger.Debug("aggregated book",
		"title", book.Title,
		"author", book.Author,
		"avg_rating", book.AvgRating,
		"num_ratings", book.NumRatings,
	)
	return book, nil
}
