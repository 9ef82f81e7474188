// Package store defines the persistence interface for the Shelfscope
// catalog and its sentinel errors. The sqlite subpackage provides the
// implementation.
package store

import (
	"context"

	"github.com/shelfscope/shelfscope-server/internal/domain"
)

// Book sort columns accepted by ListBooks.
const (
	SortByTitle       = "title"
	SortByAuthor      = "author"
	SortByAvgRating   = "avg_rating"
	SortByNumRatings  = "num_ratings"
	SortByPublishYear = "publish_year"
	SortByUpdatedAt   = "updated_at"
)

// ListOptions controls ordering and pagination of book listings.
type ListOptions struct {
	SortBy     string // one of the SortBy constants; default SortByTitle
	Descending bool
	Limit      int // 0 means no limit
	Offset     int
}

// Store is the persistence boundary for books and user state.
type Store interface {
	// Books.
	UpsertBook(ctx context.Context, book *domain.Book) error
	GetBook(ctx context.Context, id string) (*domain.Book, error)
	GetBookByTitleAuthor(ctx context.Context, title, author string) (*domain.Book, error)
	ListBooks(ctx context.Context, opts ListOptions) ([]*domain.Book, error)
	CountBooks(ctx context.Context) (int, error)

	// Per-book user state, keyed by (title, author) with relaxed
	// author matching on reads.
	UpsertUserBookState(ctx context.Context, state *domain.UserBookState) error
	GetUserBookState(ctx context.Context, title, author string) (*domain.UserBookState, error)
	ListUserBookStates(ctx context.Context) ([]*domain.UserBookState, error)

	Close() error
}
