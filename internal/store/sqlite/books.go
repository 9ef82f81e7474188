package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/shelfscope/shelfscope-server/internal/domain"
	"github.com/shelfscope/shelfscope-server/internal/store"
)

// bookColumns is the ordered list of columns selected in book queries.
// Must match the scan order in scanBook.
const bookColumns = `id, title, author, awards, lists,
	avg_rating, num_ratings, possible_misread,
	publish_year, categories, description, description_md,
	created_at, updated_at`

// scanBook scans a sql.Row (or sql.Rows via its Scan method) into a domain.Book.
func scanBook(scanner interface{ Scan(dest ...any) error }) (*domain.Book, error) {
	var b domain.Book

	var (
		awards     string
		lists      string
		categories string
		avgRating  sql.NullFloat64
		numRatings sql.NullInt64
		createdAt  string
		updatedAt  string
	)

	err := scanner.Scan(
		&b.ID,
		&b.Title,
		&b.Author,
		&awards,
		&lists,
		&avgRating,
		&numRatings,
		&b.PossibleMisread,
		&b.PublishYear,
		&categories,
		&b.Description,
		&b.DescriptionMarkdown,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	// Nullable fields.
	if avgRating.Valid {
		v := avgRating.Float64
		b.AvgRating = &v
	}
	if numRatings.Valid {
		v := int(numRatings.Int64)
		b.NumRatings = &v
	}

	// JSON array columns.
	if b.Awards, err = unmarshalStrings(awards); err != nil {
		return nil, fmt.Errorf("decode awards: %w", err)
	}
	if b.Lists, err = unmarshalStrings(lists); err != nil {
		return nil, fmt.Errorf("decode lists: %w", err)
	}
	if b.Categories, err = unmarshalStrings(categories); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}

	// Parse timestamps.
	if b.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if b.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	return &b, nil
}

// UpsertBook creates or replaces a book. Books are keyed by ID, with
// a unique (title, author) index so re-aggregated records replace
// their previous rows.
func (s *Store) UpsertBook(ctx context.Context, book *domain.Book) error {
	awards, err := marshalStrings(book.Awards)
	if err != nil {
		return fmt.Errorf("encode awards: %w", err)
	}
	lists, err := marshalStrings(book.Lists)
	if err != nil {
		return fmt.Errorf("encode lists: %w", err)
	}
	categories, err := marshalStrings(book.Categories)
	if err != nil {
		return fmt.Errorf("encode categories: %w", err)
	}

	var avgRating any
	if book.AvgRating != nil {
		avgRating = *book.AvgRating
	}
	var numRatings any
	if book.NumRatings != nil {
		numRatings = *book.NumRatings
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO books (
			id, title, author, awards, lists,
			avg_rating, num_ratings, possible_misread,
			publish_year, categories, description, description_md,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		book.ID,
		book.Title,
		book.Author,
		awards,
		lists,
		avgRating,
		numRatings,
		book.PossibleMisread,
		book.PublishYear,
		categories,
		book.Description,
		book.DescriptionMarkdown,
		formatTime(book.CreatedAt),
		formatTime(book.UpdatedAt),
	)
	return err
}

// GetBook retrieves a book by ID.
// Returns store.ErrBookNotFound if the book does not exist.
func (s *Store) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE id = ?`, id)

	book, err := scanBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrBookNotFound
	}
	if err != nil {
		return nil, err
	}
	return book, nil
}

// GetBookByTitleAuthor retrieves a book by its (title, author) key,
// case-insensitively. Returns store.ErrBookNotFound if absent.
func (s *Store) GetBookByTitleAuthor(ctx context.Context, title, author string) (*domain.Book, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookColumns+` FROM books
		 WHERE LOWER(title) = LOWER(?) AND LOWER(author) = LOWER(?)`,
		title, author)

	book, err := scanBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrBookNotFound
	}
	if err != nil {
		return nil, err
	}
	return book, nil
}

// sortColumns whitelists ListBooks sort keys against SQL injection.
var sortColumns = map[string]string{
	store.SortByTitle:       "title COLLATE NOCASE",
	store.SortByAuthor:      "author COLLATE NOCASE",
	store.SortByAvgRating:   "avg_rating",
	store.SortByNumRatings:  "num_ratings",
	store.SortByPublishYear: "publish_year",
	store.SortByUpdatedAt:   "updated_at",
}

// ListBooks retrieves books ordered and paginated per opts. Unknown
// sort keys are rejected with store.ErrInvalidInput. Rows with a NULL
// sort value order last regardless of direction.
func (s *Store) ListBooks(ctx context.Context, opts store.ListOptions) ([]*domain.Book, error) {
	sortBy := opts.SortBy
	if sortBy == "" {
		sortBy = store.SortByTitle
	}
	column, ok := sortColumns[sortBy]
	if !ok {
		return nil, store.ErrInvalidInput.WithMessage("unknown sort column: " + sortBy)
	}

	direction := "ASC"
	if opts.Descending {
		direction = "DESC"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `SELECT %s FROM books ORDER BY (%s) IS NULL, %s %s`,
		bookColumns, column, column, direction)

	var args []any
	if opts.Limit > 0 {
		sb.WriteString(" LIMIT ? OFFSET ?")
		args = append(args, opts.Limit, opts.Offset)
	}

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []*domain.Book
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return books, nil
}

// CountBooks returns the total number of books.
func (s *Store) CountBooks(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM books`).Scan(&count)
	return count, err
}
