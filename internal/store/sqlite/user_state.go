package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/shelfscope/shelfscope-server/internal/domain"
	"github.com/shelfscope/shelfscope-server/internal/store"
)

// scanUserBookState scans a sql.Row (or sql.Rows via its Scan method)
// into a domain.UserBookState.
func scanUserBookState(scanner interface{ Scan(dest ...any) error }) (*domain.UserBookState, error) {
	var state domain.UserBookState

	var (
		read      int
		rating    sql.NullInt64
		updatedAt string
	)

	err := scanner.Scan(
		&state.Title,
		&state.Author,
		&read,
		&rating,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	state.Read = read != 0
	if rating.Valid {
		v := int(rating.Int64)
		state.Rating = &v
	}

	state.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &state, nil
}

// UpsertUserBookState creates or replaces user state for a book.
// Titles and authors are stored trimmed so key matching stays stable.
func (s *Store) UpsertUserBookState(ctx context.Context, state *domain.UserBookState) error {
	var rating any
	if state.Rating != nil {
		rating = *state.Rating
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO user_book_state (
			title, author, read, rating, updated_at
		) VALUES (?, ?, ?, ?, ?)`,
		strings.TrimSpace(state.Title),
		strings.TrimSpace(state.Author),
		boolToInt(state.Read),
		rating,
		formatTime(state.UpdatedAt),
	)
	return err
}

// GetUserBookState retrieves user state for a (title, author) pair.
// The author match is relaxed: a row stored without an author matches
// any author, and an empty query author matches any row with the same
// title. Exact author matches win over relaxed ones.
// Returns store.ErrUserBookStateNotFound if no row applies.
func (s *Store) GetUserBookState(ctx context.Context, title, author string) (*domain.UserBookState, error) {
	title = strings.TrimSpace(title)
	author = strings.TrimSpace(author)

	row := s.db.QueryRowContext(ctx, `
		SELECT title, author, read, rating, updated_at
		FROM user_book_state
		WHERE LOWER(title) = LOWER(?)
		  AND (author = '' OR ? = '' OR LOWER(author) = LOWER(?))
		ORDER BY CASE WHEN LOWER(author) = LOWER(?) THEN 0 ELSE 1 END
		LIMIT 1`,
		title, author, author, author)

	state, err := scanUserBookState(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrUserBookStateNotFound
	}
	if err != nil {
		return nil, err
	}
	return state, nil
}

// ListUserBookStates retrieves all user state rows, most recently
// updated first.
func (s *Store) ListUserBookStates(ctx context.Context) ([]*domain.UserBookState, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT title, author, read, rating, updated_at
		FROM user_book_state
		ORDER BY updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var states []*domain.UserBookState
	for rows.Next() {
		state, err := scanUserBookState(rows)
		if err != nil {
			return nil, err
		}
		states = append(states, state)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return states, nil
}
