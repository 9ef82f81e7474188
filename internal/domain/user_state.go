package domain

import (
	"strings"
	"time"
)

// UserBookState holds the per-book user state the dashboard persists:
// whether the book has been read and an optional personal rating.
// Rows are keyed by (title, author) rather than book ID so state
// survives catalog rebuilds.
type UserBookState struct {
	Title  string `json:"title"`
	Author string `json:"author"`

	Read   bool `json:"read"`
	Rating *int `json:"rating,omitempty"` // 1-5 when set

	UpdatedAt time.Time `json:"updated_at"`
}

// NewUserBookState creates empty state for a book.
func NewUserBookState(title, author string) *UserBookState {
	return &UserBookState{
		Title:     title,
		Author:    author,
		UpdatedAt: time.Now(),
	}
}

// Matches reports whether this state row applies to the given book.
// Titles must match; the author match is relaxed so a row stored
// without an author applies to any author with the same title.
func (s *UserBookState) Matches(title, author string) bool {
	if !strings.EqualFold(strings.TrimSpace(s.Title), strings.TrimSpace(title)) {
		return false
	}
	if s.Author == "" || author == "" {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(s.Author), strings.TrimSpace(author))
}
