// Package domain contains the core business entities for the Shelfscope book catalog.
package domain

import (
	"strings"
	"time"
)

// Book represents an aggregated book record: award and list
// memberships merged from the source files, plus whatever the rating
// and metadata surfaces reported for it. Nil rating fields mean no
// resolution has succeeded yet.
type Book struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`

	Awards []string `json:"awards,omitempty"`
	Lists  []string `json:"lists,omitempty"`

	AvgRating  *float64 `json:"avg_rating,omitempty"`
	NumRatings *int     `json:"num_ratings,omitempty"`

	// PossibleMisread describes a rejected-but-close search candidate
	// ("Title by Author") flagged for human review.
	PossibleMisread string `json:"possible_misread,omitempty"`

	PublishYear         int      `json:"publish_year,omitempty"`
	Categories          []string `json:"categories,omitempty"`
	Description         string   `json:"description,omitempty"`
	DescriptionMarkdown string   `json:"description_markdown,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewBook creates a book with initialized timestamps. The caller
// assigns the ID.
func NewBook(title, author string) *Book {
	now := time.Now()
	return &Book{
		Title:     title,
		Author:    author,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch updates the UpdatedAt timestamp to the current time.
// Call this whenever the underlying entity changes.
func (b *Book) Touch() {
	b.UpdatedAt = time.Now()
}

// AddAward records an award honor if not already present.
func (b *Book) AddAward(award string) {
	b.Awards = appendUnique(b.Awards, award)
}

// AddList records a list membership if not already present.
func (b *Book) AddList(list string) {
	b.Lists = appendUnique(b.Lists, list)
}

// Decade returns the publication decade (e.g. 1960 for 1969), or 0
// when the publication year is unknown.
func (b *Book) Decade() int {
	if b.PublishYear == 0 {
		return 0
	}
	return b.PublishYear / 10 * 10
}

func appendUnique(values []string, v string) []string {
	v = strings.TrimSpace(v)
	if v == "" {
		return values
	}
	for _, existing := range values {
		if strings.EqualFold(existing, v) {
			return values
		}
	}
	return append(values, v)
}
