// Package search provides full-text search for the book dashboard
// using Bleve: fuzzy title matching, faceted filtering on awards,
// lists, categories, and decades, and sortable numeric fields.
package search

import (
	"fmt"

	"github.com/shelfscope/shelfscope-server/internal/domain"
)

// Document is the indexed representation of a book.
type Document struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`

	Description string `json:"description,omitempty"`

	// Facetable memberships.
	Awards     []string `json:"awards,omitempty"`
	Lists      []string `json:"lists,omitempty"`
	Categories []string `json:"categories,omitempty"`

	// Decade is a display label like "1960s", empty when the
	// publication year is unknown. Kept as a keyword so it facets as
	// a single term.
	Decade string `json:"decade,omitempty"`

	// Numeric fields for range queries and sorting.
	PublishYear int     `json:"publish_year,omitempty"`
	AvgRating   float64 `json:"avg_rating,omitempty"`
	NumRatings  int     `json:"num_ratings,omitempty"`

	// Timestamps for sorting. Unix millis.
	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}

// ToMap converts the document to a map with lowercase field names.
// This ensures field names match the Bleve index mapping.
// Bleve by default uses Go struct field names (capitalized), but our
// mapping uses lowercase names, so we convert explicitly.
func (d *Document) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"id":         d.ID,
		"title":      d.Title,
		"author":     d.Author,
		"created_at": d.CreatedAt,
		"updated_at": d.UpdatedAt,
	}

	// Optional fields - only add if non-empty
	if d.Description != "" {
		m["description"] = d.Description
	}
	if len(d.Awards) > 0 {
		m["awards"] = d.Awards
	}
	if len(d.Lists) > 0 {
		m["lists"] = d.Lists
	}
	if len(d.Categories) > 0 {
		m["categories"] = d.Categories
	}
	if d.Decade != "" {
		m["decade"] = d.Decade
	}
	if d.PublishYear > 0 {
		m["publish_year"] = d.PublishYear
	}
	if d.AvgRating > 0 {
		m["avg_rating"] = d.AvgRating
	}
	if d.NumRatings > 0 {
		m["num_ratings"] = d.NumRatings
	}

	return m
}

// BookToDocument converts a domain Book to a search Document.
func BookToDocument(book *domain.Book) *Document {
	doc := &Document{
		ID:          book.ID,
		Title:       book.Title,
		Author:      book.Author,
		Description: book.Description,
		Awards:      book.Awards,
		Lists:       book.Lists,
		Categories:  book.Categories,
		PublishYear: book.PublishYear,
		CreatedAt:   book.CreatedAt.UnixMilli(),
		UpdatedAt:   book.UpdatedAt.UnixMilli(),
	}

	if decade := book.Decade(); decade > 0 {
		doc.Decade = fmt.Sprintf("%ds", decade)
	}
	if book.AvgRating != nil {
		doc.AvgRating = *book.AvgRating
	}
	if book.NumRatings != nil {
		doc.NumRatings = *book.NumRatings
	}

	return doc
}
