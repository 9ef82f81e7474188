package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the Bleve index mapping for book documents.
//
// The mapping is designed with these priorities:
//  1. Fast full-text search on titles and authors with English stemming
//  2. Exact keyword matching for award/list/category/decade facets
//  3. Numeric range queries for year, rating, and rating count
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()

	// Use English analyzer as default for text fields
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	// --- Text fields (full-text searchable) ---

	// Title - primary search target, boosted at query time
	titleFieldMapping := bleve.NewTextFieldMapping()
	titleFieldMapping.Analyzer = en.AnalyzerName
	titleFieldMapping.Store = true
	titleFieldMapping.IncludeTermVectors = true // For highlighting
	docMapping.AddFieldMappingsAt("title", titleFieldMapping)

	// Author - searchable, facetable via stored value
	authorFieldMapping := bleve.NewTextFieldMapping()
	authorFieldMapping.Analyzer = en.AnalyzerName
	authorFieldMapping.Store = true
	authorFieldMapping.IncludeTermVectors = true // For highlighting
	docMapping.AddFieldMappingsAt("author", authorFieldMapping)

	// Description - searchable but not stored (too large)
	descFieldMapping := bleve.NewTextFieldMapping()
	descFieldMapping.Analyzer = en.AnalyzerName
	descFieldMapping.Store = false
	docMapping.AddFieldMappingsAt("description", descFieldMapping)

	// --- Keyword fields (exact match, facetable) ---

	// ID - stored but not analyzed
	idFieldMapping := bleve.NewTextFieldMapping()
	idFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("id", idFieldMapping)

	// Awards - keyword analyzer keeps full honor strings intact
	// (e.g., "Hugo Award 1990")
	awardsFieldMapping := bleve.NewTextFieldMapping()
	awardsFieldMapping.Analyzer = keyword.Name
	awardsFieldMapping.Store = true
	awardsFieldMapping.IncludeTermVectors = true // For faceting
	docMapping.AddFieldMappingsAt("awards", awardsFieldMapping)

	// Lists - reader/critic list memberships
	listsFieldMapping := bleve.NewTextFieldMapping()
	listsFieldMapping.Analyzer = keyword.Name
	listsFieldMapping.Store = true
	listsFieldMapping.IncludeTermVectors = true // For faceting
	docMapping.AddFieldMappingsAt("lists", listsFieldMapping)

	// Categories - from the metadata surface
	categoriesFieldMapping := bleve.NewTextFieldMapping()
	categoriesFieldMapping.Analyzer = keyword.Name
	categoriesFieldMapping.Store = true
	categoriesFieldMapping.IncludeTermVectors = true // For faceting
	docMapping.AddFieldMappingsAt("categories", categoriesFieldMapping)

	// Decade - publication decade label ("1960s")
	decadeFieldMapping := bleve.NewTextFieldMapping()
	decadeFieldMapping.Analyzer = keyword.Name
	decadeFieldMapping.Store = true
	decadeFieldMapping.IncludeTermVectors = true // For faceting
	docMapping.AddFieldMappingsAt("decade", decadeFieldMapping)

	// --- Numeric fields (range queries, sorting) ---

	yearFieldMapping := bleve.NewNumericFieldMapping()
	yearFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("publish_year", yearFieldMapping)

	avgRatingFieldMapping := bleve.NewNumericFieldMapping()
	avgRatingFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("avg_rating", avgRatingFieldMapping)

	numRatingsFieldMapping := bleve.NewNumericFieldMapping()
	numRatingsFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("num_ratings", numRatingsFieldMapping)

	// Timestamps - for sorting by recency
	createdAtFieldMapping := bleve.NewNumericFieldMapping()
	createdAtFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("created_at", createdAtFieldMapping)

	updatedAtFieldMapping := bleve.NewNumericFieldMapping()
	updatedAtFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("updated_at", updatedAtFieldMapping)

	// Register the document mapping
	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}
