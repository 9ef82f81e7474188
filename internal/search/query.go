package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// Params configures a search query.
type Params struct {
	Query string // User's search query

	// Filters
	Awards     []string // Filter by exact award honors
	Lists      []string // Filter by exact list memberships
	Categories []string // Filter by exact categories
	Decades    []string // Filter by decade labels ("1960s")
	MinYear    int      // Minimum publish year
	MaxYear    int      // Maximum publish year
	MinRatings int      // Minimum rating count

	// Pagination
	Limit  int
	Offset int

	// Sorting
	SortBy    string // "relevance", "title", "author", "year", "rating", "ratings", "recent"
	SortOrder string // "asc", "desc"

	// Options
	IncludeFacets bool     // Include facet counts in results
	FacetFields   []string // Which fields to facet on
	Highlight     bool     // Include match highlighting
}

// DefaultParams returns sensible defaults.
func DefaultParams() Params {
	return Params{
		Limit:         20,
		Offset:        0,
		SortBy:        "relevance",
		SortOrder:     "desc",
		IncludeFacets: true,
		FacetFields:   []string{"awards", "lists", "categories", "decade"},
		Highlight:     true,
	}
}

// Result represents the search results.
type Result struct {
	Query  string `json:"query"`
	Total  uint64 `json:"total"`
	TookMs int64  `json:"took_ms"`
	Hits   []Hit  `json:"hits"`
	Facets Facets `json:"facets,omitempty"`
}

// Hit represents a single search result.
type Hit struct {
	ID          string            `json:"id"`
	Score       float64           `json:"score"`
	Title       string            `json:"title"`
	Author      string            `json:"author,omitempty"`
	Awards      []string          `json:"awards,omitempty"`
	Lists       []string          `json:"lists,omitempty"`
	Categories  []string          `json:"categories,omitempty"`
	Decade      string            `json:"decade,omitempty"`
	PublishYear int               `json:"publish_year,omitempty"`
	AvgRating   float64           `json:"avg_rating,omitempty"`
	NumRatings  int               `json:"num_ratings,omitempty"`
	Highlights  map[string]string `json:"highlights,omitempty"`
}

// Facets contains facet counts.
type Facets struct {
	Awards     []FacetCount `json:"awards,omitempty"`
	Lists      []FacetCount `json:"lists,omitempty"`
	Categories []FacetCount `json:"categories,omitempty"`
	Decades    []FacetCount `json:"decades,omitempty"`
}

// FacetCount represents a facet value and its count.
type FacetCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Search executes a search query.
func (s *Index) Search(ctx context.Context, params Params) (*Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Build the query
	searchQuery := buildSearchQuery(params)

	// Create search request
	searchRequest := bleve.NewSearchRequestOptions(searchQuery, params.Limit, params.Offset, false)

	// Add sorting
	addSorting(searchRequest, params)

	// Add facets
	if params.IncludeFacets {
		addFacets(searchRequest, params)
	}

	// Add highlighting
	if params.Highlight {
		searchRequest.Highlight = bleve.NewHighlight()
		searchRequest.Highlight.AddField("title")
		searchRequest.Highlight.AddField("author")
	}

	// Request stored fields
	searchRequest.Fields = []string{
		"id", "title", "author", "awards", "lists", "categories",
		"decade", "publish_year", "avg_rating", "num_ratings",
	}

	// Execute search
	searchResult, err := s.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	// Convert results
	result := &Result{
		Query:  params.Query,
		Total:  searchResult.Total,
		TookMs: searchResult.Took.Milliseconds(),
		Hits:   make([]Hit, 0, len(searchResult.Hits)),
	}

	for _, hit := range searchResult.Hits {
		searchHit := Hit{
			ID:    hit.ID,
			Score: hit.Score,
		}

		// Extract stored fields
		if t, ok := hit.Fields["title"].(string); ok {
			searchHit.Title = t
		}
		if a, ok := hit.Fields["author"].(string); ok {
			searchHit.Author = a
		}
		searchHit.Awards = stringValues(hit.Fields["awards"])
		searchHit.Lists = stringValues(hit.Fields["lists"])
		searchHit.Categories = stringValues(hit.Fields["categories"])
		if d, ok := hit.Fields["decade"].(string); ok {
			searchHit.Decade = d
		}
		if y, ok := hit.Fields["publish_year"].(float64); ok {
			searchHit.PublishYear = int(y)
		}
		if r, ok := hit.Fields["avg_rating"].(float64); ok {
			searchHit.AvgRating = r
		}
		if n, ok := hit.Fields["num_ratings"].(float64); ok {
			searchHit.NumRatings = int(n)
		}

		// Extract highlights
		if len(hit.Fragments) > 0 {
			searchHit.Highlights = make(map[string]string)
			for field, fragments := range hit.Fragments {
				if len(fragments) > 0 {
					searchHit.Highlights[field] = fragments[0]
				}
			}
		}

		result.Hits = append(result.Hits, searchHit)
	}

	// Extract facets
	if params.IncludeFacets {
		result.Facets = extractFacets(searchResult)
	}

	return result, nil
}

// stringValues normalizes a stored field that Bleve returns as either a
// bare string (single value) or []interface{} (multiple values).
func stringValues(field interface{}) []string {
	switch v := field.(type) {
	case string:
		return []string{v}
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// buildSearchQuery constructs the Bleve query from params.
func buildSearchQuery(params Params) query.Query {
	var queries []query.Query

	// Main text query
	// Search strategy:
	// - Title match gets the highest boost, author matches rank below it
	// - Fuzzy and prefix queries on the title cover typos and autocomplete
	// - Descriptions are searched unboosted so a plot keyword still hits
	if params.Query != "" {
		textQueries := []query.Query{}

		// Title match with highest boost
		titleMatch := bleve.NewMatchQuery(params.Query)
		titleMatch.SetField("title")
		titleMatch.SetBoost(3.0)
		textQueries = append(textQueries, titleMatch)

		// Author match
		authorMatch := bleve.NewMatchQuery(params.Query)
		authorMatch.SetField("author")
		authorMatch.SetBoost(1.5)
		textQueries = append(textQueries, authorMatch)

		// Description match, unboosted
		descMatch := bleve.NewMatchQuery(params.Query)
		descMatch.SetField("description")
		textQueries = append(textQueries, descMatch)

		// Add fuzzy matching for typo tolerance on title
		fuzzyQuery := bleve.NewFuzzyQuery(params.Query)
		fuzzyQuery.SetFuzziness(1)
		fuzzyQuery.SetField("title")
		fuzzyQuery.SetBoost(0.8)
		textQueries = append(textQueries, fuzzyQuery)

		// Prefix query for autocomplete (minimum 2 chars)
		if len(params.Query) >= 2 {
			prefixQuery := bleve.NewPrefixQuery(strings.ToLower(params.Query))
			prefixQuery.SetField("title")
			prefixQuery.SetBoost(0.5)
			textQueries = append(textQueries, prefixQuery)
		}

		// Combine with OR (match any field)
		queries = append(queries, bleve.NewDisjunctionQuery(textQueries...))
	}

	// Award filter (exact match, OR across honors)
	if len(params.Awards) > 0 {
		queries = append(queries, termDisjunction("awards", params.Awards))
	}

	// List membership filter
	if len(params.Lists) > 0 {
		queries = append(queries, termDisjunction("lists", params.Lists))
	}

	// Category filter
	if len(params.Categories) > 0 {
		queries = append(queries, termDisjunction("categories", params.Categories))
	}

	// Decade filter
	if len(params.Decades) > 0 {
		queries = append(queries, termDisjunction("decade", params.Decades))
	}

	// Year range filter
	if params.MinYear > 0 || params.MaxYear > 0 {
		min := float64(params.MinYear)
		max := float64(params.MaxYear)
		if params.MaxYear == 0 {
			max = 3000 // Far future
		}
		rangeQuery := bleve.NewNumericRangeQuery(&min, &max)
		rangeQuery.SetField("publish_year")
		queries = append(queries, rangeQuery)
	}

	// Rating count floor
	if params.MinRatings > 0 {
		min := float64(params.MinRatings)
		rangeQuery := bleve.NewNumericRangeQuery(&min, nil)
		rangeQuery.SetField("num_ratings")
		queries = append(queries, rangeQuery)
	}

	// Combine all queries with AND
	if len(queries) == 0 {
		return bleve.NewMatchAllQuery()
	}
	if len(queries) == 1 {
		return queries[0]
	}
	return bleve.NewConjunctionQuery(queries...)
}

// termDisjunction builds an OR of exact term matches on a keyword field.
func termDisjunction(field string, values []string) query.Query {
	termQueries := make([]query.Query, len(values))
	for i, v := range values {
		tq := bleve.NewTermQuery(v)
		tq.SetField(field)
		termQueries[i] = tq
	}
	return bleve.NewDisjunctionQuery(termQueries...)
}

// addSorting configures sort order.
func addSorting(req *bleve.SearchRequest, params Params) {
	switch params.SortBy {
	case "title":
		if params.SortOrder == "desc" {
			req.SortBy([]string{"-title"})
		} else {
			req.SortBy([]string{"title"})
		}
	case "author":
		if params.SortOrder == "desc" {
			req.SortBy([]string{"-author", "-title"})
		} else {
			req.SortBy([]string{"author", "title"})
		}
	case "year":
		if params.SortOrder == "desc" {
			req.SortBy([]string{"-publish_year", "title"})
		} else {
			req.SortBy([]string{"publish_year", "title"})
		}
	case "rating":
		if params.SortOrder == "asc" {
			req.SortBy([]string{"avg_rating"})
		} else {
			req.SortBy([]string{"-avg_rating"})
		}
	case "ratings":
		if params.SortOrder == "asc" {
			req.SortBy([]string{"num_ratings"})
		} else {
			req.SortBy([]string{"-num_ratings"})
		}
	case "recent":
		if params.SortOrder == "asc" {
			req.SortBy([]string{"updated_at"})
		} else {
			req.SortBy([]string{"-updated_at"})
		}
	default:
		// Relevance (score) is default - Bleve handles this
		req.SortBy([]string{"-_score"})
	}
}

// addFacets configures facet requests.
func addFacets(req *bleve.SearchRequest, params Params) {
	for _, field := range params.FacetFields {
		facetReq := bleve.NewFacetRequest(field, 20) // Top 20 values
		req.AddFacet(field, facetReq)
	}
}

// extractFacets converts Bleve facets to our format.
func extractFacets(result *bleve.SearchResult) Facets {
	facets := Facets{}

	if awardFacet, ok := result.Facets["awards"]; ok {
		for _, term := range awardFacet.Terms.Terms() {
			facets.Awards = append(facets.Awards, FacetCount{
				Value: term.Term,
				Count: term.Count,
			})
		}
	}

	if listFacet, ok := result.Facets["lists"]; ok {
		for _, term := range listFacet.Terms.Terms() {
			facets.Lists = append(facets.Lists, FacetCount{
				Value: term.Term,
				Count: term.Count,
			})
		}
	}

	if categoryFacet, ok := result.Facets["categories"]; ok {
		for _, term := range categoryFacet.Terms.Terms() {
			facets.Categories = append(facets.Categories, FacetCount{
				Value: term.Term,
				Count: term.Count,
			})
		}
	}

	if decadeFacet, ok := result.Facets["decade"]; ok {
		for _, term := range decadeFacet.Terms.Terms() {
			facets.Decades = append(facets.Decades, FacetCount{
				Value: term.Term,
				Count: term.Count,
			})
		}
	}

	return facets
}
