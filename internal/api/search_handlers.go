package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfscope/shelfscope-server/internal/search"
)

// SearchInput holds query parameters for catalog search.
type SearchInput struct {
	Query      string `query:"q" doc:"Search query matched against title, author, and description"`
	Awards     string `query:"awards" doc:"Comma-separated award honors to filter by"`
	Lists      string `query:"lists" doc:"Comma-separated list memberships to filter by"`
	Categories string `query:"categories" doc:"Comma-separated categories to filter by"`
	Decades    string `query:"decades" doc:"Comma-separated decade labels to filter by, e.g. 1960s"`
	MinYear    int    `query:"min_year" minimum:"0" doc:"Minimum publication year"`
	MaxYear    int    `query:"max_year" minimum:"0" doc:"Maximum publication year"`
	MinRatings int    `query:"min_ratings" minimum:"0" doc:"Minimum community rating count"`
	Sort       string `query:"sort" enum:"relevance,title,author,year,rating,ratings,recent" default:"relevance" doc:"Sort column"`
	Order      string `query:"order" enum:"asc,desc" default:"desc" doc:"Sort direction"`
	Limit      int    `query:"limit" minimum:"1" maximum:"100" default:"20" doc:"Page size"`
	Offset     int    `query:"offset" minimum:"0" default:"0" doc:"Page offset"`
	Facets     bool   `query:"facets" default:"true" doc:"Include facet counts"`
	Highlight  bool   `query:"highlight" default:"true" doc:"Include match highlighting"`
}

// SearchOutput wraps the search result body.
type SearchOutput struct {
	Body search.Result
}

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "search-books",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search the catalog",
		Description: "Full text search over books with award, list, category, decade, and year filters plus facet counts.",
		Tags:        []string{"Search"},
	}, s.handleSearch)
}

func (s *Server) handleSearch(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	params := search.DefaultParams()
	params.Query = input.Query
	params.Awards = splitCSV(input.Awards)
	params.Lists = splitCSV(input.Lists)
	params.Categories = splitCSV(input.Categories)
	params.Decades = splitCSV(input.Decades)
	params.MinYear = input.MinYear
	params.MaxYear = input.MaxYear
	params.MinRatings = input.MinRatings
	params.SortBy = input.Sort
	params.SortOrder = input.Order
	params.Limit = input.Limit
	params.Offset = input.Offset
	params.IncludeFacets = input.Facets
	params.Highlight = input.Highlight

	result, err := s.search.Search(ctx, params)
	if err != nil {
		s.logger.Error("search failed", "query", input.Query, "error", err)
		return nil, huma.Error500InternalServerError("search failed", err)
	}

	return &SearchOutput{Body: *result}, nil
}

// splitCSV splits a comma-separated query value, trimming whitespace
// and dropping empty entries.
func splitCSV(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
