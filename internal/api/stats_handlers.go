package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfscope/shelfscope-server/internal/store"
)

// StatsResponse summarizes the catalog and the user's progress
// through it.
type StatsResponse struct {
	TotalBooks    int      `json:"total_books" doc:"Books in the catalog"`
	IndexedBooks  uint64   `json:"indexed_books" doc:"Books in the search index"`
	AwardedBooks  int      `json:"awarded_books" doc:"Books with at least one award honor"`
	ListedBooks   int      `json:"listed_books" doc:"Books on at least one curated list"`
	RatedByCrowd  int      `json:"rated_by_crowd" doc:"Books with a resolved community rating"`
	ReadBooks     int      `json:"read_books" doc:"Books marked read"`
	RatedBooks    int      `json:"rated_books" doc:"Books with a personal rating"`
	AvgUserRating *float64 `json:"avg_user_rating,omitempty" doc:"Mean of the user's personal ratings"`
}

// StatsOutput wraps the stats response body.
type StatsOutput struct {
	Body StatsResponse
}

func (s *Server) registerStatsRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "get-stats",
		Method:      http.MethodGet,
		Path:        "/api/v1/stats",
		Summary:     "Catalog statistics",
		Tags:        []string{"System"},
	}, s.handleStats)
}

func (s *Server) handleStats(ctx context.Context, _ *struct{}) (*StatsOutput, error) {
	total, err := s.store.CountBooks(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to count books", err)
	}

	indexed, err := s.search.DocumentCount()
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to count indexed books", err)
	}

	books, err := s.store.ListBooks(ctx, store.ListOptions{})
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to list books", err)
	}

	states, err := s.store.ListUserBookStates(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to load user state", err)
	}

	resp := StatsResponse{
		TotalBooks:   total,
		IndexedBooks: indexed,
	}
	for _, book := range books {
		if len(book.Awards) > 0 {
			resp.AwardedBooks++
		}
		if len(book.Lists) > 0 {
			resp.ListedBooks++
		}
		if book.AvgRating != nil {
			resp.RatedByCrowd++
		}
	}
	var ratingSum int
	for _, state := range states {
		if state.Read {
			resp.ReadBooks++
		}
		if state.Rating != nil {
			resp.RatedBooks++
			ratingSum += *state.Rating
		}
	}
	if resp.RatedBooks > 0 {
		avg := float64(ratingSum) / float64(resp.RatedBooks)
		resp.AvgUserRating = &avg
	}

	return &StatsOutput{Body: resp}, nil
}
