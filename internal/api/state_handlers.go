package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfscope/shelfscope-server/internal/domain"
	"github.com/shelfscope/shelfscope-server/internal/store"
)

// StateResponse is the user's saved state for one book.
type StateResponse struct {
	Title     string    `json:"title" doc:"Book title the state is keyed by"`
	Author    string    `json:"author,omitempty" doc:"Author the state is keyed by"`
	Read      bool      `json:"read" doc:"Whether the book has been read"`
	Rating    *int      `json:"rating,omitempty" doc:"Personal rating, 1-5"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpdateStateInput updates read/rating state for a book. Omitted
// fields are left unchanged.
type UpdateStateInput struct {
	ID   string `path:"id" doc:"Book ID"`
	Body struct {
		Read   *bool `json:"read,omitempty" doc:"Mark the book read or unread"`
		Rating *int  `json:"rating,omitempty" minimum:"1" maximum:"5" doc:"Personal rating, 1-5"`
	}
}

// UpdateStateOutput wraps the updated state.
type UpdateStateOutput struct {
	Body StateResponse
}

// ListStatesOutput wraps the full state listing.
type ListStatesOutput struct {
	Body ListStatesResponse
}

// ListStatesResponse lists all saved per-book state rows.
type ListStatesResponse struct {
	States []StateResponse `json:"states"`
	Total  int             `json:"total"`
}

func (s *Server) registerStateRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "update-book-state",
		Method:      http.MethodPut,
		Path:        "/api/v1/books/{id}/state",
		Summary:     "Update read/rating state",
		Description: "Updates the user's read flag and personal rating for a book. State is keyed by title and author so it survives catalog rebuilds.",
		Tags:        []string{"State"},
	}, s.handleUpdateState)

	huma.Register(s.api, huma.Operation{
		OperationID: "list-book-states",
		Method:      http.MethodGet,
		Path:        "/api/v1/state",
		Summary:     "List saved state",
		Tags:        []string{"State"},
	}, s.handleListStates)
}

func (s *Server) handleUpdateState(ctx context.Context, input *UpdateStateInput) (*UpdateStateOutput, error) {
	book, err := s.store.GetBook(ctx, input.ID)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to get book", err)
	}

	state, err := s.store.GetUserBookState(ctx, book.Title, book.Author)
	if errors.Is(err, store.ErrUserBookStateNotFound) {
		state = domain.NewUserBookState(book.Title, book.Author)
	} else if err != nil {
		return nil, huma.Error500InternalServerError("failed to load user state", err)
	}

	if input.Body.Read != nil {
		state.Read = *input.Body.Read
	}
	if input.Body.Rating != nil {
		state.Rating = input.Body.Rating
	}
	state.UpdatedAt = time.Now()

	if err := s.store.UpsertUserBookState(ctx, state); err != nil {
		return nil, huma.Error500InternalServerError("failed to save user state", err)
	}

	s.logger.Info("updated book state",
		"book_id", book.ID,
		"title", book.Title,
		"read", state.Read,
	)

	return &UpdateStateOutput{Body: stateToResponse(state)}, nil
}

func (s *Server) handleListStates(ctx context.Context, _ *struct{}) (*ListStatesOutput, error) {
	states, err := s.store.ListUserBookStates(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to list user state", err)
	}

	resp := ListStatesResponse{
		States: make([]StateResponse, 0, len(states)),
		Total:  len(states),
	}
	for _, state := range states {
		resp.States = append(resp.States, stateToResponse(state))
	}

	return &ListStatesOutput{Body: resp}, nil
}

func stateToResponse(state *domain.UserBookState) StateResponse {
	return StateResponse{
		Title:     state.Title,
		Author:    state.Author,
		Read:      state.Read,
		Rating:    state.Rating,
		UpdatedAt: state.UpdatedAt,
	}
}
