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

// BookResponse is a catalog book with the user's state merged in.
type BookResponse struct {
	ID     string `json:"id" doc:"Book ID"`
	Title  string `json:"title" doc:"Book title"`
	Author string `json:"author" doc:"Primary author"`

	Awards []string `json:"awards,omitempty" doc:"Award honors"`
	Lists  []string `json:"lists,omitempty" doc:"Curated list memberships"`

	AvgRating       *float64 `json:"avg_rating,omitempty" doc:"Community average rating"`
	NumRatings      *int     `json:"num_ratings,omitempty" doc:"Community rating count"`
	PossibleMisread string   `json:"possible_misread,omitempty" doc:"Close-but-rejected rating candidate flagged for review"`

	PublishYear         int      `json:"publish_year,omitempty" doc:"First publication year"`
	Categories          []string `json:"categories,omitempty" doc:"Subject categories"`
	Description         string   `json:"description,omitempty" doc:"Plain text description"`
	DescriptionMarkdown string   `json:"description_markdown,omitempty" doc:"Markdown description"`

	Read   bool `json:"read" doc:"Whether the user has read this book"`
	Rating *int `json:"rating,omitempty" doc:"User's personal rating, 1-5"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListBooksInput holds query parameters for book listing.
type ListBooksInput struct {
	Sort   string `query:"sort" enum:"title,author,rating,ratings,year,recent" default:"title" doc:"Sort column"`
	Order  string `query:"order" enum:"asc,desc" default:"asc" doc:"Sort direction"`
	Limit  int    `query:"limit" minimum:"1" maximum:"500" default:"50" doc:"Page size"`
	Offset int    `query:"offset" minimum:"0" default:"0" doc:"Page offset"`
}

// ListBooksOutput wraps the book listing response.
type ListBooksOutput struct {
	Body ListBooksResponse
}

// ListBooksResponse is one page of the catalog.
type ListBooksResponse struct {
	Books  []BookResponse `json:"books" doc:"Books in this page"`
	Total  int            `json:"total" doc:"Total books in the catalog"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// GetBookInput identifies a single book.
type GetBookInput struct {
	ID string `path:"id" doc:"Book ID"`
}

// GetBookOutput wraps a single book response.
type GetBookOutput struct {
	Body BookResponse
}

func (s *Server) registerBookRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "list-books",
		Method:      http.MethodGet,
		Path:        "/api/v1/books",
		Summary:     "List books",
		Description: "Lists catalog books with the user's read/rating state merged in.",
		Tags:        []string{"Books"},
	}, s.handleListBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-book",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}",
		Summary:     "Get a book",
		Tags:        []string{"Books"},
	}, s.handleGetBook)
}

var sortColumns = map[string]string{
	"title":   store.SortByTitle,
	"author":  store.SortByAuthor,
	"rating":  store.SortByAvgRating,
	"ratings": store.SortByNumRatings,
	"year":    store.SortByPublishYear,
	"recent":  store.SortByUpdatedAt,
}

func (s *Server) handleListBooks(ctx context.Context, input *ListBooksInput) (*ListBooksOutput, error) {
	books, err := s.store.ListBooks(ctx, store.ListOptions{
		SortBy:     sortColumns[input.Sort],
		Descending: input.Order == "desc",
		Limit:      input.Limit,
		Offset:     input.Offset,
	})
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to list books", err)
	}

	total, err := s.store.CountBooks(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to count books", err)
	}

	states, err := s.store.ListUserBookStates(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to load user state", err)
	}

	resp := ListBooksResponse{
		Books:  make([]BookResponse, 0, len(books)),
		Total:  total,
		Limit:  input.Limit,
		Offset: input.Offset,
	}
	for _, book := range books {
		resp.Books = append(resp.Books, bookToResponse(book, findState(states, book)))
	}

	return &ListBooksOutput{Body: resp}, nil
}

func (s *Server) handleGetBook(ctx context.Context, input *GetBookInput) (*GetBookOutput, error) {
	book, err := s.store.GetBook(ctx, input.ID)
	if err != nil {
		// Store errors carry their own status, so not-found maps to 404.
		return nil, huma.Error500InternalServerError("failed to get book", err)
	}

	state, err := s.store.GetUserBookState(ctx, book.Title, book.Author)
	if err != nil && !errors.Is(err, store.ErrUserBookStateNotFound) {
		return nil, huma.Error500InternalServerError("failed to load user state", err)
	}

	return &GetBookOutput{Body: bookToResponse(book, state)}, nil
}

// findState locates the state row for a book using relaxed author
// matching, so a row saved without an author still applies.
func findState(states []*domain.UserBookState, book *domain.Book) *domain.UserBookState {
	for _, state := range states {
		if state.Matches(book.Title, book.Author) {
			return state
		}
	}
	return nil
}

func bookToResponse(book *domain.Book, state *domain.UserBookState) BookResponse {
	resp := BookResponse{
		ID:                  book.ID,
		Title:               book.Title,
		Author:              book.Author,
		Awards:              book.Awards,
		Lists:               book.Lists,
		AvgRating:           book.AvgRating,
		NumRatings:          book.NumRatings,
		PossibleMisread:     book.PossibleMisread,
		PublishYear:         book.PublishYear,
		Categories:          book.Categories,
		Description:         book.Description,
		DescriptionMarkdown: book.DescriptionMarkdown,
		CreatedAt:           book.CreatedAt,
		UpdatedAt:           book.UpdatedAt,
	}
	if state != nil {
		resp.Read = state.Read
		resp.Rating = state.Rating
	}
	return resp
}
