package api

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfscope/shelfscope-server/internal/domain"
)

func TestUpdateState_MarksRead(t *testing.T) {
	srv, api := newTestServer(t)
	seedBook(t, srv, testBook("book_1", "Hyperion", "Dan Simmons"))

	resp := api.Put("/api/v1/books/book_1/state", map[string]any{"read": true})
	require.Equal(t, 200, resp.Code)

	env := decodeEnvelope[StateResponse](t, resp)
	assert.True(t, env.Data.Read)
	assert.Nil(t, env.Data.Rating)
	assert.Equal(t, "Hyperion", env.Data.Title)

	state, err := srv.store.GetUserBookState(context.Background(), "Hyperion", "Dan Simmons")
	require.NoError(t, err)
	assert.True(t, state.Read)
}

func TestUpdateState_PartialUpdate(t *testing.T) {
	srv, api := newTestServer(t)
	seedBook(t, srv, testBook("book_1", "Hyperion", "Dan Simmons"))

	resp := api.Put("/api/v1/books/book_1/state", map[string]any{"read": true})
	require.Equal(t, 200, resp.Code)

	// Setting a rating later leaves the read flag alone.
	resp = api.Put("/api/v1/books/book_1/state", map[string]any{"rating": 5})
	require.Equal(t, 200, resp.Code)

	env := decodeEnvelope[StateResponse](t, resp)
	assert.True(t, env.Data.Read)
	require.NotNil(t, env.Data.Rating)
	assert.Equal(t, 5, *env.Data.Rating)
}

func TestUpdateState_RatingOutOfRange(t *testing.T) {
	srv, api := newTestServer(t)
	seedBook(t, srv, testBook("book_1", "Hyperion", "Dan Simmons"))

	resp := api.Put("/api/v1/books/book_1/state", map[string]any{"rating": 9})
	require.Equal(t, 422, resp.Code)
}

func TestUpdateState_BookNotFound(t *testing.T) {
	_, api := newTestServer(t)

	resp := api.Put("/api/v1/books/missing/state", map[string]any{"read": true})
	require.Equal(t, 404, resp.Code)
}

func TestUpdateState_RelaxedAuthorMatch(t *testing.T) {
	srv, api := newTestServer(t)
	seedBook(t, srv, testBook("book_1", "Hyperion", "Dan Simmons"))

	// State saved without an author still applies to the book.
	state := domain.NewUserBookState("Hyperion", "")
	state.Read = true
	require.NoError(t, srv.store.UpsertUserBookState(context.Background(), state))

	resp := api.Get("/api/v1/books/book_1")
	require.Equal(t, 200, resp.Code)

	env := decodeEnvelope[BookResponse](t, resp)
	assert.True(t, env.Data.Read)
}

func TestListStates(t *testing.T) {
	srv, api := newTestServer(t)
	seedBook(t, srv, testBook("book_1", "Hyperion", "Dan Simmons"))
	seedBook(t, srv, testBook("book_2", "Austerlitz", "W. G. Sebald"))

	require.Equal(t, 200, api.Put("/api/v1/books/book_1/state", map[string]any{"read": true}).Code)
	require.Equal(t, 200, api.Put("/api/v1/books/book_2/state", map[string]any{"rating": 4}).Code)

	resp := api.Get("/api/v1/state")
	require.Equal(t, 200, resp.Code)

	env := decodeEnvelope[ListStatesResponse](t, resp)
	assert.Equal(t, 2, env.Data.Total)
	assert.Len(t, env.Data.States, 2)
}
