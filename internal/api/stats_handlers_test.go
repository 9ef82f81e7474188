package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStats_EmptyCatalog(t *testing.T) {
	_, api := newTestServer(t)

	resp := api.Get("/api/v1/stats")
	require.Equal(t, 200, resp.Code)

	env := decodeEnvelope[StatsResponse](t, resp)
	assert.Zero(t, env.Data.TotalBooks)
	assert.Zero(t, env.Data.ReadBooks)
	assert.Nil(t, env.Data.AvgUserRating)
}

func TestStats(t *testing.T) {
	srv, api := newTestServer(t)

	hyperion := testBook("book_1", "Hyperion", "Dan Simmons")
	hyperion.Awards = []string{"Hugo Award 1990"}
	rating := 4.27
	hyperion.AvgRating = &rating
	seedBook(t, srv, hyperion)

	austerlitz := testBook("book_2", "Austerlitz", "W. G. Sebald")
	austerlitz.Lists = []string{"Guardian 100 Best Novels"}
	seedBook(t, srv, austerlitz)

	seedBook(t, srv, testBook("book_3", "The Dispossessed", "Ursula K. Le Guin"))

	require.Equal(t, 200, api.Put("/api/v1/books/book_1/state", map[string]any{"read": true, "rating": 5}).Code)
	require.Equal(t, 200, api.Put("/api/v1/books/book_2/state", map[string]any{"rating": 3}).Code)

	resp := api.Get("/api/v1/stats")
	require.Equal(t, 200, resp.Code)

	env := decodeEnvelope[StatsResponse](t, resp)
	assert.Equal(t, 3, env.Data.TotalBooks)
	assert.Equal(t, uint64(3), env.Data.IndexedBooks)
	assert.Equal(t, 1, env.Data.AwardedBooks)
	assert.Equal(t, 1, env.Data.ListedBooks)
	assert.Equal(t, 1, env.Data.RatedByCrowd)
	assert.Equal(t, 1, env.Data.ReadBooks)
	assert.Equal(t, 2, env.Data.RatedBooks)
	require.NotNil(t, env.Data.AvgUserRating)
	assert.Equal(t, 4.0, *env.Data.AvgUserRating)
}
