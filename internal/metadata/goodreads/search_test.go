package goodreads

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/shelfscope/shelfscope-server/internal/logger"
)

func loadFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("failed to load fixture %s: %v", name, err)
	}
	return data
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)

	client := New(server.URL, logger.New(logger.Config{Writer: io.Discard, Format: "json"}))
	client.http = server.Client()

	return client, server
}

func TestClient_Search(t *testing.T) {
	fixture := loadFixture(t, "search_page.html")

	tests := []struct {
		name       string
		response   []byte
		statusCode int
		wantCount  int
		wantErr    error
	}{
		{
			name:       "successful search",
			response:   fixture,
			statusCode: http.StatusOK,
			wantCount:  2, // third row has no parseable rating blob
		},
		{
			name:       "empty page",
			response:   []byte("<html><body></body></html>"),
			statusCode: http.StatusOK,
			wantCount:  0,
		},
		{
			name:       "rate limited",
			statusCode: http.StatusTooManyRequests,
			wantErr:    ErrRateLimited,
		},
		{
			name:       "server error",
			statusCode: http.StatusInternalServerError,
			wantErr:    ErrServer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				if tt.response != nil {
					w.Write(tt.response)
				}
			}

			client, server := newTestClient(t, handler)
			defer server.Close()
			defer client.Close()

			results, err := client.Search(context.Background(), "Hyperion Dan Simmons")

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected error %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(results) != tt.wantCount {
				t.Fatalf("expected %d results, got %d", tt.wantCount, len(results))
			}
		})
	}
}

func TestClient_SearchParsesRows(t *testing.T) {
	fixture := loadFixture(t, "search_page.html")
	handler := func(w http.ResponseWriter, _ *http.Request) {
		w.Write(fixture)
	}

	client, server := newTestClient(t, handler)
	defer server.Close()
	defer client.Close()

	results, err := client.Search(context.Background(), "Hyperion")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	first := results[0]
	if first.Title != "Hyperion (Hyperion Cantos, #1)" {
		t.Errorf("unexpected title: %q", first.Title)
	}
	if first.Author != "Dan Simmons" {
		t.Errorf("unexpected author: %q", first.Author)
	}
	if first.AvgRating == nil || *first.AvgRating != 4.27 {
		t.Errorf("unexpected avg rating: %v", first.AvgRating)
	}
	if first.NumRatings == nil || *first.NumRatings != 252715 {
		t.Errorf("unexpected rating count: %v", first.NumRatings)
	}
}

func TestClient_SearchQueryParam(t *testing.T) {
	var gotQuery string
	handler := func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		io.WriteString(w, "<html></html>")
	}

	client, server := newTestClient(t, handler)
	defer server.Close()
	defer client.Close()

	if _, err := client.Search(context.Background(), `"The Dispossessed"`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotQuery != `"The Dispossessed"` {
		t.Errorf("unexpected query param: %q", gotQuery)
	}
}

func TestParseRatingBlob(t *testing.T) {
	tests := []struct {
		name      string
		blob      string
		wantAvg   float64
		wantCount int
		wantOK    bool
	}{
		{
			name:      "standard blob",
			blob:      "4.27 avg rating — 252,715 ratings",
			wantAvg:   4.27,
			wantCount: 252715,
			wantOK:    true,
		},
		{
			name:      "no thousands separator",
			blob:      "3.9 avg rating — 812 ratings",
			wantAvg:   3.9,
			wantCount: 812,
			wantOK:    true,
		},
		{
			name:   "missing count",
			blob:   "4.27 avg rating",
			wantOK: false,
		},
		{
			name:   "missing average",
			blob:   "252,715 ratings",
			wantOK: false,
		},
		{
			name:   "empty",
			blob:   "",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			avg, count, ok := parseRatingBlob(tt.blob)
			if ok != tt.wantOK {
				t.Fatalf("parseRatingBlob(%q) ok = %v, want %v", tt.blob, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if avg != tt.wantAvg {
				t.Errorf("avg = %v, want %v", avg, tt.wantAvg)
			}
			if count != tt.wantCount {
				t.Errorf("count = %d, want %d", count, tt.wantCount)
			}
		})
	}
}
