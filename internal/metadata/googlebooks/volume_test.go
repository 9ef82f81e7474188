package googlebooks

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
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

func TestClient_FetchVolume(t *testing.T) {
	fixture := loadFixture(t, "volumes_response.json")
	handler := func(w http.ResponseWriter, _ *http.Request) {
		w.Write(fixture)
	}

	client, server := newTestClient(t, handler)
	defer server.Close()
	defer client.Close()

	volume, err := client.FetchVolume(context.Background(), "Hyperion", "Dan Simmons")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if volume.Title != "Hyperion" {
		t.Errorf("unexpected title: %q", volume.Title)
	}
	if volume.PublishYear != 1990 {
		t.Errorf("unexpected year: %d", volume.PublishYear)
	}
	if len(volume.Categories) != 2 || volume.Categories[0] != "Fiction" {
		t.Errorf("unexpected categories: %v", volume.Categories)
	}
	if !strings.Contains(volume.Description, "Hyperion") {
		t.Errorf("unexpected description: %q", volume.Description)
	}
}

func TestClient_FetchVolumeQuery(t *testing.T) {
	var gotQuery string
	handler := func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		io.WriteString(w, `{"items": []}`)
	}

	client, server := newTestClient(t, handler)
	defer server.Close()
	defer client.Close()

	_, err := client.FetchVolume(context.Background(), "Hyperion", "Dan Simmons")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if gotQuery != `intitle:"Hyperion" inauthor:"Dan Simmons"` {
		t.Errorf("unexpected query: %q", gotQuery)
	}
}

func TestClient_FetchVolumeWithoutAuthor(t *testing.T) {
	var gotQuery string
	handler := func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		io.WriteString(w, `{"items": []}`)
	}

	client, server := newTestClient(t, handler)
	defer server.Close()
	defer client.Close()

	_, _ = client.FetchVolume(context.Background(), "Hyperion", "")
	if gotQuery != `intitle:"Hyperion"` {
		t.Errorf("unexpected query: %q", gotQuery)
	}
}

func TestClient_FetchVolumeErrors(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		wantErr    error
	}{
		{"not found", http.StatusNotFound, ErrNotFound},
		{"rate limited", http.StatusTooManyRequests, ErrRateLimited},
		{"server error", http.StatusInternalServerError, ErrServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.statusCode)
			}

			client, server := newTestClient(t, handler)
			defer server.Close()
			defer client.Close()

			_, err := client.FetchVolume(context.Background(), "Hyperion", "")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestParseYear(t *testing.T) {
	tests := []struct {
		date string
		want int
	}{
		{"1990-02-01", 1990},
		{"1995-11", 1995},
		{"2003", 2003},
		{"", 0},
		{"n.d.", 0},
		{"-5", 0},
	}

	for _, tt := range tests {
		if got := parseYear(tt.date); got != tt.want {
			t.Errorf("parseYear(%q) = %d, want %d", tt.date, got, tt.want)
		}
	}
}
