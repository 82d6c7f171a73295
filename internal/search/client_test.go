package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSearchTruncatesToTopFive(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "golang" {
			t.Errorf("q = %q, want golang", got)
		}
		results := make([]map[string]string, 8)
		for i := range results {
			results[i] = map[string]string{
				"title":   fmt.Sprintf("result %d", i),
				"snippet": "snip",
				"link":    fmt.Sprintf("https://example.com/%d", i),
			}
		}
		json.NewEncoder(w).Encode(map[string]any{"organic_results": results})
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("key", srv.URL, time.Second)
	got, err := c.Search(context.Background(), "golang")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("Search returned %d results, want 5", len(got))
	}
	if got[0].Title != "result 0" || got[4].Title != "result 4" {
		t.Fatalf("result order broken: %+v", got)
	}
}

func TestSearchEmptyResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{})
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("key", srv.URL, time.Second)
	got, err := c.Search(context.Background(), "nothing")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("Search returned %d results, want 0", len(got))
	}
}

func TestSearchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("key", srv.URL, time.Second)
	_, err := c.Search(context.Background(), "golang")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("StatusCode = %d, want 429", apiErr.StatusCode)
	}
}
