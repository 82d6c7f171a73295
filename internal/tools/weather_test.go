package tools

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sharunashwanth/mittai-agent/internal/search"
	"github.com/sharunashwanth/mittai-agent/internal/weather"
)

func TestCurrentWeatherProviderFailureIsStructured(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := weather.NewClientWithBaseURL("key", srv.URL, time.Second)
	r := NewRegistry(CurrentWeatherTool(c, nil))
	got := dispatchMap(t, r, "current_weather", map[string]any{"city": "Chennai"})
	if got["error"] != "API error: 500" {
		t.Fatalf(`error = %v, want "API error: 500"`, got["error"])
	}
}

func TestCurrentWeatherSuccessPassesPayloadThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"name": "Chennai", "main": map[string]any{"temp": 31.0}})
	}))
	defer srv.Close()

	c := weather.NewClientWithBaseURL("key", srv.URL, time.Second)
	r := NewRegistry(CurrentWeatherTool(c, nil))
	got := dispatchMap(t, r, "current_weather", map[string]any{"city": "Chennai"})
	if got["name"] != "Chennai" {
		t.Fatalf("payload = %v", got)
	}
}

func TestCurrentWeatherMissingCity(t *testing.T) {
	c := weather.NewClient("key", time.Second)
	r := NewRegistry(CurrentWeatherTool(c, nil))
	got := dispatchMap(t, r, "current_weather", map[string]any{})
	if got["error"] != "city is required" {
		t.Fatalf("payload = %v", got)
	}
}

func TestWebSearchReturnsStructuredResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"organic_results": []map[string]string{
				{"title": "Go", "snippet": "the language", "link": "https://go.dev"},
			},
		})
	}))
	defer srv.Close()

	c := search.NewClientWithBaseURL("key", srv.URL, time.Second)
	r := NewRegistry(WebSearchTool(c, nil))
	got := dispatchMap(t, r, "web_search", map[string]any{"query": "golang"})
	if got["count"] != 1 {
		t.Fatalf("count = %v", got["count"])
	}
	results, ok := got["results"].([]search.Result)
	if !ok || results[0].Link != "https://go.dev" {
		t.Fatalf("results payload = %v", got["results"])
	}
}

func TestWebSearchProviderFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := search.NewClientWithBaseURL("key", srv.URL, time.Second)
	r := NewRegistry(WebSearchTool(c, nil))
	got := dispatchMap(t, r, "web_search", map[string]any{"query": "golang"})
	if got["error"] != "API error: 502" {
		t.Fatalf("payload = %v", got)
	}
}
