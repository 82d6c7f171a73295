package weather

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestCurrentParsesPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/weather" {
			t.Errorf("path = %q, want /weather", r.URL.Path)
		}
		if got := r.URL.Query().Get("q"); got != "Chennai" {
			t.Errorf("q = %q, want Chennai", got)
		}
		if got := r.URL.Query().Get("units"); got != "metric" {
			t.Errorf("units = %q, want metric", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"name":"Chennai","main":{"temp":31.2}}`))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("key", srv.URL, time.Second)
	data, err := c.Current(context.Background(), "Chennai")
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	if data["name"] != "Chennai" {
		t.Fatalf("name = %v, want Chennai", data["name"])
	}
}

func TestServerErrorBecomesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broke", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("key", srv.URL, time.Second)
	_, err := c.Forecast(context.Background(), "London")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.Error() != "API error: 500" {
		t.Fatalf("Error() = %q, want %q", apiErr.Error(), "API error: 500")
	}
}

func TestTimeoutSurfacesAsRequestFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("key", srv.URL, 50*time.Millisecond)
	_, err := c.Current(context.Background(), "Oslo")
	if err == nil {
		t.Fatalf("expected timeout error")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Fatalf("timeout should not be an APIError: %v", err)
	}
}
