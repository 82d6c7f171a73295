// Package weather wraps the OpenWeatherMap API: current conditions and the
// 5-day/3-hour forecast, metric units.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.openweathermap.org/data/2.5"

// APIError reports a non-2xx provider response.
type APIError struct {
	StatusCode int
}

func (e *APIError) Error() string { return fmt.Sprintf("API error: %d", e.StatusCode) }

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

// NewClientWithBaseURL is used by tests to point at a stub server.
func NewClientWithBaseURL(apiKey, baseURL string, timeout time.Duration) *Client {
	c := NewClient(apiKey, timeout)
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

// Current returns the current weather for a city.
func (c *Client) Current(ctx context.Context, city string) (map[string]any, error) {
	return c.get(ctx, "/weather", city)
}

// Forecast returns the 5-day forecast in 3-hour intervals for a city.
func (c *Client) Forecast(ctx context.Context, city string) (map[string]any, error) {
	return c.get(ctx, "/forecast", city)
}

func (c *Client) get(ctx context.Context, path, city string) (map[string]any, error) {
	q := url.Values{}
	q.Set("q", city)
	q.Set("units", "metric")
	q.Set("appid", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, &APIError{StatusCode: res.StatusCode}
	}

	var data map[string]any
	if err := json.NewDecoder(res.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return data, nil
}
