package tools

import (
	"time"

	"github.com/sharunashwanth/mittai-agent/internal/events"
	"github.com/sharunashwanth/mittai-agent/internal/observability"
	"github.com/sharunashwanth/mittai-agent/internal/search"
	"github.com/sharunashwanth/mittai-agent/internal/weather"
)

// DefaultRegistry assembles the full capability set the assistant exposes.
func DefaultRegistry(store events.Store, wc *weather.Client, sc *search.Client, m *observability.Metrics, now func() time.Time) *Registry {
	all := []Tool{
		CurrentWeatherTool(wc, m),
		WeatherForecastTool(wc, m),
		WebSearchTool(sc, m),
		DatetimeTool(now),
	}
	all = append(all, EventTools(store)...)
	return NewRegistry(all...)
}
