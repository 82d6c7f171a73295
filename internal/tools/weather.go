package tools

import (
	"context"

	"github.com/sharunashwanth/mittai-agent/internal/observability"
	"github.com/sharunashwanth/mittai-agent/internal/weather"
)

var citySchema = objectSchema(map[string]any{
	"city": map[string]any{
		"type":        "string",
		"description": "City name, e.g. \"Chennai\" or \"London,GB\"",
	},
}, "city")

// CurrentWeatherTool reports the current weather for a city. Provider
// failures come back as {"error": reason} so the engine can narrate them.
func CurrentWeatherTool(c *weather.Client, m *observability.Metrics) Tool {
	return Tool{
		Name:        "current_weather",
		Description: "Get the current weather of a city.",
		Parameters:  citySchema,
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			city := stringArg(args, "city")
			if city == "" {
				return map[string]any{"error": "city is required"}, nil
			}
			data, err := c.Current(ctx, city)
			if err != nil {
				countProviderError(m, "openweathermap")
				return map[string]any{"error": err.Error()}, nil
			}
			return data, nil
		},
	}
}

// WeatherForecastTool reports the 5-day/3-hour forecast for a city.
func WeatherForecastTool(c *weather.Client, m *observability.Metrics) Tool {
	return Tool{
		Name:        "weather_forecast",
		Description: "Get the 5 day 3 hourly weather forecast of a city.",
		Parameters:  citySchema,
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			city := stringArg(args, "city")
			if city == "" {
				return map[string]any{"error": "city is required"}, nil
			}
			data, err := c.Forecast(ctx, city)
			if err != nil {
				countProviderError(m, "openweathermap")
				return map[string]any{"error": err.Error()}, nil
			}
			return data, nil
		},
	}
}

func countProviderError(m *observability.Metrics, provider string) {
	if m == nil {
		return
	}
	m.ProviderErrors.WithLabelValues(provider).Inc()
}
