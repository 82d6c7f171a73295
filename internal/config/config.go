package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config contains all runtime settings for the assistant service.
type Config struct {
	BindAddr         string
	ShutdownTimeout  time.Duration
	MetricsNamespace string

	AllowAnyOrigin bool

	EngineMode        string
	OpenRouterAPIKey  string
	OpenRouterBaseURL string
	ModelName         string
	EngineMaxSteps    int

	OpenWeatherAPIKey string
	SerpAPIKey        string
	ProviderTimeout   time.Duration

	DatabaseURL   string
	MaxUploadSize int64
}

// Load reads environment variables and applies safe defaults.
func Load() (Config, error) {
	cfg := Config{
		BindAddr:          envOrDefault("APP_BIND_ADDR", ":8000"),
		MetricsNamespace:  envOrDefault("APP_METRICS_NAMESPACE", "mittai"),
		AllowAnyOrigin:    false,
		EngineMode:        envOrDefault("ENGINE_MODE", "auto"),
		OpenRouterAPIKey:  envTrimmed("OPENROUTER_API_KEY"),
		OpenRouterBaseURL: envOrDefault("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
		ModelName:         envOrDefault("MODEL_NAME", "openai/gpt-4o-mini"),
		EngineMaxSteps:    8,
		OpenWeatherAPIKey: envTrimmed("OPENWEATHERMAP_APIKEY"),
		SerpAPIKey:        envTrimmed("SERPAPI_APIKEY"),
		ProviderTimeout:   10 * time.Second,
		DatabaseURL:       envTrimmed("DATABASE_URL"),
		MaxUploadSize:     10 << 20,
		ShutdownTimeout:   15 * time.Second,
	}

	var err error
	cfg.ShutdownTimeout, err = durationFromEnv("APP_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.ProviderTimeout, err = durationFromEnv("PROVIDER_HTTP_TIMEOUT", cfg.ProviderTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.EngineMaxSteps, err = intFromEnv("ENGINE_MAX_STEPS", cfg.EngineMaxSteps)
	if err != nil {
		return Config{}, err
	}
	cfg.AllowAnyOrigin, err = boolFromEnv("APP_ALLOW_ANY_ORIGIN", cfg.AllowAnyOrigin)
	if err != nil {
		return Config{}, err
	}

	switch strings.ToLower(strings.TrimSpace(cfg.EngineMode)) {
	case "auto", "openai", "mock":
	default:
		return Config{}, fmt.Errorf("invalid ENGINE_MODE: %q (expected auto|openai|mock)", cfg.EngineMode)
	}
	if cfg.EngineMaxSteps <= 0 {
		return Config{}, fmt.Errorf("ENGINE_MAX_STEPS must be positive")
	}
	if cfg.ProviderTimeout < time.Second {
		return Config{}, fmt.Errorf("PROVIDER_HTTP_TIMEOUT must be at least 1s")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func envTrimmed(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := envTrimmed(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return d, nil
}

func intFromEnv(key string, fallback int) (int, error) {
	v := envTrimmed(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return n, nil
}

func boolFromEnv(key string, fallback bool) (bool, error) {
	v := strings.ToLower(envTrimmed(key))
	if v == "" {
		return fallback, nil
	}
	switch v {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("%s parse error: expected bool", key)
	}
}
