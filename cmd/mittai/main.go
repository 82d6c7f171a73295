package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sharunashwanth/mittai-agent/internal/config"
	"github.com/sharunashwanth/mittai-agent/internal/engine"
	"github.com/sharunashwanth/mittai-agent/internal/events"
	"github.com/sharunashwanth/mittai-agent/internal/httpapi"
	"github.com/sharunashwanth/mittai-agent/internal/observability"
	"github.com/sharunashwanth/mittai-agent/internal/orchestrator"
	"github.com/sharunashwanth/mittai-agent/internal/search"
	"github.com/sharunashwanth/mittai-agent/internal/session"
	"github.com/sharunashwanth/mittai-agent/internal/tools"
	"github.com/sharunashwanth/mittai-agent/internal/weather"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	metrics := observability.NewMetrics(cfg.MetricsNamespace)

	ctx := context.Background()
	eventStore, err := events.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("event store init failed: %v", err)
	}
	defer eventStore.Close()

	storeMode := "memory"
	if cfg.DatabaseURL != "" {
		storeMode = "postgres"
	}
	log.Printf("event store: %s", storeMode)

	eng, err := engine.NewEngine(engine.Config{
		Mode:    cfg.EngineMode,
		APIKey:  cfg.OpenRouterAPIKey,
		BaseURL: cfg.OpenRouterBaseURL,
		Model:   cfg.ModelName,
	})
	if err != nil {
		log.Fatalf("engine init failed: %v", err)
	}
	log.Printf("engine mode: %s", eng.Mode())

	registry := tools.DefaultRegistry(
		eventStore,
		weather.NewClient(cfg.OpenWeatherAPIKey, cfg.ProviderTimeout),
		search.NewClient(cfg.SerpAPIKey, cfg.ProviderTimeout),
		metrics,
		time.Now,
	)
	log.Printf("registered tools: %v", registry.Names())

	sessions := session.NewManager()
	orch := orchestrator.New(sessions, eng, registry, metrics, cfg.EngineMaxSteps)

	api := httpapi.New(cfg, sessions, orch, metrics, eng.Mode(), storeMode)
	httpServer := &http.Server{
		Addr:    cfg.BindAddr,
		Handler: api.Router(),
	}

	go func() {
		log.Printf("server listening on %s", cfg.BindAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Printf("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
		_ = httpServer.Close()
	}

	log.Printf("shutdown complete")
}
