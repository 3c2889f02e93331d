package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/anujkukreti29/mayabu/config"
	httpDelivery "github.com/anujkukreti29/mayabu/internal/delivery/http"
	"github.com/anujkukreti29/mayabu/internal/infrastructure/cache"
	"github.com/anujkukreti29/mayabu/internal/infrastructure/fanout"
	"github.com/anujkukreti29/mayabu/internal/infrastructure/sources"
	"github.com/anujkukreti29/mayabu/internal/usecase"
)

func main() {
	// .env is optional; real deployments set env vars directly
	if err := godotenv.Load(); err == nil {
		log.Printf("Loaded environment from .env")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting Mayabu Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Sources: %v (preferred: %s)", cfg.Sources.Order, cfg.Sources.Preferred)
	log.Printf("Matching: threshold=%.0f, max price diff=%.0f%%",
		cfg.Matching.SimilarityThreshold, cfg.Matching.MaxPriceDiffPercent)

	// Initialize infrastructure dependencies
	registry := sources.NewRegistry()
	for _, name := range cfg.Sources.Order {
		src, err := sources.New(name, cfg.Sources.BaseURLs[name])
		if err != nil {
			log.Fatalf("Failed to build source %q: %v", name, err)
		}
		registry.Register(src)
	}

	executor := fanout.New(cfg.Sources.MaxWorkers, cfg.Sources.FetchTimeout)
	memoryCache := cache.NewMemoryCache()
	log.Printf("Cache TTL: %s", cfg.Cache.TTL)

	// Initialize usecase layer
	comparisonService := usecase.NewComparisonService(
		registry,
		executor,
		memoryCache,
		usecase.ComparisonServiceConfig{
			PreferredSource:     cfg.Sources.Preferred,
			SourceTimeout:       cfg.Sources.FetchTimeout,
			MaxPriceDiffPercent: cfg.Matching.MaxPriceDiffPercent,
			CacheTTL:            cfg.Cache.TTL,
			Matching: usecase.MatchConfig{
				SimilarityThreshold: cfg.Matching.SimilarityThreshold,
				ExactMatchBoost:     cfg.Matching.ExactMatchBoost,
				TokenMatchBoost:     cfg.Matching.TokenMatchBoost,
				MinFilteredProducts: cfg.Matching.MinFilteredProducts,
				EnableDebugLogging:  cfg.Matching.EnableDebugLogging,
			},
		},
	)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(comparisonService, registry.Names())
	router := httpDelivery.SetupRouter(cfg, handler)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown: stop accepting requests, then drain in-flight fetches
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Printf("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	executor.Drain()
	memoryCache.Stop()
	log.Printf("Shutdown complete")
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
