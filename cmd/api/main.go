// Package main implements the HTTP API server for catcount.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	apihttp "github.com/dsjohal14/catcount/internal/http"
	"github.com/dsjohal14/catcount/internal/libs/config"
	"github.com/dsjohal14/catcount/internal/libs/obs"
	"github.com/dsjohal14/catcount/internal/scope"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Init logger
	obs.InitLogger(cfg.LogLevel)
	logger := obs.Logger("api")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Open the counting backend
	openCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	backend, err := scope.Open(openCtx, cfg, obs.Logger(cfg.CountBackend))
	cancel()
	if err != nil {
		logger.Fatal().Err(err).Str("backend", cfg.CountBackend).Msg("failed to open count backend")
	}
	defer func() {
		if err := backend.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close count backend")
		}
	}()

	loc, _ := cfg.Location() // validated by config.Load
	endpoint := backend.Endpoint(loc, obs.Logger("count"))

	// Create HTTP handler
	handler := apihttp.NewHandler(endpoint, backend.Name, backend.Indexer, logger)

	// Setup router
	r := setupRouter(handler)

	// Start server
	addr := fmt.Sprintf("%s:%s", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("graceful shutdown failed")
		}
	}()

	logger.Info().Str("addr", addr).Str("backend", backend.Name).Msg("starting API server")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("server failed")
		return
	}
	logger.Info().Msg("server stopped")
}

func setupRouter(h *apihttp.Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apihttp.Metrics)

	// Routes
	r.Get("/health", h.HandleHealth)
	r.Get("/cat", h.HandleCat)
	r.Get("/cat/count", h.HandleCount)
	r.Get("/cat/count/{index}", h.HandleCount)
	r.Post("/ingest", h.HandleIngest)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
