// Package server exposes the assessment pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/yksassistant/hakem/internal/i18n"
	"github.com/yksassistant/hakem/internal/model"
	"github.com/yksassistant/hakem/internal/pipeline"
	"github.com/yksassistant/hakem/internal/worker"
)

// Server serves the HTTP API
type Server struct {
	pipeline *pipeline.Pipeline
	config   model.ServerConfig
	lang     string
	clients  *worker.Limiter
	version  string
}

// New creates a server around p; lang is the fallback response language
func New(p *pipeline.Pipeline, cfg model.ServerConfig, lang, version string) *Server {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 90 * time.Second
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10 << 20
	}
	if cfg.MaxBatchSize <= 0 {
		cfg.MaxBatchSize = 500
	}
	if !i18n.Default().Supports(lang) {
		lang = i18n.DefaultLang
	}

	return &Server{
		pipeline: p,
		config:   cfg,
		lang:     lang,
		clients:  worker.NewLimiter(cfg.ClientRequestsPerSecond, cfg.ClientBurst),
		version:  version,
	}
}

// Router builds the chi router with all middleware and routes
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(s.config.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept-Language", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length", "X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(i18n.Default().Middleware(s.lang))

	r.Get("/health", s.handleHealth)
	r.Route("/v1", func(v1 chi.Router) {
		v1.Post("/assess", s.handleAssess)
		v1.Post("/assess/batch", s.handleAssessBatch)
		v1.Post("/measure", s.handleMeasure)
	})

	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then drains in-flight
// requests
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", addr, "lang", s.lang, "provider", s.providerName())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) providerName() string {
	if p := s.pipeline.Provider(); p != nil {
		return p.Name()
	}
	return ""
}
