// Package server exposes the evaluation engine over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/chainguard-dev/clog"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/valpere/pereval/internal"
)

// Engine runs one prompt through every provider and returns the ranked result.
type Engine interface {
	GenerateResponses(ctx context.Context, prompt string) (*internal.EvaluationResult, error)
}

// Config holds the HTTP server configuration.
type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// Server wraps the HTTP server with configuration.
type Server struct {
	cfg Config
	srv *http.Server
}

// New creates a server with every route registered.
func New(cfg Config, engine Engine) *Server {
	if cfg.Addr == "" {
		cfg.Addr = ":3000"
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}

	mux := http.NewServeMux()
	h := NewHandlers(engine)
	mux.HandleFunc("GET /{$}", h.HandleWelcome)
	mux.HandleFunc("GET /llm", h.HandleBanner)
	mux.HandleFunc("POST /llm/generate", h.HandleGenerate)
	mux.HandleFunc("GET /healthz", h.HandleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	return &Server{
		cfg: cfg,
		srv: &http.Server{
			Addr:              cfg.Addr,
			Handler:           RequestIDMiddleware(CORSMiddleware(mux)),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
// Evaluations in flight get ShutdownTimeout to finish.
func (s *Server) ListenAndServe(ctx context.Context) error {
	log := clog.FromContext(ctx)
	// Requests inherit the logger but not the cancellation.
	base := context.WithoutCancel(ctx)
	s.srv.BaseContext = func(net.Listener) context.Context { return base }

	log.Infof("HTTP server listening on %s", s.srv.Addr)

	go func() {
		<-ctx.Done()
		log.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.ShutdownTimeout)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			log.Errorf("HTTP server shutdown error: %v", err)
		}
	}()

	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server error: %w", err)
	}
	return nil
}

// Handler returns the underlying http.Handler (useful for testing).
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}
