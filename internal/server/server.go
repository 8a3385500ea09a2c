// Package server serves a built site for local preview.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	prom "github.com/prometheus/client_golang/prometheus"

	derrors "git.home.luguber.info/inful/swaggerdoc/internal/foundation/errors"
	"git.home.luguber.info/inful/swaggerdoc/internal/logfields"
	"git.home.luguber.info/inful/swaggerdoc/internal/metrics"
)

// Server serves the output directory, the metrics endpoint and the status of
// the most recent build.
type Server struct {
	root     string
	logger   *slog.Logger
	registry *prom.Registry

	mu     sync.RWMutex
	status BuildStatus
}

// BuildStatus is the JSON document served at /_status.
type BuildStatus struct {
	Outcome  string    `json:"outcome"`
	Summary  string    `json:"summary,omitempty"`
	Error    string    `json:"error,omitempty"`
	Finished time.Time `json:"finished"`
}

// New creates a server for root. registry may be nil, which disables /metrics.
func New(root string, logger *slog.Logger, registry *prom.Registry) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{root: root, logger: logger, registry: registry}
}

// SetStatus records the outcome of the latest build.
func (s *Server) SetStatus(st BuildStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = st
}

// Status returns the outcome of the latest build.
func (s *Server) Status() BuildStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.logger))

	r.Get("/_status", s.handleStatus)
	if s.registry != nil {
		r.Handle("/metrics", metrics.HTTPHandler(s.registry))
	}
	r.Handle("/*", http.FileServer(http.Dir(s.root)))
	return r
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.Status()); err != nil {
		s.logger.Warn("Failed to write status", logfields.Error(err))
	}
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryNetwork, "listen").
			Fatal().WithContext(logfields.KeyAddr, addr).Build()
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is canceled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	s.logger.Info("Serving site", logfields.Addr(ln.Addr().String()), logfields.Path(s.root))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return derrors.WrapError(err, derrors.CategoryNetwork, "serve").Fatal().Build()
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("HTTP server shutdown error", logfields.Error(err))
	}
	return nil
}
