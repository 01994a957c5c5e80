// Package health exposes a minimal HTTP endpoint for liveness probes.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dailytutor/dailytutor/internal/pkg/logger"
)

// Server answers liveness probes while the bot runs.
type Server struct {
	srv *http.Server
	log *logger.Logger
}

// NewServer builds the probe server on the given port.
func NewServer(port string, log *logger.Logger) *Server {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	ok := func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}
	r.Get("/", ok)
	r.Get("/healthz", ok)

	return &Server{
		srv: &http.Server{
			Addr:              ":" + port,
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
		log: log.With("component", "health"),
	}
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Start serves until Shutdown is called. It blocks.
func (s *Server) Start() error {
	s.log.Info("health server listening", "addr", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
