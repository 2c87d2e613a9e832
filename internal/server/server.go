// Package server exposes the dashboard page and its JSON API over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/KaramelBytes/salesdash/internal/dashboard"
	"github.com/KaramelBytes/salesdash/internal/dataset"
	"github.com/KaramelBytes/salesdash/internal/render"
)

// Options configures the HTTP surface.
type Options struct {
	Addr            string
	Dashboard       dashboard.Options
	ChartSize       render.Size
	ShutdownTimeout time.Duration
}

// Server serves one immutable dataset. Handlers share the store without locking.
type Server struct {
	store *dataset.Store
	opt   Options
	log   zerolog.Logger
	mux   http.Handler
}

// New wires the router.
func New(store *dataset.Store, opt Options, log zerolog.Logger) *Server {
	if opt.Addr == "" {
		opt.Addr = "127.0.0.1:8050"
	}
	if opt.ShutdownTimeout <= 0 {
		opt.ShutdownTimeout = 10 * time.Second
	}
	s := &Server{store: store, opt: opt, log: log}
	s.mux = s.routes()
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(WithRequestID, s.withLogging, middleware.Recoverer)
	r.Get("/", s.indexHandler)
	r.Get("/healthz", s.healthHandler)
	r.Get("/api/domains", s.domainsHandler)
	r.Get("/api/dashboard", s.dashboardHandler)
	r.Get("/charts/{slot}.svg", s.chartHandler)
	r.NotFound(notFound)
	return r
}

// Handler returns the HTTP handler with middleware applied.
func (s *Server) Handler() http.Handler { return s.mux }

// Run listens on the configured address until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opt.Addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.opt.Addr).Str("dataset", s.store.Source()).Int("rows", s.store.Len()).Msg("http_listen")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info().Msg("shutdown_begin")
	sctx, cancel := context.WithTimeout(context.Background(), s.opt.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		s.log.Error().Err(err).Msg("http_shutdown_error")
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.log.Info().Msg("server_stopped")
	return nil
}
