// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api is the HTTP composition root: it builds the chi router, installs
the middleware chain, mounts every domain handler under /api/v1 and owns the
[http.Server] lifecycle.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/mahamanga/internal/core/chapter"
	"github.com/taibuivan/mahamanga/internal/core/comic"
	"github.com/taibuivan/mahamanga/internal/library/progress"
	"github.com/taibuivan/mahamanga/internal/platform/config"
	"github.com/taibuivan/mahamanga/internal/platform/constants"
	"github.com/taibuivan/mahamanga/internal/platform/middleware"
	"github.com/taibuivan/mahamanga/internal/reader"
)

// Server is the reader API listener.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// Handlers are the route groups mounted by [NewServer].
type Handlers struct {
	Liveness  http.HandlerFunc
	Readiness http.HandlerFunc

	Comic    *comic.Handler
	Chapter  *chapter.Handler
	Progress *progress.Handler
	Reader   *reader.Handler
}

// # Routing

// NewServer builds the router. Probes are mounted at the root and skip the
// rate limiter and authentication; everything else lives under /api/v1.
// The rate limiter's sweeper stops when context is cancelled.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, h Handlers) *Server {
	router := chi.NewRouter()

	router.Use(middleware.RequestID())
	router.Use(middleware.ClientIP(cfg.TrustedProxies))
	router.Use(middleware.StructuredLogger(log))
	router.Use(middleware.PanicRecovery())
	router.Use(chimw.CleanPath)

	router.Get("/health", h.Liveness)
	router.Get("/ready", h.Readiness)

	router.Route("/api/v1", func(api chi.Router) {
		api.Use(chimw.Timeout(constants.GlobalRequestTimeout))
		api.Use(middleware.RateLimit(context, constants.DefaultRateLimitRPS, constants.DefaultRateLimitBurst))
		api.Use(middleware.CORS(cfg))
		api.Use(middleware.Authenticate(verifier))

		h.Comic.RegisterRoutes(api)
		h.Chapter.RegisterRoutes(api)
		h.Reader.RegisterRoutes(api)
		h.Progress.RegisterRoutes(api)
	})

	return &Server{
		router: router,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           router,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ErrorLog:          slog.NewLogLogger(log.Handler(), slog.LevelWarn),
		},
	}
}

// Handler returns the router without a listener.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Lifecycle

// ListenAndServe blocks until the listener fails or [Server.Shutdown] runs,
// in which case it returns http.ErrServerClosed.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown stops accepting connections and waits up to timeout for
// in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
