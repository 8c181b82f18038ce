package server

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/hongminglow/hospital-be/internal/auth"
	"github.com/hongminglow/hospital-be/internal/booking"
	"github.com/hongminglow/hospital-be/internal/config"
	"github.com/hongminglow/hospital-be/internal/dashboard"
	"github.com/hongminglow/hospital-be/internal/http/handlers"
	"github.com/hongminglow/hospital-be/internal/metrics"
	"github.com/hongminglow/hospital-be/internal/middleware"
	"github.com/hongminglow/hospital-be/internal/session"
	"github.com/hongminglow/hospital-be/internal/storage"
)

// Deps are the collaborators every request handler shares.
type Deps struct {
	Store    storage.Store
	Sessions session.Store
	Logger   zerolog.Logger
	Registry *prometheus.Registry
}

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, deps Deps) *Server {
	handler := NewHandler(cfg, deps)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}
}

// NewHandler builds the full middleware chain and route table.
func NewHandler(cfg config.Config, deps Deps) http.Handler {
	registry := deps.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	m := metrics.New(registry)

	tokens := auth.NewTokenManager(cfg.SessionSecret, cfg.SessionIssuer, cfg.SessionTTL)
	sessions := session.NewManager(deps.Sessions, tokens, cfg.CookieSecure)
	gate := middleware.NewGate(sessions, deps.Store, m, deps.Logger)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(time.Now()).Register(mux)
	handlers.NewHomeHandler(sessions, deps.Logger).Register(mux)
	handlers.NewAuthHandler(auth.NewCredentials(deps.Store), sessions, m, deps.Logger).Register(mux, gate.RequireLogin)
	handlers.NewDashboardHandler(dashboard.NewRouter(deps.Store), sessions, deps.Logger).Register(mux, gate.RequireLogin)
	handlers.NewAppointmentsHandler(booking.NewService(deps.Store), deps.Store, sessions, m, deps.Logger).Register(mux, gate.RequireLogin)
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	var h http.Handler = mux
	h = middleware.Sessions(sessions, deps.Logger, h)
	h = middleware.CORS(cfg.CORSOrigins, h)
	h = middleware.Recovery(deps.Logger, h)
	h = middleware.Logging(deps.Logger, h)
	return h
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
