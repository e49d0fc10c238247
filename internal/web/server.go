// Package web serves the dashboard page and its JSON API.
package web

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	corslib "github.com/rs/cors"

	"github.com/omarshaarawi/ffdash/internal/config"
	"github.com/omarshaarawi/ffdash/internal/service"
)

type Server struct {
	server *http.Server
}

func NewServer(cfg config.HTTP, svc *service.DashboardService) *Server {
	return &Server{
		server: &http.Server{
			Addr:              cfg.Addr,
			Handler:           NewRouter(cfg, svc),
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
	}
}

// NewRouter wires the page, refresh and API routes.
func NewRouter(cfg config.HTTP, svc *service.DashboardService) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	h := NewHandler(svc)

	r.Get("/", h.Dashboard)
	r.Post("/refresh", h.Refresh)
	r.Get("/health", h.Health)

	c := corslib.New(corslib.Options{
		AllowedOrigins: cfg.CORSAllowOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"X-Request-Id"},
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(c.Handler)
		r.Get("/teams", h.GetTeams)
		r.Get("/players", h.GetPlayers)
		r.Get("/dashboard", h.GetDashboard)
		r.Post("/refresh", h.PostRefresh)
	})

	return r
}

func (s *Server) Start() error {
	slog.Info("Starting HTTP server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		slog.Info("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
