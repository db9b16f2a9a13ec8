package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/foodwaste/portal/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server represents the HTTP API server.
type Server struct {
	router  *chi.Mux
	handler *Handler
	server  *http.Server
	config  domain.ServerConfig
}

// NewServer creates a new API server. bus may be nil, in which case writes
// publish no change events.
func NewServer(cfg domain.ServerConfig, repo domain.Repository, bus domain.EventBus, version string) *Server {
	handler := NewHandler(repo, bus, version)
	router := chi.NewRouter()

	// Global middleware stack
	router.Use(CORSMiddleware)         // CORS for browser clients
	router.Use(RecoverMiddleware)      // Recover from panics
	router.Use(TracingMiddleware)      // OpenTelemetry tracing
	router.Use(LoggingMiddleware)      // Request logging
	router.Use(middleware.RealIP)      // Extract real IP
	router.Use(middleware.Compress(5)) // Gzip compression

	router.Get("/health", handler.Health)
	router.Get("/ready", handler.Ready)

	router.Get("/dashboard", handler.Dashboard)

	// Analytics catalogue
	router.Route("/reports", func(r chi.Router) {
		r.Get("/", handler.ListReports)
		r.Get("/all", handler.RunAllReports)
		r.Get("/{name}", handler.RunReport)
	})

	// Food search and contact directories
	router.Get("/food", handler.SearchFood)
	router.Get("/contacts/{kind}", handler.Contacts)

	// Record management
	router.Route("/providers", func(r chi.Router) {
		r.Get("/", handler.ListProviders)
		r.Post("/", handler.AddProvider)
		r.Put("/{id}", handler.UpdateProvider)
		r.Delete("/{id}", handler.DeleteProvider)
	})
	router.Route("/receivers", func(r chi.Router) {
		r.Get("/", handler.ListReceivers)
		r.Post("/", handler.AddReceiver)
		r.Put("/{id}", handler.UpdateReceiver)
		r.Delete("/{id}", handler.DeleteReceiver)
	})

	// Table views
	router.Get("/food-listings", handler.ListFoodListings)
	router.Get("/claims", handler.ListClaims)

	return &Server{
		router:  router,
		handler: handler,
		config:  cfg,
	}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  time.Duration(s.config.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.config.WriteTimeout) * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the Chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Handler returns the handler for testing.
func (s *Server) Handler() *Handler {
	return s.handler
}
