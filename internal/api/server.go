package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/vendorsafe/kestrel/internal/domain"
	"github.com/vendorsafe/kestrel/internal/intel"
	"github.com/vendorsafe/kestrel/internal/renewal"
	"github.com/vendorsafe/kestrel/internal/rules"
)

// Server represents the HTTP API server.
type Server struct {
	router  *chi.Mux
	handler *Handler
	server  *http.Server
	config  domain.ServerConfig
}

// NewServer creates a new API server.
func NewServer(cfg domain.ServerConfig, repo domain.Repository, cache domain.Cache, bus domain.EventBus, engine *rules.GroupEngine, forecast *renewal.Service, intelSvc *intel.Service, version string) *Server {
	handler := NewHandler(repo, cache, bus, engine, forecast, intelSvc, version)
	router := chi.NewRouter()

	// Global middleware stack
	router.Use(CORSMiddleware)         // CORS for browser clients
	router.Use(RecoverMiddleware)      // Recover from panics
	router.Use(TracingMiddleware)      // OpenTelemetry tracing
	router.Use(LoggingMiddleware)      // Request logging
	router.Use(middleware.RealIP)      // Extract real IP
	router.Use(middleware.Compress(5)) // Gzip compression

	// Health endpoints (no org required)
	router.Get("/health", handler.Health)
	router.Get("/ready", handler.Ready)

	// API routes (org required)
	router.Route("/", func(r chi.Router) {
		r.Use(OrgMiddleware)

		// Vendor management
		r.Post("/vendors", handler.CreateVendor)
		r.Get("/vendors", handler.ListVendors)
		r.Get("/vendors/{id}", handler.GetVendor)

		// Compliance evaluation and fused intelligence
		r.Post("/vendors/{id}/compliance", handler.EvaluateCompliance)
		r.Get("/vendors/{id}/intelligence", handler.GetVendorIntelligence)

		// Per-vendor records
		r.Post("/vendors/{id}/policies", handler.CreatePolicy)
		r.Get("/vendors/{id}/policies", handler.ListVendorPolicies)
		r.Get("/vendors/{id}/alerts", handler.ListVendorAlerts)
		r.Post("/vendors/{id}/documents", handler.CreateDocument)
		r.Post("/vendors/{id}/schedules", handler.CreateSchedule)
		r.Post("/vendors/{id}/outreach", handler.CreateOutreach)

		// Renewal forecast
		r.Get("/forecast", handler.GetRenewalForecast)

		// Alert resolution
		r.Post("/alerts/{id}/resolve", handler.ResolveAlert)

		// Rule group management
		r.Get("/rule-groups", handler.ListRuleGroups)
		r.Get("/rule-groups/{id}", handler.GetRuleGroup)
		r.Post("/rule-groups", handler.CreateRuleGroup)
		r.Put("/rule-groups/{id}", handler.UpdateRuleGroup)
		r.Delete("/rule-groups/{id}", handler.DeleteRuleGroup)
		r.Post("/rule-groups/reload", handler.ReloadRuleGroups)
	})

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
