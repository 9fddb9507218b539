// Package server exposes plan generation and plan storage over HTTP.
package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/claude/mesoplan/internal/ingest"
	"github.com/claude/mesoplan/internal/models"
	"github.com/claude/mesoplan/internal/planner"
	"github.com/claude/mesoplan/internal/selector"
	"github.com/claude/mesoplan/internal/template"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Store is the exercise library plus plan persistence the handlers need.
// *storage.DB and *localstore.Store both satisfy it.
type Store interface {
	selector.Library
	ingest.Store
	SavePlan(ctx context.Context, plan *models.Plan) error
	GetPlan(ctx context.Context, id uuid.UUID) (*models.Plan, error)
	ListPlans(ctx context.Context) ([]models.PlanSummary, error)
	DeletePlan(ctx context.Context, id uuid.UUID) error
	SetSessionCompleted(ctx context.Context, planID, sessionID uuid.UUID, completed bool) error
	Ping(ctx context.Context) error
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store     Store
	planner   *planner.Service
	templates *template.Catalog
	log       *slog.Logger
	apiKey    string
	identity  func(http.Handler) http.Handler
	router    chi.Router
}

// New creates a Server. Routes are built on first use so that SetMCP and
// SetTailscale can run after construction.
func New(store Store, svc *planner.Service, templates *template.Catalog, apiKey string, log *slog.Logger) *Server {
	return &Server{
		store:     store,
		planner:   svc,
		templates: templates,
		log:       log,
		apiKey:    apiKey,
		identity:  DevIdentity,
		router:    chi.NewRouter(),
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Routes registers all routes. Call once after optional setters.
func (s *Server) Routes() *Server {
	s.router.Use(s.identity)
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/me", s.handleMe)
		r.Get("/strategies/{age}", s.handleStrategy)
		r.Get("/templates", s.handleTemplates)
		r.Get("/exercises", s.handleExercises)

		r.Get("/plans", s.handleListPlans)
		r.Get("/plans/{id}", s.handleGetPlan)

		// Mutating endpoints (API key required)
		r.Group(func(r chi.Router) {
			r.Use(APIKeyAuth(s.apiKey))
			r.Post("/exercises", s.handleImportExercises)
			r.Post("/plans", s.handleGeneratePlan)
			r.Put("/plans/{id}", s.handlePutPlan)
			r.Delete("/plans/{id}", s.handleDeletePlan)
			r.Post("/plans/{id}/sessions/{sessionID}/complete", s.handleCompleteSession(true))
			r.Delete("/plans/{id}/sessions/{sessionID}/complete", s.handleCompleteSession(false))
		})
	})
	return s
}

// SetMCP mounts an MCP transport handler at /mcp behind API key auth.
func (s *Server) SetMCP(h http.Handler) {
	s.router.With(APIKeyAuth(s.apiKey)).Handle("/mcp", h)
}

// SetTailscale replaces the dev identity with tailnet identity lookups.
func (s *Server) SetTailscale(w WhoIser) {
	s.identity = TailscaleIdentity(w, s.log)
}
