package planner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/claude/mesoplan/internal/models"
	"github.com/claude/mesoplan/internal/selector"
	"github.com/claude/mesoplan/internal/strategy"
	"github.com/claude/mesoplan/internal/template"
	"github.com/claude/mesoplan/internal/validation"
)

// exactSource is implemented by template sources that can tell an exact match
// from a per-day fallback.
type exactSource interface {
	Exact(days int, goal models.Goal) bool
}

// Result is the outcome of one end-to-end generation.
type Result struct {
	Blueprint        models.MesocycleBlueprint `json:"-"`
	Plan             *models.Plan              `json:"plan"`
	Report           models.ValidationReport   `json:"report"`
	FallbackTemplate bool                      `json:"fallback_template"`
}

// Service resolves profiles into blueprints, generates plans and validates
// them. It holds no per-run state and is safe for concurrent use when its
// library is.
type Service struct {
	strategies strategy.Resolver
	templates  template.Source
	gen        *Generator
	log        *slog.Logger
}

// NewService wires a Service.
func NewService(strategies strategy.Resolver, templates template.Source, lib selector.Library, log *slog.Logger) *Service {
	return &Service{
		strategies: strategies,
		templates:  templates,
		gen:        New(lib, log),
		log:        log,
	}
}

// Generator exposes the underlying generator, mainly so tests can pin the clock.
func (s *Service) Generator() *Generator {
	return s.gen
}

// Strategy returns the configuration the service would use for age.
func (s *Service) Strategy(age models.TrainingAge) models.StrategyConfig {
	return s.strategies.Resolve(age)
}

// PlanFor normalizes profile, builds its blueprint, generates a plan and
// validates it. ErrNoTemplate is returned (wrapped) when no template applies.
func (s *Service) PlanFor(ctx context.Context, profile models.UserProfile) (*Result, error) {
	profile = profile.Normalized()

	bp, err := NewBlueprint(profile, s.strategies, s.templates)
	if err != nil {
		return nil, err
	}

	fallback := false
	if ex, ok := s.templates.(exactSource); ok && !ex.Exact(profile.DaysAvailable, profile.Goal) {
		fallback = true
		s.log.Warn("no template for goal, using day-count default",
			"days", profile.DaysAvailable, "goal", profile.Goal, "template", bp.Template.Name)
	}

	plan, err := s.gen.Generate(ctx, bp)
	if err != nil {
		return nil, fmt.Errorf("generating plan: %w", err)
	}

	report := validation.Validate(plan, bp)
	if !report.Valid {
		s.log.Warn("plan failed hard constraints", "plan", plan.ID, "soft_score", report.SoftScore)
	}

	return &Result{
		Blueprint:        bp,
		Plan:             plan,
		Report:           report,
		FallbackTemplate: fallback,
	}, nil
}
