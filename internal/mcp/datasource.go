package mcp

import (
	"context"

	"github.com/claude/mesoplan/internal/localstore"
	"github.com/claude/mesoplan/internal/models"
	"github.com/claude/mesoplan/internal/selector"
	"github.com/claude/mesoplan/internal/storage"
	"github.com/google/uuid"
)

// DataSource abstracts the exercise library and plan store for MCP tools.
// *storage.DB, *localstore.Store (local) and HTTPClient (remote via REST
// API) satisfy this interface.
type DataSource interface {
	selector.Library
	SavePlan(ctx context.Context, plan *models.Plan) error
	GetPlan(ctx context.Context, id uuid.UUID) (*models.Plan, error)
	ListPlans(ctx context.Context) ([]models.PlanSummary, error)
}

// Compile-time checks.
var (
	_ DataSource = (*storage.DB)(nil)
	_ DataSource = (*localstore.Store)(nil)
	_ DataSource = (*HTTPClient)(nil)
)
