// Package mcp exposes plan generation as Model Context Protocol tools.
package mcp

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/claude/mesoplan/internal/models"
	"github.com/claude/mesoplan/internal/planner"
	"github.com/claude/mesoplan/internal/template"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, svc *planner.Service, templates *template.Catalog, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("MesoPlan", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("MesoPlan builds resistance-training mesocycles. Generate a plan from a training age, goal and weekly day count, inspect the strategy and split templates it draws on, and browse the exercise library."),
	)

	h := &handlers{ds: ds, planner: svc, templates: templates, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolGeneratePlan, Handler: h.generatePlan},
		server.ServerTool{Tool: toolResolveStrategy, Handler: h.resolveStrategy},
		server.ServerTool{Tool: toolListTemplates, Handler: h.listTemplates},
		server.ServerTool{Tool: toolGetPlan, Handler: h.getPlan},
		server.ServerTool{Tool: toolListPlans, Handler: h.listPlans},
		server.ServerTool{Tool: toolListExercises, Handler: h.listExercises},
	)

	s.AddResources(
		server.ServerResource{Resource: resStrategies, Handler: h.strategies},
		server.ServerResource{Resource: resTemplates, Handler: h.templateCatalog},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds        DataSource
	planner   *planner.Service
	templates *template.Catalog
	log       *slog.Logger
}

// --- Resource definitions ---

var resStrategies = mcp.NewResource(
	"mesoplan://strategies",
	"Strategies",
	mcp.WithResourceDescription("Progression strategy for each training age: model, weekly volume band, rep ranges, cycle length and phase schedule"),
	mcp.WithMIMEType("application/json"),
)

var resTemplates = mcp.NewResource(
	"mesoplan://templates",
	"Split Templates",
	mcp.WithResourceDescription("Weekly split templates keyed by day count and goal"),
	mcp.WithMIMEType("application/json"),
)

func (h *handlers) strategies(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	ages := []models.TrainingAge{models.TrainingAgeNovice, models.TrainingAgeIntermediate, models.TrainingAgeAdvanced}
	out := make(map[models.TrainingAge]models.StrategyConfig, len(ages))
	for _, age := range ages {
		out[age] = h.planner.Strategy(age)
	}
	return jsonResource(req.Params.URI, out)
}

func (h *handlers) templateCatalog(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonResource(req.Params.URI, h.templates.Entries())
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
