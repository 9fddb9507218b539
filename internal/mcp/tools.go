package mcp

import (
	"context"
	"errors"
	"strings"

	"github.com/claude/mesoplan/internal/models"
	"github.com/claude/mesoplan/internal/planner"
	"github.com/claude/mesoplan/internal/render"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
)

// --- Tool definitions ---

var toolGeneratePlan = mcp.NewTool("generate_plan",
	mcp.WithDescription("Generate a mesocycle for a lifter profile. Returns the week-by-week plan and a validation report (structural checks plus week-1 volume per muscle)."),
	mcp.WithString("training_age", mcp.Required(), mcp.Description("Novice, Intermediate or Advanced. Unknown values are treated as Intermediate.")),
	mcp.WithString("goal", mcp.Required(), mcp.Description("Strength or Hypertrophy")),
	mcp.WithNumber("days_available", mcp.Required(), mcp.Description("Training days per week (3 or 4 have templates)")),
	mcp.WithBoolean("save", mcp.Description("Persist the plan so it can be fetched later with get_plan. Defaults to false.")),
	mcp.WithString("format", mcp.Description("Output format. Defaults to 'text'."), mcp.Enum("text", "json")),
)

var toolResolveStrategy = mcp.NewTool("resolve_strategy",
	mcp.WithDescription("Show the progression strategy used for a training age: model, weekly set band per muscle, rep ranges, cycle length and phases."),
	mcp.WithString("training_age", mcp.Required(), mcp.Description("Novice, Intermediate or Advanced")),
)

var toolListTemplates = mcp.NewTool("list_templates",
	mcp.WithDescription("List the weekly split templates with their days and slots."),
)

var toolGetPlan = mcp.NewTool("get_plan",
	mcp.WithDescription("Fetch a saved plan by id."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Plan UUID")),
	mcp.WithString("format", mcp.Description("Output format. Defaults to 'text'."), mcp.Enum("text", "json")),
)

var toolListPlans = mcp.NewTool("list_plans",
	mcp.WithDescription("List saved plans with session and completion counts."),
)

var toolListExercises = mcp.NewTool("list_exercises",
	mcp.WithDescription("Browse the exercise library, optionally filtered. Results are ordered by id."),
	mcp.WithString("category", mcp.Description("Compound, Isolation or Machine"), mcp.Enum("Compound", "Isolation", "Machine")),
	mcp.WithString("pattern", mcp.Description("Movement pattern (e.g. Squat, Hinge, Push_Horizontal)")),
	mcp.WithString("muscle", mcp.Description("Primary muscle (e.g. Quads, Triceps)")),
	mcp.WithNumber("limit", mcp.Description("Maximum results. Defaults to 50.")),
)

// --- Tool handlers ---

func (h *handlers) generatePlan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	age, err := req.RequireString("training_age")
	if err != nil {
		return mcp.NewToolResultError("training_age parameter is required"), nil
	}
	goal, err := req.RequireString("goal")
	if err != nil {
		return mcp.NewToolResultError("goal parameter is required"), nil
	}
	days, err := req.RequireInt("days_available")
	if err != nil || days <= 0 {
		return mcp.NewToolResultError("days_available must be a positive number"), nil
	}

	result, err := h.planner.PlanFor(ctx, models.UserProfile{
		TrainingAge:   models.TrainingAge(age),
		Goal:          models.Goal(goal),
		DaysAvailable: days,
	})
	if errors.Is(err, planner.ErrNoTemplate) {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err != nil {
		h.log.Error("mcp generate_plan", "error", err)
		return mcp.NewToolResultError("generation failed: " + err.Error()), nil
	}

	if req.GetBool("save", false) {
		if err := h.ds.SavePlan(ctx, result.Plan); err != nil {
			h.log.Error("mcp generate_plan save", "error", err)
			return mcp.NewToolResultError("saving plan failed: " + err.Error()), nil
		}
	}

	if req.GetString("format", "text") == "json" {
		return jsonResult(result)
	}

	var b strings.Builder
	if result.FallbackTemplate {
		b.WriteString("Note: no template matches this goal; using the default split for this day count.\n\n")
	}
	render.Plan(&b, result.Plan)
	b.WriteString("\n")
	render.Report(&b, result.Report)
	return mcp.NewToolResultText(b.String()), nil
}

func (h *handlers) resolveStrategy(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("training_age")
	if err != nil {
		return mcp.NewToolResultError("training_age parameter is required"), nil
	}
	age, _ := models.NormalizeTrainingAge(raw)
	return jsonResult(map[string]any{
		"training_age": age,
		"strategy":     h.planner.Strategy(age),
	})
}

func (h *handlers) listTemplates(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(h.templates.Entries())
}

func (h *handlers) getPlan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return mcp.NewToolResultError("invalid plan id: " + err.Error()), nil
	}

	plan, err := h.ds.GetPlan(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return mcp.NewToolResultError("plan not found"), nil
	}
	if err != nil {
		h.log.Error("mcp get_plan", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	if req.GetString("format", "text") == "json" {
		return jsonResult(plan)
	}
	return mcp.NewToolResultText(render.String(plan)), nil
}

func (h *handlers) listPlans(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	plans, err := h.ds.ListPlans(ctx)
	if err != nil {
		h.log.Error("mcp list_plans", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if plans == nil {
		plans = []models.PlanSummary{}
	}
	return jsonResult(plans)
}

func (h *handlers) listExercises(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter := models.ExerciseFilter{
		Pattern:       req.GetString("pattern", ""),
		PrimaryMuscle: req.GetString("muscle", ""),
	}
	if v := req.GetString("category", ""); v != "" {
		c, ok := models.ParseCategory(v)
		if !ok {
			return mcp.NewToolResultError("unknown category: " + v), nil
		}
		filter.Category = c
	}
	limit := req.GetInt("limit", 50)
	if limit < 0 {
		return mcp.NewToolResultError("limit must not be negative"), nil
	}

	exercises, err := h.ds.FindExercises(ctx, filter, nil, limit)
	if err != nil {
		h.log.Error("mcp list_exercises", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if exercises == nil {
		exercises = []models.Exercise{}
	}
	return jsonResult(exercises)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
