// Package planner turns a mesocycle blueprint into a concrete training plan.
package planner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/claude/mesoplan/internal/models"
	"github.com/claude/mesoplan/internal/progression"
	"github.com/claude/mesoplan/internal/selector"
	"github.com/google/uuid"
)

// Generator builds plans from blueprints.
type Generator struct {
	selector *selector.Selector
	log      *slog.Logger
	now      func() time.Time
}

// New creates a Generator that fills slots from lib.
func New(lib selector.Library, log *slog.Logger) *Generator {
	return &Generator{
		selector: selector.New(lib),
		log:      log,
		now:      time.Now,
	}
}

// WithClock overrides the plan start-date source.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate builds a plan: one skeleton for the whole mesocycle, then one
// session per (week, day) with week-specific prescriptions. Unfilled slots
// leave gaps rather than failing. It returns ErrNoTemplate if the blueprint
// has no template and never returns a partially built plan.
func (g *Generator) Generate(ctx context.Context, bp models.MesocycleBlueprint) (*models.Plan, error) {
	if bp.Template == nil {
		return nil, ErrNoTemplate
	}
	tpl := *bp.Template

	skel, err := g.BuildSkeleton(ctx, tpl)
	if err != nil {
		return nil, fmt.Errorf("building skeleton: %w", err)
	}

	plan := &models.Plan{
		ID:        uuid.New(),
		Name:      PlanName(tpl, bp.Strategy),
		StartDate: g.now(),
		Sessions:  make([]*models.WorkoutSession, 0, bp.Strategy.CycleWeeks*len(tpl.Days)),
	}

	for week := 1; week <= bp.Strategy.CycleWeeks; week++ {
		for di, day := range tpl.Days {
			plan.Sessions = append(plan.Sessions, instantiate(week, di, day, skel, bp.Strategy))
		}
	}

	g.log.Info("plan generated",
		"plan", plan.Name,
		"weeks", bp.Strategy.CycleWeeks,
		"days", len(tpl.Days),
		"sessions", len(plan.Sessions),
		"unfilled_slots", skel.Unfilled(),
	)
	return plan, nil
}

func instantiate(week, dayIndex int, day models.SplitDay, skel Skeleton, strat models.StrategyConfig) *models.WorkoutSession {
	session := &models.WorkoutSession{
		ID:        uuid.New(),
		Week:      week,
		Day:       dayIndex,
		Name:      day.Name,
		Phase:     strat.PhaseForWeek(week),
		Exercises: []models.WorkoutExercise{},
	}
	for si, slot := range day.Slots {
		entry := skel.Get(dayIndex, si)
		if !entry.Filled {
			continue
		}
		rx := progression.For(week, strat, slot.Category)
		session.Exercises = append(session.Exercises, models.WorkoutExercise{
			Position:   si,
			Sets:       rx.Sets,
			Reps:       rx.Reps,
			Load:       rx.Load,
			ExerciseID: entry.Exercise.ID,
			Exercise:   entry.Exercise,
		})
	}
	return session
}

// PlanName derives a display name from the template and strategy.
func PlanName(tpl models.SplitTemplate, strat models.StrategyConfig) string {
	return fmt.Sprintf("%s (%s, %d weeks)", tpl.Name, strat.Model, strat.CycleWeeks)
}
