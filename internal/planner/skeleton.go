package planner

import (
	"context"
	"fmt"

	"github.com/claude/mesoplan/internal/models"
)

// Slot is one skeleton entry. Filled is false when no exercise satisfied the
// slot; Exercise is nil in that case.
type Slot struct {
	Exercise *models.Exercise
	Filled   bool
}

// Skeleton maps [day][slot] to the exercise chosen for it. It is built once
// per run and shared by every week.
type Skeleton [][]Slot

// Get returns the entry at (day, slot), or an unfilled Slot when out of range.
func (s Skeleton) Get(day, slot int) Slot {
	if day < 0 || day >= len(s) || slot < 0 || slot >= len(s[day]) {
		return Slot{}
	}
	return s[day][slot]
}

// Unfilled counts slots with no exercise.
func (s Skeleton) Unfilled() int {
	n := 0
	for _, day := range s {
		for _, slot := range day {
			if !slot.Filled {
				n++
			}
		}
	}
	return n
}

// BuildSkeleton selects one exercise per slot, day by day in template order.
// Within a day, exercises chosen for earlier slots are excluded from later
// ones; the same exercise may appear on different days.
func (g *Generator) BuildSkeleton(ctx context.Context, tpl models.SplitTemplate) (Skeleton, error) {
	skel := make(Skeleton, len(tpl.Days))
	for di, day := range tpl.Days {
		skel[di] = make([]Slot, len(day.Slots))
		var used []string
		for si, slot := range day.Slots {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			ex, err := g.selector.Select(ctx, slot, used)
			if err != nil {
				return nil, fmt.Errorf("day %d (%s) slot %d: %w", di, day.Name, si, err)
			}
			if ex == nil {
				g.log.Warn("slot unfilled", "day", day.Name, "slot", si,
					"category", slot.Category, "pattern", slot.Pattern, "muscle", slot.TargetMuscle)
				continue
			}
			skel[di][si] = Slot{Exercise: ex, Filled: true}
			used = append(used, ex.ID)
		}
	}
	return skel, nil
}
