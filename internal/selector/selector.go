// Package selector picks the best library exercise for a template slot.
package selector

import (
	"context"
	"fmt"
	"slices"

	"github.com/claude/mesoplan/internal/models"
)

// Library is the read-only exercise store the selector queries. Results must
// be ordered by exercise ID and must not include any ID in exclude. A limit
// of zero means no limit.
type Library interface {
	FindExercises(ctx context.Context, filter models.ExerciseFilter, exclude []string, limit int) ([]models.Exercise, error)
}

// Selector fills slots from a Library using a fixed relaxation ladder.
type Selector struct {
	lib Library
}

// New creates a Selector backed by lib.
func New(lib Library) *Selector {
	return &Selector{lib: lib}
}

// Ladder returns the filters tried for a slot, strictest first:
// category+pattern+muscle, category+pattern, category+muscle, category.
// Steps identical to an earlier step are dropped.
func Ladder(slot models.DailySlot) []models.ExerciseFilter {
	steps := []models.ExerciseFilter{
		{Category: slot.Category, Pattern: slot.Pattern, PrimaryMuscle: slot.TargetMuscle},
		{Category: slot.Category, Pattern: slot.Pattern},
		{Category: slot.Category, PrimaryMuscle: slot.TargetMuscle},
		{Category: slot.Category},
	}
	out := steps[:0:0]
	for _, s := range steps {
		if !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}

// Select returns the best exercise for slot that is not in exclude, or nil
// when every ladder step comes back empty. A nil result is not an error.
func (s *Selector) Select(ctx context.Context, slot models.DailySlot, exclude []string) (*models.Exercise, error) {
	for _, filter := range Ladder(slot) {
		candidates, err := s.lib.FindExercises(ctx, filter, exclude, 0)
		if err != nil {
			return nil, fmt.Errorf("finding exercises for %s/%q/%q: %w",
				filter.Category, filter.Pattern, filter.PrimaryMuscle, err)
		}
		if len(candidates) == 0 {
			continue
		}
		best := pick(candidates)
		return &best, nil
	}
	return nil, nil
}

// Score ranks an exercise by tier: 3 for tier 1, 2 for tier 2, 1 for tier 3,
// and 0 when unranked.
func Score(ex models.Exercise) int {
	switch ex.Tier {
	case models.Tier1:
		return 3
	case models.Tier2:
		return 2
	case models.Tier3:
		return 1
	default:
		return 0
	}
}

// pick returns the highest scoring candidate. Ties keep the earliest
// candidate, which is the lowest ID given the Library ordering contract.
func pick(candidates []models.Exercise) models.Exercise {
	best := candidates[0]
	bestScore := Score(best)
	for _, c := range candidates[1:] {
		if sc := Score(c); sc > bestScore {
			best, bestScore = c, sc
		}
	}
	return best
}
