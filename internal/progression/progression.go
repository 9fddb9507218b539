// Package progression computes per-week prescriptions. Every function is
// pure and total: unknown models and out-of-range weeks get a default.
package progression

import (
	"fmt"

	"github.com/claude/mesoplan/internal/models"
)

const (
	defaultSets = 3
	deloadSets  = 2
	defaultLoad = "RPE 7"
	deloadReps  = "5-8"
)

// linearRPE repeats every four weeks.
var linearRPE = [4]string{"RPE 7", "RPE 8", "RPE 9", "RPE 7"}

var waveLoad = map[int]string{
	1: "RPE 6-7",
	2: "RPE 7-8",
	3: "RPE 8-9",
	4: "RPE 5-6 (Deload)",
}

// Sets returns the working set count for a slot in the given week.
func Sets(week int, strategy models.StrategyConfig, category models.Category) int {
	switch strategy.Model {
	case models.ModelWave:
		if week == 4 {
			return deloadSets
		}
		return defaultSets
	default:
		// Linear and Block hold volume constant.
		return defaultSets
	}
}

// BaseRange returns the strategy's rep range for a slot category. Machine
// slots use the isolation range.
func BaseRange(strategy models.StrategyConfig, category models.Category) models.RepRange {
	if category == models.CategoryCompound {
		return strategy.CompoundReps
	}
	return strategy.IsolationReps
}

// Reps returns the rep range string for a slot in the given week.
func Reps(week int, strategy models.StrategyConfig, category models.Category) string {
	base := BaseRange(strategy, category)

	switch strategy.Model {
	case models.ModelWave:
		switch week {
		case 1:
			return models.RepRange{Min: base.Min + 2, Max: base.Max + 2}.String()
		case 3:
			return models.RepRange{Min: max(base.Min-2, 1), Max: max(base.Max-2, 1)}.String()
		case 4:
			return deloadReps
		default:
			return base.String()
		}
	default:
		return base.String()
	}
}

// LoadInstruction returns the intensity cue for the given week.
func LoadInstruction(week int, strategy models.StrategyConfig) string {
	switch strategy.Model {
	case models.ModelLinear:
		if week < 1 {
			return defaultLoad
		}
		return linearRPE[(week-1)%len(linearRPE)]
	case models.ModelWave:
		if load, ok := waveLoad[week]; ok {
			return load
		}
		return defaultLoad
	default:
		return defaultLoad
	}
}

// Prescription bundles the three outputs for one slot-week.
type Prescription struct {
	Sets int
	Reps string
	Load string
}

// For computes the full prescription for a slot in the given week.
func For(week int, strategy models.StrategyConfig, category models.Category) Prescription {
	return Prescription{
		Sets: Sets(week, strategy, category),
		Reps: Reps(week, strategy, category),
		Load: LoadInstruction(week, strategy),
	}
}

// String formats the prescription as "3 x 6-8 @ RPE 7".
func (p Prescription) String() string {
	return fmt.Sprintf("%d x %s @ %s", p.Sets, p.Reps, p.Load)
}
