// Package strategy maps a lifter's training age to periodization parameters.
package strategy

import "github.com/claude/mesoplan/internal/models"

// Resolver returns the StrategyConfig for a training age.
type Resolver interface {
	Resolve(age models.TrainingAge) models.StrategyConfig
}

// Table is a fixed resolver. Ages missing from Configs resolve to Fallback.
type Table struct {
	Configs  map[models.TrainingAge]models.StrategyConfig
	Fallback models.StrategyConfig
}

// Compile-time check: Table satisfies Resolver.
var _ Resolver = Table{}

// Resolve returns a copy of the configured strategy, never failing.
func (t Table) Resolve(age models.TrainingAge) models.StrategyConfig {
	cfg, ok := t.Configs[age]
	if !ok {
		cfg = t.Fallback
	}
	// Copy the schedule so callers cannot mutate the table.
	cfg.PhaseSchedule = append([]models.Phase(nil), cfg.PhaseSchedule...)
	return cfg
}

var (
	novice = models.StrategyConfig{
		Model:         models.ModelLinear,
		VolMin:        10,
		VolMax:        12,
		CompoundReps:  models.RepRange{Min: 5, Max: 5},
		IsolationReps: models.RepRange{Min: 10, Max: 12},
		CycleWeeks:    4,
		PhaseSchedule: []models.Phase{
			models.PhaseGeneral, models.PhaseGeneral, models.PhaseGeneral, models.PhaseGeneral,
		},
	}

	// 3 loading weeks + 1 deload.
	intermediate = models.StrategyConfig{
		Model:         models.ModelWave,
		VolMin:        13,
		VolMax:        15,
		CompoundReps:  models.RepRange{Min: 6, Max: 8},
		IsolationReps: models.RepRange{Min: 10, Max: 15},
		CycleWeeks:    4,
		PhaseSchedule: []models.Phase{
			models.PhaseAccumulation, models.PhaseIntensification,
			models.PhaseRealization, models.PhaseDeload,
		},
	}

	advanced = models.StrategyConfig{
		Model:         models.ModelBlock,
		VolMin:        16,
		VolMax:        20,
		CompoundReps:  models.RepRange{Min: 3, Max: 6},
		IsolationReps: models.RepRange{Min: 8, Max: 12},
		CycleWeeks:    6,
		PhaseSchedule: []models.Phase{
			models.PhaseAccumulation, models.PhaseAccumulation,
			models.PhaseIntensification, models.PhaseIntensification,
			models.PhaseRealization, models.PhaseDeload,
		},
	}
)

// Default is the built-in strategy table. Unrecognized ages get the
// Intermediate configuration.
var Default = Table{
	Configs: map[models.TrainingAge]models.StrategyConfig{
		models.TrainingAgeNovice:       novice,
		models.TrainingAgeIntermediate: intermediate,
		models.TrainingAgeAdvanced:     advanced,
	},
	Fallback: intermediate,
}

// Resolve looks up age in the Default table.
func Resolve(age models.TrainingAge) models.StrategyConfig {
	return Default.Resolve(age)
}
