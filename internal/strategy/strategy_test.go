package strategy

import (
	"reflect"
	"testing"

	"github.com/claude/mesoplan/internal/models"
)

// TestResolveTable verifies each training age resolves to the documented values.
func TestResolveTable(t *testing.T) {
	tests := []struct {
		age        models.TrainingAge
		model      models.ProgressionModel
		volMin     int
		volMax     int
		compound   models.RepRange
		isolation  models.RepRange
		cycleWeeks int
	}{
		{models.TrainingAgeNovice, models.ModelLinear, 10, 12, models.RepRange{Min: 5, Max: 5}, models.RepRange{Min: 10, Max: 12}, 4},
		{models.TrainingAgeIntermediate, models.ModelWave, 13, 15, models.RepRange{Min: 6, Max: 8}, models.RepRange{Min: 10, Max: 15}, 4},
		{models.TrainingAgeAdvanced, models.ModelBlock, 16, 20, models.RepRange{Min: 3, Max: 6}, models.RepRange{Min: 8, Max: 12}, 6},
	}
	for _, tt := range tests {
		t.Run(string(tt.age), func(t *testing.T) {
			got := Resolve(tt.age)
			if got.Model != tt.model {
				t.Errorf("model = %q, want %q", got.Model, tt.model)
			}
			if got.VolMin != tt.volMin || got.VolMax != tt.volMax {
				t.Errorf("volume = %d-%d, want %d-%d", got.VolMin, got.VolMax, tt.volMin, tt.volMax)
			}
			if got.CompoundReps != tt.compound || got.IsolationReps != tt.isolation {
				t.Errorf("reps = %v/%v, want %v/%v", got.CompoundReps, got.IsolationReps, tt.compound, tt.isolation)
			}
			if got.CycleWeeks != tt.cycleWeeks {
				t.Errorf("cycle = %d, want %d", got.CycleWeeks, tt.cycleWeeks)
			}
		})
	}
}

// TestResolvePhaseSchedules verifies the per-week phase layout for each age.
func TestResolvePhaseSchedules(t *testing.T) {
	want := map[models.TrainingAge][]models.Phase{
		models.TrainingAgeNovice: {models.PhaseGeneral, models.PhaseGeneral, models.PhaseGeneral, models.PhaseGeneral},
		models.TrainingAgeIntermediate: {
			models.PhaseAccumulation, models.PhaseIntensification, models.PhaseRealization, models.PhaseDeload,
		},
		models.TrainingAgeAdvanced: {
			models.PhaseAccumulation, models.PhaseAccumulation,
			models.PhaseIntensification, models.PhaseIntensification,
			models.PhaseRealization, models.PhaseDeload,
		},
	}
	for age, phases := range want {
		if got := Resolve(age).PhaseSchedule; !reflect.DeepEqual(got, phases) {
			t.Errorf("%s schedule = %v, want %v", age, got, phases)
		}
	}
}

// TestResolveUnknownFallsBackToIntermediate verifies the resolver is total.
func TestResolveUnknownFallsBackToIntermediate(t *testing.T) {
	for _, age := range []models.TrainingAge{"", "Elite", "novice"} {
		got := Resolve(age)
		if !reflect.DeepEqual(got, Resolve(models.TrainingAgeIntermediate)) {
			t.Errorf("Resolve(%q) = %+v, want Intermediate config", age, got)
		}
	}
}

// TestStrategyInvariants verifies every config has a schedule entry per week
// and a non-inverted volume band.
func TestStrategyInvariants(t *testing.T) {
	ages := []models.TrainingAge{
		models.TrainingAgeNovice, models.TrainingAgeIntermediate, models.TrainingAgeAdvanced, "unknown",
	}
	for _, age := range ages {
		cfg := Resolve(age)
		if len(cfg.PhaseSchedule) != cfg.CycleWeeks {
			t.Errorf("%s: len(schedule) = %d, cycle = %d", age, len(cfg.PhaseSchedule), cfg.CycleWeeks)
		}
		if cfg.VolMin > cfg.VolMax {
			t.Errorf("%s: volMin %d > volMax %d", age, cfg.VolMin, cfg.VolMax)
		}
	}
}

// TestResolveReturnsCopy verifies callers cannot corrupt the shared table.
func TestResolveReturnsCopy(t *testing.T) {
	cfg := Resolve(models.TrainingAgeIntermediate)
	cfg.PhaseSchedule[0] = models.PhaseDeload
	if Resolve(models.TrainingAgeIntermediate).PhaseSchedule[0] != models.PhaseAccumulation {
		t.Error("mutating a resolved schedule changed the table")
	}
}

// TestTableSubstitution verifies a custom table can stand in for Default.
func TestTableSubstitution(t *testing.T) {
	fixed := models.StrategyConfig{Model: models.ModelLinear, CycleWeeks: 1, PhaseSchedule: []models.Phase{models.PhaseGeneral}}
	var r Resolver = Table{Fallback: fixed}
	if got := r.Resolve(models.TrainingAgeAdvanced); got.Model != models.ModelLinear || got.CycleWeeks != 1 {
		t.Errorf("Resolve = %+v, want fixed config", got)
	}
}
