package models

import "fmt"

// ProgressionModel selects the week-to-week progression formulas.
type ProgressionModel string

const (
	ModelLinear  ProgressionModel = "Linear"
	ModelWave    ProgressionModel = "Wave"
	ModelBlock   ProgressionModel = "Block"
	ModelUnknown ProgressionModel = "Unknown"
)

// Phase is the periodization phase assigned to one week of a mesocycle.
type Phase string

const (
	PhaseAccumulation    Phase = "Accumulation"
	PhaseIntensification Phase = "Intensification"
	PhaseRealization     Phase = "Realization"
	PhaseDeload          Phase = "Deload"
	PhaseGeneral         Phase = "General"
)

// RepRange is an inclusive repetition target.
type RepRange struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// String formats the range as "min-max".
func (r RepRange) String() string {
	return fmt.Sprintf("%d-%d", r.Min, r.Max)
}

// StrategyConfig holds the periodization parameters for one training age.
// Invariants: VolMin <= VolMax and len(PhaseSchedule) == CycleWeeks.
type StrategyConfig struct {
	Model         ProgressionModel `json:"model"`
	VolMin        int              `json:"vol_min"`
	VolMax        int              `json:"vol_max"`
	CompoundReps  RepRange         `json:"compound_reps"`
	IsolationReps RepRange         `json:"isolation_reps"`
	CycleWeeks    int              `json:"cycle_weeks"`
	PhaseSchedule []Phase          `json:"phase_schedule"`
}

// PhaseForWeek returns the phase of a 1-based week, or PhaseGeneral when the
// week falls outside the schedule.
func (s StrategyConfig) PhaseForWeek(week int) Phase {
	if week < 1 || week > len(s.PhaseSchedule) {
		return PhaseGeneral
	}
	return s.PhaseSchedule[week-1]
}
