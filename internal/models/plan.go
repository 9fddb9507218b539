package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned by plan stores when a plan or session does not exist.
var ErrNotFound = errors.New("not found")

// Plan is a generated mesocycle. It owns its sessions; deleting a plan
// deletes its sessions and their prescriptions but never library exercises.
type Plan struct {
	ID        uuid.UUID         `json:"id"`
	Name      string            `json:"name"`
	StartDate time.Time         `json:"start_date"`
	Sessions  []*WorkoutSession `json:"sessions"`
}

// WorkoutSession is one training day in one week.
type WorkoutSession struct {
	ID        uuid.UUID         `json:"id"`
	Week      int               `json:"week"`
	Day       int               `json:"day"`
	Name      string            `json:"name"`
	Phase     Phase             `json:"phase,omitempty"`
	Completed bool              `json:"completed"`
	Exercises []WorkoutExercise `json:"exercises"`
}

// WorkoutExercise is a prescription for one filled slot. Exercise is a shared
// reference into the library and may be nil when only ExerciseID was loaded.
type WorkoutExercise struct {
	Position   int       `json:"position"`
	Sets       int       `json:"sets"`
	Reps       string    `json:"reps"`
	Load       string    `json:"load"`
	ExerciseID string    `json:"exercise_id"`
	Exercise   *Exercise `json:"exercise,omitempty"`
}

// SessionsByWeek groups sessions by week index, preserving plan order.
func (p *Plan) SessionsByWeek() map[int][]*WorkoutSession {
	byWeek := make(map[int][]*WorkoutSession)
	if p == nil {
		return byWeek
	}
	for _, s := range p.Sessions {
		byWeek[s.Week] = append(byWeek[s.Week], s)
	}
	return byWeek
}

// Session returns the session with the given ID, or nil.
func (p *Plan) Session(id uuid.UUID) *WorkoutSession {
	for _, s := range p.Sessions {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// PlanSummary is a plan row without its sessions, used for listings.
type PlanSummary struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	StartDate    time.Time `json:"start_date"`
	SessionCount int       `json:"session_count"`
	Completed    int       `json:"completed_sessions"`
}

// ValidationReport is the outcome of checking a plan against its blueprint.
// Valid mirrors HardConstraintsMet; SoftScore is informational.
type ValidationReport struct {
	Valid              bool   `json:"is_valid"`
	HardConstraintsMet bool   `json:"hard_constraints_met"`
	SoftScore          int    `json:"soft_constraints_score"`
	Log                string `json:"log"`
}
