package models

import "strings"

// TrainingAge is the lifter's experience category. Values outside the
// canonical set are allowed; the strategy resolver treats them as Intermediate.
type TrainingAge string

const (
	TrainingAgeNovice       TrainingAge = "Novice"
	TrainingAgeIntermediate TrainingAge = "Intermediate"
	TrainingAgeAdvanced     TrainingAge = "Advanced"
)

// Goal is the primary adaptation a plan is built for.
type Goal string

const (
	GoalStrength    Goal = "Strength"
	GoalHypertrophy Goal = "Hypertrophy"
)

// UserProfile is the immutable input to one generation run.
type UserProfile struct {
	TrainingAge   TrainingAge `json:"training_age" yaml:"training_age"`
	Goal          Goal        `json:"goal" yaml:"goal"`
	DaysAvailable int         `json:"days_available" yaml:"days_available"`
}

// trainingAgeMap maps lowercased aliases to canonical training ages.
var trainingAgeMap = map[string]TrainingAge{
	"novice":       TrainingAgeNovice,
	"beginner":     TrainingAgeNovice,
	"intermediate": TrainingAgeIntermediate,
	"advanced":     TrainingAgeAdvanced,
	"expert":       TrainingAgeAdvanced,
}

var goalMap = map[string]Goal{
	"strength":      GoalStrength,
	"powerlifting":  GoalStrength,
	"hypertrophy":   GoalHypertrophy,
	"bodybuilding":  GoalHypertrophy,
	"muscle":        GoalHypertrophy,
	"muscle growth": GoalHypertrophy,
}

// NormalizeTrainingAge maps a free-form training age to its canonical value.
// Returns the canonical value and true if recognized, or the trimmed input
// and false if unknown.
func NormalizeTrainingAge(raw string) (TrainingAge, bool) {
	trimmed := strings.TrimSpace(raw)
	if canonical, ok := trainingAgeMap[strings.ToLower(trimmed)]; ok {
		return canonical, true
	}
	return TrainingAge(trimmed), false
}

// NormalizeGoal maps a free-form goal to its canonical value.
func NormalizeGoal(raw string) (Goal, bool) {
	trimmed := strings.TrimSpace(raw)
	if canonical, ok := goalMap[strings.ToLower(trimmed)]; ok {
		return canonical, true
	}
	return Goal(trimmed), false
}

// Normalized returns a copy of the profile with canonical age and goal values
// where they are recognized. Unknown values pass through unchanged.
func (p UserProfile) Normalized() UserProfile {
	p.TrainingAge, _ = NormalizeTrainingAge(string(p.TrainingAge))
	p.Goal, _ = NormalizeGoal(string(p.Goal))
	return p
}
