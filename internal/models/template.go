package models

import "strings"

// Category is the exercise classification a slot requires.
type Category string

const (
	CategoryCompound  Category = "Compound"
	CategoryIsolation Category = "Isolation"
	CategoryMachine   Category = "Machine"
)

// ParseCategory maps a case-insensitive name to a Category.
func ParseCategory(raw string) (Category, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "compound":
		return CategoryCompound, true
	case "isolation":
		return CategoryIsolation, true
	case "machine":
		return CategoryMachine, true
	}
	return Category(raw), false
}

// DailySlot is one exercise-shaped requirement within a training day.
// Empty Pattern or TargetMuscle leaves that dimension unconstrained.
type DailySlot struct {
	Category     Category `json:"category" yaml:"category"`
	Pattern      string   `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	TargetMuscle string   `json:"target_muscle,omitempty" yaml:"target_muscle,omitempty"`
	DefaultSets  int      `json:"default_sets" yaml:"default_sets"`
}

// SplitDay is one training day of a template.
type SplitDay struct {
	Name  string      `json:"name" yaml:"name"`
	Slots []DailySlot `json:"slots" yaml:"slots"`
}

// SplitTemplate is an ordered weekly layout of training days.
type SplitTemplate struct {
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description" yaml:"description"`
	Days        []SplitDay `json:"days" yaml:"days"`
}

// MesocycleBlueprint is the resolved input to one generation run.
// It is not modified while a plan is generated from it.
type MesocycleBlueprint struct {
	Profile  UserProfile    `json:"profile"`
	Strategy StrategyConfig `json:"strategy"`
	Template *SplitTemplate `json:"template,omitempty"`
}
