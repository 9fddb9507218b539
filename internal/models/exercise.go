package models

// Common movement patterns used by the built-in templates and seed library.
const (
	PatternSquat          = "Squat"
	PatternHinge          = "Hinge"
	PatternLunge          = "Lunge"
	PatternPushHorizontal = "Push_Horizontal"
	PatternPushVertical   = "Push_Vertical"
	PatternPullHorizontal = "Pull_Horizontal"
	PatternPullVertical   = "Pull_Vertical"
	PatternIsolation      = "Isolation"
)

// Tier ranks an exercise's importance: 1 is a primary competition-style lift,
// 3 an accessory or isolation movement. Zero means unranked.
type Tier int

const (
	Tier1 Tier = 1
	Tier2 Tier = 2
	Tier3 Tier = 3
)

// SecondaryMuscle is a muscle trained indirectly, weighted by Factor in [0,1].
type SecondaryMuscle struct {
	Muscle string  `json:"muscle"`
	Factor float64 `json:"factor"`
}

// Exercise is a library entry. The generation core only reads exercises.
type Exercise struct {
	ID                string            `json:"id"`
	Name              string            `json:"name"`
	ShortName         string            `json:"short_name,omitempty"`
	Category          Category          `json:"category"`
	Pattern           string            `json:"pattern,omitempty"`
	Equipment         []string          `json:"equipment,omitempty"`
	PrimaryMuscle     string            `json:"primary_muscle"`
	SecondaryMuscles  []SecondaryMuscle `json:"secondary_muscles,omitempty"`
	DefaultTempo      string            `json:"default_tempo,omitempty"`
	Tier              Tier              `json:"tier"`
	IsCompetitionLift bool              `json:"is_competition_lift"`
	IsUserCreated     bool              `json:"is_user_created"`
}

// ExerciseFilter is a typed library query. An empty field matches any value.
// The selector always sets Category.
type ExerciseFilter struct {
	Category      Category `json:"category"`
	Pattern       string   `json:"pattern,omitempty"`
	PrimaryMuscle string   `json:"primary_muscle,omitempty"`
}

// Matches reports whether ex satisfies the filter.
func (f ExerciseFilter) Matches(ex Exercise) bool {
	if f.Category != "" && ex.Category != f.Category {
		return false
	}
	if f.Pattern != "" && ex.Pattern != f.Pattern {
		return false
	}
	if f.PrimaryMuscle != "" && ex.PrimaryMuscle != f.PrimaryMuscle {
		return false
	}
	return true
}
