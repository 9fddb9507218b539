package template

import "github.com/claude/mesoplan/internal/models"

func compound(pattern string, sets int) models.DailySlot {
	return models.DailySlot{Category: models.CategoryCompound, Pattern: pattern, DefaultSets: sets}
}

func isolation(muscle string, sets int) models.DailySlot {
	return models.DailySlot{Category: models.CategoryIsolation, TargetMuscle: muscle, DefaultSets: sets}
}

// FourDayPowerlifting is squat, bench, deadlift, bench with high bench frequency.
var FourDayPowerlifting = models.SplitTemplate{
	Name:        "4-Day Powerlifting Split",
	Description: "Focuses on the Big 3 with high frequency benching.",
	Days: []models.SplitDay{
		{Name: "Squat Focus", Slots: []models.DailySlot{
			compound(models.PatternSquat, 4),
			compound(models.PatternLunge, 3),
			isolation("Quads", 3),
			isolation("Abs", 3),
		}},
		{Name: "Bench Focus", Slots: []models.DailySlot{
			compound(models.PatternPushHorizontal, 4),
			compound(models.PatternPushVertical, 3),
			isolation("Triceps", 3),
			isolation("Chest", 3),
		}},
		{Name: "Deadlift Focus", Slots: []models.DailySlot{
			compound(models.PatternHinge, 4),
			compound(models.PatternPullHorizontal, 3),
			compound(models.PatternPullVertical, 3),
			isolation("Biceps", 3),
		}},
		{Name: "Bench Volume / Access", Slots: []models.DailySlot{
			compound(models.PatternPushHorizontal, 3),
			isolation("Delts_Side", 3),
			isolation("Delts_Rear", 3),
			isolation("Triceps", 3),
		}},
	},
}

// FourDayUpperLower is the classic bodybuilding upper/lower split.
var FourDayUpperLower = models.SplitTemplate{
	Name:        "Upper / Lower Split",
	Description: "Classic bodybuilding split balancing volume and recovery.",
	Days: []models.SplitDay{
		{Name: "Upper A", Slots: []models.DailySlot{
			compound(models.PatternPushHorizontal, 3),
			compound(models.PatternPullVertical, 3),
			compound(models.PatternPushVertical, 3),
			compound(models.PatternPullHorizontal, 3),
			isolation("Triceps", 3),
			isolation("Biceps", 3),
		}},
		{Name: "Lower A", Slots: []models.DailySlot{
			compound(models.PatternSquat, 3),
			compound(models.PatternHinge, 3),
			isolation("Quads", 3),
			isolation("Hamstrings", 3),
			isolation("Calves", 4),
		}},
		{Name: "Upper B", Slots: []models.DailySlot{
			compound(models.PatternPushVertical, 3),
			compound(models.PatternPullHorizontal, 3),
			compound(models.PatternPushHorizontal, 3),
			compound(models.PatternPullVertical, 3),
			isolation("Delts_Side", 3),
		}},
		{Name: "Lower B", Slots: []models.DailySlot{
			compound(models.PatternHinge, 3),
			compound(models.PatternLunge, 3),
			isolation("Glutes", 3),
			isolation("Abs", 3),
		}},
	},
}

// ThreeDayFullBody trains every major pattern each session.
var ThreeDayFullBody = models.SplitTemplate{
	Name:        "3-Day Full Body",
	Description: "Full body frequency.",
	Days: []models.SplitDay{
		{Name: "Full Body A", Slots: []models.DailySlot{
			compound(models.PatternSquat, 4),
			compound(models.PatternPushHorizontal, 4),
			compound(models.PatternPullHorizontal, 3),
			isolation("Abs", 3),
		}},
		{Name: "Full Body B", Slots: []models.DailySlot{
			compound(models.PatternHinge, 4),
			compound(models.PatternPushVertical, 3),
			compound(models.PatternPullVertical, 3),
			isolation("Biceps", 3),
		}},
		{Name: "Full Body C", Slots: []models.DailySlot{
			compound(models.PatternLunge, 3),
			compound(models.PatternPushHorizontal, 3),
			compound(models.PatternPullHorizontal, 3),
			isolation("Triceps", 3),
		}},
	},
}

// Default returns a catalog with the built-in templates. Any 4-day request
// without an exact match gets the powerlifting split regardless of goal.
func Default() *Catalog {
	c := NewCatalog()
	c.Register(4, models.GoalStrength, FourDayPowerlifting)
	c.Register(4, models.GoalHypertrophy, FourDayUpperLower)
	c.Register(3, models.GoalStrength, ThreeDayFullBody)
	c.SetFallback(4, FourDayPowerlifting)
	return c
}
