// Package validation checks a generated plan against its blueprint.
package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/claude/mesoplan/internal/models"
)

// Soft-constraint scoring. Excess volume costs less than missing volume.
const (
	ScoreInRange = 10
	ScoreUnder   = -5
	ScoreOver    = -2
)

// Validate runs the structural (hard) and volume (soft) checks. It never
// fails; every finding lands in the report log. The result depends only on
// its inputs.
func Validate(plan *models.Plan, bp models.MesocycleBlueprint) models.ValidationReport {
	var log strings.Builder
	log.WriteString("Validation Report\n-----------------\n")

	byWeek := plan.SessionsByWeek()
	hardOK := checkStructure(&log, byWeek, bp)
	score := scoreVolume(&log, byWeek[1], bp.Strategy)

	return models.ValidationReport{
		Valid:              hardOK,
		HardConstraintsMet: hardOK,
		SoftScore:          score,
		Log:                log.String(),
	}
}

func checkStructure(log *strings.Builder, byWeek map[int][]*models.WorkoutSession, bp models.MesocycleBlueprint) bool {
	log.WriteString("\n[Hard Constraints]\n")
	ok := true

	totalWeeks := bp.Strategy.CycleWeeks
	dayCount := 0
	if bp.Template != nil {
		dayCount = len(bp.Template.Days)
	}

	if len(byWeek) != totalWeeks {
		fmt.Fprintf(log, "FAIL Week Count Mismatch: expected %d, found %d\n", totalWeeks, len(byWeek))
		ok = false
	} else {
		fmt.Fprintf(log, "OK   Week Count: %d\n", totalWeeks)
	}

	for week := 1; week <= totalWeeks; week++ {
		sessions, present := byWeek[week]
		if !present {
			fmt.Fprintf(log, "FAIL Missing Week %d\n", week)
			ok = false
			continue
		}
		if len(sessions) != dayCount {
			fmt.Fprintf(log, "FAIL Week %d: Session Count Mismatch. Expected %d, found %d\n", week, dayCount, len(sessions))
			ok = false
		}
		for _, s := range sessions {
			if len(s.Exercises) == 0 {
				fmt.Fprintf(log, "FAIL Week %d, %s: No exercises found.\n", week, s.Name)
				ok = false
			}
		}
	}

	if ok {
		log.WriteString("OK   All Structural Constraints Passed.\n")
	}
	return ok
}

// WeeklyVolume sums working sets per primary muscle. Secondary muscles are
// not counted.
func WeeklyVolume(sessions []*models.WorkoutSession) map[string]int {
	volume := make(map[string]int)
	for _, s := range sessions {
		for _, we := range s.Exercises {
			if we.Exercise == nil {
				continue
			}
			volume[we.Exercise.PrimaryMuscle] += we.Sets
		}
	}
	return volume
}

// scoreVolume classifies week 1 volume per muscle against the strategy's band.
// Week 1 stands in for the whole mesocycle since the skeleton never changes.
func scoreVolume(log *strings.Builder, week1 []*models.WorkoutSession, strat models.StrategyConfig) int {
	log.WriteString("\n[Soft Constraints: Weekly Volume]\n")
	fmt.Fprintf(log, "Target: %d-%d sets/muscle/week\n", strat.VolMin, strat.VolMax)

	volume := WeeklyVolume(week1)
	muscles := make([]string, 0, len(volume))
	for m := range volume {
		muscles = append(muscles, m)
	}
	sort.Strings(muscles)

	score := 0
	for _, m := range muscles {
		v := volume[m]
		if v == 0 {
			continue
		}
		switch {
		case v < strat.VolMin:
			fmt.Fprintf(log, "WARN %s: %d sets (Under Target %d)\n", m, v, strat.VolMin)
			score += ScoreUnder
		case v > strat.VolMax:
			fmt.Fprintf(log, "WARN %s: %d sets (Over Target %d)\n", m, v, strat.VolMax)
			score += ScoreOver
		default:
			fmt.Fprintf(log, "OK   %s: %d sets (In Range)\n", m, v)
			score += ScoreInRange
		}
	}
	return score
}
