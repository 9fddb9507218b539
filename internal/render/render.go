// Package render formats plans and validation reports as plain text.
package render

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/claude/mesoplan/internal/models"
)

// Plan writes plan grouped by week, one tab-aligned line per prescription.
func Plan(w io.Writer, plan *models.Plan) error {
	if plan == nil {
		_, err := fmt.Fprintln(w, "(no plan)")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\n", plan.Name)
	fmt.Fprintf(tw, "Start: %s  ID: %s\n", plan.StartDate.Format("2006-01-02"), plan.ID)

	byWeek := plan.SessionsByWeek()
	weeks := make([]int, 0, len(byWeek))
	for wk := range byWeek {
		weeks = append(weeks, wk)
	}
	sort.Ints(weeks)

	for _, wk := range weeks {
		sessions := byWeek[wk]
		phase := ""
		if len(sessions) > 0 && sessions[0].Phase != "" {
			phase = " (" + string(sessions[0].Phase) + ")"
		}
		fmt.Fprintf(tw, "\nWeek %d%s\n", wk, phase)
		for _, s := range sessions {
			done := ""
			if s.Completed {
				done = " [done]"
			}
			fmt.Fprintf(tw, "  %s%s\n", s.Name, done)
			if len(s.Exercises) == 0 {
				fmt.Fprintf(tw, "    -\t(no exercises)\n")
				continue
			}
			for _, we := range s.Exercises {
				fmt.Fprintf(tw, "    %s\t%d x %s\t@ %s\n", exerciseName(we), we.Sets, we.Reps, we.Load)
			}
		}
	}
	return tw.Flush()
}

// Report writes the validation summary followed by its log.
func Report(w io.Writer, report models.ValidationReport) error {
	status := "VALID"
	if !report.Valid {
		status = "INVALID"
	}
	_, err := fmt.Fprintf(w, "%s (soft score %d)\n%s", status, report.SoftScore, report.Log)
	return err
}

// String renders plan to a string.
func String(plan *models.Plan) string {
	var b strings.Builder
	Plan(&b, plan)
	return b.String()
}

func exerciseName(we models.WorkoutExercise) string {
	if we.Exercise != nil && we.Exercise.Name != "" {
		return we.Exercise.Name
	}
	return we.ExerciseID
}
