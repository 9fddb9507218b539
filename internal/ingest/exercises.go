package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/claude/mesoplan/internal/models"
)

// record is one exercise as written by a user. JSON input parses too, since
// YAML is a superset of it.
type record struct {
	ID               string `yaml:"id"`
	Name             string `yaml:"name"`
	ShortName        string `yaml:"short_name"`
	Category         string `yaml:"category"`
	Pattern          string `yaml:"pattern"`
	Equipment        []string `yaml:"equipment"`
	PrimaryMuscle    string `yaml:"primary_muscle"`
	SecondaryMuscles []struct {
		Muscle string  `yaml:"muscle"`
		Factor float64 `yaml:"factor"`
	} `yaml:"secondary_muscles"`
	DefaultTempo      string `yaml:"default_tempo"`
	Tier              int    `yaml:"tier"`
	IsCompetitionLift bool   `yaml:"is_competition_lift"`
}

// ErrInvalidDocument marks input that could not be read or decoded.
var ErrInvalidDocument = errors.New("invalid exercise document")

type document struct {
	Exercises []record `yaml:"exercises"`
}

// parse reads exercises from r. The document is either a list of exercises
// or a mapping with an "exercises" list.
func parse(r io.Reader) ([]record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: reading: %v", ErrInvalidDocument, err)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if len(root.Content) == 0 {
		return nil, nil
	}

	doc := root.Content[0]
	switch doc.Kind {
	case yaml.SequenceNode:
		var recs []record
		if err := doc.Decode(&recs); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}
		return recs, nil
	case yaml.MappingNode:
		var d document
		if err := doc.Decode(&d); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}
		return d.Exercises, nil
	default:
		return nil, fmt.Errorf("%w: expected a list or mapping at line %d", ErrInvalidDocument, doc.Line)
	}
}

// convert validates rec and maps it to a user-created library exercise.
func convert(rec record) (models.Exercise, error) {
	id := strings.TrimSpace(rec.ID)
	if id == "" {
		return models.Exercise{}, fmt.Errorf("id is required")
	}
	if strings.TrimSpace(rec.Name) == "" {
		return models.Exercise{}, fmt.Errorf("%s: name is required", id)
	}
	cat, ok := models.ParseCategory(rec.Category)
	if !ok {
		return models.Exercise{}, fmt.Errorf("%s: unknown category %q", id, rec.Category)
	}
	if rec.PrimaryMuscle == "" {
		return models.Exercise{}, fmt.Errorf("%s: primary_muscle is required", id)
	}
	if rec.Tier < 0 || rec.Tier > int(models.Tier3) {
		return models.Exercise{}, fmt.Errorf("%s: tier %d out of range", id, rec.Tier)
	}

	ex := models.Exercise{
		ID:                id,
		Name:              rec.Name,
		ShortName:         rec.ShortName,
		Category:          cat,
		Pattern:           rec.Pattern,
		Equipment:         rec.Equipment,
		PrimaryMuscle:     rec.PrimaryMuscle,
		DefaultTempo:      rec.DefaultTempo,
		Tier:              models.Tier(rec.Tier),
		IsCompetitionLift: rec.IsCompetitionLift,
		IsUserCreated:     true,
	}
	for _, sm := range rec.SecondaryMuscles {
		if sm.Factor < 0 || sm.Factor > 1 {
			return models.Exercise{}, fmt.Errorf("%s: secondary muscle %s factor %.2f not in [0,1]", id, sm.Muscle, sm.Factor)
		}
		ex.SecondaryMuscles = append(ex.SecondaryMuscles, models.SecondaryMuscle{Muscle: sm.Muscle, Factor: sm.Factor})
	}
	return ex, nil
}

// Import parses exercises from r, rejects invalid or duplicate records, and
// stores the rest. Exercises whose ID already exists in the store count as
// skipped.
func Import(ctx context.Context, r io.Reader, store Store, log *slog.Logger) (*Result, error) {
	recs, err := parse(r)
	if err != nil {
		return nil, err
	}

	result := &Result{ExercisesReceived: len(recs)}
	seen := make(map[string]bool, len(recs))
	var valid []models.Exercise
	for _, rec := range recs {
		ex, err := convert(rec)
		if err == nil && seen[ex.ID] {
			err = fmt.Errorf("%s: duplicate id", ex.ID)
		}
		if err != nil {
			result.ExercisesRejected++
			result.RejectedIDs = append(result.RejectedIDs, rec.ID)
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		seen[ex.ID] = true
		valid = append(valid, ex)
	}

	if len(valid) > 0 {
		n, err := store.InsertExercises(ctx, valid)
		if err != nil {
			return nil, fmt.Errorf("inserting exercises: %w", err)
		}
		result.ExercisesInserted = n
		result.ExercisesSkipped = int64(len(valid)) - n
	}

	result.Message = fmt.Sprintf("%d inserted, %d skipped, %d rejected",
		result.ExercisesInserted, result.ExercisesSkipped, result.ExercisesRejected)
	log.Info("exercises imported",
		"received", result.ExercisesReceived,
		"inserted", result.ExercisesInserted,
		"skipped", result.ExercisesSkipped,
		"rejected", result.ExercisesRejected)
	return result, nil
}
