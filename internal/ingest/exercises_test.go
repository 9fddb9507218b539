package ingest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/claude/mesoplan/internal/library"
	"github.com/claude/mesoplan/internal/models"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const yamlDoc = `
exercises:
  - id: landmine_press
    name: Landmine Press
    category: compound
    pattern: Push_Vertical
    equipment: [barbell, landmine]
    primary_muscle: Delts_Front
    secondary_muscles:
      - muscle: Triceps
        factor: 0.5
    tier: 2
  - id: cable_y_raise
    name: Cable Y Raise
    category: Isolation
    primary_muscle: Delts_Side
    tier: 3
`

// TestImportYAML verifies a mapping document is converted into user-created
// exercises with normalized categories.
func TestImportYAML(t *testing.T) {
	store := library.NewMemory()
	res, err := Import(context.Background(), strings.NewReader(yamlDoc), store, discard())
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if res.ExercisesReceived != 2 || res.ExercisesInserted != 2 || res.ExercisesRejected != 0 {
		t.Errorf("result = %+v", res)
	}

	got, _ := store.ListExercises(context.Background())
	if len(got) != 2 {
		t.Fatalf("stored %d exercises, want 2", len(got))
	}
	ex := got[1]
	if ex.ID != "landmine_press" || ex.Category != models.CategoryCompound || !ex.IsUserCreated {
		t.Errorf("exercise = %+v", ex)
	}
	if len(ex.Equipment) != 2 || len(ex.SecondaryMuscles) != 1 || ex.SecondaryMuscles[0].Factor != 0.5 {
		t.Errorf("equipment/secondary = %v / %v", ex.Equipment, ex.SecondaryMuscles)
	}
}

// TestImportJSONList verifies a bare JSON array is accepted.
func TestImportJSONList(t *testing.T) {
	doc := `[{"id": "sissy_squat", "name": "Sissy Squat", "category": "Isolation", "primary_muscle": "Quads", "tier": 3}]`
	store := library.NewMemory()
	res, err := Import(context.Background(), strings.NewReader(doc), store, discard())
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if res.ExercisesInserted != 1 {
		t.Errorf("inserted = %d, want 1", res.ExercisesInserted)
	}
}

// TestImportRejects verifies invalid and duplicate records are rejected while
// valid ones are stored, and that existing IDs count as skipped.
func TestImportRejects(t *testing.T) {
	doc := `
- {id: good, name: Good, category: Machine, primary_muscle: Chest}
- {id: good, name: Again, category: Machine, primary_muscle: Chest}
- {id: nocat, name: No Category, category: cardio, primary_muscle: Chest}
- {id: badtier, name: Bad Tier, category: Compound, primary_muscle: Chest, tier: 7}
- {id: badfactor, name: Bad Factor, category: Compound, primary_muscle: Chest, secondary_muscles: [{muscle: Abs, factor: 1.5}]}
- {name: No ID, category: Compound, primary_muscle: Chest}
- {id: existing, name: Existing, category: Compound, primary_muscle: Back}
`
	store := library.NewMemory(models.Exercise{ID: "existing", Name: "Original", Category: models.CategoryCompound})
	res, err := Import(context.Background(), strings.NewReader(doc), store, discard())
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if res.ExercisesReceived != 7 {
		t.Errorf("received = %d, want 7", res.ExercisesReceived)
	}
	if res.ExercisesRejected != 5 || len(res.Errors) != 5 {
		t.Errorf("rejected = %d, errors = %v", res.ExercisesRejected, res.Errors)
	}
	if res.ExercisesInserted != 1 || res.ExercisesSkipped != 1 {
		t.Errorf("inserted/skipped = %d/%d, want 1/1", res.ExercisesInserted, res.ExercisesSkipped)
	}
	if res.Message != "1 inserted, 1 skipped, 5 rejected" {
		t.Errorf("message = %q", res.Message)
	}
}

// TestImportMalformed verifies unparseable input returns an error.
func TestImportMalformed(t *testing.T) {
	for _, doc := range []string{"exercises: [", "just a string"} {
		_, err := Import(context.Background(), strings.NewReader(doc), library.NewMemory(), discard())
		if !errors.Is(err, ErrInvalidDocument) {
			t.Errorf("Import(%q) error = %v, want ErrInvalidDocument", doc, err)
		}
	}
}

// TestImportEmpty verifies an empty document stores nothing.
func TestImportEmpty(t *testing.T) {
	res, err := Import(context.Background(), strings.NewReader(""), failStore{}, discard())
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if res.ExercisesReceived != 0 || res.ExercisesInserted != 0 {
		t.Errorf("result = %+v", res)
	}
}

type failStore struct{}

func (failStore) InsertExercises(context.Context, []models.Exercise) (int64, error) {
	return 0, errors.New("boom")
}

// TestImportStoreError verifies a store failure aborts the import.
func TestImportStoreError(t *testing.T) {
	doc := `[{id: a, name: A, category: Compound, primary_muscle: Chest}]`
	_, err := Import(context.Background(), strings.NewReader(doc), failStore{}, discard())
	if err == nil || errors.Is(err, ErrInvalidDocument) {
		t.Errorf("error = %v, want store error", err)
	}
}
