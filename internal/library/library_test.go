package library

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/claude/mesoplan/internal/models"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestMemoryFindOrdered verifies results come back sorted by ID regardless of
// insertion order, with exclusions and limits applied.
func TestMemoryFindOrdered(t *testing.T) {
	m := NewMemory(
		models.Exercise{ID: "c", Category: models.CategoryCompound},
		models.Exercise{ID: "a", Category: models.CategoryCompound},
		models.Exercise{ID: "b", Category: models.CategoryCompound},
		models.Exercise{ID: "d", Category: models.CategoryIsolation},
	)
	ctx := context.Background()
	f := models.ExerciseFilter{Category: models.CategoryCompound}

	got, _ := m.FindExercises(ctx, f, nil, 0)
	if ids := idsOf(got); ids != "abc" {
		t.Errorf("ids = %q, want abc", ids)
	}
	got, _ = m.FindExercises(ctx, f, []string{"b"}, 0)
	if ids := idsOf(got); ids != "ac" {
		t.Errorf("ids with exclude = %q, want ac", ids)
	}
	got, _ = m.FindExercises(ctx, f, nil, 2)
	if ids := idsOf(got); ids != "ab" {
		t.Errorf("ids with limit = %q, want ab", ids)
	}
}

// TestMemoryInsertKeepsExisting verifies an ID inserted twice keeps the
// first version and is not counted again.
func TestMemoryInsertKeepsExisting(t *testing.T) {
	m := NewMemory(models.Exercise{ID: "a", Name: "old"})
	n, err := m.InsertExercises(context.Background(), []models.Exercise{{ID: "a", Name: "new"}, {ID: "b", Name: "b"}})
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("inserted = %d, want 1", n)
	}
	all, _ := m.ListExercises(context.Background())
	if len(all) != 2 || all[0].Name != "old" {
		t.Errorf("exercises = %+v", all)
	}
}

// TestSeedExercises verifies the embedded catalog decodes with unique IDs and
// valid categories and tiers.
func TestSeedExercises(t *testing.T) {
	exercises, err := SeedExercises()
	if err != nil {
		t.Fatalf("SeedExercises: %v", err)
	}
	if len(exercises) < 30 {
		t.Fatalf("seed has %d exercises, want at least 30", len(exercises))
	}
	seen := map[string]bool{}
	for _, ex := range exercises {
		if seen[ex.ID] {
			t.Errorf("duplicate id %q", ex.ID)
		}
		seen[ex.ID] = true
		if _, ok := models.ParseCategory(string(ex.Category)); !ok {
			t.Errorf("%s: bad category %q", ex.ID, ex.Category)
		}
		if ex.Tier < models.Tier1 || ex.Tier > models.Tier3 {
			t.Errorf("%s: tier %d out of range", ex.ID, ex.Tier)
		}
		for _, sm := range ex.SecondaryMuscles {
			if sm.Factor < 0 || sm.Factor > 1 {
				t.Errorf("%s: secondary factor %v out of [0,1]", ex.ID, sm.Factor)
			}
		}
	}
	if !seen["tricep_pushdown_cable"] {
		t.Error("seed missing tricep_pushdown_cable")
	}
}

// TestSeedOnlyWhenEmpty verifies seeding is skipped for populated stores.
func TestSeedOnlyWhenEmpty(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	n, err := Seed(ctx, m, discard())
	if err != nil || n == 0 {
		t.Fatalf("Seed(empty) = %d, %v", n, err)
	}
	n, err = Seed(ctx, m, discard())
	if err != nil || n != 0 {
		t.Fatalf("Seed(populated) = %d, %v; want 0", n, err)
	}
}

func idsOf(exercises []models.Exercise) string {
	s := ""
	for _, ex := range exercises {
		s += ex.ID
	}
	return s
}
