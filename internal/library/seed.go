package library

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/claude/mesoplan/internal/models"
)

//go:embed seed.json
var seedJSON []byte

// SeedExercises returns the built-in exercise catalog.
func SeedExercises() ([]models.Exercise, error) {
	var exercises []models.Exercise
	if err := json.Unmarshal(seedJSON, &exercises); err != nil {
		return nil, fmt.Errorf("decoding seed exercises: %w", err)
	}
	return exercises, nil
}

// Store is a library that can be counted and written. Both database stores
// and Memory satisfy it.
type Store interface {
	CountExercises(ctx context.Context) (int, error)
	InsertExercises(ctx context.Context, exercises []models.Exercise) (int64, error)
}

// Seed loads the built-in catalog into store if it is empty. Returns the
// number of exercises inserted, zero when the store was already populated.
func Seed(ctx context.Context, store Store, log *slog.Logger) (int64, error) {
	count, err := store.CountExercises(ctx)
	if err != nil {
		return 0, fmt.Errorf("counting exercises: %w", err)
	}
	if count > 0 {
		log.Info("library already populated", "exercises", count)
		return 0, nil
	}

	exercises, err := SeedExercises()
	if err != nil {
		return 0, err
	}
	n, err := store.InsertExercises(ctx, exercises)
	if err != nil {
		return 0, fmt.Errorf("inserting seed exercises: %w", err)
	}
	log.Info("library seeded", "exercises", n)
	return n, nil
}
