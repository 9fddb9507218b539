// Package ingest imports user-created exercises into a library store.
package ingest

import (
	"context"

	"github.com/claude/mesoplan/internal/models"
)

// Store is the library write surface an import needs.
type Store interface {
	InsertExercises(ctx context.Context, exercises []models.Exercise) (int64, error)
}

// Result holds the outcome of an ingest operation.
type Result struct {
	ExercisesReceived int      `json:"exercises_received"`
	ExercisesInserted int64    `json:"exercises_inserted"`
	ExercisesSkipped  int64    `json:"exercises_skipped"`
	ExercisesRejected int      `json:"exercises_rejected"`
	RejectedIDs       []string `json:"rejected_ids,omitempty"`
	Errors            []string `json:"errors,omitempty"`

	Message string `json:"message,omitempty"`
}
