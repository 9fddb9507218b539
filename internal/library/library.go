// Package library provides the in-memory exercise library and the seed data
// used to populate empty stores.
package library

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/claude/mesoplan/internal/models"
	"github.com/claude/mesoplan/internal/selector"
)

// Memory is an in-memory exercise library safe for concurrent readers.
type Memory struct {
	mu        sync.RWMutex
	exercises []models.Exercise // sorted by ID
}

// Compile-time check: *Memory satisfies selector.Library.
var _ selector.Library = (*Memory)(nil)

// NewMemory creates a library holding exercises. Later duplicates of an ID
// are ignored.
func NewMemory(exercises ...models.Exercise) *Memory {
	m := &Memory{}
	m.InsertExercises(context.Background(), exercises)
	return m
}

// FindExercises returns exercises matching filter, ordered by ID.
func (m *Memory) FindExercises(_ context.Context, filter models.ExerciseFilter, exclude []string, limit int) ([]models.Exercise, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.Exercise
	for _, ex := range m.exercises {
		if !filter.Matches(ex) || slices.Contains(exclude, ex.ID) {
			continue
		}
		out = append(out, ex)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// CountExercises returns the library size.
func (m *Memory) CountExercises(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.exercises), nil
}

// ListExercises returns every exercise ordered by ID.
func (m *Memory) ListExercises(_ context.Context) ([]models.Exercise, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.exercises), nil
}

// InsertExercises adds exercises whose ID is not yet present. Returns the
// number inserted.
func (m *Memory) InsertExercises(_ context.Context, exercises []models.Exercise) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var inserted int64
	for _, ex := range exercises {
		i := sort.Search(len(m.exercises), func(i int) bool { return m.exercises[i].ID >= ex.ID })
		if i < len(m.exercises) && m.exercises[i].ID == ex.ID {
			continue
		}
		m.exercises = slices.Insert(m.exercises, i, ex)
		inserted++
	}
	return inserted, nil
}
