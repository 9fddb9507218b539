package localstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/claude/mesoplan/internal/models"
)

const exerciseColumns = `id, name, short_name, category, pattern, equipment, primary_muscle,
	default_tempo, tier, is_competition_lift, is_user_created`

// FindExercises returns exercises matching filter, ordered by ID.
func (s *Store) FindExercises(ctx context.Context, filter models.ExerciseFilter, exclude []string, limit int) ([]models.Exercise, error) {
	var (
		conds []string
		args  []any
	)
	if filter.Category != "" {
		conds = append(conds, "category = ?")
		args = append(args, string(filter.Category))
	}
	if filter.Pattern != "" {
		conds = append(conds, "pattern = ?")
		args = append(args, filter.Pattern)
	}
	if filter.PrimaryMuscle != "" {
		conds = append(conds, "primary_muscle = ?")
		args = append(args, filter.PrimaryMuscle)
	}
	if len(exclude) > 0 {
		conds = append(conds, "id NOT IN ("+placeholders(len(exclude))+")")
		for _, id := range exclude {
			args = append(args, id)
		}
	}

	query := `SELECT ` + exerciseColumns + ` FROM exercises`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY id"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	return s.queryExercises(ctx, query, args...)
}

// ListExercises returns the whole library ordered by ID.
func (s *Store) ListExercises(ctx context.Context) ([]models.Exercise, error) {
	return s.queryExercises(ctx, `SELECT `+exerciseColumns+` FROM exercises ORDER BY id`)
}

// CountExercises returns the library size.
func (s *Store) CountExercises(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM exercises`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting exercises: %w", err)
	}
	return n, nil
}

// InsertExercises inserts exercises that are not already present. Returns
// count inserted.
func (s *Store) InsertExercises(ctx context.Context, exercises []models.Exercise) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var inserted int64
	for _, ex := range exercises {
		equipment, err := json.Marshal(ex.Equipment)
		if err != nil {
			return 0, fmt.Errorf("encoding equipment for %s: %w", ex.ID, err)
		}
		res, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO exercises (`+exerciseColumns+`)
			 VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
			ex.ID, ex.Name, ex.ShortName, string(ex.Category), ex.Pattern, string(equipment),
			ex.PrimaryMuscle, ex.DefaultTempo, int(ex.Tier), ex.IsCompetitionLift, ex.IsUserCreated)
		if err != nil {
			return 0, fmt.Errorf("inserting exercise %s: %w", ex.ID, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			continue
		}
		inserted++

		for i, sm := range ex.SecondaryMuscles {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO exercise_secondary_muscles (exercise_id, position, muscle, factor) VALUES (?,?,?,?)`,
				ex.ID, i, sm.Muscle, sm.Factor); err != nil {
				return 0, fmt.Errorf("inserting secondary muscle for %s: %w", ex.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing exercises: %w", err)
	}
	return inserted, nil
}

func (s *Store) queryExercises(ctx context.Context, query string, args ...any) ([]models.Exercise, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	defer rows.Close()

	var result []models.Exercise
	index := make(map[string]int)
	for rows.Next() {
		var (
			ex        models.Exercise
			category  string
			equipment string
			tier      int
		)
		if err := rows.Scan(&ex.ID, &ex.Name, &ex.ShortName, &category, &ex.Pattern, &equipment,
			&ex.PrimaryMuscle, &ex.DefaultTempo, &tier, &ex.IsCompetitionLift, &ex.IsUserCreated); err != nil {
			return nil, fmt.Errorf("scanning exercise: %w", err)
		}
		if err := json.Unmarshal([]byte(equipment), &ex.Equipment); err != nil {
			return nil, fmt.Errorf("decoding equipment for %s: %w", ex.ID, err)
		}
		ex.Category = models.Category(category)
		ex.Tier = models.Tier(tier)
		index[ex.ID] = len(result)
		result = append(result, ex)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating exercises: %w", err)
	}
	rows.Close()

	if len(result) == 0 {
		return result, nil
	}

	ids := make([]any, len(result))
	for i, ex := range result {
		ids[i] = ex.ID
	}
	smRows, err := s.db.QueryContext(ctx,
		`SELECT exercise_id, muscle, factor FROM exercise_secondary_muscles
		 WHERE exercise_id IN (`+placeholders(len(ids))+`)
		 ORDER BY exercise_id, position`, ids...)
	if err != nil {
		return nil, fmt.Errorf("querying secondary muscles: %w", err)
	}
	defer smRows.Close()

	for smRows.Next() {
		var (
			id string
			sm models.SecondaryMuscle
		)
		if err := smRows.Scan(&id, &sm.Muscle, &sm.Factor); err != nil {
			return nil, fmt.Errorf("scanning secondary muscle: %w", err)
		}
		i := index[id]
		result[i].SecondaryMuscles = append(result[i].SecondaryMuscles, sm)
	}
	return result, smRows.Err()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
