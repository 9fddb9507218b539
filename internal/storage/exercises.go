package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/claude/mesoplan/internal/models"
)

// orderByID sorts by raw bytes regardless of the database collation.
const orderByID = `id COLLATE "C"`

const exerciseColumns = `id, name, short_name, category, pattern, equipment, primary_muscle,
	default_tempo, tier, is_competition_lift, is_user_created`

// FindExercises returns exercises matching filter, ordered by ID bytes like
// the other stores. Empty filter fields are unconstrained. A limit of zero
// means no limit.
func (db *DB) FindExercises(ctx context.Context, filter models.ExerciseFilter, exclude []string, limit int) ([]models.Exercise, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.Category != "" {
		add("category = $%d", string(filter.Category))
	}
	if filter.Pattern != "" {
		add("pattern = $%d", filter.Pattern)
	}
	if filter.PrimaryMuscle != "" {
		add("primary_muscle = $%d", filter.PrimaryMuscle)
	}
	if len(exclude) > 0 {
		add("id <> ALL($%d)", exclude)
	}

	query := `SELECT ` + exerciseColumns + ` FROM exercises`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY " + orderByID
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	return db.queryExercises(ctx, query, args...)
}

// ListExercises returns the whole library ordered by ID.
func (db *DB) ListExercises(ctx context.Context) ([]models.Exercise, error) {
	return db.queryExercises(ctx, `SELECT `+exerciseColumns+` FROM exercises ORDER BY `+orderByID)
}

// CountExercises returns the library size.
func (db *DB) CountExercises(ctx context.Context) (int, error) {
	var n int
	if err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM exercises`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting exercises: %w", err)
	}
	return n, nil
}

// InsertExercises inserts exercises and their secondary muscles in one
// transaction. Existing IDs are left untouched. Returns count inserted.
func (db *DB) InsertExercises(ctx context.Context, exercises []models.Exercise) (int64, error) {
	if len(exercises) == 0 {
		return 0, nil
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var inserted int64
	for _, ex := range exercises {
		tag, err := tx.Exec(ctx,
			`INSERT INTO exercises (`+exerciseColumns+`)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
			 ON CONFLICT DO NOTHING`,
			ex.ID, ex.Name, ex.ShortName, string(ex.Category), ex.Pattern, equipmentOrEmpty(ex.Equipment),
			ex.PrimaryMuscle, ex.DefaultTempo, int(ex.Tier), ex.IsCompetitionLift, ex.IsUserCreated)
		if err != nil {
			return 0, fmt.Errorf("inserting exercise %s: %w", ex.ID, err)
		}
		if tag.RowsAffected() == 0 {
			continue
		}
		inserted++

		for i, sm := range ex.SecondaryMuscles {
			if _, err := tx.Exec(ctx,
				`INSERT INTO exercise_secondary_muscles (exercise_id, position, muscle, factor)
				 VALUES ($1,$2,$3,$4)`,
				ex.ID, i, sm.Muscle, sm.Factor); err != nil {
				return 0, fmt.Errorf("inserting secondary muscle for %s: %w", ex.ID, err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing exercises: %w", err)
	}
	return inserted, nil
}

func (db *DB) queryExercises(ctx context.Context, query string, args ...any) ([]models.Exercise, error) {
	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	defer rows.Close()

	var result []models.Exercise
	for rows.Next() {
		var (
			ex       models.Exercise
			category string
			tier     int
		)
		if err := rows.Scan(&ex.ID, &ex.Name, &ex.ShortName, &category, &ex.Pattern, &ex.Equipment,
			&ex.PrimaryMuscle, &ex.DefaultTempo, &tier, &ex.IsCompetitionLift, &ex.IsUserCreated); err != nil {
			return nil, fmt.Errorf("scanning exercise: %w", err)
		}
		ex.Category = models.Category(category)
		ex.Tier = models.Tier(tier)
		result = append(result, ex)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating exercises: %w", err)
	}

	if err := db.attachSecondaryMuscles(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

// attachSecondaryMuscles fills SecondaryMuscles for each exercise in place.
func (db *DB) attachSecondaryMuscles(ctx context.Context, exercises []models.Exercise) error {
	if len(exercises) == 0 {
		return nil
	}
	ids := make([]string, len(exercises))
	index := make(map[string]int, len(exercises))
	for i, ex := range exercises {
		ids[i] = ex.ID
		index[ex.ID] = i
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT exercise_id, muscle, factor FROM exercise_secondary_muscles
		 WHERE exercise_id = ANY($1)
		 ORDER BY exercise_id, position`, ids)
	if err != nil {
		return fmt.Errorf("querying secondary muscles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id string
			sm models.SecondaryMuscle
		)
		if err := rows.Scan(&id, &sm.Muscle, &sm.Factor); err != nil {
			return fmt.Errorf("scanning secondary muscle: %w", err)
		}
		i := index[id]
		exercises[i].SecondaryMuscles = append(exercises[i].SecondaryMuscles, sm)
	}
	return rows.Err()
}

func equipmentOrEmpty(equipment []string) []string {
	if equipment == nil {
		return []string{}
	}
	return equipment
}
