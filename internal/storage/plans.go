package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/claude/mesoplan/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SavePlan persists a plan with its sessions and prescriptions in a single
// transaction, replacing any plan stored under the same ID. Referenced
// exercises must already exist in the library.
func (db *DB) SavePlan(ctx context.Context, plan *models.Plan) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Cascades to the old sessions and prescriptions.
	if _, err := tx.Exec(ctx, `DELETE FROM plans WHERE id = $1`, plan.ID); err != nil {
		return fmt.Errorf("replacing plan: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO plans (id, name, start_date) VALUES ($1, $2, $3)`,
		plan.ID, plan.Name, plan.StartDate); err != nil {
		return fmt.Errorf("inserting plan: %w", err)
	}

	batch := &pgx.Batch{}
	for _, s := range plan.Sessions {
		batch.Queue(
			`INSERT INTO workout_sessions (id, plan_id, week, day, name, phase, completed)
			 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			s.ID, plan.ID, s.Week, s.Day, s.Name, string(s.Phase), s.Completed)
		for _, we := range s.Exercises {
			batch.Queue(
				`INSERT INTO workout_exercises (session_id, position, exercise_id, sets, reps, load)
				 VALUES ($1,$2,$3,$4,$5,$6)`,
				s.ID, we.Position, we.ExerciseID, we.Sets, we.Reps, we.Load)
		}
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("inserting sessions: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing plan: %w", err)
	}
	return nil
}

// GetPlan loads a plan with its sessions in (week, day) order. Prescriptions
// sharing an exercise share one *Exercise. Returns models.ErrNotFound if the
// plan does not exist.
func (db *DB) GetPlan(ctx context.Context, id uuid.UUID) (*models.Plan, error) {
	plan := &models.Plan{ID: id}
	err := db.Pool.QueryRow(ctx,
		`SELECT name, start_date FROM plans WHERE id = $1`, id).
		Scan(&plan.Name, &plan.StartDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying plan: %w", err)
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT id, week, day, name, phase, completed FROM workout_sessions
		 WHERE plan_id = $1 ORDER BY week, day`, id)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	byID := make(map[uuid.UUID]*models.WorkoutSession)
	for rows.Next() {
		s := &models.WorkoutSession{Exercises: []models.WorkoutExercise{}}
		var phase string
		if err := rows.Scan(&s.ID, &s.Week, &s.Day, &s.Name, &phase, &s.Completed); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		s.Phase = models.Phase(phase)
		plan.Sessions = append(plan.Sessions, s)
		byID[s.ID] = s
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sessions: %w", err)
	}

	rows, err = db.Pool.Query(ctx,
		`SELECT we.session_id, we.position, we.exercise_id, we.sets, we.reps, we.load
		 FROM workout_exercises we
		 JOIN workout_sessions ws ON ws.id = we.session_id
		 WHERE ws.plan_id = $1
		 ORDER BY we.session_id, we.position`, id)
	if err != nil {
		return nil, fmt.Errorf("querying prescriptions: %w", err)
	}
	defer rows.Close()

	var exerciseIDs []string
	seen := make(map[string]bool)
	for rows.Next() {
		var (
			sessionID uuid.UUID
			we        models.WorkoutExercise
		)
		if err := rows.Scan(&sessionID, &we.Position, &we.ExerciseID, &we.Sets, &we.Reps, &we.Load); err != nil {
			return nil, fmt.Errorf("scanning prescription: %w", err)
		}
		if s, ok := byID[sessionID]; ok {
			s.Exercises = append(s.Exercises, we)
		}
		if !seen[we.ExerciseID] {
			seen[we.ExerciseID] = true
			exerciseIDs = append(exerciseIDs, we.ExerciseID)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating prescriptions: %w", err)
	}

	if len(exerciseIDs) > 0 {
		exercises, err := db.queryExercises(ctx,
			`SELECT `+exerciseColumns+` FROM exercises WHERE id = ANY($1) ORDER BY `+orderByID, exerciseIDs)
		if err != nil {
			return nil, err
		}
		shared := make(map[string]*models.Exercise, len(exercises))
		for i := range exercises {
			shared[exercises[i].ID] = &exercises[i]
		}
		for _, s := range plan.Sessions {
			for i := range s.Exercises {
				s.Exercises[i].Exercise = shared[s.Exercises[i].ExerciseID]
			}
		}
	}
	return plan, nil
}

// ListPlans returns plan summaries, newest first.
func (db *DB) ListPlans(ctx context.Context) ([]models.PlanSummary, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT p.id, p.name, p.start_date,
		        COUNT(s.id),
		        COUNT(s.id) FILTER (WHERE s.completed)
		 FROM plans p
		 LEFT JOIN workout_sessions s ON s.plan_id = p.id
		 GROUP BY p.id
		 ORDER BY p.created_at DESC, p.id`)
	if err != nil {
		return nil, fmt.Errorf("querying plans: %w", err)
	}
	defer rows.Close()

	var result []models.PlanSummary
	for rows.Next() {
		var p models.PlanSummary
		if err := rows.Scan(&p.ID, &p.Name, &p.StartDate, &p.SessionCount, &p.Completed); err != nil {
			return nil, fmt.Errorf("scanning plan: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

// DeletePlan removes a plan, its sessions and their prescriptions. Library
// exercises are untouched.
func (db *DB) DeletePlan(ctx context.Context, id uuid.UUID) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM plans WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting plan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// SetSessionCompleted marks a session of a plan as completed or not.
func (db *DB) SetSessionCompleted(ctx context.Context, planID, sessionID uuid.UUID, completed bool) error {
	var completedAt *time.Time
	if completed {
		now := time.Now().UTC()
		completedAt = &now
	}
	tag, err := db.Pool.Exec(ctx,
		`UPDATE workout_sessions SET completed = $3, completed_at = $4
		 WHERE id = $2 AND plan_id = $1`,
		planID, sessionID, completed, completedAt)
	if err != nil {
		return fmt.Errorf("updating session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
