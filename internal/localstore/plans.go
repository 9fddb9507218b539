package localstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/claude/mesoplan/internal/models"
	"github.com/google/uuid"
)

// SavePlan persists a plan with its sessions and prescriptions. A plan
// already stored under the same ID is replaced.
func (s *Store) SavePlan(ctx context.Context, plan *models.Plan) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// Cascades to the old sessions and prescriptions.
	if _, err := tx.ExecContext(ctx, `DELETE FROM plans WHERE id = ?`, plan.ID.String()); err != nil {
		return fmt.Errorf("replacing plan: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO plans (id, name, start_date) VALUES (?, ?, ?)`,
		plan.ID.String(), plan.Name, plan.StartDate.UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("inserting plan: %w", err)
	}

	for _, ws := range plan.Sessions {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO workout_sessions (id, plan_id, week, day, name, phase, completed)
			 VALUES (?,?,?,?,?,?,?)`,
			ws.ID.String(), plan.ID.String(), ws.Week, ws.Day, ws.Name, string(ws.Phase), ws.Completed); err != nil {
			return fmt.Errorf("inserting session: %w", err)
		}
		for _, we := range ws.Exercises {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO workout_exercises (session_id, position, exercise_id, sets, reps, load)
				 VALUES (?,?,?,?,?,?)`,
				ws.ID.String(), we.Position, we.ExerciseID, we.Sets, we.Reps, we.Load); err != nil {
				return fmt.Errorf("inserting prescription: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing plan: %w", err)
	}
	return nil
}

// GetPlan loads a plan with its sessions in (week, day) order. Returns
// models.ErrNotFound if the plan does not exist.
func (s *Store) GetPlan(ctx context.Context, id uuid.UUID) (*models.Plan, error) {
	plan := &models.Plan{ID: id}
	var start string
	err := s.db.QueryRowContext(ctx,
		`SELECT name, start_date FROM plans WHERE id = ?`, id.String()).Scan(&plan.Name, &start)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying plan: %w", err)
	}
	if plan.StartDate, err = time.Parse(time.RFC3339Nano, start); err != nil {
		return nil, fmt.Errorf("parsing start date: %w", err)
	}

	if err := s.loadSessions(ctx, plan); err != nil {
		return nil, err
	}
	exerciseIDs, err := s.loadPrescriptions(ctx, plan)
	if err != nil {
		return nil, err
	}
	if len(exerciseIDs) == 0 {
		return plan, nil
	}

	args := make([]any, len(exerciseIDs))
	for i, eid := range exerciseIDs {
		args[i] = eid
	}
	exercises, err := s.queryExercises(ctx,
		`SELECT `+exerciseColumns+` FROM exercises WHERE id IN (`+placeholders(len(args))+`) ORDER BY id`, args...)
	if err != nil {
		return nil, err
	}
	shared := make(map[string]*models.Exercise, len(exercises))
	for i := range exercises {
		shared[exercises[i].ID] = &exercises[i]
	}
	for _, ws := range plan.Sessions {
		for i := range ws.Exercises {
			ws.Exercises[i].Exercise = shared[ws.Exercises[i].ExerciseID]
		}
	}
	return plan, nil
}

func (s *Store) loadSessions(ctx context.Context, plan *models.Plan) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, week, day, name, phase, completed FROM workout_sessions
		 WHERE plan_id = ? ORDER BY week, day`, plan.ID.String())
	if err != nil {
		return fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		ws := &models.WorkoutSession{Exercises: []models.WorkoutExercise{}}
		var id, phase string
		if err := rows.Scan(&id, &ws.Week, &ws.Day, &ws.Name, &phase, &ws.Completed); err != nil {
			return fmt.Errorf("scanning session: %w", err)
		}
		if ws.ID, err = uuid.Parse(id); err != nil {
			return fmt.Errorf("parsing session id: %w", err)
		}
		ws.Phase = models.Phase(phase)
		plan.Sessions = append(plan.Sessions, ws)
	}
	return rows.Err()
}

// loadPrescriptions attaches prescriptions to the plan's sessions and returns
// the distinct exercise IDs they reference.
func (s *Store) loadPrescriptions(ctx context.Context, plan *models.Plan) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT we.session_id, we.position, we.exercise_id, we.sets, we.reps, we.load
		 FROM workout_exercises we
		 JOIN workout_sessions ws ON ws.id = we.session_id
		 WHERE ws.plan_id = ?
		 ORDER BY we.session_id, we.position`, plan.ID.String())
	if err != nil {
		return nil, fmt.Errorf("querying prescriptions: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]*models.WorkoutSession, len(plan.Sessions))
	for _, ws := range plan.Sessions {
		byID[ws.ID.String()] = ws
	}

	var ids []string
	seen := make(map[string]bool)
	for rows.Next() {
		var (
			sessionID string
			we        models.WorkoutExercise
		)
		if err := rows.Scan(&sessionID, &we.Position, &we.ExerciseID, &we.Sets, &we.Reps, &we.Load); err != nil {
			return nil, fmt.Errorf("scanning prescription: %w", err)
		}
		if ws, ok := byID[sessionID]; ok {
			ws.Exercises = append(ws.Exercises, we)
		}
		if !seen[we.ExerciseID] {
			seen[we.ExerciseID] = true
			ids = append(ids, we.ExerciseID)
		}
	}
	return ids, rows.Err()
}

// ListPlans returns plan summaries, newest first.
func (s *Store) ListPlans(ctx context.Context) ([]models.PlanSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT p.id, p.name, p.start_date,
		        COUNT(ws.id),
		        COALESCE(SUM(ws.completed), 0)
		 FROM plans p
		 LEFT JOIN workout_sessions ws ON ws.plan_id = p.id
		 GROUP BY p.id
		 ORDER BY p.created_at DESC, p.rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying plans: %w", err)
	}
	defer rows.Close()

	var result []models.PlanSummary
	for rows.Next() {
		var (
			p         models.PlanSummary
			id, start string
		)
		if err := rows.Scan(&id, &p.Name, &start, &p.SessionCount, &p.Completed); err != nil {
			return nil, fmt.Errorf("scanning plan: %w", err)
		}
		if p.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parsing plan id: %w", err)
		}
		if p.StartDate, err = time.Parse(time.RFC3339Nano, start); err != nil {
			return nil, fmt.Errorf("parsing start date: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

// DeletePlan removes a plan and everything it owns.
func (s *Store) DeletePlan(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM plans WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("deleting plan: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// SetSessionCompleted marks a session of a plan as completed or not.
func (s *Store) SetSessionCompleted(ctx context.Context, planID, sessionID uuid.UUID, completed bool) error {
	var completedAt any
	if completed {
		completedAt = time.Now().UTC().Format(time.RFC3339Nano)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE workout_sessions SET completed = ?, completed_at = ? WHERE id = ? AND plan_id = ?`,
		completed, completedAt, sessionID.String(), planID.String())
	if err != nil {
		return fmt.Errorf("updating session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrNotFound
	}
	return nil
}
