// Package localstore is an embedded SQLite exercise library and plan store
// for running without a Postgres server.
package localstore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/claude/mesoplan/internal/library"
	"github.com/claude/mesoplan/internal/selector"
	_ "modernc.org/sqlite"
)

// Store wraps a SQLite database file.
type Store struct {
	db *sql.DB
}

var (
	_ selector.Library = (*Store)(nil)
	_ library.Store    = (*Store)(nil)
)

const schema = `
CREATE TABLE IF NOT EXISTS exercises (
	id                  TEXT PRIMARY KEY,
	name                TEXT NOT NULL,
	short_name          TEXT NOT NULL DEFAULT '',
	category            TEXT NOT NULL,
	pattern             TEXT NOT NULL DEFAULT '',
	equipment           TEXT NOT NULL DEFAULT '[]',
	primary_muscle      TEXT NOT NULL DEFAULT '',
	default_tempo       TEXT NOT NULL DEFAULT '',
	tier                INTEGER NOT NULL DEFAULT 0,
	is_competition_lift INTEGER NOT NULL DEFAULT 0,
	is_user_created     INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS exercise_secondary_muscles (
	exercise_id TEXT NOT NULL REFERENCES exercises (id) ON DELETE CASCADE,
	position    INTEGER NOT NULL,
	muscle      TEXT NOT NULL,
	factor      REAL NOT NULL,
	PRIMARY KEY (exercise_id, position)
);
CREATE TABLE IF NOT EXISTS plans (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	start_date TEXT NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS workout_sessions (
	id           TEXT PRIMARY KEY,
	plan_id      TEXT NOT NULL REFERENCES plans (id) ON DELETE CASCADE,
	week         INTEGER NOT NULL,
	day          INTEGER NOT NULL,
	name         TEXT NOT NULL,
	phase        TEXT NOT NULL DEFAULT '',
	completed    INTEGER NOT NULL DEFAULT 0,
	completed_at TEXT
);
CREATE TABLE IF NOT EXISTS workout_exercises (
	session_id  TEXT NOT NULL REFERENCES workout_sessions (id) ON DELETE CASCADE,
	position    INTEGER NOT NULL,
	exercise_id TEXT NOT NULL REFERENCES exercises (id),
	sets        INTEGER NOT NULL,
	reps        TEXT NOT NULL,
	load        TEXT NOT NULL,
	PRIMARY KEY (session_id, position)
);
`

// Open opens (or creates) the database at dir/mesoplan.db.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "mesoplan.db")
	db, err := sql.Open("sqlite", "file:"+dbPath+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening local db: %w", err)
	}
	// One writer at a time; SQLite serializes anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database is usable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
