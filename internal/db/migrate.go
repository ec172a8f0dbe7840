package db

import (
	"database/sql"
	"fmt"
)

// Migrate creates the ledger schema. Every statement is idempotent, so it
// runs on each open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS timers (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL UNIQUE,
		color      TEXT NOT NULL DEFAULT '#f5f5f4',
		created_at INTEGER NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS sessions (
		id         TEXT PRIMARY KEY,
		timer_id   TEXT NOT NULL REFERENCES timers(id) ON DELETE CASCADE,
		started_at INTEGER NOT NULL,
		ended_at   INTEGER CHECK(ended_at IS NULL OR ended_at > started_at),
		created_at INTEGER NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_sessions_timer ON sessions(timer_id)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_started ON sessions(started_at)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_ended ON sessions(ended_at)`,

	// At most one running session per timer.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_sessions_active_timer
		ON sessions(timer_id) WHERE ended_at IS NULL`,
}
