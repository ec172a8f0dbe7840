package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/tock/internal/db"
	"github.com/alexanderramin/tock/internal/domain"
)

// SQLiteSessionRepo implements SessionRepo using a SQLite database.
type SQLiteSessionRepo struct {
	db db.DBTX
}

// NewSQLiteSessionRepo creates a new SQLiteSessionRepo.
func NewSQLiteSessionRepo(db db.DBTX) *SQLiteSessionRepo {
	return &SQLiteSessionRepo{db: db}
}

const sessionColumns = `id, timer_id, started_at, ended_at, created_at`

func (r *SQLiteSessionRepo) Create(ctx context.Context, s *domain.Session) error {
	query := `INSERT INTO sessions (id, timer_id, started_at, ended_at, created_at)
		VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.TimerID,
		toUnix(s.Start),
		nullableUnix(s.End),
		toUnix(s.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) && s.End == nil {
			return fmt.Errorf("timer %s: %w", s.TimerID, domain.ErrAlreadyRunning)
		}
		return fmt.Errorf("inserting session: %w", err)
	}
	return nil
}

func (r *SQLiteSessionRepo) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id)
	return r.scanSession(row)
}

// ListByIDPrefix returns up to limit sessions whose id starts with prefix.
// The prefix is compared literally, so % and _ carry no meaning.
func (r *SQLiteSessionRepo) ListByIDPrefix(ctx context.Context, prefix string, limit int) ([]*domain.Session, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+sessionColumns+` FROM sessions
		WHERE substr(id, 1, length(?)) = ? ORDER BY id LIMIT ?`, prefix, prefix, limit)
	if err != nil {
		return nil, fmt.Errorf("listing sessions by id prefix: %w", err)
	}
	defer rows.Close()
	return r.scanSessions(rows)
}

// GetActiveByTimer returns the running session of a timer, or ErrNotFound.
func (r *SQLiteSessionRepo) GetActiveByTimer(ctx context.Context, timerID string) (*domain.Session, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE timer_id = ? AND ended_at IS NULL`, timerID)
	return r.scanSession(row)
}

func (r *SQLiteSessionRepo) ListActive(ctx context.Context) ([]*domain.Session, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE ended_at IS NULL ORDER BY started_at, id`)
	if err != nil {
		return nil, fmt.Errorf("listing active sessions: %w", err)
	}
	defer rows.Close()
	return r.scanSessions(rows)
}

func (r *SQLiteSessionRepo) ListByTimer(ctx context.Context, timerID string) ([]*domain.Session, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE timer_id = ? ORDER BY started_at, id`, timerID)
	if err != nil {
		return nil, fmt.Errorf("listing sessions by timer: %w", err)
	}
	defer rows.Close()
	return r.scanSessions(rows)
}

func (r *SQLiteSessionRepo) ListInRange(ctx context.Context, f RangeFilter) ([]*domain.Session, error) {
	from, to := toUnix(f.From), toUnix(f.To)

	var rows *sql.Rows
	var err error
	if f.IncludeActive {
		rows, err = r.db.QueryContext(ctx, `SELECT `+sessionColumns+` FROM sessions
			WHERE (started_at >= ? AND started_at <= ?)
			   OR (started_at < ? AND ended_at IS NULL)
			ORDER BY started_at, id`, from, to, from)
	} else {
		rows, err = r.db.QueryContext(ctx, `SELECT `+sessionColumns+` FROM sessions
			WHERE started_at >= ? AND started_at <= ? AND ended_at IS NOT NULL
			ORDER BY started_at, id`, from, to)
	}
	if err != nil {
		return nil, fmt.Errorf("listing sessions in range: %w", err)
	}
	defer rows.Close()
	return r.scanSessions(rows)
}

// LatestCompletedEnd returns the greatest end over all completed sessions,
// or nil when no session has ever been stopped.
func (r *SQLiteSessionRepo) LatestCompletedEnd(ctx context.Context) (*time.Time, error) {
	var latest sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		`SELECT MAX(ended_at) FROM sessions WHERE ended_at IS NOT NULL`).Scan(&latest)
	if err != nil {
		return nil, fmt.Errorf("reading latest completed end: %w", err)
	}
	return parseNullableUnix(latest), nil
}

// Close sets the end of a running session. A closed session is never
// rewritten, so ErrNotFound is returned for unknown or already closed ids.
func (r *SQLiteSessionRepo) Close(ctx context.Context, id string, end time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET ended_at = ? WHERE id = ? AND ended_at IS NULL`, toUnix(end), id)
	if err != nil {
		return fmt.Errorf("closing session: %w", err)
	}
	return expectOneRow(res, fmt.Errorf("running session %s: %w", id, domain.ErrNotFound))
}

func (r *SQLiteSessionRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return expectOneRow(res, fmt.Errorf("session %s: %w", id, domain.ErrNotFound))
}

// DeleteByTimer removes every session of a timer and reports how many went.
func (r *SQLiteSessionRepo) DeleteByTimer(ctx context.Context, timerID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE timer_id = ?`, timerID)
	if err != nil {
		return 0, fmt.Errorf("deleting sessions by timer: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting deleted sessions: %w", err)
	}
	return n, nil
}

// scanSession scans a single session from a *sql.Row.
func (r *SQLiteSessionRepo) scanSession(row *sql.Row) (*domain.Session, error) {
	var s domain.Session
	var start, createdAt int64
	var end sql.NullInt64

	if err := row.Scan(&s.ID, &s.TimerID, &start, &end, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("session: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("scanning session: %w", err)
	}
	populateSession(&s, start, end, createdAt)
	return &s, nil
}

// scanSessions scans multiple sessions from *sql.Rows.
func (r *SQLiteSessionRepo) scanSessions(rows *sql.Rows) ([]*domain.Session, error) {
	var sessions []*domain.Session
	for rows.Next() {
		var s domain.Session
		var start, createdAt int64
		var end sql.NullInt64

		if err := rows.Scan(&s.ID, &s.TimerID, &start, &end, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning session row: %w", err)
		}
		populateSession(&s, start, end, createdAt)
		sessions = append(sessions, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sessions: %w", err)
	}
	return sessions, nil
}

// populateSession fills the time fields of a Session from raw columns.
func populateSession(s *domain.Session, start int64, end sql.NullInt64, createdAt int64) {
	s.Start = fromUnix(start)
	s.End = parseNullableUnix(end)
	s.CreatedAt = fromUnix(createdAt)
}
