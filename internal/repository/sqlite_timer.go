package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/tock/internal/db"
	"github.com/alexanderramin/tock/internal/domain"
)

// SQLiteTimerRepo implements TimerRepo using a SQLite database.
type SQLiteTimerRepo struct {
	db db.DBTX
}

// NewSQLiteTimerRepo creates a new SQLiteTimerRepo.
func NewSQLiteTimerRepo(db db.DBTX) *SQLiteTimerRepo {
	return &SQLiteTimerRepo{db: db}
}

const timerColumns = `id, name, color, created_at`

func (r *SQLiteTimerRepo) Create(ctx context.Context, t *domain.Timer) error {
	query := `INSERT INTO timers (id, name, color, created_at) VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, t.ID, t.Name, t.Color, toUnix(t.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("timer %q: %w", t.Name, domain.ErrDuplicateName)
		}
		return fmt.Errorf("inserting timer: %w", err)
	}
	return nil
}

func (r *SQLiteTimerRepo) GetByID(ctx context.Context, id string) (*domain.Timer, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+timerColumns+` FROM timers WHERE id = ?`, id)
	return r.scanTimer(row, id)
}

func (r *SQLiteTimerRepo) GetByName(ctx context.Context, name string) (*domain.Timer, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+timerColumns+` FROM timers WHERE name = ?`, name)
	return r.scanTimer(row, name)
}

func (r *SQLiteTimerRepo) List(ctx context.Context) ([]*domain.Timer, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+timerColumns+` FROM timers ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing timers: %w", err)
	}
	defer rows.Close()

	var timers []*domain.Timer
	for rows.Next() {
		var t domain.Timer
		var createdAt int64
		if err := rows.Scan(&t.ID, &t.Name, &t.Color, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning timer row: %w", err)
		}
		t.CreatedAt = fromUnix(createdAt)
		timers = append(timers, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating timers: %w", err)
	}
	return timers, nil
}

// Update writes the mutable fields (name, color) of an existing timer.
func (r *SQLiteTimerRepo) Update(ctx context.Context, t *domain.Timer) error {
	res, err := r.db.ExecContext(ctx, `UPDATE timers SET name = ?, color = ? WHERE id = ?`, t.Name, t.Color, t.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("timer %q: %w", t.Name, domain.ErrDuplicateName)
		}
		return fmt.Errorf("updating timer: %w", err)
	}
	return expectOneRow(res, fmt.Errorf("timer %s: %w", t.ID, domain.ErrNotFound))
}

func (r *SQLiteTimerRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM timers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting timer: %w", err)
	}
	return expectOneRow(res, fmt.Errorf("timer %s: %w", id, domain.ErrNotFound))
}

func (r *SQLiteTimerRepo) scanTimer(row *sql.Row, key string) (*domain.Timer, error) {
	var t domain.Timer
	var createdAt int64
	if err := row.Scan(&t.ID, &t.Name, &t.Color, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("timer %q: %w", key, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("scanning timer: %w", err)
	}
	t.CreatedAt = fromUnix(createdAt)
	return &t, nil
}
