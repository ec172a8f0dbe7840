package service

import (
	"context"
	"time"

	"github.com/alexanderramin/tock/internal/aggregate"
	"github.com/alexanderramin/tock/internal/domain"
)

// TimerService is the timer registry.
type TimerService interface {
	GetByName(ctx context.Context, name string) (*domain.Timer, error)
	Create(ctx context.Context, name, color string) (*domain.Timer, error)
	GetOrCreate(ctx context.Context, name string) (*domain.Timer, bool, error)
	List(ctx context.Context) ([]*domain.Timer, error)
	Rename(ctx context.Context, oldName, newName string) (*domain.Timer, error)
	SetColor(ctx context.Context, name, color string) (*domain.Timer, error)
	Delete(ctx context.Context, name string) (int64, error)
}

// StartResult is the outcome of starting or manually recording a session.
type StartResult struct {
	Session     *domain.Session
	Timer       *domain.Timer
	AutoCreated bool
}

// ActiveSession pairs a running session with its timer.
type ActiveSession struct {
	Session *domain.Session
	Timer   *domain.Timer
}

// SessionService manages the session lifecycle of every timer.
type SessionService interface {
	Start(ctx context.Context, timerName string, at *time.Time) (*StartResult, error)
	Stop(ctx context.Context, timerName string, at *time.Time) (*domain.Session, error)
	CreateManual(ctx context.Context, timerName string, start, end time.Time) (*StartResult, error)
	Delete(ctx context.Context, sessionID string) error
	GetByID(ctx context.Context, sessionID string) (*domain.Session, error)
	Resolve(ctx context.Context, idOrPrefix string) (*domain.Session, error)
	Active(ctx context.Context) ([]ActiveSession, error)
	ListByTimer(ctx context.Context, timerName string) ([]*domain.Session, error)
}

// Summary is a range report: the selected sessions plus their totals.
type Summary struct {
	From     time.Time
	To       time.Time
	Now      time.Time
	Grouping *aggregate.Grouping
	Timers   []aggregate.TimerTotal
	Days     []aggregate.DayTotal
	Total    time.Duration
}

// ReportService answers read-only range queries.
type ReportService interface {
	SessionsInRange(ctx context.Context, from, to time.Time, includeActive bool) (*aggregate.Grouping, error)
	Summary(ctx context.Context, from, to time.Time, includeActive bool) (*Summary, error)
	LatestCompletedEnd(ctx context.Context) (*time.Time, error)
}
