package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/tock/internal/domain"
)

type TimerRepo interface {
	Create(ctx context.Context, t *domain.Timer) error
	GetByID(ctx context.Context, id string) (*domain.Timer, error)
	GetByName(ctx context.Context, name string) (*domain.Timer, error)
	List(ctx context.Context) ([]*domain.Timer, error)
	Update(ctx context.Context, t *domain.Timer) error
	Delete(ctx context.Context, id string) error
}

// RangeFilter selects sessions whose start lies in [From, To]. With
// IncludeActive set, sessions that started before From and are still
// running are selected too; otherwise only completed sessions match.
type RangeFilter struct {
	From          time.Time
	To            time.Time
	IncludeActive bool
}

type SessionRepo interface {
	Create(ctx context.Context, s *domain.Session) error
	GetByID(ctx context.Context, id string) (*domain.Session, error)
	ListByIDPrefix(ctx context.Context, prefix string, limit int) ([]*domain.Session, error)
	GetActiveByTimer(ctx context.Context, timerID string) (*domain.Session, error)
	ListActive(ctx context.Context) ([]*domain.Session, error)
	ListByTimer(ctx context.Context, timerID string) ([]*domain.Session, error)
	ListInRange(ctx context.Context, f RangeFilter) ([]*domain.Session, error)
	LatestCompletedEnd(ctx context.Context) (*time.Time, error)
	Close(ctx context.Context, id string, end time.Time) error
	Delete(ctx context.Context, id string) error
	DeleteByTimer(ctx context.Context, timerID string) (int64, error)
}
