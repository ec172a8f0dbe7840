package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/tock/internal/clock"
	"github.com/alexanderramin/tock/internal/db"
	"github.com/alexanderramin/tock/internal/domain"
	"github.com/alexanderramin/tock/internal/repository"
	"github.com/google/uuid"
)

type timerService struct {
	timers       repository.TimerRepo
	uow          db.UnitOfWork
	clock        clock.Clock
	defaultColor string
	observer     UseCaseObserver
}

// NewTimerService builds the timer registry. defaultColor is given to
// timers created without a color; empty means domain.DefaultColor.
func NewTimerService(timers repository.TimerRepo, uow db.UnitOfWork, clk clock.Clock, defaultColor string, observers ...UseCaseObserver) TimerService {
	return &timerService{
		timers:       timers,
		uow:          uow,
		clock:        clk,
		defaultColor: defaultColor,
		observer:     useCaseObserverOrNoop(observers),
	}
}

func (s *timerService) GetByName(ctx context.Context, name string) (*domain.Timer, error) {
	return s.timers.GetByName(ctx, lookupName(name))
}

func (s *timerService) List(ctx context.Context) ([]*domain.Timer, error) {
	return s.timers.List(ctx)
}

func (s *timerService) Create(ctx context.Context, name, color string) (timer *domain.Timer, err error) {
	startedAt := time.Now()
	fields := map[string]any{"timer": name}
	defer func() { observe(ctx, s.observer, "create-timer", startedAt, err, fields) }()

	if strings.TrimSpace(color) == "" {
		color = s.defaultColor
	}
	timer, err = newTimer(name, color, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if err = s.timers.Create(ctx, timer); err != nil {
		return nil, err
	}
	return timer, nil
}

func (s *timerService) GetOrCreate(ctx context.Context, name string) (timer *domain.Timer, created bool, err error) {
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var txErr error
		timer, created, txErr = getOrCreateTimer(ctx, repository.NewSQLiteTimerRepo(tx), name, s.defaultColor, s.clock.Now())
		return txErr
	})
	if err != nil {
		return nil, false, err
	}
	return timer, created, nil
}

func (s *timerService) Rename(ctx context.Context, oldName, newName string) (timer *domain.Timer, err error) {
	startedAt := time.Now()
	fields := map[string]any{"timer": oldName, "new_name": newName}
	defer func() { observe(ctx, s.observer, "rename-timer", startedAt, err, fields) }()

	newName, err = domain.NormalizeName(newName)
	if err != nil {
		return nil, err
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		timers := repository.NewSQLiteTimerRepo(tx)
		t, err := timers.GetByName(ctx, lookupName(oldName))
		if err != nil {
			return err
		}
		if t.Name == newName {
			timer = t
			return nil
		}
		t.Name = newName
		if err := timers.Update(ctx, t); err != nil {
			return err
		}
		timer = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return timer, nil
}

func (s *timerService) SetColor(ctx context.Context, name, color string) (timer *domain.Timer, err error) {
	color, err = domain.NormalizeColor(color)
	if err != nil {
		return nil, err
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		timers := repository.NewSQLiteTimerRepo(tx)
		t, err := timers.GetByName(ctx, lookupName(name))
		if err != nil {
			return err
		}
		t.Color = color
		if err := timers.Update(ctx, t); err != nil {
			return err
		}
		timer = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return timer, nil
}

// Delete removes a timer and all of its sessions. Sessions are deleted
// explicitly first; the foreign-key cascade is only a backstop.
func (s *timerService) Delete(ctx context.Context, name string) (removed int64, err error) {
	startedAt := time.Now()
	fields := map[string]any{"timer": name}
	defer func() {
		fields["sessions_removed"] = removed
		observe(ctx, s.observer, "delete-timer", startedAt, err, fields)
	}()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		timers := repository.NewSQLiteTimerRepo(tx)
		sessions := repository.NewSQLiteSessionRepo(tx)

		t, err := timers.GetByName(ctx, lookupName(name))
		if err != nil {
			return err
		}
		n, err := sessions.DeleteByTimer(ctx, t.ID)
		if err != nil {
			return err
		}
		if err := timers.Delete(ctx, t.ID); err != nil {
			return err
		}
		removed = n
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// lookupName applies the same trimming as NormalizeName so a name that
// created a timer also finds it. Blank names simply match nothing.
func lookupName(name string) string {
	return strings.TrimSpace(name)
}

// newTimer validates name and color and builds a timer with a fresh id.
func newTimer(name, color string, now time.Time) (*domain.Timer, error) {
	name, err := domain.NormalizeName(name)
	if err != nil {
		return nil, err
	}
	color, err = domain.NormalizeColor(color)
	if err != nil {
		return nil, err
	}
	return &domain.Timer{
		ID:        uuid.New().String(),
		Name:      name,
		Color:     color,
		CreatedAt: domain.Truncate(now),
	}, nil
}

// getOrCreateTimer looks a timer up by name and creates it with color
// (empty for domain.DefaultColor) when absent. Callers run it inside a unit of work so lookup and
// insert are one atomic step.
func getOrCreateTimer(ctx context.Context, timers repository.TimerRepo, name, color string, now time.Time) (*domain.Timer, bool, error) {
	name, err := domain.NormalizeName(name)
	if err != nil {
		return nil, false, err
	}

	t, err := timers.GetByName(ctx, name)
	if err == nil {
		return t, false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, false, err
	}

	t, err = newTimer(name, color, now)
	if err != nil {
		return nil, false, err
	}
	if err := timers.Create(ctx, t); err != nil {
		return nil, false, fmt.Errorf("auto-creating timer: %w", err)
	}
	return t, true, nil
}
