package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/tock/internal/clock"
	"github.com/alexanderramin/tock/internal/db"
	"github.com/alexanderramin/tock/internal/domain"
	"github.com/alexanderramin/tock/internal/repository"
	"github.com/google/uuid"
)

type sessionService struct {
	timers       repository.TimerRepo
	sessions     repository.SessionRepo
	uow          db.UnitOfWork
	clock        clock.Clock
	defaultColor string
	observer     UseCaseObserver
}

// NewSessionService builds the lifecycle manager. Timers it creates on
// first use get defaultColor.
func NewSessionService(timers repository.TimerRepo, sessions repository.SessionRepo, uow db.UnitOfWork, clk clock.Clock, defaultColor string, observers ...UseCaseObserver) SessionService {
	return &sessionService{
		timers:       timers,
		sessions:     sessions,
		uow:          uow,
		clock:        clk,
		defaultColor: defaultColor,
		observer:     useCaseObserverOrNoop(observers),
	}
}

// Start opens a session for the named timer, creating the timer on first
// use. An explicit at must not precede the latest completed session end of
// any timer.
func (s *sessionService) Start(ctx context.Context, timerName string, at *time.Time) (result *StartResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{"timer": timerName, "explicit_start": at != nil}
	defer func() {
		if result != nil {
			fields["session_id"] = result.Session.ID
			fields["auto_created"] = result.AutoCreated
		}
		observe(ctx, s.observer, "start", startedAt, err, fields)
	}()

	now := s.clock.Now()
	start := domain.Truncate(now)
	if at != nil {
		start = domain.Truncate(*at)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		timers := repository.NewSQLiteTimerRepo(tx)
		sessions := repository.NewSQLiteSessionRepo(tx)

		timer, created, err := getOrCreateTimer(ctx, timers, timerName, s.defaultColor, now)
		if err != nil {
			return err
		}
		if !created {
			if _, err := sessions.GetActiveByTimer(ctx, timer.ID); err == nil {
				return fmt.Errorf("timer %q: %w", timer.Name, domain.ErrAlreadyRunning)
			} else if !isNotFound(err) {
				return err
			}
		}
		if at != nil {
			if err := NewChronologyValidator(sessions).ValidateStart(ctx, start); err != nil {
				return err
			}
		}

		session := &domain.Session{
			ID:        uuid.New().String(),
			TimerID:   timer.ID,
			Start:     start,
			CreatedAt: domain.Truncate(now),
		}
		if err := sessions.Create(ctx, session); err != nil {
			return err
		}
		result = &StartResult{Session: session, Timer: timer, AutoCreated: created}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Stop closes the running session of the named timer. An explicit at must
// be strictly after that session's start.
func (s *sessionService) Stop(ctx context.Context, timerName string, at *time.Time) (session *domain.Session, err error) {
	startedAt := time.Now()
	fields := map[string]any{"timer": timerName, "explicit_stop": at != nil}
	defer func() {
		if session != nil {
			fields["session_id"] = session.ID
			fields["duration_s"] = int64(session.Duration(s.clock.Now()).Seconds())
		}
		observe(ctx, s.observer, "stop", startedAt, err, fields)
	}()

	stop := s.clock.Now()
	if at != nil {
		stop = *at
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		timers := repository.NewSQLiteTimerRepo(tx)
		sessions := repository.NewSQLiteSessionRepo(tx)

		timer, err := timers.GetByName(ctx, lookupName(timerName))
		if err != nil {
			return err
		}
		open, err := sessions.GetActiveByTimer(ctx, timer.ID)
		if err != nil {
			if isNotFound(err) {
				return fmt.Errorf("timer %q: %w", timer.Name, domain.ErrNotRunning)
			}
			return err
		}
		if err := open.Close(stop); err != nil {
			return err
		}
		if err := sessions.Close(ctx, open.ID, *open.End); err != nil {
			return err
		}
		session = open
		return nil
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// CreateManual records a closed session in one step. The range is validated
// before the timer is created so a rejected entry leaves no trace. Backfilled
// entries are not held to the forward chronology of Start.
func (s *sessionService) CreateManual(ctx context.Context, timerName string, start, end time.Time) (result *StartResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{"timer": timerName}
	defer func() {
		if result != nil {
			fields["session_id"] = result.Session.ID
			fields["auto_created"] = result.AutoCreated
		}
		observe(ctx, s.observer, "create-manual", startedAt, err, fields)
	}()

	start, end = domain.Truncate(start), domain.Truncate(end)
	if !end.After(start) {
		return nil, fmt.Errorf("%s to %s: %w",
			start.Format(time.RFC3339), end.Format(time.RFC3339), domain.ErrInvalidRange)
	}

	now := s.clock.Now()
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		timers := repository.NewSQLiteTimerRepo(tx)
		sessions := repository.NewSQLiteSessionRepo(tx)

		timer, created, err := getOrCreateTimer(ctx, timers, timerName, s.defaultColor, now)
		if err != nil {
			return err
		}
		session := &domain.Session{
			ID:        uuid.New().String(),
			TimerID:   timer.ID,
			Start:     start,
			End:       &end,
			CreatedAt: domain.Truncate(now),
		}
		if err := sessions.Create(ctx, session); err != nil {
			return err
		}
		result = &StartResult{Session: session, Timer: timer, AutoCreated: created}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Delete removes one session, running or closed. The owning timer is left
// untouched.
func (s *sessionService) Delete(ctx context.Context, sessionID string) (err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "delete-session", startedAt, err, map[string]any{"session_id": sessionID})
	}()

	return s.sessions.Delete(ctx, sessionID)
}

func (s *sessionService) GetByID(ctx context.Context, sessionID string) (*domain.Session, error) {
	return s.sessions.GetByID(ctx, sessionID)
}

// Resolve finds a session by full id or by a unique id prefix such as the
// short ids printed in listings.
func (s *sessionService) Resolve(ctx context.Context, idOrPrefix string) (*domain.Session, error) {
	idOrPrefix = strings.TrimSpace(idOrPrefix)
	if idOrPrefix == "" {
		return nil, fmt.Errorf("session id is empty: %w", domain.ErrNotFound)
	}

	sess, err := s.sessions.GetByID(ctx, idOrPrefix)
	if err == nil {
		return sess, nil
	}
	if !isNotFound(err) {
		return nil, err
	}

	matches, err := s.sessions.ListByIDPrefix(ctx, idOrPrefix, 2)
	if err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("session %s: %w", idOrPrefix, domain.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("session %s: %w", idOrPrefix, domain.ErrAmbiguousID)
	}
}

// Active lists running sessions with their timers, oldest first.
func (s *sessionService) Active(ctx context.Context) ([]ActiveSession, error) {
	var active []ActiveSession
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		timers := repository.NewSQLiteTimerRepo(tx)
		running, err := repository.NewSQLiteSessionRepo(tx).ListActive(ctx)
		if err != nil {
			return err
		}
		for _, sess := range running {
			timer, err := timers.GetByID(ctx, sess.TimerID)
			if err != nil {
				return err
			}
			active = append(active, ActiveSession{Session: sess, Timer: timer})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return active, nil
}

func (s *sessionService) ListByTimer(ctx context.Context, timerName string) ([]*domain.Session, error) {
	timer, err := s.timers.GetByName(ctx, lookupName(timerName))
	if err != nil {
		return nil, err
	}
	return s.sessions.ListByTimer(ctx, timer.ID)
}
