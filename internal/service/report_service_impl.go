package service

import (
	"context"
	"time"

	"github.com/alexanderramin/tock/internal/aggregate"
	"github.com/alexanderramin/tock/internal/clock"
	"github.com/alexanderramin/tock/internal/db"
	"github.com/alexanderramin/tock/internal/domain"
	"github.com/alexanderramin/tock/internal/repository"
)

type reportService struct {
	sessions repository.SessionRepo
	uow      db.UnitOfWork
	clock    clock.Clock
	loc      *time.Location
	observer UseCaseObserver
}

// NewReportService builds the range query engine. Day buckets are cut at
// midnight in loc; nil means time.Local.
func NewReportService(sessions repository.SessionRepo, uow db.UnitOfWork, clk clock.Clock, loc *time.Location, observers ...UseCaseObserver) ReportService {
	if loc == nil {
		loc = time.Local
	}
	return &reportService{
		sessions: sessions,
		uow:      uow,
		clock:    clk,
		loc:      loc,
		observer: useCaseObserverOrNoop(observers),
	}
}

// SessionsInRange groups the sessions selected by the range predicates. An
// inverted range selects nothing, running sessions included.
func (s *reportService) SessionsInRange(ctx context.Context, from, to time.Time, includeActive bool) (*aggregate.Grouping, error) {
	if to.Before(from) {
		return aggregate.NewGrouping(nil, nil), nil
	}

	var g *aggregate.Grouping
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var err error
		g, err = groupInRange(ctx, tx, repository.RangeFilter{
			From:          domain.Truncate(from),
			To:            domain.Truncate(to),
			IncludeActive: includeActive,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

// Summary selects sessions like SessionsInRange and folds them into totals
// as of the clock's now. Per-timer totals use whole session durations; day
// totals only count time inside [from, min(to, now)].
func (s *reportService) Summary(ctx context.Context, from, to time.Time, includeActive bool) (summary *Summary, err error) {
	startedAt := time.Now()
	fields := map[string]any{"from": from.Unix(), "to": to.Unix(), "include_active": includeActive}
	defer func() {
		if summary != nil {
			fields["sessions"] = summary.Grouping.Len()
		}
		observe(ctx, s.observer, "report", startedAt, err, fields)
	}()

	g, err := s.SessionsInRange(ctx, from, to, includeActive)
	if err != nil {
		return nil, err
	}

	now := domain.Truncate(s.clock.Now())
	window := aggregate.Window{From: from, To: to}
	if now.Before(window.To) {
		window.To = now
	}
	return &Summary{
		From:     from,
		To:       to,
		Now:      now,
		Grouping: g,
		Timers:   aggregate.TotalsByTimer(g, now),
		Days:     aggregate.ByDay(g, now, s.loc, window),
		Total:    aggregate.Total(g, now),
	}, nil
}

func (s *reportService) LatestCompletedEnd(ctx context.Context) (*time.Time, error) {
	return NewChronologyValidator(s.sessions).LatestCompletedEnd(ctx)
}

// groupInRange reads the sessions and the timers that own them from one
// snapshot.
func groupInRange(ctx context.Context, tx db.DBTX, f repository.RangeFilter) (*aggregate.Grouping, error) {
	sessions, err := repository.NewSQLiteSessionRepo(tx).ListInRange(ctx, f)
	if err != nil {
		return nil, err
	}
	timers, err := repository.NewSQLiteTimerRepo(tx).List(ctx)
	if err != nil {
		return nil, err
	}
	return aggregate.NewGrouping(timers, sessions), nil
}
