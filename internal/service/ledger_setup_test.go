package service

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexanderramin/tock/internal/clock"
	"github.com/alexanderramin/tock/internal/db"
	"github.com/alexanderramin/tock/internal/repository"
	"github.com/alexanderramin/tock/internal/testutil"
	"github.com/stretchr/testify/require"
)

type ledger struct {
	db       *sql.DB
	clock    *clock.Manual
	timers   *repository.SQLiteTimerRepo
	sessions *repository.SQLiteSessionRepo
	uow      db.UnitOfWork
	events   *recordingObserver

	defaultColor string

	Timers   TimerService
	Sessions SessionService
	Reports  ReportService
}

// setupLedger wires every service over a fresh in-memory database. The
// clock starts at testutil.Epoch.
func setupLedger(t *testing.T) *ledger {
	t.Helper()
	return newLedger(testutil.NewTestDB(t), testutil.NewTestUoW)
}

// setupFileLedger is setupLedger over a file-backed database, for tests that
// drive the services from several goroutines.
func setupFileLedger(t *testing.T) *ledger {
	t.Helper()
	database, err := db.OpenDB(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return newLedger(database, testutil.NewTestUoW)
}

func newLedger(database *sql.DB, newUoW func(*sql.DB) db.UnitOfWork) *ledger {
	l := &ledger{
		db:       database,
		clock:    clock.NewManual(testutil.Epoch),
		timers:   repository.NewSQLiteTimerRepo(database),
		sessions: repository.NewSQLiteSessionRepo(database),
		uow:      newUoW(database),
		events:   &recordingObserver{},
	}
	l.wire()
	return l
}

// withUoW rewires the services over another unit of work, e.g. a failing one.
func (l *ledger) withUoW(uow db.UnitOfWork) *ledger {
	l.uow = uow
	l.wire()
	return l
}

// withDefaultColor rewires the services with a configured timer color.
func (l *ledger) withDefaultColor(color string) *ledger {
	l.defaultColor = color
	l.wire()
	return l
}

func (l *ledger) wire() {
	l.Timers = NewTimerService(l.timers, l.uow, l.clock, l.defaultColor, l.events)
	l.Sessions = NewSessionService(l.timers, l.sessions, l.uow, l.clock, l.defaultColor, l.events)
	l.Reports = NewReportService(l.sessions, l.uow, l.clock, time.UTC, l.events)
}

// at returns testutil.Epoch shifted by the given number of seconds.
func at(seconds int64) time.Time {
	return testutil.Epoch.Add(time.Duration(seconds) * time.Second)
}

func ptrAt(seconds int64) *time.Time {
	return testutil.Ptr(at(seconds))
}
