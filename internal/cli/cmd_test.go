package cli

import (
	"bytes"
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/alexanderramin/tock/internal/clock"
	"github.com/alexanderramin/tock/internal/domain"
	"github.com/alexanderramin/tock/internal/repository"
	"github.com/alexanderramin/tock/internal/service"
	"github.com/alexanderramin/tock/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func plain(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// testApp wires a full App over an in-memory DB. The clock starts at
// testutil.Epoch (2025-06-02 09:00 UTC) and days are cut in UTC.
func testApp(t *testing.T) (*App, *clock.Manual) {
	t.Helper()
	db := testutil.NewTestDB(t)
	clk := clock.NewManual(testutil.Epoch)

	timers := repository.NewSQLiteTimerRepo(db)
	sessions := repository.NewSQLiteSessionRepo(db)
	uow := testutil.NewTestUoW(db)

	return &App{
		Timers:        service.NewTimerService(timers, uow, clk, ""),
		Sessions:      service.NewSessionService(timers, sessions, uow, clk, ""),
		Reports:       service.NewReportService(sessions, uow, clk, time.UTC),
		Clock:         clk,
		Location:      time.UTC,
		IsInteractive: func() bool { return false },
	}, clk
}

// executeCmd runs the root command with args and returns the ANSI-free
// combined output.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return plain(buf.String()), err
}

func mustExec(t *testing.T, app *App, args ...string) string {
	t.Helper()
	out, err := executeCmd(t, app, args...)
	require.NoError(t, err, "tock %v\n%s", args, out)
	return out
}

func TestStartStop(t *testing.T) {
	app, clk := testApp(t)

	out := mustExec(t, app, "start", "work")
	assert.Contains(t, out, "Created timer ● work")
	assert.Contains(t, out, "Started ● work at 2025-06-02 09:00:00")

	clk.Advance(90 * time.Minute)
	out = mustExec(t, app, "stop", "work")
	assert.Contains(t, out, "Stopped work after 1h 30m")

	out = mustExec(t, app, "start", "work")
	assert.NotContains(t, out, "Created timer", "second start reuses the timer")
}

func TestStart_AlreadyRunning(t *testing.T) {
	app, _ := testApp(t)

	mustExec(t, app, "start", "work")
	_, err := executeCmd(t, app, "start", "work")
	assert.ErrorIs(t, err, domain.ErrAlreadyRunning)
}

func TestStart_ChronologyViolationNamesLatestEnd(t *testing.T) {
	app, _ := testApp(t)

	mustExec(t, app, "start", "work", "--at", "09:00")
	mustExec(t, app, "stop", "work", "--at", "10:00")

	_, err := executeCmd(t, app, "start", "music", "--at", "09:30")
	require.ErrorIs(t, err, domain.ErrChronologyViolation)
	assert.Contains(t, err.Error(), "2025-06-02 10:00:00")

	mustExec(t, app, "start", "music", "--at", "10:00")
}

func TestStop_Errors(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "stop", "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	mustExec(t, app, "timer", "create", "work")
	_, err = executeCmd(t, app, "stop", "work")
	assert.ErrorIs(t, err, domain.ErrNotRunning)

	mustExec(t, app, "start", "work", "--at", "08:00")
	_, err = executeCmd(t, app, "stop", "work", "--at", "07:59")
	require.ErrorIs(t, err, domain.ErrInvalidStopTime)
	assert.Contains(t, err.Error(), "2025-06-02 08:00:00")
}

func TestStart_BadTimeFlag(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "start", "work", "--at", "yesterday-ish")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unrecognized time")
}

func TestStatus(t *testing.T) {
	app, clk := testApp(t)

	out := mustExec(t, app, "status")
	assert.Contains(t, out, "No timers running.")

	mustExec(t, app, "session", "add", "music", "--start", "07:00", "--end", "08:00")
	mustExec(t, app, "start", "work")
	clk.Advance(65 * time.Minute)

	out = mustExec(t, app, "status")
	assert.Contains(t, out, "● work")
	assert.Contains(t, out, "1h 05m")
	assert.Contains(t, out, "1 hour ago")
	assert.Contains(t, out, "Last stop: 2025-06-02 08:00:00")
	assert.NotContains(t, out, "music")
}

func TestTimerCommands(t *testing.T) {
	app, _ := testApp(t)

	out := mustExec(t, app, "timer", "create", "work", "--color", "8EC07C")
	assert.Contains(t, out, "Created timer ● work")

	_, err := executeCmd(t, app, "timer", "create", "work")
	assert.ErrorIs(t, err, domain.ErrDuplicateName)

	mustExec(t, app, "timer", "create", "music")
	out = mustExec(t, app, "timer", "list")
	assert.Regexp(t, `(?s)music.*#f5f5f4.*work.*#8ec07c`, out)

	out = mustExec(t, app, "timer", "rename", "work", "deep work")
	assert.Contains(t, out, "Renamed work to ● deep work")

	out = mustExec(t, app, "timer", "color", "deep work", "#fabd2f")
	assert.Contains(t, out, "is now #fabd2f")

	_, err = executeCmd(t, app, "timer", "color", "music", "blue")
	assert.ErrorIs(t, err, domain.ErrInvalidColor)
}

func TestTimerCreate_UsesConfiguredDefaultColor(t *testing.T) {
	app, _ := testApp(t)
	app.DefaultColor = "#83a598"

	mustExec(t, app, "timer", "create", "work")
	timer, err := app.Timers.GetByName(context.Background(), "work")
	require.NoError(t, err)
	assert.Equal(t, "#83a598", timer.Color)
}

func TestTimerDelete_RequiresForceWithSessions(t *testing.T) {
	app, _ := testApp(t)

	mustExec(t, app, "session", "add", "work", "--start", "07:00", "--end", "08:00")

	_, err := executeCmd(t, app, "timer", "delete", "work")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")

	out := mustExec(t, app, "timer", "delete", "work", "--force")
	assert.Contains(t, out, "Deleted timer work and 1 sessions")

	mustExec(t, app, "timer", "create", "empty")
	mustExec(t, app, "timer", "delete", "empty")
}

func TestSessionAdd(t *testing.T) {
	app, _ := testApp(t)

	out := mustExec(t, app, "session", "add", "work", "--start", "2025-06-02 07:00", "--end", "2025-06-02 09:00")
	assert.Contains(t, out, "Created timer ● work")
	assert.Contains(t, out, "Recorded 2h 00m for ● work")

	_, err := executeCmd(t, app, "session", "add", "work", "--start", "09:00", "--end", "08:00")
	assert.ErrorIs(t, err, domain.ErrInvalidRange)

	_, err = executeCmd(t, app, "session", "add", "work", "--start", "09:00")
	assert.Error(t, err, "--end is required")
}

func TestSessionListAndRemove(t *testing.T) {
	app, _ := testApp(t)
	ctx := context.Background()

	mustExec(t, app, "session", "add", "work", "--start", "06:00", "--end", "07:00")
	mustExec(t, app, "session", "add", "music", "--start", "07:00", "--end", "07:30")
	mustExec(t, app, "start", "work", "--at", "08:00")

	out := mustExec(t, app, "session", "list")
	assert.Regexp(t, `(?s)work.*06:00:00.*music.*07:00:00.*work.*08:00:00.*running`, out)

	out = mustExec(t, app, "session", "list", "--timer", "music")
	assert.Contains(t, out, "music")
	assert.NotContains(t, out, "work")

	sessions, err := app.Sessions.ListByTimer(ctx, "music")
	require.NoError(t, err)
	require.Len(t, sessions, 1)

	out = mustExec(t, app, "session", "remove", sessions[0].ID)
	assert.Contains(t, out, "Deleted session")

	_, err = executeCmd(t, app, "session", "remove", sessions[0].ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSessionRemove_ByListedShortID(t *testing.T) {
	app, _ := testApp(t)
	ctx := context.Background()

	mustExec(t, app, "session", "add", "work", "--start", "-2h", "--end", "-1h")
	mustExec(t, app, "session", "add", "music", "--start", "-1h", "--end", "-30m")

	out := mustExec(t, app, "session", "list", "--timer", "music")
	m := regexp.MustCompile(`(?m)^([0-9a-f]{8})\s+● music`).FindStringSubmatch(out)
	require.Len(t, m, 2, "short id in:\n%s", out)

	out = mustExec(t, app, "session", "remove", m[1])
	assert.Contains(t, out, "Deleted session "+m[1])

	music, err := app.Sessions.ListByTimer(ctx, "music")
	require.NoError(t, err)
	assert.Empty(t, music)
	work, err := app.Sessions.ListByTimer(ctx, "work")
	require.NoError(t, err)
	assert.Len(t, work, 1, "other sessions are untouched")

	_, err = executeCmd(t, app, "session", "remove", m[1])
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSessionRemove_BlankID(t *testing.T) {
	app, _ := testApp(t)

	mustExec(t, app, "session", "add", "work", "--start", "-2h", "--end", "-1h")

	_, err := executeCmd(t, app, "session", "remove", " ")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	sessions, err := app.Sessions.ListByTimer(context.Background(), "work")
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
}

func TestSessionList_RangeValidation(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "session", "list", "--from", "10:00", "--to", "09:00")
	assert.ErrorIs(t, err, domain.ErrInvalidRange)
}

func TestSessionEdit_RequiresTerminal(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "session", "edit")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "interactive terminal")
}

func TestReport_ByTimer(t *testing.T) {
	app, clk := testApp(t)

	mustExec(t, app, "session", "add", "work", "--start", "06:00", "--end", "08:00")
	mustExec(t, app, "start", "music", "--at", "08:00")
	clk.Set(testutil.Epoch.Add(30 * time.Minute)) // 09:30

	out := mustExec(t, app, "report")
	assert.Contains(t, out, "REPORT")
	assert.Contains(t, out, "2025-06-02 00:00:00 → 2025-06-02 09:30:00")
	assert.Regexp(t, `work\s+1\s+2h 00m`, out)
	assert.Regexp(t, `music running\s+1\s+1h 30m`, out)
	assert.Regexp(t, `total\s+3h 30m`, out)

	out = mustExec(t, app, "report", "--active=false")
	assert.NotContains(t, out, "music")
}

func TestReport_ByDay(t *testing.T) {
	app, _ := testApp(t)

	mustExec(t, app, "session", "add", "work", "--start", "2025-06-01 23:00", "--end", "2025-06-02 01:00")

	out := mustExec(t, app, "report", "--by", "day", "--from", "2025-06-01")
	assert.Regexp(t, `Sun 2025-06-01\s+1h 00m`, out)
	assert.Regexp(t, `Mon 2025-06-02\s+1h 00m`, out)

	_, err := executeCmd(t, app, "report", "--by", "week")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--by")
}
