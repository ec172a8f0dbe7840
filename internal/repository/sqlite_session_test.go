package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/tock/internal/domain"
	"github.com/alexanderramin/tock/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sessionTestSetup creates two timers that session tests can record against.
func sessionTestSetup(t *testing.T) (*SQLiteSessionRepo, *domain.Timer, *domain.Timer) {
	t.Helper()
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	timers := NewSQLiteTimerRepo(db)
	work := testutil.NewTestTimer("work")
	music := testutil.NewTestTimer("music")
	require.NoError(t, timers.Create(ctx, work))
	require.NoError(t, timers.Create(ctx, music))

	return NewSQLiteSessionRepo(db), work, music
}

func sessionIDs(sessions []*domain.Session) []string {
	ids := make([]string, 0, len(sessions))
	for _, s := range sessions {
		ids = append(ids, s.ID)
	}
	return ids
}

func TestSessionRepo_CreateAndGetByID(t *testing.T) {
	repo, work, _ := sessionTestSetup(t)
	ctx := context.Background()

	closed := testutil.NewTestSession(work.ID, testutil.Epoch, testutil.WithDuration(45*time.Minute))
	require.NoError(t, repo.Create(ctx, closed))

	got, err := repo.GetByID(ctx, closed.ID)
	require.NoError(t, err)
	assert.Equal(t, work.ID, got.TimerID)
	assert.Equal(t, testutil.Epoch, got.Start)
	require.NotNil(t, got.End)
	assert.Equal(t, testutil.Epoch.Add(45*time.Minute), *got.End)

	open := testutil.NewTestSession(work.ID, testutil.Epoch.Add(time.Hour))
	require.NoError(t, repo.Create(ctx, open))
	got, err = repo.GetByID(ctx, open.ID)
	require.NoError(t, err)
	assert.Nil(t, got.End)
}

func TestSessionRepo_GetByID_NotFound(t *testing.T) {
	repo, _, _ := sessionTestSetup(t)

	_, err := repo.GetByID(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSessionRepo_SecondActiveSessionRejected(t *testing.T) {
	repo, work, music := sessionTestSetup(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestSession(work.ID, testutil.Epoch)))
	err := repo.Create(ctx, testutil.NewTestSession(work.ID, testutil.Epoch.Add(time.Minute)))
	assert.ErrorIs(t, err, domain.ErrAlreadyRunning)

	require.NoError(t, repo.Create(ctx, testutil.NewTestSession(music.ID, testutil.Epoch)))
}

func TestSessionRepo_GetActiveByTimer(t *testing.T) {
	repo, work, music := sessionTestSetup(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestSession(work.ID, testutil.Epoch, testutil.WithDuration(time.Hour))))
	open := testutil.NewTestSession(work.ID, testutil.Epoch.Add(2*time.Hour))
	require.NoError(t, repo.Create(ctx, open))

	got, err := repo.GetActiveByTimer(ctx, work.ID)
	require.NoError(t, err)
	assert.Equal(t, open.ID, got.ID)

	_, err = repo.GetActiveByTimer(ctx, music.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSessionRepo_Close(t *testing.T) {
	repo, work, _ := sessionTestSetup(t)
	ctx := context.Background()

	open := testutil.NewTestSession(work.ID, testutil.Epoch)
	require.NoError(t, repo.Create(ctx, open))

	end := testutil.Epoch.Add(time.Hour)
	require.NoError(t, repo.Close(ctx, open.ID, end))

	got, err := repo.GetByID(ctx, open.ID)
	require.NoError(t, err)
	require.NotNil(t, got.End)
	assert.Equal(t, end, *got.End)

	// Closed sessions are immutable.
	assert.ErrorIs(t, repo.Close(ctx, open.ID, end.Add(time.Hour)), domain.ErrNotFound)
}

func TestSessionRepo_LatestCompletedEnd(t *testing.T) {
	repo, work, music := sessionTestSetup(t)
	ctx := context.Background()

	latest, err := repo.LatestCompletedEnd(ctx)
	require.NoError(t, err)
	assert.Nil(t, latest, "no completed sessions yet")

	require.NoError(t, repo.Create(ctx, testutil.NewTestSession(work.ID, testutil.Epoch, testutil.WithDuration(3*time.Hour))))
	require.NoError(t, repo.Create(ctx, testutil.NewTestSession(music.ID, testutil.Epoch, testutil.WithDuration(time.Hour))))
	// Running sessions never count.
	require.NoError(t, repo.Create(ctx, testutil.NewTestSession(music.ID, testutil.Epoch.Add(5*time.Hour))))

	latest, err = repo.LatestCompletedEnd(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, testutil.Epoch.Add(3*time.Hour), *latest)
}

func TestSessionRepo_ListInRange(t *testing.T) {
	repo, work, music := sessionTestSetup(t)
	ctx := context.Background()
	day := 24 * time.Hour
	t0 := testutil.Epoch

	straddling := testutil.NewTestSession(work.ID, t0.Add(-day))
	inside := testutil.NewTestSession(music.ID, t0.Add(time.Hour), testutil.WithDuration(time.Hour))
	insideOpen := testutil.NewTestSession(music.ID, t0.Add(3*time.Hour))
	before := testutil.NewTestSession(music.ID, t0.Add(-2*day), testutil.WithDuration(time.Hour))
	after := testutil.NewTestSession(work.ID, t0.Add(2*day), testutil.WithDuration(time.Hour))
	onUpperBound := testutil.NewTestSession(music.ID, t0.Add(day).Add(-2*time.Hour), testutil.WithEnd(t0.Add(day)))
	for _, s := range []*domain.Session{straddling, inside, before, after, onUpperBound} {
		require.NoError(t, repo.Create(ctx, s))
	}
	// music already has a closed session; the open one is created after.
	require.NoError(t, repo.Create(ctx, insideOpen))

	withActive, err := repo.ListInRange(ctx, RangeFilter{From: t0, To: t0.Add(day), IncludeActive: true})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{straddling.ID, inside.ID, insideOpen.ID, onUpperBound.ID}, sessionIDs(withActive))

	completed, err := repo.ListInRange(ctx, RangeFilter{From: t0, To: t0.Add(day)})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{inside.ID, onUpperBound.ID}, sessionIDs(completed))
}

func TestSessionRepo_ListInRange_StraddlingClosedSessionExcluded(t *testing.T) {
	repo, work, _ := sessionTestSetup(t)
	ctx := context.Background()
	t0 := testutil.Epoch

	s := testutil.NewTestSession(work.ID, t0.Add(-24*time.Hour), testutil.WithEnd(t0.Add(2*time.Hour)))
	require.NoError(t, repo.Create(ctx, s))

	for _, includeActive := range []bool{true, false} {
		got, err := repo.ListInRange(ctx, RangeFilter{From: t0, To: t0.Add(24 * time.Hour), IncludeActive: includeActive})
		require.NoError(t, err)
		assert.Empty(t, got, "includeActive=%v", includeActive)
	}
}

func TestSessionRepo_DeleteAndDeleteByTimer(t *testing.T) {
	repo, work, music := sessionTestSetup(t)
	ctx := context.Background()

	a := testutil.NewTestSession(work.ID, testutil.Epoch, testutil.WithDuration(time.Hour))
	b := testutil.NewTestSession(work.ID, testutil.Epoch.Add(2*time.Hour))
	c := testutil.NewTestSession(music.ID, testutil.Epoch, testutil.WithDuration(time.Hour))
	for _, s := range []*domain.Session{a, b, c} {
		require.NoError(t, repo.Create(ctx, s))
	}

	require.NoError(t, repo.Delete(ctx, c.ID))
	_, err := repo.GetByID(ctx, c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, c.ID), domain.ErrNotFound)

	n, err := repo.DeleteByTimer(ctx, work.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	left, err := repo.ListByTimer(ctx, work.ID)
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestSessionRepo_ListByIDPrefix(t *testing.T) {
	repo, work, music := sessionTestSetup(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestSession(work.ID, testutil.Epoch,
		testutil.WithID("ab12cd34-0000-4000-8000-000000000001"), testutil.WithDuration(time.Hour))))
	require.NoError(t, repo.Create(ctx, testutil.NewTestSession(music.ID, testutil.Epoch,
		testutil.WithID("ab12ff00-0000-4000-8000-000000000002"), testutil.WithDuration(time.Hour))))

	got, err := repo.ListByIDPrefix(ctx, "ab12cd", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"ab12cd34-0000-4000-8000-000000000001"}, sessionIDs(got))

	got, err = repo.ListByIDPrefix(ctx, "ab12", 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = repo.ListByIDPrefix(ctx, "ab12", 1)
	require.NoError(t, err)
	assert.Len(t, got, 1, "limit applies")

	got, err = repo.ListByIDPrefix(ctx, "ab%", 2)
	require.NoError(t, err)
	assert.Empty(t, got, "wildcards match literally")

	got, err = repo.ListByIDPrefix(ctx, "ff", 2)
	require.NoError(t, err)
	assert.Empty(t, got)
}
