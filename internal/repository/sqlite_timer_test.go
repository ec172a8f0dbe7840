package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/tock/internal/domain"
	"github.com/alexanderramin/tock/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimerRepo_CreateAndGet(t *testing.T) {
	repo := NewSQLiteTimerRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	timer := testutil.NewTestTimer("work", testutil.WithColor("#83a598"))
	require.NoError(t, repo.Create(ctx, timer))

	byID, err := repo.GetByID(ctx, timer.ID)
	require.NoError(t, err)
	assert.Equal(t, "work", byID.Name)
	assert.Equal(t, "#83a598", byID.Color)
	assert.Equal(t, testutil.Epoch, byID.CreatedAt)

	byName, err := repo.GetByName(ctx, "work")
	require.NoError(t, err)
	assert.Equal(t, timer.ID, byName.ID)
}

func TestTimerRepo_GetByName_IsCaseSensitive(t *testing.T) {
	repo := NewSQLiteTimerRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestTimer("work")))

	_, err := repo.GetByName(ctx, "Work")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTimerRepo_Create_DuplicateName(t *testing.T) {
	repo := NewSQLiteTimerRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestTimer("work")))
	err := repo.Create(ctx, testutil.NewTestTimer("work"))
	assert.ErrorIs(t, err, domain.ErrDuplicateName)
}

func TestTimerRepo_List_OrderedByName(t *testing.T) {
	repo := NewSQLiteTimerRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	for _, name := range []string{"reading", "music", "work"} {
		require.NoError(t, repo.Create(ctx, testutil.NewTestTimer(name)))
	}

	timers, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, timers, 3)
	assert.Equal(t, "music", timers[0].Name)
	assert.Equal(t, "reading", timers[1].Name)
	assert.Equal(t, "work", timers[2].Name)
}

func TestTimerRepo_Update(t *testing.T) {
	repo := NewSQLiteTimerRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	work := testutil.NewTestTimer("work")
	music := testutil.NewTestTimer("music")
	require.NoError(t, repo.Create(ctx, work))
	require.NoError(t, repo.Create(ctx, music))

	work.Name = "deep work"
	work.Color = "#fabd2f"
	require.NoError(t, repo.Update(ctx, work))

	got, err := repo.GetByID(ctx, work.ID)
	require.NoError(t, err)
	assert.Equal(t, "deep work", got.Name)
	assert.Equal(t, "#fabd2f", got.Color)

	music.Name = "deep work"
	assert.ErrorIs(t, repo.Update(ctx, music), domain.ErrDuplicateName)

	ghost := testutil.NewTestTimer("ghost")
	assert.ErrorIs(t, repo.Update(ctx, ghost), domain.ErrNotFound)
}

func TestTimerRepo_Delete(t *testing.T) {
	repo := NewSQLiteTimerRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	timer := testutil.NewTestTimer("work")
	require.NoError(t, repo.Create(ctx, timer))
	require.NoError(t, repo.Delete(ctx, timer.ID))

	_, err := repo.GetByID(ctx, timer.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, timer.ID), domain.ErrNotFound)
}
