package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ihiteshgupta/learnflow/internal/progress"
	"github.com/ihiteshgupta/learnflow/internal/progress/store"
)

func seed(t *testing.T, st *store.InMemoryStore, userID string, streakDays, freezes int, lastActive time.Time) {
	t.Helper()
	require.NoError(t, st.Save(context.Background(), &progress.UserProgress{
		UserID:           userID,
		CurrentStreak:    streakDays,
		LongestStreak:    streakDays,
		LastActiveAt:     &lastActive,
		FreezesAvailable: freezes,
		Timezone:         "UTC",
	}))
}

func TestRunOnce(t *testing.T) {
	st := store.NewInMemory()
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	seed(t, st, "frozen", 5, 1, now.AddDate(0, 0, -2))
	seed(t, st, "broken", 5, 0, now.AddDate(0, 0, -2))
	seed(t, st, "active-today", 3, 0, now.Add(-time.Hour))
	seed(t, st, "active-yesterday", 3, 0, now.AddDate(0, 0, -1))

	sweeper, err := New(st)
	require.NoError(t, err)

	res, err := sweeper.RunOnce(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, 4, res.Scanned)
	assert.Equal(t, 1, res.FreezesConsumed)
	assert.Equal(t, 1, res.StreaksBroken)

	frozen, err := st.Get(context.Background(), "frozen")
	require.NoError(t, err)
	assert.Equal(t, 5, frozen.CurrentStreak, "the freeze preserves the streak")
	assert.Zero(t, frozen.FreezesAvailable)
	assert.Equal(t, now, *frozen.LastActiveAt, "the freeze covers the missed day")

	broken, err := st.Get(context.Background(), "broken")
	require.NoError(t, err)
	assert.Zero(t, broken.CurrentStreak)
	assert.Equal(t, 5, broken.LongestStreak, "longest streak survives the reset")

	for _, userID := range []string{"active-today", "active-yesterday"} {
		p, err := st.Get(context.Background(), userID)
		require.NoError(t, err)
		assert.Equal(t, 3, p.CurrentStreak)
	}
}

func TestRunOnce_SecondSweepChargesNothing(t *testing.T) {
	st := store.NewInMemory()
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	seed(t, st, "frozen", 5, 2, now.AddDate(0, 0, -2))

	sweeper, err := New(st)
	require.NoError(t, err)

	res, err := sweeper.RunOnce(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 1, res.FreezesConsumed)

	res, err = sweeper.RunOnce(context.Background(), now.Add(time.Hour))
	require.NoError(t, err)
	assert.Zero(t, res.FreezesConsumed)

	p, err := st.Get(context.Background(), "frozen")
	require.NoError(t, err)
	assert.Equal(t, 1, p.FreezesAvailable)
}

func TestRunOnce_GraceWindowSkipsYesterday(t *testing.T) {
	st := store.NewInMemory()
	// 02:30 local: yesterday's activity is still inside the grace window.
	now := time.Date(2025, 6, 15, 2, 30, 0, 0, time.UTC)
	seed(t, st, "night-owl", 4, 0, now.AddDate(0, 0, -1))

	sweeper, err := New(st)
	require.NoError(t, err)

	res, err := sweeper.RunOnce(context.Background(), now)
	require.NoError(t, err)
	assert.Zero(t, res.StreaksBroken)
}

func TestRunOnce_ZeroStreaksUntouched(t *testing.T) {
	st := store.NewInMemory()
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	seed(t, st, "dormant", 0, 1, now.AddDate(0, 0, -30))

	sweeper, err := New(st)
	require.NoError(t, err)

	res, err := sweeper.RunOnce(context.Background(), now)
	require.NoError(t, err)
	assert.Zero(t, res.FreezesConsumed)
	assert.Zero(t, res.StreaksBroken)

	p, err := st.Get(context.Background(), "dormant")
	require.NoError(t, err)
	assert.Equal(t, 1, p.FreezesAvailable, "no freeze is wasted on an already-broken streak")
}

func TestNew_RequiresStore(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}
