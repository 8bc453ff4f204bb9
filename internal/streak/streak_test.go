package streak

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// StreakSuite tests streak continuity across zoned day boundaries.
//
// Justification: the engine's only hard part is timezone-aware day arithmetic
// with a grace window; boundary instants must be pinned precisely.
type StreakSuite struct {
	suite.Suite
}

func TestStreakSuite(t *testing.T) {
	suite.Run(t, new(StreakSuite))
}

func ptr(t time.Time) *time.Time { return &t }

func (s *StreakSuite) TestCalculate_FirstActivity() {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	s.Equal(1, Calculate(nil, 0, "UTC", now))
	s.Equal(1, Calculate(nil, 42, "UTC", now))
}

func (s *StreakSuite) TestCalculate_SameDayIsIdempotent() {
	now := time.Date(2025, 6, 15, 22, 30, 0, 0, time.UTC)
	last := time.Date(2025, 6, 15, 1, 0, 0, 0, time.UTC)

	for range 3 {
		s.Equal(7, Calculate(ptr(last), 7, "UTC", now))
	}
}

func (s *StreakSuite) TestCalculate_YesterdayExtends() {
	now := time.Date(2025, 6, 15, 0, 5, 0, 0, time.UTC)
	last := time.Date(2025, 6, 14, 23, 55, 0, 0, time.UTC)

	// Ten minutes apart but across the day boundary.
	s.Equal(8, Calculate(ptr(last), 7, "UTC", now))
}

func (s *StreakSuite) TestCalculate_GapResets() {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	s.Run("two day gap", func() {
		last := time.Date(2025, 6, 13, 12, 0, 0, 0, time.UTC)
		s.Equal(1, Calculate(ptr(last), 30, "UTC", now))
	})

	s.Run("long gap", func() {
		last := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
		s.Equal(1, Calculate(ptr(last), 100, "UTC", now))
	})
}

func (s *StreakSuite) TestCalculate_ZonedDayBoundary() {
	// 2025-06-15 03:00 UTC is still 2025-06-14 23:00 in New York. A learner
	// active the prior NY evening must count as "today", not "yesterday".
	now := time.Date(2025, 6, 15, 3, 0, 0, 0, time.UTC)
	last := time.Date(2025, 6, 15, 1, 0, 0, 0, time.UTC) // 21:00 NY on the 14th

	s.Equal(5, Calculate(ptr(last), 5, "America/New_York", now))
	// Under UTC the same instants straddle midnight and extend the streak.
	s.Equal(6, Calculate(ptr(last), 5, "UTC", now))
}

func (s *StreakSuite) TestCalculate_DSTSpringForward() {
	// US spring-forward: 2025-03-09 local day is only 23 hours long.
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(s.T(), err)

	last := time.Date(2025, 3, 8, 20, 0, 0, 0, loc)
	now := time.Date(2025, 3, 9, 20, 0, 0, 0, loc)

	s.Equal(4, Calculate(ptr(last), 3, "America/New_York", now))
}

func (s *StreakSuite) TestCalculate_DSTFallBack() {
	// US fall-back: 2025-11-02 local day is 25 hours long.
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(s.T(), err)

	last := time.Date(2025, 11, 1, 20, 0, 0, 0, loc)
	now := time.Date(2025, 11, 2, 20, 0, 0, 0, loc)

	s.Equal(4, Calculate(ptr(last), 3, "America/New_York", now))
}

func (s *StreakSuite) TestCalculate_InvalidTimezoneFallsBackToUTC() {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	last := time.Date(2025, 6, 14, 12, 0, 0, 0, time.UTC)

	s.Equal(3, Calculate(ptr(last), 2, "Not/AZone", now))
}

func (s *StreakSuite) TestCalculate_NegativeStreakClamped() {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	last := time.Date(2025, 6, 14, 12, 0, 0, 0, time.UTC)

	s.Equal(1, Calculate(ptr(last), -5, "UTC", now))
}

func (s *StreakSuite) TestShouldBreak() {
	s.Run("no activity yet", func() {
		now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
		s.False(ShouldBreak(nil, "UTC", now))
	})

	s.Run("active today", func() {
		now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
		last := time.Date(2025, 6, 15, 8, 0, 0, 0, time.UTC)
		s.False(ShouldBreak(ptr(last), "UTC", now))
	})

	s.Run("active yesterday", func() {
		now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
		last := time.Date(2025, 6, 14, 8, 0, 0, 0, time.UTC)
		s.False(ShouldBreak(ptr(last), "UTC", now))
	})

	s.Run("two day gap breaks", func() {
		now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
		last := time.Date(2025, 6, 13, 8, 0, 0, 0, time.UTC)
		s.True(ShouldBreak(ptr(last), "UTC", now))
	})

	s.Run("grace window keeps yesterday alive", func() {
		now := time.Date(2025, 6, 15, 2, 59, 0, 0, time.UTC)
		last := time.Date(2025, 6, 14, 23, 0, 0, 0, time.UTC)
		s.False(ShouldBreak(ptr(last), "UTC", now))
	})

	s.Run("grace window does not save a two day gap", func() {
		now := time.Date(2025, 6, 15, 1, 0, 0, 0, time.UTC)
		last := time.Date(2025, 6, 13, 23, 0, 0, 0, time.UTC)
		s.True(ShouldBreak(ptr(last), "UTC", now))
	})

	s.Run("grace window uses the local clock", func() {
		// 00:00 UTC on the 15th is 02:00 in Berlin: inside Berlin's grace
		// window with yesterday's activity, so not flagged.
		now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
		last := time.Date(2025, 6, 14, 6, 0, 0, 0, time.UTC) // 08:00 Berlin on the 14th
		s.False(ShouldBreak(ptr(last), "Europe/Berlin", now))
	})
}

func TestApplyFreeze(t *testing.T) {
	tests := []struct {
		name    string
		streak  int
		freezes int
		want    FreezeResult
	}{
		{"freeze available preserves streak", 12, 1, FreezeResult{Streak: 12, FreezesRemaining: 0, FreezeUsed: true}},
		{"multiple freezes consume one", 30, 3, FreezeResult{Streak: 30, FreezesRemaining: 2, FreezeUsed: true}},
		{"no freeze resets to one", 12, 0, FreezeResult{Streak: 1, FreezesRemaining: 0, FreezeUsed: false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ApplyFreeze(tt.streak, tt.freezes))
		})
	}
}

func TestRewardFor_MilestoneExactness(t *testing.T) {
	wantByDay := map[int]Reward{
		7:   {XP: 500, Badge: "week_warrior"},
		14:  {XP: 1000, Badge: "two_week_champion"},
		30:  {XP: 2500, Badge: "monthly_master"},
		100: {XP: 10000, Badge: "centurion"},
	}

	// Scan the full range: every non-milestone day gets the zero reward, day
	// 15 included even though it exceeds day 14's milestone.
	for d := -10; d <= 200; d++ {
		got := RewardFor(d)
		if want, ok := wantByDay[d]; ok {
			assert.Equal(t, want, got, "day %d", d)
			continue
		}
		assert.Equal(t, Reward{}, got, "day %d should earn nothing", d)
	}
}
