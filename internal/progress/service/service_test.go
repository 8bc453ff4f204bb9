package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/ihiteshgupta/learnflow/internal/progress"
	"github.com/ihiteshgupta/learnflow/internal/progress/store"
	"github.com/ihiteshgupta/learnflow/internal/xp"
	pkgerrors "github.com/ihiteshgupta/learnflow/pkg/domain-errors"
	"github.com/ihiteshgupta/learnflow/pkg/requestcontext"
)

type ServiceSuite struct {
	suite.Suite

	store *store.InMemoryStore
	svc   *Service
}

func (s *ServiceSuite) SetupTest() {
	s.store = store.NewInMemory()
	s.svc = NewService(s.store)
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) ctxAt(t time.Time) context.Context {
	return requestcontext.WithTime(context.Background(), t)
}

func (s *ServiceSuite) TestFirstActivity() {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	res, err := s.svc.RecordActivity(s.ctxAt(now), "user-1", progress.ActivityEvent{
		Kind: xp.ActivityLessonComplete,
	})
	s.Require().NoError(err)

	s.Equal(1, res.CurrentStreak)
	// 50 base with the day-1 streak bonus: round(50 * 1.01).
	s.Equal(51, res.AwardedXP)
	s.Equal(51, res.TotalXP)
	s.Equal(1, res.Level)
	s.Empty(res.BadgeEarned)

	p, err := s.store.Get(context.Background(), "user-1")
	s.Require().NoError(err)
	s.Equal(now, *p.LastActiveAt)
	s.Equal(1, p.FreezesAvailable, "new learners start with the onboarding freeze")
}

func (s *ServiceSuite) TestConsecutiveDaysExtendStreak() {
	day1 := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		_, err := s.svc.RecordActivity(s.ctxAt(day1.AddDate(0, 0, i)), "user-1",
			progress.ActivityEvent{Kind: xp.ActivityLessonComplete})
		s.Require().NoError(err)
	}

	p, err := s.store.Get(context.Background(), "user-1")
	s.Require().NoError(err)
	s.Equal(3, p.CurrentStreak)
	s.Equal(3, p.LongestStreak)
}

func (s *ServiceSuite) TestSameDayActivityKeepsStreak() {
	now := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)

	_, err := s.svc.RecordActivity(s.ctxAt(now), "user-1",
		progress.ActivityEvent{Kind: xp.ActivityLessonComplete})
	s.Require().NoError(err)

	res, err := s.svc.RecordActivity(s.ctxAt(now.Add(4*time.Hour)), "user-1",
		progress.ActivityEvent{Kind: xp.ActivityQuizPass})
	s.Require().NoError(err)
	s.Equal(1, res.CurrentStreak)
}

func (s *ServiceSuite) TestGapResetsStreakButKeepsLongest() {
	day1 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		_, err := s.svc.RecordActivity(s.ctxAt(day1.AddDate(0, 0, i)), "user-1",
			progress.ActivityEvent{Kind: xp.ActivityLessonComplete})
		s.Require().NoError(err)
	}

	res, err := s.svc.RecordActivity(s.ctxAt(day1.AddDate(0, 0, 10)), "user-1",
		progress.ActivityEvent{Kind: xp.ActivityLessonComplete})
	s.Require().NoError(err)
	s.Equal(1, res.CurrentStreak)

	p, err := s.store.Get(context.Background(), "user-1")
	s.Require().NoError(err)
	s.Equal(5, p.LongestStreak)
}

func (s *ServiceSuite) TestMilestoneAwardedOnce() {
	day1 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	var day7 *progress.ActivityResult
	for i := 0; i < 7; i++ {
		res, err := s.svc.RecordActivity(s.ctxAt(day1.AddDate(0, 0, i)), "user-1",
			progress.ActivityEvent{Kind: xp.ActivityLessonComplete})
		s.Require().NoError(err)
		day7 = res
	}

	s.Equal(7, day7.CurrentStreak)
	s.Equal("week_warrior", day7.BadgeEarned)
	s.Equal(500, day7.MilestoneXP)

	// A second activity the same day sees streak 7 again but must not
	// re-award the milestone.
	repeat, err := s.svc.RecordActivity(s.ctxAt(day1.AddDate(0, 0, 6).Add(time.Hour)), "user-1",
		progress.ActivityEvent{Kind: xp.ActivityQuizPass})
	s.Require().NoError(err)
	s.Empty(repeat.BadgeEarned)
	s.Zero(repeat.MilestoneXP)

	p, err := s.store.Get(context.Background(), "user-1")
	s.Require().NoError(err)
	s.Equal([]string{"week_warrior"}, p.Badges)
}

func (s *ServiceSuite) TestStreakFeedsXPMultiplier() {
	// Seed a 10-day streak as of yesterday.
	yesterday := time.Date(2025, 6, 14, 12, 0, 0, 0, time.UTC)
	s.Require().NoError(s.store.Save(context.Background(), &progress.UserProgress{
		UserID:        "user-1",
		CurrentStreak: 10,
		LongestStreak: 10,
		LastActiveAt:  &yesterday,
		Timezone:      "UTC",
	}))

	res, err := s.svc.RecordActivity(s.ctxAt(yesterday.AddDate(0, 0, 1)), "user-1",
		progress.ActivityEvent{Kind: xp.ActivityQuizPass})
	s.Require().NoError(err)

	s.Equal(11, res.CurrentStreak)
	// 100 base with the day-11 streak bonus: round(100 * 1.11).
	s.Equal(111, res.AwardedXP)
}

func (s *ServiceSuite) TestProfileForNewUser() {
	profile, err := s.svc.Profile(context.Background(), "user-1")
	s.Require().NoError(err)

	s.Equal(1, profile.Level)
	s.Zero(profile.TotalXP)
	s.Zero(profile.CurrentStreak)
	s.Equal("UTC", profile.Timezone)
	s.Equal([]string{}, profile.Badges)
	s.Nil(profile.LastActiveAt)
}

func (s *ServiceSuite) TestProfileLevelProgress() {
	s.Require().NoError(s.store.Save(context.Background(), &progress.UserProgress{
		UserID:   "user-1",
		TotalXP:  125,
		Timezone: "UTC",
	}))

	profile, err := s.svc.Profile(context.Background(), "user-1")
	s.Require().NoError(err)

	s.Equal(2, profile.Level)
	s.Equal(75, profile.LevelProgress.Current)
	s.Equal(150, profile.LevelProgress.Required)
	s.Equal(50, profile.LevelProgress.Percentage)
}

func (s *ServiceSuite) TestUseFreeze() {
	s.Require().NoError(s.store.Save(context.Background(), &progress.UserProgress{
		UserID:           "user-1",
		CurrentStreak:    12,
		FreezesAvailable: 1,
		Timezone:         "UTC",
	}))

	res, err := s.svc.UseFreeze(context.Background(), "user-1")
	s.Require().NoError(err)
	s.True(res.FreezeUsed)
	s.Equal(12, res.Streak)
	s.Zero(res.FreezesRemaining)

	// Second freeze attempt has none left; the streak falls to 1.
	res, err = s.svc.UseFreeze(context.Background(), "user-1")
	s.Require().NoError(err)
	s.False(res.FreezeUsed)
	s.Equal(1, res.Streak)
	s.Zero(res.FreezesRemaining)
}

func (s *ServiceSuite) TestSetTimezone() {
	s.Require().NoError(s.svc.SetTimezone(context.Background(), "user-1", "America/New_York"))

	profile, err := s.svc.Profile(context.Background(), "user-1")
	s.Require().NoError(err)
	s.Equal("America/New_York", profile.Timezone)

	err = s.svc.SetTimezone(context.Background(), "user-1", "Mars/Olympus_Mons")
	s.True(pkgerrors.HasCode(err, pkgerrors.CodeBadRequest))
}

func (s *ServiceSuite) TestMissingUserContext() {
	_, err := s.svc.RecordActivity(context.Background(), "", progress.ActivityEvent{})
	s.True(pkgerrors.HasCode(err, pkgerrors.CodeUnauthorized))

	_, err = s.svc.Profile(context.Background(), "")
	s.True(pkgerrors.HasCode(err, pkgerrors.CodeUnauthorized))

	_, err = s.svc.UseFreeze(context.Background(), "")
	s.True(pkgerrors.HasCode(err, pkgerrors.CodeUnauthorized))
}

func (s *ServiceSuite) TestUnknownActivityKindAwardsZero() {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	res, err := s.svc.RecordActivity(s.ctxAt(now), "user-1",
		progress.ActivityEvent{Kind: "interpretive_dance"})
	s.Require().NoError(err)
	s.Zero(res.AwardedXP)
	s.Equal(1, res.CurrentStreak, "the streak still advances")
}
