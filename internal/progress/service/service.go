package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ihiteshgupta/learnflow/internal/progress"
	"github.com/ihiteshgupta/learnflow/internal/progress/metrics"
	"github.com/ihiteshgupta/learnflow/internal/progress/store"
	"github.com/ihiteshgupta/learnflow/internal/streak"
	"github.com/ihiteshgupta/learnflow/internal/xp"
	pkgerrors "github.com/ihiteshgupta/learnflow/pkg/domain-errors"
	"github.com/ihiteshgupta/learnflow/pkg/platform/tracer"
	"github.com/ihiteshgupta/learnflow/pkg/requestcontext"
)

// onboardingFreezes is how many streak freezes a brand-new learner starts with.
const onboardingFreezes = 1

// Service runs the gamification pipeline: streak update, XP award, milestone
// rewards, persistence. The streak and xp engines are pure; every timestamp
// flows in through the request context.
type Service struct {
	store   store.Store
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  tracer.Tracer
}

type Option func(*Service)

// WithLogger sets the logger instance for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMetrics sets the metrics instance for the service.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithTracer sets the tracer for the activity pipeline.
func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

func NewService(st store.Store, opts ...Option) *Service {
	svc := &Service{
		store:  st,
		logger: slog.Default(),
		tracer: tracer.NewNoop(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// RecordActivity applies one activity event to the learner's progress:
// the streak advances first so the streak bonus multiplier sees the new
// length, then XP is computed, then any milestone the new streak length
// unlocked is granted exactly once.
func (s *Service) RecordActivity(ctx context.Context, userID string, ev progress.ActivityEvent) (res *progress.ActivityResult, err error) {
	if userID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user context")
	}

	ctx, span := s.tracer.Start(ctx, tracer.SpanRecordActivity,
		tracer.String(tracer.AttrUserID, userID),
		tracer.String(tracer.AttrActivityKind, string(ev.Kind)),
	)
	defer func() { span.End(err) }()

	now := requestcontext.Now(ctx)

	p, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	_, streakSpan := s.tracer.Start(ctx, tracer.SpanStreakUpdate)
	newStreak := streak.Calculate(p.LastActiveAt, p.CurrentStreak, p.Timezone, now)
	streakSpan.SetAttributes(tracer.Int(tracer.AttrStreakDays, newStreak))
	streakSpan.End(nil)

	_, xpSpan := s.tracer.Start(ctx, tracer.SpanXPAward)
	awarded := xp.Calculate(ev.Kind, xp.Multipliers{
		IsFirstAttempt: ev.IsFirstAttempt,
		StreakDays:     newStreak,
		IsPerfectScore: ev.IsPerfectScore,
		NoHintsUsed:    ev.NoHintsUsed,
		UnderParTime:   ev.UnderParTime,
	})
	xpSpan.SetAttributes(tracer.Int(tracer.AttrAwardedXP, awarded))
	xpSpan.End(nil)

	result := &progress.ActivityResult{
		AwardedXP:     awarded,
		CurrentStreak: newStreak,
	}

	// Milestones are exact streak lengths; the badge set guards against
	// re-awarding on same-day repeat activity.
	if reward := streak.RewardFor(newStreak); reward.Badge != "" && !p.HasBadge(reward.Badge) {
		result.MilestoneXP = reward.XP
		result.BadgeEarned = reward.Badge
		p.Badges = append(p.Badges, reward.Badge)
		span.AddEvent("milestone_reached", tracer.String(tracer.AttrBadge, reward.Badge))
	}

	p.TotalXP += result.AwardedXP + result.MilestoneXP
	p.CurrentStreak = newStreak
	if newStreak > p.LongestStreak {
		p.LongestStreak = newStreak
	}
	activeAt := now
	p.LastActiveAt = &activeAt
	p.UpdatedAt = now

	if err := s.store.Save(ctx, p); err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.CodeInternal, "failed to save progress")
	}

	result.TotalXP = p.TotalXP
	result.Level = xp.LevelFromXP(p.TotalXP)

	if s.metrics != nil {
		s.metrics.IncrementActivities(string(ev.Kind))
		s.metrics.AddXPAwarded(result.AwardedXP + result.MilestoneXP)
		if result.BadgeEarned != "" {
			s.metrics.IncrementBadges(result.BadgeEarned)
		}
	}
	s.logger.InfoContext(ctx, "activity_recorded",
		"user_id", userID,
		"kind", ev.Kind,
		"awarded_xp", result.AwardedXP,
		"milestone_xp", result.MilestoneXP,
		"streak", newStreak,
	)
	return result, nil
}

// Profile returns the learner's progress read model. A learner with no
// recorded activity gets the zero profile at level 1, not an error.
func (s *Service) Profile(ctx context.Context, userID string) (*progress.Profile, error) {
	if userID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user context")
	}

	p, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	badges := p.Badges
	if badges == nil {
		badges = []string{}
	}
	return &progress.Profile{
		UserID:           p.UserID,
		TotalXP:          p.TotalXP,
		Level:            xp.LevelFromXP(p.TotalXP),
		LevelProgress:    xp.ProgressInLevel(p.TotalXP),
		CurrentStreak:    p.CurrentStreak,
		LongestStreak:    p.LongestStreak,
		FreezesAvailable: p.FreezesAvailable,
		Timezone:         p.Timezone,
		Badges:           badges,
		LastActiveAt:     p.LastActiveAt,
	}, nil
}

// UseFreeze spends one streak freeze. With no freezes left the streak drops
// to 1, matching what a reset on next activity would produce.
func (s *Service) UseFreeze(ctx context.Context, userID string) (*streak.FreezeResult, error) {
	if userID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user context")
	}

	p, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	res := streak.ApplyFreeze(p.CurrentStreak, p.FreezesAvailable)
	p.CurrentStreak = res.Streak
	p.FreezesAvailable = res.FreezesRemaining
	p.UpdatedAt = requestcontext.Now(ctx)

	if err := s.store.Save(ctx, p); err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.CodeInternal, "failed to save progress")
	}

	if res.FreezeUsed && s.metrics != nil {
		s.metrics.IncrementFreezesUsed()
	}
	s.logger.InfoContext(ctx, "streak_freeze_applied",
		"user_id", userID,
		"freeze_used", res.FreezeUsed,
		"streak", res.Streak,
	)
	return &res, nil
}

// SetTimezone updates the zone streak day boundaries are computed in.
func (s *Service) SetTimezone(ctx context.Context, userID, tz string) error {
	if userID == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user context")
	}
	if !streak.ValidTimezone(tz) {
		return pkgerrors.New(pkgerrors.CodeBadRequest, "unknown timezone")
	}

	p, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	p.Timezone = tz
	p.UpdatedAt = requestcontext.Now(ctx)
	if err := s.store.Save(ctx, p); err != nil {
		return pkgerrors.Wrap(err, pkgerrors.CodeInternal, "failed to save progress")
	}
	return nil
}

// load fetches the progress record, creating the zero record for first-time
// learners.
func (s *Service) load(ctx context.Context, userID string) (*progress.UserProgress, error) {
	p, err := s.store.Get(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return &progress.UserProgress{
			UserID:           userID,
			Timezone:         "UTC",
			FreezesAvailable: onboardingFreezes,
		}, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.CodeInternal, "failed to load progress")
	}
	return p, nil
}
