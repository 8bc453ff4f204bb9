// Package worker runs the nightly streak sweep: learners who went quiet have
// a freeze consumed automatically, or their streak reset.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ihiteshgupta/learnflow/internal/progress"
	"github.com/ihiteshgupta/learnflow/internal/progress/metrics"
	"github.com/ihiteshgupta/learnflow/internal/progress/store"
	"github.com/ihiteshgupta/learnflow/internal/streak"
	"github.com/ihiteshgupta/learnflow/pkg/platform/tracer"
)

// SweepResult summarizes one sweep run.
type SweepResult struct {
	Scanned         int
	FreezesConsumed int
	StreaksBroken   int
}

// Sweeper periodically scans progress records and settles broken streaks.
type Sweeper struct {
	store    store.Store
	interval time.Duration
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   tracer.Tracer
}

// Option configures a Sweeper.
type Option func(*Sweeper)

// WithInterval overrides the sweep interval when greater than zero.
func WithInterval(interval time.Duration) Option {
	return func(s *Sweeper) {
		if interval > 0 {
			s.interval = interval
		}
	}
}

// WithLogger overrides the logger used for sweep errors.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Sweeper) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics attaches sweep run metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Sweeper) {
		s.metrics = m
	}
}

// WithTracer attaches a tracer for sweep spans.
func WithTracer(t tracer.Tracer) Option {
	return func(s *Sweeper) {
		if t != nil {
			s.tracer = t
		}
	}
}

// New constructs a Sweeper with the required store and options applied.
func New(st store.Store, opts ...Option) (*Sweeper, error) {
	if st == nil {
		return nil, fmt.Errorf("store is required")
	}
	s := &Sweeper{
		store:    st,
		interval: time.Hour,
		logger:   slog.Default(),
		tracer:   tracer.NewNoop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Start runs the sweep periodically until ctx is cancelled.
func (s *Sweeper) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := s.RunOnce(ctx, time.Now()); err != nil {
				s.logger.ErrorContext(ctx, "streak sweep failed", "error", err)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// RunOnce performs a single sweep at the given instant. Learners whose
// streak the passive break check flags either spend a freeze (the missed day
// counts as covered, so the next sweep does not charge them again) or have
// their streak reset to zero.
func (s *Sweeper) RunOnce(ctx context.Context, now time.Time) (res SweepResult, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanStreakSweep)
	defer func() { span.End(err) }()
	start := time.Now()

	records, err := s.store.List(ctx)
	if err != nil {
		s.countRun("error")
		return res, fmt.Errorf("list progress records: %w", err)
	}
	res.Scanned = len(records)

	for _, p := range records {
		if p.CurrentStreak == 0 {
			continue
		}
		if !streak.ShouldBreak(p.LastActiveAt, p.Timezone, now) {
			continue
		}

		if p.FreezesAvailable > 0 {
			s.consumeFreeze(ctx, p, now)
			res.FreezesConsumed++
			continue
		}

		p.CurrentStreak = 0
		p.UpdatedAt = now
		if saveErr := s.store.Save(ctx, p); saveErr != nil {
			s.countRun("error")
			return res, fmt.Errorf("reset streak for %s: %w", p.UserID, saveErr)
		}
		res.StreaksBroken++
		s.logger.InfoContext(ctx, "streak_broken", "user_id", p.UserID)
	}

	if s.metrics != nil {
		s.metrics.SweepStreaksBroken.Add(float64(res.StreaksBroken))
		s.metrics.SweepFreezesConsumed.Add(float64(res.FreezesConsumed))
		s.metrics.ObserveSweepDuration(time.Since(start).Seconds())
	}
	s.countRun("success")
	return res, nil
}

func (s *Sweeper) consumeFreeze(ctx context.Context, p *progress.UserProgress, now time.Time) {
	p.FreezesAvailable--
	// The freeze covers the missed day: stamping last activity at sweep
	// time keeps tomorrow's sweep from charging a second freeze.
	activeAt := now
	p.LastActiveAt = &activeAt
	p.UpdatedAt = now
	if err := s.store.Save(ctx, p); err != nil {
		s.logger.ErrorContext(ctx, "failed to consume freeze", "user_id", p.UserID, "error", err)
		return
	}
	s.logger.InfoContext(ctx, "freeze_consumed",
		"user_id", p.UserID,
		"freezes_remaining", p.FreezesAvailable,
	)
}

func (s *Sweeper) countRun(status string) {
	if s.metrics != nil {
		s.metrics.IncrementSweepRuns(status)
	}
}
