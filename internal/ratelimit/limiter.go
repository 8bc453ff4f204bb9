// Package ratelimit provides a fixed-window attempt limiter keyed by opaque
// identifiers (e.g. "login:a@example.com", "tutor:<userID>").
//
// The limiter is advisory abuse mitigation, not a security boundary: state is
// process-local and lost on restart, which is acceptable for throttling login
// attempts and tutor calls. The counter map is owned by the Limiter value
// constructed at composition time, not a package-level singleton, so tests
// and tenants don't share hidden state.
package ratelimit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ihiteshgupta/learnflow/pkg/requestcontext"
	platformsync "github.com/ihiteshgupta/learnflow/pkg/platform/sync"
)

// Config holds fixed-window parameters.
type Config struct {
	MaxAttempts int
	Window      time.Duration
}

// DefaultConfig returns the standard 5-attempts-per-15-minutes policy.
func DefaultConfig() Config {
	return Config{
		MaxAttempts: 5,
		Window:      15 * time.Minute,
	}
}

// Result describes the outcome of a single Check.
type Result struct {
	Allowed   bool      `json:"allowed"`
	Remaining int       `json:"remaining"`
	ResetAt   time.Time `json:"reset_at"`
}

// window is one identifier's fixed window.
type window struct {
	count       int
	windowStart time.Time
}

// Limiter is a concurrency-safe fixed-window counter. Identifiers are opaque;
// the empty string and arbitrarily long strings are both valid keys.
type Limiter struct {
	cfg Config
	// mu serializes the read-increment-write per identifier; windows itself
	// is a sync.Map so identifiers on different shards can proceed in
	// parallel without racing on the map structure.
	mu      *platformsync.ShardedMutex
	windows sync.Map // identifier -> *window

	logger  *slog.Logger
	metrics *Metrics
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithLogger attaches a structured logger for denial audit lines.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Limiter) {
		l.logger = logger
	}
}

// WithMetrics attaches Prometheus counters.
func WithMetrics(m *Metrics) Option {
	return func(l *Limiter) {
		l.metrics = m
	}
}

// New creates a Limiter with the given config.
func New(cfg Config, opts ...Option) *Limiter {
	l := &Limiter{
		cfg: cfg,
		mu:  platformsync.NewShardedMutex(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Check records an attempt for identifier and reports whether it is allowed.
//
// The first attempt of a fresh or expired window starts a new window with
// count 1. ResetAt is stable for every call within the same window. Once the
// window elapses the next call behaves like the first call ever. "Now" is the
// request-scoped time from ctx, so tests advance a context clock rather than
// sleeping through the window.
func (l *Limiter) Check(ctx context.Context, identifier string) Result {
	now := requestcontext.Now(ctx)

	// The read-increment-write below must be atomic per identifier to hold
	// the at-most-MaxAttempts guarantee under concurrent callers.
	l.mu.Lock(identifier)
	defer l.mu.Unlock(identifier)

	var w *window
	if v, ok := l.windows.Load(identifier); ok {
		w = v.(*window)
	}
	if w == nil || !now.Before(w.windowStart.Add(l.cfg.Window)) {
		w = &window{count: 0, windowStart: now}
		l.windows.Store(identifier, w)
	}

	w.count++
	allowed := w.count <= l.cfg.MaxAttempts
	remaining := l.cfg.MaxAttempts - w.count
	if remaining < 0 {
		remaining = 0
	}

	if l.metrics != nil {
		l.metrics.ChecksTotal.Inc()
		if !allowed {
			l.metrics.DeniedTotal.Inc()
		}
	}
	if !allowed && l.logger != nil {
		l.logger.InfoContext(ctx, "rate_limit_exceeded",
			"identifier", identifier,
			"count", w.count,
			"limit", l.cfg.MaxAttempts,
			"window_seconds", int(l.cfg.Window.Seconds()),
			"request_id", requestcontext.RequestID(ctx),
			"log_type", "audit",
		)
	}

	return Result{
		Allowed:   allowed,
		Remaining: remaining,
		ResetAt:   w.windowStart.Add(l.cfg.Window),
	}
}

// Reset clears state for exactly one identifier, leaving others untouched.
// Called after a successful login so a legitimate user's quota refills.
func (l *Limiter) Reset(_ context.Context, identifier string) {
	l.mu.Lock(identifier)
	defer l.mu.Unlock(identifier)
	l.windows.Delete(identifier)

	if l.metrics != nil {
		l.metrics.ResetsTotal.Inc()
	}
}
