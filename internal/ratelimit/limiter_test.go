package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/ihiteshgupta/learnflow/pkg/requestcontext"
)

type LimiterSuite struct {
	suite.Suite

	limiter *Limiter
	start   time.Time
}

func (s *LimiterSuite) SetupTest() {
	s.limiter = New(DefaultConfig())
	s.start = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
}

func (s *LimiterSuite) ctxAt(t time.Time) context.Context {
	return requestcontext.WithTime(context.Background(), t)
}

func TestLimiterSuite(t *testing.T) {
	suite.Run(t, new(LimiterSuite))
}

func (s *LimiterSuite) TestAllowsExactlyMaxAttempts() {
	ctx := s.ctxAt(s.start)

	for want := 4; want >= 0; want-- {
		res := s.limiter.Check(ctx, "login:a@example.com")
		s.True(res.Allowed)
		s.Equal(want, res.Remaining)
	}

	res := s.limiter.Check(ctx, "login:a@example.com")
	s.False(res.Allowed)
	s.Equal(0, res.Remaining)
}

func (s *LimiterSuite) TestResetAtStableWithinWindow() {
	first := s.limiter.Check(s.ctxAt(s.start), "k")
	later := s.limiter.Check(s.ctxAt(s.start.Add(10*time.Minute)), "k")

	s.Equal(s.start.Add(15*time.Minute), first.ResetAt)
	s.Equal(first.ResetAt, later.ResetAt)
}

func (s *LimiterSuite) TestWindowExpiryStartsFresh() {
	for i := 0; i < 6; i++ {
		s.limiter.Check(s.ctxAt(s.start), "k")
	}
	s.False(s.limiter.Check(s.ctxAt(s.start), "k").Allowed)

	// One instant past the window boundary behaves like a first attempt.
	after := s.start.Add(15*time.Minute + time.Millisecond)
	res := s.limiter.Check(s.ctxAt(after), "k")
	s.True(res.Allowed)
	s.Equal(4, res.Remaining)
	s.Equal(after.Add(15*time.Minute), res.ResetAt)
}

func (s *LimiterSuite) TestExactWindowBoundaryIsFresh() {
	s.limiter.Check(s.ctxAt(s.start), "k")

	res := s.limiter.Check(s.ctxAt(s.start.Add(15*time.Minute)), "k")
	s.True(res.Allowed)
	s.Equal(4, res.Remaining)
}

func (s *LimiterSuite) TestIdentifiersAreIndependent() {
	ctx := s.ctxAt(s.start)
	for i := 0; i < 6; i++ {
		s.limiter.Check(ctx, "login:a@example.com")
	}

	res := s.limiter.Check(ctx, "login:b@example.com")
	s.True(res.Allowed)
	s.Equal(4, res.Remaining)
}

func (s *LimiterSuite) TestResetClearsOnlyOneIdentifier() {
	ctx := s.ctxAt(s.start)
	for i := 0; i < 6; i++ {
		s.limiter.Check(ctx, "a")
		s.limiter.Check(ctx, "b")
	}

	s.limiter.Reset(ctx, "a")

	s.True(s.limiter.Check(ctx, "a").Allowed)
	s.False(s.limiter.Check(ctx, "b").Allowed)
}

func (s *LimiterSuite) TestOpaqueIdentifiers() {
	ctx := s.ctxAt(s.start)

	s.Run("empty string", func() {
		res := s.limiter.Check(ctx, "")
		s.True(res.Allowed)
		s.Equal(4, res.Remaining)
	})

	s.Run("very long key", func() {
		long := "login:" + strings.Repeat("x", 4096)
		res := s.limiter.Check(ctx, long)
		s.True(res.Allowed)
		s.Equal(4, res.Remaining)
	})
}

func (s *LimiterSuite) TestDeniedStateDoesNotExtendWindow() {
	ctx := s.ctxAt(s.start)
	for i := 0; i < 20; i++ {
		s.limiter.Check(ctx, "k")
	}

	res := s.limiter.Check(s.ctxAt(s.start.Add(16*time.Minute)), "k")
	s.True(res.Allowed)
}

func TestCheck_ConcurrentSameIdentifier(t *testing.T) {
	limiter := New(DefaultConfig())
	ctx := requestcontext.WithTime(context.Background(),
		time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))

	const callers = 50
	results := make([]Result, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = limiter.Check(ctx, "login:shared@example.com")
		}(i)
	}
	wg.Wait()

	allowed := 0
	for _, res := range results {
		if res.Allowed {
			allowed++
		}
	}
	require.Equal(t, 5, allowed)
}

func TestCheck_ConcurrentDistinctIdentifiers(t *testing.T) {
	limiter := New(DefaultConfig())
	ctx := requestcontext.WithTime(context.Background(),
		time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res := limiter.Check(ctx, fmt.Sprintf("login:user-%d@example.com", i))
			assert.True(t, res.Allowed)
		}(i)
	}
	wg.Wait()
}

func TestCheck_FallsBackToWallClock(t *testing.T) {
	limiter := New(Config{MaxAttempts: 1, Window: time.Hour})

	// No request time on the context; the limiter still works off time.Now.
	res := limiter.Check(context.Background(), "k")
	require.True(t, res.Allowed)
	assert.WithinDuration(t, time.Now().Add(time.Hour), res.ResetAt, 5*time.Second)

	res = limiter.Check(context.Background(), "k")
	assert.False(t, res.Allowed)
}
