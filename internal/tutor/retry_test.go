package tutor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry(attempts int) RetryConfig {
	return RetryConfig{
		MaxAttempts: attempts,
		InitialWait: time.Millisecond,
		MaxWait:     5 * time.Millisecond,
		Multiplier:  2.0,
	}
}

func TestRetry_SucceedsAfterTransientFailure(t *testing.T) {
	mock := NewMockProvider().
		AddError(&ErrProviderUnavailable{Err: errors.New("503")}).
		AddResponse("recovered")

	p := WithRetry(mock, fastRetry(3))

	resp, err := p.Generate(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "recovered", resp.Content)
	assert.Equal(t, 2, mock.CallCount())
}

func TestRetry_GivesUpAfterMaxAttempts(t *testing.T) {
	mock := NewMockProvider()
	for range 3 {
		mock.AddError(&ErrProviderUnavailable{Err: errors.New("503")})
	}

	p := WithRetry(mock, fastRetry(3))

	_, err := p.Generate(context.Background(), Request{})
	require.Error(t, err)

	var unavail *ErrProviderUnavailable
	assert.ErrorAs(t, err, &unavail)
	assert.Equal(t, 3, mock.CallCount())
}

func TestRetry_MaxTokensNotRetried(t *testing.T) {
	mock := NewMockProvider().AddError(&ErrMaxTokensExceeded{Limit: 100})

	p := WithRetry(mock, fastRetry(3))

	_, err := p.Generate(context.Background(), Request{})
	require.Error(t, err)
	assert.Equal(t, 1, mock.CallCount())
}

func TestRetry_InvalidResponseRetriedOnce(t *testing.T) {
	mock := NewMockProvider().
		AddError(&ErrInvalidResponse{Err: errors.New("empty")}).
		AddError(&ErrInvalidResponse{Err: errors.New("empty again")})

	p := WithRetry(mock, fastRetry(5))

	_, err := p.Generate(context.Background(), Request{})
	require.Error(t, err)
	assert.Equal(t, 2, mock.CallCount())
}

func TestRetry_ContextCancellationStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mock := NewMockProvider().AddError(&ErrProviderUnavailable{Err: errors.New("503")})

	p := WithRetry(mock, RetryConfig{
		MaxAttempts: 3,
		InitialWait: time.Hour,
		MaxWait:     time.Hour,
		Multiplier:  2.0,
	})

	_, err := p.Generate(ctx, Request{})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, mock.CallCount())
}

func TestRetry_RespectsRetryAfter(t *testing.T) {
	mock := NewMockProvider().
		AddError(&ErrRateLimit{RetryAfter: time.Millisecond, Err: errors.New("429")}).
		AddResponse("ok")

	p := WithRetry(mock, fastRetry(3))

	start := time.Now()
	resp, err := p.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Content)
	assert.GreaterOrEqual(t, time.Since(start), time.Millisecond)
}

func TestMockProvider_EchoesWithoutQueuedResponses(t *testing.T) {
	mock := NewMockProvider()

	resp, err := mock.Generate(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "what is recursion?"}},
	})
	require.NoError(t, err)
	assert.Contains(t, resp.Content, "what is recursion?")
	assert.Equal(t, "mock", resp.Model)
}
