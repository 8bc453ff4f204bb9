package tutor

import (
	"fmt"
	"time"
)

// ErrRateLimit indicates the provider throttled the request. RetryAfter
// is advisory and may be zero.
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("provider rate limited: %v", e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrProviderUnavailable indicates a transient provider failure such as
// a 5xx response or a network error.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	return fmt.Sprintf("provider unavailable: %v", e.Err)
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrInvalidResponse indicates the provider returned a response we
// could not use, such as an empty completion.
type ErrInvalidResponse struct {
	Err error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid provider response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded indicates the completion was truncated by the
// token cap. Retrying with the same cap will not help.
type ErrMaxTokensExceeded struct {
	Limit int
}

func (e *ErrMaxTokensExceeded) Error() string {
	return fmt.Sprintf("completion truncated at %d tokens", e.Limit)
}
