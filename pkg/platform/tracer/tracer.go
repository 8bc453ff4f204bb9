// Package tracer provides a lightweight tracing abstraction for the
// gamification pipeline.
//
// The internal interface keeps services decoupled from OpenTelemetry APIs:
// production wires the OTel adapter, tests use the no-op implementation.
package tracer

import (
	"context"
	"time"
)

// Span represents an active trace span.
type Span interface {
	// End completes the span, recording any error that occurred.
	// End must be called exactly once, typically via defer.
	End(err error)

	// SetAttributes adds key-value pairs to the span.
	SetAttributes(attrs ...Attribute)

	// AddEvent records a timestamped event within the span.
	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans for distributed tracing.
// Implementations must be safe for concurrent use.
type Tracer interface {
	// Start creates a new span with the given name and attributes.
	// The returned context contains the new span and should be passed to
	// child operations. The span must be ended by calling Span.End().
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute represents a key-value pair attached to spans.
type Attribute struct {
	Key   string
	Value any
}

// String creates a string attribute.
func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

// Bool creates a boolean attribute.
func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

// Int creates an int attribute.
func Int(key string, value int) Attribute {
	return Attribute{Key: key, Value: int64(value)}
}

// Duration creates a duration attribute in milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value.Milliseconds()}
}

// Span names used by the progress pipeline.
const (
	SpanRecordActivity = "progress.record_activity"
	SpanStreakUpdate   = "progress.streak_update"
	SpanXPAward        = "progress.xp_award"
	SpanStreakSweep    = "progress.streak_sweep"
)

// Attribute keys used by the progress pipeline.
const (
	AttrUserID       = "user_id"
	AttrActivityKind = "activity_kind"
	AttrStreakDays   = "streak_days"
	AttrAwardedXP    = "awarded_xp"
	AttrBadge        = "badge"
)
