// Package requestcontext carries request-scoped values (request ID, the
// authenticated learner, client metadata, and the request timestamp) through
// context.Context. Keys are unexported struct types so other packages cannot
// collide with them.
package requestcontext

import (
	"context"
	"time"
)

type requestIDKey struct{}
type userIDKey struct{}
type userRoleKey struct{}
type displayNameKey struct{}
type userAgentKey struct{}
type deviceNameKey struct{}
type requestTimeKey struct{}

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the request ID, or "" when not set.
func RequestID(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey{}).(string); ok {
		return v
	}
	return ""
}

// WithUserID stores the authenticated learner's ID in the context.
func WithUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, userIDKey{}, id)
}

// UserID returns the authenticated learner's ID, or "" when unauthenticated.
func UserID(ctx context.Context) string {
	if v, ok := ctx.Value(userIDKey{}).(string); ok {
		return v
	}
	return ""
}

// WithUserRole stores the authenticated user's role claim in the context.
func WithUserRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, userRoleKey{}, role)
}

// UserRole returns the authenticated user's role, or "" when unauthenticated.
func UserRole(ctx context.Context) string {
	if v, ok := ctx.Value(userRoleKey{}).(string); ok {
		return v
	}
	return ""
}

// WithDisplayName stores the authenticated user's display name claim.
func WithDisplayName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, displayNameKey{}, name)
}

// DisplayName returns the authenticated user's display name, or "".
func DisplayName(ctx context.Context) string {
	if v, ok := ctx.Value(displayNameKey{}).(string); ok {
		return v
	}
	return ""
}

// WithUserAgent stores the raw User-Agent header in the context.
func WithUserAgent(ctx context.Context, ua string) context.Context {
	return context.WithValue(ctx, userAgentKey{}, ua)
}

// UserAgent returns the raw User-Agent header, or "".
func UserAgent(ctx context.Context) string {
	if v, ok := ctx.Value(userAgentKey{}).(string); ok {
		return v
	}
	return ""
}

// WithDeviceName stores the parsed device display name in the context.
func WithDeviceName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, deviceNameKey{}, name)
}

// DeviceName returns the parsed device display name, or "".
func DeviceName(ctx context.Context) string {
	if v, ok := ctx.Value(deviceNameKey{}).(string); ok {
		return v
	}
	return ""
}

// WithTime injects a specific "now" into a context. Used by the request time
// middleware in HTTP paths and directly by tests and workers, so every
// operation in one request observes a single consistent timestamp.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey{}, t)
}

// Now retrieves the request-scoped time from context, falling back to
// time.Now() for non-HTTP contexts such as workers and CLI commands.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(requestTimeKey{}).(time.Time); ok {
		return t
	}
	return time.Now()
}
