// Package service implements the AI tutor chat flow on top of a
// model provider.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ihiteshgupta/learnflow/internal/ratelimit"
	"github.com/ihiteshgupta/learnflow/internal/tutor"
	"github.com/ihiteshgupta/learnflow/internal/tutor/metrics"
	pkgerrors "github.com/ihiteshgupta/learnflow/pkg/domain-errors"
	"github.com/ihiteshgupta/learnflow/pkg/requestcontext"
)

const (
	maxTurns         = 20
	maxMessageLength = 4000
	completionTokens = 1024
	temperature      = 0.7
)

const systemPromptBase = "You are a patient, encouraging tutor on the LearnFlow " +
	"e-learning platform. Guide the learner toward the answer with hints and " +
	"questions instead of handing out solutions. Keep replies short and concrete."

// RateLimitedError carries the limiter verdict so the transport layer can
// set Retry-After from ResetAt.
type RateLimitedError struct {
	Result ratelimit.Result
}

func (e *RateLimitedError) Error() string {
	return "too many tutor requests"
}

// Service answers tutor chats. Each user gets the same fixed-window
// allowance, keyed separately from login throttling.
type Service struct {
	provider tutor.Provider
	limiter  *ratelimit.Limiter
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

type Option func(*Service)

// WithLogger sets the logger instance for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMetrics sets the metrics collectors for the service.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func NewService(provider tutor.Provider, limiter *ratelimit.Limiter, opts ...Option) (*Service, error) {
	if provider == nil {
		return nil, fmt.Errorf("tutor service requires a provider")
	}
	svc := &Service{
		provider: provider,
		limiter:  limiter,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// ChatRequest is one tutoring exchange. Messages holds the conversation
// so far, oldest first, ending with the learner's latest question.
type ChatRequest struct {
	CourseTitle string
	LessonTitle string
	Messages    []tutor.Message
}

// ChatResult is the tutor's reply.
type ChatResult struct {
	Reply string      `json:"reply"`
	Model string      `json:"model"`
	Usage tutor.Usage `json:"usage"`
}

// Chat validates the conversation, checks the per-user allowance and asks
// the provider for a reply.
func (s *Service) Chat(ctx context.Context, req ChatRequest) (*ChatResult, error) {
	userID := requestcontext.UserID(ctx)
	if userID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}

	if err := validateChat(req); err != nil {
		return nil, err
	}

	if s.limiter != nil {
		verdict := s.limiter.Check(ctx, "tutor:"+userID)
		if !verdict.Allowed {
			s.metrics.CountThrottled()
			return nil, &RateLimitedError{Result: verdict}
		}
	}

	resp, err := s.provider.Generate(ctx, tutor.Request{
		System:      systemPrompt(req),
		Messages:    req.Messages,
		MaxTokens:   completionTokens,
		Temperature: temperature,
	})
	if err != nil {
		return nil, s.mapProviderError(ctx, err)
	}

	s.metrics.CountChat(resp.Model, resp.Usage.InputTokens, resp.Usage.OutputTokens)
	s.logger.InfoContext(ctx, "tutor_chat",
		"user_id", userID,
		"model", resp.Model,
		"total_tokens", resp.Usage.TotalTokens,
	)

	return &ChatResult{
		Reply: resp.Content,
		Model: resp.Model,
		Usage: resp.Usage,
	}, nil
}

func validateChat(req ChatRequest) error {
	if len(req.Messages) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one message is required")
	}
	if len(req.Messages) > maxTurns {
		return pkgerrors.New(pkgerrors.CodeValidation, "conversation too long")
	}
	for _, m := range req.Messages {
		if m.Role != tutor.RoleUser && m.Role != tutor.RoleAssistant {
			return pkgerrors.New(pkgerrors.CodeValidation, "message role must be user or assistant")
		}
		if strings.TrimSpace(m.Content) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "message content is required")
		}
		if len(m.Content) > maxMessageLength {
			return pkgerrors.New(pkgerrors.CodeValidation, "message content too long")
		}
	}
	if req.Messages[len(req.Messages)-1].Role != tutor.RoleUser {
		return pkgerrors.New(pkgerrors.CodeValidation, "last message must be from the learner")
	}
	return nil
}

func systemPrompt(req ChatRequest) string {
	var b strings.Builder
	b.WriteString(systemPromptBase)
	if req.CourseTitle != "" {
		fmt.Fprintf(&b, " The learner is taking the course %q.", req.CourseTitle)
	}
	if req.LessonTitle != "" {
		fmt.Fprintf(&b, " The current lesson is %q.", req.LessonTitle)
	}
	return b.String()
}

func (s *Service) mapProviderError(ctx context.Context, err error) error {
	var maxTok *tutor.ErrMaxTokensExceeded
	if errors.As(err, &maxTok) {
		return pkgerrors.Wrap(err, pkgerrors.CodeInternal, "tutor reply truncated")
	}

	s.metrics.CountProviderError()
	s.logger.ErrorContext(ctx, "tutor_provider_failed", "error", err)
	return pkgerrors.Wrap(err, pkgerrors.CodeProviderUnavailable, "tutor is temporarily unavailable")
}
