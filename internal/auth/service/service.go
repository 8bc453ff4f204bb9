package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/ihiteshgupta/learnflow/internal/auth"
	"github.com/ihiteshgupta/learnflow/internal/auth/store"
	"github.com/ihiteshgupta/learnflow/internal/auth/token"
	"github.com/ihiteshgupta/learnflow/internal/ratelimit"
	"github.com/ihiteshgupta/learnflow/internal/streak"
	pkgerrors "github.com/ihiteshgupta/learnflow/pkg/domain-errors"
	"github.com/ihiteshgupta/learnflow/pkg/requestcontext"
	"github.com/ihiteshgupta/learnflow/pkg/secrets"
)

// RateLimitedError carries the limiter verdict so the transport layer can
// set Retry-After from ResetAt.
type RateLimitedError struct {
	Result ratelimit.Result
}

func (e *RateLimitedError) Error() string {
	return "too many login attempts"
}

// Service implements registration and login. Login is guarded by the
// fixed-window limiter keyed per email, so one locked-out address does not
// affect anyone else.
type Service struct {
	store   store.Store
	tokens  *token.Service
	limiter *ratelimit.Limiter
	logger  *slog.Logger
}

type Option func(*Service)

// WithLogger sets the logger instance for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func NewService(st store.Store, tokens *token.Service, limiter *ratelimit.Limiter, opts ...Option) *Service {
	svc := &Service{
		store:   st,
		tokens:  tokens,
		limiter: limiter,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// RegisterRequest is the signup payload.
type RegisterRequest struct {
	Email       string
	Password    string
	DisplayName string
	Timezone    string
}

// Register creates a learner account.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*auth.User, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a valid email is required")
	}
	if len(req.Password) < 8 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}
	if req.Timezone == "" {
		req.Timezone = "UTC"
	}
	if !streak.ValidTimezone(req.Timezone) {
		return nil, pkgerrors.New(pkgerrors.CodeBadRequest, "unknown timezone")
	}

	hash, err := secrets.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	u := &auth.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		PasswordHash: hash,
		DisplayName:  strings.TrimSpace(req.DisplayName),
		Role:         auth.RoleLearner,
		Timezone:     req.Timezone,
		CreatedAt:    requestcontext.Now(ctx).UTC(),
	}
	err = s.store.Save(ctx, u)
	if errors.Is(err, store.ErrAlreadyExists) {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.CodeInternal, "failed to save user")
	}

	s.logger.InfoContext(ctx, "user_registered", "user_id", u.ID)
	return u, nil
}

// LoginResult is the successful login payload.
type LoginResult struct {
	Token string     `json:"token"`
	User  *auth.User `json:"user"`
}

// Login verifies credentials and issues an access token.
//
// Every attempt, valid or not, counts against the "login:<email>" window;
// a successful login resets it so a legitimate user's quota refills. Failed
// attempts are logged with the client device for audit.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	identifier := "login:" + email

	if res := s.limiter.Check(ctx, identifier); !res.Allowed {
		return nil, &RateLimitedError{Result: res}
	}

	u, err := s.store.FindByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		s.logFailure(ctx, email, "unknown email")
		// Same response as a wrong password so the endpoint does not leak
		// which emails exist.
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.CodeInternal, "failed to load user")
	}

	if err := secrets.Verify(password, u.PasswordHash); err != nil {
		s.logFailure(ctx, email, "wrong password")
		return nil, err
	}

	tok, err := s.tokens.Generate(ctx, u)
	if err != nil {
		return nil, err
	}

	s.limiter.Reset(ctx, identifier)
	s.logger.InfoContext(ctx, "user_logged_in",
		"user_id", u.ID,
		"device", requestcontext.DeviceName(ctx),
	)
	return &LoginResult{Token: tok, User: u}, nil
}

func (s *Service) logFailure(ctx context.Context, email, reason string) {
	s.logger.InfoContext(ctx, "login_failed",
		"email", email,
		"reason", reason,
		"device", requestcontext.DeviceName(ctx),
		"request_id", requestcontext.RequestID(ctx),
		"log_type", "audit",
	)
}
