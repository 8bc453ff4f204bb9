package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ihiteshgupta/learnflow/internal/certificate"
	"github.com/ihiteshgupta/learnflow/internal/certificate/metrics"
	"github.com/ihiteshgupta/learnflow/internal/certificate/store"
	pkgerrors "github.com/ihiteshgupta/learnflow/pkg/domain-errors"
	platformstrings "github.com/ihiteshgupta/learnflow/pkg/platform/strings"
	"github.com/ihiteshgupta/learnflow/pkg/requestcontext"
)

// Service issues certificates and serves the verification and share flows.
// The base URL is injected at construction and never read from a global.
type Service struct {
	store   store.Store
	baseURL string
	logger  *slog.Logger
	metrics *metrics.Metrics
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

func NewService(st store.Store, baseURL string, opts ...Option) *Service {
	svc := &Service{
		store:   st,
		baseURL: baseURL,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// IssueRequest carries everything needed to mint a certification.
type IssueRequest struct {
	UserID        string
	Tier          certificate.Tier
	RecipientName string
	CourseName    string
	Skills        []string
	ExamScore     *float64
}

// Issue mints a credential ID and persists the certification record.
func (s *Service) Issue(ctx context.Context, req IssueRequest) (*certificate.Certification, error) {
	if req.UserID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user context")
	}
	if !req.Tier.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeBadRequest, fmt.Sprintf("invalid tier: %s", req.Tier))
	}
	if req.RecipientName == "" || req.CourseName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "recipient_name and course_name are required")
	}

	cert := &certificate.Certification{
		CredentialID:  certificate.NewCredentialID(req.Tier),
		UserID:        req.UserID,
		Tier:          req.Tier,
		RecipientName: req.RecipientName,
		CourseName:    req.CourseName,
		IssuedAt:      requestcontext.Now(ctx).UTC(),
		Skills:        platformstrings.DedupeAndTrim(req.Skills),
		ExamScore:     req.ExamScore,
	}

	if err := s.store.Save(ctx, cert); err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.CodeInternal, "failed to save certificate")
	}

	if s.metrics != nil {
		s.metrics.IncrementIssued(string(cert.Tier))
	}
	s.logger.InfoContext(ctx, "certificate_issued",
		"credential_id", cert.CredentialID,
		"user_id", cert.UserID,
		"tier", cert.Tier,
		"course", cert.CourseName,
	)
	return cert, nil
}

// VerificationResult is the public verification payload.
type VerificationResult struct {
	Valid           bool                       `json:"valid"`
	Certification   *certificate.Certification `json:"certification"`
	VerificationURL string                     `json:"verification_url"`
	VerifiedAt      time.Time                  `json:"verified_at"`
}

// Verify resolves a credential ID for the public verification endpoint.
// Pending credentials are rejected before the store is consulted.
func (s *Service) Verify(ctx context.Context, credentialID string) (*VerificationResult, error) {
	if credentialID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeBadRequest, "credential id is required")
	}
	if certificate.IsPending(credentialID) {
		s.countVerification("pending")
		return nil, pkgerrors.New(pkgerrors.CodeCertificatePending, "certificate is not yet issued")
	}

	cert, err := s.store.FindByCredentialID(ctx, credentialID)
	if errors.Is(err, store.ErrNotFound) {
		s.countVerification("not_found")
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "certificate not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.CodeInternal, "failed to load certificate")
	}

	s.countVerification("valid")
	return &VerificationResult{
		Valid:           true,
		Certification:   cert,
		VerificationURL: certificate.VerificationURL(s.baseURL, cert.CredentialID),
		VerifiedAt:      requestcontext.Now(ctx).UTC(),
	}, nil
}

// ListForUser returns the user's certifications, newest first.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]*certificate.Certification, error) {
	if userID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user context")
	}
	certs, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.CodeInternal, "failed to list certificates")
	}
	return certs, nil
}

// ShareLinks holds the URLs a client needs to share a certification.
type ShareLinks struct {
	CredentialID    string `json:"credential_id"`
	VerificationURL string `json:"verification_url"`
	LinkedInURL     string `json:"linkedin_url"`
}

// Share builds the share payload for one of the user's own certifications.
// Only the owner may share, and pending credentials are not shareable.
func (s *Service) Share(ctx context.Context, userID, credentialID string) (*ShareLinks, error) {
	if userID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user context")
	}
	if certificate.IsPending(credentialID) {
		return nil, pkgerrors.New(pkgerrors.CodeCertificatePending, "certificate is not yet issued")
	}

	cert, err := s.store.FindByCredentialID(ctx, credentialID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "certificate not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.CodeInternal, "failed to load certificate")
	}
	if cert.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "certificate belongs to another user")
	}

	return &ShareLinks{
		CredentialID:    cert.CredentialID,
		VerificationURL: certificate.VerificationURL(s.baseURL, cert.CredentialID),
		LinkedInURL: certificate.LinkedInShareURL(certificate.ShareParams{
			CourseName:   cert.CourseName,
			CredentialID: cert.CredentialID,
			IssuedAt:     cert.IssuedAt,
		}, s.baseURL),
	}, nil
}

func (s *Service) countVerification(result string) {
	if s.metrics != nil {
		s.metrics.IncrementVerifications(result)
	}
}
