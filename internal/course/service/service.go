package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/ihiteshgupta/learnflow/internal/certificate"
	certservice "github.com/ihiteshgupta/learnflow/internal/certificate/service"
	"github.com/ihiteshgupta/learnflow/internal/course"
	"github.com/ihiteshgupta/learnflow/internal/course/store"
	"github.com/ihiteshgupta/learnflow/internal/progress"
	"github.com/ihiteshgupta/learnflow/internal/xp"
	pkgerrors "github.com/ihiteshgupta/learnflow/pkg/domain-errors"
	"github.com/ihiteshgupta/learnflow/pkg/requestcontext"
)

// CertificateIssuer mints certificates when a learner completes a course.
type CertificateIssuer interface {
	Issue(ctx context.Context, req certservice.IssueRequest) (*certificate.Certification, error)
}

// ActivityRecorder feeds completion events into the gamification pipeline.
type ActivityRecorder interface {
	RecordActivity(ctx context.Context, userID string, ev progress.ActivityEvent) (*progress.ActivityResult, error)
}

// Service owns the catalog and the enrollment lifecycle. Completion fans out
// to certificate issuance and XP award; both collaborators are optional so
// the catalog can run standalone in tests.
type Service struct {
	store    store.Store
	certs    CertificateIssuer
	activity ActivityRecorder
	logger   *slog.Logger
}

type Option func(*Service)

// WithLogger sets the logger instance for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithCertificateIssuer wires certificate issuance into course completion.
func WithCertificateIssuer(issuer CertificateIssuer) Option {
	return func(s *Service) {
		s.certs = issuer
	}
}

// WithActivityRecorder wires XP and streak updates into course completion.
func WithActivityRecorder(recorder ActivityRecorder) Option {
	return func(s *Service) {
		s.activity = recorder
	}
}

func NewService(st store.Store, opts ...Option) *Service {
	svc := &Service{
		store:  st,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// List returns the whole catalog ordered by slug.
func (s *Service) List(ctx context.Context) ([]*course.Course, error) {
	courses, err := s.store.ListCourses(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.CodeInternal, "failed to list courses")
	}
	return courses, nil
}

// Get resolves one course by slug.
func (s *Service) Get(ctx context.Context, slug string) (*course.Course, error) {
	c, err := s.store.FindBySlug(ctx, slug)
	if errors.Is(err, store.ErrNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "course not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.CodeInternal, "failed to load course")
	}
	return c, nil
}

// Lessons returns a course's lessons ordered by position.
func (s *Service) Lessons(ctx context.Context, slug string) ([]*course.Lesson, error) {
	c, err := s.Get(ctx, slug)
	if err != nil {
		return nil, err
	}
	lessons, err := s.store.ListLessons(ctx, c.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.CodeInternal, "failed to list lessons")
	}
	return lessons, nil
}

// Enroll signs the user up for a course. Re-enrolling is a conflict.
func (s *Service) Enroll(ctx context.Context, userID, slug string) (*course.Enrollment, error) {
	if userID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user context")
	}
	c, err := s.Get(ctx, slug)
	if err != nil {
		return nil, err
	}

	e := &course.Enrollment{
		UserID:     userID,
		CourseID:   c.ID,
		EnrolledAt: requestcontext.Now(ctx).UTC(),
	}
	err = s.store.Enroll(ctx, e)
	if errors.Is(err, store.ErrAlreadyExists) {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "already enrolled")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.CodeInternal, "failed to enroll")
	}

	s.logger.InfoContext(ctx, "user_enrolled", "user_id", userID, "course", slug)
	return e, nil
}

// CompletionResult is what a learner gets back for finishing a course.
type CompletionResult struct {
	Course        *course.Course             `json:"course"`
	Certification *certificate.Certification `json:"certification,omitempty"`
	Award         *progress.ActivityResult   `json:"award,omitempty"`
}

// Complete marks the enrollment finished, awards XP, and issues a
// certificate. Completing twice is a conflict; completing without enrolling
// is rejected.
func (s *Service) Complete(ctx context.Context, userID, slug string, examScore *float64) (*CompletionResult, error) {
	if userID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user context")
	}
	c, err := s.Get(ctx, slug)
	if err != nil {
		return nil, err
	}

	e, err := s.store.FindEnrollment(ctx, userID, c.ID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotEnrolled, "not enrolled in this course")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.CodeInternal, "failed to load enrollment")
	}
	if e.Completed() {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "course already completed")
	}

	now := requestcontext.Now(ctx).UTC()
	e.CompletedAt = &now
	if err := s.store.CompleteEnrollment(ctx, e); err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.CodeInternal, "failed to complete enrollment")
	}

	result := &CompletionResult{Course: c}
	tier := tierForScore(examScore)

	if s.activity != nil {
		award, err := s.activity.RecordActivity(ctx, userID, progress.ActivityEvent{
			Kind: kindForTier(tier),
		})
		if err != nil {
			// Completion already persisted; the award is best effort.
			s.logger.ErrorContext(ctx, "failed to record completion activity",
				"user_id", userID, "course", slug, "error", err)
		} else {
			result.Award = award
		}
	}

	if s.certs != nil {
		cert, err := s.certs.Issue(ctx, certservice.IssueRequest{
			UserID:        userID,
			Tier:          tier,
			RecipientName: recipientName(ctx, userID),
			CourseName:    c.Title,
			ExamScore:     examScore,
		})
		if err != nil {
			s.logger.ErrorContext(ctx, "failed to issue completion certificate",
				"user_id", userID, "course", slug, "error", err)
		} else {
			result.Certification = cert
		}
	}

	s.logger.InfoContext(ctx, "course_completed", "user_id", userID, "course", slug)
	return result, nil
}

// CreateRequest is the admin payload for adding a course with its lessons.
type CreateRequest struct {
	Slug        string
	Title       string
	Description string
	Level       course.Level
	XPReward    int
	Lessons     []LessonRequest
}

type LessonRequest struct {
	Title           string
	DurationMinutes int
}

// Create adds a course to the catalog.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*course.Course, error) {
	req.Slug = strings.TrimSpace(strings.ToLower(req.Slug))
	if req.Slug == "" || req.Title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug and title are required")
	}
	if req.Level == "" {
		req.Level = course.LevelBeginner
	}
	if !req.Level.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeBadRequest, fmt.Sprintf("invalid level: %s", req.Level))
	}

	c := &course.Course{
		ID:          uuid.NewString(),
		Slug:        req.Slug,
		Title:       req.Title,
		Description: req.Description,
		Level:       req.Level,
		LessonCount: len(req.Lessons),
		XPReward:    req.XPReward,
		CreatedAt:   requestcontext.Now(ctx).UTC(),
	}
	lessons := make([]*course.Lesson, 0, len(req.Lessons))
	for i, l := range req.Lessons {
		lessons = append(lessons, &course.Lesson{
			ID:              uuid.NewString(),
			CourseID:        c.ID,
			Position:        i + 1,
			Title:           l.Title,
			DurationMinutes: l.DurationMinutes,
		})
	}

	err := s.store.SaveCourse(ctx, c, lessons)
	if errors.Is(err, store.ErrAlreadyExists) {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "course slug already exists")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.CodeInternal, "failed to save course")
	}

	s.logger.InfoContext(ctx, "course_created", "course", c.Slug, "lessons", len(lessons))
	return c, nil
}

// Delete removes a course and its lessons and enrollments.
func (s *Service) Delete(ctx context.Context, slug string) error {
	err := s.store.DeleteBySlug(ctx, slug)
	if errors.Is(err, store.ErrNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "course not found")
	}
	if err != nil {
		return pkgerrors.Wrap(err, pkgerrors.CodeInternal, "failed to delete course")
	}
	s.logger.InfoContext(ctx, "course_deleted", "course", slug)
	return nil
}

// kindForTier maps a certificate tier to its XP activity kind.
func kindForTier(tier certificate.Tier) xp.ActivityKind {
	switch tier {
	case certificate.TierGold:
		return xp.ActivityGoldCert
	case certificate.TierSilver:
		return xp.ActivitySilverCert
	default:
		return xp.ActivityBronzeCert
	}
}

// tierForScore buckets an optional exam score into a certificate tier.
// No exam means the baseline bronze award.
func tierForScore(score *float64) certificate.Tier {
	switch {
	case score == nil:
		return certificate.TierBronze
	case *score >= 90:
		return certificate.TierGold
	case *score >= 75:
		return certificate.TierSilver
	default:
		return certificate.TierBronze
	}
}

// recipientName resolves the certificate display name from the auth claims,
// falling back to the user ID when the token carries no name.
func recipientName(ctx context.Context, userID string) string {
	if name := requestcontext.DisplayName(ctx); name != "" {
		return name
	}
	return userID
}
