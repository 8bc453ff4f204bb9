package store

import (
	"context"
	"errors"

	"github.com/ihiteshgupta/learnflow/internal/course"
)

var (
	// ErrNotFound is returned when no course or enrollment matches the key.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned on duplicate course slugs or enrollments.
	ErrAlreadyExists = errors.New("already exists")
)

// Store is the persistence interface for the catalog.
// Error Contract:
// - Find/lookup methods return ErrNotFound when no record exists
// - SaveCourse and Enroll return ErrAlreadyExists on duplicates
// - Other failures are wrapped infrastructure errors
type Store interface {
	SaveCourse(ctx context.Context, c *course.Course, lessons []*course.Lesson) error
	FindBySlug(ctx context.Context, slug string) (*course.Course, error)
	ListCourses(ctx context.Context) ([]*course.Course, error)
	DeleteBySlug(ctx context.Context, slug string) error
	ListLessons(ctx context.Context, courseID string) ([]*course.Lesson, error)

	Enroll(ctx context.Context, e *course.Enrollment) error
	FindEnrollment(ctx context.Context, userID, courseID string) (*course.Enrollment, error)
	CompleteEnrollment(ctx context.Context, e *course.Enrollment) error
}
