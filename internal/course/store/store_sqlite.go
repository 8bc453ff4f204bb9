package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ihiteshgupta/learnflow/internal/course"
)

// SQLiteStore persists the catalog through database/sql.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite wraps an opened database handle.
func NewSQLite(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) SaveCourse(ctx context.Context, c *course.Course, lessons []*course.Lesson) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO courses (id, slug, title, description, level, lesson_count, xp_reward, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Slug, c.Title, c.Description, string(c.Level),
		c.LessonCount, c.XPReward, c.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("insert course: %w", err)
	}

	for _, l := range lessons {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO lessons (id, course_id, position, title, duration_minutes)
			VALUES (?, ?, ?, ?, ?)`,
			l.ID, l.CourseID, l.Position, l.Title, l.DurationMinutes,
		)
		if err != nil {
			return fmt.Errorf("insert lesson: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit course: %w", err)
	}
	return nil
}

func (s *SQLiteStore) FindBySlug(ctx context.Context, slug string) (*course.Course, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, slug, title, description, level, lesson_count, xp_reward, created_at
		FROM courses WHERE slug = ?`, slug)

	c, err := scanCourse(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find course: %w", err)
	}
	return c, nil
}

func (s *SQLiteStore) ListCourses(ctx context.Context) ([]*course.Course, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, slug, title, description, level, lesson_count, xp_reward, created_at
		FROM courses ORDER BY slug`)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	var out []*course.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate courses: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) DeleteBySlug(ctx context.Context, slug string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM courses WHERE slug = ?`, slug)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) ListLessons(ctx context.Context, courseID string) ([]*course.Lesson, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, course_id, position, title, duration_minutes
		FROM lessons WHERE course_id = ? ORDER BY position`, courseID)
	if err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	defer rows.Close()

	var out []*course.Lesson
	for rows.Next() {
		var l course.Lesson
		if err := rows.Scan(&l.ID, &l.CourseID, &l.Position, &l.Title, &l.DurationMinutes); err != nil {
			return nil, fmt.Errorf("scan lesson: %w", err)
		}
		out = append(out, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lessons: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) Enroll(ctx context.Context, e *course.Enrollment) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO enrollments (user_id, course_id, enrolled_at, completed_at)
		VALUES (?, ?, ?, NULL)`,
		e.UserID, e.CourseID, e.EnrolledAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("insert enrollment: %w", err)
	}
	return nil
}

func (s *SQLiteStore) FindEnrollment(ctx context.Context, userID, courseID string) (*course.Enrollment, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT user_id, course_id, enrolled_at, completed_at
		FROM enrollments WHERE user_id = ? AND course_id = ?`, userID, courseID)

	var (
		e           course.Enrollment
		enrolledAt  string
		completedAt sql.NullString
	)
	err := row.Scan(&e.UserID, &e.CourseID, &enrolledAt, &completedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find enrollment: %w", err)
	}

	t, err := time.Parse(time.RFC3339Nano, enrolledAt)
	if err != nil {
		return nil, fmt.Errorf("parse enrolled_at: %w", err)
	}
	e.EnrolledAt = t

	if completedAt.Valid {
		ct, err := time.Parse(time.RFC3339Nano, completedAt.String)
		if err != nil {
			return nil, fmt.Errorf("parse completed_at: %w", err)
		}
		e.CompletedAt = &ct
	}
	return &e, nil
}

func (s *SQLiteStore) CompleteEnrollment(ctx context.Context, e *course.Enrollment) error {
	var completedAt any
	if e.CompletedAt != nil {
		completedAt = e.CompletedAt.UTC().Format(time.RFC3339Nano)
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE enrollments SET completed_at = ? WHERE user_id = ? AND course_id = ?`,
		completedAt, e.UserID, e.CourseID,
	)
	if err != nil {
		return fmt.Errorf("complete enrollment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("complete enrollment: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCourse(row rowScanner) (*course.Course, error) {
	var (
		c         course.Course
		level     string
		createdAt string
	)
	if err := row.Scan(&c.ID, &c.Slug, &c.Title, &c.Description, &level,
		&c.LessonCount, &c.XPReward, &createdAt); err != nil {
		return nil, err
	}
	c.Level = course.Level(level)

	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	c.CreatedAt = t
	return &c, nil
}
