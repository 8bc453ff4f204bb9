// Package course models the catalog: courses, their lessons, and learner
// enrollments.
package course

import "time"

// Level buckets courses by difficulty.
type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

func (l Level) IsValid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

// Course is a catalog entry. Slug is the stable URL identity.
type Course struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Level       Level     `json:"level"`
	LessonCount int       `json:"lesson_count"`
	XPReward    int       `json:"xp_reward"`
	CreatedAt   time.Time `json:"created_at"`
}

// Lesson is one unit of a course, ordered by Position.
type Lesson struct {
	ID              string `json:"id"`
	CourseID        string `json:"course_id"`
	Position        int    `json:"position"`
	Title           string `json:"title"`
	DurationMinutes int    `json:"duration_minutes"`
}

// Enrollment ties a user to a course. CompletedAt is nil until the user
// finishes.
type Enrollment struct {
	UserID      string     `json:"user_id"`
	CourseID    string     `json:"course_id"`
	EnrolledAt  time.Time  `json:"enrolled_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Completed reports whether the enrollment has been finished.
func (e *Enrollment) Completed() bool {
	return e.CompletedAt != nil
}
