package store

import (
	"context"
	"sort"
	"sync"

	"github.com/ihiteshgupta/learnflow/internal/course"
)

// InMemoryStore holds the catalog in memory for tests and local runs.
type InMemoryStore struct {
	mu          sync.RWMutex
	courses     map[string]*course.Course // slug -> course
	lessons     map[string][]*course.Lesson
	enrollments map[string]*course.Enrollment // userID+"/"+courseID
}

// NewInMemory constructs an empty in-memory catalog store.
func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		courses:     make(map[string]*course.Course),
		lessons:     make(map[string][]*course.Lesson),
		enrollments: make(map[string]*course.Enrollment),
	}
}

func enrollmentKey(userID, courseID string) string {
	return userID + "/" + courseID
}

func (s *InMemoryStore) SaveCourse(_ context.Context, c *course.Course, lessons []*course.Lesson) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.courses[c.Slug]; ok {
		return ErrAlreadyExists
	}
	copyCourse := *c
	s.courses[c.Slug] = &copyCourse

	copies := make([]*course.Lesson, 0, len(lessons))
	for _, l := range lessons {
		copyLesson := *l
		copies = append(copies, &copyLesson)
	}
	s.lessons[c.ID] = copies
	return nil
}

func (s *InMemoryStore) FindBySlug(_ context.Context, slug string) (*course.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.courses[slug]
	if !ok {
		return nil, ErrNotFound
	}
	copyCourse := *c
	return &copyCourse, nil
}

func (s *InMemoryStore) ListCourses(_ context.Context) ([]*course.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*course.Course, 0, len(s.courses))
	for _, c := range s.courses {
		copyCourse := *c
		out = append(out, &copyCourse)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out, nil
}

func (s *InMemoryStore) DeleteBySlug(_ context.Context, slug string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.courses[slug]
	if !ok {
		return ErrNotFound
	}
	delete(s.courses, slug)
	delete(s.lessons, c.ID)
	for key, e := range s.enrollments {
		if e.CourseID == c.ID {
			delete(s.enrollments, key)
		}
	}
	return nil
}

func (s *InMemoryStore) ListLessons(_ context.Context, courseID string) ([]*course.Lesson, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lessons := s.lessons[courseID]
	out := make([]*course.Lesson, 0, len(lessons))
	for _, l := range lessons {
		copyLesson := *l
		out = append(out, &copyLesson)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (s *InMemoryStore) Enroll(_ context.Context, e *course.Enrollment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := enrollmentKey(e.UserID, e.CourseID)
	if _, ok := s.enrollments[key]; ok {
		return ErrAlreadyExists
	}
	copyEnrollment := *e
	s.enrollments[key] = &copyEnrollment
	return nil
}

func (s *InMemoryStore) FindEnrollment(_ context.Context, userID, courseID string) (*course.Enrollment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.enrollments[enrollmentKey(userID, courseID)]
	if !ok {
		return nil, ErrNotFound
	}
	copyEnrollment := *e
	return &copyEnrollment, nil
}

func (s *InMemoryStore) CompleteEnrollment(_ context.Context, e *course.Enrollment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := enrollmentKey(e.UserID, e.CourseID)
	if _, ok := s.enrollments[key]; !ok {
		return ErrNotFound
	}
	copyEnrollment := *e
	s.enrollments[key] = &copyEnrollment
	return nil
}
