package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ihiteshgupta/learnflow/internal/course"
	"github.com/ihiteshgupta/learnflow/internal/course/service"
	dErrors "github.com/ihiteshgupta/learnflow/pkg/domain-errors"
	"github.com/ihiteshgupta/learnflow/pkg/platform/httputil"
	"github.com/ihiteshgupta/learnflow/pkg/requestcontext"
)

const maxBodyBytes = 1 << 20

// Service defines the catalog operations the handler depends on.
type Service interface {
	List(ctx context.Context) ([]*course.Course, error)
	Get(ctx context.Context, slug string) (*course.Course, error)
	Lessons(ctx context.Context, slug string) ([]*course.Lesson, error)
	Enroll(ctx context.Context, userID, slug string) (*course.Enrollment, error)
	Complete(ctx context.Context, userID, slug string, examScore *float64) (*service.CompletionResult, error)
	Create(ctx context.Context, req service.CreateRequest) (*course.Course, error)
	Delete(ctx context.Context, slug string) error
}

// Handler serves the catalog, enrollment, and admin course management.
type Handler struct {
	courses Service
	logger  *slog.Logger
}

func New(courses Service, logger *slog.Logger) *Handler {
	return &Handler{courses: courses, logger: logger}
}

// RegisterPublic mounts the unauthenticated catalog routes.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Get("/courses", h.handleList)
	r.Get("/courses/{slug}", h.handleGet)
	r.Get("/courses/{slug}/lessons", h.handleLessons)
}

// RegisterAuthenticated mounts the routes requiring a logged-in learner.
func (h *Handler) RegisterAuthenticated(r chi.Router) {
	r.Post("/courses/{slug}/enroll", h.handleEnroll)
	r.Post("/courses/{slug}/complete", h.handleComplete)
}

// RegisterAdmin mounts catalog management behind the admin middleware.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Post("/admin/courses", h.handleCreate)
	r.Delete("/admin/courses/{slug}", h.handleDelete)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	courses, err := h.courses.List(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if courses == nil {
		courses = []*course.Course{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"courses": courses})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	c, err := h.courses.Get(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) handleLessons(w http.ResponseWriter, r *http.Request) {
	lessons, err := h.courses.Lessons(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if lessons == nil {
		lessons = []*course.Lesson{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"lessons": lessons})
}

func (h *Handler) handleEnroll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := requestcontext.UserID(ctx)
	if userID == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	e, err := h.courses.Enroll(ctx, userID, chi.URLParam(r, "slug"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, e)
}

type completeRequest struct {
	ExamScore *float64 `json:"exam_score,omitempty"`
}

func (h *Handler) handleComplete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := requestcontext.UserID(ctx)
	if userID == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	var req completeRequest
	if r.ContentLength > 0 {
		if err := httputil.DecodeJSON(w, r, &req, maxBodyBytes); err != nil {
			httputil.WriteError(w, err)
			return
		}
	}

	res, err := h.courses.Complete(ctx, userID, chi.URLParam(r, "slug"), req.ExamScore)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

type createRequest struct {
	Slug        string          `json:"slug"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Level       string          `json:"level"`
	XPReward    int             `json:"xp_reward"`
	Lessons     []lessonRequest `json:"lessons"`
}

type lessonRequest struct {
	Title           string `json:"title"`
	DurationMinutes int    `json:"duration_minutes"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createRequest
	if err := httputil.DecodeJSON(w, r, &req, maxBodyBytes); err != nil {
		httputil.WriteError(w, err)
		return
	}

	lessons := make([]service.LessonRequest, 0, len(req.Lessons))
	for _, l := range req.Lessons {
		lessons = append(lessons, service.LessonRequest{
			Title:           l.Title,
			DurationMinutes: l.DurationMinutes,
		})
	}

	c, err := h.courses.Create(ctx, service.CreateRequest{
		Slug:        req.Slug,
		Title:       req.Title,
		Description: req.Description,
		Level:       course.Level(req.Level),
		XPReward:    req.XPReward,
		Lessons:     lessons,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "course creation rejected",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.courses.Delete(r.Context(), chi.URLParam(r, "slug")); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
