// Package handler exposes the AI tutor chat endpoint.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ihiteshgupta/learnflow/internal/tutor"
	"github.com/ihiteshgupta/learnflow/internal/tutor/service"
	"github.com/ihiteshgupta/learnflow/pkg/platform/httputil"
	"github.com/ihiteshgupta/learnflow/pkg/requestcontext"
)

const maxBodyBytes = 1 << 18

// Service defines the tutor operations the handler depends on.
type Service interface {
	Chat(ctx context.Context, req service.ChatRequest) (*service.ChatResult, error)
}

// Handler serves the authenticated tutor chat surface.
type Handler struct {
	svc    Service
	logger *slog.Logger
}

func New(svc Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Register mounts the tutor routes. The router group is expected to carry
// the JWT auth middleware.
func (h *Handler) Register(r chi.Router) {
	r.Post("/me/tutor/chat", h.handleChat)
}

type chatRequest struct {
	CourseTitle string          `json:"course_title,omitempty"`
	LessonTitle string          `json:"lesson_title,omitempty"`
	Messages    []tutor.Message `json:"messages"`
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req chatRequest
	if err := httputil.DecodeJSON(w, r, &req, maxBodyBytes); err != nil {
		httputil.WriteError(w, err)
		return
	}

	res, err := h.svc.Chat(ctx, service.ChatRequest{
		CourseTitle: req.CourseTitle,
		LessonTitle: req.LessonTitle,
		Messages:    req.Messages,
	})
	if err != nil {
		var limited *service.RateLimitedError
		if errors.As(err, &limited) {
			h.logger.WarnContext(ctx, "tutor_chat_throttled",
				"user_id", requestcontext.UserID(ctx),
				"request_id", requestcontext.RequestID(ctx),
			)
			httputil.WriteRateLimited(w, limited.Result.ResetAt, limited.Result.Remaining)
			return
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, res)
}
