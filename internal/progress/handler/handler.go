package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ihiteshgupta/learnflow/internal/progress"
	"github.com/ihiteshgupta/learnflow/internal/streak"
	"github.com/ihiteshgupta/learnflow/internal/xp"
	dErrors "github.com/ihiteshgupta/learnflow/pkg/domain-errors"
	"github.com/ihiteshgupta/learnflow/pkg/platform/httputil"
	"github.com/ihiteshgupta/learnflow/pkg/requestcontext"
)

const maxBodyBytes = 1 << 16

// Service defines the progress operations the handler depends on.
type Service interface {
	RecordActivity(ctx context.Context, userID string, ev progress.ActivityEvent) (*progress.ActivityResult, error)
	Profile(ctx context.Context, userID string) (*progress.Profile, error)
	UseFreeze(ctx context.Context, userID string) (*streak.FreezeResult, error)
	SetTimezone(ctx context.Context, userID, tz string) error
}

// Handler serves the authenticated gamification surface under /me.
type Handler struct {
	svc    Service
	logger *slog.Logger
}

func New(svc Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Register mounts the progress routes. The router group is expected to carry
// the JWT auth middleware.
func (h *Handler) Register(r chi.Router) {
	r.Post("/me/activity", h.handleRecordActivity)
	r.Get("/me/progress", h.handleProfile)
	r.Post("/me/streak/freeze", h.handleUseFreeze)
	r.Put("/me/timezone", h.handleSetTimezone)
}

type activityRequest struct {
	Kind           string `json:"kind"`
	IsFirstAttempt bool   `json:"is_first_attempt"`
	IsPerfectScore bool   `json:"is_perfect_score"`
	NoHintsUsed    bool   `json:"no_hints_used"`
	UnderParTime   bool   `json:"under_par_time"`
}

func (h *Handler) handleRecordActivity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := requestcontext.UserID(ctx)
	if userID == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	var req activityRequest
	if err := httputil.DecodeJSON(w, r, &req, maxBodyBytes); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if req.Kind == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "kind is required"))
		return
	}

	res, err := h.svc.RecordActivity(ctx, userID, progress.ActivityEvent{
		Kind:           xp.ActivityKind(req.Kind),
		IsFirstAttempt: req.IsFirstAttempt,
		IsPerfectScore: req.IsPerfectScore,
		NoHintsUsed:    req.NoHintsUsed,
		UnderParTime:   req.UnderParTime,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to record activity",
			"request_id", requestcontext.RequestID(ctx),
			"user_id", userID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := requestcontext.UserID(ctx)
	if userID == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	profile, err := h.svc.Profile(ctx, userID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, profile)
}

func (h *Handler) handleUseFreeze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := requestcontext.UserID(ctx)
	if userID == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	res, err := h.svc.UseFreeze(ctx, userID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"streak":            res.Streak,
		"freezes_remaining": res.FreezesRemaining,
		"freeze_used":       res.FreezeUsed,
	})
}

type timezoneRequest struct {
	Timezone string `json:"timezone"`
}

func (h *Handler) handleSetTimezone(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := requestcontext.UserID(ctx)
	if userID == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	var req timezoneRequest
	if err := httputil.DecodeJSON(w, r, &req, maxBodyBytes); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.svc.SetTimezone(ctx, userID, req.Timezone); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
