package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ihiteshgupta/learnflow/internal/auth"
	"github.com/ihiteshgupta/learnflow/internal/auth/service"
	"github.com/ihiteshgupta/learnflow/pkg/platform/httputil"
	"github.com/ihiteshgupta/learnflow/pkg/requestcontext"
)

const maxBodyBytes = 1 << 16

// Service defines the auth operations the handler depends on.
type Service interface {
	Register(ctx context.Context, req service.RegisterRequest) (*auth.User, error)
	Login(ctx context.Context, email, password string) (*service.LoginResult, error)
}

// Handler serves registration and login.
type Handler struct {
	svc    Service
	logger *slog.Logger
}

func New(svc Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Register mounts the public auth routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/auth/register", h.handleRegister)
	r.Post("/auth/login", h.handleLogin)
}

type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
	Timezone    string `json:"timezone"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req registerRequest
	if err := httputil.DecodeJSON(w, r, &req, maxBodyBytes); err != nil {
		httputil.WriteError(w, err)
		return
	}

	u, err := h.svc.Register(ctx, service.RegisterRequest{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		Timezone:    req.Timezone,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, u)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if err := httputil.DecodeJSON(w, r, &req, maxBodyBytes); err != nil {
		httputil.WriteError(w, err)
		return
	}

	res, err := h.svc.Login(ctx, req.Email, req.Password)
	var limited *service.RateLimitedError
	if errors.As(err, &limited) {
		h.logger.WarnContext(ctx, "login throttled",
			"request_id", requestcontext.RequestID(ctx),
			"device", requestcontext.DeviceName(ctx),
		)
		httputil.WriteRateLimited(w, limited.Result.ResetAt, limited.Result.Remaining)
		return
	}
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}
