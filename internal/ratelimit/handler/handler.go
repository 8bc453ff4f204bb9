// Package handler exposes operational controls for the rate limiter.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ihiteshgupta/learnflow/internal/ratelimit"
	dErrors "github.com/ihiteshgupta/learnflow/pkg/domain-errors"
	"github.com/ihiteshgupta/learnflow/pkg/platform/httputil"
	"github.com/ihiteshgupta/learnflow/pkg/requestcontext"
)

const maxBodyBytes = 1 << 12

// Handler serves the admin surface of the limiter, used to unblock a
// locked-out identifier without waiting for the window to lapse.
type Handler struct {
	limiter *ratelimit.Limiter
	logger  *slog.Logger
}

func New(limiter *ratelimit.Limiter, logger *slog.Logger) *Handler {
	return &Handler{limiter: limiter, logger: logger}
}

// RegisterAdmin mounts the reset route. The router group is expected to
// carry the admin-role middleware.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Post("/admin/rate-limit/reset", h.handleReset)
}

type resetRequest struct {
	Identifier string `json:"identifier"`
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req resetRequest
	if err := httputil.DecodeJSON(w, r, &req, maxBodyBytes); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if req.Identifier == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "identifier is required"))
		return
	}

	h.limiter.Reset(ctx, req.Identifier)

	h.logger.InfoContext(ctx, "rate_limit_reset",
		"identifier", req.Identifier,
		"admin_id", requestcontext.UserID(ctx),
		"log_type", "audit",
	)

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}
