package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ihiteshgupta/learnflow/internal/certificate"
	"github.com/ihiteshgupta/learnflow/internal/certificate/service"
	dErrors "github.com/ihiteshgupta/learnflow/pkg/domain-errors"
	"github.com/ihiteshgupta/learnflow/pkg/platform/httputil"
	"github.com/ihiteshgupta/learnflow/pkg/requestcontext"
)

// Service defines the certificate operations the handler depends on.
type Service interface {
	Verify(ctx context.Context, credentialID string) (*service.VerificationResult, error)
	ListForUser(ctx context.Context, userID string) ([]*certificate.Certification, error)
	Share(ctx context.Context, userID, credentialID string) (*service.ShareLinks, error)
}

// Handler serves the public verification endpoint and the authenticated
// certificate surface.
type Handler struct {
	certs  Service
	logger *slog.Logger
}

func New(certs Service, logger *slog.Logger) *Handler {
	return &Handler{certs: certs, logger: logger}
}

// RegisterPublic mounts the unauthenticated verification route.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Get("/verify/{credentialID}", h.handleVerify)
}

// RegisterMe mounts the authenticated routes under /me.
func (h *Handler) RegisterMe(r chi.Router) {
	r.Get("/me/certificates", h.handleList)
	r.Get("/me/certificates/{credentialID}/share", h.handleShare)
}

func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	credentialID := chi.URLParam(r, "credentialID")

	res, err := h.certs.Verify(ctx, credentialID)
	if err != nil {
		h.logger.InfoContext(ctx, "certificate verification rejected",
			"request_id", requestcontext.RequestID(ctx),
			"credential_id", credentialID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := requestcontext.UserID(ctx)
	if userID == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	certs, err := h.certs.ListForUser(ctx, userID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if certs == nil {
		certs = []*certificate.Certification{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"certificates": certs})
}

func (h *Handler) handleShare(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := requestcontext.UserID(ctx)
	if userID == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	links, err := h.certs.Share(ctx, userID, chi.URLParam(r, "credentialID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, links)
}
