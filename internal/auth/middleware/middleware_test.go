package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ihiteshgupta/learnflow/internal/auth"
	"github.com/ihiteshgupta/learnflow/internal/auth/token"
	"github.com/ihiteshgupta/learnflow/pkg/requestcontext"
)

func issueToken(t *testing.T, svc *token.Service, role string) string {
	t.Helper()
	tok, err := svc.Generate(context.Background(), &auth.User{
		ID:          "user-1",
		DisplayName: "Ada Lovelace",
		Role:        role,
	})
	require.NoError(t, err)
	return tok
}

func TestAuthenticate(t *testing.T) {
	tokens := token.NewService("test-signing-key", time.Minute)

	var gotUserID, gotRole, gotName string
	handler := Authenticate(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = requestcontext.UserID(r.Context())
		gotRole = requestcontext.UserRole(r.Context())
		gotName = requestcontext.DisplayName(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/me/progress", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, tokens, auth.RoleLearner))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", gotUserID)
	assert.Equal(t, auth.RoleLearner, gotRole)
	assert.Equal(t, "Ada Lovelace", gotName)
}

func TestAuthenticate_Rejections(t *testing.T) {
	tokens := token.NewService("test-signing-key", time.Minute)
	handler := Authenticate(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc123"},
		{"garbage token", "Bearer not-a-jwt"},
		{"wrong key", "Bearer " + issueToken(t, token.NewService("other-key", time.Minute), auth.RoleLearner)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me/progress", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	t.Run("admin passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/admin/courses", nil)
		req = req.WithContext(requestcontext.WithUserRole(req.Context(), auth.RoleAdmin))
		rec := httptest.NewRecorder()
		RequireAdmin(next).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("learner forbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/admin/courses", nil)
		req = req.WithContext(requestcontext.WithUserRole(req.Context(), auth.RoleLearner))
		rec := httptest.NewRecorder()
		RequireAdmin(next).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("no role forbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/admin/courses", nil)
		rec := httptest.NewRecorder()
		RequireAdmin(next).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
