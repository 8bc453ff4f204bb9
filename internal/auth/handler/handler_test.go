package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ihiteshgupta/learnflow/internal/auth/service"
	"github.com/ihiteshgupta/learnflow/internal/auth/store"
	"github.com/ihiteshgupta/learnflow/internal/auth/token"
	"github.com/ihiteshgupta/learnflow/internal/ratelimit"
)

func newTestRouter(t *testing.T) *chi.Mux {
	t.Helper()

	svc := service.NewService(
		store.NewInMemory(),
		token.NewService("test-signing-key", 15*time.Minute),
		ratelimit.New(ratelimit.DefaultConfig()),
	)
	h := New(svc, slog.New(slog.DiscardHandler))

	r := chi.NewRouter()
	h.Register(r)
	return r
}

func register(t *testing.T, r *chi.Mux, email string) {
	t.Helper()
	body := `{"email":"` + email + `","password":"correct horse battery staple","display_name":"Ada"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestRegisterAndLogin(t *testing.T) {
	r := newTestRouter(t)
	register(t, r, "a@example.com")

	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"a@example.com","password":"correct horse battery staple"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var res struct {
		Token string `json:"token"`
		User  struct {
			Email        string `json:"email"`
			PasswordHash string `json:"password_hash"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "a@example.com", res.User.Email)
	assert.Empty(t, res.User.PasswordHash, "the hash must never serialize")
}

func TestLogin_BadCredentials(t *testing.T) {
	r := newTestRouter(t)
	register(t, r, "a@example.com")

	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"a@example.com","password":"wrong"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogin_RateLimited(t *testing.T) {
	r := newTestRouter(t)
	register(t, r, "a@example.com")

	body := `{"email":"a@example.com","password":"wrong"}`
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
}

func TestRegister_Validation(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/register",
		strings.NewReader(`{"email":"a@example.com","password":"short"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
