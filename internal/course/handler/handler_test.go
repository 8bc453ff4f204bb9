package handler

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ihiteshgupta/learnflow/internal/course/service"
	"github.com/ihiteshgupta/learnflow/internal/course/store"
	"github.com/ihiteshgupta/learnflow/pkg/requestcontext"
)

func newRouter(t *testing.T) chi.Router {
	t.Helper()

	svc := service.NewService(store.NewInMemory(),
		service.WithLogger(slog.New(slog.DiscardHandler)),
	)
	h := New(svc, slog.New(slog.DiscardHandler))

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := requestcontext.WithUserID(req.Context(), "user-1")
			ctx = requestcontext.WithTime(ctx, time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC))
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	h.RegisterPublic(r)
	h.RegisterAuthenticated(r)
	h.RegisterAdmin(r)
	return r
}

func do(r chi.Router, method, path string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func createCourse(t *testing.T, r chi.Router) {
	t.Helper()
	rec := do(r, http.MethodPost, "/admin/courses", strings.NewReader(`{
		"slug": "go-basics",
		"title": "Go Basics",
		"description": "An introduction to Go.",
		"level": "beginner",
		"xp_reward": 300,
		"lessons": [
			{"title": "Hello, World", "duration_minutes": 10},
			{"title": "Types", "duration_minutes": 20}
		]
	}`))
	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestCatalog_ListAndGet(t *testing.T) {
	r := newRouter(t)

	rec := do(r, http.MethodGet, "/courses", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"courses": []}`, rec.Body.String())

	createCourse(t, r)

	rec = do(r, http.MethodGet, "/courses/go-basics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"Go Basics"`)

	rec = do(r, http.MethodGet, "/courses/go-basics/lessons", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"Hello, World"`)

	rec = do(r, http.MethodGet, "/courses/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEnrollAndComplete(t *testing.T) {
	r := newRouter(t)
	createCourse(t, r)

	rec := do(r, http.MethodPost, "/courses/go-basics/enroll", nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(r, http.MethodPost, "/courses/go-basics/complete", strings.NewReader(`{"exam_score": 95}`))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"go-basics"`)

	// Completing twice is rejected.
	rec = do(r, http.MethodPost, "/courses/go-basics/complete", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestComplete_RequiresEnrollment(t *testing.T) {
	r := newRouter(t)
	createCourse(t, r)

	rec := do(r, http.MethodPost, "/courses/go-basics/complete", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "not_enrolled")
}

func TestAdmin_CreateValidationAndDelete(t *testing.T) {
	r := newRouter(t)

	rec := do(r, http.MethodPost, "/admin/courses", strings.NewReader(`{"title": "No slug"}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	createCourse(t, r)

	rec = do(r, http.MethodDelete, "/admin/courses/go-basics", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(r, http.MethodGet, "/courses/go-basics", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
