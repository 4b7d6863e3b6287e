// AngelaMos | 2026
// handler_test.go

package user

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/subtracker/internal/core"
	"github.com/carterperez-dev/subtracker/internal/middleware"
)

func newTestRouter(t *testing.T, userID int64) (*chi.Mux, *Service) {
	t.Helper()

	svc := NewService(newMemoryRepo())
	protect := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.WithUserID(r.Context(), userID)))
		})
	}

	router := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(router, protect)
	return router, svc
}

func TestMeEndpoints(t *testing.T) {
	router, svc := newTestRouter(t, 1)

	if _, err := svc.Create(context.Background(), "alice@example.com", "hash"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := svc.Create(context.Background(), "bob@example.com", "hash"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/me", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("get me = %d", rec.Code)
	}

	var me UserResponse
	if err := json.NewDecoder(rec.Body).Decode(&me); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if me.ID != 1 || me.Email != "alice@example.com" {
		t.Fatalf("me = %+v", me)
	}
	if strings.Contains(rec.Body.String(), "hash") {
		t.Fatal("password hash leaked")
	}

	tests := []struct {
		name string
		body string
		code int
	}{
		{"invalid email", `{"email":"nope"}`, http.StatusBadRequest},
		{"short password", `{"password":"short"}`, http.StatusBadRequest},
		{"duplicate email", `{"email":"bob@example.com"}`, http.StatusBadRequest},
		{"valid change", `{"email":"alice@work.example"}`, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPut, "/users/me", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.code {
				t.Fatalf("status = %d, want %d body=%s", rec.Code, tt.code, rec.Body.String())
			}
		})
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/users/me", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/me", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete = %d", rec.Code)
	}

	var errResp core.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if errResp.Error.Code != "NOT_FOUND" {
		t.Fatalf("code = %s", errResp.Error.Code)
	}
}
