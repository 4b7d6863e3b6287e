// AngelaMos | 2026
// errors_test.go

package core

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestClassifyDBError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"unique violation", &pgconn.PgError{Code: "23505"}, ErrDuplicateKey},
		{"admin shutdown", &pgconn.PgError{Code: "57P01"}, ErrUnavailable},
		{"connection failure class", &pgconn.PgError{Code: "08006"}, ErrUnavailable},
		{"bad conn", driver.ErrBadConn, ErrUnavailable},
		{"deadline", context.DeadlineExceeded, ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyDBError("op", fmt.Errorf("wrapped: %w", tt.err))
			if !errors.Is(got, tt.want) {
				t.Fatalf("ClassifyDBError = %v, want wrapping %v", got, tt.want)
			}
		})
	}

	if ClassifyDBError("op", nil) != nil {
		t.Fatal("nil error must stay nil")
	}

	plain := ClassifyDBError("op", &pgconn.PgError{Code: "23514"})
	if errors.Is(plain, ErrDuplicateKey) || errors.Is(plain, ErrUnavailable) {
		t.Fatalf("check violation misclassified: %v", plain)
	}
}

func TestJSONErrorMapsSentinels(t *testing.T) {
	tests := []struct {
		err  error
		code int
		key  string
	}{
		{fmt.Errorf("get: %w", ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{fmt.Errorf("create: %w", ErrDuplicateKey), http.StatusBadRequest, "DUPLICATE"},
		{ErrTokenExpired, http.StatusUnauthorized, "TOKEN_EXPIRED"},
		{ErrTokenInvalid, http.StatusUnauthorized, "TOKEN_INVALID"},
		{fmt.Errorf("ping: %w", ErrUnavailable), http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
		{errors.New("kaboom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
		{ValidationError("bad", nil), http.StatusBadRequest, "VALIDATION_ERROR"},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		JSONError(rec, tt.err)

		if rec.Code != tt.code {
			t.Errorf("%v: status = %d, want %d", tt.err, rec.Code, tt.code)
			continue
		}

		var body ErrorResponse
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.Success || body.Error.Code != tt.key {
			t.Errorf("%v: body = %+v", tt.err, body)
		}
		if tt.code == http.StatusInternalServerError && body.Error.Message != "internal server error" {
			t.Errorf("internal cause leaked: %q", body.Error.Message)
		}
	}
}

func TestInternalServerErrorKeepsUnavailable(t *testing.T) {
	rec := httptest.NewRecorder()
	InternalServerError(rec, fmt.Errorf("list: %w", ErrUnavailable))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}
