// AngelaMos | 2026
// validation_test.go

package core

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type sample struct {
	Name  string  `json:"name"  validate:"required,notblank,max=5"`
	Email string  `json:"email" validate:"omitempty,email"`
	Cost  float64 `json:"cost"  validate:"gte=0"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		limit   int64
		wantErr string
	}{
		{"valid", `{"name":"a"}`, 0, ""},
		{"empty", ``, 0, "request body is empty"},
		{"malformed", `{"name":`, 0, "malformed JSON"},
		{"syntax", `{"name" "a"}`, 0, "malformed JSON"},
		{"wrong type", `{"cost":"free"}`, 0, "cost must be of type float64"},
		{"trailing document", `{"name":"a"}{"name":"b"}`, 0, "single JSON object"},
		{"too large", `{"name":"` + strings.Repeat("x", 64) + `"}`, 16, "request body too large"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			if tt.limit > 0 {
				req.Body = http.MaxBytesReader(httptest.NewRecorder(), req.Body, tt.limit)
			}

			var dst sample
			err := DecodeJSON(req, &dst)

			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err = %v, want %q", err, tt.wantErr)
			}
			if !IsAppError(err) {
				t.Fatalf("err is not an AppError: %T", err)
			}
		})
	}
}

func TestValidationDetails(t *testing.T) {
	v := NewValidator()

	err := v.Struct(sample{Name: "  ", Email: "nope", Cost: -1})
	if err == nil {
		t.Fatal("expected validation failure")
	}

	got := map[string]string{}
	for _, fe := range ValidationDetails(err) {
		got[fe.Field] = fe.Rule
	}

	want := map[string]string{"name": "notblank", "email": "email", "cost": "gte"}
	for field, rule := range want {
		if got[field] != rule {
			t.Errorf("%s rule = %q, want %q (all: %v)", field, got[field], rule, got)
		}
	}

	msg := FormatValidationError(err)
	if !strings.Contains(msg, "name must not be blank") {
		t.Errorf("message = %q", msg)
	}

	if err := v.Struct(sample{Name: "ok"}); err != nil {
		t.Fatalf("valid struct rejected: %v", err)
	}
}
