// AngelaMos | 2026
// jwt_test.go

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/carterperez-dev/subtracker/internal/config"
	"github.com/carterperez-dev/subtracker/internal/core"
)

const testSecret = "test-secret-that-is-long-enough-for-hs256"

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            testSecret,
		AccessTokenExpire: 30 * time.Minute,
		Issuer:            "subtracker",
		Audience:          "subtracker-api",
	}
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func newTestManager(t *testing.T, cfg config.JWTConfig) (*JWTManager, *fakeClock) {
	t.Helper()

	m, err := NewJWTManager(cfg)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	clock := &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	m.WithClock(clock.Now)
	return m, clock
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m, clock := newTestManager(t, testJWTConfig())

	token, expiresAt, err := m.CreateAccessToken("alice@example.com")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if want := clock.now.Add(30 * time.Minute); !expiresAt.Equal(want) {
		t.Fatalf("expiresAt = %v, want %v", expiresAt, want)
	}

	claims, err := m.VerifyAccessToken(context.Background(), token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}

	if claims.Subject != "alice@example.com" {
		t.Fatalf("subject = %q", claims.Subject)
	}
	if claims.TokenID == "" {
		t.Fatal("expected a token id")
	}
	if !claims.ExpiresAt.Equal(expiresAt) {
		t.Fatalf("claims expiry = %v, want %v", claims.ExpiresAt, expiresAt)
	}
}

func TestAccessTokenExpiry(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		wantErr error
	}{
		{"fresh", 0, nil},
		{"one second before expiry", 30*time.Minute - time.Second, nil},
		{"exactly at expiry", 30 * time.Minute, core.ErrTokenExpired},
		{"after expiry", 2 * time.Hour, core.ErrTokenExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, clock := newTestManager(t, testJWTConfig())
			issuedAt := clock.now

			token, _, err := m.CreateAccessToken("alice@example.com")
			if err != nil {
				t.Fatalf("create: %v", err)
			}

			clock.now = issuedAt.Add(tt.elapsed)

			_, err = m.VerifyAccessToken(context.Background(), token)
			if tt.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAccessTokenMinutesOverride(t *testing.T) {
	cfg := testJWTConfig()
	cfg.AccessTokenExpireMinutes = 5

	m, clock := newTestManager(t, cfg)

	_, expiresAt, err := m.CreateAccessToken("alice@example.com")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if got := expiresAt.Sub(clock.now); got != 5*time.Minute {
		t.Fatalf("ttl = %v, want 5m", got)
	}
	if m.TTL() != 5*time.Minute {
		t.Fatalf("TTL() = %v", m.TTL())
	}
}

func TestVerifyRejectsBadTokens(t *testing.T) {
	m, _ := newTestManager(t, testJWTConfig())

	token, _, err := m.CreateAccessToken("alice@example.com")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	otherCfg := testJWTConfig()
	otherCfg.Secret = "a-completely-different-signing-secret"
	other, _ := newTestManager(t, otherCfg)
	foreign, _, err := other.CreateAccessToken("alice@example.com")
	if err != nil {
		t.Fatalf("create foreign: %v", err)
	}

	wrongAudCfg := testJWTConfig()
	wrongAudCfg.Audience = "someone-else"
	wrongAud, _ := newTestManager(t, wrongAudCfg)
	audToken, _, err := wrongAud.CreateAccessToken("alice@example.com")
	if err != nil {
		t.Fatalf("create wrong audience: %v", err)
	}

	parts := strings.Split(token, ".")
	tamperedPayload := parts[0] + "." + parts[1] + "x." + parts[2]
	tamperedSig := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-jwt"},
		{"two segments", parts[0] + "." + parts[1]},
		{"tampered payload", tamperedPayload},
		{"tampered signature", tamperedSig},
		{"signed with another key", foreign},
		{"wrong audience", audToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.VerifyAccessToken(context.Background(), tt.token)
			if !errors.Is(err, core.ErrTokenInvalid) {
				t.Fatalf("err = %v, want ErrTokenInvalid", err)
			}
		})
	}
}

func TestHS256DoesNotPublishJWKS(t *testing.T) {
	m, _ := newTestManager(t, testJWTConfig())

	if m.JWKSEnabled() {
		t.Fatal("symmetric key must not be published")
	}
	if m.Algorithm() != "HS256" {
		t.Fatalf("algorithm = %s", m.Algorithm())
	}

	rec := httptest.NewRecorder()
	m.GetJWKSHandler()(rec, httptest.NewRequest(http.MethodGet, "/.well-known/jwks.json", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestES256KeyPair(t *testing.T) {
	dir := t.TempDir()
	privatePath := filepath.Join(dir, "jwt.pem")
	publicPath := filepath.Join(dir, "jwt.pub.pem")

	if err := GenerateKeyPair(privatePath, publicPath); err != nil {
		t.Fatalf("generate: %v", err)
	}

	cfg := testJWTConfig()
	cfg.Secret = ""
	cfg.PrivateKeyPath = privatePath

	m, _ := newTestManager(t, cfg)
	if m.Algorithm() != "ES256" {
		t.Fatalf("algorithm = %s", m.Algorithm())
	}

	token, _, err := m.CreateAccessToken("bob@example.com")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	claims, err := m.VerifyAccessToken(context.Background(), token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject != "bob@example.com" {
		t.Fatalf("subject = %q", claims.Subject)
	}

	rec := httptest.NewRecorder()
	m.GetJWKSHandler()(rec, httptest.NewRequest(http.MethodGet, "/.well-known/jwks.json", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("jwks status = %d", rec.Code)
	}

	var set struct {
		Keys []map[string]any `json:"keys"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&set); err != nil {
		t.Fatalf("decode jwks: %v", err)
	}
	if len(set.Keys) != 1 {
		t.Fatalf("jwks has %d keys", len(set.Keys))
	}
	if _, hasPrivate := set.Keys[0]["d"]; hasPrivate {
		t.Fatal("jwks leaked the private component")
	}
	if set.Keys[0]["kid"] != m.GetKeyID() {
		t.Fatalf("kid = %v, want %s", set.Keys[0]["kid"], m.GetKeyID())
	}
}
