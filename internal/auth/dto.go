// AngelaMos | 2026
// dto.go

package auth

import (
	"strings"
	"time"
)

// LoginRequest accepts either email or username as the login identifier.
// OAuth2 password-form clients send the email as username.
type LoginRequest struct {
	Email    string `json:"email"    validate:"omitempty,email,max=255"`
	Username string `json:"username" validate:"omitempty,max=255"`
	Password string `json:"password" validate:"required,max=128"`
}

func (r LoginRequest) Identifier() string {
	if r.Email != "" {
		return normalizeEmail(r.Email)
	}
	return normalizeEmail(r.Username)
}

type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresIn   int       `json:"expires_in"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type UserResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
