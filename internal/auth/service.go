// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/subtracker/internal/core"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailExists        = errors.New("email already exists")
)

const tokenTypeBearer = "bearer"

type UserInfo struct {
	ID           int64
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

type UserProvider interface {
	GetByEmail(ctx context.Context, email string) (*UserInfo, error)
	Create(ctx context.Context, email, passwordHash string) (*UserInfo, error)
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
}

type TokenIssuer interface {
	CreateAccessToken(subject string) (string, time.Time, error)
	TTL() time.Duration
}

type Service struct {
	tokens       TokenIssuer
	userProvider UserProvider
}

func NewService(tokens TokenIssuer, userProvider UserProvider) *Service {
	return &Service{
		tokens:       tokens,
		userProvider: userProvider,
	}
}

// Login verifies credentials and issues a token. Unknown emails still pay
// for a hash comparison so response timing does not reveal which emails
// are registered.
func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
) (*TokenResponse, error) {
	ctx, span := core.StartSpan(ctx, "auth.Login")
	var err error
	defer func() { core.EndSpan(span, err) }()

	email := req.Identifier()

	user, err := s.userProvider.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.VerifyPasswordTimingSafe(req.Password, nil)
			err = nil
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	valid, newHash := core.VerifyPasswordTimingSafe(
		req.Password,
		&user.PasswordHash,
	)
	if !valid {
		return nil, ErrInvalidCredentials
	}

	if newHash != "" {
		if upErr := s.userProvider.UpdatePassword(ctx, user.ID, newHash); upErr != nil {
			slog.WarnContext(ctx, "password rehash failed",
				"user_id", user.ID,
				"error", upErr,
			)
		}
	}

	span.SetAttributes(attribute.Int64("user.id", user.ID))

	resp, err := s.issue(user.Email)
	return resp, err
}

func (s *Service) Register(
	ctx context.Context,
	req RegisterRequest,
) (*UserResponse, error) {
	ctx, span := core.StartSpan(ctx, "auth.Register")
	var err error
	defer func() { core.EndSpan(span, err) }()

	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.userProvider.Create(
		ctx,
		normalizeEmail(req.Email),
		passwordHash,
	)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			err = nil
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return &UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}, nil
}

func (s *Service) issue(subject string) (*TokenResponse, error) {
	accessToken, expiresAt, err := s.tokens.CreateAccessToken(subject)
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}

	return &TokenResponse{
		AccessToken: accessToken,
		TokenType:   tokenTypeBearer,
		ExpiresIn:   int(s.tokens.TTL().Seconds()),
		ExpiresAt:   expiresAt,
	}, nil
}
