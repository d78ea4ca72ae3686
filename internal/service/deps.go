package service

import (
	"context"
	"time"

	"github.com/andressep95/deen-service/internal/domain"
)

// TokenIssuer is the subset of the token service used by AuthService.
type TokenIssuer interface {
	GenerateTokenPair(user *domain.User) (*domain.TokenPair, error)
	GenerateAccessToken(user *domain.User) (string, error)
	ValidateRefreshToken(token string) (*domain.Claims, error)
	RefreshExpiry() time.Duration
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) (bool, error)
}

// Revoker tracks refresh tokens that must no longer be honoured.
type Revoker interface {
	Revoke(ctx context.Context, token string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, token string) (bool, error)
	RevokeUser(ctx context.Context, userID string, ttl time.Duration) error
	IsUserRevoked(ctx context.Context, userID string, issuedAt time.Time) (bool, error)
}
