package jwt

import (
	"errors"
	"time"

	"github.com/andressep95/deen-service/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// iat and exp carry milliseconds so a token issued right after a revocation
// in the same second is told apart from the ones it revoked.
func init() {
	jwt.TimePrecision = time.Millisecond
}

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrMissingKey   = errors.New("token secret is required")
)

// TokenService issues and verifies HS256 tokens. Access and refresh tokens are
// signed with different secrets so one can never be replayed as the other.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
	issuer        string
	now           func() time.Time
}

func NewTokenService(accessSecret, refreshSecret string, accessExpiry, refreshExpiry time.Duration, issuer string) (*TokenService, error) {
	if accessSecret == "" || refreshSecret == "" {
		return nil, ErrMissingKey
	}

	return &TokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
		issuer:        issuer,
		now:           time.Now,
	}, nil
}

func (s *TokenService) GenerateTokenPair(user *domain.User) (*domain.TokenPair, error) {
	access, err := s.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}

	refresh, err := s.sign(user, s.refreshSecret, s.refreshExpiry)
	if err != nil {
		return nil, err
	}

	return &domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *TokenService) GenerateAccessToken(user *domain.User) (string, error) {
	return s.sign(user, s.accessSecret, s.accessExpiry)
}

func (s *TokenService) sign(user *domain.User, secret []byte, expiry time.Duration) (string, error) {
	now := s.now()
	claims := domain.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
		UserID:   user.ID,
		Email:    user.Email,
		Username: user.Username,
		Role:     user.Role,
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// VerifyAccessToken checks the signature of an access token and decodes its
// claims. Expiry is not checked here; the access gate compares exp after it
// has loaded the user.
func (s *TokenService) VerifyAccessToken(tokenString string) (*domain.Claims, error) {
	return parse(tokenString, s.accessSecret, jwt.WithoutClaimsValidation())
}

// ValidateRefreshToken verifies signature and registered claims of a refresh
// token.
func (s *TokenService) ValidateRefreshToken(tokenString string) (*domain.Claims, error) {
	return parse(tokenString, s.refreshSecret, jwt.WithExpirationRequired(), jwt.WithTimeFunc(s.now))
}

// RefreshExpiry is how long refresh tokens stay valid.
func (s *TokenService) RefreshExpiry() time.Duration {
	return s.refreshExpiry
}

func parse(tokenString string, secret []byte, opts ...jwt.ParserOption) (*domain.Claims, error) {
	opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	token, err := jwt.ParseWithClaims(tokenString, &domain.Claims{}, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*domain.Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
