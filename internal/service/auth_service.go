package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/andressep95/deen-service/internal/domain"
	"github.com/andressep95/deen-service/internal/repository"
	"github.com/andressep95/deen-service/pkg/email"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type AuthService struct {
	userRepo repository.UserRepository
	tokens   TokenIssuer
	hasher   PasswordHasher
	revoker  Revoker
	notifier email.Notifier
	log      logrus.FieldLogger
	now      func() time.Time
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// LoginRequest accepts either the email or the username as identifier.
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8,max=128"`
}

type AuthResult struct {
	User         *domain.User `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

func NewAuthService(
	userRepo repository.UserRepository,
	tokens TokenIssuer,
	hasher PasswordHasher,
	revoker Revoker,
	notifier email.Notifier,
	log logrus.FieldLogger,
) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		hasher:   hasher,
		revoker:  revoker,
		notifier: notifier,
		log:      log.WithField("component", "auth_service"),
		now:      time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	username := strings.TrimSpace(req.Username)
	addr := strings.ToLower(strings.TrimSpace(req.Email))

	if err := ensureFree(ctx, s.userRepo.GetByUsername, username, ErrUsernameTaken); err != nil {
		return nil, err
	}
	if err := ensureFree(ctx, s.userRepo.GetByEmail, addr, ErrEmailTaken); err != nil {
		return nil, err
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user := &domain.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        addr,
		PasswordHash: passwordHash,
		Role:         domain.RoleUser,
		Status:       domain.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	pair, err := s.tokens.GenerateTokenPair(user)
	if err != nil {
		return nil, err
	}

	if err := s.notifier.SendWelcome(ctx, user.Email, user.Username); err != nil {
		s.log.WithError(err).WithField("user_id", user.ID).Warn("welcome email not sent")
	}

	s.log.WithField("user_id", user.ID).Info("user registered")
	return &AuthResult{User: user, AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
}

// Login looks the identifier up as an email first and then as a username.
// Unknown identifiers and wrong passwords are indistinguishable.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	identifier := strings.TrimSpace(req.Identifier)

	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(identifier))
	if errors.Is(err, repository.ErrNotFound) {
		user, err = s.userRepo.GetByUsername(ctx, identifier)
	}
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	ok, err := s.hasher.Verify(req.Password, user.PasswordHash)
	if err != nil {
		s.log.WithError(err).WithField("user_id", user.ID).Error("stored password hash is unreadable")
		return nil, ErrInvalidCredentials
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	if user.Status != domain.UserStatusActive {
		return nil, ErrAccountBlocked
	}

	pair, err := s.tokens.GenerateTokenPair(user)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
}

// Refresh issues a new access token for a valid, unrevoked refresh token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.checkRefreshToken(ctx, refreshToken)
	if err != nil {
		return "", err
	}

	user, err := s.userRepo.FindByIDAndEmail(ctx, claims.UserID, claims.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return "", ErrInvalidRefreshToken
	}
	if err != nil {
		return "", err
	}
	if user.Status != domain.UserStatusActive {
		return "", ErrAccountBlocked
	}

	return s.tokens.GenerateAccessToken(user)
}

// Logout revokes the refresh token for the rest of its lifetime.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.checkRefreshToken(ctx, refreshToken)
	if err != nil {
		return err
	}
	return s.revoker.Revoke(ctx, refreshToken, claims.ExpiresAt.Time)
}

func (s *AuthService) checkRefreshToken(ctx context.Context, refreshToken string) (*domain.Claims, error) {
	if refreshToken == "" {
		return nil, ErrInvalidRefreshToken
	}

	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	revoked, err := s.revoker.IsRevoked(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrInvalidRefreshToken
	}

	if claims.IssuedAt != nil {
		revoked, err = s.revoker.IsUserRevoked(ctx, claims.UserID.String(), claims.IssuedAt.Time)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, ErrInvalidRefreshToken
		}
	}

	return claims, nil
}

// ChangePassword replaces the password and invalidates refresh tokens issued
// before the change.
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}

	ok, err := s.hasher.Verify(req.OldPassword, user.PasswordHash)
	if err != nil || !ok {
		return ErrWrongPassword
	}
	if req.OldPassword == req.NewPassword {
		return ErrSamePassword
	}

	passwordHash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return err
	}

	if _, err := s.userRepo.Update(ctx, userID, repository.Changes{"password_hash": passwordHash}); err != nil {
		return err
	}

	if err := s.revoker.RevokeUser(ctx, userID.String(), s.tokens.RefreshExpiry()); err != nil {
		s.log.WithError(err).WithField("user_id", userID).Warn("could not revoke refresh tokens after password change")
	}

	if err := s.notifier.SendPasswordChanged(ctx, user.Email, user.Username); err != nil {
		s.log.WithError(err).WithField("user_id", userID).Warn("password change email not sent")
	}

	return nil
}

// ensureFree fails with taken when lookup finds a record for value.
func ensureFree(ctx context.Context, lookup func(context.Context, string) (*domain.User, error), value string, taken error) error {
	_, err := lookup(ctx, value)
	switch {
	case err == nil:
		return taken
	case errors.Is(err, repository.ErrNotFound):
		return nil
	default:
		return err
	}
}
