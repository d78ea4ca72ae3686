package service

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/andressep95/deen-service/internal/domain"
	"github.com/andressep95/deen-service/internal/repository"
	"github.com/andressep95/deen-service/pkg/email"
	"github.com/andressep95/deen-service/pkg/query"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// userListing never exposes password_hash to filters or sorting.
var userListing = Listing{
	FilterKeys:   []string{query.KeySearchTerm, "role", "status"},
	SearchFields: []string{"username", "email"},
	DefaultSort:  "created_at",
	DefaultOrder: "desc",
	Columns:      []string{"username", "email", "role", "status", "created_at", "updated_at"},
}

type UserService struct {
	userRepo repository.UserRepository
	revoker  Revoker
	tokens   TokenIssuer
	notifier email.Notifier
	log      logrus.FieldLogger
}

type UpdateProfileRequest struct {
	Username *string `json:"username" validate:"omitempty,min=3,max=50"`
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
}

type UpdateStatusRequest struct {
	Status domain.UserStatus `json:"status" validate:"required,user_status"`
}

func NewUserService(userRepo repository.UserRepository, revoker Revoker, tokens TokenIssuer, notifier email.Notifier, log logrus.FieldLogger) *UserService {
	return &UserService{
		userRepo: userRepo,
		revoker:  revoker,
		tokens:   tokens,
		notifier: notifier,
		log:      log.WithField("component", "user_service"),
	}
}

func (s *UserService) GetProfile(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

// UpdateProfile changes the caller's own username and email. Changing the
// email invalidates outstanding access tokens because they carry it.
func (s *UserService) UpdateProfile(ctx context.Context, id uuid.UUID, req UpdateProfileRequest) (*domain.User, error) {
	changes := repository.Changes{}

	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if err := s.ensureFreeFor(ctx, id, s.userRepo.GetByUsername, username, ErrUsernameTaken); err != nil {
			return nil, err
		}
		changes["username"] = username
	}
	if req.Email != nil {
		addr := strings.ToLower(strings.TrimSpace(*req.Email))
		if err := s.ensureFreeFor(ctx, id, s.userRepo.GetByEmail, addr, ErrEmailTaken); err != nil {
			return nil, err
		}
		changes["email"] = addr
	}

	user, err := s.userRepo.Update(ctx, id, changes)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, ErrUserNotFound
	case errors.Is(err, repository.ErrConflict):
		return nil, ErrUsernameTaken
	}
	return user, err
}

func (s *UserService) ensureFreeFor(ctx context.Context, self uuid.UUID, lookup func(context.Context, string) (*domain.User, error), value string, taken error) error {
	existing, err := lookup(ctx, value)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != self:
		return taken
	default:
		return nil
	}
}

// ListUsers never returns the caller or super admins.
func (s *UserService) ListUsers(ctx context.Context, caller uuid.UUID, raw url.Values) ([]domain.User, domain.Meta, error) {
	parts := query.Partition(raw, userListing.FilterKeys, query.PaginationKeys)
	opts := userListing.options(false)
	opts.Where = []query.Predicate{
		{SQL: `"id" <> ?`, Args: []interface{}{caller}},
		{SQL: `"role" <> ?`, Args: []interface{}{domain.RoleSuperAdmin}},
	}
	return s.userRepo.List(ctx, parts, opts)
}

// UpdateStatus blocks or unblocks a user. Blocking also revokes the user's
// refresh tokens; access tokens stop working at the next request because the
// gate re-reads the status.
func (s *UserService) UpdateStatus(ctx context.Context, actor, target uuid.UUID, status domain.UserStatus) (*domain.User, error) {
	if actor == target {
		return nil, ErrCannotModifySelf
	}

	user, err := s.userRepo.GetByID(ctx, target)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	if user.Role == domain.RoleSuperAdmin {
		return nil, ErrCannotModifyAdmin
	}
	if user.Status == status {
		return user, nil
	}

	updated, err := s.userRepo.Update(ctx, target, repository.Changes{"status": status})
	if err != nil {
		return nil, err
	}

	if status == domain.UserStatusBlocked {
		if err := s.revoker.RevokeUser(ctx, target.String(), s.tokens.RefreshExpiry()); err != nil {
			s.log.WithError(err).WithField("user_id", target).Warn("could not revoke tokens of blocked user")
		}
	}

	if err := s.notifier.SendAccountStatus(ctx, updated.Email, updated.Username, string(status)); err != nil {
		s.log.WithError(err).WithField("user_id", target).Warn("status email not sent")
	}

	s.log.WithFields(logrus.Fields{"actor": actor, "user_id": target, "status": status}).Info("user status changed")
	return updated, nil
}
