package service

import (
	"context"
	"errors"
	"time"

	"github.com/andressep95/deen-service/internal/domain"
	"github.com/andressep95/deen-service/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type PermissionService struct {
	permRepo repository.PermissionRepository
	userRepo repository.UserRepository
	log      logrus.FieldLogger
	now      func() time.Time
}

type CreatePermissionRequest struct {
	Resource domain.Resource `json:"resource" validate:"required,resource"`
	Action   domain.Action   `json:"action" validate:"required,action"`
}

type GrantRequest struct {
	UserID       string `json:"userId" validate:"required,uuid"`
	PermissionID string `json:"permissionId" validate:"required,uuid"`
}

func NewPermissionService(permRepo repository.PermissionRepository, userRepo repository.UserRepository, log logrus.FieldLogger) *PermissionService {
	return &PermissionService{
		permRepo: permRepo,
		userRepo: userRepo,
		log:      log.WithField("component", "permission_service"),
		now:      time.Now,
	}
}

func (s *PermissionService) Create(ctx context.Context, req CreatePermissionRequest) (*domain.Permission, error) {
	now := s.now()
	p := &domain.Permission{
		ID:        uuid.New(),
		Resource:  req.Resource,
		Action:    req.Action,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.permRepo.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrPermissionExists
		}
		return nil, err
	}
	return p, nil
}

func (s *PermissionService) List(ctx context.Context) ([]domain.PermissionWithAssignees, error) {
	return s.permRepo.List(ctx)
}

func (s *PermissionService) Assign(ctx context.Context, actor, userID, permissionID uuid.UUID) (*domain.UserPermission, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if _, err := s.permRepo.GetByID(ctx, permissionID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPermissionNotFound
		}
		return nil, err
	}

	grant := &domain.UserPermission{
		UserID:       userID,
		PermissionID: permissionID,
		AssignedBy:   &actor,
		AssignedAt:   s.now(),
	}
	if err := s.permRepo.Assign(ctx, grant); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrPermissionAlreadyGranted
		}
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"actor": actor, "user_id": userID, "permission_id": permissionID}).Info("permission granted")
	return grant, nil
}

func (s *PermissionService) UserGrants(ctx context.Context, userID uuid.UUID) ([]domain.UserGrant, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.permRepo.GetUserGrants(ctx, userID)
}

func (s *PermissionService) Revoke(ctx context.Context, actor, userID, permissionID uuid.UUID) error {
	if err := s.permRepo.Revoke(ctx, userID, permissionID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrGrantNotFound
		}
		return err
	}

	s.log.WithFields(logrus.Fields{"actor": actor, "user_id": userID, "permission_id": permissionID}).Info("permission revoked")
	return nil
}

// Delete removes a permission together with all grants of it.
func (s *PermissionService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.permRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPermissionNotFound
		}
		return err
	}
	return nil
}
