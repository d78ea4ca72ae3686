package repository

import (
	"context"

	"github.com/andressep95/deen-service/internal/domain"
	"github.com/google/uuid"
)

type PermissionRepository interface {
	Create(ctx context.Context, p *domain.Permission) error
	// Ensure inserts the pair unless it already exists.
	Ensure(ctx context.Context, resource domain.Resource, action domain.Action) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Permission, error)
	List(ctx context.Context) ([]domain.PermissionWithAssignees, error)
	// Delete removes the permission and every grant of it.
	Delete(ctx context.Context, id uuid.UUID) error

	Assign(ctx context.Context, up *domain.UserPermission) error
	Revoke(ctx context.Context, userID, permissionID uuid.UUID) error
	GetUserGrants(ctx context.Context, userID uuid.UUID) ([]domain.UserGrant, error)
}
