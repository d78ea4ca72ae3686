package repository

import (
	"context"

	"github.com/andressep95/deen-service/internal/domain"
	"github.com/andressep95/deen-service/pkg/query"
	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByIDAndEmail(ctx context.Context, id uuid.UUID, email string) (*domain.User, error)
	ExistsWithRole(ctx context.Context, role domain.Role) (bool, error)
	List(ctx context.Context, parts query.Parts, opts query.Options) ([]domain.User, domain.Meta, error)
	Update(ctx context.Context, id uuid.UUID, changes Changes) (*domain.User, error)
}
