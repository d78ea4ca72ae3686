package repository

import (
	"context"

	"github.com/andressep95/deen-service/internal/domain"
	"github.com/andressep95/deen-service/pkg/query"
	"github.com/google/uuid"
)

// ContentRepository stores one kind of soft-deletable content.
type ContentRepository[T any] interface {
	Create(ctx context.Context, item *T) error
	// GetByID returns live rows only.
	GetByID(ctx context.Context, id uuid.UUID) (*T, error)
	List(ctx context.Context, parts query.Parts, opts query.Options) ([]T, domain.Meta, error)
	Update(ctx context.Context, id uuid.UUID, changes Changes) (*T, error)
	SoftDelete(ctx context.Context, id uuid.UUID) (*T, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type CategoryRepository interface {
	ContentRepository[domain.Category]
	CountBooks(ctx context.Context, categoryID uuid.UUID) (int64, error)
}

type BookmarkRepository interface {
	Create(ctx context.Context, b *domain.Bookmark) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Bookmark, error)
	List(ctx context.Context, parts query.Parts, opts query.Options) ([]domain.Bookmark, domain.Meta, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
