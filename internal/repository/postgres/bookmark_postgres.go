package postgres

import (
	"context"

	"github.com/andressep95/deen-service/internal/domain"
	"github.com/andressep95/deen-service/internal/repository"
	"github.com/andressep95/deen-service/pkg/query"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type bookmarkRepository struct {
	db *sqlx.DB
}

func NewBookmarkRepository(db *sqlx.DB) repository.BookmarkRepository {
	return &bookmarkRepository{db: db}
}

func (r *bookmarkRepository) Create(ctx context.Context, b *domain.Bookmark) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO bookmarks (id, user_id, item_id, item_type, created_at)
		VALUES (:id, :user_id, :item_id, :item_type, :created_at)`, b)
	return translate(err, "create bookmark")
}

func (r *bookmarkRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Bookmark, error) {
	var b domain.Bookmark
	if err := r.db.GetContext(ctx, &b, `SELECT * FROM bookmarks WHERE id = $1`, id); err != nil {
		return nil, translate(err, "get bookmark")
	}
	return &b, nil
}

func (r *bookmarkRepository) List(ctx context.Context, parts query.Parts, opts query.Options) ([]domain.Bookmark, domain.Meta, error) {
	return list[domain.Bookmark](ctx, r.db, "bookmarks", parts, opts)
}

func (r *bookmarkRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return hardDelete(ctx, r.db, "bookmarks", id)
}
