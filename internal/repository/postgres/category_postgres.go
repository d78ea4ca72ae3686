package postgres

import (
	"context"

	"github.com/andressep95/deen-service/internal/domain"
	"github.com/andressep95/deen-service/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type categoryRepository struct {
	*contentRepository[domain.Category]
}

func NewCategoryRepository(db *sqlx.DB) repository.CategoryRepository {
	return &categoryRepository{newContentRepository[domain.Category](db, "categories", categoryColumns)}
}

// CountBooks counts live books in the category.
func (r *categoryRepository) CountBooks(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM books WHERE category_id = $1 AND is_deleted = false`, categoryID)
	if err != nil {
		return 0, translate(err, "count books")
	}
	return n, nil
}
