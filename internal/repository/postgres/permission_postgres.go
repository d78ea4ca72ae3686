package postgres

import (
	"context"
	"fmt"

	"github.com/andressep95/deen-service/internal/domain"
	"github.com/andressep95/deen-service/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type permissionRepository struct {
	db *sqlx.DB
}

func NewPermissionRepository(db *sqlx.DB) repository.PermissionRepository {
	return &permissionRepository{db: db}
}

func (r *permissionRepository) Create(ctx context.Context, p *domain.Permission) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO permissions (id, resource, action, created_at, updated_at)
		VALUES (:id, :resource, :action, :created_at, :updated_at)`, p)
	return translate(err, "create permission")
}

func (r *permissionRepository) Ensure(ctx context.Context, resource domain.Resource, action domain.Action) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO permissions (id, resource, action)
		VALUES ($1, $2, $3)
		ON CONFLICT (resource, action) DO NOTHING`, uuid.New(), resource, action)
	return translate(err, "ensure permission")
}

func (r *permissionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Permission, error) {
	var p domain.Permission
	err := r.db.GetContext(ctx, &p, `SELECT id, resource, action, created_at, updated_at FROM permissions WHERE id = $1`, id)
	if err != nil {
		return nil, translate(err, "get permission")
	}
	return &p, nil
}

func (r *permissionRepository) List(ctx context.Context) ([]domain.PermissionWithAssignees, error) {
	perms := []domain.PermissionWithAssignees{}
	err := r.db.SelectContext(ctx, &perms, `
		SELECT p.id, p.resource, p.action, p.created_at, p.updated_at,
		       COUNT(up.user_id) AS assigned_users
		FROM permissions p
		LEFT JOIN user_permissions up ON up.permission_id = p.id
		GROUP BY p.id
		ORDER BY p.resource, p.action`)
	if err != nil {
		return nil, translate(err, "list permissions")
	}
	return perms, nil
}

func (r *permissionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM user_permissions WHERE permission_id = $1`, id); err != nil {
			return translate(err, "delete grants")
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM permissions WHERE id = $1`, id)
		if err != nil {
			return translate(err, "delete permission")
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if n == 0 {
			return repository.ErrNotFound
		}
		return nil
	})
}

func (r *permissionRepository) Assign(ctx context.Context, up *domain.UserPermission) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO user_permissions (user_id, permission_id, assigned_by, assigned_at)
		VALUES (:user_id, :permission_id, :assigned_by, :assigned_at)`, up)
	return translate(err, "assign permission")
}

func (r *permissionRepository) Revoke(ctx context.Context, userID, permissionID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM user_permissions WHERE user_id = $1 AND permission_id = $2`, userID, permissionID)
	if err != nil {
		return translate(err, "revoke permission")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *permissionRepository) GetUserGrants(ctx context.Context, userID uuid.UUID) ([]domain.UserGrant, error) {
	grants := []domain.UserGrant{}
	err := r.db.SelectContext(ctx, &grants, `
		SELECT up.permission_id, p.resource, p.action, up.assigned_by, up.assigned_at
		FROM user_permissions up
		JOIN permissions p ON p.id = up.permission_id
		WHERE up.user_id = $1
		ORDER BY p.resource, p.action`, userID)
	if err != nil {
		return nil, translate(err, "get user grants")
	}
	return grants, nil
}
