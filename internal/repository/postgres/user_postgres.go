package postgres

import (
	"context"

	"github.com/andressep95/deen-service/internal/domain"
	"github.com/andressep95/deen-service/internal/repository"
	"github.com/andressep95/deen-service/pkg/query"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const userColumns = `id, username, email, password_hash, role, status, created_at, updated_at`

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES (:id, :username, :email, :password_hash, :role, :status, :created_at, :updated_at)`, user)
	return translate(err, "create user")
}

func (r *userRepository) get(ctx context.Context, where string, args ...interface{}) (*domain.User, error) {
	var user domain.User
	if err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE `+where, args...); err != nil {
		return nil, translate(err, "get user")
	}
	return &user, nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.get(ctx, `id = $1`, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.get(ctx, `email = $1`, email)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.get(ctx, `username = $1`, username)
}

// FindByIDAndEmail matches both columns; a token whose email no longer
// matches the account does not resolve.
func (r *userRepository) FindByIDAndEmail(ctx context.Context, id uuid.UUID, email string) (*domain.User, error) {
	return r.get(ctx, `id = $1 AND email = $2`, id, email)
}

func (r *userRepository) ExistsWithRole(ctx context.Context, role domain.Role) (bool, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM users WHERE role = $1)`, role); err != nil {
		return false, translate(err, "check role")
	}
	return exists, nil
}

func (r *userRepository) List(ctx context.Context, parts query.Parts, opts query.Options) ([]domain.User, domain.Meta, error) {
	return list[domain.User](ctx, r.db, "users", parts, opts)
}

func (r *userRepository) Update(ctx context.Context, id uuid.UUID, changes repository.Changes) (*domain.User, error) {
	if len(changes) == 0 {
		return r.GetByID(ctx, id)
	}
	return update[domain.User](ctx, r.db, "users", id, changes, "")
}
