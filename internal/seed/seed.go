// Package seed creates the records the API needs before it can serve
// requests: the super admin account and the full permission catalogue.
package seed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/andressep95/deen-service/internal/config"
	"github.com/andressep95/deen-service/internal/domain"
	"github.com/andressep95/deen-service/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type Hasher interface {
	Hash(password string) (string, error)
}

type Deps struct {
	Users       repository.UserRepository
	Permissions repository.PermissionRepository
	Hasher      Hasher
	Log         logrus.FieldLogger
	Now         func() time.Time
}

// Run is idempotent and safe to call on every start.
func Run(ctx context.Context, d Deps, admin config.SuperAdminConfig) error {
	if d.Now == nil {
		d.Now = time.Now
	}
	log := d.Log.WithField("component", "seed")

	if err := superAdmin(ctx, d, admin, log); err != nil {
		return err
	}
	if err := permissions(ctx, d); err != nil {
		return err
	}

	log.WithField("permissions", len(domain.Resources)*len(domain.Actions)).Info("seed complete")
	return nil
}

func superAdmin(ctx context.Context, d Deps, admin config.SuperAdminConfig, log logrus.FieldLogger) error {
	exists, err := d.Users.ExistsWithRole(ctx, domain.RoleSuperAdmin)
	if err != nil {
		return fmt.Errorf("seed: check super admin: %w", err)
	}
	if exists {
		log.Debug("super admin already present")
		return nil
	}

	passwordHash, err := d.Hasher.Hash(admin.Password)
	if err != nil {
		return fmt.Errorf("seed: hash super admin password: %w", err)
	}

	now := d.Now()
	user := &domain.User{
		ID:           uuid.New(),
		Username:     strings.TrimSpace(admin.Username),
		Email:        strings.ToLower(strings.TrimSpace(admin.Email)),
		PasswordHash: passwordHash,
		Role:         domain.RoleSuperAdmin,
		Status:       domain.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := d.Users.Create(ctx, user); err != nil {
		return fmt.Errorf("seed: create super admin: %w", err)
	}

	log.WithField("email", user.Email).Info("super admin created")
	return nil
}

func permissions(ctx context.Context, d Deps) error {
	for _, resource := range domain.Resources {
		for _, action := range domain.Actions {
			if err := d.Permissions.Ensure(ctx, resource, action); err != nil {
				return fmt.Errorf("seed: permission %s:%s: %w", resource, action, err)
			}
		}
	}
	return nil
}
