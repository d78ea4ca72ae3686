package service

import (
	"context"
	"testing"

	"github.com/andressep95/deen-service/internal/domain"
	"github.com/andressep95/deen-service/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type grantKey struct{ user, perm uuid.UUID }

// memPermissions is an in-memory PermissionRepository.
type memPermissions struct {
	perms  map[uuid.UUID]*domain.Permission
	grants map[grantKey]domain.UserPermission
}

func newMemPermissions() *memPermissions {
	return &memPermissions{perms: map[uuid.UUID]*domain.Permission{}, grants: map[grantKey]domain.UserPermission{}}
}

func (m *memPermissions) Create(_ context.Context, p *domain.Permission) error {
	for _, existing := range m.perms {
		if existing.Resource == p.Resource && existing.Action == p.Action {
			return repository.ErrConflict
		}
	}
	m.perms[p.ID] = p
	return nil
}

func (m *memPermissions) Ensure(ctx context.Context, resource domain.Resource, action domain.Action) error {
	err := m.Create(ctx, &domain.Permission{ID: uuid.New(), Resource: resource, Action: action})
	if err == repository.ErrConflict {
		return nil
	}
	return err
}

func (m *memPermissions) GetByID(_ context.Context, id uuid.UUID) (*domain.Permission, error) {
	p, ok := m.perms[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

func (m *memPermissions) List(context.Context) ([]domain.PermissionWithAssignees, error) {
	var out []domain.PermissionWithAssignees
	for _, p := range m.perms {
		n := 0
		for k := range m.grants {
			if k.perm == p.ID {
				n++
			}
		}
		out = append(out, domain.PermissionWithAssignees{Permission: *p, AssignedUsers: n})
	}
	return out, nil
}

func (m *memPermissions) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.perms[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.perms, id)
	for k := range m.grants {
		if k.perm == id {
			delete(m.grants, k)
		}
	}
	return nil
}

func (m *memPermissions) Assign(_ context.Context, up *domain.UserPermission) error {
	k := grantKey{up.UserID, up.PermissionID}
	if _, ok := m.grants[k]; ok {
		return repository.ErrConflict
	}
	m.grants[k] = *up
	return nil
}

func (m *memPermissions) Revoke(_ context.Context, userID, permissionID uuid.UUID) error {
	k := grantKey{userID, permissionID}
	if _, ok := m.grants[k]; !ok {
		return repository.ErrNotFound
	}
	delete(m.grants, k)
	return nil
}

func (m *memPermissions) GetUserGrants(_ context.Context, userID uuid.UUID) ([]domain.UserGrant, error) {
	var out []domain.UserGrant
	for k, g := range m.grants {
		if k.user != userID {
			continue
		}
		p := m.perms[k.perm]
		out = append(out, domain.UserGrant{PermissionID: p.ID, Resource: p.Resource, Action: p.Action, AssignedBy: g.AssignedBy, AssignedAt: g.AssignedAt})
	}
	return out, nil
}

func TestPermissionLifecycle(t *testing.T) {
	admin := activeUser("admin", "admin@example.com", "pw")
	moderator := activeUser("mod", "mod@example.com", "pw")
	perms := newMemPermissions()
	svc := NewPermissionService(perms, newMemUsers(admin, moderator), nullLogger())
	ctx := context.Background()

	p, err := svc.Create(ctx, CreatePermissionRequest{Resource: domain.ResourceDua, Action: domain.ActionCreate})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreatePermissionRequest{Resource: domain.ResourceDua, Action: domain.ActionCreate})
	assert.ErrorIs(t, err, ErrPermissionExists)

	grant, err := svc.Assign(ctx, admin.ID, moderator.ID, p.ID)
	require.NoError(t, err)
	require.NotNil(t, grant.AssignedBy)
	assert.Equal(t, admin.ID, *grant.AssignedBy)

	_, err = svc.Assign(ctx, admin.ID, moderator.ID, p.ID)
	assert.ErrorIs(t, err, ErrPermissionAlreadyGranted)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 1, list[0].AssignedUsers)

	grants, err := svc.UserGrants(ctx, moderator.ID)
	require.NoError(t, err)
	require.Len(t, grants, 1)
	assert.Equal(t, domain.ResourceDua, grants[0].Resource)

	require.NoError(t, svc.Revoke(ctx, admin.ID, moderator.ID, p.ID))
	assert.ErrorIs(t, svc.Revoke(ctx, admin.ID, moderator.ID, p.ID), ErrGrantNotFound)

	require.NoError(t, svc.Delete(ctx, p.ID))
	assert.ErrorIs(t, svc.Delete(ctx, p.ID), ErrPermissionNotFound)
}

func TestAssign_UnknownTargets(t *testing.T) {
	admin := activeUser("admin", "admin@example.com", "pw")
	perms := newMemPermissions()
	svc := NewPermissionService(perms, newMemUsers(admin), nullLogger())
	ctx := context.Background()

	p, err := svc.Create(ctx, CreatePermissionRequest{Resource: domain.ResourceBook, Action: domain.ActionRead})
	require.NoError(t, err)

	_, err = svc.Assign(ctx, admin.ID, uuid.New(), p.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.Assign(ctx, admin.ID, admin.ID, uuid.New())
	assert.ErrorIs(t, err, ErrPermissionNotFound)

	_, err = svc.UserGrants(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestDeletePermission_RemovesGrants(t *testing.T) {
	admin := activeUser("admin", "admin@example.com", "pw")
	perms := newMemPermissions()
	svc := NewPermissionService(perms, newMemUsers(admin), nullLogger())
	ctx := context.Background()

	p, err := svc.Create(ctx, CreatePermissionRequest{Resource: domain.ResourceBlog, Action: domain.ActionDelete})
	require.NoError(t, err)
	_, err = svc.Assign(ctx, admin.ID, admin.ID, p.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, p.ID))
	assert.Empty(t, perms.grants)
}
