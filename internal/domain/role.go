package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Role is the coarse access tier of a user.
type Role string

const (
	RoleSuperAdmin Role = "SUPERADMIN"
	RoleAdmin      Role = "ADMIN"
	RoleModerator  Role = "MODERATOR"
	RoleUser       Role = "USER"
)

// Roles lists every role, highest tier first.
var Roles = []Role{RoleSuperAdmin, RoleAdmin, RoleModerator, RoleUser}

func (r Role) Valid() bool {
	return slices.Contains(Roles, r)
}

// Resource names an area of the API that fine-grained grants apply to.
type Resource string

const (
	ResourceBook         Resource = "BOOK"
	ResourceBookCategory Resource = "BOOKCATEGORY"
	ResourceDictionary   Resource = "DICTIONARY"
	ResourceTafsir       Resource = "TAFSIR"
	ResourceDua          Resource = "DUA"
	ResourceBlog         Resource = "BLOG"
	ResourceBookmark     Resource = "BOOKMARK"
	ResourcePermission   Resource = "PERMISSION"
	ResourceUser         Resource = "USER"
)

var Resources = []Resource{
	ResourceBook,
	ResourceBookCategory,
	ResourceDictionary,
	ResourceTafsir,
	ResourceDua,
	ResourceBlog,
	ResourceBookmark,
	ResourcePermission,
	ResourceUser,
}

func (r Resource) Valid() bool {
	return slices.Contains(Resources, r)
}

type Action string

const (
	ActionCreate Action = "CREATE"
	ActionRead   Action = "READ"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
)

var Actions = []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete}

func (a Action) Valid() bool {
	return slices.Contains(Actions, a)
}

// Permission is a (resource, action) pair. The pair is unique.
type Permission struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Resource  Resource  `json:"resource" db:"resource"`
	Action    Action    `json:"action" db:"action"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// UserPermission is an additive grant of one permission to one user.
type UserPermission struct {
	UserID       uuid.UUID  `json:"userId" db:"user_id"`
	PermissionID uuid.UUID  `json:"permissionId" db:"permission_id"`
	AssignedBy   *uuid.UUID `json:"assignedBy,omitempty" db:"assigned_by"`
	AssignedAt   time.Time  `json:"assignedAt" db:"assigned_at"`
}

// PermissionWithAssignees is a permission together with the number of users
// holding it.
type PermissionWithAssignees struct {
	Permission
	AssignedUsers int `json:"assignedUsers" db:"assigned_users"`
}

// UserGrant is a permission as seen from a user's grant list.
type UserGrant struct {
	PermissionID uuid.UUID  `json:"permissionId" db:"permission_id"`
	Resource     Resource   `json:"resource" db:"resource"`
	Action       Action     `json:"action" db:"action"`
	AssignedBy   *uuid.UUID `json:"assignedBy,omitempty" db:"assigned_by"`
	AssignedAt   time.Time  `json:"assignedAt" db:"assigned_at"`
}
