// Package access decides whether a bearer of an access token may reach a
// route. It knows nothing about HTTP; the middleware package adapts it.
package access

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/andressep95/deen-service/internal/domain"
	"github.com/andressep95/deen-service/internal/repository"
	"github.com/google/uuid"
)

type Kind int

const (
	Unauthorized Kind = iota + 1
	Forbidden
)

func (k Kind) String() string {
	switch k {
	case Unauthorized:
		return "unauthorized"
	case Forbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

const (
	ReasonUnauthorized        = "unauthorized access"
	ReasonBlocked             = "user is blocked"
	ReasonRoleForbidden       = "role forbidden"
	ReasonPermissionForbidden = "permission forbidden"
)

// Error is a terminal rejection. Every Unauthorized error carries the same
// reason so callers cannot tell which check failed.
type Error struct {
	Kind   Kind
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

var (
	errUnauthorized        = &Error{Kind: Unauthorized, Reason: ReasonUnauthorized}
	errBlocked             = &Error{Kind: Forbidden, Reason: ReasonBlocked}
	errRoleForbidden       = &Error{Kind: Forbidden, Reason: ReasonRoleForbidden}
	errPermissionForbidden = &Error{Kind: Forbidden, Reason: ReasonPermissionForbidden}
)

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// Requirement describes what a route demands. Empty Roles admits any role.
// Resource and Action are only checked when both are set.
type Requirement struct {
	Roles    []domain.Role
	Resource domain.Resource
	Action   domain.Action
}

func (r Requirement) needsGrant() bool {
	return r.Resource != "" && r.Action != ""
}

// Identity is what downstream handlers may trust about the caller.
type Identity struct {
	ID    uuid.UUID   `json:"id"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

type TokenVerifier interface {
	VerifyAccessToken(token string) (*domain.Claims, error)
}

// UserFinder resolves the token subject. A missing user is reported as
// repository.ErrNotFound.
type UserFinder interface {
	FindByIDAndEmail(ctx context.Context, id uuid.UUID, email string) (*domain.User, error)
}

type GrantLoader interface {
	GetUserGrants(ctx context.Context, userID uuid.UUID) ([]domain.UserGrant, error)
}

// Observer is told the outcome of every decision.
type Observer interface {
	ObserveDecision(outcome string)
}

type Gate struct {
	tokens   TokenVerifier
	users    UserFinder
	grants   GrantLoader
	now      func() time.Time
	observer Observer
}

type Option func(*Gate)

func WithClock(now func() time.Time) Option {
	return func(g *Gate) { g.now = now }
}

func WithObserver(o Observer) Option {
	return func(g *Gate) { g.observer = o }
}

func NewGate(tokens TokenVerifier, users UserFinder, grants GrantLoader, opts ...Option) *Gate {
	g := &Gate{tokens: tokens, users: users, grants: grants, now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Authorize runs the checks in a fixed order and stops at the first failure.
// Errors that are not *Error come from storage and are internal failures.
func (g *Gate) Authorize(ctx context.Context, authorization string, req Requirement) (*Identity, error) {
	id, err := g.authorize(ctx, authorization, req)
	if g.observer != nil {
		g.observer.ObserveDecision(outcome(err))
	}
	return id, err
}

func (g *Gate) authorize(ctx context.Context, authorization string, req Requirement) (*Identity, error) {
	token := ExtractToken(authorization)
	if token == "" {
		return nil, errUnauthorized
	}

	claims, err := g.tokens.VerifyAccessToken(token)
	if err != nil {
		return nil, errUnauthorized
	}

	user, err := g.users.FindByIDAndEmail(ctx, claims.UserID, claims.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}

	if user.Status == domain.UserStatusBlocked {
		return nil, errBlocked
	}

	if claims.ExpiresAt == nil || claims.ExpiresAt.Unix()*1000 < g.now().UnixMilli() {
		return nil, errUnauthorized
	}

	identity := &Identity{ID: user.ID, Email: user.Email, Role: user.Role}

	if user.Role == domain.RoleSuperAdmin {
		return identity, nil
	}

	if len(req.Roles) > 0 && !slices.Contains(req.Roles, user.Role) {
		return nil, errRoleForbidden
	}

	if req.needsGrant() {
		grants, err := g.grants.GetUserGrants(ctx, user.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load grants: %w", err)
		}
		if !hasGrant(grants, req.Resource, req.Action) {
			return nil, errPermissionForbidden
		}
	}

	return identity, nil
}

// ExtractToken accepts "Bearer <token>" with any scheme casing, or a bare
// token.
func ExtractToken(authorization string) string {
	authorization = strings.TrimSpace(authorization)
	if len(authorization) > 7 && strings.EqualFold(authorization[:7], "bearer ") {
		return strings.TrimSpace(authorization[7:])
	}
	if strings.EqualFold(authorization, "bearer") {
		return ""
	}
	return authorization
}

func hasGrant(grants []domain.UserGrant, resource domain.Resource, action domain.Action) bool {
	for _, g := range grants {
		if g.Resource == resource && g.Action == action {
			return true
		}
	}
	return false
}

func outcome(err error) string {
	var e *Error
	switch {
	case err == nil:
		return "allowed"
	case errors.As(err, &e):
		return e.Kind.String()
	default:
		return "error"
	}
}
