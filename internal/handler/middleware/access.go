package middleware

import (
	"context"
	"errors"

	"github.com/andressep95/deen-service/internal/access"
	"github.com/andressep95/deen-service/internal/domain"
	"github.com/gofiber/fiber/v2"
)

const identityKey = "identity"

// Authorizer is satisfied by *access.Gate.
type Authorizer interface {
	Authorize(ctx context.Context, authorization string, req access.Requirement) (*access.Identity, error)
}

// Require runs the gate for req and stores the caller's identity for the
// handlers behind it. Gate rejections are answered here; storage failures
// go to the app's error handler.
func Require(gate Authorizer, req access.Requirement) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := gate.Authorize(c.UserContext(), c.Get(fiber.HeaderAuthorization), req)
		if err != nil {
			var denied *access.Error
			if errors.As(err, &denied) {
				return c.Status(StatusFor(denied)).JSON(fiber.Map{
					"success": false,
					"message": denied.Reason,
				})
			}
			return err
		}

		c.Locals(identityKey, id)
		return c.Next()
	}
}

// Roles is shorthand for a role-only requirement.
func Roles(roles ...domain.Role) access.Requirement {
	return access.Requirement{Roles: roles}
}

// Grant is a role requirement plus a resource/action grant.
func Grant(resource domain.Resource, action domain.Action, roles ...domain.Role) access.Requirement {
	return access.Requirement{Roles: roles, Resource: resource, Action: action}
}

// Identity returns the caller stored by Require, or nil on public routes.
func Identity(c *fiber.Ctx) *access.Identity {
	id, _ := c.Locals(identityKey).(*access.Identity)
	return id
}

func StatusFor(err *access.Error) int {
	if err.Kind == access.Forbidden {
		return fiber.StatusForbidden
	}
	return fiber.StatusUnauthorized
}
