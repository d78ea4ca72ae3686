package handler

import (
	"github.com/andressep95/deen-service/internal/service"
	"github.com/andressep95/deen-service/pkg/validator"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type PermissionHandler struct {
	permissionService *service.PermissionService
	validator         *validator.Validator
}

func NewPermissionHandler(permissionService *service.PermissionService, validator *validator.Validator) *PermissionHandler {
	return &PermissionHandler{
		permissionService: permissionService,
		validator:         validator,
	}
}

// Create adds a (resource, action) permission
// POST /api/v1/permission
func (h *PermissionHandler) Create(c *fiber.Ctx) error {
	var req service.CreatePermissionRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	p, err := h.permissionService.Create(c.UserContext(), req)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, "Permission created successfully", p)
}

// List returns every permission with its number of holders
// GET /api/v1/permission
func (h *PermissionHandler) List(c *fiber.Ctx) error {
	perms, err := h.permissionService.List(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Permissions retrieved successfully", perms)
}

// Assign grants a permission to a user
// POST /api/v1/permission/assign
func (h *PermissionHandler) Assign(c *fiber.Ctx) error {
	var req service.GrantRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	grant, err := h.permissionService.Assign(c.UserContext(), caller(c), uuid.MustParse(req.UserID), uuid.MustParse(req.PermissionID))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, "Permission assigned successfully", grant)
}

// UserGrants lists the permissions held by a user
// GET /api/v1/permission/user/:userId
func (h *PermissionHandler) UserGrants(c *fiber.Ctx) error {
	userID, err := paramID(c, "userId")
	if err != nil {
		return err
	}

	grants, err := h.permissionService.UserGrants(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "User permissions retrieved successfully", grants)
}

// Revoke removes a grant from a user
// DELETE /api/v1/permission/remove
func (h *PermissionHandler) Revoke(c *fiber.Ctx) error {
	var req service.GrantRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	if err := h.permissionService.Revoke(c.UserContext(), caller(c), uuid.MustParse(req.UserID), uuid.MustParse(req.PermissionID)); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Permission removed successfully", nil)
}

// Delete removes a permission and all its grants
// DELETE /api/v1/permission/:permissionId
func (h *PermissionHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "permissionId")
	if err != nil {
		return err
	}

	if err := h.permissionService.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Permission deleted successfully", nil)
}
