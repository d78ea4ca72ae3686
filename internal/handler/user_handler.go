package handler

import (
	"github.com/andressep95/deen-service/internal/service"
	"github.com/andressep95/deen-service/pkg/validator"
	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService *service.UserService
	validator   *validator.Validator
}

func NewUserHandler(userService *service.UserService, validator *validator.Validator) *UserHandler {
	return &UserHandler{
		userService: userService,
		validator:   validator,
	}
}

// GetMe returns the caller's profile
// GET /api/v1/user/me
func (h *UserHandler) GetMe(c *fiber.Ctx) error {
	user, err := h.userService.GetProfile(c.UserContext(), caller(c))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "User profile retrieved successfully", user)
}

// UpdateMe changes the caller's username or email
// PUT /api/v1/user/me
func (h *UserHandler) UpdateMe(c *fiber.Ctx) error {
	var req service.UpdateProfileRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	user, err := h.userService.UpdateProfile(c.UserContext(), caller(c), req)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "User updated successfully", user)
}

// ListUsers lists every account except the caller and super admins
// GET /api/v1/user/users
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	users, meta, err := h.userService.ListUsers(c.UserContext(), caller(c), rawQuery(c))
	if err != nil {
		return err
	}
	return respondPage(c, "Users retrieved successfully", users, meta)
}

// UpdateStatus blocks or unblocks a user
// PUT /api/v1/user/status/:userId
func (h *UserHandler) UpdateStatus(c *fiber.Ctx) error {
	target, err := paramID(c, "userId")
	if err != nil {
		return err
	}

	var req service.UpdateStatusRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	user, err := h.userService.UpdateStatus(c.UserContext(), caller(c), target, req.Status)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "User status updated successfully", user)
}
