package handler

import (
	"time"

	"github.com/andressep95/deen-service/internal/service"
	"github.com/andressep95/deen-service/pkg/validator"
	"github.com/gofiber/fiber/v2"
)

const refreshCookie = "refreshToken"

type AuthHandler struct {
	authService  *service.AuthService
	validator    *validator.Validator
	secureCookie bool
	refreshTTL   time.Duration
}

func NewAuthHandler(authService *service.AuthService, validator *validator.Validator, secureCookie bool, refreshTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		validator:    validator,
		secureCookie: secureCookie,
		refreshTTL:   refreshTTL,
	}
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Register creates a USER account and signs it in
// POST /api/v1/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req service.RegisterRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	res, err := h.authService.Register(c.UserContext(), req)
	if err != nil {
		return err
	}

	h.setRefreshCookie(c, res.RefreshToken)
	return respond(c, fiber.StatusCreated, "User registered successfully", res)
}

// Login handles user login by email or username
// POST /api/v1/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req service.LoginRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	res, err := h.authService.Login(c.UserContext(), req)
	if err != nil {
		return err
	}

	h.setRefreshCookie(c, res.RefreshToken)
	return respond(c, fiber.StatusOK, "User logged in successfully", res)
}

// RefreshToken issues a new access token
// POST /api/v1/refresh-token
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	access, err := h.authService.Refresh(c.UserContext(), h.refreshTokenFrom(c))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Access token retrieved successfully", fiber.Map{"accessToken": access})
}

// Logout revokes the refresh token and clears the cookie
// POST /api/v1/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.authService.Logout(c.UserContext(), h.refreshTokenFrom(c)); err != nil {
		return err
	}

	c.ClearCookie(refreshCookie)
	return respond(c, fiber.StatusOK, "Logged out successfully", nil)
}

// ChangePassword handles password change for the caller
// POST /api/v1/change-password
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var req service.ChangePasswordRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	if err := h.authService.ChangePassword(c.UserContext(), caller(c), req); err != nil {
		return err
	}

	c.ClearCookie(refreshCookie)
	return respond(c, fiber.StatusOK, "Password changed successfully", nil)
}

// refreshTokenFrom prefers the cookie and falls back to the JSON body.
func (h *AuthHandler) refreshTokenFrom(c *fiber.Ctx) string {
	if token := c.Cookies(refreshCookie); token != "" {
		return token
	}
	var req refreshRequest
	_ = c.BodyParser(&req)
	return req.RefreshToken
}

func (h *AuthHandler) setRefreshCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     refreshCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.refreshTTL.Seconds()),
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
