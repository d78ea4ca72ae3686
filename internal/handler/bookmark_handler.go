package handler

import (
	"github.com/andressep95/deen-service/internal/service"
	"github.com/andressep95/deen-service/pkg/validator"
	"github.com/gofiber/fiber/v2"
)

type BookmarkHandler struct {
	bookmarkService *service.BookmarkService
	validator       *validator.Validator
}

func NewBookmarkHandler(bookmarkService *service.BookmarkService, validator *validator.Validator) *BookmarkHandler {
	return &BookmarkHandler{
		bookmarkService: bookmarkService,
		validator:       validator,
	}
}

// POST /api/v1/bookmark
func (h *BookmarkHandler) Create(c *fiber.Ctx) error {
	var req service.CreateBookmarkRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	b, err := h.bookmarkService.Create(c.UserContext(), caller(c), req)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, "Bookmark created successfully", b)
}

// GET /api/v1/bookmark/me
func (h *BookmarkHandler) ListMine(c *fiber.Ctx) error {
	items, meta, err := h.bookmarkService.ListMine(c.UserContext(), caller(c), rawQuery(c))
	if err != nil {
		return err
	}
	return respondPage(c, "Bookmarks retrieved successfully", items, meta)
}

// GET /api/v1/bookmark/:bookmarkId
func (h *BookmarkHandler) GetMine(c *fiber.Ctx) error {
	id, err := paramID(c, "bookmarkId")
	if err != nil {
		return err
	}

	b, err := h.bookmarkService.GetMine(c.UserContext(), caller(c), id)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Bookmark retrieved successfully", b)
}

// DELETE /api/v1/bookmark/:bookmarkId
func (h *BookmarkHandler) DeleteMine(c *fiber.Ctx) error {
	id, err := paramID(c, "bookmarkId")
	if err != nil {
		return err
	}

	if err := h.bookmarkService.DeleteMine(c.UserContext(), caller(c), id); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Bookmark deleted successfully", nil)
}

// ListAll lists every user's bookmarks
// GET /api/v1/bookmark
func (h *BookmarkHandler) ListAll(c *fiber.Ctx) error {
	items, meta, err := h.bookmarkService.ListAll(c.UserContext(), rawQuery(c))
	if err != nil {
		return err
	}
	return respondPage(c, "Bookmarks retrieved successfully", items, meta)
}

// DELETE /api/v1/bookmark/admin/:bookmarkId
func (h *BookmarkHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "bookmarkId")
	if err != nil {
		return err
	}

	if err := h.bookmarkService.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Bookmark deleted successfully", nil)
}
