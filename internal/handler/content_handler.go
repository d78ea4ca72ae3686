package handler

import (
	"github.com/andressep95/deen-service/internal/service"
	"github.com/andressep95/deen-service/pkg/validator"
	"github.com/gofiber/fiber/v2"
)

// ContentHandler serves one content module. name is used in response
// messages, e.g. "Dua".
type ContentHandler[T, C, U any] struct {
	svc       *service.ContentService[T, C, U]
	validator *validator.Validator
	name      string
}

func NewContentHandler[T, C, U any](svc *service.ContentService[T, C, U], validator *validator.Validator, name string) *ContentHandler[T, C, U] {
	return &ContentHandler[T, C, U]{svc: svc, validator: validator, name: name}
}

// List is public and never shows deleted rows
// GET /api/v1/<module>/all
func (h *ContentHandler[T, C, U]) List(c *fiber.Ctx) error {
	items, meta, err := h.svc.List(c.UserContext(), rawQuery(c))
	if err != nil {
		return err
	}
	return respondPage(c, h.name+" list retrieved successfully", items, meta)
}

// ListAll honours isDeleted=true
// GET /api/v1/<module>/admin/all
func (h *ContentHandler[T, C, U]) ListAll(c *fiber.Ctx) error {
	items, meta, err := h.svc.ListAll(c.UserContext(), rawQuery(c))
	if err != nil {
		return err
	}
	return respondPage(c, h.name+" list retrieved successfully", items, meta)
}

// ListBy lists the public rows whose filter key equals the uuid path
// parameter, e.g. GET /api/v1/ayah/surah/:surahId.
func (h *ContentHandler[T, C, U]) ListBy(param, key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c, param)
		if err != nil {
			return err
		}

		raw := rawQuery(c)
		raw.Set(key, id.String())
		items, meta, err := h.svc.List(c.UserContext(), raw)
		if err != nil {
			return err
		}
		return respondPage(c, h.name+" list retrieved successfully", items, meta)
	}
}

// GET /api/v1/<module>/:id
func (h *ContentHandler[T, C, U]) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	item, err := h.svc.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, h.name+" retrieved successfully", item)
}

// POST /api/v1/<module>
func (h *ContentHandler[T, C, U]) Create(c *fiber.Ctx) error {
	var req C
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	item, err := h.svc.Create(c.UserContext(), caller(c), req)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, h.name+" created successfully", item)
}

// PUT /api/v1/<module>/:id
func (h *ContentHandler[T, C, U]) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req U
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	item, err := h.svc.Update(c.UserContext(), id, req)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, h.name+" updated successfully", item)
}

// SoftDelete marks the row deleted
// DELETE /api/v1/<module>/:id
func (h *ContentHandler[T, C, U]) SoftDelete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	item, err := h.svc.SoftDelete(c.UserContext(), id)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, h.name+" deleted successfully", item)
}

// Delete removes the row for good
// DELETE /api/v1/<module>/admin/:id
func (h *ContentHandler[T, C, U]) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.svc.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, h.name+" permanently deleted", nil)
}
