package handler

import (
	"errors"
	"net/url"

	"github.com/andressep95/deen-service/internal/access"
	"github.com/andressep95/deen-service/internal/domain"
	"github.com/andressep95/deen-service/internal/handler/middleware"
	"github.com/andressep95/deen-service/internal/service"
	"github.com/andressep95/deen-service/pkg/validator"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// envelope is the body of every JSON response.
type envelope struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Data    interface{}  `json:"data,omitempty"`
	Meta    *domain.Meta `json:"meta,omitempty"`
}

func respond(c *fiber.Ctx, status int, message string, data interface{}) error {
	return c.Status(status).JSON(envelope{Success: true, Message: message, Data: data})
}

func respondPage(c *fiber.Ctx, message string, data interface{}, meta domain.Meta) error {
	return c.Status(fiber.StatusOK).JSON(envelope{Success: true, Message: message, Data: data, Meta: &meta})
}

var errorStatus = []struct {
	err    error
	status int
}{
	{service.ErrInvalidCredentials, fiber.StatusUnauthorized},
	{service.ErrInvalidRefreshToken, fiber.StatusUnauthorized},
	{service.ErrAccountBlocked, fiber.StatusForbidden},
	{service.ErrCannotModifyAdmin, fiber.StatusForbidden},
	{service.ErrCannotModifySelf, fiber.StatusForbidden},
	{service.ErrWrongPassword, fiber.StatusBadRequest},
	{service.ErrSamePassword, fiber.StatusBadRequest},
	{service.ErrPermissionAlreadyGranted, fiber.StatusBadRequest},
	{service.ErrCategoryMissing, fiber.StatusBadRequest},
	{service.ErrBookmarkTarget, fiber.StatusBadRequest},
	{service.ErrBookMissing, fiber.StatusBadRequest},
	{service.ErrAyahParent, fiber.StatusBadRequest},
	{service.ErrNotFound, fiber.StatusNotFound},
	{service.ErrUserNotFound, fiber.StatusNotFound},
	{service.ErrPermissionNotFound, fiber.StatusNotFound},
	{service.ErrGrantNotFound, fiber.StatusNotFound},
	{service.ErrUsernameTaken, fiber.StatusConflict},
	{service.ErrEmailTaken, fiber.StatusConflict},
	{service.ErrPermissionExists, fiber.StatusConflict},
	{service.ErrCategoryExists, fiber.StatusConflict},
	{service.ErrCategoryInUse, fiber.StatusConflict},
	{service.ErrWordExists, fiber.StatusConflict},
	{service.ErrSlugTaken, fiber.StatusConflict},
	{service.ErrBookmarkExists, fiber.StatusConflict},
	{service.ErrSurahExists, fiber.StatusConflict},
	{service.ErrSurahInUse, fiber.StatusConflict},
	{service.ErrParaExists, fiber.StatusConflict},
	{service.ErrParaInUse, fiber.StatusConflict},
	{service.ErrAyahExists, fiber.StatusConflict},
}

// statusOf maps an error to the status and message the client sees. Unknown
// errors are internal and their text is never exposed.
func statusOf(err error) (int, string) {
	var (
		denied   *access.Error
		invalid  *validator.Error
		fiberErr *fiber.Error
	)
	switch {
	case errors.As(err, &denied):
		return middleware.StatusFor(denied), denied.Reason
	case errors.As(err, &invalid):
		return fiber.StatusBadRequest, invalid.Error()
	case errors.As(err, &fiberErr):
		return fiberErr.Code, fiberErr.Message
	}
	for _, m := range errorStatus {
		if errors.Is(err, m.err) {
			return m.status, m.err.Error()
		}
	}
	return fiber.StatusInternalServerError, "internal server error"
}

// ErrorHandler renders every error returned by a handler as an envelope.
func ErrorHandler(log logrus.FieldLogger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, message := statusOf(err)
		if status >= fiber.StatusInternalServerError {
			log.WithError(err).WithFields(logrus.Fields{
				"method": c.Method(),
				"path":   c.Path(),
			}).Error("unhandled error")
		}
		return c.Status(status).JSON(envelope{Success: false, Message: message})
	}
}

// bind parses the JSON body into dst and validates it.
func bind(c *fiber.Ctx, v *validator.Validator, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	return v.Validate(dst)
}

func paramID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

// rawQuery copies the query string into url.Values, keeping repeated keys.
func rawQuery(c *fiber.Ctx) url.Values {
	raw := url.Values{}
	c.Context().QueryArgs().VisitAll(func(k, v []byte) {
		raw.Add(string(k), string(v))
	})
	return raw
}

// caller is the identity stored by middleware.Require. Routes that call it
// are always behind the gate.
func caller(c *fiber.Ctx) uuid.UUID {
	if id := middleware.Identity(c); id != nil {
		return id.ID
	}
	return uuid.Nil
}
