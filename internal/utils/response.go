package utils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"weddingshare/internal/apperrors"
)

func JSONSuccess(c *fiber.Ctx, status int, payload interface{}) error {
	return c.Status(status).JSON(fiber.Map{"status": "ok", "data": payload})
}

func JSONError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"status": "error", "message": msg})
}

// JSONFromError maps the error taxonomy onto HTTP statuses.
func JSONFromError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return JSONError(c, fiber.StatusNotFound, "not found")
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return JSONError(c, fiber.StatusForbidden, "permission denied")
	case errors.Is(err, apperrors.ErrUnauthorized):
		return JSONError(c, fiber.StatusUnauthorized, "unauthorized")
	case errors.Is(err, apperrors.ErrValidation):
		return JSONError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, apperrors.ErrExternalService):
		return JSONError(c, fiber.StatusBadGateway, "external service unavailable")
	default:
		return JSONError(c, fiber.StatusInternalServerError, "internal error")
	}
}
