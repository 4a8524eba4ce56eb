package middlewares

import (
	"errors"

	"invoicing-backend/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// ErrorHandler centralizes error responses and keeps messages sanitized.
func ErrorHandler(c *fiber.Ctx, err error) error {
	// 1) Typed domain errors (services layer)
	var de *services.Error
	if errors.As(err, &de) {
		switch de.Kind {
		case services.KindNotFound:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": de.Message})
		case services.KindConflict:
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": de.Message})
		case services.KindValidation:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": de.Message})
		default:
			// Data-integrity and anything else unclassified: log, hide detail.
			log.Error().Err(err).Str("path", c.Path()).Msg("internal error")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "internal server error",
			})
		}
	}

	// 2) Fiber errors (use their status code + message)
	if fe, ok := err.(*fiber.Error); ok {
		return c.Status(fe.Code).JSON(fiber.Map{"message": fe.Message})
	}

	// 3) Validation errors (422 + per-field info)
	if ve, ok := err.(validator.ValidationErrors); ok {
		out := make(map[string]string, len(ve))
		for _, fe := range ve {
			out[fe.Field()] = fe.Tag()
		}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message": "validation failed",
			"errors":  out,
		})
	}

	// 4) Unknown errors (500)
	log.Error().Err(err).Str("path", c.Path()).Msg("internal error")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "internal server error",
	})
}
