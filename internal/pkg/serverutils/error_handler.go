package serverutils

import (
	"errors"

	"gem-curator-be/internal/service"
	"gem-curator-be/pkg/curator"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware turns handler errors into JSON error bodies.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		status, body := MapError(err)
		return ctx.Status(status).JSON(body)
	}
}

func MapError(err error) (int, ErrorBody) {
	body := ErrorBody{Success: false, Message: err.Error()}

	var validationErr *ValidationError
	var fiberErr *fiber.Error

	switch {
	case errors.As(err, &validationErr):
		body.Code = fiber.StatusBadRequest
		body.Message = "Validation failed"
		body.Errors = validationErr.Fields
	case errors.Is(err, curator.ErrMalformedResumeInput):
		body.Code = fiber.StatusBadRequest
	case errors.Is(err, curator.ErrSessionNotFound), errors.Is(err, service.ErrPlaylistNotFound):
		body.Code = fiber.StatusNotFound
	case errors.Is(err, curator.ErrSessionClosed):
		body.Code = fiber.StatusConflict
	case errors.Is(err, service.ErrSessionForbidden):
		body.Code = fiber.StatusForbidden
	case errors.As(err, &fiberErr):
		body.Code = fiberErr.Code
	default:
		body.Code = fiber.StatusInternalServerError
		body.Message = "Internal server error"
	}
	return body.Code, body
}
