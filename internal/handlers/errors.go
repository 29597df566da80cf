package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/example/solara/internal/services"
)

// mapServiceError translates service-layer errors into HTTP errors.
// Anything unrecognized passes through for the global error handler.
func mapServiceError(err error) error {
	var validation *services.ValidationError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &validation):
		return fiber.NewError(fiber.StatusBadRequest, validation.Message)
	case errors.Is(err, services.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "not found")
	case errors.Is(err, services.ErrSoldOut):
		return fiber.NewError(fiber.StatusConflict, "not enough rooms available for the selected dates")
	case errors.Is(err, services.ErrInsufficientPoints):
		return fiber.NewError(fiber.StatusBadRequest, "insufficient points balance")
	case errors.Is(err, services.ErrAlreadyClaimed):
		return fiber.NewError(fiber.StatusConflict, "milestone already claimed")
	default:
		return err
	}
}
