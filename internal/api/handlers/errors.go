package handlers

import (
	"errors"

	"pullupboard/internal/models"
	"pullupboard/internal/ranking"
	"pullupboard/internal/repository"
	"pullupboard/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs), errors.Is(err, ranking.ErrInvalidFilter):
		return fiber.StatusBadRequest
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, service.ErrMemberNotRanked):
		return fiber.StatusNotFound
	case errors.Is(err, repository.ErrAlreadyReviewed), errors.Is(err, service.ErrCooldownActive):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError writes err with the mapped status; title is the short error label
func respondError(c *fiber.Ctx, title string, err error) error {
	return c.Status(statusFor(err)).JSON(models.ErrorResponse{
		Error:   title,
		Message: err.Error(),
	})
}

func badRequest(c *fiber.Ctx, title, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
		Error:   title,
		Message: message,
	})
}
