package web

import (
	"errors"

	"arcade/domain/entities"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

var errorStatuses = []struct {
	err    error
	status int
}{
	{entities.ErrInvalidAmount, fiber.StatusBadRequest},
	{entities.ErrInvalidInput, fiber.StatusBadRequest},
	{entities.ErrUnknownItem, fiber.StatusBadRequest},
	{entities.ErrUnsupportedFileType, fiber.StatusUnsupportedMediaType},
	{entities.ErrBlockedContent, fiber.StatusUnprocessableEntity},
	{entities.ErrInsufficientFunds, fiber.StatusUnprocessableEntity},
	{entities.ErrRateLimitExceeded, fiber.StatusTooManyRequests},
	{entities.ErrInvalidStateTransition, fiber.StatusConflict},
	{entities.ErrAlreadyOwned, fiber.StatusConflict},
	{entities.ErrDuplicateAccount, fiber.StatusConflict},
	{entities.ErrInvalidCredentials, fiber.StatusUnauthorized},
	{entities.ErrUnauthorized, fiber.StatusForbidden},
	{entities.ErrAccountBanned, fiber.StatusForbidden},
	{entities.ErrAccountNotFound, fiber.StatusNotFound},
	{entities.ErrEntryNotFound, fiber.StatusNotFound},
	{entities.ErrChatMessageNotFound, fiber.StatusNotFound},
}

// statusFor maps a domain error to its HTTP status; unknown errors are internal
func statusFor(err error) int {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code
	}
	for _, mapping := range errorStatuses {
		if errors.Is(err, mapping.err) {
			return mapping.status
		}
	}
	return fiber.StatusInternalServerError
}

// errorHandler renders every error as {"error": message}
func errorHandler(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	message := err.Error()

	if status == fiber.StatusInternalServerError {
		log.WithFields(log.Fields{
			"method": c.Method(),
			"path":   c.Path(),
			"error":  err,
		}).Error("Request failed")
		message = "internal server error"
	}

	return c.Status(status).JSON(fiber.Map{"error": message})
}
