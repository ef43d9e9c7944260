package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/AssessmentIntake/internal/intake"
	"github.com/saeid-a/AssessmentIntake/internal/middleware"
	"github.com/saeid-a/AssessmentIntake/internal/services"
)

// mapIntakeError writes the user-facing message of err with a status that
// follows its kind.
func mapIntakeError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch intake.KindOf(err) {
	case intake.KindValidation:
		status = fiber.StatusUnprocessableEntity
	case intake.KindPrecondition:
		status = fiber.StatusConflict
		if errors.Is(err, intake.ErrMissingPhoneID) {
			status = fiber.StatusBadRequest
		}
	case intake.KindNotFound:
		status = fiber.StatusNotFound
	case intake.KindRemote:
		status = fiber.StatusBadGateway
		if errors.Is(err, services.ErrStorageUnavailable) {
			status = fiber.StatusServiceUnavailable
		}
	}
	return c.Status(status).JSON(fiber.Map{"error": intake.MessageOf(err)})
}

func phoneIDFromLocals(c *fiber.Ctx) (string, bool) {
	phoneID, ok := c.Locals(middleware.LocalPhoneID).(string)
	if !ok || strings.TrimSpace(phoneID) == "" {
		return "", false
	}
	return phoneID, true
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Por favor, verifique seu número de telefone primeiro."})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
}
