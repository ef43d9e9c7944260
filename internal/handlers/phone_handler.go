package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/AssessmentIntake/internal/intake"
	"github.com/saeid-a/AssessmentIntake/internal/services"
)

type phoneService interface {
	VerifyPhone(ctx context.Context, phone string) (*services.PhoneVerification, error)
	SelectForm(ctx context.Context, phoneID string, form services.FormType) (*services.FormSelection, error)
	Success(phoneID string) (map[string]string, error)
}

type PhoneHandler struct {
	service phoneService
}

type verifyPhoneRequest struct {
	Phone string `json:"phone"`
}

type selectFormRequest struct {
	Form services.FormType `json:"form"`
}

func NewPhoneHandler(service phoneService) *PhoneHandler {
	return &PhoneHandler{service: service}
}

func (h *PhoneHandler) Verify(c *fiber.Ctx) error {
	var req verifyPhoneRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	verification, err := h.service.VerifyPhone(c.Context(), req.Phone)
	if err != nil {
		// Unverified numbers answer 403.
		if intake.KindOf(err) == intake.KindPrecondition {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": intake.MessageOf(err)})
		}
		return mapIntakeError(c, err)
	}
	return c.JSON(fiber.Map{
		"verification": verification,
		"notice":       intake.Notice{Level: intake.NoticeSuccess, Message: "Número verificado com sucesso!"},
	})
}

func (h *PhoneHandler) SelectForm(c *fiber.Ctx) error {
	phoneID, ok := phoneIDFromLocals(c)
	if !ok {
		return unauthorized(c)
	}
	var req selectFormRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	selection, err := h.service.SelectForm(c.Context(), phoneID, req.Form)
	if err != nil {
		return mapIntakeError(c, err)
	}
	return c.JSON(fiber.Map{"selection": selection})
}

// Success serves the final page data. It is public: the page only echoes
// the identifier it was given.
func (h *PhoneHandler) Success(c *fiber.Ctx) error {
	page, err := h.service.Success(c.Query("phoneId"))
	if err != nil {
		return mapIntakeError(c, err)
	}
	return c.JSON(page)
}
