package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/AssessmentIntake/internal/services"
)

type nutritionService interface {
	StartNutritional(ctx context.Context, phoneID, formType string) (*services.NutritionalResult, error)
	NutritionalView(ctx context.Context, phoneID, sessionID string) (*services.NutritionalResult, error)
	UpdateNutritional(ctx context.Context, phoneID, sessionID string, values map[string]any) (*services.NutritionalResult, error)
	AdvanceNutritional(ctx context.Context, phoneID, sessionID string) (*services.NutritionalResult, error)
	RetreatNutritional(ctx context.Context, phoneID, sessionID string) (*services.NutritionalResult, error)
}

type NutritionHandler struct {
	service nutritionService
}

type startNutritionRequest struct {
	FormType string `json:"form_type"`
}

type updateNutritionRequest struct {
	Values map[string]any `json:"values"`
}

func NewNutritionHandler(service nutritionService) *NutritionHandler {
	return &NutritionHandler{service: service}
}

// Start opens the questionnaire for the gender variant chosen on the
// selection page.
func (h *NutritionHandler) Start(c *fiber.Ctx) error {
	phoneID, ok := phoneIDFromLocals(c)
	if !ok {
		return unauthorized(c)
	}
	var req startNutritionRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	result, err := h.service.StartNutritional(c.Context(), phoneID, req.FormType)
	if err != nil {
		return mapIntakeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

func (h *NutritionHandler) View(c *fiber.Ctx) error {
	return h.step(c, h.service.NutritionalView)
}

func (h *NutritionHandler) Update(c *fiber.Ctx) error {
	var req updateNutritionRequest
	if err := c.BodyParser(&req); err != nil || len(req.Values) == 0 {
		return invalidBody(c)
	}
	return h.step(c, func(ctx context.Context, phoneID, sessionID string) (*services.NutritionalResult, error) {
		return h.service.UpdateNutritional(ctx, phoneID, sessionID, req.Values)
	})
}

func (h *NutritionHandler) Next(c *fiber.Ctx) error {
	return h.step(c, h.service.AdvanceNutritional)
}

func (h *NutritionHandler) Back(c *fiber.Ctx) error {
	return h.step(c, h.service.RetreatNutritional)
}

func (h *NutritionHandler) step(c *fiber.Ctx, op func(ctx context.Context, phoneID, sessionID string) (*services.NutritionalResult, error)) error {
	phoneID, ok := phoneIDFromLocals(c)
	if !ok {
		return unauthorized(c)
	}
	result, err := op(c.Context(), phoneID, c.Params("id"))
	if err != nil {
		return mapIntakeError(c, err)
	}
	return c.JSON(result)
}
