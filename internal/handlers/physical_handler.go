package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/AssessmentIntake/internal/intake"
	"github.com/saeid-a/AssessmentIntake/internal/services"
)

type physicalService interface {
	StartPhysical(ctx context.Context, phoneID string) (*services.PhysicalResult, error)
	PhysicalView(ctx context.Context, phoneID, sessionID string) (*services.PhysicalResult, error)
	AnswerPhysical(ctx context.Context, phoneID, sessionID, value string) (*services.PhysicalResult, error)
	AnswerClearance(ctx context.Context, phoneID, sessionID string, hasClearance bool) (*services.PhysicalResult, error)
	UploadDocument(ctx context.Context, phoneID, sessionID string, upload services.DocumentUpload) (*services.PhysicalResult, error)
	DocumentLink(ctx context.Context, phoneID, sessionID string) (string, error)
	SetAgreement(ctx context.Context, phoneID, sessionID string, checked bool) (*services.PhysicalResult, error)
	AdvancePhysical(ctx context.Context, phoneID, sessionID string) (*services.PhysicalResult, error)
	RetreatPhysical(ctx context.Context, phoneID, sessionID string) (*services.PhysicalResult, error)
}

type PhysicalHandler struct {
	service physicalService
}

type answerRequest struct {
	Value string `json:"value"`
}

type clearanceRequest struct {
	HasClearance *bool `json:"has_clearance"`
}

type agreementRequest struct {
	Checked bool `json:"checked"`
}

func NewPhysicalHandler(service physicalService) *PhysicalHandler {
	return &PhysicalHandler{service: service}
}

func (h *PhysicalHandler) Start(c *fiber.Ctx) error {
	phoneID, ok := phoneIDFromLocals(c)
	if !ok {
		return unauthorized(c)
	}
	result, err := h.service.StartPhysical(c.Context(), phoneID)
	if err != nil {
		return mapIntakeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

func (h *PhysicalHandler) View(c *fiber.Ctx) error {
	return h.step(c, h.service.PhysicalView)
}

func (h *PhysicalHandler) Answer(c *fiber.Ctx) error {
	var req answerRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	return h.step(c, func(ctx context.Context, phoneID, sessionID string) (*services.PhysicalResult, error) {
		return h.service.AnswerPhysical(ctx, phoneID, sessionID, req.Value)
	})
}

func (h *PhysicalHandler) Clearance(c *fiber.Ctx) error {
	var req clearanceRequest
	if err := c.BodyParser(&req); err != nil || req.HasClearance == nil {
		return invalidBody(c)
	}
	return h.step(c, func(ctx context.Context, phoneID, sessionID string) (*services.PhysicalResult, error) {
		return h.service.AnswerClearance(ctx, phoneID, sessionID, *req.HasClearance)
	})
}

func (h *PhysicalHandler) UploadDocument(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Selecione um arquivo para enviar."})
	}
	// Checked before the file is opened.
	contentType := fileHeader.Header.Get("Content-Type")
	if err := intake.ValidateDocument(fileHeader.Size, contentType); err != nil {
		return mapIntakeError(c, err)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return mapIntakeError(c, &intake.Error{Kind: intake.KindInternal, Message: intake.MsgGenericFileFailure, Err: err})
	}
	defer file.Close()

	return h.step(c, func(ctx context.Context, phoneID, sessionID string) (*services.PhysicalResult, error) {
		return h.service.UploadDocument(ctx, phoneID, sessionID, services.DocumentUpload{
			FileName:    fileHeader.Filename,
			Size:        fileHeader.Size,
			ContentType: contentType,
			Content:     file,
		})
	})
}

func (h *PhysicalHandler) DocumentLink(c *fiber.Ctx) error {
	phoneID, ok := phoneIDFromLocals(c)
	if !ok {
		return unauthorized(c)
	}
	link, err := h.service.DocumentLink(c.Context(), phoneID, c.Params("id"))
	if err != nil {
		return mapIntakeError(c, err)
	}
	return c.JSON(fiber.Map{"url": link})
}

func (h *PhysicalHandler) Agreement(c *fiber.Ctx) error {
	var req agreementRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	return h.step(c, func(ctx context.Context, phoneID, sessionID string) (*services.PhysicalResult, error) {
		return h.service.SetAgreement(ctx, phoneID, sessionID, req.Checked)
	})
}

func (h *PhysicalHandler) Next(c *fiber.Ctx) error {
	return h.step(c, h.service.AdvancePhysical)
}

func (h *PhysicalHandler) Back(c *fiber.Ctx) error {
	return h.step(c, h.service.RetreatPhysical)
}

func (h *PhysicalHandler) step(c *fiber.Ctx, op func(ctx context.Context, phoneID, sessionID string) (*services.PhysicalResult, error)) error {
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
