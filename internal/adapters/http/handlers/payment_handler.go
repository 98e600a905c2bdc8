package handlers

import (
	"errors"

	"spsc-alumni/internal/core/domain"
	"spsc-alumni/internal/core/services"
	"spsc-alumni/internal/pkg/response"
	"spsc-alumni/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// PaymentHandler handles payment record endpoints
type PaymentHandler struct {
	paymentService *services.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// Submit records a payment against a registration
func (h *PaymentHandler) Submit(c *fiber.Ctx) error {
	var input services.SubmitInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.ValidateStruct(&input); err != nil {
		return response.BadRequest(c, validation.FormatErrors(err))
	}

	userID, _ := c.Locals("userID").(uint)

	payment, err := h.paymentService.Submit(c.Context(), &input, userID)
	if err != nil {
		if errors.Is(err, domain.ErrAlumniNotFound) {
			return response.NotFound(c, "ไม่พบข้อมูลสมาชิก")
		}
		return response.InternalServerError(c, "Failed to submit payment")
	}

	return response.Created(c, "บันทึกการชำระเงินสำเร็จ", fiber.Map{
		"payment": payment,
	})
}

// Verify marks a payment verified or rejected
func (h *PaymentHandler) Verify(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid payment ID")
	}

	var input services.VerifyInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	userID, _ := c.Locals("userID").(uint)

	payment, err := h.paymentService.Verify(c.Context(), uint(id), &input, userID)
	if err != nil {
		if errors.Is(err, domain.ErrPaymentNotFound) {
			return response.NotFound(c, "ไม่พบรายการชำระเงิน")
		}
		return response.InternalServerError(c, "Failed to verify payment")
	}

	return response.Success(c, "ตรวจสอบการชำระเงินสำเร็จ", fiber.Map{
		"payment": payment,
	})
}

// GetByReference looks up a payment by its public reference
func (h *PaymentHandler) GetByReference(c *fiber.Ctx) error {
	reference := c.Params("reference")
	if reference == "" {
		return response.BadRequest(c, "กรุณาระบุเลขอ้างอิง")
	}

	payment, err := h.paymentService.GetByReference(c.Context(), reference)
	if err != nil {
		if errors.Is(err, domain.ErrPaymentNotFound) {
			return response.NotFound(c, "ไม่พบรายการชำระเงิน")
		}
		return response.InternalServerError(c, "Failed to get payment")
	}

	return response.Success(c, "พบรายการชำระเงิน", fiber.Map{
		"payment": payment,
	})
}

// ListByAlumni lists all payments of one registration
func (h *PaymentHandler) ListByAlumni(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid alumni ID")
	}

	payments, err := h.paymentService.ListByAlumni(c.Context(), uint(id))
	if err != nil {
		return response.InternalServerError(c, "Failed to list payments")
	}

	return response.Success(c, "Payments retrieved successfully", fiber.Map{
		"payments": payments,
	})
}
