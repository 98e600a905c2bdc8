package handlers

import (
	"errors"

	"spsc-alumni/internal/adapters/persistence/models"
	"spsc-alumni/internal/core/domain"
	"spsc-alumni/internal/core/services"
	"spsc-alumni/internal/pkg/pagination"
	"spsc-alumni/internal/pkg/response"
	"spsc-alumni/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// ShippingHandler handles document delivery endpoints
type ShippingHandler struct {
	shippingService *services.ShippingService
}

// NewShippingHandler creates a new shipping handler
func NewShippingHandler(shippingService *services.ShippingService) *ShippingHandler {
	return &ShippingHandler{shippingService: shippingService}
}

// ListShippable lists approved mail-delivery registrants. Defaults to the
// awaiting_shipment work queue; pass shipping_status=all for everything.
func (h *ShippingHandler) ListShippable(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	filter := parseAlumniFilter(c, params)

	items, total, err := h.shippingService.ListShippable(c.Context(), filter)
	if err != nil {
		return response.InternalServerError(c, "Failed to list shippable alumni")
	}

	resp := make([]*models.AlumniResponse, 0, len(items))
	for _, a := range items {
		resp = append(resp, a.ToResponse())
	}

	return response.Success(c, "Shippable alumni retrieved successfully",
		pagination.NewResponse(resp, params, total))
}

func shippingErrorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrAlumniNotFound):
		return response.NotFound(c, "ไม่พบข้อมูลสมาชิก")
	case errors.Is(err, domain.ErrInvalidShipStatus):
		return response.BadRequest(c, "สถานะจัดส่งไม่ถูกต้อง")
	case errors.Is(err, domain.ErrNotApproved):
		return response.BadRequest(c, "ใบสมัครยังไม่ได้รับการอนุมัติ")
	case errors.Is(err, domain.ErrNotMailDelivery):
		return response.BadRequest(c, "สมาชิกเลือกรับเอกสารด้วยตนเอง")
	case errors.Is(err, domain.ErrMissingTracking):
		return response.BadRequest(c, "กรุณาระบุเลขพัสดุ")
	default:
		return response.InternalServerError(c, "Failed to update shipping status")
	}
}

// UpdateShipping handles PATCH /shipping/:id
func (h *ShippingHandler) UpdateShipping(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid alumni ID")
	}

	var input services.ShippingChangeInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.ValidateStruct(&input); err != nil {
		return response.BadRequest(c, validation.FormatErrors(err))
	}

	userID, _ := c.Locals("userID").(uint)

	alumni, err := h.shippingService.ApplyShippingChange(c.Context(), uint(id), &input, userID)
	if err != nil {
		return shippingErrorResponse(c, err)
	}

	return response.Success(c, "อัปเดตสถานะจัดส่งสำเร็จ", fiber.Map{
		"alumni": alumni.ToResponse(),
	})
}

// BulkUpdate handles POST /shipping/bulk
func (h *ShippingHandler) BulkUpdate(c *fiber.Ctx) error {
	var input services.BulkShippingInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.ValidateStruct(&input); err != nil {
		return response.BadRequest(c, validation.FormatErrors(err))
	}

	userID, _ := c.Locals("userID").(uint)

	result, err := h.shippingService.BulkApplyShipping(c.Context(), &input, userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidShipStatus):
			return response.BadRequest(c, "สถานะจัดส่งไม่ถูกต้อง")
		case errors.Is(err, domain.ErrBulkPrecheckFailed):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(response.Response{
				Success: false,
				Error:   "บางรายการไม่ผ่านเงื่อนไขการจัดส่ง ไม่มีรายการใดถูกอัปเดต",
				Data:    result,
			})
		default:
			return response.InternalServerError(c, "Failed to bulk update shipping")
		}
	}

	updated := make([]*models.AlumniResponse, 0, len(result.Updated))
	for _, a := range result.Updated {
		updated = append(updated, a.ToResponse())
	}

	return response.Success(c, "อัปเดตสถานะจัดส่งสำเร็จ", fiber.Map{
		"updated": updated,
		"failed":  result.Failed,
	})
}

// Statistics returns shipping pipeline counts
func (h *ShippingHandler) Statistics(c *fiber.Ctx) error {
	stats, err := h.shippingService.Statistics(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to get shipping statistics")
	}

	return response.Success(c, "Shipping statistics retrieved successfully", stats)
}

// Track is the public shipment lookup by tracking number
func (h *ShippingHandler) Track(c *fiber.Ctx) error {
	trackingNumber := c.Params("trackingNumber")
	if trackingNumber == "" {
		return response.BadRequest(c, "กรุณาระบุเลขพัสดุ")
	}

	alumni, err := h.shippingService.TrackByNumber(c.Context(), trackingNumber)
	if err != nil {
		if errors.Is(err, domain.ErrAlumniNotFound) {
			return response.NotFound(c, "ไม่พบพัสดุตามเลขที่ระบุ")
		}
		return response.InternalServerError(c, "Failed to track shipment")
	}

	return response.Success(c, "พบข้อมูลพัสดุ", fiber.Map{
		"first_name":            alumni.FirstName,
		"last_name":             alumni.LastName,
		"shipping_status":       alumni.ShippingStatus,
		"shipping_status_label": domain.ShippingStatus(alumni.ShippingStatus).Label(),
		"tracking_number":       alumni.TrackingNumber,
		"shipped_date":          alumni.ShippedDate,
		"shipping_history":      alumni.ShippingHistory,
	})
}
