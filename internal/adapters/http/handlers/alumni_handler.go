package handlers

import (
	"errors"
	"fmt"
	"strconv"

	"spsc-alumni/internal/adapters/persistence/models"
	"spsc-alumni/internal/adapters/persistence/repositories"
	"spsc-alumni/internal/core/domain"
	"spsc-alumni/internal/core/services"
	"spsc-alumni/internal/pkg/pagination"
	"spsc-alumni/internal/pkg/response"
	"spsc-alumni/internal/pkg/upload"
	"spsc-alumni/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// AlumniHandler handles alumni endpoints
type AlumniHandler struct {
	alumniService *services.AlumniService
	uploader      *upload.Uploader
}

// NewAlumniHandler creates a new alumni handler
func NewAlumniHandler(alumniService *services.AlumniService, uploader *upload.Uploader) *AlumniHandler {
	return &AlumniHandler{
		alumniService: alumniService,
		uploader:      uploader,
	}
}

// Register handles the public registration form. The form arrives as
// multipart so the profile image and payment slip can ride along.
func (h *AlumniHandler) Register(c *fiber.Ctx) error {
	input := &services.RegisterInput{
		Title:          c.FormValue("title"),
		FirstName:      c.FormValue("first_name"),
		LastName:       c.FormValue("last_name"),
		IDCard:         c.FormValue("id_card"),
		Address:        c.FormValue("address"),
		Phone:          c.FormValue("phone"),
		Email:          c.FormValue("email"),
		Department:     c.FormValue("department"),
		PaymentMethod:  c.FormValue("payment_method"),
		DeliveryOption: c.FormValue("delivery_option"),
	}

	if v := c.FormValue("graduation_year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return response.BadRequest(c, "ปีที่จบการศึกษาไม่ถูกต้อง")
		}
		input.GraduationYear = year
	}
	if v := c.FormValue("amount"); v != "" {
		amount, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return response.BadRequest(c, "จำนวนเงินไม่ถูกต้อง")
		}
		input.Amount = amount
	}
	if v := c.FormValue("shipping_fee"); v != "" {
		fee, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return response.BadRequest(c, "ค่าจัดส่งไม่ถูกต้อง")
		}
		input.ShippingFee = fee
	}

	if err := validation.ValidateStruct(input); err != nil {
		return response.BadRequest(c, validation.FormatErrors(err))
	}

	// Uploads happen before the record is created; only URLs are persisted
	if file, err := c.FormFile("profile_image"); err == nil && h.uploader.Enabled() {
		url, err := h.uploader.UploadFile(file, "profile_"+input.IDCard)
		if err != nil {
			return response.InternalServerError(c, "อัปโหลดรูปโปรไฟล์ไม่สำเร็จ")
		}
		input.ProfileImageURL = url
	}
	if file, err := c.FormFile("payment_proof"); err == nil && h.uploader.Enabled() {
		url, err := h.uploader.UploadFile(file, "payment_"+input.IDCard)
		if err != nil {
			return response.InternalServerError(c, "อัปโหลดหลักฐานการชำระเงินไม่สำเร็จ")
		}
		input.PaymentProofURL = url
	}

	alumni, err := h.alumniService.Register(c.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateIDCard):
			return response.Conflict(c, "เลขบัตรประชาชนนี้สมัครสมาชิกแล้ว")
		case errors.Is(err, domain.ErrInvalidPayMethod):
			return response.BadRequest(c, "วิธีชำระเงินไม่ถูกต้อง")
		case errors.Is(err, domain.ErrInvalidDelivery):
			return response.BadRequest(c, "วิธีรับเอกสารไม่ถูกต้อง")
		default:
			return response.InternalServerError(c, "สมัครสมาชิกไม่สำเร็จ")
		}
	}

	return response.Created(c, "สมัครสมาชิกสำเร็จ", fiber.Map{
		"alumni": alumni.ToResponse(),
	})
}

// CheckStatus is the public status lookup by national ID card number
func (h *AlumniHandler) CheckStatus(c *fiber.Ctx) error {
	var input struct {
		IDCard string `json:"id_card"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if len(input.IDCard) != 13 {
		return response.BadRequest(c, "เลขบัตรประชาชนต้องมี 13 หลัก")
	}

	alumni, err := h.alumniService.CheckStatus(c.Context(), input.IDCard)
	if err != nil {
		if errors.Is(err, domain.ErrAlumniNotFound) {
			return response.NotFound(c, "ไม่พบข้อมูลการสมัคร")
		}
		return response.InternalServerError(c, "ตรวจสอบสถานะไม่สำเร็จ")
	}

	// Public endpoint: expose only the lifecycle, not the full record
	return response.Success(c, "พบข้อมูลการสมัคร", fiber.Map{
		"first_name":            alumni.FirstName,
		"last_name":             alumni.LastName,
		"status":                alumni.Status,
		"status_label":          domain.Status(alumni.Status).Label(),
		"shipping_status":       alumni.ShippingStatus,
		"shipping_status_label": domain.ShippingStatus(alumni.ShippingStatus).Label(),
		"tracking_number":       alumni.TrackingNumber,
	})
}

func parseAlumniFilter(c *fiber.Ctx, params *pagination.Params) *repositories.AlumniFilter {
	year, _ := strconv.Atoi(c.Query("graduation_year", "0"))
	return &repositories.AlumniFilter{
		Status:         c.Query("status"),
		Position:       c.Query("position"),
		ShippingStatus: c.Query("shipping_status"),
		Department:     c.Query("department"),
		GraduationYear: year,
		Search:         c.Query("search"),
		Sort:           c.Query("sort"),
		Offset:         params.Offset,
		Limit:          params.Limit,
	}
}

// List lists alumni with filters and pagination
func (h *AlumniHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	filter := parseAlumniFilter(c, params)

	items, total, err := h.alumniService.List(c.Context(), filter)
	if err != nil {
		return response.InternalServerError(c, "Failed to list alumni")
	}

	resp := make([]*models.AlumniResponse, 0, len(items))
	for _, a := range items {
		resp = append(resp, a.ToResponse())
	}

	return response.Success(c, "Alumni retrieved successfully",
		pagination.NewResponse(resp, params, total))
}

// Get returns one alumni with full history
func (h *AlumniHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid alumni ID")
	}

	alumni, err := h.alumniService.GetByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrAlumniNotFound) {
			return response.NotFound(c, "ไม่พบข้อมูลสมาชิก")
		}
		return response.InternalServerError(c, "Failed to get alumni")
	}

	return response.Success(c, "Alumni retrieved successfully", fiber.Map{
		"alumni":           alumni.ToResponse(),
		"status_history":   alumni.StatusHistory,
		"position_history": alumni.PositionHistory,
		"shipping_history": alumni.ShippingHistory,
	})
}

// UpdateStatus handles PATCH /alumni/:id/status
func (h *AlumniHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid alumni ID")
	}

	var input services.StatusChangeInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.ValidateStruct(&input); err != nil {
		return response.BadRequest(c, validation.FormatErrors(err))
	}

	userID, _ := c.Locals("userID").(uint)

	alumni, err := h.alumniService.ApplyStatusChange(c.Context(), uint(id), &input, userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAlumniNotFound):
			return response.NotFound(c, "ไม่พบข้อมูลสมาชิก")
		case errors.Is(err, domain.ErrInvalidStatus):
			return response.BadRequest(c, "สถานะไม่ถูกต้อง")
		default:
			return response.InternalServerError(c, "Failed to update status")
		}
	}

	return response.Success(c, "อัปเดตสถานะสำเร็จ", fiber.Map{
		"alumni": alumni.ToResponse(),
	})
}

// UpdatePosition handles PATCH /alumni/:id/position
func (h *AlumniHandler) UpdatePosition(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid alumni ID")
	}

	var input services.PositionChangeInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.ValidateStruct(&input); err != nil {
		return response.BadRequest(c, validation.FormatErrors(err))
	}

	userID, _ := c.Locals("userID").(uint)

	alumni, err := h.alumniService.ApplyPositionChange(c.Context(), uint(id), &input, userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAlumniNotFound):
			return response.NotFound(c, "ไม่พบข้อมูลสมาชิก")
		case errors.Is(err, domain.ErrInvalidPosition):
			return response.BadRequest(c, "ตำแหน่งไม่ถูกต้อง")
		case errors.Is(err, domain.ErrPositionSlotFull):
			position := domain.Position(input.Position)
			return response.Conflict(c, fmt.Sprintf("ตำแหน่ง%sเต็มแล้ว (สูงสุด %d คน)",
				position.Label(), position.MaxHolders()))
		default:
			return response.InternalServerError(c, "Failed to update position")
		}
	}

	return response.Success(c, "อัปเดตตำแหน่งสำเร็จ", fiber.Map{
		"alumni": alumni.ToResponse(),
	})
}

// UploadPaymentProof handles the public payment slip upload
func (h *AlumniHandler) UploadPaymentProof(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid alumni ID")
	}

	file, err := c.FormFile("payment_proof")
	if err != nil {
		return response.BadRequest(c, "กรุณาแนบหลักฐานการชำระเงิน")
	}
	if !h.uploader.Enabled() {
		return response.InternalServerError(c, "ระบบอัปโหลดไฟล์ยังไม่พร้อมใช้งาน")
	}

	url, err := h.uploader.UploadFile(file, fmt.Sprintf("payment_%d", id))
	if err != nil {
		return response.InternalServerError(c, "อัปโหลดหลักฐานการชำระเงินไม่สำเร็จ")
	}

	userID, _ := c.Locals("userID").(uint)

	alumni, err := h.alumniService.AttachPaymentProof(c.Context(), uint(id), url, userID)
	if err != nil {
		if errors.Is(err, domain.ErrAlumniNotFound) {
			return response.NotFound(c, "ไม่พบข้อมูลสมาชิก")
		}
		return response.InternalServerError(c, "บันทึกหลักฐานการชำระเงินไม่สำเร็จ")
	}

	return response.Success(c, "แนบหลักฐานการชำระเงินสำเร็จ", fiber.Map{
		"alumni": alumni.ToResponse(),
	})
}

// Delete soft-deletes one registration (admin only)
func (h *AlumniHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid alumni ID")
	}

	if err := h.alumniService.Delete(c.Context(), uint(id)); err != nil {
		if errors.Is(err, domain.ErrAlumniNotFound) {
			return response.NotFound(c, "ไม่พบข้อมูลสมาชิก")
		}
		return response.InternalServerError(c, "Failed to delete alumni")
	}

	return response.Success(c, "ลบข้อมูลสมาชิกสำเร็จ", nil)
}
