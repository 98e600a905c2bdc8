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

// UserHandler handles operator account endpoints (admin only)
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Create creates a new operator account
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var input services.CreateUserInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.ValidateStruct(&input); err != nil {
		return response.BadRequest(c, validation.FormatErrors(err))
	}

	user, err := h.userService.Create(c.Context(), &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserAlreadyExists):
			return response.Conflict(c, "ชื่อผู้ใช้หรืออีเมลนี้ถูกใช้งานแล้ว")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "บทบาทไม่ถูกต้อง")
		default:
			return response.InternalServerError(c, "Failed to create user")
		}
	}

	return response.Created(c, "สร้างบัญชีผู้ใช้สำเร็จ", fiber.Map{
		"user": user.ToResponse(),
	})
}

// List lists operator accounts
func (h *UserHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	users, total, err := h.userService.List(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list users")
	}

	resp := make([]*models.UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, u.ToResponse())
	}

	return response.Success(c, "Users retrieved successfully",
		pagination.NewResponse(resp, params, total))
}

// Get returns one operator account
func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid user ID")
	}

	user, err := h.userService.GetByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return response.NotFound(c, "ไม่พบผู้ใช้")
		}
		return response.InternalServerError(c, "Failed to get user")
	}

	return response.Success(c, "User retrieved successfully", fiber.Map{
		"user": user.ToResponse(),
	})
}

// Update updates profile fields of an account
func (h *UserHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid user ID")
	}

	var input services.UpdateUserInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.ValidateStruct(&input); err != nil {
		return response.BadRequest(c, validation.FormatErrors(err))
	}

	user, err := h.userService.Update(c.Context(), uint(id), &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return response.NotFound(c, "ไม่พบผู้ใช้")
		case errors.Is(err, domain.ErrUserAlreadyExists):
			return response.Conflict(c, "อีเมลนี้ถูกใช้งานแล้ว")
		default:
			return response.InternalServerError(c, "Failed to update user")
		}
	}

	return response.Success(c, "อัปเดตผู้ใช้สำเร็จ", fiber.Map{
		"user": user.ToResponse(),
	})
}

// ChangeRoleRequest represents a role change request
type ChangeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin staff"`
}

// ChangeRole changes an account's role
func (h *UserHandler) ChangeRole(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid user ID")
	}

	var req ChangeRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.ValidateStruct(&req); err != nil {
		return response.BadRequest(c, validation.FormatErrors(err))
	}

	// An admin cannot demote themselves and lock the system
	if callerID, _ := c.Locals("userID").(uint); callerID == uint(id) {
		return response.BadRequest(c, "ไม่สามารถเปลี่ยนบทบาทของตนเองได้")
	}

	user, err := h.userService.ChangeRole(c.Context(), uint(id), req.Role)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return response.NotFound(c, "ไม่พบผู้ใช้")
		}
		return response.InternalServerError(c, "Failed to change role")
	}

	return response.Success(c, "เปลี่ยนบทบาทสำเร็จ", fiber.Map{
		"user": user.ToResponse(),
	})
}

// SetActiveRequest represents an activate/deactivate request
type SetActiveRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

// SetActive activates or deactivates an account
func (h *UserHandler) SetActive(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid user ID")
	}

	var req SetActiveRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.IsActive == nil {
		return response.BadRequest(c, "กรุณาระบุสถานะการใช้งาน")
	}

	if callerID, _ := c.Locals("userID").(uint); callerID == uint(id) && !*req.IsActive {
		return response.BadRequest(c, "ไม่สามารถระงับบัญชีของตนเองได้")
	}

	user, err := h.userService.SetActive(c.Context(), uint(id), *req.IsActive)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return response.NotFound(c, "ไม่พบผู้ใช้")
		}
		return response.InternalServerError(c, "Failed to update user")
	}

	return response.Success(c, "อัปเดตสถานะผู้ใช้สำเร็จ", fiber.Map{
		"user": user.ToResponse(),
	})
}

// ChangePassword changes the caller's own password
func (h *UserHandler) ChangePassword(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.ChangePasswordInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.ValidateStruct(&input); err != nil {
		return response.BadRequest(c, validation.FormatErrors(err))
	}

	if err := h.userService.ChangePassword(c.Context(), userID, &input); err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			return response.BadRequest(c, "รหัสผ่านปัจจุบันไม่ถูกต้อง")
		case errors.Is(err, domain.ErrUserNotFound):
			return response.NotFound(c, "ไม่พบผู้ใช้")
		default:
			return response.InternalServerError(c, "Failed to change password")
		}
	}

	return response.Success(c, "เปลี่ยนรหัสผ่านสำเร็จ กรุณาเข้าสู่ระบบใหม่", nil)
}

// Delete soft-deletes an account
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid user ID")
	}

	if callerID, _ := c.Locals("userID").(uint); callerID == uint(id) {
		return response.BadRequest(c, "ไม่สามารถลบบัญชีของตนเองได้")
	}

	if err := h.userService.Delete(c.Context(), uint(id)); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return response.NotFound(c, "ไม่พบผู้ใช้")
		}
		return response.InternalServerError(c, "Failed to delete user")
	}

	return response.Success(c, "ลบผู้ใช้สำเร็จ", nil)
}
