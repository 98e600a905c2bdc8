package handlers

import (
	"errors"

	"spsc-alumni/internal/core/domain"
	"spsc-alumni/internal/core/services"
	"spsc-alumni/internal/pkg/pagination"
	"spsc-alumni/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// NotificationHandler handles the operator notification inbox
type NotificationHandler struct {
	notifyService *services.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notifyService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifyService: notifyService}
}

// List returns the caller's inbox, newest first
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	params := pagination.GetParams(c)

	items, total, err := h.notifyService.ListForUser(c.Context(), userID, params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list notifications")
	}

	return response.Success(c, "Notifications retrieved successfully",
		pagination.NewResponse(items, params, total))
}

// UnreadCount returns how many notifications the caller has not read
func (h *NotificationHandler) UnreadCount(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	count, err := h.notifyService.CountUnread(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to count notifications")
	}

	return response.Success(c, "Unread count retrieved successfully", fiber.Map{
		"unread": count,
	})
}

// MarkRead marks one notification read for the caller. Idempotent.
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id := c.Params("id")

	if err := h.notifyService.MarkRead(c.Context(), id, userID); err != nil {
		if errors.Is(err, domain.ErrNotificationNotFound) {
			return response.NotFound(c, "ไม่พบการแจ้งเตือน")
		}
		return response.InternalServerError(c, "Failed to mark notification read")
	}

	return response.Success(c, "อ่านการแจ้งเตือนแล้ว", nil)
}

// MarkAllRead marks every unread notification read and reports the count
// of newly read items. Calling twice in a row reports 0 the second time.
func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	count, err := h.notifyService.MarkAllRead(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to mark notifications read")
	}

	return response.Success(c, "อ่านการแจ้งเตือนทั้งหมดแล้ว", fiber.Map{
		"marked_read": count,
	})
}

// Delete removes one notification (admin only)
func (h *NotificationHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")

	if err := h.notifyService.Delete(c.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotificationNotFound) {
			return response.NotFound(c, "ไม่พบการแจ้งเตือน")
		}
		return response.InternalServerError(c, "Failed to delete notification")
	}

	return response.Success(c, "ลบการแจ้งเตือนสำเร็จ", nil)
}
