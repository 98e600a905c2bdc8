package handlers

import (
	"errors"
	"strconv"
	"strings"

	"spsc-alumni/internal/adapters/persistence/models"
	"spsc-alumni/internal/core/domain"
	"spsc-alumni/internal/core/services"
	"spsc-alumni/internal/pkg/pagination"
	"spsc-alumni/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// paginationAll asks for the largest page a print batch can hold
func paginationAll() *pagination.Params {
	return pagination.New(1, pagination.MaxLimit)
}

// LabelHandler serves printable HTML shipping labels
type LabelHandler struct {
	labelService    *services.LabelService
	alumniService   *services.AlumniService
	shippingService *services.ShippingService
}

// NewLabelHandler creates a new label handler
func NewLabelHandler(
	labelService *services.LabelService,
	alumniService *services.AlumniService,
	shippingService *services.ShippingService,
) *LabelHandler {
	return &LabelHandler{
		labelService:    labelService,
		alumniService:   alumniService,
		shippingService: shippingService,
	}
}

// Single renders one label: GET /shipping/labels/:id
func (h *LabelHandler) Single(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid alumni ID")
	}

	alumni, err := h.alumniService.GetByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrAlumniNotFound) {
			return response.NotFound(c, "ไม่พบข้อมูลสมาชิก")
		}
		return response.InternalServerError(c, "Failed to render label")
	}

	html, err := h.labelService.RenderLabel(alumni)
	if err != nil {
		return response.InternalServerError(c, "Failed to render label")
	}
	return response.HTML(c, html)
}

// parseIDs reads ?ids=1,2,3 into a uint slice
func parseIDs(raw string) []uint {
	ids := []uint{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseUint(part, 10, 32)
		if err != nil || id == 0 {
			continue
		}
		ids = append(ids, uint(id))
	}
	return ids
}

func (h *LabelHandler) loadMany(c *fiber.Ctx, ids []uint) ([]*models.Alumni, error) {
	items := make([]*models.Alumni, 0, len(ids))
	for _, id := range ids {
		alumni, err := h.alumniService.GetByID(c.Context(), id)
		if err != nil {
			return nil, err
		}
		items = append(items, alumni)
	}
	return items, nil
}

// FourUp renders a sheet of four labels: GET /shipping/labels/sheet?ids=1,2,3,4
// Fewer IDs leave empty placeholder slots on the sheet.
func (h *LabelHandler) FourUp(c *fiber.Ctx) error {
	ids := parseIDs(c.Query("ids"))
	if len(ids) == 0 {
		return response.BadRequest(c, "กรุณาระบุรายการที่ต้องการพิมพ์")
	}

	items, err := h.loadMany(c, ids)
	if err != nil {
		if errors.Is(err, domain.ErrAlumniNotFound) {
			return response.NotFound(c, "ไม่พบข้อมูลสมาชิกบางรายการ")
		}
		return response.InternalServerError(c, "Failed to render labels")
	}

	html, err := h.labelService.Render4Up(items)
	if err != nil {
		return response.InternalServerError(c, "Failed to render labels")
	}
	return response.HTML(c, html)
}

// Bulk renders one label per record: GET /shipping/labels/bulk?ids=...
// Without ids it prints the whole awaiting_shipment queue.
func (h *LabelHandler) Bulk(c *fiber.Ctx) error {
	items, err := h.resolveBatch(c)
	if err != nil {
		return batchErrorResponse(c, err)
	}

	html, err := h.labelService.RenderBulk(items)
	if err != nil {
		return response.InternalServerError(c, "Failed to render labels")
	}
	return response.HTML(c, html)
}

// Summary renders a printable batch table: GET /shipping/labels/summary?ids=...
func (h *LabelHandler) Summary(c *fiber.Ctx) error {
	items, err := h.resolveBatch(c)
	if err != nil {
		return batchErrorResponse(c, err)
	}

	html, err := h.labelService.RenderSummary(items)
	if err != nil {
		return response.InternalServerError(c, "Failed to render summary")
	}
	return response.HTML(c, html)
}

var errEmptyBatch = errors.New("empty print batch")

func batchErrorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, errEmptyBatch):
		return response.BadRequest(c, "กรุณาระบุรายการที่ต้องการพิมพ์")
	case errors.Is(err, domain.ErrAlumniNotFound):
		return response.NotFound(c, "ไม่พบข้อมูลสมาชิกบางรายการ")
	default:
		return response.InternalServerError(c, "Failed to render labels")
	}
}

func (h *LabelHandler) resolveBatch(c *fiber.Ctx) ([]*models.Alumni, error) {
	if raw := c.Query("ids"); raw != "" {
		ids := parseIDs(raw)
		if len(ids) == 0 {
			return nil, errEmptyBatch
		}
		return h.loadMany(c, ids)
	}

	// No explicit IDs: print the whole work queue
	filter := parseAlumniFilter(c, paginationAll())
	items, _, err := h.shippingService.ListShippable(c.Context(), filter)
	if err != nil {
		return nil, err
	}
	return items, nil
}
