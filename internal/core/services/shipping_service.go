package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"spsc-alumni/internal/adapters/persistence/models"
	"spsc-alumni/internal/adapters/persistence/repositories"
	"spsc-alumni/internal/core/domain"

	"gorm.io/gorm"
)

// ShippingService handles the document delivery pipeline
type ShippingService struct {
	alumniRepo    repositories.AlumniRepository
	notifyService *NotificationService
	emailService  *EmailService
}

// NewShippingService creates a new shipping service
func NewShippingService(
	alumniRepo repositories.AlumniRepository,
	notifyService *NotificationService,
	emailService *EmailService,
) *ShippingService {
	return &ShippingService{
		alumniRepo:    alumniRepo,
		notifyService: notifyService,
		emailService:  emailService,
	}
}

// ListShippable returns approved mail-delivery registrants. Without an
// explicit shipping status filter it shows the work queue: awaiting_shipment.
func (s *ShippingService) ListShippable(ctx context.Context, filter *repositories.AlumniFilter) ([]*models.Alumni, int64, error) {
	if filter.ShippingStatus == "" {
		filter.ShippingStatus = string(domain.ShippingAwaitingShipment)
	} else if filter.ShippingStatus == "all" {
		filter.ShippingStatus = ""
	}
	return s.alumniRepo.ListShippable(ctx, filter)
}

// ShippingChangeInput represents one shipping status change. ShippedDate
// overrides the stamp for shipments recorded after the fact.
type ShippingChangeInput struct {
	Status         string     `json:"shipping_status" validate:"required"`
	TrackingNumber string     `json:"tracking_number,omitempty"`
	ShippedDate    *time.Time `json:"shipped_date,omitempty"`
	Notes          string     `json:"notes,omitempty"`
}

// checkTransition validates the preconditions for moving one record to the
// target shipping state. The order is fixed: unknown status, then approval,
// then delivery option, then tracking number.
func checkTransition(alumni *models.Alumni, input *ShippingChangeInput) error {
	if !domain.ValidShippingStatus(input.Status) {
		return domain.ErrInvalidShipStatus
	}
	if alumni.Status != string(domain.StatusApproved) {
		return domain.ErrNotApproved
	}
	if alumni.DeliveryOption != string(domain.DeliveryMail) {
		return domain.ErrNotMailDelivery
	}
	target := domain.ShippingStatus(input.Status)
	if target.RequiresTracking() &&
		strings.TrimSpace(input.TrackingNumber) == "" &&
		strings.TrimSpace(alumni.TrackingNumber) == "" {
		return domain.ErrMissingTracking
	}
	return nil
}

// ApplyShippingChange moves one record through the delivery pipeline and
// appends a shipping history entry.
func (s *ShippingService) ApplyShippingChange(ctx context.Context, id uint, input *ShippingChangeInput, actorID uint) (*models.Alumni, error) {
	alumni, err := s.alumniRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAlumniNotFound
		}
		return nil, err
	}

	if err := checkTransition(alumni, input); err != nil {
		return nil, err
	}

	previous := alumni.ShippingStatus
	alumni.ShippingStatus = input.Status
	if tn := strings.TrimSpace(input.TrackingNumber); tn != "" {
		alumni.TrackingNumber = tn
	}

	// Entering in_transit or delivered stamps the shipment: a caller-supplied
	// date wins, otherwise the first stamp sticks
	if domain.ShippingStatus(input.Status).RequiresTracking() {
		switch {
		case input.ShippedDate != nil:
			alumni.ShippedDate = input.ShippedDate
		case alumni.ShippedDate == nil:
			now := time.Now()
			alumni.ShippedDate = &now
		}
		alumni.ShippedBy = &actorID
	}

	entry := &models.ShippingHistoryEntry{
		AlumniID:  alumni.ID,
		Value:     input.Status,
		Notes:     input.Notes,
		UpdatedBy: actorRef(actorID),
	}
	if err := s.alumniRepo.ChangeShipping(ctx, alumni, entry); err != nil {
		return nil, err
	}

	if previous != input.Status {
		if s.notifyService != nil {
			s.notifyService.NotifyShippingChange(alumni, domain.ShippingStatus(input.Status))
		}
		if input.Status == string(domain.ShippingInTransit) && s.emailService != nil {
			s.emailService.SendShipped(alumni)
		}
	}

	log.Printf("📦 Alumni %d shipping: %s -> %s (by user %d)", alumni.ID, previous, input.Status, actorID)
	return alumni, nil
}

// BulkShippingItem is one record in a bulk shipping request
type BulkShippingItem struct {
	AlumniID       uint   `json:"alumni_id" validate:"required"`
	TrackingNumber string `json:"tracking_number,omitempty"`
}

// BulkShippingInput represents a bulk shipping request: one target status
// applied to many records, each with its own tracking number.
type BulkShippingInput struct {
	Status string             `json:"shipping_status" validate:"required"`
	Notes  string             `json:"notes,omitempty"`
	Items  []BulkShippingItem `json:"items" validate:"required,min=1"`
}

// BulkFailure describes one record that could not be updated
type BulkFailure struct {
	AlumniID uint   `json:"alumni_id"`
	Reason   string `json:"reason"`
}

// BulkShippingResult summarizes a bulk shipping run
type BulkShippingResult struct {
	Updated []*models.Alumni `json:"updated"`
	Failed  []BulkFailure    `json:"failed"`
}

// BulkApplyShipping applies one shipping transition to many records. A
// precheck validates every item first; if any item fails, nothing is written
// and the precheck failures come back with ErrBulkPrecheckFailed. Once the
// precheck passes, items are applied one by one and late failures are
// captured per item without aborting the rest.
func (s *ShippingService) BulkApplyShipping(ctx context.Context, input *BulkShippingInput, actorID uint) (*BulkShippingResult, error) {
	if !domain.ValidShippingStatus(input.Status) {
		return nil, domain.ErrInvalidShipStatus
	}

	result := &BulkShippingResult{
		Updated: []*models.Alumni{},
		Failed:  []BulkFailure{},
	}

	// Precheck every item before touching anything
	for _, item := range input.Items {
		change := &ShippingChangeInput{
			Status:         input.Status,
			TrackingNumber: item.TrackingNumber,
		}

		alumni, err := s.alumniRepo.GetByID(ctx, item.AlumniID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				err = domain.ErrAlumniNotFound
			}
			result.Failed = append(result.Failed, BulkFailure{AlumniID: item.AlumniID, Reason: err.Error()})
			continue
		}

		if err := checkTransition(alumni, change); err != nil {
			result.Failed = append(result.Failed, BulkFailure{AlumniID: item.AlumniID, Reason: err.Error()})
		}
	}

	if len(result.Failed) > 0 {
		return result, domain.ErrBulkPrecheckFailed
	}

	// Apply; records can still change between precheck and apply, so late
	// failures are captured per item
	for _, item := range input.Items {
		change := &ShippingChangeInput{
			Status:         input.Status,
			TrackingNumber: item.TrackingNumber,
			Notes:          input.Notes,
		}
		alumni, err := s.ApplyShippingChange(ctx, item.AlumniID, change, actorID)
		if err != nil {
			result.Failed = append(result.Failed, BulkFailure{AlumniID: item.AlumniID, Reason: err.Error()})
			continue
		}
		result.Updated = append(result.Updated, alumni)
	}

	log.Printf("📦 Bulk shipping -> %s: %d updated, %d failed (by user %d)",
		input.Status, len(result.Updated), len(result.Failed), actorID)
	return result, nil
}

// TrackByNumber is the public shipment lookup by tracking number
func (s *ShippingService) TrackByNumber(ctx context.Context, trackingNumber string) (*models.Alumni, error) {
	alumni, err := s.alumniRepo.GetByTrackingNumber(ctx, trackingNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAlumniNotFound
		}
		return nil, err
	}
	return alumni, nil
}

// ShippingStats summarizes the delivery pipeline
type ShippingStats struct {
	AwaitingShipment int64 `json:"awaiting_shipment"`
	InTransit        int64 `json:"in_transit"`
	Delivered        int64 `json:"delivered"`
	Total            int64 `json:"total"`
}

// Statistics returns pipeline counts over approved mail-delivery registrants
func (s *ShippingService) Statistics(ctx context.Context) (*ShippingStats, error) {
	stats := &ShippingStats{}

	var err error
	if stats.AwaitingShipment, err = s.alumniRepo.CountByShippingStatus(ctx, string(domain.ShippingAwaitingShipment)); err != nil {
		return nil, err
	}
	if stats.InTransit, err = s.alumniRepo.CountByShippingStatus(ctx, string(domain.ShippingInTransit)); err != nil {
		return nil, err
	}
	if stats.Delivered, err = s.alumniRepo.CountByShippingStatus(ctx, string(domain.ShippingDelivered)); err != nil {
		return nil, err
	}
	stats.Total = stats.AwaitingShipment + stats.InTransit + stats.Delivered

	return stats, nil
}
