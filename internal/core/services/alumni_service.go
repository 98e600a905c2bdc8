package services

import (
	"context"
	"errors"
	"log"

	"spsc-alumni/internal/adapters/persistence/models"
	"spsc-alumni/internal/adapters/persistence/repositories"
	"spsc-alumni/internal/core/domain"

	"gorm.io/gorm"
)

// AlumniService handles registration and lifecycle business logic
type AlumniService struct {
	alumniRepo    repositories.AlumniRepository
	notifyService *NotificationService
	emailService  *EmailService
}

// NewAlumniService creates a new alumni service
func NewAlumniService(
	alumniRepo repositories.AlumniRepository,
	notifyService *NotificationService,
	emailService *EmailService,
) *AlumniService {
	return &AlumniService{
		alumniRepo:    alumniRepo,
		notifyService: notifyService,
		emailService:  emailService,
	}
}

// RegisterInput represents the public registration form
type RegisterInput struct {
	Title          string  `json:"title" validate:"max=20"`
	FirstName      string  `json:"first_name" validate:"required,max=100"`
	LastName       string  `json:"last_name" validate:"required,max=100"`
	IDCard         string  `json:"id_card" validate:"required,len=13,numeric"`
	Address        string  `json:"address" validate:"required"`
	Phone          string  `json:"phone" validate:"required,max=20"`
	Email          string  `json:"email" validate:"omitempty,email"`
	Department     string  `json:"department" validate:"max=100"`
	GraduationYear int     `json:"graduation_year" validate:"omitempty,gt=2400"`
	PaymentMethod  string  `json:"payment_method" validate:"required,oneof=bank_transfer in_person"`
	Amount         float64 `json:"amount" validate:"required,gt=0"`
	ShippingFee    float64 `json:"shipping_fee" validate:"gte=0"`
	DeliveryOption string  `json:"delivery_option" validate:"required,oneof=pickup mail"`

	ProfileImageURL string `json:"-"`
	PaymentProofURL string `json:"-"`
}

// Register creates a new alumni registration. The initial status, shipping
// status and money totals are derived from the chosen payment method and
// delivery option.
func (s *AlumniService) Register(ctx context.Context, input *RegisterInput) (*models.Alumni, error) {
	if !domain.ValidPaymentMethod(input.PaymentMethod) {
		return nil, domain.ErrInvalidPayMethod
	}
	if !domain.ValidDeliveryOption(input.DeliveryOption) {
		return nil, domain.ErrInvalidDelivery
	}

	exists, err := s.alumniRepo.ExistsByIDCard(ctx, input.IDCard)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateIDCard
	}

	alumni := &models.Alumni{
		Title:           input.Title,
		FirstName:       input.FirstName,
		LastName:        input.LastName,
		IDCard:          input.IDCard,
		Address:         input.Address,
		Phone:           input.Phone,
		Email:           input.Email,
		Department:      input.Department,
		GraduationYear:  input.GraduationYear,
		PaymentMethod:   input.PaymentMethod,
		Amount:          input.Amount,
		ShippingFee:     input.ShippingFee,
		DeliveryOption:  input.DeliveryOption,
		ProfileImageURL: input.ProfileImageURL,
		PaymentProofURL: input.PaymentProofURL,
	}

	if err := s.alumniRepo.Create(ctx, alumni); err != nil {
		return nil, err
	}

	if s.notifyService != nil {
		s.notifyService.NotifyNewRegistration(alumni)
	}
	if s.emailService != nil {
		s.emailService.SendRegistrationReceived(alumni)
	}

	log.Printf("✅ Alumni registered: %s (ID: %d, status: %s)", alumni.FullName(), alumni.ID, alumni.Status)
	return alumni, nil
}

// GetByID gets an alumni with full history
func (s *AlumniService) GetByID(ctx context.Context, id uint) (*models.Alumni, error) {
	alumni, err := s.alumniRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAlumniNotFound
		}
		return nil, err
	}
	return alumni, nil
}

// CheckStatus is the public status lookup by national ID card number
func (s *AlumniService) CheckStatus(ctx context.Context, idCard string) (*models.Alumni, error) {
	alumni, err := s.alumniRepo.GetByIDCard(ctx, idCard)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAlumniNotFound
		}
		return nil, err
	}
	return alumni, nil
}

// List returns a filtered page of alumni
func (s *AlumniService) List(ctx context.Context, filter *repositories.AlumniFilter) ([]*models.Alumni, int64, error) {
	return s.alumniRepo.List(ctx, filter)
}

// actorRef converts an operator id to an audit reference. Self-service
// actions carry no operator and audit as NULL.
func actorRef(id uint) *uint {
	if id == 0 {
		return nil
	}
	return &id
}

// StatusChangeInput represents a status change request
type StatusChangeInput struct {
	Status string `json:"status" validate:"required"`
	Notes  string `json:"notes,omitempty"`
}

// ApplyStatusChange moves a registration to a new approval status and appends
// a history entry. Re-applying the current status still records the audit row.
func (s *AlumniService) ApplyStatusChange(ctx context.Context, id uint, input *StatusChangeInput, actorID uint) (*models.Alumni, error) {
	if !domain.ValidStatus(input.Status) {
		return nil, domain.ErrInvalidStatus
	}

	alumni, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := alumni.Status
	alumni.Status = input.Status

	// Approval opens the shipping pipeline for mail registrants
	if input.Status == string(domain.StatusApproved) &&
		alumni.DeliveryOption == string(domain.DeliveryMail) &&
		alumni.ShippingStatus == string(domain.ShippingNotApplicable) {
		alumni.ShippingStatus = string(domain.ShippingAwaitingShipment)
	}

	entry := &models.StatusHistoryEntry{
		AlumniID:  alumni.ID,
		Value:     input.Status,
		Notes:     input.Notes,
		UpdatedBy: actorRef(actorID),
	}
	if err := s.alumniRepo.ChangeStatus(ctx, alumni, entry); err != nil {
		return nil, err
	}

	if previous != input.Status {
		if s.notifyService != nil {
			s.notifyService.NotifyStatusChange(alumni, domain.Status(input.Status))
		}
		if s.emailService != nil {
			s.emailService.SendStatusChanged(alumni, domain.Status(input.Status), input.Notes)
		}
	}

	log.Printf("📋 Alumni %d status: %s -> %s (by user %d)", alumni.ID, previous, input.Status, actorID)
	return alumni, nil
}

// PositionChangeInput represents a position assignment request
type PositionChangeInput struct {
	Position string `json:"position" validate:"required"`
	Notes    string `json:"notes,omitempty"`
}

// ApplyPositionChange assigns an organizational position. Capacity-limited
// positions count current holders excluding the record itself, so re-assigning
// someone their own position always succeeds.
func (s *AlumniService) ApplyPositionChange(ctx context.Context, id uint, input *PositionChangeInput, actorID uint) (*models.Alumni, error) {
	if !domain.ValidPosition(input.Position) {
		return nil, domain.ErrInvalidPosition
	}

	alumni, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	position := domain.Position(input.Position)
	previous := alumni.Position
	alumni.Position = input.Position

	entry := &models.PositionHistoryEntry{
		AlumniID:  alumni.ID,
		Value:     input.Position,
		Notes:     input.Notes,
		UpdatedBy: actorRef(actorID),
	}

	// Slot check and write happen under one lock in the repository
	if err := s.alumniRepo.ChangePosition(ctx, alumni, position.MaxHolders(), entry); err != nil {
		if errors.Is(err, domain.ErrPositionSlotFull) {
			return nil, domain.ErrPositionSlotFull
		}
		return nil, err
	}

	if previous != input.Position && s.notifyService != nil {
		s.notifyService.NotifyPositionChange(alumni, position)
	}

	log.Printf("🏷️ Alumni %d position: %s -> %s (by user %d)", alumni.ID, previous, input.Position, actorID)
	return alumni, nil
}

// AttachPaymentProof stores the slip URL and moves a walk-in registration
// into review. Called after the proof image is uploaded.
func (s *AlumniService) AttachPaymentProof(ctx context.Context, id uint, proofURL string, actorID uint) (*models.Alumni, error) {
	alumni, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	alumni.PaymentProofURL = proofURL
	if alumni.Status == string(domain.StatusAwaitingPayment) {
		alumni.Status = string(domain.StatusPendingReview)

		entry := &models.StatusHistoryEntry{
			AlumniID:  alumni.ID,
			Value:     alumni.Status,
			Notes:     "แนบหลักฐานการชำระเงิน",
			UpdatedBy: actorRef(actorID),
		}
		if err := s.alumniRepo.ChangeStatus(ctx, alumni, entry); err != nil {
			return nil, err
		}
	} else if err := s.alumniRepo.Update(ctx, alumni); err != nil {
		return nil, err
	}

	if s.notifyService != nil {
		s.notifyService.NotifyPaymentUploaded(alumni)
	}

	return alumni, nil
}

// Delete soft-deletes a registration
func (s *AlumniService) Delete(ctx context.Context, id uint) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.alumniRepo.Delete(ctx, id)
}
