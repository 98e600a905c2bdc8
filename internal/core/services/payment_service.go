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

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PaymentService handles payment records. The alumni status stays the
// authoritative lifecycle; payments are the audit trail behind it.
type PaymentService struct {
	paymentRepo   repositories.PaymentRepository
	alumniRepo    repositories.AlumniRepository
	alumniService *AlumniService
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	paymentRepo repositories.PaymentRepository,
	alumniRepo repositories.AlumniRepository,
	alumniService *AlumniService,
) *PaymentService {
	return &PaymentService{
		paymentRepo:   paymentRepo,
		alumniRepo:    alumniRepo,
		alumniService: alumniService,
	}
}

// newReference generates a payment reference like PAY-3F2A9B1C
func newReference() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
	return "PAY-" + id[:8]
}

// SubmitInput represents a payment submission
type SubmitInput struct {
	AlumniID uint    `json:"alumni_id" validate:"required"`
	Amount   float64 `json:"amount" validate:"required,gt=0"`
	Method   string  `json:"method" validate:"required,oneof=bank_transfer in_person"`
	ProofURL string  `json:"proof_url,omitempty"`
	Notes    string  `json:"notes,omitempty"`
}

// Submit records a payment against a registration. If the registration was
// waiting for payment it moves into review.
func (s *PaymentService) Submit(ctx context.Context, input *SubmitInput, actorID uint) (*models.Payment, error) {
	alumni, err := s.alumniRepo.GetByID(ctx, input.AlumniID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAlumniNotFound
		}
		return nil, err
	}

	payment := &models.Payment{
		AlumniID:  alumni.ID,
		Reference: newReference(),
		Amount:    input.Amount,
		Method:    input.Method,
		Status:    models.PaymentStatusPending,
		ProofURL:  input.ProofURL,
		Notes:     input.Notes,
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	if input.ProofURL != "" || alumni.Status == string(domain.StatusAwaitingPayment) {
		if _, err := s.alumniService.AttachPaymentProof(ctx, alumni.ID, input.ProofURL, actorID); err != nil {
			return nil, err
		}
	}

	log.Printf("💰 Payment submitted: %s (alumni %d, %.2f)", payment.Reference, alumni.ID, payment.Amount)
	return payment, nil
}

// VerifyInput represents a payment verification decision
type VerifyInput struct {
	Approve bool   `json:"approve"`
	Notes   string `json:"notes,omitempty"`
}

// Verify marks a payment verified or rejected
func (s *PaymentService) Verify(ctx context.Context, id uint, input *VerifyInput, actorID uint) (*models.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, err
	}

	now := time.Now()
	if input.Approve {
		payment.Status = models.PaymentStatusVerified
	} else {
		payment.Status = models.PaymentStatusRejected
	}
	payment.VerifiedBy = &actorID
	payment.VerifiedAt = &now
	if input.Notes != "" {
		payment.Notes = input.Notes
	}

	if err := s.paymentRepo.Update(ctx, payment); err != nil {
		return nil, err
	}

	log.Printf("💰 Payment %s: %s (by user %d)", payment.Reference, payment.Status, actorID)
	return payment, nil
}

// GetByReference looks up a payment by its public reference
func (s *PaymentService) GetByReference(ctx context.Context, reference string) (*models.Payment, error) {
	payment, err := s.paymentRepo.GetByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, err
	}
	return payment, nil
}

// ListByAlumni lists all payments of one registration
func (s *PaymentService) ListByAlumni(ctx context.Context, alumniID uint) ([]*models.Payment, error) {
	return s.paymentRepo.ListByAlumni(ctx, alumniID)
}
