package repositories

import (
	"context"

	"spsc-alumni/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// GormPaymentRepository handles payment data access
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// Create creates a new payment record
func (r *GormPaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

// GetByID gets a payment by ID
func (r *GormPaymentRepository) GetByID(ctx context.Context, id uint) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).Preload("Alumni").First(&payment, id).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// GetByReference gets a payment by its human-readable reference code
func (r *GormPaymentRepository) GetByReference(ctx context.Context, reference string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).Preload("Alumni").
		Where("reference = ?", reference).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// ListByAlumni lists payments belonging to one alumni record
func (r *GormPaymentRepository) ListByAlumni(ctx context.Context, alumniID uint) ([]*models.Payment, error) {
	var payments []*models.Payment
	err := r.db.WithContext(ctx).
		Where("alumni_id = ?", alumniID).
		Order("created_at DESC").
		Find(&payments).Error
	return payments, err
}

// Update updates a payment record
func (r *GormPaymentRepository) Update(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}
