package repositories

import (
	"context"
	"time"

	"spsc-alumni/internal/adapters/persistence/models"
	"spsc-alumni/internal/core/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAlumniRepository handles alumni data access
type GormAlumniRepository struct {
	db *gorm.DB
}

// NewAlumniRepository creates a new alumni repository
func NewAlumniRepository(db *gorm.DB) *GormAlumniRepository {
	return &GormAlumniRepository{db: db}
}

// Create creates a new alumni record
func (r *GormAlumniRepository) Create(ctx context.Context, alumni *models.Alumni) error {
	return r.db.WithContext(ctx).Create(alumni).Error
}

// GetByID gets an alumni by ID with relations and history
func (r *GormAlumniRepository) GetByID(ctx context.Context, id uint) (*models.Alumni, error) {
	var alumni models.Alumni
	err := r.db.WithContext(ctx).
		Preload("Shipper").
		Preload("StatusHistory", historyOrder).
		Preload("PositionHistory", historyOrder).
		Preload("ShippingHistory", historyOrder).
		First(&alumni, id).Error
	if err != nil {
		return nil, err
	}
	return &alumni, nil
}

func historyOrder(db *gorm.DB) *gorm.DB {
	return db.Order("updated_at ASC, id ASC")
}

// GetByIDCard gets an alumni by national ID card number
func (r *GormAlumniRepository) GetByIDCard(ctx context.Context, idCard string) (*models.Alumni, error) {
	var alumni models.Alumni
	err := r.db.WithContext(ctx).Where("id_card = ?", idCard).First(&alumni).Error
	if err != nil {
		return nil, err
	}
	return &alumni, nil
}

// GetByTrackingNumber gets an alumni by shipment tracking number
func (r *GormAlumniRepository) GetByTrackingNumber(ctx context.Context, trackingNumber string) (*models.Alumni, error) {
	var alumni models.Alumni
	err := r.db.WithContext(ctx).
		Preload("ShippingHistory", historyOrder).
		Where("tracking_number = ?", trackingNumber).
		First(&alumni).Error
	if err != nil {
		return nil, err
	}
	return &alumni, nil
}

// ExistsByIDCard checks whether an id card is already registered
func (r *GormAlumniRepository) ExistsByIDCard(ctx context.Context, idCard string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Alumni{}).
		Where("id_card = ?", idCard).Count(&count).Error
	return count > 0, err
}

// List lists alumni with filters and pagination
func (r *GormAlumniRepository) List(ctx context.Context, filter *AlumniFilter) ([]*models.Alumni, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Alumni{})
	query = applyFilter(query, filter)
	return r.paginate(query, filter)
}

// ListShippable lists alumni eligible for shipping operations. The base
// filter status=approved AND delivery_option=mail is always applied.
func (r *GormAlumniRepository) ListShippable(ctx context.Context, filter *AlumniFilter) ([]*models.Alumni, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Alumni{}).
		Where("status = ? AND delivery_option = ?",
			string(domain.StatusApproved), string(domain.DeliveryMail))
	query = applyFilter(query, filter)
	return r.paginate(query, filter)
}

func applyFilter(query *gorm.DB, filter *AlumniFilter) *gorm.DB {
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Position != "" {
		query = query.Where("position = ?", filter.Position)
	}
	if filter.ShippingStatus != "" {
		query = query.Where("shipping_status = ?", filter.ShippingStatus)
	}
	if filter.Department != "" {
		query = query.Where("department = ?", filter.Department)
	}
	if filter.GraduationYear > 0 {
		query = query.Where("graduation_year = ?", filter.GraduationYear)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where(
			"first_name LIKE ? OR last_name LIKE ? OR id_card LIKE ? OR tracking_number LIKE ?",
			like, like, like, like)
	}
	return query
}

var sortWhitelist = map[string]string{
	"created_at":      "created_at",
	"updated_at":      "updated_at",
	"graduation_year": "graduation_year",
	"first_name":      "first_name",
	"status":          "status",
}

func (r *GormAlumniRepository) paginate(query *gorm.DB, filter *AlumniFilter) ([]*models.Alumni, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "created_at DESC"
	if col, ok := sortWhitelist[filter.Sort]; ok {
		order = col + " ASC"
	}

	var items []*models.Alumni
	err := query.
		Preload("Shipper").
		Order(order).
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&items).Error
	return items, total, err
}

// Update saves an alumni record (BeforeSave recomputes the money fields)
func (r *GormAlumniRepository) Update(ctx context.Context, alumni *models.Alumni) error {
	return r.db.WithContext(ctx).Save(alumni).Error
}

// Delete soft deletes an alumni record
func (r *GormAlumniRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Alumni{}, id).Error
}

// ChangePosition assigns a slot-restricted position inside one transaction.
// Current holders of the target position are locked FOR UPDATE before the
// count, which serializes concurrent assignments to the same slot.
func (r *GormAlumniRepository) ChangePosition(ctx context.Context, alumni *models.Alumni, maxHolders int, entry *models.PositionHistoryEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if maxHolders > 0 {
			var holders []models.Alumni
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Select("id").
				Where("position = ? AND id <> ?", entry.Value, alumni.ID).
				Find(&holders).Error
			if err != nil {
				return err
			}
			if len(holders) >= maxHolders {
				return domain.ErrPositionSlotFull
			}
		}
		if err := tx.Save(alumni).Error; err != nil {
			return err
		}
		return tx.Create(entry).Error
	})
}

// ChangeStatus saves the record and its status audit entry in one transaction
func (r *GormAlumniRepository) ChangeStatus(ctx context.Context, alumni *models.Alumni, entry *models.StatusHistoryEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(alumni).Error; err != nil {
			return err
		}
		return tx.Create(entry).Error
	})
}

// ChangeShipping saves the record and its shipping audit entry in one transaction
func (r *GormAlumniRepository) ChangeShipping(ctx context.Context, alumni *models.Alumni, entry *models.ShippingHistoryEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(alumni).Error; err != nil {
			return err
		}
		return tx.Create(entry).Error
	})
}

// CountByShippingStatus counts shippable records in one pipeline state
func (r *GormAlumniRepository) CountByShippingStatus(ctx context.Context, shippingStatus string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Alumni{}).
		Where("status = ? AND delivery_option = ? AND shipping_status = ?",
			string(domain.StatusApproved), string(domain.DeliveryMail), shippingStatus).
		Count(&count).Error
	return count, err
}

// CountPendingSince counts registrations still pending review created before the cutoff
func (r *GormAlumniRepository) CountPendingSince(ctx context.Context, before time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Alumni{}).
		Where("status = ? AND created_at < ?", string(domain.StatusPendingReview), before).
		Count(&count).Error
	return count, err
}
