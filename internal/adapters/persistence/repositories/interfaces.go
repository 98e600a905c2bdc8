package repositories

import (
	"context"
	"time"

	"spsc-alumni/internal/adapters/persistence/models"
)

// AlumniFilter narrows alumni listings. Zero values mean "no filter".
type AlumniFilter struct {
	Status         string
	Position       string
	ShippingStatus string
	Department     string
	GraduationYear int
	Search         string
	Sort           string
	Offset         int
	Limit          int
}

// AlumniRepository defines alumni data access
type AlumniRepository interface {
	Create(ctx context.Context, alumni *models.Alumni) error
	GetByID(ctx context.Context, id uint) (*models.Alumni, error)
	GetByIDCard(ctx context.Context, idCard string) (*models.Alumni, error)
	GetByTrackingNumber(ctx context.Context, trackingNumber string) (*models.Alumni, error)
	ExistsByIDCard(ctx context.Context, idCard string) (bool, error)
	List(ctx context.Context, filter *AlumniFilter) ([]*models.Alumni, int64, error)
	ListShippable(ctx context.Context, filter *AlumniFilter) ([]*models.Alumni, int64, error)
	Update(ctx context.Context, alumni *models.Alumni) error
	Delete(ctx context.Context, id uint) error

	// ChangePosition persists the new position and its history entry only if
	// the slot still has room, counting current holders excluding the record
	// itself. The check and the write run under one lock so two racing
	// assignments cannot both take the last slot. maxHolders 0 skips the check.
	ChangePosition(ctx context.Context, alumni *models.Alumni, maxHolders int, entry *models.PositionHistoryEntry) error

	// ChangeStatus and ChangeShipping persist the record and its audit entry
	// in one transaction, so a failed history write rolls the change back.
	ChangeStatus(ctx context.Context, alumni *models.Alumni, entry *models.StatusHistoryEntry) error
	ChangeShipping(ctx context.Context, alumni *models.Alumni, entry *models.ShippingHistoryEntry) error

	CountByShippingStatus(ctx context.Context, shippingStatus string) (int64, error)
	CountPendingSince(ctx context.Context, before time.Time) (int64, error)
}

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	CountByRole(ctx context.Context, role string) (int64, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) error
}

// PaymentRepository defines payment repository interface
type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	GetByID(ctx context.Context, id uint) (*models.Payment, error)
	GetByReference(ctx context.Context, reference string) (*models.Payment, error)
	ListByAlumni(ctx context.Context, alumniID uint) ([]*models.Payment, error)
	Update(ctx context.Context, payment *models.Payment) error
}

// NotificationRepository defines notification inbox data access
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	GetByID(ctx context.Context, id string) (*models.Notification, error)
	ListForUser(ctx context.Context, userID uint, offset, limit int) ([]*models.Notification, int64, error)
	ListUnreadForUser(ctx context.Context, userID uint) ([]*models.Notification, error)
	AppendReadReceipt(ctx context.Context, id string, receipt models.ReadReceipt) error
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
