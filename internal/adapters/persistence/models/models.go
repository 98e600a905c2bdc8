package models

import (
	"time"

	"spsc-alumni/internal/core/domain"

	"gorm.io/gorm"
)

// ============================================================
// Auth & User Tables
// ============================================================

// User represents users table (admin/staff operators)
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email     string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	FullName  string         `gorm:"size:100" json:"full_name"`
	Role      string         `gorm:"size:20;default:'staff'" json:"role"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name,omitempty"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Alumni (root entity)
// ============================================================

// Alumni represents one registrant of the alumni association
type Alumni struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	Title          string `gorm:"size:20" json:"title"`
	FirstName      string `gorm:"size:100;not null" json:"first_name"`
	LastName       string `gorm:"size:100;not null" json:"last_name"`
	IDCard         string `gorm:"uniqueIndex;size:13;not null" json:"id_card"`
	Address        string `gorm:"type:text" json:"address"`
	Phone          string `gorm:"size:20" json:"phone"`
	Email          string `gorm:"size:100" json:"email"`
	Department     string `gorm:"size:100;index" json:"department"`
	GraduationYear int    `gorm:"index" json:"graduation_year"`

	PaymentMethod string  `gorm:"size:20;not null" json:"payment_method"`
	Amount        float64 `gorm:"type:decimal(10,2);not null" json:"amount"`
	ShippingFee   float64 `gorm:"type:decimal(10,2)" json:"shipping_fee"`
	TotalAmount   float64 `gorm:"type:decimal(10,2)" json:"total_amount"`

	DeliveryOption string `gorm:"size:20;not null" json:"delivery_option"`

	Status   string `gorm:"size:30;index" json:"status"`
	Position string `gorm:"size:30;index;default:'ordinary_member'" json:"position"`

	ShippingStatus string     `gorm:"size:30;index" json:"shipping_status"`
	TrackingNumber string     `gorm:"size:50;index" json:"tracking_number"`
	ShippedDate    *time.Time `json:"shipped_date"`
	ShippedBy      *uint      `json:"shipped_by"`

	ProfileImageURL string `gorm:"size:500" json:"profile_image_url"`
	PaymentProofURL string `gorm:"size:500" json:"payment_proof_url"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Shipper         *User                  `gorm:"foreignKey:ShippedBy" json:"shipper,omitempty"`
	StatusHistory   []StatusHistoryEntry   `gorm:"foreignKey:AlumniID" json:"status_history,omitempty"`
	PositionHistory []PositionHistoryEntry `gorm:"foreignKey:AlumniID" json:"position_history,omitempty"`
	ShippingHistory []ShippingHistoryEntry `gorm:"foreignKey:AlumniID" json:"shipping_history,omitempty"`
}

func (Alumni) TableName() string {
	return "alumnis"
}

// BeforeCreate fills lifecycle defaults from the payment method and delivery
// option chosen on the registration form.
func (a *Alumni) BeforeCreate(tx *gorm.DB) error {
	if a.Status == "" {
		a.Status = string(domain.DefaultStatus(domain.PaymentMethod(a.PaymentMethod)))
	}
	if a.Position == "" {
		a.Position = string(domain.PositionOrdinaryMember)
	}
	if a.ShippingStatus == "" {
		if a.DeliveryOption == string(domain.DeliveryMail) {
			a.ShippingStatus = string(domain.ShippingAwaitingShipment)
		} else {
			a.ShippingStatus = string(domain.ShippingNotApplicable)
		}
	}
	return nil
}

// BeforeSave keeps the money invariant: pickup has no shipping fee and the
// total is always amount + fee, recomputed on every save.
func (a *Alumni) BeforeSave(tx *gorm.DB) error {
	if a.DeliveryOption == string(domain.DeliveryPickup) {
		a.ShippingFee = 0
	}
	a.TotalAmount = a.Amount + a.ShippingFee
	return nil
}

// FullName returns the display name of the registrant
func (a *Alumni) FullName() string {
	name := a.FirstName + " " + a.LastName
	if a.Title != "" {
		name = a.Title + name
	}
	return name
}

// IsShippable reports whether shipping transitions are allowed at all
func (a *Alumni) IsShippable() bool {
	return a.Status == string(domain.StatusApproved) &&
		a.DeliveryOption == string(domain.DeliveryMail)
}

// AlumniResponse DTO
type AlumniResponse struct {
	ID              uint       `json:"id"`
	Title           string     `json:"title"`
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	IDCard          string     `json:"id_card"`
	Address         string     `json:"address"`
	Phone           string     `json:"phone"`
	Email           string     `json:"email"`
	Department      string     `json:"department"`
	GraduationYear  int        `json:"graduation_year"`
	PaymentMethod   string     `json:"payment_method"`
	Amount          float64    `json:"amount"`
	ShippingFee     float64    `json:"shipping_fee"`
	TotalAmount     float64    `json:"total_amount"`
	DeliveryOption  string     `json:"delivery_option"`
	Status          string     `json:"status"`
	StatusLabel     string     `json:"status_label"`
	Position        string     `json:"position"`
	PositionLabel   string     `json:"position_label"`
	ShippingStatus  string     `json:"shipping_status"`
	ShippingLabel   string     `json:"shipping_status_label"`
	TrackingNumber  string     `json:"tracking_number,omitempty"`
	ShippedDate     *time.Time `json:"shipped_date,omitempty"`
	ShippedByName   string     `json:"shipped_by_name,omitempty"`
	ProfileImageURL string     `json:"profile_image_url,omitempty"`
	PaymentProofURL string     `json:"payment_proof_url,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (a *Alumni) ToResponse() *AlumniResponse {
	resp := &AlumniResponse{
		ID:              a.ID,
		Title:           a.Title,
		FirstName:       a.FirstName,
		LastName:        a.LastName,
		IDCard:          a.IDCard,
		Address:         a.Address,
		Phone:           a.Phone,
		Email:           a.Email,
		Department:      a.Department,
		GraduationYear:  a.GraduationYear,
		PaymentMethod:   a.PaymentMethod,
		Amount:          a.Amount,
		ShippingFee:     a.ShippingFee,
		TotalAmount:     a.TotalAmount,
		DeliveryOption:  a.DeliveryOption,
		Status:          a.Status,
		StatusLabel:     domain.Status(a.Status).Label(),
		Position:        a.Position,
		PositionLabel:   domain.Position(a.Position).Label(),
		ShippingStatus:  a.ShippingStatus,
		ShippingLabel:   domain.ShippingStatus(a.ShippingStatus).Label(),
		TrackingNumber:  a.TrackingNumber,
		ShippedDate:     a.ShippedDate,
		ProfileImageURL: a.ProfileImageURL,
		PaymentProofURL: a.PaymentProofURL,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
	if a.Shipper != nil {
		resp.ShippedByName = a.Shipper.Username
	}
	return resp
}

// ============================================================
// History tables (append-only audit trails)
// ============================================================

// StatusHistoryEntry records one approval status change
type StatusHistoryEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AlumniID  uint      `gorm:"not null;index" json:"alumni_id"`
	Value     string    `gorm:"size:30;not null" json:"value"`
	Notes     string    `gorm:"type:text" json:"notes"`
	UpdatedBy *uint     `gorm:"index" json:"updated_by"`
	UpdatedAt time.Time `gorm:"autoCreateTime" json:"updated_at"`

	Updater *User `gorm:"foreignKey:UpdatedBy" json:"updater,omitempty"`
}

func (StatusHistoryEntry) TableName() string {
	return "alumni_status_histories"
}

// PositionHistoryEntry records one position assignment
type PositionHistoryEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AlumniID  uint      `gorm:"not null;index" json:"alumni_id"`
	Value     string    `gorm:"size:30;not null" json:"value"`
	Notes     string    `gorm:"type:text" json:"notes"`
	UpdatedBy *uint     `gorm:"index" json:"updated_by"`
	UpdatedAt time.Time `gorm:"autoCreateTime" json:"updated_at"`

	Updater *User `gorm:"foreignKey:UpdatedBy" json:"updater,omitempty"`
}

func (PositionHistoryEntry) TableName() string {
	return "alumni_position_histories"
}

// ShippingHistoryEntry records one shipping status change
type ShippingHistoryEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AlumniID  uint      `gorm:"not null;index" json:"alumni_id"`
	Value     string    `gorm:"size:30;not null" json:"value"`
	Notes     string    `gorm:"type:text" json:"notes"`
	UpdatedBy *uint     `gorm:"index" json:"updated_by"`
	UpdatedAt time.Time `gorm:"autoCreateTime" json:"updated_at"`

	Updater *User `gorm:"foreignKey:UpdatedBy" json:"updater,omitempty"`
}

func (ShippingHistoryEntry) TableName() string {
	return "alumni_shipping_histories"
}

// ============================================================
// Payment (secondary record; Alumni.status stays authoritative)
// ============================================================

// Payment represents payments table
type Payment struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	AlumniID   uint       `gorm:"not null;index" json:"alumni_id"`
	Reference  string     `gorm:"uniqueIndex;size:20;not null" json:"reference"`
	Amount     float64    `gorm:"type:decimal(10,2);not null" json:"amount"`
	Method     string     `gorm:"size:20;not null" json:"method"`
	Status     string     `gorm:"size:20;default:'pending'" json:"status"`
	ProofURL   string     `gorm:"size:500" json:"proof_url"`
	Notes      string     `gorm:"type:text" json:"notes"`
	VerifiedBy *uint      `json:"verified_by"`
	VerifiedAt *time.Time `json:"verified_at"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Alumni   *Alumni `gorm:"foreignKey:AlumniID" json:"alumni,omitempty"`
	Verifier *User   `gorm:"foreignKey:VerifiedBy" json:"verifier,omitempty"`
}

func (Payment) TableName() string {
	return "payments"
}

// Payment statuses
const (
	PaymentStatusPending  = "pending"
	PaymentStatusVerified = "verified"
	PaymentStatusRejected = "rejected"
)

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for the relational tables.
// Notifications live in MongoDB and are not migrated here.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&Alumni{},
		&StatusHistoryEntry{},
		&PositionHistoryEntry{},
		&ShippingHistoryEntry{},
		&Payment{},
	)
}
