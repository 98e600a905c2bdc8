package services

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// DashboardService handles dashboard aggregates
type DashboardService struct {
	db *gorm.DB
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

// DashboardData represents the admin dashboard payload
type DashboardData struct {
	// Registration statistics
	TotalAlumni     int64 `json:"total_alumni"`
	PendingReview   int64 `json:"pending_review"`
	Approved        int64 `json:"approved"`
	AwaitingPayment int64 `json:"awaiting_payment"`
	Rejected        int64 `json:"rejected"`

	// Delivery statistics
	PickupCount      int64 `json:"pickup_count"`
	MailCount        int64 `json:"mail_count"`
	AwaitingShipment int64 `json:"awaiting_shipment"`
	InTransit        int64 `json:"in_transit"`
	Delivered        int64 `json:"delivered"`

	// Money
	TotalRevenue    float64 `json:"total_revenue"`
	RevenueThisYear float64 `json:"revenue_this_year"`

	// Monthly statistics
	RegistrationsThisMonth int64 `json:"registrations_this_month"`

	// Position holders
	PositionHolders []PositionCount `json:"position_holders"`

	// Recent activity
	RecentRegistrations []AlumniSummary `json:"recent_registrations"`

	// Departments
	TopDepartments []DepartmentCount `json:"top_departments"`
}

// PositionCount represents how many alumni hold one position
type PositionCount struct {
	Position string `json:"position"`
	Count    int64  `json:"count"`
}

// AlumniSummary represents one row of the recent-registrations table
type AlumniSummary struct {
	ID        uint      `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// DepartmentCount represents registrations per department
type DepartmentCount struct {
	Department string `json:"department"`
	Count      int64  `json:"count"`
}

// GetDashboard returns aggregated statistics for the admin dashboard
func (s *DashboardService) GetDashboard(ctx context.Context) (*DashboardData, error) {
	data := &DashboardData{}

	// Counts by approval status
	s.db.WithContext(ctx).Table("alumnis").
		Where("deleted_at IS NULL").
		Count(&data.TotalAlumni)
	s.countByStatus(ctx, "pending_review", &data.PendingReview)
	s.countByStatus(ctx, "approved", &data.Approved)
	s.countByStatus(ctx, "awaiting_payment", &data.AwaitingPayment)
	s.countByStatus(ctx, "rejected", &data.Rejected)

	// Delivery options
	s.db.WithContext(ctx).Table("alumnis").
		Where("delivery_option = ? AND deleted_at IS NULL", "pickup").
		Count(&data.PickupCount)
	s.db.WithContext(ctx).Table("alumnis").
		Where("delivery_option = ? AND deleted_at IS NULL", "mail").
		Count(&data.MailCount)

	// Shipping pipeline (approved mail registrants only)
	s.countByShipping(ctx, "awaiting_shipment", &data.AwaitingShipment)
	s.countByShipping(ctx, "in_transit", &data.InTransit)
	s.countByShipping(ctx, "delivered", &data.Delivered)

	// Revenue over approved registrations
	s.db.WithContext(ctx).Table("alumnis").
		Where("status = ? AND deleted_at IS NULL", "approved").
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&data.TotalRevenue)

	startOfYear := time.Date(time.Now().Year(), 1, 1, 0, 0, 0, 0, time.Local)
	s.db.WithContext(ctx).Table("alumnis").
		Where("status = ? AND created_at >= ? AND deleted_at IS NULL", "approved", startOfYear).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&data.RevenueThisYear)

	// This month
	startOfMonth := time.Now().AddDate(0, 0, -time.Now().Day()+1).Truncate(24 * time.Hour)
	s.db.WithContext(ctx).Table("alumnis").
		Where("created_at >= ? AND deleted_at IS NULL", startOfMonth).
		Count(&data.RegistrationsThisMonth)

	// Position holders (officers only)
	s.db.WithContext(ctx).Table("alumnis").
		Select("position, COUNT(*) as count").
		Where("position <> ? AND deleted_at IS NULL", "ordinary_member").
		Group("position").
		Scan(&data.PositionHolders)

	// Recent registrations
	s.db.WithContext(ctx).Table("alumnis").
		Select("id, first_name, last_name, status, created_at").
		Where("deleted_at IS NULL").
		Order("created_at DESC").
		Limit(10).
		Scan(&data.RecentRegistrations)

	// Top departments
	s.db.WithContext(ctx).Table("alumnis").
		Select("department, COUNT(*) as count").
		Where("department <> '' AND deleted_at IS NULL").
		Group("department").
		Order("count DESC").
		Limit(5).
		Scan(&data.TopDepartments)

	return data, nil
}

func (s *DashboardService) countByStatus(ctx context.Context, status string, dest *int64) {
	s.db.WithContext(ctx).Table("alumnis").
		Where("status = ? AND deleted_at IS NULL", status).
		Count(dest)
}

func (s *DashboardService) countByShipping(ctx context.Context, shippingStatus string, dest *int64) {
	s.db.WithContext(ctx).Table("alumnis").
		Where("status = ? AND delivery_option = ? AND shipping_status = ? AND deleted_at IS NULL",
			"approved", "mail", shippingStatus).
		Count(dest)
}
