package services

import (
	"context"
	"log"
	"time"

	"spsc-alumni/internal/adapters/persistence/repositories"
	"spsc-alumni/internal/core/domain"

	"github.com/robfig/cron/v3"
)

// HousekeepingService runs scheduled background maintenance jobs
type HousekeepingService struct {
	alumniRepo       repositories.AlumniRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	notifyService    *NotificationService
	cron             *cron.Cron
}

// NewHousekeepingService creates a new housekeeping service
func NewHousekeepingService(
	alumniRepo repositories.AlumniRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	notifyService *NotificationService,
) *HousekeepingService {
	return &HousekeepingService{
		alumniRepo:       alumniRepo,
		refreshTokenRepo: refreshTokenRepo,
		notifyService:    notifyService,
		cron:             cron.New(),
	}
}

// Start registers and launches the cron jobs
func (s *HousekeepingService) Start() {
	// Expired notifications: sweep hourly (the TTL index also covers this)
	s.cron.AddFunc("@hourly", s.sweepExpiredNotifications)

	// Expired refresh tokens: purge nightly at 02:30
	s.cron.AddFunc("30 2 * * *", s.purgeExpiredTokens)

	// Stale pending reviews: warn every morning at 08:30
	s.cron.AddFunc("30 8 * * *", s.checkStalePendingReviews)

	s.cron.Start()
	log.Println("🚀 HousekeepingService started")
}

// Stop stops the scheduler; running jobs finish on their own
func (s *HousekeepingService) Stop() {
	s.cron.Stop()
	log.Println("🛑 HousekeepingService stopped")
}

func (s *HousekeepingService) sweepExpiredNotifications() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	deleted, err := s.notifyService.PurgeExpired(ctx)
	if err != nil {
		log.Printf("❌ Notification sweep error: %v", err)
		return
	}
	if deleted > 0 {
		log.Printf("🗑️ Purged %d expired notifications", deleted)
	}
}

func (s *HousekeepingService) purgeExpiredTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.refreshTokenRepo.DeleteExpired(ctx); err != nil {
		log.Printf("❌ Token purge error: %v", err)
		return
	}
	log.Println("🗑️ Purged expired refresh tokens")
}

// checkStalePendingReviews warns operators about registrations sitting in
// review longer than 7 days.
func (s *HousekeepingService) checkStalePendingReviews() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := time.Now().AddDate(0, 0, -7)
	count, err := s.alumniRepo.CountPendingSince(ctx, cutoff)
	if err != nil {
		log.Printf("❌ Pending review check error: %v", err)
		return
	}
	if count == 0 {
		return
	}

	log.Printf("⏰ %d registrations pending review for more than 7 days", count)
	s.notifyService.emit(&NotifyInput{
		Title:    "มีใบสมัครค้างตรวจสอบ",
		Message:  "มีใบสมัครรอตรวจสอบนานเกิน 7 วัน กรุณาตรวจสอบ",
		Type:     "stale_pending_review",
		Priority: domain.PriorityHigh,
		TTL:      24 * time.Hour,
	})
}
