package services

import (
	"context"
	"log"
	"time"

	"spsc-alumni/internal/adapters/persistence/models"
	"spsc-alumni/internal/adapters/persistence/repositories"
	"spsc-alumni/internal/core/domain"
)

// NotificationService handles the operator notification inbox
type NotificationService struct {
	notificationRepo repositories.NotificationRepository
}

// NewNotificationService creates a new notification service
func NewNotificationService(notificationRepo repositories.NotificationRepository) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo}
}

// NotifyInput represents one notification to emit
type NotifyInput struct {
	Title     string
	Message   string
	Type      string
	RelatedID *uint
	UserID    *uint // nil = broadcast to all operators
	Priority  string
	TTL       time.Duration // 0 = never expires
}

// Emit stores a notification. Title, message and type are mandatory.
func (s *NotificationService) Emit(ctx context.Context, input *NotifyInput) (*models.Notification, error) {
	if input.Title == "" || input.Message == "" || input.Type == "" {
		return nil, domain.ErrNotificationInvalid
	}

	priority := input.Priority
	if priority == "" {
		priority = domain.PriorityNormal
	}

	n := &models.Notification{
		Title:     input.Title,
		Message:   input.Message,
		Type:      input.Type,
		RelatedID: input.RelatedID,
		UserID:    input.UserID,
		IsRead:    false,
		ReadBy:    []models.ReadReceipt{},
		Priority:  priority,
		CreatedAt: time.Now(),
	}
	if input.TTL > 0 {
		expires := time.Now().Add(input.TTL)
		n.ExpiresAt = &expires
	}

	if err := s.notificationRepo.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// emit is the fire-and-forget variant used by the domain services. A failed
// notification must never fail the operation that triggered it.
func (s *NotificationService) emit(input *NotifyInput) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := s.Emit(ctx, input); err != nil {
		log.Printf("⚠️ Failed to emit notification [%s]: %v", input.Type, err)
	}
}

// NotificationView is a Notification decorated with the caller's read state
type NotificationView struct {
	*models.Notification
	Read bool `json:"read"`
}

// ListForUser returns the inbox of one operator: personal notifications plus
// broadcasts, newest first.
func (s *NotificationService) ListForUser(ctx context.Context, userID uint, offset, limit int) ([]*NotificationView, int64, error) {
	items, total, err := s.notificationRepo.ListForUser(ctx, userID, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	views := make([]*NotificationView, 0, len(items))
	for _, n := range items {
		views = append(views, &NotificationView{
			Notification: n,
			Read:         n.ReadByUser(userID),
		})
	}
	return views, total, nil
}

// CountUnread returns the number of unread notifications for one operator
func (s *NotificationService) CountUnread(ctx context.Context, userID uint) (int, error) {
	items, err := s.notificationRepo.ListUnreadForUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

// MarkRead marks one notification read for the given operator. Marking an
// already-read notification is a no-op, not an error.
func (s *NotificationService) MarkRead(ctx context.Context, id string, userID uint) error {
	n, err := s.notificationRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if n.ReadByUser(userID) {
		return nil
	}

	return s.notificationRepo.AppendReadReceipt(ctx, id, models.ReadReceipt{
		UserID: userID,
		ReadAt: time.Now(),
	})
}

// MarkAllRead marks every unread notification read for the given operator and
// returns how many became newly read. A second call right after returns 0.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) (int, error) {
	items, err := s.notificationRepo.ListUnreadForUser(ctx, userID)
	if err != nil {
		return 0, err
	}

	count := 0
	receipt := models.ReadReceipt{UserID: userID, ReadAt: time.Now()}
	for _, n := range items {
		if n.ReadByUser(userID) {
			continue
		}
		if err := s.notificationRepo.AppendReadReceipt(ctx, n.ID.Hex(), receipt); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// Delete removes one notification
func (s *NotificationService) Delete(ctx context.Context, id string) error {
	return s.notificationRepo.Delete(ctx, id)
}

// PurgeExpired removes notifications past their expiry. The TTL index handles
// this on its own; the sweep keeps dev setups without the index honest.
func (s *NotificationService) PurgeExpired(ctx context.Context) (int64, error) {
	return s.notificationRepo.DeleteExpired(ctx, time.Now())
}

// ============================================================
// Domain event helpers
// ============================================================

// NotifyNewRegistration broadcasts that a new registration arrived
func (s *NotificationService) NotifyNewRegistration(alumni *models.Alumni) {
	s.emit(&NotifyInput{
		Title:     "มีการสมัครสมาชิกใหม่",
		Message:   alumni.FullName() + " สมัครสมาชิกสมาคมศิษย์เก่า",
		Type:      domain.NotifyNewRegistration,
		RelatedID: &alumni.ID,
		Priority:  domain.PriorityNormal,
	})
}

// NotifyPaymentUploaded broadcasts that a payment slip was submitted
func (s *NotificationService) NotifyPaymentUploaded(alumni *models.Alumni) {
	s.emit(&NotifyInput{
		Title:     "มีการแจ้งชำระเงิน",
		Message:   alumni.FullName() + " แนบหลักฐานการชำระเงินแล้ว รอตรวจสอบ",
		Type:      domain.NotifyPaymentUploaded,
		RelatedID: &alumni.ID,
		Priority:  domain.PriorityHigh,
	})
}

// NotifyStatusChange broadcasts an approval status change
func (s *NotificationService) NotifyStatusChange(alumni *models.Alumni, status domain.Status) {
	s.emit(&NotifyInput{
		Title:     "สถานะการสมัครเปลี่ยนแปลง",
		Message:   alumni.FullName() + " เปลี่ยนสถานะเป็น " + status.Label(),
		Type:      domain.NotifyStatusChange,
		RelatedID: &alumni.ID,
		Priority:  domain.PriorityNormal,
	})
}

// NotifyPositionChange broadcasts a position assignment
func (s *NotificationService) NotifyPositionChange(alumni *models.Alumni, position domain.Position) {
	s.emit(&NotifyInput{
		Title:     "มีการแต่งตั้งตำแหน่ง",
		Message:   alumni.FullName() + " ได้รับตำแหน่ง " + position.Label(),
		Type:      domain.NotifyPositionChange,
		RelatedID: &alumni.ID,
		Priority:  domain.PriorityNormal,
	})
}

// NotifyShippingChange broadcasts a shipping status change
func (s *NotificationService) NotifyShippingChange(alumni *models.Alumni, status domain.ShippingStatus) {
	msg := alumni.FullName() + " สถานะจัดส่ง: " + status.Label()
	if alumni.TrackingNumber != "" {
		msg += " (เลขพัสดุ " + alumni.TrackingNumber + ")"
	}
	s.emit(&NotifyInput{
		Title:     "สถานะการจัดส่งเปลี่ยนแปลง",
		Message:   msg,
		Type:      domain.NotifyShippingChange,
		RelatedID: &alumni.ID,
		Priority:  domain.PriorityNormal,
	})
}
