package services

import (
	"context"
	"testing"
	"time"

	"spsc-alumni/internal/adapters/persistence/models"
	"spsc-alumni/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHousekeepingFixture() (*fakeAlumniRepo, *fakeNotificationRepo, *AlumniService, *HousekeepingService) {
	alumniRepo := newFakeAlumniRepo()
	notifyRepo := newFakeNotificationRepo()
	notify := NewNotificationService(notifyRepo)
	alumniSvc := NewAlumniService(alumniRepo, notify, nil)
	hk := NewHousekeepingService(alumniRepo, newFakeRefreshTokenRepo(), notify)
	return alumniRepo, notifyRepo, alumniSvc, hk
}

func TestCheckStalePendingReviews(t *testing.T) {
	ctx := context.Background()

	t.Run("stale registration raises a high priority warning", func(t *testing.T) {
		_, notifyRepo, alumniSvc, hk := newHousekeepingFixture()

		alumni, err := alumniSvc.Register(ctx, registerInput("1103700012345"))
		require.NoError(t, err)
		require.Equal(t, string(domain.StatusPendingReview), alumni.Status)
		alumni.CreatedAt = time.Now().AddDate(0, 0, -8)

		hk.checkStalePendingReviews()

		items, _, err := notifyRepo.ListForUser(ctx, 1, 0, 50)
		require.NoError(t, err)

		var warning *models.Notification
		for _, n := range items {
			if n.Type == "stale_pending_review" {
				warning = n
			}
		}
		require.NotNil(t, warning)
		assert.Equal(t, domain.PriorityHigh, warning.Priority)
		require.NotNil(t, warning.ExpiresAt)
	})

	t.Run("fresh registrations stay quiet", func(t *testing.T) {
		_, notifyRepo, alumniSvc, hk := newHousekeepingFixture()

		_, err := alumniSvc.Register(ctx, registerInput("1103700012345"))
		require.NoError(t, err)

		hk.checkStalePendingReviews()

		items, _, err := notifyRepo.ListForUser(ctx, 1, 0, 50)
		require.NoError(t, err)
		for _, n := range items {
			assert.NotEqual(t, "stale_pending_review", n.Type)
		}
	})
}

func TestSweepExpiredNotifications(t *testing.T) {
	ctx := context.Background()
	_, notifyRepo, _, hk := newHousekeepingFixture()

	expired := time.Now().Add(-time.Hour)
	require.NoError(t, notifyRepo.Create(ctx, &models.Notification{
		Title:     "หมดอายุแล้ว",
		Message:   "ทดสอบ",
		Type:      "stale_pending_review",
		Priority:  domain.PriorityNormal,
		ExpiresAt: &expired,
	}))
	require.NoError(t, notifyRepo.Create(ctx, &models.Notification{
		Title:    "ยังอยู่",
		Message:  "ทดสอบ",
		Type:     "stale_pending_review",
		Priority: domain.PriorityNormal,
	}))

	hk.sweepExpiredNotifications()

	// Check the store itself: the inbox listing hides expired entries even
	// before the sweep deletes them
	require.Len(t, notifyRepo.items, 1)
	for _, n := range notifyRepo.items {
		assert.Equal(t, "ยังอยู่", n.Title)
	}
}
