package services

import (
	"context"
	"testing"
	"time"

	"spsc-alumni/internal/adapters/persistence/repositories"
	"spsc-alumni/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newShippingFixture(t *testing.T) (*fakeAlumniRepo, *AlumniService, *ShippingService) {
	t.Helper()
	repo := newFakeAlumniRepo()
	notify := NewNotificationService(newFakeNotificationRepo())
	alumniSvc := NewAlumniService(repo, notify, nil)
	shippingSvc := NewShippingService(repo, notify, nil)
	return repo, alumniSvc, shippingSvc
}

// seedApprovedMail creates an approved mail-delivery registrant
func seedApprovedMail(t *testing.T, alumniSvc *AlumniService, idCard string) uint {
	t.Helper()
	ctx := context.Background()

	alumni, err := alumniSvc.Register(ctx, registerInput(idCard))
	require.NoError(t, err)
	_, err = alumniSvc.ApplyStatusChange(ctx, alumni.ID, &StatusChangeInput{
		Status: string(domain.StatusApproved),
	}, 1)
	require.NoError(t, err)
	return alumni.ID
}

func TestApplyShippingChange(t *testing.T) {
	ctx := context.Background()

	t.Run("in transit requires tracking number", func(t *testing.T) {
		_, alumniSvc, svc := newShippingFixture(t)
		id := seedApprovedMail(t, alumniSvc, "1103700012345")

		_, err := svc.ApplyShippingChange(ctx, id, &ShippingChangeInput{
			Status: string(domain.ShippingInTransit),
		}, 1)
		assert.ErrorIs(t, err, domain.ErrMissingTracking)
	})

	t.Run("in transit with tracking succeeds", func(t *testing.T) {
		repo, alumniSvc, svc := newShippingFixture(t)
		id := seedApprovedMail(t, alumniSvc, "1103700012345")

		updated, err := svc.ApplyShippingChange(ctx, id, &ShippingChangeInput{
			Status:         string(domain.ShippingInTransit),
			TrackingNumber: "TH123456789",
		}, 9)
		require.NoError(t, err)

		assert.Equal(t, string(domain.ShippingInTransit), updated.ShippingStatus)
		assert.Equal(t, "TH123456789", updated.TrackingNumber)
		require.NotNil(t, updated.ShippedDate)
		require.NotNil(t, updated.ShippedBy)
		assert.Equal(t, uint(9), *updated.ShippedBy)

		require.Len(t, repo.shippingHist, 1)
		assert.Equal(t, string(domain.ShippingInTransit), repo.shippingHist[0].Value)
	})

	t.Run("delivered straight from awaiting shipment stamps shipment", func(t *testing.T) {
		repo, alumniSvc, svc := newShippingFixture(t)
		id := seedApprovedMail(t, alumniSvc, "1103700012345")

		updated, err := svc.ApplyShippingChange(ctx, id, &ShippingChangeInput{
			Status:         string(domain.ShippingDelivered),
			TrackingNumber: "TH123456789",
		}, 4)
		require.NoError(t, err)

		assert.Equal(t, string(domain.ShippingDelivered), updated.ShippingStatus)
		require.NotNil(t, updated.ShippedDate)
		require.NotNil(t, updated.ShippedBy)
		assert.Equal(t, uint(4), *updated.ShippedBy)

		require.Len(t, repo.shippingHist, 1)
		require.NotNil(t, repo.shippingHist[0].UpdatedBy)
		assert.Equal(t, uint(4), *repo.shippingHist[0].UpdatedBy)
	})

	t.Run("caller supplied shipped date wins over the clock", func(t *testing.T) {
		_, alumniSvc, svc := newShippingFixture(t)
		id := seedApprovedMail(t, alumniSvc, "1103700012345")

		backdated := time.Date(2026, 8, 20, 9, 30, 0, 0, time.Local)
		updated, err := svc.ApplyShippingChange(ctx, id, &ShippingChangeInput{
			Status:         string(domain.ShippingInTransit),
			TrackingNumber: "TH123456789",
			ShippedDate:    &backdated,
		}, 1)
		require.NoError(t, err)

		require.NotNil(t, updated.ShippedDate)
		assert.True(t, updated.ShippedDate.Equal(backdated))
	})

	t.Run("delivered keeps the original shipped date", func(t *testing.T) {
		_, alumniSvc, svc := newShippingFixture(t)
		id := seedApprovedMail(t, alumniSvc, "1103700012345")

		shipped, err := svc.ApplyShippingChange(ctx, id, &ShippingChangeInput{
			Status:         string(domain.ShippingInTransit),
			TrackingNumber: "TH123456789",
		}, 1)
		require.NoError(t, err)
		require.NotNil(t, shipped.ShippedDate)
		firstStamp := *shipped.ShippedDate

		delivered, err := svc.ApplyShippingChange(ctx, id, &ShippingChangeInput{
			Status: string(domain.ShippingDelivered),
		}, 1)
		require.NoError(t, err)
		require.NotNil(t, delivered.ShippedDate)
		assert.True(t, delivered.ShippedDate.Equal(firstStamp))
	})

	t.Run("delivered reuses stored tracking number", func(t *testing.T) {
		_, alumniSvc, svc := newShippingFixture(t)
		id := seedApprovedMail(t, alumniSvc, "1103700012345")

		_, err := svc.ApplyShippingChange(ctx, id, &ShippingChangeInput{
			Status:         string(domain.ShippingInTransit),
			TrackingNumber: "TH123456789",
		}, 1)
		require.NoError(t, err)

		updated, err := svc.ApplyShippingChange(ctx, id, &ShippingChangeInput{
			Status: string(domain.ShippingDelivered),
		}, 1)
		require.NoError(t, err)
		assert.Equal(t, string(domain.ShippingDelivered), updated.ShippingStatus)
		assert.Equal(t, "TH123456789", updated.TrackingNumber)
	})

	t.Run("unapproved registration rejected", func(t *testing.T) {
		_, alumniSvc, svc := newShippingFixture(t)
		alumni, err := alumniSvc.Register(ctx, registerInput("1103700012345"))
		require.NoError(t, err)

		_, err = svc.ApplyShippingChange(ctx, alumni.ID, &ShippingChangeInput{
			Status:         string(domain.ShippingInTransit),
			TrackingNumber: "TH123456789",
		}, 1)
		assert.ErrorIs(t, err, domain.ErrNotApproved)
	})

	t.Run("pickup registrant rejected", func(t *testing.T) {
		_, alumniSvc, svc := newShippingFixture(t)
		input := registerInput("1103700012345")
		input.DeliveryOption = string(domain.DeliveryPickup)
		alumni, err := alumniSvc.Register(ctx, input)
		require.NoError(t, err)
		_, err = alumniSvc.ApplyStatusChange(ctx, alumni.ID, &StatusChangeInput{
			Status: string(domain.StatusApproved),
		}, 1)
		require.NoError(t, err)

		_, err = svc.ApplyShippingChange(ctx, alumni.ID, &ShippingChangeInput{
			Status:         string(domain.ShippingInTransit),
			TrackingNumber: "TH123456789",
		}, 1)
		assert.ErrorIs(t, err, domain.ErrNotMailDelivery)
	})

	t.Run("unknown shipping status checked before approval", func(t *testing.T) {
		_, alumniSvc, svc := newShippingFixture(t)
		alumni, err := alumniSvc.Register(ctx, registerInput("1103700012345"))
		require.NoError(t, err)

		_, err = svc.ApplyShippingChange(ctx, alumni.ID, &ShippingChangeInput{
			Status: "lost_in_mail",
		}, 1)
		assert.ErrorIs(t, err, domain.ErrInvalidShipStatus)
	})

	t.Run("missing record", func(t *testing.T) {
		_, _, svc := newShippingFixture(t)
		_, err := svc.ApplyShippingChange(ctx, 42, &ShippingChangeInput{
			Status: string(domain.ShippingAwaitingShipment),
		}, 1)
		assert.ErrorIs(t, err, domain.ErrAlumniNotFound)
	})
}

func TestBulkApplyShipping(t *testing.T) {
	ctx := context.Background()

	t.Run("precheck failure updates nothing", func(t *testing.T) {
		repo, alumniSvc, svc := newShippingFixture(t)
		okID := seedApprovedMail(t, alumniSvc, "1103700012341")
		pending, err := alumniSvc.Register(ctx, registerInput("1103700012342"))
		require.NoError(t, err)

		result, err := svc.BulkApplyShipping(ctx, &BulkShippingInput{
			Status: string(domain.ShippingInTransit),
			Items: []BulkShippingItem{
				{AlumniID: okID, TrackingNumber: "TH000000001"},
				{AlumniID: pending.ID, TrackingNumber: "TH000000002"},
			},
		}, 1)

		assert.ErrorIs(t, err, domain.ErrBulkPrecheckFailed)
		require.Len(t, result.Failed, 1)
		assert.Equal(t, pending.ID, result.Failed[0].AlumniID)
		assert.Empty(t, result.Updated)

		// The valid record must be untouched
		untouched, getErr := repo.GetByID(ctx, okID)
		require.NoError(t, getErr)
		assert.Equal(t, string(domain.ShippingAwaitingShipment), untouched.ShippingStatus)
		assert.Empty(t, untouched.TrackingNumber)
		assert.Empty(t, repo.shippingHist)
	})

	t.Run("missing tracking fails precheck per item", func(t *testing.T) {
		_, alumniSvc, svc := newShippingFixture(t)
		a := seedApprovedMail(t, alumniSvc, "1103700012341")
		b := seedApprovedMail(t, alumniSvc, "1103700012342")

		result, err := svc.BulkApplyShipping(ctx, &BulkShippingInput{
			Status: string(domain.ShippingInTransit),
			Items: []BulkShippingItem{
				{AlumniID: a, TrackingNumber: "TH000000001"},
				{AlumniID: b},
			},
		}, 1)

		assert.ErrorIs(t, err, domain.ErrBulkPrecheckFailed)
		require.Len(t, result.Failed, 1)
		assert.Equal(t, b, result.Failed[0].AlumniID)
	})

	t.Run("all valid items updated with history", func(t *testing.T) {
		repo, alumniSvc, svc := newShippingFixture(t)
		a := seedApprovedMail(t, alumniSvc, "1103700012341")
		b := seedApprovedMail(t, alumniSvc, "1103700012342")

		result, err := svc.BulkApplyShipping(ctx, &BulkShippingInput{
			Status: string(domain.ShippingInTransit),
			Notes:  "รอบจัดส่งเช้า",
			Items: []BulkShippingItem{
				{AlumniID: a, TrackingNumber: "TH000000001"},
				{AlumniID: b, TrackingNumber: "TH000000002"},
			},
		}, 1)

		require.NoError(t, err)
		assert.Len(t, result.Updated, 2)
		assert.Empty(t, result.Failed)
		assert.Len(t, repo.shippingHist, 2)
	})

	t.Run("unknown status rejected outright", func(t *testing.T) {
		_, _, svc := newShippingFixture(t)
		_, err := svc.BulkApplyShipping(ctx, &BulkShippingInput{
			Status: "teleported",
			Items:  []BulkShippingItem{{AlumniID: 1}},
		}, 1)
		assert.ErrorIs(t, err, domain.ErrInvalidShipStatus)
	})
}

func TestListShippable(t *testing.T) {
	ctx := context.Background()
	_, alumniSvc, svc := newShippingFixture(t)

	a := seedApprovedMail(t, alumniSvc, "1103700012341")
	seedApprovedMail(t, alumniSvc, "1103700012342")

	_, err := svc.ApplyShippingChange(ctx, a, &ShippingChangeInput{
		Status:         string(domain.ShippingInTransit),
		TrackingNumber: "TH000000001",
	}, 1)
	require.NoError(t, err)

	t.Run("defaults to awaiting shipment queue", func(t *testing.T) {
		items, total, err := svc.ListShippable(ctx, &repositories.AlumniFilter{Limit: 50})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, items, 1)
		assert.Equal(t, string(domain.ShippingAwaitingShipment), items[0].ShippingStatus)
	})

	t.Run("all shows every pipeline state", func(t *testing.T) {
		_, total, err := svc.ListShippable(ctx, &repositories.AlumniFilter{ShippingStatus: "all", Limit: 50})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
	})
}

func TestShippingStatistics(t *testing.T) {
	ctx := context.Background()
	_, alumniSvc, svc := newShippingFixture(t)

	a := seedApprovedMail(t, alumniSvc, "1103700012341")
	seedApprovedMail(t, alumniSvc, "1103700012342")
	seedApprovedMail(t, alumniSvc, "1103700012343")

	_, err := svc.ApplyShippingChange(ctx, a, &ShippingChangeInput{
		Status:         string(domain.ShippingInTransit),
		TrackingNumber: "TH000000001",
	}, 1)
	require.NoError(t, err)

	stats, err := svc.Statistics(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(2), stats.AwaitingShipment)
	assert.Equal(t, int64(1), stats.InTransit)
	assert.Equal(t, int64(0), stats.Delivered)
	assert.Equal(t, int64(3), stats.Total)
}

func TestTrackByNumber(t *testing.T) {
	ctx := context.Background()
	_, alumniSvc, svc := newShippingFixture(t)
	id := seedApprovedMail(t, alumniSvc, "1103700012345")

	_, err := svc.ApplyShippingChange(ctx, id, &ShippingChangeInput{
		Status:         string(domain.ShippingInTransit),
		TrackingNumber: "TH987654321",
	}, 1)
	require.NoError(t, err)

	found, err := svc.TrackByNumber(ctx, "TH987654321")
	require.NoError(t, err)
	assert.Equal(t, id, found.ID)

	_, err = svc.TrackByNumber(ctx, "TH000000000")
	assert.ErrorIs(t, err, domain.ErrAlumniNotFound)
}
