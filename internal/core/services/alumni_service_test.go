package services

import (
	"context"
	"errors"
	"testing"

	"spsc-alumni/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerInput(idCard string) *RegisterInput {
	return &RegisterInput{
		Title:          "นาย",
		FirstName:      "สมชาย",
		LastName:       "ใจดี",
		IDCard:         idCard,
		Address:        "99/1 ถ.มิตรภาพ ต.ในเมือง อ.เมือง จ.ขอนแก่น 40000",
		Phone:          "0812345678",
		Department:     "ช่างยนต์",
		GraduationYear: 2560,
		PaymentMethod:  string(domain.PaymentBankTransfer),
		Amount:         300,
		ShippingFee:    50,
		DeliveryOption: string(domain.DeliveryMail),
	}
}

func newAlumniService(repo *fakeAlumniRepo) *AlumniService {
	return NewAlumniService(repo, NewNotificationService(newFakeNotificationRepo()), nil)
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("bank transfer starts in pending review", func(t *testing.T) {
		repo := newFakeAlumniRepo()
		svc := newAlumniService(repo)

		alumni, err := svc.Register(ctx, registerInput("1103700012345"))
		require.NoError(t, err)

		assert.Equal(t, string(domain.StatusPendingReview), alumni.Status)
		assert.Equal(t, string(domain.PositionOrdinaryMember), alumni.Position)
		assert.Equal(t, string(domain.ShippingAwaitingShipment), alumni.ShippingStatus)
		assert.Equal(t, 350.0, alumni.TotalAmount)
	})

	t.Run("in person starts awaiting payment", func(t *testing.T) {
		repo := newFakeAlumniRepo()
		svc := newAlumniService(repo)

		input := registerInput("1103700012345")
		input.PaymentMethod = string(domain.PaymentInPerson)

		alumni, err := svc.Register(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, string(domain.StatusAwaitingPayment), alumni.Status)
	})

	t.Run("pickup clears shipping fee and pipeline", func(t *testing.T) {
		repo := newFakeAlumniRepo()
		svc := newAlumniService(repo)

		input := registerInput("1103700012345")
		input.DeliveryOption = string(domain.DeliveryPickup)
		input.ShippingFee = 50

		alumni, err := svc.Register(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, 0.0, alumni.ShippingFee)
		assert.Equal(t, 300.0, alumni.TotalAmount)
		assert.Equal(t, string(domain.ShippingNotApplicable), alumni.ShippingStatus)
	})

	t.Run("duplicate id card rejected", func(t *testing.T) {
		repo := newFakeAlumniRepo()
		svc := newAlumniService(repo)

		_, err := svc.Register(ctx, registerInput("1103700012345"))
		require.NoError(t, err)

		_, err = svc.Register(ctx, registerInput("1103700012345"))
		assert.ErrorIs(t, err, domain.ErrDuplicateIDCard)
	})

	t.Run("unknown payment method rejected", func(t *testing.T) {
		repo := newFakeAlumniRepo()
		svc := newAlumniService(repo)

		input := registerInput("1103700012345")
		input.PaymentMethod = "crypto"

		_, err := svc.Register(ctx, input)
		assert.ErrorIs(t, err, domain.ErrInvalidPayMethod)
	})
}

func TestApplyStatusChange(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAlumniRepo()
	svc := newAlumniService(repo)

	alumni, err := svc.Register(ctx, registerInput("1103700012345"))
	require.NoError(t, err)

	t.Run("approval recorded with history", func(t *testing.T) {
		updated, err := svc.ApplyStatusChange(ctx, alumni.ID, &StatusChangeInput{
			Status: string(domain.StatusApproved),
			Notes:  "ตรวจสอบสลิปแล้ว",
		}, 7)
		require.NoError(t, err)

		assert.Equal(t, string(domain.StatusApproved), updated.Status)
		require.Len(t, repo.statusHist, 1)
		assert.Equal(t, string(domain.StatusApproved), repo.statusHist[0].Value)
		require.NotNil(t, repo.statusHist[0].UpdatedBy)
		assert.Equal(t, uint(7), *repo.statusHist[0].UpdatedBy)
	})

	t.Run("reapplying same status still audited", func(t *testing.T) {
		_, err := svc.ApplyStatusChange(ctx, alumni.ID, &StatusChangeInput{
			Status: string(domain.StatusApproved),
		}, 7)
		require.NoError(t, err)
		assert.Len(t, repo.statusHist, 2)
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		_, err := svc.ApplyStatusChange(ctx, alumni.ID, &StatusChangeInput{Status: "archived"}, 7)
		assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	})

	t.Run("missing record", func(t *testing.T) {
		_, err := svc.ApplyStatusChange(ctx, 9999, &StatusChangeInput{
			Status: string(domain.StatusApproved),
		}, 7)
		assert.ErrorIs(t, err, domain.ErrAlumniNotFound)
	})

	t.Run("failed audit write leaves status unchanged", func(t *testing.T) {
		repo.failChangeStatus = errors.New("deadlock found")
		defer func() { repo.failChangeStatus = nil }()

		_, err := svc.ApplyStatusChange(ctx, alumni.ID, &StatusChangeInput{
			Status: string(domain.StatusRejected),
		}, 7)
		require.Error(t, err)

		stored, err := svc.GetByID(ctx, alumni.ID)
		require.NoError(t, err)
		assert.Equal(t, string(domain.StatusApproved), stored.Status)
		assert.Len(t, repo.statusHist, 2)
	})
}

func TestApplyPositionChange(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T, svc *AlumniService, n int) []uint {
		t.Helper()
		ids := make([]uint, 0, n)
		for i := 0; i < n; i++ {
			input := registerInput("110370001234" + string(rune('0'+i)))
			alumni, err := svc.Register(ctx, input)
			require.NoError(t, err)
			ids = append(ids, alumni.ID)
		}
		return ids
	}

	t.Run("vice president capped at four", func(t *testing.T) {
		repo := newFakeAlumniRepo()
		svc := newAlumniService(repo)
		ids := seed(t, svc, 5)

		for i := 0; i < 4; i++ {
			_, err := svc.ApplyPositionChange(ctx, ids[i], &PositionChangeInput{
				Position: string(domain.PositionVicePresident),
			}, 1)
			require.NoError(t, err, "assignment %d should fit the slot", i+1)
		}

		_, err := svc.ApplyPositionChange(ctx, ids[4], &PositionChangeInput{
			Position: string(domain.PositionVicePresident),
		}, 1)
		assert.ErrorIs(t, err, domain.ErrPositionSlotFull)
	})

	t.Run("single slot positions exclude the holder itself", func(t *testing.T) {
		repo := newFakeAlumniRepo()
		svc := newAlumniService(repo)
		ids := seed(t, svc, 2)

		_, err := svc.ApplyPositionChange(ctx, ids[0], &PositionChangeInput{
			Position: string(domain.PositionTreasurer),
		}, 1)
		require.NoError(t, err)

		// Re-assigning the current holder must not count themselves
		_, err = svc.ApplyPositionChange(ctx, ids[0], &PositionChangeInput{
			Position: string(domain.PositionTreasurer),
			Notes:    "ต่อวาระ",
		}, 1)
		assert.NoError(t, err)

		// But a second person cannot take the occupied slot
		_, err = svc.ApplyPositionChange(ctx, ids[1], &PositionChangeInput{
			Position: string(domain.PositionTreasurer),
		}, 1)
		assert.ErrorIs(t, err, domain.ErrPositionSlotFull)
	})

	t.Run("ordinary member is unlimited", func(t *testing.T) {
		repo := newFakeAlumniRepo()
		svc := newAlumniService(repo)
		ids := seed(t, svc, 5)

		for _, id := range ids {
			_, err := svc.ApplyPositionChange(ctx, id, &PositionChangeInput{
				Position: string(domain.PositionOrdinaryMember),
			}, 1)
			require.NoError(t, err)
		}
	})

	t.Run("unknown position rejected", func(t *testing.T) {
		repo := newFakeAlumniRepo()
		svc := newAlumniService(repo)
		ids := seed(t, svc, 1)

		_, err := svc.ApplyPositionChange(ctx, ids[0], &PositionChangeInput{Position: "secretary_general"}, 1)
		assert.ErrorIs(t, err, domain.ErrInvalidPosition)
	})

	t.Run("history recorded per assignment", func(t *testing.T) {
		repo := newFakeAlumniRepo()
		svc := newAlumniService(repo)
		ids := seed(t, svc, 1)

		_, err := svc.ApplyPositionChange(ctx, ids[0], &PositionChangeInput{
			Position: string(domain.PositionPresident),
		}, 3)
		require.NoError(t, err)

		require.Len(t, repo.positionHist, 1)
		assert.Equal(t, string(domain.PositionPresident), repo.positionHist[0].Value)
		require.NotNil(t, repo.positionHist[0].UpdatedBy)
		assert.Equal(t, uint(3), *repo.positionHist[0].UpdatedBy)
	})
}

func TestAttachPaymentProof(t *testing.T) {
	ctx := context.Background()

	seedAwaitingPayment := func(t *testing.T, svc *AlumniService) uint {
		t.Helper()
		input := registerInput("1103700012345")
		input.PaymentMethod = string(domain.PaymentInPerson)
		alumni, err := svc.Register(ctx, input)
		require.NoError(t, err)
		require.Equal(t, string(domain.StatusAwaitingPayment), alumni.Status)
		return alumni.ID
	}

	t.Run("operator upload moves into review with audit", func(t *testing.T) {
		repo := newFakeAlumniRepo()
		svc := newAlumniService(repo)
		id := seedAwaitingPayment(t, svc)

		updated, err := svc.AttachPaymentProof(ctx, id, "https://cdn.example.com/slip.jpg", 2)
		require.NoError(t, err)

		assert.Equal(t, string(domain.StatusPendingReview), updated.Status)
		assert.Equal(t, "https://cdn.example.com/slip.jpg", updated.PaymentProofURL)
		require.Len(t, repo.statusHist, 1)
		require.NotNil(t, repo.statusHist[0].UpdatedBy)
		assert.Equal(t, uint(2), *repo.statusHist[0].UpdatedBy)
	})

	t.Run("self service upload audits without an actor", func(t *testing.T) {
		repo := newFakeAlumniRepo()
		svc := newAlumniService(repo)
		id := seedAwaitingPayment(t, svc)

		updated, err := svc.AttachPaymentProof(ctx, id, "https://cdn.example.com/slip.jpg", 0)
		require.NoError(t, err)

		assert.Equal(t, string(domain.StatusPendingReview), updated.Status)
		require.Len(t, repo.statusHist, 1)
		assert.Nil(t, repo.statusHist[0].UpdatedBy)
	})
}
