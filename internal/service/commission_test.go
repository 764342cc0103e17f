package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"fleet-rental-backend/internal/authz"
	"fleet-rental-backend/internal/domain"
)

func TestCommissionService_ApproveBatch(t *testing.T) {
	ctx := context.Background()
	ids := []int64{1, 2}

	t.Run("approves a uniform pending batch", func(t *testing.T) {
		store, m := newMockStore()
		svc := NewCommissionService(store)

		rows := []domain.Commission{
			{ID: 1, Status: domain.CommissionStatusPending},
			{ID: 2, Status: domain.CommissionStatusPending},
		}
		m.Commissions.On("ListByIDsForUpdate", mock.Anything, ids).Return(rows, nil)
		m.Commissions.On("UpdateStatusBatch", mock.Anything, ids, domain.CommissionStatusApproved, (*time.Time)(nil), "").Return(nil)

		approved, err := svc.ApproveBatch(ctx, adminActor(), ids)
		assert.NoError(t, err)
		assert.Len(t, approved, 2)
		for _, c := range approved {
			assert.Equal(t, domain.CommissionStatusApproved, c.Status)
		}
	})

	t.Run("mixed batch rejected with no state change", func(t *testing.T) {
		store, m := newMockStore()
		svc := NewCommissionService(store)

		rows := []domain.Commission{
			{ID: 1, Status: domain.CommissionStatusPending},
			{ID: 2, Status: domain.CommissionStatusApproved},
		}
		m.Commissions.On("ListByIDsForUpdate", mock.Anything, ids).Return(rows, nil)

		_, err := svc.ApproveBatch(ctx, adminActor(), ids)
		assert.ErrorIs(t, err, domain.ErrMixedStatusBatch)
		m.Commissions.AssertNotCalled(t, "UpdateStatusBatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing row fails the batch", func(t *testing.T) {
		store, m := newMockStore()
		svc := NewCommissionService(store)

		rows := []domain.Commission{{ID: 1, Status: domain.CommissionStatusPending}}
		m.Commissions.On("ListByIDsForUpdate", mock.Anything, ids).Return(rows, nil)

		_, err := svc.ApproveBatch(ctx, adminActor(), ids)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("agents may not approve", func(t *testing.T) {
		store, _ := newMockStore()
		svc := NewCommissionService(store)

		agent := authz.Actor{UserID: 3, Role: domain.RoleAgent}
		_, err := svc.ApproveBatch(ctx, agent, ids)
		assert.ErrorIs(t, err, domain.ErrPermissionDenied)
	})
}

func TestCommissionService_PayBatch(t *testing.T) {
	ctx := context.Background()
	ids := []int64{1, 2}

	t.Run("pays an approved batch and stamps the reference", func(t *testing.T) {
		store, m := newMockStore()
		svc := NewCommissionService(store)

		rows := []domain.Commission{
			{ID: 1, Status: domain.CommissionStatusApproved},
			{ID: 2, Status: domain.CommissionStatusApproved},
		}
		m.Commissions.On("ListByIDsForUpdate", mock.Anything, ids).Return(rows, nil)
		m.Commissions.On("UpdateStatusBatch", mock.Anything, ids, domain.CommissionStatusPaid, mock.AnythingOfType("*time.Time"), "WIRE-2026-0042").Return(nil)

		paid, err := svc.PayBatch(ctx, adminActor(), ids, "WIRE-2026-0042")
		assert.NoError(t, err)
		assert.Len(t, paid, 2)
		for _, c := range paid {
			assert.Equal(t, domain.CommissionStatusPaid, c.Status)
			assert.NotNil(t, c.PaidAt)
			assert.Equal(t, "WIRE-2026-0042", c.PaymentRef)
		}
	})

	t.Run("pending row in batch rejects the whole payment", func(t *testing.T) {
		store, m := newMockStore()
		svc := NewCommissionService(store)

		rows := []domain.Commission{
			{ID: 1, Status: domain.CommissionStatusApproved},
			{ID: 2, Status: domain.CommissionStatusPending},
		}
		m.Commissions.On("ListByIDsForUpdate", mock.Anything, ids).Return(rows, nil)

		_, err := svc.PayBatch(ctx, adminActor(), ids, "WIRE-2026-0042")
		assert.ErrorIs(t, err, domain.ErrMixedStatusBatch)
		m.Commissions.AssertNotCalled(t, "UpdateStatusBatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("payment reference required", func(t *testing.T) {
		store, m := newMockStore()
		svc := NewCommissionService(store)

		_, err := svc.PayBatch(ctx, adminActor(), ids, "")
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
		m.Commissions.AssertNotCalled(t, "ListByIDsForUpdate", mock.Anything, mock.Anything)
	})

	t.Run("empty batch rejected", func(t *testing.T) {
		store, _ := newMockStore()
		svc := NewCommissionService(store)

		_, err := svc.PayBatch(ctx, adminActor(), nil, "WIRE-2026-0042")
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	})
}

func TestCommissionService_RevertPayment(t *testing.T) {
	ctx := context.Background()
	paidAt := time.Now()

	t.Run("paid commission returns to approved with the stamp cleared", func(t *testing.T) {
		store, m := newMockStore()
		svc := NewCommissionService(store)

		rows := []domain.Commission{
			{ID: 1, Status: domain.CommissionStatusPaid, PaidAt: &paidAt, PaymentRef: "WIRE-2026-0042"},
		}
		m.Commissions.On("ListByIDsForUpdate", mock.Anything, []int64{1}).Return(rows, nil)
		m.Commissions.On("Update", mock.Anything, mock.AnythingOfType("*domain.Commission")).Return(nil)

		c, err := svc.RevertPayment(ctx, adminActor(), 1)
		assert.NoError(t, err)
		assert.Equal(t, domain.CommissionStatusApproved, c.Status)
		assert.Nil(t, c.PaidAt)
		assert.Empty(t, c.PaymentRef)
	})

	t.Run("only paid rows can be reverted", func(t *testing.T) {
		store, m := newMockStore()
		svc := NewCommissionService(store)

		rows := []domain.Commission{{ID: 1, Status: domain.CommissionStatusApproved}}
		m.Commissions.On("ListByIDsForUpdate", mock.Anything, []int64{1}).Return(rows, nil)

		_, err := svc.RevertPayment(ctx, adminActor(), 1)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		m.Commissions.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("agents cannot touch paid records", func(t *testing.T) {
		store, m := newMockStore()
		svc := NewCommissionService(store)

		agent := authz.Actor{UserID: 3, Role: domain.RoleAgent}
		_, err := svc.RevertPayment(ctx, agent, 1)
		assert.ErrorIs(t, err, domain.ErrPermissionDenied)
		m.Commissions.AssertNotCalled(t, "ListByIDsForUpdate", mock.Anything, mock.Anything)
	})
}
