package service

import (
	"context"
	"fmt"
	"time"

	"fleet-rental-backend/internal/authz"
	"fleet-rental-backend/internal/domain"
	"fleet-rental-backend/internal/repository"
)

type commissionService struct {
	store repository.Store
}

func NewCommissionService(store repository.Store) CommissionService {
	return &commissionService{store: store}
}

// ApproveBatch moves a batch of PENDING commissions to APPROVED. The
// batch is all-or-nothing: one row in any other status rejects the
// whole batch and no row changes.
func (s *commissionService) ApproveBatch(ctx context.Context, actor authz.Actor, ids []int64) ([]domain.Commission, error) {
	if err := authz.Require(actor, authz.ActionApproveCommission); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("empty batch: %w", domain.ErrInvalidAmount)
	}

	var updated []domain.Commission
	err := s.store.WithinTx(ctx, func(repos *repository.Repositories) error {
		rows, err := repos.Commissions.ListByIDsForUpdate(ctx, ids)
		if err != nil {
			return err
		}
		if len(rows) != len(ids) {
			return fmt.Errorf("commission batch: %w", domain.ErrNotFound)
		}
		for _, c := range rows {
			if c.Status != domain.CommissionStatusPending {
				return fmt.Errorf("commission %d is %s: %w", c.ID, c.Status, domain.ErrMixedStatusBatch)
			}
		}
		if err := repos.Commissions.UpdateStatusBatch(ctx, ids, domain.CommissionStatusApproved, nil, ""); err != nil {
			return err
		}
		updated = rows
		for i := range updated {
			updated[i].Status = domain.CommissionStatusApproved
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// PayBatch moves APPROVED commissions to PAID, stamping the payment
// reference and timestamp. Same all-or-nothing rule as ApproveBatch.
func (s *commissionService) PayBatch(ctx context.Context, actor authz.Actor, ids []int64, paymentRef string) ([]domain.Commission, error) {
	if err := authz.Require(actor, authz.ActionPayCommission); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("empty batch: %w", domain.ErrInvalidAmount)
	}
	if paymentRef == "" {
		return nil, fmt.Errorf("payment reference is required: %w", domain.ErrInvalidAmount)
	}

	now := time.Now()
	var updated []domain.Commission
	err := s.store.WithinTx(ctx, func(repos *repository.Repositories) error {
		rows, err := repos.Commissions.ListByIDsForUpdate(ctx, ids)
		if err != nil {
			return err
		}
		if len(rows) != len(ids) {
			return fmt.Errorf("commission batch: %w", domain.ErrNotFound)
		}
		for _, c := range rows {
			if c.Status != domain.CommissionStatusApproved {
				return fmt.Errorf("commission %d is %s: %w", c.ID, c.Status, domain.ErrMixedStatusBatch)
			}
		}
		if err := repos.Commissions.UpdateStatusBatch(ctx, ids, domain.CommissionStatusPaid, &now, paymentRef); err != nil {
			return err
		}
		updated = rows
		for i := range updated {
			updated[i].Status = domain.CommissionStatusPaid
			updated[i].PaidAt = &now
			updated[i].PaymentRef = paymentRef
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// RevertPayment walks back a mistaken payment: the commission returns
// to APPROVED and the payment stamp is cleared. PAID rows are
// otherwise immutable; this is the only operation allowed to touch one.
func (s *commissionService) RevertPayment(ctx context.Context, actor authz.Actor, id int64) (*domain.Commission, error) {
	if err := authz.Require(actor, authz.ActionAlterPaidRecord); err != nil {
		return nil, err
	}

	var c *domain.Commission
	err := s.store.WithinTx(ctx, func(repos *repository.Repositories) error {
		rows, err := repos.Commissions.ListByIDsForUpdate(ctx, []int64{id})
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return fmt.Errorf("commission %d: %w", id, domain.ErrNotFound)
		}
		c = &rows[0]
		if c.Status != domain.CommissionStatusPaid {
			return fmt.Errorf("commission %d is %s: %w", id, c.Status, domain.ErrInvalidTransition)
		}
		c.Status = domain.CommissionStatusApproved
		c.PaidAt = nil
		c.PaymentRef = ""
		return repos.Commissions.Update(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *commissionService) GetCommission(ctx context.Context, id int64) (*domain.Commission, error) {
	return s.store.Repos().Commissions.GetByID(ctx, id)
}

func (s *commissionService) ListCommissions(ctx context.Context, agentID int64, status string, page, pageSize int) ([]domain.Commission, int, error) {
	return s.store.Repos().Commissions.List(ctx, agentID, status, page, pageSize)
}

func (s *commissionService) Summary(ctx context.Context, agentID int64) (*domain.CommissionSummary, error) {
	return s.store.Repos().Commissions.Summary(ctx, agentID)
}
