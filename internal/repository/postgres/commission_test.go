package postgres_test

import (
	"context"
	"testing"
	"time"

	"fleet-rental-backend/internal/domain"
	"fleet-rental-backend/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func commissionRows(cs ...domain.Commission) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "rental_id", "agent_id", "basis", "rate_percent", "base_amount_cents", "amount_cents",
		"status", "paid_at", "payment_ref", "created_on", "updated_on",
	})
	for _, c := range cs {
		rows.AddRow(c.ID, c.RentalID, c.AgentID, c.Basis, c.RatePercent, c.BaseAmountCents, c.AmountCents,
			c.Status, c.PaidAt, c.PaymentRef, time.Now(), time.Now())
	}
	return rows
}

func TestCommissionRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewCommissionRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		c := &domain.Commission{
			RentalID:        10,
			AgentID:         4,
			Basis:           domain.CommissionBasisRate,
			RatePercent:     10,
			BaseAmountCents: 15000,
			AmountCents:     1500,
			Status:          domain.CommissionStatusPending,
		}

		mock.ExpectQuery("INSERT INTO commissions").
			WithArgs(c.RentalID, c.AgentID, c.Basis, c.RatePercent, c.BaseAmountCents, c.AmountCents,
				c.Status, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

		err := repo.Create(ctx, c)
		assert.NoError(t, err)
		assert.Equal(t, int64(1), c.ID)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommissionRepository_ListByIDsForUpdate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewCommissionRepository(db)
	ctx := context.Background()

	t.Run("LocksRequestedRows", func(t *testing.T) {
		stored := []domain.Commission{
			{ID: 1, RentalID: 10, AgentID: 4, Basis: domain.CommissionBasisRate, AmountCents: 1500, Status: domain.CommissionStatusPending},
			{ID: 2, RentalID: 11, AgentID: 4, Basis: domain.CommissionBasisFlat, AmountCents: 1200, Status: domain.CommissionStatusPending},
		}
		mock.ExpectQuery("FROM commissions WHERE id = ANY\\(\\$1\\) ORDER BY id FOR UPDATE").
			WithArgs(pq.Array([]int64{1, 2})).
			WillReturnRows(commissionRows(stored...))

		commissions, err := repo.ListByIDsForUpdate(ctx, []int64{1, 2})
		assert.NoError(t, err)
		assert.Len(t, commissions, 2)
		assert.Equal(t, int64(1200), commissions[1].AmountCents)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommissionRepository_UpdateStatusBatch(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewCommissionRepository(db)
	ctx := context.Background()

	t.Run("PayWholeBatch", func(t *testing.T) {
		now := time.Now()
		mock.ExpectExec("UPDATE commissions SET status").
			WithArgs(domain.CommissionStatusPaid, &now, "WIRE-2026-0042", sqlmock.AnyArg(), pq.Array([]int64{1, 2})).
			WillReturnResult(sqlmock.NewResult(0, 2))

		err := repo.UpdateStatusBatch(ctx, []int64{1, 2}, domain.CommissionStatusPaid, &now, "WIRE-2026-0042")
		assert.NoError(t, err)
	})

	t.Run("PartialMatchFails", func(t *testing.T) {
		mock.ExpectExec("UPDATE commissions SET status").
			WithArgs(domain.CommissionStatusApproved, nil, "", sqlmock.AnyArg(), pq.Array([]int64{1, 99})).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateStatusBatch(ctx, []int64{1, 99}, domain.CommissionStatusApproved, nil, "")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommissionRepository_Summary(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewCommissionRepository(db)
	ctx := context.Background()

	summaryColumns := []string{"pending", "approved", "paid", "pending_count", "approved_count", "paid_count"}

	t.Run("AllAgents", func(t *testing.T) {
		mock.ExpectQuery("FROM commissions").
			WillReturnRows(sqlmock.NewRows(summaryColumns).AddRow(3000, 1500, 9000, 2, 1, 6))

		s, err := repo.Summary(ctx, 0)
		assert.NoError(t, err)
		assert.Equal(t, int64(3000), s.PendingCents)
		assert.Equal(t, 6, s.PaidCount)
	})

	t.Run("SingleAgent", func(t *testing.T) {
		mock.ExpectQuery("FROM commissions WHERE agent_id = \\$1").
			WithArgs(int64(4)).
			WillReturnRows(sqlmock.NewRows(summaryColumns).AddRow(1500, 0, 0, 1, 0, 0))

		s, err := repo.Summary(ctx, 4)
		assert.NoError(t, err)
		assert.Equal(t, int64(1500), s.PendingCents)
		assert.Equal(t, int64(0), s.PaidCents)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
