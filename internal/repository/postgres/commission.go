package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fleet-rental-backend/internal/domain"
	"fleet-rental-backend/internal/repository"

	"github.com/lib/pq"
)

type commissionRepository struct {
	db DBTX
}

func NewCommissionRepository(db DBTX) repository.CommissionRepository {
	return &commissionRepository{db: db}
}

const commissionColumns = `id, rental_id, agent_id, basis, rate_percent, base_amount_cents, amount_cents,
	status, paid_at, COALESCE(payment_ref, ''), created_on, updated_on`

func (r *commissionRepository) Create(ctx context.Context, c *domain.Commission) error {
	query := `INSERT INTO commissions (rental_id, agent_id, basis, rate_percent, base_amount_cents, amount_cents,
	          status, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query, c.RentalID, c.AgentID, c.Basis, c.RatePercent,
		c.BaseAmountCents, c.AmountCents, c.Status, now, now).Scan(&c.ID)
}

func (r *commissionRepository) GetByID(ctx context.Context, id int64) (*domain.Commission, error) {
	query := `SELECT ` + commissionColumns + ` FROM commissions WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *commissionRepository) GetByRentalID(ctx context.Context, rentalID int64) (*domain.Commission, error) {
	query := `SELECT ` + commissionColumns + ` FROM commissions WHERE rental_id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, rentalID))
}

func (r *commissionRepository) scanOne(row *sql.Row) (*domain.Commission, error) {
	c := &domain.Commission{}
	err := row.Scan(&c.ID, &c.RentalID, &c.AgentID, &c.Basis, &c.RatePercent, &c.BaseAmountCents,
		&c.AmountCents, &c.Status, &c.PaidAt, &c.PaymentRef, &c.CreatedOn, &c.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("commission: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *commissionRepository) ListByIDsForUpdate(ctx context.Context, ids []int64) ([]domain.Commission, error) {
	query := `SELECT ` + commissionColumns + ` FROM commissions WHERE id = ANY($1) ORDER BY id FOR UPDATE`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var commissions []domain.Commission
	for rows.Next() {
		var c domain.Commission
		if err := rows.Scan(&c.ID, &c.RentalID, &c.AgentID, &c.Basis, &c.RatePercent, &c.BaseAmountCents,
			&c.AmountCents, &c.Status, &c.PaidAt, &c.PaymentRef, &c.CreatedOn, &c.UpdatedOn); err != nil {
			return nil, err
		}
		commissions = append(commissions, c)
	}
	return commissions, rows.Err()
}

func (r *commissionRepository) Update(ctx context.Context, c *domain.Commission) error {
	query := `UPDATE commissions SET status=$1, paid_at=$2, payment_ref=$3, updated_on=$4 WHERE id=$5`
	_, err := r.db.ExecContext(ctx, query, c.Status, c.PaidAt, c.PaymentRef, time.Now(), c.ID)
	return err
}

func (r *commissionRepository) UpdateStatusBatch(ctx context.Context, ids []int64, status domain.CommissionStatus, paidAt *time.Time, paymentRef string) error {
	query := `UPDATE commissions SET status=$1, paid_at=COALESCE($2, paid_at), payment_ref=CASE WHEN $3 <> '' THEN $3 ELSE payment_ref END, updated_on=$4
	          WHERE id = ANY($5)`
	res, err := r.db.ExecContext(ctx, query, status, paidAt, paymentRef, time.Now(), pq.Array(ids))
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected != int64(len(ids)) {
		return fmt.Errorf("commission batch update touched %d of %d rows: %w", affected, len(ids), domain.ErrNotFound)
	}
	return nil
}

func (r *commissionRepository) List(ctx context.Context, agentID int64, status string, page, pageSize int) ([]domain.Commission, int, error) {
	offset := (page - 1) * pageSize
	query := `SELECT ` + commissionColumns + ` FROM commissions WHERE 1=1`

	args := []any{}
	argIdx := 1
	if agentID != 0 {
		query += fmt.Sprintf(" AND agent_id = $%d", argIdx)
		args = append(args, agentID)
		argIdx++
	}
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, status)
		argIdx++
	}

	var count int
	countQuery := "SELECT count(*) FROM (" + query + ") AS sub"
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(" ORDER BY created_on DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var commissions []domain.Commission
	for rows.Next() {
		var c domain.Commission
		if err := rows.Scan(&c.ID, &c.RentalID, &c.AgentID, &c.Basis, &c.RatePercent, &c.BaseAmountCents,
			&c.AmountCents, &c.Status, &c.PaidAt, &c.PaymentRef, &c.CreatedOn, &c.UpdatedOn); err != nil {
			return nil, 0, err
		}
		commissions = append(commissions, c)
	}
	return commissions, count, rows.Err()
}

// Summary recomputes status totals from current rows on every read.
func (r *commissionRepository) Summary(ctx context.Context, agentID int64) (*domain.CommissionSummary, error) {
	query := `SELECT
	            COALESCE(SUM(amount_cents) FILTER (WHERE status = 'PENDING'), 0),
	            COALESCE(SUM(amount_cents) FILTER (WHERE status = 'APPROVED'), 0),
	            COALESCE(SUM(amount_cents) FILTER (WHERE status = 'PAID'), 0),
	            COALESCE(COUNT(*) FILTER (WHERE status = 'PENDING'), 0),
	            COALESCE(COUNT(*) FILTER (WHERE status = 'APPROVED'), 0),
	            COALESCE(COUNT(*) FILTER (WHERE status = 'PAID'), 0)
	          FROM commissions`
	args := []any{}
	if agentID != 0 {
		query += " WHERE agent_id = $1"
		args = append(args, agentID)
	}

	s := &domain.CommissionSummary{}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&s.PendingCents, &s.ApprovedCents, &s.PaidCents,
		&s.PendingCount, &s.ApprovedCount, &s.PaidCount)
	if err != nil {
		return nil, err
	}
	return s, nil
}
