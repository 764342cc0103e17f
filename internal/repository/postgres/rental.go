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

type rentalRepository struct {
	db DBTX
}

func NewRentalRepository(db DBTX) repository.RentalRepository {
	return &rentalRepository{db: db}
}

const rentalColumns = `id, contract_number, reservation_id, vehicle_id, agent_id, customer_id, co_signer_ids,
	start_date, expected_end_date, actual_end_date, start_mileage, end_mileage,
	daily_rate_cents, total_days, subtotal_cents, tax_cents, discount_cents, extra_charges_cents,
	total_amount_cents, deposit_cents, deposit_returned, status, COALESCE(cancel_reason, ''),
	customer_signature, agent_signature, signed_at, COALESCE(notes, ''), created_on, updated_on`

func (r *rentalRepository) Create(ctx context.Context, rt *domain.Rental) error {
	query := `INSERT INTO rentals (contract_number, reservation_id, vehicle_id, agent_id, customer_id, co_signer_ids,
	          start_date, expected_end_date, start_mileage, daily_rate_cents, total_days, subtotal_cents, tax_cents,
	          discount_cents, extra_charges_cents, total_amount_cents, deposit_cents, deposit_returned, status, notes,
	          created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
	          RETURNING id`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query, rt.ContractNumber, rt.ReservationID, rt.VehicleID, rt.AgentID,
		rt.CustomerID, pq.Array(rt.CoSignerIDs), rt.StartDate, rt.ExpectedEndDate, rt.StartMileage,
		rt.DailyRateCents, rt.TotalDays, rt.SubtotalCents, rt.TaxCents, rt.DiscountCents, rt.ExtraChargesCents,
		rt.TotalAmountCents, rt.DepositCents, rt.DepositReturned, rt.Status, rt.Notes, now, now).Scan(&rt.ID)
}

func (r *rentalRepository) GetByID(ctx context.Context, id int64) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *rentalRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *rentalRepository) scanOne(row *sql.Row) (*domain.Rental, error) {
	rt := &domain.Rental{}
	var coSigners pq.Int64Array
	err := row.Scan(&rt.ID, &rt.ContractNumber, &rt.ReservationID, &rt.VehicleID, &rt.AgentID, &rt.CustomerID,
		&coSigners, &rt.StartDate, &rt.ExpectedEndDate, &rt.ActualEndDate, &rt.StartMileage, &rt.EndMileage,
		&rt.DailyRateCents, &rt.TotalDays, &rt.SubtotalCents, &rt.TaxCents, &rt.DiscountCents, &rt.ExtraChargesCents,
		&rt.TotalAmountCents, &rt.DepositCents, &rt.DepositReturned, &rt.Status, &rt.CancelReason,
		&rt.CustomerSignature, &rt.AgentSignature, &rt.SignedAt, &rt.Notes, &rt.CreatedOn, &rt.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("rental: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	rt.CoSignerIDs = coSigners
	return rt, nil
}

func (r *rentalRepository) Update(ctx context.Context, rt *domain.Rental) error {
	query := `UPDATE rentals SET actual_end_date=$1, end_mileage=$2, discount_cents=$3, extra_charges_cents=$4,
	          total_amount_cents=$5, deposit_returned=$6, status=$7, cancel_reason=$8,
	          customer_signature=$9, agent_signature=$10, signed_at=$11, notes=$12, updated_on=$13 WHERE id=$14`
	_, err := r.db.ExecContext(ctx, query, rt.ActualEndDate, rt.EndMileage, rt.DiscountCents, rt.ExtraChargesCents,
		rt.TotalAmountCents, rt.DepositReturned, rt.Status, rt.CancelReason,
		rt.CustomerSignature, rt.AgentSignature, rt.SignedAt, rt.Notes, time.Now(), rt.ID)
	return err
}

func (r *rentalRepository) NextContractNumber(ctx context.Context) (int64, error) {
	var seq int64
	err := r.db.QueryRowContext(ctx, `SELECT nextval('contract_number_seq')`).Scan(&seq)
	return seq, err
}

func (r *rentalRepository) CountActiveOverlaps(ctx context.Context, vehicleID int64, start, end time.Time) (int, error) {
	query := `SELECT count(*) FROM rentals
	          WHERE vehicle_id = $1 AND status IN ('ACTIVE', 'OVERDUE')
	            AND start_date < $3 AND expected_end_date > $2`
	var count int
	err := r.db.QueryRowContext(ctx, query, vehicleID, start, end).Scan(&count)
	return count, err
}

func (r *rentalRepository) List(ctx context.Context, vehicleID, agentID int64, status string, page, pageSize int) ([]domain.Rental, int, error) {
	offset := (page - 1) * pageSize
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE 1=1`

	args := []any{}
	argIdx := 1
	if vehicleID != 0 {
		query += fmt.Sprintf(" AND vehicle_id = $%d", argIdx)
		args = append(args, vehicleID)
		argIdx++
	}
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

	var rentals []domain.Rental
	for rows.Next() {
		var rt domain.Rental
		var coSigners pq.Int64Array
		if err := rows.Scan(&rt.ID, &rt.ContractNumber, &rt.ReservationID, &rt.VehicleID, &rt.AgentID, &rt.CustomerID,
			&coSigners, &rt.StartDate, &rt.ExpectedEndDate, &rt.ActualEndDate, &rt.StartMileage, &rt.EndMileage,
			&rt.DailyRateCents, &rt.TotalDays, &rt.SubtotalCents, &rt.TaxCents, &rt.DiscountCents, &rt.ExtraChargesCents,
			&rt.TotalAmountCents, &rt.DepositCents, &rt.DepositReturned, &rt.Status, &rt.CancelReason,
			&rt.CustomerSignature, &rt.AgentSignature, &rt.SignedAt, &rt.Notes, &rt.CreatedOn, &rt.UpdatedOn); err != nil {
			return nil, 0, err
		}
		rt.CoSignerIDs = coSigners
		rentals = append(rentals, rt)
	}
	return rentals, count, rows.Err()
}

func (r *rentalRepository) SumCompletedTotals(ctx context.Context, vehicleID int64, from, to time.Time) (int64, error) {
	query := `SELECT COALESCE(SUM(total_amount_cents), 0) FROM rentals
	          WHERE vehicle_id = $1 AND status = 'COMPLETED'
	            AND start_date < $3 AND COALESCE(actual_end_date, expected_end_date) > $2`
	var sum int64
	err := r.db.QueryRowContext(ctx, query, vehicleID, from, to).Scan(&sum)
	return sum, err
}

func (r *rentalRepository) MarkOverdue(ctx context.Context, asOf time.Time) ([]domain.Rental, error) {
	query := `UPDATE rentals SET status = 'OVERDUE', updated_on = $1
	          WHERE status = 'ACTIVE' AND expected_end_date < $1
	          RETURNING ` + rentalColumns
	rows, err := r.db.QueryContext(ctx, query, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rentals []domain.Rental
	for rows.Next() {
		var rt domain.Rental
		var coSigners pq.Int64Array
		if err := rows.Scan(&rt.ID, &rt.ContractNumber, &rt.ReservationID, &rt.VehicleID, &rt.AgentID, &rt.CustomerID,
			&coSigners, &rt.StartDate, &rt.ExpectedEndDate, &rt.ActualEndDate, &rt.StartMileage, &rt.EndMileage,
			&rt.DailyRateCents, &rt.TotalDays, &rt.SubtotalCents, &rt.TaxCents, &rt.DiscountCents, &rt.ExtraChargesCents,
			&rt.TotalAmountCents, &rt.DepositCents, &rt.DepositReturned, &rt.Status, &rt.CancelReason,
			&rt.CustomerSignature, &rt.AgentSignature, &rt.SignedAt, &rt.Notes, &rt.CreatedOn, &rt.UpdatedOn); err != nil {
			return nil, err
		}
		rt.CoSignerIDs = coSigners
		rentals = append(rentals, rt)
	}
	return rentals, rows.Err()
}
