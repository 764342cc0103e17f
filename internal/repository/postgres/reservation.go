package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fleet-rental-backend/internal/domain"
	"fleet-rental-backend/internal/repository"
)

type reservationRepository struct {
	db DBTX
}

func NewReservationRepository(db DBTX) repository.ReservationRepository {
	return &reservationRepository{db: db}
}

const reservationColumns = `id, code, vehicle_id, customer_id, customer_name, customer_email, customer_phone,
	start_date, end_date, total_days, total_amount_cents, payment_status, status, COALESCE(notes, ''), created_on, updated_on`

func (r *reservationRepository) Create(ctx context.Context, rv *domain.Reservation) error {
	query := `INSERT INTO reservations (code, vehicle_id, customer_id, customer_name, customer_email, customer_phone,
	          start_date, end_date, total_days, total_amount_cents, payment_status, status, notes, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15) RETURNING id`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query, rv.Code, rv.VehicleID, rv.CustomerID, rv.CustomerName,
		rv.CustomerEmail, rv.CustomerPhone, rv.StartDate, rv.EndDate, rv.TotalDays, rv.TotalAmountCents,
		rv.PaymentStatus, rv.Status, rv.Notes, now, now).Scan(&rv.ID)
}

func (r *reservationRepository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *reservationRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *reservationRepository) scanOne(row *sql.Row) (*domain.Reservation, error) {
	rv := &domain.Reservation{}
	err := row.Scan(&rv.ID, &rv.Code, &rv.VehicleID, &rv.CustomerID, &rv.CustomerName, &rv.CustomerEmail,
		&rv.CustomerPhone, &rv.StartDate, &rv.EndDate, &rv.TotalDays, &rv.TotalAmountCents,
		&rv.PaymentStatus, &rv.Status, &rv.Notes, &rv.CreatedOn, &rv.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("reservation: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return rv, nil
}

func (r *reservationRepository) Update(ctx context.Context, rv *domain.Reservation) error {
	query := `UPDATE reservations SET start_date=$1, end_date=$2, total_days=$3, total_amount_cents=$4,
	          payment_status=$5, status=$6, notes=$7, updated_on=$8 WHERE id=$9`
	_, err := r.db.ExecContext(ctx, query, rv.StartDate, rv.EndDate, rv.TotalDays, rv.TotalAmountCents,
		rv.PaymentStatus, rv.Status, rv.Notes, time.Now(), rv.ID)
	return err
}

func (r *reservationRepository) CountBlockingOverlaps(ctx context.Context, vehicleID int64, start, end time.Time, excludeID int64) (int, error) {
	query := `SELECT count(*) FROM reservations
	          WHERE vehicle_id = $1 AND status IN ('PENDING', 'CONFIRMED')
	            AND start_date < $3 AND end_date > $2`
	args := []any{vehicleID, start, end}
	if excludeID != 0 {
		query += " AND id <> $4"
		args = append(args, excludeID)
	}
	var count int
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}

func (r *reservationRepository) List(ctx context.Context, vehicleID int64, status string, page, pageSize int) ([]domain.Reservation, int, error) {
	offset := (page - 1) * pageSize
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE 1=1`

	args := []any{}
	argIdx := 1
	if vehicleID != 0 {
		query += fmt.Sprintf(" AND vehicle_id = $%d", argIdx)
		args = append(args, vehicleID)
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

	var reservations []domain.Reservation
	for rows.Next() {
		var rv domain.Reservation
		if err := rows.Scan(&rv.ID, &rv.Code, &rv.VehicleID, &rv.CustomerID, &rv.CustomerName, &rv.CustomerEmail,
			&rv.CustomerPhone, &rv.StartDate, &rv.EndDate, &rv.TotalDays, &rv.TotalAmountCents,
			&rv.PaymentStatus, &rv.Status, &rv.Notes, &rv.CreatedOn, &rv.UpdatedOn); err != nil {
			return nil, 0, err
		}
		reservations = append(reservations, rv)
	}
	return reservations, count, rows.Err()
}
