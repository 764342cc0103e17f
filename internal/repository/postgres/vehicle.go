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

type vehicleRepository struct {
	db DBTX
}

func NewVehicleRepository(db DBTX) repository.VehicleRepository {
	return &vehicleRepository{db: db}
}

const vehicleColumns = `id, plate_number, make, model, year, color, daily_rate_cents, weekly_rate_cents,
	monthly_rate_cents, deposit_cents, commission_cents, mileage, status, is_active, created_on, updated_on`

func (r *vehicleRepository) Create(ctx context.Context, v *domain.Vehicle) error {
	query := `INSERT INTO vehicles (plate_number, make, model, year, color, daily_rate_cents, weekly_rate_cents,
	          monthly_rate_cents, deposit_cents, commission_cents, mileage, status, is_active, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15) RETURNING id`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query, v.PlateNumber, v.Make, v.Model, v.Year, v.Color,
		v.DailyRateCents, v.WeeklyRateCents, v.MonthlyRateCents, v.DepositCents, v.CommissionCents,
		v.Mileage, v.Status, v.IsActive, now, now).Scan(&v.ID)
}

func (r *vehicleRepository) GetByID(ctx context.Context, id int64) (*domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *vehicleRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *vehicleRepository) scanOne(row *sql.Row) (*domain.Vehicle, error) {
	v := &domain.Vehicle{}
	err := row.Scan(&v.ID, &v.PlateNumber, &v.Make, &v.Model, &v.Year, &v.Color,
		&v.DailyRateCents, &v.WeeklyRateCents, &v.MonthlyRateCents, &v.DepositCents, &v.CommissionCents,
		&v.Mileage, &v.Status, &v.IsActive, &v.CreatedOn, &v.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("vehicle: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (r *vehicleRepository) Update(ctx context.Context, v *domain.Vehicle) error {
	query := `UPDATE vehicles SET plate_number=$1, make=$2, model=$3, year=$4, color=$5, daily_rate_cents=$6,
	          weekly_rate_cents=$7, monthly_rate_cents=$8, deposit_cents=$9, commission_cents=$10, mileage=$11,
	          status=$12, is_active=$13, updated_on=$14 WHERE id=$15`
	_, err := r.db.ExecContext(ctx, query, v.PlateNumber, v.Make, v.Model, v.Year, v.Color,
		v.DailyRateCents, v.WeeklyRateCents, v.MonthlyRateCents, v.DepositCents, v.CommissionCents,
		v.Mileage, v.Status, v.IsActive, time.Now(), v.ID)
	return err
}

func (r *vehicleRepository) SetStatus(ctx context.Context, id int64, status domain.VehicleStatus) error {
	query := `UPDATE vehicles SET status=$1, updated_on=$2 WHERE id=$3`
	res, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("vehicle %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

// Deactivate retires a vehicle. Rows are never deleted.
func (r *vehicleRepository) Deactivate(ctx context.Context, id int64) error {
	query := `UPDATE vehicles SET is_active=false, status=$1, updated_on=$2 WHERE id=$3`
	_, err := r.db.ExecContext(ctx, query, domain.VehicleStatusOutOfService, time.Now(), id)
	return err
}

func (r *vehicleRepository) List(ctx context.Context, status string, page, pageSize int) ([]domain.Vehicle, int, error) {
	offset := (page - 1) * pageSize
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE is_active = true`

	args := []any{}
	argIdx := 1
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

	query += fmt.Sprintf(" ORDER BY id LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var vehicles []domain.Vehicle
	for rows.Next() {
		var v domain.Vehicle
		if err := rows.Scan(&v.ID, &v.PlateNumber, &v.Make, &v.Model, &v.Year, &v.Color,
			&v.DailyRateCents, &v.WeeklyRateCents, &v.MonthlyRateCents, &v.DepositCents, &v.CommissionCents,
			&v.Mileage, &v.Status, &v.IsActive, &v.CreatedOn, &v.UpdatedOn); err != nil {
			return nil, 0, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, count, rows.Err()
}

func (r *vehicleRepository) AddStatusChange(ctx context.Context, c *domain.VehicleStatusChange) error {
	query := `INSERT INTO vehicle_status_changes (vehicle_id, from_status, to_status, reason, changed_on)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	return r.db.QueryRowContext(ctx, query, c.VehicleID, c.From, c.To, c.Reason, time.Now()).Scan(&c.ID)
}

func (r *vehicleRepository) ListStatusChanges(ctx context.Context, vehicleID int64) ([]domain.VehicleStatusChange, error) {
	query := `SELECT id, vehicle_id, from_status, to_status, COALESCE(reason, ''), changed_on
	          FROM vehicle_status_changes WHERE vehicle_id = $1 ORDER BY changed_on DESC`
	rows, err := r.db.QueryContext(ctx, query, vehicleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var changes []domain.VehicleStatusChange
	for rows.Next() {
		var c domain.VehicleStatusChange
		if err := rows.Scan(&c.ID, &c.VehicleID, &c.From, &c.To, &c.Reason, &c.ChangedOn); err != nil {
			return nil, err
		}
		changes = append(changes, c)
	}
	return changes, rows.Err()
}
