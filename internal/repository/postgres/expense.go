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

type expenseRepository struct {
	db DBTX
}

func NewExpenseRepository(db DBTX) repository.ExpenseRepository {
	return &expenseRepository{db: db}
}

func (r *expenseRepository) Create(ctx context.Context, e *domain.Expense) error {
	query := `INSERT INTO expenses (vehicle_id, category, amount_cents, description, incurred_on, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	return r.db.QueryRowContext(ctx, query, e.VehicleID, e.Category, e.AmountCents, e.Description,
		e.IncurredOn, time.Now()).Scan(&e.ID)
}

func (r *expenseRepository) GetByID(ctx context.Context, id int64) (*domain.Expense, error) {
	e := &domain.Expense{}
	query := `SELECT id, vehicle_id, category, amount_cents, COALESCE(description, ''), incurred_on, created_on
	          FROM expenses WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&e.ID, &e.VehicleID, &e.Category, &e.AmountCents,
		&e.Description, &e.IncurredOn, &e.CreatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("expense: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *expenseRepository) List(ctx context.Context, vehicleID int64, from, to time.Time, page, pageSize int) ([]domain.Expense, int, error) {
	offset := (page - 1) * pageSize
	query := `SELECT id, vehicle_id, category, amount_cents, COALESCE(description, ''), incurred_on, created_on
	          FROM expenses WHERE 1=1`

	args := []any{}
	argIdx := 1
	if vehicleID != 0 {
		query += fmt.Sprintf(" AND vehicle_id = $%d", argIdx)
		args = append(args, vehicleID)
		argIdx++
	}
	if !from.IsZero() {
		query += fmt.Sprintf(" AND incurred_on >= $%d", argIdx)
		args = append(args, from)
		argIdx++
	}
	if !to.IsZero() {
		query += fmt.Sprintf(" AND incurred_on <= $%d", argIdx)
		args = append(args, to)
		argIdx++
	}

	var count int
	countQuery := "SELECT count(*) FROM (" + query + ") AS sub"
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(" ORDER BY incurred_on DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var expenses []domain.Expense
	for rows.Next() {
		var e domain.Expense
		if err := rows.Scan(&e.ID, &e.VehicleID, &e.Category, &e.AmountCents, &e.Description,
			&e.IncurredOn, &e.CreatedOn); err != nil {
			return nil, 0, err
		}
		expenses = append(expenses, e)
	}
	return expenses, count, rows.Err()
}

func (r *expenseRepository) SumByVehicle(ctx context.Context, vehicleID int64, from, to time.Time) (int64, error) {
	query := `SELECT COALESCE(SUM(amount_cents), 0) FROM expenses
	          WHERE vehicle_id = $1 AND incurred_on >= $2 AND incurred_on <= $3`
	var sum int64
	err := r.db.QueryRowContext(ctx, query, vehicleID, from, to).Scan(&sum)
	return sum, err
}
