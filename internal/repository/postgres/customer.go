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

type customerRepository struct {
	db DBTX
}

func NewCustomerRepository(db DBTX) repository.CustomerRepository {
	return &customerRepository{db: db}
}

const customerColumns = `id, first_name, last_name, email, phone_number, document_type, document_number,
	license_number, address, is_active, is_blacklisted, COALESCE(blacklist_reason, ''), blacklisted_on, created_on, updated_on`

func (r *customerRepository) Create(ctx context.Context, c *domain.Customer) error {
	query := `INSERT INTO customers (first_name, last_name, email, phone_number, document_type, document_number,
	          license_number, address, is_active, is_blacklisted, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query, c.FirstName, c.LastName, c.Email, c.PhoneNumber,
		c.DocumentType, c.DocumentNumber, c.LicenseNumber, c.Address, c.IsActive, c.IsBlacklisted, now, now).Scan(&c.ID)
}

func (r *customerRepository) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	c := &domain.Customer{}
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.PhoneNumber,
		&c.DocumentType, &c.DocumentNumber, &c.LicenseNumber, &c.Address, &c.IsActive,
		&c.IsBlacklisted, &c.BlacklistReason, &c.BlacklistedOn, &c.CreatedOn, &c.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("customer: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *customerRepository) Update(ctx context.Context, c *domain.Customer) error {
	query := `UPDATE customers SET first_name=$1, last_name=$2, email=$3, phone_number=$4, document_type=$5,
	          document_number=$6, license_number=$7, address=$8, is_active=$9, updated_on=$10 WHERE id=$11`
	_, err := r.db.ExecContext(ctx, query, c.FirstName, c.LastName, c.Email, c.PhoneNumber,
		c.DocumentType, c.DocumentNumber, c.LicenseNumber, c.Address, c.IsActive, time.Now(), c.ID)
	return err
}

func (r *customerRepository) SetBlacklist(ctx context.Context, id int64, blacklisted bool, reason string) error {
	var query string
	var err error
	now := time.Now()
	if blacklisted {
		query = `UPDATE customers SET is_blacklisted=true, blacklist_reason=$1, blacklisted_on=$2, updated_on=$2 WHERE id=$3`
		_, err = r.db.ExecContext(ctx, query, reason, now, id)
	} else {
		query = `UPDATE customers SET is_blacklisted=false, blacklist_reason=NULL, blacklisted_on=NULL, updated_on=$1 WHERE id=$2`
		_, err = r.db.ExecContext(ctx, query, now, id)
	}
	return err
}

func (r *customerRepository) Search(ctx context.Context, searchQuery string, page, pageSize int) ([]domain.Customer, int, error) {
	offset := (page - 1) * pageSize
	query := `SELECT ` + customerColumns + ` FROM customers WHERE is_active = true`

	args := []any{}
	argIdx := 1
	if searchQuery != "" {
		query += fmt.Sprintf(` AND (first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d OR document_number ILIKE $%d)`,
			argIdx, argIdx, argIdx, argIdx)
		args = append(args, "%"+searchQuery+"%")
		argIdx++
	}

	var count int
	countQuery := "SELECT count(*) FROM (" + query + ") AS sub"
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(" ORDER BY last_name, first_name LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var customers []domain.Customer
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.PhoneNumber,
			&c.DocumentType, &c.DocumentNumber, &c.LicenseNumber, &c.Address, &c.IsActive,
			&c.IsBlacklisted, &c.BlacklistReason, &c.BlacklistedOn, &c.CreatedOn, &c.UpdatedOn); err != nil {
			return nil, 0, err
		}
		customers = append(customers, c)
	}
	return customers, count, rows.Err()
}
