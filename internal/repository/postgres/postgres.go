package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"fleet-rental-backend/internal/repository"

	_ "github.com/lib/pq"
)

// DBTX is the subset of database/sql shared by *sql.DB and *sql.Tx.
// Repositories are bound to it so the same code runs against the pool
// or inside one transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db    *sql.DB
	repos *repository.Repositories
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:    db,
		repos: newRepositories(db),
	}
}

func newRepositories(db DBTX) *repository.Repositories {
	return &repository.Repositories{
		Users:         NewUserRepository(db),
		Vehicles:      NewVehicleRepository(db),
		Customers:     NewCustomerRepository(db),
		Reservations:  NewReservationRepository(db),
		Rentals:       NewRentalRepository(db),
		Commissions:   NewCommissionRepository(db),
		Expenses:      NewExpenseRepository(db),
		Notifications: NewNotificationRepository(db),
	}
}

// Repos returns auto-commit repositories bound to the pool.
func (s *Store) Repos() *repository.Repositories {
	return s.repos
}

// WithinTx runs fn against repositories bound to a single transaction
// and commits only if fn returns nil.
func (s *Store) WithinTx(ctx context.Context, fn func(*repository.Repositories) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(newRepositories(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
