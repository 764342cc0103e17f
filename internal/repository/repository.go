package repository

import (
	"context"
	"time"

	"fleet-rental-backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	List(ctx context.Context, page, pageSize int) ([]domain.User, int, error)
}

type VehicleRepository interface {
	Create(ctx context.Context, vehicle *domain.Vehicle) error
	GetByID(ctx context.Context, id int64) (*domain.Vehicle, error)
	// GetByIDForUpdate locks the row so the Guard's check-then-act runs
	// serialized against competing writers in the same transaction.
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Vehicle, error)
	Update(ctx context.Context, vehicle *domain.Vehicle) error
	SetStatus(ctx context.Context, id int64, status domain.VehicleStatus) error
	Deactivate(ctx context.Context, id int64) error
	List(ctx context.Context, status string, page, pageSize int) ([]domain.Vehicle, int, error)
	AddStatusChange(ctx context.Context, change *domain.VehicleStatusChange) error
	ListStatusChanges(ctx context.Context, vehicleID int64) ([]domain.VehicleStatusChange, error)
}

type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	GetByID(ctx context.Context, id int64) (*domain.Customer, error)
	Update(ctx context.Context, customer *domain.Customer) error
	SetBlacklist(ctx context.Context, id int64, blacklisted bool, reason string) error
	Search(ctx context.Context, query string, page, pageSize int) ([]domain.Customer, int, error)
}

type ReservationRepository interface {
	Create(ctx context.Context, reservation *domain.Reservation) error
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Reservation, error)
	Update(ctx context.Context, reservation *domain.Reservation) error
	// CountBlockingOverlaps counts PENDING/CONFIRMED reservations for
	// the vehicle whose date range overlaps [start, end], excluding
	// excludeID when non-zero.
	CountBlockingOverlaps(ctx context.Context, vehicleID int64, start, end time.Time, excludeID int64) (int, error)
	List(ctx context.Context, vehicleID int64, status string, page, pageSize int) ([]domain.Reservation, int, error)
}

type RentalRepository interface {
	Create(ctx context.Context, rental *domain.Rental) error
	GetByID(ctx context.Context, id int64) (*domain.Rental, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Rental, error)
	Update(ctx context.Context, rental *domain.Rental) error
	// NextContractNumber draws from a database sequence so contract
	// numbers stay unique and monotonic across concurrent creates.
	NextContractNumber(ctx context.Context) (int64, error)
	CountActiveOverlaps(ctx context.Context, vehicleID int64, start, end time.Time) (int, error)
	List(ctx context.Context, vehicleID, agentID int64, status string, page, pageSize int) ([]domain.Rental, int, error)
	// SumCompletedTotals sums total_amount_cents of COMPLETED rentals
	// overlapping [from, to] for the vehicle.
	SumCompletedTotals(ctx context.Context, vehicleID int64, from, to time.Time) (int64, error)
	// MarkOverdue advances ACTIVE rentals past their expected end date
	// to OVERDUE and returns the affected rows.
	MarkOverdue(ctx context.Context, asOf time.Time) ([]domain.Rental, error)
}

type CommissionRepository interface {
	Create(ctx context.Context, commission *domain.Commission) error
	GetByID(ctx context.Context, id int64) (*domain.Commission, error)
	GetByRentalID(ctx context.Context, rentalID int64) (*domain.Commission, error)
	// ListByIDsForUpdate locks the batch so all-or-nothing approve/pay
	// runs without interleaved status changes.
	ListByIDsForUpdate(ctx context.Context, ids []int64) ([]domain.Commission, error)
	Update(ctx context.Context, commission *domain.Commission) error
	UpdateStatusBatch(ctx context.Context, ids []int64, status domain.CommissionStatus, paidAt *time.Time, paymentRef string) error
	List(ctx context.Context, agentID int64, status string, page, pageSize int) ([]domain.Commission, int, error)
	Summary(ctx context.Context, agentID int64) (*domain.CommissionSummary, error)
}

type ExpenseRepository interface {
	Create(ctx context.Context, expense *domain.Expense) error
	GetByID(ctx context.Context, id int64) (*domain.Expense, error)
	List(ctx context.Context, vehicleID int64, from, to time.Time, page, pageSize int) ([]domain.Expense, int, error)
	SumByVehicle(ctx context.Context, vehicleID int64, from, to time.Time) (int64, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, userID int64, page, pageSize int) ([]domain.Notification, int, error)
	MarkAsRead(ctx context.Context, id, userID int64) error
}

// Repositories bundles the per-entity repositories bound to a single
// database handle, either the pool or one open transaction.
type Repositories struct {
	Users         UserRepository
	Vehicles      VehicleRepository
	Customers     CustomerRepository
	Reservations  ReservationRepository
	Rentals       RentalRepository
	Commissions   CommissionRepository
	Expenses      ExpenseRepository
	Notifications NotificationRepository
}

// Store is the persistence boundary. Every mutating lifecycle
// operation runs inside WithinTx so a transition and its side effects
// (vehicle lock/release, commission creation, cascade) commit together
// or not at all.
type Store interface {
	Repos() *Repositories
	WithinTx(ctx context.Context, fn func(*Repositories) error) error
}
