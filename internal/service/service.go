package service

import (
	"context"
	"time"

	"fleet-rental-backend/internal/authz"
	"fleet-rental-backend/internal/domain"
)

type VehicleService interface {
	AddVehicle(ctx context.Context, actor authz.Actor, vehicle *domain.Vehicle) error
	GetVehicle(ctx context.Context, id int64) (*domain.Vehicle, error)
	UpdateVehicle(ctx context.Context, actor authz.Actor, vehicle *domain.Vehicle) error
	DeactivateVehicle(ctx context.Context, actor authz.Actor, id int64) error
	ListVehicles(ctx context.Context, status string, page, pageSize int) ([]domain.Vehicle, int, error)
	MarkMaintenance(ctx context.Context, actor authz.Actor, id int64, reason string) error
	ReturnToService(ctx context.Context, actor authz.Actor, id int64) error
	StatusHistory(ctx context.Context, vehicleID int64) ([]domain.VehicleStatusChange, error)
}

type CustomerService interface {
	CreateCustomer(ctx context.Context, actor authz.Actor, customer *domain.Customer) error
	GetCustomer(ctx context.Context, id int64) (*domain.Customer, error)
	UpdateCustomer(ctx context.Context, actor authz.Actor, customer *domain.Customer) error
	SearchCustomers(ctx context.Context, query string, page, pageSize int) ([]domain.Customer, int, error)
	BlacklistCustomer(ctx context.Context, actor authz.Actor, id int64, reason string) error
	UnblacklistCustomer(ctx context.Context, actor authz.Actor, id int64) error
}

type CreateReservationRequest struct {
	VehicleID  int64
	CustomerID int64
	StartDate  time.Time
	EndDate    time.Time
	Notes      string
}

type ReservationService interface {
	CreateReservation(ctx context.Context, actor authz.Actor, req CreateReservationRequest) (*domain.Reservation, error)
	ConfirmReservation(ctx context.Context, actor authz.Actor, id int64) (*domain.Reservation, error)
	CancelReservation(ctx context.Context, actor authz.Actor, id int64) (*domain.Reservation, error)
	MarkNoShow(ctx context.Context, actor authz.Actor, id int64) (*domain.Reservation, error)
	UpdatePaymentStatus(ctx context.Context, actor authz.Actor, id int64, status domain.PaymentStatus) (*domain.Reservation, error)
	// ConvertToRental creates the contract and advances the reservation
	// to COMPLETED in one transaction.
	ConvertToRental(ctx context.Context, actor authz.Actor, id int64, req ConvertReservationRequest) (*domain.Rental, error)
	GetReservation(ctx context.Context, id int64) (*domain.Reservation, error)
	ListReservations(ctx context.Context, vehicleID int64, status string, page, pageSize int) ([]domain.Reservation, int, error)
}

type ConvertReservationRequest struct {
	AgentID     int64
	CoSignerIDs []int64
	// Overrides for fields defaulted from the reservation. Zero values
	// keep the reservation's dates and the vehicle's rates.
	StartDate         time.Time
	ExpectedEndDate   time.Time
	DailyRateCents    int64
	DiscountCents     int64
	ExtraChargesCents int64
	Notes             string
}

type CreateRentalRequest struct {
	VehicleID         int64
	AgentID           int64
	CustomerID        int64
	CoSignerIDs       []int64
	StartDate         time.Time
	ExpectedEndDate   time.Time
	DailyRateCents    int64 // 0 means snapshot the vehicle's daily rate
	DepositCents      int64 // 0 means snapshot the vehicle's deposit
	DiscountCents     int64
	ExtraChargesCents int64
	Notes             string
}

// CreatedRental pairs the new contract with operator warnings (e.g. a
// blacklisted customer) that do not block creation.
type CreatedRental struct {
	Rental   *domain.Rental
	Warnings []string
}

type RentalService interface {
	CreateRental(ctx context.Context, actor authz.Actor, req CreateRentalRequest) (*CreatedRental, error)
	SignContract(ctx context.Context, actor authz.Actor, id int64, customerSignature, agentSignature []byte) (*domain.Rental, error)
	UpdateCharges(ctx context.Context, actor authz.Actor, id int64, discountCents, extraChargesCents int64) (*domain.Rental, error)
	CompleteRental(ctx context.Context, actor authz.Actor, id int64, actualEndDate *time.Time, endMileage *int64) (*domain.Rental, error)
	CancelRental(ctx context.Context, actor authz.Actor, id int64, reason string) (*domain.Rental, error)
	ReturnDeposit(ctx context.Context, actor authz.Actor, id int64) (*domain.Rental, error)
	MarkOverdueRentals(ctx context.Context, asOf time.Time) ([]domain.Rental, error)
	GetRental(ctx context.Context, id int64) (*domain.Rental, error)
	ListRentals(ctx context.Context, vehicleID, agentID int64, status string, page, pageSize int) ([]domain.Rental, int, error)
}

type CommissionService interface {
	ApproveBatch(ctx context.Context, actor authz.Actor, ids []int64) ([]domain.Commission, error)
	PayBatch(ctx context.Context, actor authz.Actor, ids []int64, paymentRef string) ([]domain.Commission, error)
	RevertPayment(ctx context.Context, actor authz.Actor, id int64) (*domain.Commission, error)
	GetCommission(ctx context.Context, id int64) (*domain.Commission, error)
	ListCommissions(ctx context.Context, agentID int64, status string, page, pageSize int) ([]domain.Commission, int, error)
	Summary(ctx context.Context, agentID int64) (*domain.CommissionSummary, error)
}

// VehicleProfitability is the read-side rollup for one vehicle and
// date window. Percentages are rounded to two decimals.
type VehicleProfitability struct {
	VehicleID      int64   `json:"vehicle_id"`
	RevenueCents   int64   `json:"revenue_cents"`
	ExpenseCents   int64   `json:"expense_cents"`
	NetProfitCents int64   `json:"net_profit_cents"`
	ProfitMargin   float64 `json:"profit_margin"`
	ROI            float64 `json:"roi"`
}

type ReportService interface {
	VehicleProfitability(ctx context.Context, actor authz.Actor, vehicleID int64, from, to time.Time) (*VehicleProfitability, error)
	FleetProfitability(ctx context.Context, actor authz.Actor, from, to time.Time) ([]VehicleProfitability, error)
}

type ExpenseService interface {
	RecordExpense(ctx context.Context, actor authz.Actor, expense *domain.Expense) error
	GetExpense(ctx context.Context, id int64) (*domain.Expense, error)
	ListExpenses(ctx context.Context, vehicleID int64, from, to time.Time, page, pageSize int) ([]domain.Expense, int, error)
}

type NotificationService interface {
	GetNotifications(ctx context.Context, userID int64, page, pageSize int) ([]domain.Notification, int, error)
	MarkAsRead(ctx context.Context, userID, notificationID int64) error
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	CreateUser(ctx context.Context, actor authz.Actor, user *domain.User, password string) error
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	ListUsers(ctx context.Context, page, pageSize int) ([]domain.User, int, error)
}

type EmailService interface {
	SendReservationConfirmation(ctx context.Context, toEmail, toName, code, vehicleName string, start, end time.Time, totalCents int64) error
	SendRentalCreated(ctx context.Context, toEmail, toName, contractNumber, vehicleName string, start, end time.Time, totalCents int64) error
	SendOverdueReminder(ctx context.Context, toEmail, toName, contractNumber string, expectedEnd time.Time) error
	SendAdminNotification(ctx context.Context, subject, message string) error
}
