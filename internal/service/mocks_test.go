package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"fleet-rental-backend/internal/domain"
	"fleet-rental-backend/internal/repository"
)

// stubStore binds the mock repositories to both the pool path and the
// transactional path; WithinTx simply runs the callback.
type stubStore struct {
	repos *repository.Repositories
}

func (s *stubStore) Repos() *repository.Repositories {
	return s.repos
}

func (s *stubStore) WithinTx(_ context.Context, fn func(*repository.Repositories) error) error {
	return fn(s.repos)
}

func newMockStore() (*stubStore, *mockRepos) {
	m := &mockRepos{
		Users:         new(MockUserRepo),
		Vehicles:      new(MockVehicleRepo),
		Customers:     new(MockCustomerRepo),
		Reservations:  new(MockReservationRepo),
		Rentals:       new(MockRentalRepo),
		Commissions:   new(MockCommissionRepo),
		Expenses:      new(MockExpenseRepo),
		Notifications: new(MockNotificationRepo),
	}
	store := &stubStore{repos: &repository.Repositories{
		Users:         m.Users,
		Vehicles:      m.Vehicles,
		Customers:     m.Customers,
		Reservations:  m.Reservations,
		Rentals:       m.Rentals,
		Commissions:   m.Commissions,
		Expenses:      m.Expenses,
		Notifications: m.Notifications,
	}}
	return store, m
}

type mockRepos struct {
	Users         *MockUserRepo
	Vehicles      *MockVehicleRepo
	Customers     *MockCustomerRepo
	Reservations  *MockReservationRepo
	Rentals       *MockRentalRepo
	Commissions   *MockCommissionRepo
	Expenses      *MockExpenseRepo
	Notifications *MockNotificationRepo
}

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) List(ctx context.Context, page, pageSize int) ([]domain.User, int, error) {
	args := m.Called(ctx, page, pageSize)
	return args.Get(0).([]domain.User), args.Int(1), args.Error(2)
}

// MockVehicleRepo
type MockVehicleRepo struct {
	mock.Mock
}

func (m *MockVehicleRepo) Create(ctx context.Context, vehicle *domain.Vehicle) error {
	args := m.Called(ctx, vehicle)
	return args.Error(0)
}
func (m *MockVehicleRepo) GetByID(ctx context.Context, id int64) (*domain.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}
func (m *MockVehicleRepo) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}
func (m *MockVehicleRepo) Update(ctx context.Context, vehicle *domain.Vehicle) error {
	args := m.Called(ctx, vehicle)
	return args.Error(0)
}
func (m *MockVehicleRepo) SetStatus(ctx context.Context, id int64, status domain.VehicleStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
func (m *MockVehicleRepo) Deactivate(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockVehicleRepo) List(ctx context.Context, status string, page, pageSize int) ([]domain.Vehicle, int, error) {
	args := m.Called(ctx, status, page, pageSize)
	return args.Get(0).([]domain.Vehicle), args.Int(1), args.Error(2)
}
func (m *MockVehicleRepo) AddStatusChange(ctx context.Context, change *domain.VehicleStatusChange) error {
	args := m.Called(ctx, change)
	return args.Error(0)
}
func (m *MockVehicleRepo) ListStatusChanges(ctx context.Context, vehicleID int64) ([]domain.VehicleStatusChange, error) {
	args := m.Called(ctx, vehicleID)
	return args.Get(0).([]domain.VehicleStatusChange), args.Error(1)
}

// MockCustomerRepo
type MockCustomerRepo struct {
	mock.Mock
}

func (m *MockCustomerRepo) Create(ctx context.Context, customer *domain.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}
func (m *MockCustomerRepo) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}
func (m *MockCustomerRepo) Update(ctx context.Context, customer *domain.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}
func (m *MockCustomerRepo) SetBlacklist(ctx context.Context, id int64, blacklisted bool, reason string) error {
	args := m.Called(ctx, id, blacklisted, reason)
	return args.Error(0)
}
func (m *MockCustomerRepo) Search(ctx context.Context, query string, page, pageSize int) ([]domain.Customer, int, error) {
	args := m.Called(ctx, query, page, pageSize)
	return args.Get(0).([]domain.Customer), args.Int(1), args.Error(2)
}

// MockReservationRepo
type MockReservationRepo struct {
	mock.Mock
}

func (m *MockReservationRepo) Create(ctx context.Context, reservation *domain.Reservation) error {
	args := m.Called(ctx, reservation)
	return args.Error(0)
}
func (m *MockReservationRepo) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) Update(ctx context.Context, reservation *domain.Reservation) error {
	args := m.Called(ctx, reservation)
	return args.Error(0)
}
func (m *MockReservationRepo) CountBlockingOverlaps(ctx context.Context, vehicleID int64, start, end time.Time, excludeID int64) (int, error) {
	args := m.Called(ctx, vehicleID, start, end, excludeID)
	return args.Int(0), args.Error(1)
}
func (m *MockReservationRepo) List(ctx context.Context, vehicleID int64, status string, page, pageSize int) ([]domain.Reservation, int, error) {
	args := m.Called(ctx, vehicleID, status, page, pageSize)
	return args.Get(0).([]domain.Reservation), args.Int(1), args.Error(2)
}

// MockRentalRepo
type MockRentalRepo struct {
	mock.Mock
}

func (m *MockRentalRepo) Create(ctx context.Context, rental *domain.Rental) error {
	args := m.Called(ctx, rental)
	return args.Error(0)
}
func (m *MockRentalRepo) GetByID(ctx context.Context, id int64) (*domain.Rental, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Rental, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) Update(ctx context.Context, rental *domain.Rental) error {
	args := m.Called(ctx, rental)
	return args.Error(0)
}
func (m *MockRentalRepo) NextContractNumber(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockRentalRepo) CountActiveOverlaps(ctx context.Context, vehicleID int64, start, end time.Time) (int, error) {
	args := m.Called(ctx, vehicleID, start, end)
	return args.Int(0), args.Error(1)
}
func (m *MockRentalRepo) List(ctx context.Context, vehicleID, agentID int64, status string, page, pageSize int) ([]domain.Rental, int, error) {
	args := m.Called(ctx, vehicleID, agentID, status, page, pageSize)
	return args.Get(0).([]domain.Rental), args.Int(1), args.Error(2)
}
func (m *MockRentalRepo) SumCompletedTotals(ctx context.Context, vehicleID int64, from, to time.Time) (int64, error) {
	args := m.Called(ctx, vehicleID, from, to)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockRentalRepo) MarkOverdue(ctx context.Context, asOf time.Time) ([]domain.Rental, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).([]domain.Rental), args.Error(1)
}

// MockCommissionRepo
type MockCommissionRepo struct {
	mock.Mock
}

func (m *MockCommissionRepo) Create(ctx context.Context, commission *domain.Commission) error {
	args := m.Called(ctx, commission)
	return args.Error(0)
}
func (m *MockCommissionRepo) GetByID(ctx context.Context, id int64) (*domain.Commission, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Commission), args.Error(1)
}
func (m *MockCommissionRepo) GetByRentalID(ctx context.Context, rentalID int64) (*domain.Commission, error) {
	args := m.Called(ctx, rentalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Commission), args.Error(1)
}
func (m *MockCommissionRepo) ListByIDsForUpdate(ctx context.Context, ids []int64) ([]domain.Commission, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]domain.Commission), args.Error(1)
}
func (m *MockCommissionRepo) Update(ctx context.Context, commission *domain.Commission) error {
	args := m.Called(ctx, commission)
	return args.Error(0)
}
func (m *MockCommissionRepo) UpdateStatusBatch(ctx context.Context, ids []int64, status domain.CommissionStatus, paidAt *time.Time, paymentRef string) error {
	args := m.Called(ctx, ids, status, paidAt, paymentRef)
	return args.Error(0)
}
func (m *MockCommissionRepo) List(ctx context.Context, agentID int64, status string, page, pageSize int) ([]domain.Commission, int, error) {
	args := m.Called(ctx, agentID, status, page, pageSize)
	return args.Get(0).([]domain.Commission), args.Int(1), args.Error(2)
}
func (m *MockCommissionRepo) Summary(ctx context.Context, agentID int64) (*domain.CommissionSummary, error) {
	args := m.Called(ctx, agentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CommissionSummary), args.Error(1)
}

// MockExpenseRepo
type MockExpenseRepo struct {
	mock.Mock
}

func (m *MockExpenseRepo) Create(ctx context.Context, expense *domain.Expense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}
func (m *MockExpenseRepo) GetByID(ctx context.Context, id int64) (*domain.Expense, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}
func (m *MockExpenseRepo) List(ctx context.Context, vehicleID int64, from, to time.Time, page, pageSize int) ([]domain.Expense, int, error) {
	args := m.Called(ctx, vehicleID, from, to, page, pageSize)
	return args.Get(0).([]domain.Expense), args.Int(1), args.Error(2)
}
func (m *MockExpenseRepo) SumByVehicle(ctx context.Context, vehicleID int64, from, to time.Time) (int64, error) {
	args := m.Called(ctx, vehicleID, from, to)
	return args.Get(0).(int64), args.Error(1)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}
func (m *MockNotificationRepo) List(ctx context.Context, userID int64, page, pageSize int) ([]domain.Notification, int, error) {
	args := m.Called(ctx, userID, page, pageSize)
	return args.Get(0).([]domain.Notification), args.Int(1), args.Error(2)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, userID int64) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendReservationConfirmation(ctx context.Context, toEmail, toName, code, vehicleName string, start, end time.Time, totalCents int64) error {
	args := m.Called(ctx, toEmail, toName, code, vehicleName, start, end, totalCents)
	return args.Error(0)
}
func (m *MockEmailService) SendRentalCreated(ctx context.Context, toEmail, toName, contractNumber, vehicleName string, start, end time.Time, totalCents int64) error {
	args := m.Called(ctx, toEmail, toName, contractNumber, vehicleName, start, end, totalCents)
	return args.Error(0)
}
func (m *MockEmailService) SendOverdueReminder(ctx context.Context, toEmail, toName, contractNumber string, expectedEnd time.Time) error {
	args := m.Called(ctx, toEmail, toName, contractNumber, expectedEnd)
	return args.Error(0)
}
func (m *MockEmailService) SendAdminNotification(ctx context.Context, subject, message string) error {
	args := m.Called(ctx, subject, message)
	return args.Error(0)
}
