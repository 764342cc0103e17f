package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"fleet-rental-backend/internal/authz"
	"fleet-rental-backend/internal/domain"
	"fleet-rental-backend/internal/money"
)

var testSettings = money.Settings{TaxRatePercent: 18, TaxEnabled: true}

func testDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func adminActor() authz.Actor {
	return authz.Actor{UserID: 7, Role: domain.RoleAdmin}
}

func availableVehicle() *domain.Vehicle {
	return &domain.Vehicle{
		ID:             2,
		Make:           "Toyota",
		Model:          "Corolla",
		DailyRateCents: 5000,
		DepositCents:   20000,
		Mileage:        41000,
		Status:         domain.VehicleStatusAvailable,
		IsActive:       true,
	}
}

func testCustomer() *domain.Customer {
	return &domain.Customer{ID: 3, FirstName: "Dana", LastName: "Reyes", Email: "dana@test.com"}
}

func TestRentalService_CreateRental(t *testing.T) {
	ctx := context.Background()
	start := testDate(2026, 5, 10)
	end := testDate(2026, 5, 13)

	req := CreateRentalRequest{
		VehicleID:       2,
		AgentID:         5,
		CustomerID:      3,
		StartDate:       start,
		ExpectedEndDate: end,
	}

	t.Run("rate commission from agent percentage", func(t *testing.T) {
		store, m := newMockStore()
		emailSvc := new(MockEmailService)
		svc := NewRentalService(store, emailSvc, testSettings)

		vehicle := availableVehicle()
		agent := &domain.User{ID: 5, Role: domain.RoleAgent, CommissionRatePercent: 10}

		m.Customers.On("GetByID", mock.Anything, int64(3)).Return(testCustomer(), nil)
		m.Users.On("GetByID", mock.Anything, int64(5)).Return(agent, nil)
		m.Vehicles.On("GetByIDForUpdate", mock.Anything, int64(2)).Return(vehicle, nil)
		m.Reservations.On("CountBlockingOverlaps", mock.Anything, int64(2), start, end, int64(0)).Return(0, nil)
		m.Rentals.On("CountActiveOverlaps", mock.Anything, int64(2), start, end).Return(0, nil)
		m.Vehicles.On("SetStatus", mock.Anything, int64(2), domain.VehicleStatusRented).Return(nil)
		m.Vehicles.On("AddStatusChange", mock.Anything, mock.AnythingOfType("*domain.VehicleStatusChange")).Return(nil)
		m.Vehicles.On("GetByID", mock.Anything, int64(2)).Return(vehicle, nil)
		m.Rentals.On("NextContractNumber", mock.Anything).Return(int64(42), nil)
		m.Rentals.On("Create", mock.Anything, mock.AnythingOfType("*domain.Rental")).Return(nil)
		m.Commissions.On("Create", mock.Anything, mock.AnythingOfType("*domain.Commission")).Return(nil)
		m.Notifications.On("Create", mock.Anything, mock.AnythingOfType("*domain.Notification")).Return(nil)
		emailSvc.On("SendRentalCreated", mock.Anything, "dana@test.com", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		emailSvc.On("SendAdminNotification", mock.Anything, mock.Anything, mock.Anything).Return(nil)

		created, err := svc.CreateRental(ctx, adminActor(), req)
		assert.NoError(t, err)
		assert.Empty(t, created.Warnings)

		rt := created.Rental
		assert.Equal(t, 3, rt.TotalDays)
		assert.Equal(t, int64(15000), rt.SubtotalCents)
		assert.Equal(t, int64(2700), rt.TaxCents)
		assert.Equal(t, int64(17700), rt.TotalAmountCents)
		assert.Equal(t, int64(20000), rt.DepositCents)
		assert.Equal(t, int64(41000), rt.StartMileage)
		assert.Equal(t, domain.RentalStatusActive, rt.Status)
		assert.Contains(t, rt.ContractNumber, "RC-")

		// Exactly one commission row: 10% of the 150.00 subtotal
		m.Commissions.AssertNumberOfCalls(t, "Create", 1)
		commission := m.Commissions.Calls[0].Arguments.Get(1).(*domain.Commission)
		assert.Equal(t, domain.CommissionBasisRate, commission.Basis)
		assert.Equal(t, int64(1500), commission.AmountCents)
		assert.Equal(t, domain.CommissionStatusPending, commission.Status)
	})

	t.Run("flat vehicle commission wins over agent rate", func(t *testing.T) {
		store, m := newMockStore()
		emailSvc := new(MockEmailService)
		svc := NewRentalService(store, emailSvc, testSettings)

		vehicle := availableVehicle()
		vehicle.CommissionCents = 400
		agent := &domain.User{ID: 5, Role: domain.RoleAgent, CommissionRatePercent: 10}

		m.Customers.On("GetByID", mock.Anything, int64(3)).Return(testCustomer(), nil)
		m.Users.On("GetByID", mock.Anything, int64(5)).Return(agent, nil)
		m.Vehicles.On("GetByIDForUpdate", mock.Anything, int64(2)).Return(vehicle, nil)
		m.Reservations.On("CountBlockingOverlaps", mock.Anything, int64(2), start, end, int64(0)).Return(0, nil)
		m.Rentals.On("CountActiveOverlaps", mock.Anything, int64(2), start, end).Return(0, nil)
		m.Vehicles.On("SetStatus", mock.Anything, int64(2), domain.VehicleStatusRented).Return(nil)
		m.Vehicles.On("AddStatusChange", mock.Anything, mock.Anything).Return(nil)
		m.Vehicles.On("GetByID", mock.Anything, int64(2)).Return(vehicle, nil)
		m.Rentals.On("NextContractNumber", mock.Anything).Return(int64(43), nil)
		m.Rentals.On("Create", mock.Anything, mock.Anything).Return(nil)
		m.Commissions.On("Create", mock.Anything, mock.AnythingOfType("*domain.Commission")).Return(nil)
		m.Notifications.On("Create", mock.Anything, mock.Anything).Return(nil)
		emailSvc.On("SendRentalCreated", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		emailSvc.On("SendAdminNotification", mock.Anything, mock.Anything, mock.Anything).Return(nil)

		_, err := svc.CreateRental(ctx, adminActor(), req)
		assert.NoError(t, err)

		commission := m.Commissions.Calls[0].Arguments.Get(1).(*domain.Commission)
		assert.Equal(t, domain.CommissionBasisFlat, commission.Basis)
		assert.Equal(t, int64(1200), commission.AmountCents) // 4.00/day over 3 days
	})

	t.Run("vehicle in maintenance rejected", func(t *testing.T) {
		store, m := newMockStore()
		emailSvc := new(MockEmailService)
		svc := NewRentalService(store, emailSvc, testSettings)

		vehicle := availableVehicle()
		vehicle.Status = domain.VehicleStatusMaintenance

		m.Customers.On("GetByID", mock.Anything, int64(3)).Return(testCustomer(), nil)
		m.Users.On("GetByID", mock.Anything, int64(5)).Return(&domain.User{ID: 5}, nil)
		m.Vehicles.On("GetByIDForUpdate", mock.Anything, int64(2)).Return(vehicle, nil)

		created, err := svc.CreateRental(ctx, adminActor(), req)
		assert.ErrorIs(t, err, domain.ErrVehicleUnavailable)
		assert.Nil(t, created)
		m.Rentals.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("reserved vehicle rejected even without a date clash", func(t *testing.T) {
		store, m := newMockStore()
		emailSvc := new(MockEmailService)
		svc := NewRentalService(store, emailSvc, testSettings)

		vehicle := availableVehicle()
		vehicle.Status = domain.VehicleStatusReserved

		m.Customers.On("GetByID", mock.Anything, int64(3)).Return(testCustomer(), nil)
		m.Users.On("GetByID", mock.Anything, int64(5)).Return(&domain.User{ID: 5}, nil)
		m.Vehicles.On("GetByIDForUpdate", mock.Anything, int64(2)).Return(vehicle, nil)
		m.Reservations.On("CountBlockingOverlaps", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(0, nil)
		m.Rentals.On("CountActiveOverlaps", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(0, nil)

		created, err := svc.CreateRental(ctx, adminActor(), req)
		assert.ErrorIs(t, err, domain.ErrVehicleUnavailable)
		assert.Nil(t, created)
		m.Rentals.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("blacklisted customer warns but does not block", func(t *testing.T) {
		store, m := newMockStore()
		emailSvc := new(MockEmailService)
		svc := NewRentalService(store, emailSvc, testSettings)

		vehicle := availableVehicle()
		customer := testCustomer()
		customer.IsBlacklisted = true
		customer.BlacklistReason = "unpaid damages"

		m.Customers.On("GetByID", mock.Anything, int64(3)).Return(customer, nil)
		m.Users.On("GetByID", mock.Anything, int64(5)).Return(&domain.User{ID: 5}, nil)
		m.Vehicles.On("GetByIDForUpdate", mock.Anything, int64(2)).Return(vehicle, nil)
		m.Reservations.On("CountBlockingOverlaps", mock.Anything, int64(2), start, end, int64(0)).Return(0, nil)
		m.Rentals.On("CountActiveOverlaps", mock.Anything, int64(2), start, end).Return(0, nil)
		m.Vehicles.On("SetStatus", mock.Anything, int64(2), domain.VehicleStatusRented).Return(nil)
		m.Vehicles.On("AddStatusChange", mock.Anything, mock.Anything).Return(nil)
		m.Vehicles.On("GetByID", mock.Anything, int64(2)).Return(vehicle, nil)
		m.Rentals.On("NextContractNumber", mock.Anything).Return(int64(44), nil)
		m.Rentals.On("Create", mock.Anything, mock.Anything).Return(nil)
		m.Notifications.On("Create", mock.Anything, mock.Anything).Return(nil)
		emailSvc.On("SendRentalCreated", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		emailSvc.On("SendAdminNotification", mock.Anything, mock.Anything, mock.Anything).Return(nil)

		created, err := svc.CreateRental(ctx, adminActor(), req)
		assert.NoError(t, err)
		assert.Len(t, created.Warnings, 1)
		assert.Contains(t, created.Warnings[0], "blacklisted")
	})

	t.Run("permission denied for unknown role", func(t *testing.T) {
		store, _ := newMockStore()
		svc := NewRentalService(store, new(MockEmailService), testSettings)

		_, err := svc.CreateRental(ctx, authz.Actor{UserID: 1}, req)
		assert.ErrorIs(t, err, domain.ErrPermissionDenied)
	})
}

func TestRentalService_SignContract(t *testing.T) {
	ctx := context.Background()
	customerSig := []byte("customer-strokes")
	agentSig := []byte("agent-strokes")

	t.Run("both signatures freeze the contract once", func(t *testing.T) {
		store, m := newMockStore()
		svc := NewRentalService(store, new(MockEmailService), testSettings)

		rt := &domain.Rental{ID: 9, ContractNumber: "RC-2026-000042", Status: domain.RentalStatusActive}
		m.Rentals.On("GetByIDForUpdate", mock.Anything, int64(9)).Return(rt, nil)
		m.Rentals.On("Update", mock.Anything, mock.AnythingOfType("*domain.Rental")).Return(nil)

		signed, err := svc.SignContract(ctx, adminActor(), 9, customerSig, agentSig)
		assert.NoError(t, err)
		assert.True(t, signed.IsSigned())
		assert.Equal(t, customerSig, signed.CustomerSignature)
	})

	t.Run("second signing attempt rejected", func(t *testing.T) {
		store, m := newMockStore()
		svc := NewRentalService(store, new(MockEmailService), testSettings)

		now := time.Now()
		rt := &domain.Rental{ID: 9, Status: domain.RentalStatusActive, SignedAt: &now}
		m.Rentals.On("GetByIDForUpdate", mock.Anything, int64(9)).Return(rt, nil)

		_, err := svc.SignContract(ctx, adminActor(), 9, customerSig, agentSig)
		assert.ErrorIs(t, err, domain.ErrContractAlreadySigned)
		m.Rentals.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("missing signature rejected", func(t *testing.T) {
		store, _ := newMockStore()
		svc := NewRentalService(store, new(MockEmailService), testSettings)

		_, err := svc.SignContract(ctx, adminActor(), 9, customerSig, nil)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})
}

func TestRentalService_UpdateCharges(t *testing.T) {
	ctx := context.Background()

	t.Run("recomputes total on unsigned contract", func(t *testing.T) {
		store, m := newMockStore()
		svc := NewRentalService(store, new(MockEmailService), testSettings)

		rt := &domain.Rental{
			ID:            9,
			Status:        domain.RentalStatusActive,
			SubtotalCents: 15000,
			TaxCents:      2700,
		}
		m.Rentals.On("GetByIDForUpdate", mock.Anything, int64(9)).Return(rt, nil)
		m.Rentals.On("Update", mock.Anything, mock.Anything).Return(nil)

		updated, err := svc.UpdateCharges(ctx, adminActor(), 9, 1000, 500)
		assert.NoError(t, err)
		assert.Equal(t, int64(17200), updated.TotalAmountCents)
	})

	t.Run("signed contract is immutable", func(t *testing.T) {
		store, m := newMockStore()
		svc := NewRentalService(store, new(MockEmailService), testSettings)

		now := time.Now()
		rt := &domain.Rental{ID: 9, Status: domain.RentalStatusActive, SignedAt: &now}
		m.Rentals.On("GetByIDForUpdate", mock.Anything, int64(9)).Return(rt, nil)

		_, err := svc.UpdateCharges(ctx, adminActor(), 9, 1000, 0)
		assert.ErrorIs(t, err, domain.ErrContractAlreadySigned)
		m.Rentals.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestRentalService_CompleteRental(t *testing.T) {
	ctx := context.Background()

	t.Run("completes and releases the vehicle", func(t *testing.T) {
		store, m := newMockStore()
		svc := NewRentalService(store, new(MockEmailService), testSettings)

		rt := &domain.Rental{ID: 9, VehicleID: 2, Status: domain.RentalStatusOverdue}
		vehicle := availableVehicle()
		vehicle.Status = domain.VehicleStatusRented

		endMileage := int64(41800)
		m.Rentals.On("GetByIDForUpdate", mock.Anything, int64(9)).Return(rt, nil)
		m.Vehicles.On("GetByID", mock.Anything, int64(2)).Return(vehicle, nil)
		m.Vehicles.On("Update", mock.Anything, mock.AnythingOfType("*domain.Vehicle")).Return(nil)
		m.Rentals.On("Update", mock.Anything, mock.Anything).Return(nil)
		m.Vehicles.On("GetByIDForUpdate", mock.Anything, int64(2)).Return(vehicle, nil)
		m.Vehicles.On("SetStatus", mock.Anything, int64(2), domain.VehicleStatusAvailable).Return(nil)
		m.Vehicles.On("AddStatusChange", mock.Anything, mock.Anything).Return(nil)

		completed, err := svc.CompleteRental(ctx, adminActor(), 9, nil, &endMileage)
		assert.NoError(t, err)
		assert.Equal(t, domain.RentalStatusCompleted, completed.Status)
		assert.NotNil(t, completed.ActualEndDate)
		assert.Equal(t, int64(41800), vehicle.Mileage)
	})

	t.Run("completed contract cannot complete again", func(t *testing.T) {
		store, m := newMockStore()
		svc := NewRentalService(store, new(MockEmailService), testSettings)

		rt := &domain.Rental{ID: 9, Status: domain.RentalStatusCompleted}
		m.Rentals.On("GetByIDForUpdate", mock.Anything, int64(9)).Return(rt, nil)

		_, err := svc.CompleteRental(ctx, adminActor(), 9, nil, nil)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})
}

func TestRentalService_CancelRental(t *testing.T) {
	ctx := context.Background()

	setupCancel := func(m *mockRepos, rt *domain.Rental) {
		vehicle := availableVehicle()
		vehicle.Status = domain.VehicleStatusRented
		m.Rentals.On("GetByIDForUpdate", mock.Anything, rt.ID).Return(rt, nil)
		m.Rentals.On("Update", mock.Anything, mock.Anything).Return(nil)
		m.Vehicles.On("GetByIDForUpdate", mock.Anything, rt.VehicleID).Return(vehicle, nil)
		m.Vehicles.On("SetStatus", mock.Anything, rt.VehicleID, domain.VehicleStatusAvailable).Return(nil)
		m.Vehicles.On("AddStatusChange", mock.Anything, mock.Anything).Return(nil)
	}

	t.Run("pending commission cancelled with the contract", func(t *testing.T) {
		store, m := newMockStore()
		svc := NewRentalService(store, new(MockEmailService), testSettings)

		rt := &domain.Rental{ID: 9, VehicleID: 2, Status: domain.RentalStatusActive}
		setupCancel(m, rt)
		commission := &domain.Commission{ID: 4, RentalID: 9, Status: domain.CommissionStatusPending}
		m.Commissions.On("GetByRentalID", mock.Anything, int64(9)).Return(commission, nil)
		m.Commissions.On("Update", mock.Anything, mock.AnythingOfType("*domain.Commission")).Return(nil)

		cancelled, err := svc.CancelRental(ctx, adminActor(), 9, "customer no longer needs it")
		assert.NoError(t, err)
		assert.Equal(t, domain.RentalStatusCancelled, cancelled.Status)
		assert.Equal(t, domain.CommissionStatusCancelled, commission.Status)
	})

	t.Run("paid commission stays paid", func(t *testing.T) {
		store, m := newMockStore()
		svc := NewRentalService(store, new(MockEmailService), testSettings)

		rt := &domain.Rental{ID: 9, VehicleID: 2, Status: domain.RentalStatusActive}
		setupCancel(m, rt)
		commission := &domain.Commission{ID: 4, RentalID: 9, Status: domain.CommissionStatusPaid}
		m.Commissions.On("GetByRentalID", mock.Anything, int64(9)).Return(commission, nil)

		_, err := svc.CancelRental(ctx, adminActor(), 9, "fraud review")
		assert.NoError(t, err)
		assert.Equal(t, domain.CommissionStatusPaid, commission.Status)
		m.Commissions.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("contract without commission cancels cleanly", func(t *testing.T) {
		store, m := newMockStore()
		svc := NewRentalService(store, new(MockEmailService), testSettings)

		rt := &domain.Rental{ID: 9, VehicleID: 2, Status: domain.RentalStatusActive}
		setupCancel(m, rt)
		m.Commissions.On("GetByRentalID", mock.Anything, int64(9)).Return(nil, domain.ErrNotFound)

		_, err := svc.CancelRental(ctx, adminActor(), 9, "duplicate entry")
		assert.NoError(t, err)
	})
}

func TestRentalService_MarkOverdueRentals(t *testing.T) {
	store, m := newMockStore()
	svc := NewRentalService(store, new(MockEmailService), testSettings)

	asOf := testDate(2026, 6, 1)
	marked := []domain.Rental{{ID: 1, Status: domain.RentalStatusOverdue}}
	m.Rentals.On("MarkOverdue", mock.Anything, asOf).Return(marked, nil)

	got, err := svc.MarkOverdueRentals(context.Background(), asOf)
	assert.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestRental_EffectiveStatus(t *testing.T) {
	rt := &domain.Rental{Status: domain.RentalStatusActive, ExpectedEndDate: testDate(2026, 5, 13)}

	assert.Equal(t, domain.RentalStatusActive, rt.EffectiveStatus(testDate(2026, 5, 12)))
	assert.Equal(t, domain.RentalStatusOverdue, rt.EffectiveStatus(testDate(2026, 5, 14)))

	rt.Status = domain.RentalStatusCompleted
	assert.Equal(t, domain.RentalStatusCompleted, rt.EffectiveStatus(testDate(2026, 5, 14)))
}
