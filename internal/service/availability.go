package service

import (
	"context"
	"fmt"
	"time"

	"fleet-rental-backend/internal/domain"
	"fleet-rental-backend/internal/repository"
)

// Guard enforces that a vehicle cannot be double-booked. It holds no
// state of its own; every check-then-act runs against rows the caller
// has open inside one transaction, so concurrent conflicting creates
// serialize on the vehicle row and exactly one of them succeeds.
type Guard struct{}

// Reserve puts an AVAILABLE vehicle on RESERVED hold for a date range.
// Fails when the vehicle is not AVAILABLE or a blocking reservation or
// active contract overlaps the range.
func (Guard) Reserve(ctx context.Context, repos *repository.Repositories, vehicleID int64, start, end time.Time) error {
	v, err := repos.Vehicles.GetByIDForUpdate(ctx, vehicleID)
	if err != nil {
		return err
	}
	if !v.IsActive || (v.Status != domain.VehicleStatusAvailable && v.Status != domain.VehicleStatusReserved) {
		return fmt.Errorf("vehicle %d status %s: %w", vehicleID, v.Status, domain.ErrVehicleUnavailable)
	}

	if err := checkOverlaps(ctx, repos, vehicleID, start, end, 0); err != nil {
		return err
	}

	if v.Status == domain.VehicleStatusAvailable {
		return transition(ctx, repos, v, domain.VehicleStatusReserved, "reservation hold")
	}
	// Already RESERVED for a non-overlapping range; the hold stands.
	return nil
}

// Lock moves an AVAILABLE vehicle to RENTED when a contract takes
// effect. Any other status fails, whatever the dates; a RESERVED
// vehicle only becomes RENTED through LockForConversion.
func (Guard) Lock(ctx context.Context, repos *repository.Repositories, vehicleID int64, start, end time.Time) error {
	v, err := repos.Vehicles.GetByIDForUpdate(ctx, vehicleID)
	if err != nil {
		return err
	}
	if !v.IsActive || v.Status != domain.VehicleStatusAvailable {
		return fmt.Errorf("vehicle %d status %s: %w", vehicleID, v.Status, domain.ErrVehicleUnavailable)
	}

	if err := checkOverlaps(ctx, repos, vehicleID, start, end, 0); err != nil {
		return err
	}

	return transition(ctx, repos, v, domain.VehicleStatusRented, "contract lock")
}

// LockForConversion is Lock with the originating reservation excluded
// from the overlap check: the reservation being converted is the hold.
func (Guard) LockForConversion(ctx context.Context, repos *repository.Repositories, vehicleID, reservationID int64, start, end time.Time) error {
	v, err := repos.Vehicles.GetByIDForUpdate(ctx, vehicleID)
	if err != nil {
		return err
	}
	if !v.IsActive || (v.Status != domain.VehicleStatusAvailable && v.Status != domain.VehicleStatusReserved) {
		return fmt.Errorf("vehicle %d status %s: %w", vehicleID, v.Status, domain.ErrVehicleUnavailable)
	}

	if err := checkOverlaps(ctx, repos, vehicleID, start, end, reservationID); err != nil {
		return err
	}

	return transition(ctx, repos, v, domain.VehicleStatusRented, "contract lock")
}

// Release returns a vehicle to AVAILABLE. Releasing an AVAILABLE
// vehicle is a no-op, not an error.
func (Guard) Release(ctx context.Context, repos *repository.Repositories, vehicleID int64, reason string) error {
	v, err := repos.Vehicles.GetByIDForUpdate(ctx, vehicleID)
	if err != nil {
		return err
	}
	if v.Status == domain.VehicleStatusAvailable {
		return nil
	}
	// Maintenance and out-of-service states are left alone; a manual
	// action ends them, not a contract close.
	if v.Status == domain.VehicleStatusMaintenance || v.Status == domain.VehicleStatusOutOfService {
		return nil
	}
	return transition(ctx, repos, v, domain.VehicleStatusAvailable, reason)
}

// MarkMaintenance takes a vehicle out of the bookable pool. A RENTED
// vehicle cannot go to maintenance until its contract closes.
func (Guard) MarkMaintenance(ctx context.Context, repos *repository.Repositories, vehicleID int64, reason string) error {
	v, err := repos.Vehicles.GetByIDForUpdate(ctx, vehicleID)
	if err != nil {
		return err
	}
	if v.Status == domain.VehicleStatusRented {
		return fmt.Errorf("vehicle %d is rented: %w", vehicleID, domain.ErrInvalidTransition)
	}
	if v.Status == domain.VehicleStatusMaintenance {
		return nil
	}
	return transition(ctx, repos, v, domain.VehicleStatusMaintenance, reason)
}

func checkOverlaps(ctx context.Context, repos *repository.Repositories, vehicleID int64, start, end time.Time, excludeReservationID int64) error {
	reservations, err := repos.Reservations.CountBlockingOverlaps(ctx, vehicleID, start, end, excludeReservationID)
	if err != nil {
		return err
	}
	if reservations > 0 {
		return fmt.Errorf("vehicle %d has %d overlapping reservation(s): %w", vehicleID, reservations, domain.ErrVehicleUnavailable)
	}

	rentals, err := repos.Rentals.CountActiveOverlaps(ctx, vehicleID, start, end)
	if err != nil {
		return err
	}
	if rentals > 0 {
		return fmt.Errorf("vehicle %d has %d overlapping contract(s): %w", vehicleID, rentals, domain.ErrVehicleUnavailable)
	}
	return nil
}

// transition writes the status change and its audit row together.
func transition(ctx context.Context, repos *repository.Repositories, v *domain.Vehicle, to domain.VehicleStatus, reason string) error {
	if err := repos.Vehicles.SetStatus(ctx, v.ID, to); err != nil {
		return err
	}
	change := &domain.VehicleStatusChange{
		VehicleID: v.ID,
		From:      v.Status,
		To:        to,
		Reason:    reason,
	}
	return repos.Vehicles.AddStatusChange(ctx, change)
}
