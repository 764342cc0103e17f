package service

import (
	"context"
	"fmt"

	"fleet-rental-backend/internal/authz"
	"fleet-rental-backend/internal/domain"
	"fleet-rental-backend/internal/repository"
)

type vehicleService struct {
	store repository.Store
	guard Guard
}

func NewVehicleService(store repository.Store) VehicleService {
	return &vehicleService{store: store}
}

func (s *vehicleService) AddVehicle(ctx context.Context, actor authz.Actor, vehicle *domain.Vehicle) error {
	if err := authz.Require(actor, authz.ActionManageVehicles); err != nil {
		return err
	}
	if vehicle.DailyRateCents < 0 || vehicle.DepositCents < 0 || vehicle.CommissionCents < 0 {
		return fmt.Errorf("vehicle rates must be non-negative: %w", domain.ErrInvalidAmount)
	}
	if vehicle.Status == "" {
		vehicle.Status = domain.VehicleStatusAvailable
	}
	vehicle.IsActive = true
	return s.store.Repos().Vehicles.Create(ctx, vehicle)
}

func (s *vehicleService) GetVehicle(ctx context.Context, id int64) (*domain.Vehicle, error) {
	return s.store.Repos().Vehicles.GetByID(ctx, id)
}

// UpdateVehicle changes descriptive fields and rates. Rate changes
// never touch existing contracts; those carry their own snapshot.
func (s *vehicleService) UpdateVehicle(ctx context.Context, actor authz.Actor, vehicle *domain.Vehicle) error {
	if err := authz.Require(actor, authz.ActionManageVehicles); err != nil {
		return err
	}
	if vehicle.DailyRateCents < 0 || vehicle.DepositCents < 0 || vehicle.CommissionCents < 0 {
		return fmt.Errorf("vehicle rates must be non-negative: %w", domain.ErrInvalidAmount)
	}
	return s.store.Repos().Vehicles.Update(ctx, vehicle)
}

func (s *vehicleService) DeactivateVehicle(ctx context.Context, actor authz.Actor, id int64) error {
	if err := authz.Require(actor, authz.ActionManageVehicles); err != nil {
		return err
	}
	return s.store.WithinTx(ctx, func(repos *repository.Repositories) error {
		v, err := repos.Vehicles.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if v.Status == domain.VehicleStatusRented {
			return fmt.Errorf("vehicle %d is rented: %w", id, domain.ErrInvalidTransition)
		}
		return repos.Vehicles.Deactivate(ctx, id)
	})
}

func (s *vehicleService) ListVehicles(ctx context.Context, status string, page, pageSize int) ([]domain.Vehicle, int, error) {
	return s.store.Repos().Vehicles.List(ctx, status, page, pageSize)
}

func (s *vehicleService) MarkMaintenance(ctx context.Context, actor authz.Actor, id int64, reason string) error {
	if err := authz.Require(actor, authz.ActionManageVehicles); err != nil {
		return err
	}
	return s.store.WithinTx(ctx, func(repos *repository.Repositories) error {
		return s.guard.MarkMaintenance(ctx, repos, id, reason)
	})
}

func (s *vehicleService) ReturnToService(ctx context.Context, actor authz.Actor, id int64) error {
	if err := authz.Require(actor, authz.ActionManageVehicles); err != nil {
		return err
	}
	return s.store.WithinTx(ctx, func(repos *repository.Repositories) error {
		v, err := repos.Vehicles.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if v.Status != domain.VehicleStatusMaintenance && v.Status != domain.VehicleStatusOutOfService {
			return fmt.Errorf("vehicle %d status %s: %w", id, v.Status, domain.ErrInvalidTransition)
		}
		return transition(ctx, repos, v, domain.VehicleStatusAvailable, "returned to service")
	})
}

func (s *vehicleService) StatusHistory(ctx context.Context, vehicleID int64) ([]domain.VehicleStatusChange, error) {
	return s.store.Repos().Vehicles.ListStatusChanges(ctx, vehicleID)
}
