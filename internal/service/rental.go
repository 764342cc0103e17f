package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fleet-rental-backend/internal/authz"
	"fleet-rental-backend/internal/domain"
	"fleet-rental-backend/internal/logger"
	"fleet-rental-backend/internal/money"
	"fleet-rental-backend/internal/repository"
)

type rentalService struct {
	store    repository.Store
	guard    Guard
	emailSvc EmailService
	settings money.Settings
}

func NewRentalService(store repository.Store, emailSvc EmailService, settings money.Settings) RentalService {
	return &rentalService{
		store:    store,
		emailSvc: emailSvc,
		settings: settings,
	}
}

// createRentalTx is the shared contract-creation core used by direct
// creation and by reservation conversion. It runs inside the caller's
// transaction: vehicle lock, price snapshot, contract number and the
// commission row commit together with the contract or not at all.
func createRentalTx(ctx context.Context, repos *repository.Repositories, guard Guard, settings money.Settings, actor authz.Actor, req CreateRentalRequest, reservationID int64) (*domain.Rental, []string, error) {
	days, err := money.TotalDays(req.StartDate, req.ExpectedEndDate)
	if err != nil {
		return nil, nil, err
	}

	customer, err := repos.Customers.GetByID(ctx, req.CustomerID)
	if err != nil {
		return nil, nil, err
	}
	agent, err := repos.Users.GetByID(ctx, req.AgentID)
	if err != nil {
		return nil, nil, err
	}

	if reservationID != 0 {
		err = guard.LockForConversion(ctx, repos, req.VehicleID, reservationID, req.StartDate, req.ExpectedEndDate)
	} else {
		err = guard.Lock(ctx, repos, req.VehicleID, req.StartDate, req.ExpectedEndDate)
	}
	if err != nil {
		return nil, nil, err
	}

	vehicle, err := repos.Vehicles.GetByID(ctx, req.VehicleID)
	if err != nil {
		return nil, nil, err
	}

	// Snapshot pricing from the vehicle unless the request overrides
	// it. Later vehicle rate edits never touch this contract.
	dailyRate := req.DailyRateCents
	if dailyRate == 0 {
		dailyRate = vehicle.DailyRateCents
	}
	deposit := req.DepositCents
	if deposit == 0 {
		deposit = vehicle.DepositCents
	}

	subtotal := money.LineTotal(dailyRate, days)
	taxes := money.ApplyTax(subtotal, settings)
	total, err := money.Total(subtotal, taxes, req.DiscountCents, req.ExtraChargesCents)
	if err != nil {
		return nil, nil, err
	}

	seq, err := repos.Rentals.NextContractNumber(ctx)
	if err != nil {
		return nil, nil, err
	}

	rt := &domain.Rental{
		ContractNumber:    fmt.Sprintf("RC-%d-%06d", time.Now().Year(), seq),
		VehicleID:         req.VehicleID,
		AgentID:           req.AgentID,
		CustomerID:        req.CustomerID,
		CoSignerIDs:       req.CoSignerIDs,
		StartDate:         req.StartDate,
		ExpectedEndDate:   req.ExpectedEndDate,
		StartMileage:      vehicle.Mileage,
		DailyRateCents:    dailyRate,
		TotalDays:         days,
		SubtotalCents:     subtotal,
		TaxCents:          taxes,
		DiscountCents:     req.DiscountCents,
		ExtraChargesCents: req.ExtraChargesCents,
		TotalAmountCents:  total,
		DepositCents:      deposit,
		Status:            domain.RentalStatusActive,
		Notes:             req.Notes,
	}
	if reservationID != 0 {
		rt.ReservationID = &reservationID
	}
	if err := repos.Rentals.Create(ctx, rt); err != nil {
		return nil, nil, err
	}

	// One commission row per qualifying contract, created in the same
	// transaction so a retried create never duplicates it. The
	// vehicle's flat per-day amount wins over the agent's percentage.
	if vehicle.CommissionCents > 0 {
		commission := &domain.Commission{
			RentalID:        rt.ID,
			AgentID:         agent.ID,
			Basis:           domain.CommissionBasisFlat,
			BaseAmountCents: vehicle.CommissionCents,
			AmountCents:     money.FlatCommission(vehicle.CommissionCents, days),
			Status:          domain.CommissionStatusPending,
		}
		if err := repos.Commissions.Create(ctx, commission); err != nil {
			return nil, nil, err
		}
	} else if agent.CommissionRatePercent > 0 {
		commission := &domain.Commission{
			RentalID:    rt.ID,
			AgentID:     agent.ID,
			Basis:       domain.CommissionBasisRate,
			RatePercent: agent.CommissionRatePercent,
			AmountCents: money.RateCommission(subtotal, agent.CommissionRatePercent),
			Status:      domain.CommissionStatusPending,
		}
		if err := repos.Commissions.Create(ctx, commission); err != nil {
			return nil, nil, err
		}
	}

	note := &domain.Notification{
		UserID:  actor.UserID,
		Title:   "New Contract",
		Message: fmt.Sprintf("Contract %s created for %s", rt.ContractNumber, customer.FullName()),
		Attributes: map[string]string{
			"type":      "RENTAL_CREATED",
			"rental_id": fmt.Sprintf("%d", rt.ID),
		},
	}
	if err := repos.Notifications.Create(ctx, note); err != nil {
		return nil, nil, err
	}

	var warnings []string
	if customer.IsBlacklisted {
		warnings = append(warnings, fmt.Sprintf("customer %s is blacklisted: %s", customer.FullName(), customer.BlacklistReason))
	}
	return rt, warnings, nil
}

func (s *rentalService) CreateRental(ctx context.Context, actor authz.Actor, req CreateRentalRequest) (*CreatedRental, error) {
	if err := authz.Require(actor, authz.ActionManageRental); err != nil {
		return nil, err
	}

	var rt *domain.Rental
	var warnings []string
	err := s.store.WithinTx(ctx, func(repos *repository.Repositories) error {
		var err error
		rt, warnings, err = createRentalTx(ctx, repos, s.guard, s.settings, actor, req, 0)
		return err
	})
	if err != nil {
		return nil, err
	}

	notifyContractCreated(ctx, s.store, s.emailSvc, rt)
	return &CreatedRental{Rental: rt, Warnings: warnings}, nil
}

// notifyContractCreated sends the customer and admin emails for a
// freshly committed contract. Both the direct create and the
// reservation conversion path go through it.
func notifyContractCreated(ctx context.Context, store repository.Store, emailSvc EmailService, rt *domain.Rental) {
	repos := store.Repos()
	customer, err := repos.Customers.GetByID(ctx, rt.CustomerID)
	if err != nil {
		logger.Warn("Failed to load customer for contract notification", "contract", rt.ContractNumber, "error", err)
		return
	}
	vehicle, err := repos.Vehicles.GetByID(ctx, rt.VehicleID)
	if err != nil {
		logger.Warn("Failed to load vehicle for contract notification", "contract", rt.ContractNumber, "error", err)
		return
	}

	vehicleName := vehicle.Make + " " + vehicle.Model
	if err := emailSvc.SendRentalCreated(ctx, customer.Email, customer.FullName(), rt.ContractNumber, vehicleName, rt.StartDate, rt.ExpectedEndDate, rt.TotalAmountCents); err != nil {
		logger.Warn("Failed to send contract email", "contract", rt.ContractNumber, "error", err)
	}
	_ = emailSvc.SendAdminNotification(ctx, "New contract "+rt.ContractNumber,
		fmt.Sprintf("%s rented %s from %s to %s", customer.FullName(), vehicleName,
			rt.StartDate.Format("2006-01-02"), rt.ExpectedEndDate.Format("2006-01-02")))
}

// SignContract freezes the contract. Both signatures are required and
// the transition happens once; a signed contract rejects any further
// signature or pricing edits.
func (s *rentalService) SignContract(ctx context.Context, actor authz.Actor, id int64, customerSignature, agentSignature []byte) (*domain.Rental, error) {
	if err := authz.Require(actor, authz.ActionSignContract); err != nil {
		return nil, err
	}
	if len(customerSignature) == 0 || len(agentSignature) == 0 {
		return nil, fmt.Errorf("both signatures are required: %w", domain.ErrInvalidTransition)
	}

	var rt *domain.Rental
	err := s.store.WithinTx(ctx, func(repos *repository.Repositories) error {
		var err error
		rt, err = repos.Rentals.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if rt.IsSigned() {
			return fmt.Errorf("contract %s: %w", rt.ContractNumber, domain.ErrContractAlreadySigned)
		}
		now := time.Now()
		rt.CustomerSignature = customerSignature
		rt.AgentSignature = agentSignature
		rt.SignedAt = &now
		return repos.Rentals.Update(ctx, rt)
	})
	if err != nil {
		return nil, err
	}
	return rt, nil
}

// UpdateCharges adjusts discount and extra charges on an unsigned
// contract and recomputes the total. Extra days past the expected end
// are billed through this, never auto-computed.
func (s *rentalService) UpdateCharges(ctx context.Context, actor authz.Actor, id int64, discountCents, extraChargesCents int64) (*domain.Rental, error) {
	if err := authz.Require(actor, authz.ActionManageRental); err != nil {
		return nil, err
	}

	var rt *domain.Rental
	err := s.store.WithinTx(ctx, func(repos *repository.Repositories) error {
		var err error
		rt, err = repos.Rentals.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if rt.IsSigned() {
			return fmt.Errorf("contract %s: %w", rt.ContractNumber, domain.ErrContractAlreadySigned)
		}
		if rt.Status.IsTerminal() {
			return fmt.Errorf("contract %s is %s: %w", rt.ContractNumber, rt.Status, domain.ErrInvalidTransition)
		}

		total, err := money.Total(rt.SubtotalCents, rt.TaxCents, discountCents, extraChargesCents)
		if err != nil {
			return err
		}
		rt.DiscountCents = discountCents
		rt.ExtraChargesCents = extraChargesCents
		rt.TotalAmountCents = total
		return repos.Rentals.Update(ctx, rt)
	})
	if err != nil {
		return nil, err
	}
	return rt, nil
}

func (s *rentalService) CompleteRental(ctx context.Context, actor authz.Actor, id int64, actualEndDate *time.Time, endMileage *int64) (*domain.Rental, error) {
	if err := authz.Require(actor, authz.ActionManageRental); err != nil {
		return nil, err
	}

	var rt *domain.Rental
	err := s.store.WithinTx(ctx, func(repos *repository.Repositories) error {
		var err error
		rt, err = repos.Rentals.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if rt.Status != domain.RentalStatusActive && rt.Status != domain.RentalStatusOverdue {
			return fmt.Errorf("contract %s is %s: %w", rt.ContractNumber, rt.Status, domain.ErrInvalidTransition)
		}

		ended := time.Now()
		if actualEndDate != nil {
			ended = *actualEndDate
		}
		rt.ActualEndDate = &ended
		rt.Status = domain.RentalStatusCompleted

		if endMileage != nil {
			rt.EndMileage = endMileage
			vehicle, err := repos.Vehicles.GetByID(ctx, rt.VehicleID)
			if err != nil {
				return err
			}
			if *endMileage > vehicle.Mileage {
				vehicle.Mileage = *endMileage
				if err := repos.Vehicles.Update(ctx, vehicle); err != nil {
					return err
				}
			}
		}

		if err := repos.Rentals.Update(ctx, rt); err != nil {
			return err
		}
		return s.guard.Release(ctx, repos, rt.VehicleID, "contract completed")
	})
	if err != nil {
		return nil, err
	}
	return rt, nil
}

// CancelRental releases the vehicle and cascades any unpaid commission
// to CANCELLED. A PAID commission is history and stays untouched.
func (s *rentalService) CancelRental(ctx context.Context, actor authz.Actor, id int64, reason string) (*domain.Rental, error) {
	if err := authz.Require(actor, authz.ActionManageRental); err != nil {
		return nil, err
	}

	var rt *domain.Rental
	err := s.store.WithinTx(ctx, func(repos *repository.Repositories) error {
		var err error
		rt, err = repos.Rentals.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if rt.Status != domain.RentalStatusActive && rt.Status != domain.RentalStatusOverdue {
			return fmt.Errorf("contract %s is %s: %w", rt.ContractNumber, rt.Status, domain.ErrInvalidTransition)
		}

		rt.Status = domain.RentalStatusCancelled
		rt.CancelReason = reason
		if err := repos.Rentals.Update(ctx, rt); err != nil {
			return err
		}

		commission, err := repos.Commissions.GetByRentalID(ctx, rt.ID)
		if err == nil {
			if commission.Status == domain.CommissionStatusPending || commission.Status == domain.CommissionStatusApproved {
				commission.Status = domain.CommissionStatusCancelled
				if err := repos.Commissions.Update(ctx, commission); err != nil {
					return err
				}
			}
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		return s.guard.Release(ctx, repos, rt.VehicleID, "contract cancelled")
	})
	if err != nil {
		return nil, err
	}
	return rt, nil
}

func (s *rentalService) ReturnDeposit(ctx context.Context, actor authz.Actor, id int64) (*domain.Rental, error) {
	if err := authz.Require(actor, authz.ActionManageRental); err != nil {
		return nil, err
	}

	var rt *domain.Rental
	err := s.store.WithinTx(ctx, func(repos *repository.Repositories) error {
		var err error
		rt, err = repos.Rentals.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !rt.Status.IsTerminal() {
			return fmt.Errorf("contract %s is %s: %w", rt.ContractNumber, rt.Status, domain.ErrInvalidTransition)
		}
		rt.DepositReturned = true
		return repos.Rentals.Update(ctx, rt)
	})
	if err != nil {
		return nil, err
	}
	return rt, nil
}

// MarkOverdueRentals is the stored sweep invoked by the scheduler.
// Reads derive OVERDUE lazily; this only makes it visible to listings
// filtered by stored status.
func (s *rentalService) MarkOverdueRentals(ctx context.Context, asOf time.Time) ([]domain.Rental, error) {
	var marked []domain.Rental
	err := s.store.WithinTx(ctx, func(repos *repository.Repositories) error {
		var err error
		marked, err = repos.Rentals.MarkOverdue(ctx, asOf)
		return err
	})
	if err != nil {
		return nil, err
	}
	return marked, nil
}

func (s *rentalService) GetRental(ctx context.Context, id int64) (*domain.Rental, error) {
	return s.store.Repos().Rentals.GetByID(ctx, id)
}

func (s *rentalService) ListRentals(ctx context.Context, vehicleID, agentID int64, status string, page, pageSize int) ([]domain.Rental, int, error) {
	return s.store.Repos().Rentals.List(ctx, vehicleID, agentID, status, page, pageSize)
}
