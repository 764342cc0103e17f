package service

import (
	"context"
	"fmt"
	"strings"

	"fleet-rental-backend/internal/authz"
	"fleet-rental-backend/internal/domain"
	"fleet-rental-backend/internal/logger"
	"fleet-rental-backend/internal/money"
	"fleet-rental-backend/internal/repository"

	"github.com/google/uuid"
)

type reservationService struct {
	store    repository.Store
	guard    Guard
	emailSvc EmailService
	settings money.Settings
}

func NewReservationService(store repository.Store, emailSvc EmailService, settings money.Settings) ReservationService {
	return &reservationService{
		store:    store,
		emailSvc: emailSvc,
		settings: settings,
	}
}

func newReservationCode() string {
	return "RSV-" + strings.ToUpper(uuid.NewString()[:8])
}

func (s *reservationService) CreateReservation(ctx context.Context, actor authz.Actor, req CreateReservationRequest) (*domain.Reservation, error) {
	if err := authz.Require(actor, authz.ActionManageReservation); err != nil {
		return nil, err
	}

	days, err := money.TotalDays(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	var rv *domain.Reservation
	var vehicle *domain.Vehicle
	err = s.store.WithinTx(ctx, func(repos *repository.Repositories) error {
		customer, err := repos.Customers.GetByID(ctx, req.CustomerID)
		if err != nil {
			return err
		}

		if err := s.guard.Reserve(ctx, repos, req.VehicleID, req.StartDate, req.EndDate); err != nil {
			return err
		}

		vehicle, err = repos.Vehicles.GetByID(ctx, req.VehicleID)
		if err != nil {
			return err
		}

		subtotal := money.LineTotal(vehicle.DailyRateCents, days)
		taxes := money.ApplyTax(subtotal, s.settings)
		total, err := money.Total(subtotal, taxes, 0, 0)
		if err != nil {
			return err
		}

		rv = &domain.Reservation{
			Code:             newReservationCode(),
			VehicleID:        req.VehicleID,
			CustomerID:       customer.ID,
			CustomerName:     customer.FullName(),
			CustomerEmail:    customer.Email,
			CustomerPhone:    customer.PhoneNumber,
			StartDate:        req.StartDate,
			EndDate:          req.EndDate,
			TotalDays:        days,
			TotalAmountCents: total,
			PaymentStatus:    domain.PaymentStatusPending,
			Status:           domain.ReservationStatusPending,
			Notes:            req.Notes,
		}
		if err := repos.Reservations.Create(ctx, rv); err != nil {
			return err
		}

		note := &domain.Notification{
			UserID:  actor.UserID,
			Title:   "New Reservation",
			Message: fmt.Sprintf("Reservation %s created for %s", rv.Code, rv.CustomerName),
			Attributes: map[string]string{
				"type":           "RESERVATION_CREATED",
				"reservation_id": fmt.Sprintf("%d", rv.ID),
			},
		}
		return repos.Notifications.Create(ctx, note)
	})
	if err != nil {
		return nil, err
	}

	vehicleName := vehicle.Make + " " + vehicle.Model
	if err := s.emailSvc.SendReservationConfirmation(ctx, rv.CustomerEmail, rv.CustomerName, rv.Code, vehicleName, rv.StartDate, rv.EndDate, rv.TotalAmountCents); err != nil {
		logger.Warn("Failed to send reservation confirmation", "reservation", rv.Code, "error", err)
	}
	_ = s.emailSvc.SendAdminNotification(ctx, "New reservation "+rv.Code,
		fmt.Sprintf("%s reserved %s from %s to %s", rv.CustomerName, vehicleName,
			rv.StartDate.Format("2006-01-02"), rv.EndDate.Format("2006-01-02")))

	return rv, nil
}

func (s *reservationService) ConfirmReservation(ctx context.Context, actor authz.Actor, id int64) (*domain.Reservation, error) {
	if err := authz.Require(actor, authz.ActionManageReservation); err != nil {
		return nil, err
	}

	var rv *domain.Reservation
	err := s.store.WithinTx(ctx, func(repos *repository.Repositories) error {
		var err error
		rv, err = repos.Reservations.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		// Re-confirming a CONFIRMED reservation is rejected, not
		// silently accepted.
		if rv.Status != domain.ReservationStatusPending {
			return fmt.Errorf("reservation %s is %s: %w", rv.Code, rv.Status, domain.ErrInvalidTransition)
		}
		rv.Status = domain.ReservationStatusConfirmed
		return repos.Reservations.Update(ctx, rv)
	})
	if err != nil {
		return nil, err
	}
	return rv, nil
}

func (s *reservationService) CancelReservation(ctx context.Context, actor authz.Actor, id int64) (*domain.Reservation, error) {
	if err := authz.Require(actor, authz.ActionManageReservation); err != nil {
		return nil, err
	}

	var rv *domain.Reservation
	err := s.store.WithinTx(ctx, func(repos *repository.Repositories) error {
		var err error
		rv, err = repos.Reservations.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if rv.Status != domain.ReservationStatusPending && rv.Status != domain.ReservationStatusConfirmed {
			return fmt.Errorf("reservation %s is %s: %w", rv.Code, rv.Status, domain.ErrInvalidTransition)
		}
		rv.Status = domain.ReservationStatusCancelled
		if err := repos.Reservations.Update(ctx, rv); err != nil {
			return err
		}
		return s.guard.Release(ctx, repos, rv.VehicleID, "reservation cancelled")
	})
	if err != nil {
		return nil, err
	}
	return rv, nil
}

func (s *reservationService) MarkNoShow(ctx context.Context, actor authz.Actor, id int64) (*domain.Reservation, error) {
	if err := authz.Require(actor, authz.ActionManageReservation); err != nil {
		return nil, err
	}

	var rv *domain.Reservation
	err := s.store.WithinTx(ctx, func(repos *repository.Repositories) error {
		var err error
		rv, err = repos.Reservations.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if rv.Status != domain.ReservationStatusConfirmed {
			return fmt.Errorf("reservation %s is %s: %w", rv.Code, rv.Status, domain.ErrInvalidTransition)
		}
		rv.Status = domain.ReservationStatusNoShow
		if err := repos.Reservations.Update(ctx, rv); err != nil {
			return err
		}
		return s.guard.Release(ctx, repos, rv.VehicleID, "reservation no-show")
	})
	if err != nil {
		return nil, err
	}
	return rv, nil
}

func (s *reservationService) UpdatePaymentStatus(ctx context.Context, actor authz.Actor, id int64, status domain.PaymentStatus) (*domain.Reservation, error) {
	if err := authz.Require(actor, authz.ActionManageReservation); err != nil {
		return nil, err
	}

	var rv *domain.Reservation
	err := s.store.WithinTx(ctx, func(repos *repository.Repositories) error {
		var err error
		rv, err = repos.Reservations.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		rv.PaymentStatus = status
		return repos.Reservations.Update(ctx, rv)
	})
	if err != nil {
		return nil, err
	}
	return rv, nil
}

// ConvertToRental creates the contract from a CONFIRMED reservation
// and completes the reservation in the same transaction, so no window
// exists where the contract is live while the reservation still reads
// CONFIRMED.
func (s *reservationService) ConvertToRental(ctx context.Context, actor authz.Actor, id int64, req ConvertReservationRequest) (*domain.Rental, error) {
	if err := authz.Require(actor, authz.ActionManageRental); err != nil {
		return nil, err
	}

	var rt *domain.Rental
	err := s.store.WithinTx(ctx, func(repos *repository.Repositories) error {
		rv, err := repos.Reservations.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if rv.Status != domain.ReservationStatusConfirmed {
			return fmt.Errorf("reservation %s is %s: %w", rv.Code, rv.Status, domain.ErrInvalidTransition)
		}

		createReq := CreateRentalRequest{
			VehicleID:         rv.VehicleID,
			AgentID:           req.AgentID,
			CustomerID:        rv.CustomerID,
			CoSignerIDs:       req.CoSignerIDs,
			StartDate:         rv.StartDate,
			ExpectedEndDate:   rv.EndDate,
			DailyRateCents:    req.DailyRateCents,
			DiscountCents:     req.DiscountCents,
			ExtraChargesCents: req.ExtraChargesCents,
			Notes:             req.Notes,
		}
		// The caller may adjust dates before submission; the
		// reservation's span is only the default.
		if !req.StartDate.IsZero() {
			createReq.StartDate = req.StartDate
		}
		if !req.ExpectedEndDate.IsZero() {
			createReq.ExpectedEndDate = req.ExpectedEndDate
		}

		rt, _, err = createRentalTx(ctx, repos, s.guard, s.settings, actor, createReq, rv.ID)
		if err != nil {
			return err
		}

		rv.Status = domain.ReservationStatusCompleted
		return repos.Reservations.Update(ctx, rv)
	})
	if err != nil {
		return nil, err
	}

	notifyContractCreated(ctx, s.store, s.emailSvc, rt)
	return rt, nil
}

func (s *reservationService) GetReservation(ctx context.Context, id int64) (*domain.Reservation, error) {
	return s.store.Repos().Reservations.GetByID(ctx, id)
}

func (s *reservationService) ListReservations(ctx context.Context, vehicleID int64, status string, page, pageSize int) ([]domain.Reservation, int, error) {
	return s.store.Repos().Reservations.List(ctx, vehicleID, status, page, pageSize)
}
