package http

import (
	"fleet-rental-backend/internal/domain"
	"fleet-rental-backend/internal/money"
	"fleet-rental-backend/internal/service"
)

// Money payloads carry a secondary-currency view of the total next to
// the stored primary-currency cents. The conversion is display-only
// and recomputed on every read.

type rentalPayload struct {
	*domain.Rental
	TotalSecondaryCents int64  `json:"total_secondary_cents"`
	SecondaryCurrency   string `json:"secondary_currency,omitempty"`
}

func newRentalPayload(rt *domain.Rental, s money.Settings) rentalPayload {
	return rentalPayload{
		Rental:              rt,
		TotalSecondaryCents: money.DualDisplay(rt.TotalAmountCents, s),
		SecondaryCurrency:   s.SecondaryCurrencyCode,
	}
}

type createdRentalPayload struct {
	rentalPayload
	Warnings []string `json:"warnings,omitempty"`
}

func newCreatedRentalPayload(created *service.CreatedRental, s money.Settings) createdRentalPayload {
	return createdRentalPayload{
		rentalPayload: newRentalPayload(created.Rental, s),
		Warnings:      created.Warnings,
	}
}

type reservationPayload struct {
	*domain.Reservation
	TotalSecondaryCents int64  `json:"total_secondary_cents"`
	SecondaryCurrency   string `json:"secondary_currency,omitempty"`
}

func newReservationPayload(rv *domain.Reservation, s money.Settings) reservationPayload {
	return reservationPayload{
		Reservation:         rv,
		TotalSecondaryCents: money.DualDisplay(rv.TotalAmountCents, s),
		SecondaryCurrency:   s.SecondaryCurrencyCode,
	}
}
