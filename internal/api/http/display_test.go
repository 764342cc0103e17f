package http

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"fleet-rental-backend/internal/domain"
	"fleet-rental-backend/internal/money"
	"fleet-rental-backend/internal/service"
)

var displaySettings = money.Settings{
	ExchangeRate:          83.5,
	CurrencyCode:          "USD",
	SecondaryCurrencyCode: "INR",
}

func TestRentalPayloadCarriesSecondaryCurrency(t *testing.T) {
	rt := &domain.Rental{ContractNumber: "RC-2026-000042", TotalAmountCents: 17700}

	payload := newRentalPayload(rt, displaySettings)
	assert.Equal(t, int64(1477950), payload.TotalSecondaryCents)
	assert.Equal(t, "INR", payload.SecondaryCurrency)

	body, err := json.Marshal(payload)
	assert.NoError(t, err)
	assert.Contains(t, string(body), `"total_secondary_cents":1477950`)
	assert.Contains(t, string(body), `"contract_number":"RC-2026-000042"`)
}

func TestCreatedRentalPayloadKeepsWarnings(t *testing.T) {
	created := &service.CreatedRental{
		Rental:   &domain.Rental{TotalAmountCents: 10000},
		Warnings: []string{"customer is blacklisted: unpaid damages"},
	}

	payload := newCreatedRentalPayload(created, displaySettings)
	assert.Equal(t, int64(835000), payload.TotalSecondaryCents)
	assert.Equal(t, created.Warnings, payload.Warnings)
}

func TestReservationPayloadCarriesSecondaryCurrency(t *testing.T) {
	rv := &domain.Reservation{Code: "RSV-AB12CD34", TotalAmountCents: 17700}

	payload := newReservationPayload(rv, displaySettings)
	assert.Equal(t, int64(1477950), payload.TotalSecondaryCents)
	assert.Equal(t, "INR", payload.SecondaryCurrency)
}
