// Package money holds the pricing arithmetic shared by reservations,
// contracts and commissions. All stored amounts are integer cents in
// the primary currency; the only floating-point steps (tax, exchange,
// report percentages) round half-up immediately so repeated reads never
// drift.
package money

import (
	"math"
	"time"

	"fleet-rental-backend/internal/domain"
)

// Settings carries the billing configuration injected into every
// calculation. It is never a package global so tests can vary tax and
// currency regimes freely.
type Settings struct {
	TaxRatePercent        float64
	TaxEnabled            bool
	ExchangeRate          float64
	CurrencyCode          string
	SecondaryCurrencyCode string
}

const day = 24 * time.Hour

// TotalDays returns the billed day count for a date span: the ceiling
// of the span in days, minimum 1. A span of zero or negative length is
// rejected.
func TotalDays(start, end time.Time) (int, error) {
	if !end.After(start) {
		return 0, domain.ErrInvalidDateRange
	}
	d := end.Sub(start)
	days := int(d / day)
	if d%day != 0 {
		days++
	}
	if days < 1 {
		days = 1
	}
	return days, nil
}

// LineTotal is the pre-tax charge for a daily rate over a day count.
func LineTotal(dailyRateCents int64, days int) int64 {
	return dailyRateCents * int64(days)
}

// ApplyTax returns the tax on a subtotal, zero when tax is disabled.
func ApplyTax(subtotalCents int64, s Settings) int64 {
	if !s.TaxEnabled {
		return 0
	}
	return roundHalfUp(float64(subtotalCents) * s.TaxRatePercent / 100)
}

// Total combines the contract amounts. A combination that nets below
// zero (discount exceeding everything else) is invalid.
func Total(subtotalCents, taxCents, discountCents, extraChargesCents int64) (int64, error) {
	total := subtotalCents - discountCents + taxCents + extraChargesCents
	if total < 0 {
		return 0, domain.ErrInvalidAmount
	}
	return total, nil
}

// DualDisplay converts a stored primary-currency amount into the
// secondary currency for display. The result is never persisted.
func DualDisplay(amountCents int64, s Settings) int64 {
	return roundHalfUp(float64(amountCents) * s.ExchangeRate)
}

// RateCommission is a percentage-of-subtotal commission amount.
func RateCommission(subtotalCents int64, ratePercent float64) int64 {
	return roundHalfUp(float64(subtotalCents) * ratePercent / 100)
}

// FlatCommission is a flat per-day commission amount.
func FlatCommission(baseAmountCents int64, days int) int64 {
	return baseAmountCents * int64(days)
}

// RoundPercent rounds a percentage half-up to two decimals for the
// profitability reports.
func RoundPercent(p float64) float64 {
	return math.Floor(p*100+0.5) / 100
}

func roundHalfUp(x float64) int64 {
	return int64(math.Floor(x + 0.5))
}
