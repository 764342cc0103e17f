package domain

import "time"

type CommissionStatus string

const (
	CommissionStatusPending   CommissionStatus = "PENDING"
	CommissionStatusApproved  CommissionStatus = "APPROVED"
	CommissionStatusPaid      CommissionStatus = "PAID"
	CommissionStatusCancelled CommissionStatus = "CANCELLED"
)

type CommissionBasis string

const (
	CommissionBasisRate CommissionBasis = "RATE"
	CommissionBasisFlat CommissionBasis = "FLAT"
)

// Commission is money owed to the agent who brokered a rental. Exactly
// one row exists per qualifying rental; it moves through its own
// approve/pay workflow independent of the rental's status.
type Commission struct {
	ID       int64 `json:"id"`
	RentalID int64 `json:"rental_id"`
	AgentID  int64 `json:"agent_id"`
	// RatePercent is the agent's percentage snapshot when Basis is
	// RATE; BaseAmountCents is the vehicle's flat per-day amount when
	// Basis is FLAT.
	Basis           CommissionBasis  `json:"basis"`
	RatePercent     float64          `json:"rate_percent,omitempty"`
	BaseAmountCents int64            `json:"base_amount_cents,omitempty"`
	AmountCents     int64            `json:"amount_cents"`
	Status          CommissionStatus `json:"status"`
	PaidAt          *time.Time       `json:"paid_at,omitempty"`
	PaymentRef      string           `json:"payment_ref,omitempty"`
	CreatedOn       time.Time        `json:"created_on"`
	UpdatedOn       time.Time        `json:"updated_on"`
}

// CommissionSummary is a read-side projection over current rows,
// recomputed on every read and never stored.
type CommissionSummary struct {
	PendingCents  int64 `json:"pending_cents"`
	ApprovedCents int64 `json:"approved_cents"`
	PaidCents     int64 `json:"paid_cents"`
	PendingCount  int   `json:"pending_count"`
	ApprovedCount int   `json:"approved_count"`
	PaidCount     int   `json:"paid_count"`
}
