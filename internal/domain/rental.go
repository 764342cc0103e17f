package domain

import "time"

type RentalStatus string

const (
	RentalStatusActive    RentalStatus = "ACTIVE"
	RentalStatusCompleted RentalStatus = "COMPLETED"
	RentalStatusCancelled RentalStatus = "CANCELLED"
	RentalStatusOverdue   RentalStatus = "OVERDUE"
)

func (s RentalStatus) IsTerminal() bool {
	return s == RentalStatusCompleted || s == RentalStatusCancelled
}

type Rental struct {
	ID             int64  `json:"id"`
	ContractNumber string `json:"contract_number"`
	ReservationID  *int64 `json:"reservation_id,omitempty"`
	VehicleID      int64  `json:"vehicle_id"`
	AgentID        int64  `json:"agent_id"`
	// Primary signer. Additional signers, if any, co-sign the contract
	// but do not receive notifications.
	CustomerID  int64   `json:"customer_id"`
	CoSignerIDs []int64 `json:"co_signer_ids,omitempty"`

	StartDate       time.Time  `json:"start_date"`
	ExpectedEndDate time.Time  `json:"expected_end_date"`
	ActualEndDate   *time.Time `json:"actual_end_date,omitempty"`
	StartMileage    int64      `json:"start_mileage"`
	EndMileage      *int64     `json:"end_mileage,omitempty"`

	// Price snapshot fields, captured from the vehicle at contract
	// creation. All money on the contract uses these, never the
	// vehicle's live rates.
	DailyRateCents    int64 `json:"daily_rate_cents"`
	TotalDays         int   `json:"total_days"`
	SubtotalCents     int64 `json:"subtotal_cents"`
	TaxCents          int64 `json:"tax_cents"`
	DiscountCents     int64 `json:"discount_cents"`
	ExtraChargesCents int64 `json:"extra_charges_cents"`
	TotalAmountCents  int64 `json:"total_amount_cents"`
	DepositCents      int64 `json:"deposit_cents"`
	DepositReturned   bool  `json:"deposit_returned"`

	Status       RentalStatus `json:"status"`
	CancelReason string       `json:"cancel_reason,omitempty"`

	// Signature blobs are opaque to the engine. SignedAt transitions
	// once from nil to a value; the contract is immutable afterwards.
	CustomerSignature []byte     `json:"customer_signature,omitempty"`
	AgentSignature    []byte     `json:"agent_signature,omitempty"`
	SignedAt          *time.Time `json:"signed_at,omitempty"`

	Notes     string    `json:"notes,omitempty"`
	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

// IsSigned reports whether the contract content is frozen.
func (r *Rental) IsSigned() bool {
	return r.SignedAt != nil
}

// EffectiveStatus derives OVERDUE at read time for active contracts
// past their expected end date. The stored status is only advanced by
// the explicit overdue sweep.
func (r *Rental) EffectiveStatus(now time.Time) RentalStatus {
	if r.Status == RentalStatusActive && now.After(r.ExpectedEndDate) {
		return RentalStatusOverdue
	}
	return r.Status
}

// ContractSnapshot is the frozen field set handed to the document
// renderer once a contract is signed or completed.
type ContractSnapshot struct {
	ContractNumber    string     `json:"contract_number"`
	VehicleID         int64      `json:"vehicle_id"`
	AgentID           int64      `json:"agent_id"`
	CustomerID        int64      `json:"customer_id"`
	CoSignerIDs       []int64    `json:"co_signer_ids,omitempty"`
	StartDate         time.Time  `json:"start_date"`
	ExpectedEndDate   time.Time  `json:"expected_end_date"`
	DailyRateCents    int64      `json:"daily_rate_cents"`
	TotalDays         int        `json:"total_days"`
	SubtotalCents     int64      `json:"subtotal_cents"`
	TaxCents          int64      `json:"tax_cents"`
	DiscountCents     int64      `json:"discount_cents"`
	ExtraChargesCents int64      `json:"extra_charges_cents"`
	TotalAmountCents  int64      `json:"total_amount_cents"`
	DepositCents      int64      `json:"deposit_cents"`
	CustomerSignature []byte     `json:"customer_signature,omitempty"`
	AgentSignature    []byte     `json:"agent_signature,omitempty"`
	SignedAt          *time.Time `json:"signed_at,omitempty"`
}

// Snapshot copies the contract's frozen fields for rendering.
func (r *Rental) Snapshot() ContractSnapshot {
	return ContractSnapshot{
		ContractNumber:    r.ContractNumber,
		VehicleID:         r.VehicleID,
		AgentID:           r.AgentID,
		CustomerID:        r.CustomerID,
		CoSignerIDs:       r.CoSignerIDs,
		StartDate:         r.StartDate,
		ExpectedEndDate:   r.ExpectedEndDate,
		DailyRateCents:    r.DailyRateCents,
		TotalDays:         r.TotalDays,
		SubtotalCents:     r.SubtotalCents,
		TaxCents:          r.TaxCents,
		DiscountCents:     r.DiscountCents,
		ExtraChargesCents: r.ExtraChargesCents,
		TotalAmountCents:  r.TotalAmountCents,
		DepositCents:      r.DepositCents,
		CustomerSignature: r.CustomerSignature,
		AgentSignature:    r.AgentSignature,
		SignedAt:          r.SignedAt,
	}
}
