package domain

import "time"

type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "PENDING"
	ReservationStatusConfirmed ReservationStatus = "CONFIRMED"
	ReservationStatusCancelled ReservationStatus = "CANCELLED"
	ReservationStatusCompleted ReservationStatus = "COMPLETED"
	ReservationStatusNoShow    ReservationStatus = "NO_SHOW"
)

// IsTerminal reports whether no further transition is allowed.
func (s ReservationStatus) IsTerminal() bool {
	switch s {
	case ReservationStatusCancelled, ReservationStatusCompleted, ReservationStatusNoShow:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusPartial  PaymentStatus = "PARTIAL"
	PaymentStatusPaid     PaymentStatus = "PAID"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
)

type Reservation struct {
	ID         int64  `json:"id"`
	Code       string `json:"code"`
	VehicleID  int64  `json:"vehicle_id"`
	CustomerID int64  `json:"customer_id"`
	// Contact snapshot taken at intake so the booking survives later
	// customer record edits.
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	CustomerPhone string `json:"customer_phone"`

	StartDate        time.Time         `json:"start_date"`
	EndDate          time.Time         `json:"end_date"`
	TotalDays        int               `json:"total_days"`
	TotalAmountCents int64             `json:"total_amount_cents"`
	PaymentStatus    PaymentStatus     `json:"payment_status"`
	Status           ReservationStatus `json:"status"`
	Notes            string            `json:"notes,omitempty"`
	CreatedOn        time.Time         `json:"created_on"`
	UpdatedOn        time.Time         `json:"updated_on"`
}
