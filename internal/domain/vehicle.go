package domain

import "time"

type VehicleStatus string

const (
	VehicleStatusAvailable    VehicleStatus = "AVAILABLE"
	VehicleStatusReserved     VehicleStatus = "RESERVED"
	VehicleStatusRented       VehicleStatus = "RENTED"
	VehicleStatusMaintenance  VehicleStatus = "MAINTENANCE"
	VehicleStatusOutOfService VehicleStatus = "OUT_OF_SERVICE"
)

type Vehicle struct {
	ID           int64  `json:"id"`
	PlateNumber  string `json:"plate_number"`
	Make         string `json:"make"`
	Model        string `json:"model"`
	Year         int    `json:"year"`
	Color        string `json:"color"`
	// Rate and deposit fields are the live list prices. Contracts copy
	// them at creation time; later edits never touch existing contracts.
	DailyRateCents   int64 `json:"daily_rate_cents"`
	WeeklyRateCents  int64 `json:"weekly_rate_cents"`
	MonthlyRateCents int64 `json:"monthly_rate_cents"`
	DepositCents     int64 `json:"deposit_cents"`
	// Flat per-day agent commission. Zero means rate-based commission
	// from the agent's own percentage, if any.
	CommissionCents int64         `json:"commission_cents"`
	Mileage         int64         `json:"mileage"`
	Status          VehicleStatus `json:"status"`
	IsActive        bool          `json:"is_active"`
	CreatedOn       time.Time     `json:"created_on"`
	UpdatedOn       time.Time     `json:"updated_on"`
}

// VehicleStatusChange is the audit row written on every Guard
// transition. Read-only outside the Guard.
type VehicleStatusChange struct {
	ID        int64         `json:"id"`
	VehicleID int64         `json:"vehicle_id"`
	From      VehicleStatus `json:"from_status"`
	To        VehicleStatus `json:"to_status"`
	Reason    string        `json:"reason"`
	ChangedOn time.Time     `json:"changed_on"`
}
