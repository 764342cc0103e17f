package domain

import "time"

type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleAdmin      Role = "ADMIN"
	RoleAgent      Role = "AGENT"
)

// User is an operator account: agents broker rentals and earn
// commission, admins run the back office.
type User struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Name         string `json:"name"`
	PhoneNumber  string `json:"phone_number"`
	Role         Role   `json:"role"`
	// Percentage of a contract's subtotal paid as commission when the
	// rented vehicle carries no flat per-day amount.
	CommissionRatePercent float64   `json:"commission_rate_percent"`
	IsActive              bool      `json:"is_active"`
	CreatedOn             time.Time `json:"created_on"`
	UpdatedOn             time.Time `json:"updated_on"`
}
