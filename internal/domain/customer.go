package domain

import "time"

type Customer struct {
	ID             int64      `json:"id"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	Email          string     `json:"email"`
	PhoneNumber    string     `json:"phone_number"`
	DocumentType   string     `json:"document_type"`
	DocumentNumber string     `json:"document_number"`
	LicenseNumber  string     `json:"license_number"`
	Address        string     `json:"address"`
	IsActive       bool       `json:"is_active"`
	// Blacklisting is a flag surfaced to the operator, not a lifecycle
	// state. It does not block contract creation on its own.
	IsBlacklisted   bool       `json:"is_blacklisted"`
	BlacklistReason string     `json:"blacklist_reason,omitempty"`
	BlacklistedOn   *time.Time `json:"blacklisted_on,omitempty"`
	CreatedOn       time.Time  `json:"created_on"`
	UpdatedOn       time.Time  `json:"updated_on"`
}

func (c *Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}
