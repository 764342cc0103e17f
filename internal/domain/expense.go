package domain

import "time"

type ExpenseCategory string

const (
	ExpenseCategoryMaintenance  ExpenseCategory = "MAINTENANCE"
	ExpenseCategoryFuel         ExpenseCategory = "FUEL"
	ExpenseCategoryInsurance    ExpenseCategory = "INSURANCE"
	ExpenseCategoryRegistration ExpenseCategory = "REGISTRATION"
	ExpenseCategoryOther        ExpenseCategory = "OTHER"
)

// Expense is a pure ledger entry consumed read-only by the
// profitability reports.
type Expense struct {
	ID          int64           `json:"id"`
	VehicleID   int64           `json:"vehicle_id"`
	Category    ExpenseCategory `json:"category"`
	AmountCents int64           `json:"amount_cents"`
	Description string          `json:"description,omitempty"`
	IncurredOn  time.Time       `json:"incurred_on"`
	CreatedOn   time.Time       `json:"created_on"`
}
