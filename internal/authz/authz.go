// Package authz holds the capability table consulted by the lifecycle
// services. Rules are data: changing who may do what is an edit to the
// table, not a code change in a handler.
package authz

import "fleet-rental-backend/internal/domain"

// Action names a role-sensitive operation on the core.
type Action string

const (
	ActionManageVehicles    Action = "vehicles:manage"
	ActionManageCustomers   Action = "customers:manage"
	ActionBlacklistCustomer Action = "customers:blacklist"
	ActionManageReservation Action = "reservations:manage"
	ActionManageRental      Action = "rentals:manage"
	ActionSignContract      Action = "rentals:sign"
	ActionApproveCommission Action = "commissions:approve"
	ActionPayCommission     Action = "commissions:pay"
	ActionAlterPaidRecord   Action = "commissions:alter-paid"
	ActionViewReports       Action = "reports:view"
	ActionManageExpenses    Action = "expenses:manage"
	ActionManageUsers       Action = "users:manage"
)

// Actor is the acting user as handed to the core by the identity
// layer. The core never authenticates; it only enforces the table.
type Actor struct {
	UserID int64
	Role   domain.Role
}

var capabilities = map[domain.Role]map[Action]bool{
	domain.RoleSuperAdmin: {
		ActionManageVehicles:    true,
		ActionManageCustomers:   true,
		ActionBlacklistCustomer: true,
		ActionManageReservation: true,
		ActionManageRental:      true,
		ActionSignContract:      true,
		ActionApproveCommission: true,
		ActionPayCommission:     true,
		ActionAlterPaidRecord:   true,
		ActionViewReports:       true,
		ActionManageExpenses:    true,
		ActionManageUsers:       true,
	},
	domain.RoleAdmin: {
		ActionManageVehicles:    true,
		ActionManageCustomers:   true,
		ActionBlacklistCustomer: true,
		ActionManageReservation: true,
		ActionManageRental:      true,
		ActionSignContract:      true,
		ActionApproveCommission: true,
		ActionPayCommission:     true,
		ActionAlterPaidRecord:   true,
		ActionViewReports:       true,
		ActionManageExpenses:    true,
	},
	domain.RoleAgent: {
		ActionManageCustomers:   true,
		ActionManageReservation: true,
		ActionManageRental:      true,
		ActionSignContract:      true,
	},
}

// Can reports whether the actor's role grants the action.
func Can(actor Actor, action Action) bool {
	return capabilities[actor.Role][action]
}

// Require returns ErrPermissionDenied unless the actor may perform the
// action.
func Require(actor Actor, action Action) error {
	if !Can(actor, action) {
		return domain.ErrPermissionDenied
	}
	return nil
}
