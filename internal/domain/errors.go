package domain

import "errors"

// Business-rule failures returned by the lifecycle services. The HTTP
// layer maps them to status codes with errors.Is; services wrap them
// with fmt.Errorf("...: %w", err) to add context.
var (
	ErrInvalidDateRange      = errors.New("end date must be after start date")
	ErrVehicleUnavailable    = errors.New("vehicle is not available for the requested period")
	ErrInvalidTransition     = errors.New("invalid status transition")
	ErrContractAlreadySigned = errors.New("contract is already signed")
	ErrInvalidAmount         = errors.New("amount must not be negative")
	ErrMixedStatusBatch      = errors.New("all commissions in a batch must share the required status")
	ErrNotFound              = errors.New("not found")
	ErrPermissionDenied      = errors.New("permission denied")
)
