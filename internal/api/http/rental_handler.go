package http

import (
	"encoding/base64"
	"net/http"
	"time"

	"fleet-rental-backend/internal/metrics"
	"fleet-rental-backend/internal/money"
	"fleet-rental-backend/internal/service"
)

type RentalHandler struct {
	rentalSvc service.RentalService
	settings  money.Settings
}

func NewRentalHandler(rentalSvc service.RentalService, settings money.Settings) *RentalHandler {
	return &RentalHandler{rentalSvc: rentalSvc, settings: settings}
}

type createRentalRequest struct {
	VehicleID         int64     `json:"vehicle_id"`
	AgentID           int64     `json:"agent_id"`
	CustomerID        int64     `json:"customer_id"`
	CoSignerIDs       []int64   `json:"co_signer_ids"`
	StartDate         time.Time `json:"start_date"`
	ExpectedEndDate   time.Time `json:"expected_end_date"`
	DailyRateCents    int64     `json:"daily_rate_cents"`
	DepositCents      int64     `json:"deposit_cents"`
	DiscountCents     int64     `json:"discount_cents"`
	ExtraChargesCents int64     `json:"extra_charges_cents"`
	Notes             string    `json:"notes"`
}

func (h *RentalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRentalRequest
	if !decodeBody(w, r, &req) {
		return
	}

	created, err := h.rentalSvc.CreateRental(r.Context(), ActorFromContext(r.Context()), service.CreateRentalRequest{
		VehicleID:         req.VehicleID,
		AgentID:           req.AgentID,
		CustomerID:        req.CustomerID,
		CoSignerIDs:       req.CoSignerIDs,
		StartDate:         req.StartDate,
		ExpectedEndDate:   req.ExpectedEndDate,
		DailyRateCents:    req.DailyRateCents,
		DepositCents:      req.DepositCents,
		DiscountCents:     req.DiscountCents,
		ExtraChargesCents: req.ExtraChargesCents,
		Notes:             req.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	metrics.RentalsCreatedTotal.Inc()
	writeJSON(w, http.StatusCreated, newCreatedRentalPayload(created, h.settings))
}

type signContractRequest struct {
	// Base64-encoded signature images.
	CustomerSignature string `json:"customer_signature"`
	AgentSignature    string `json:"agent_signature"`
}

func (h *RentalHandler) Sign(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return
	}
	var req signContractRequest
	if !decodeBody(w, r, &req) {
		return
	}

	customerSig, err := base64.StdEncoding.DecodeString(req.CustomerSignature)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid customer signature encoding"})
		return
	}
	agentSig, err := base64.StdEncoding.DecodeString(req.AgentSignature)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid agent signature encoding"})
		return
	}

	rental, err := h.rentalSvc.SignContract(r.Context(), ActorFromContext(r.Context()), id, customerSig, agentSig)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newRentalPayload(rental, h.settings))
}

type updateChargesRequest struct {
	DiscountCents     int64 `json:"discount_cents"`
	ExtraChargesCents int64 `json:"extra_charges_cents"`
}

func (h *RentalHandler) UpdateCharges(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return
	}
	var req updateChargesRequest
	if !decodeBody(w, r, &req) {
		return
	}
	rental, err := h.rentalSvc.UpdateCharges(r.Context(), ActorFromContext(r.Context()), id, req.DiscountCents, req.ExtraChargesCents)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newRentalPayload(rental, h.settings))
}

type completeRentalRequest struct {
	ActualEndDate *time.Time `json:"actual_end_date"`
	EndMileage    *int64     `json:"end_mileage"`
}

func (h *RentalHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return
	}
	var req completeRentalRequest
	if !decodeBody(w, r, &req) {
		return
	}
	rental, err := h.rentalSvc.CompleteRental(r.Context(), ActorFromContext(r.Context()), id, req.ActualEndDate, req.EndMileage)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newRentalPayload(rental, h.settings))
}

type cancelRentalRequest struct {
	Reason string `json:"reason"`
}

func (h *RentalHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return
	}
	var req cancelRentalRequest
	if !decodeBody(w, r, &req) {
		return
	}
	rental, err := h.rentalSvc.CancelRental(r.Context(), ActorFromContext(r.Context()), id, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newRentalPayload(rental, h.settings))
}

func (h *RentalHandler) ReturnDeposit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return
	}
	rental, err := h.rentalSvc.ReturnDeposit(r.Context(), ActorFromContext(r.Context()), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newRentalPayload(rental, h.settings))
}

func (h *RentalHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return
	}
	rental, err := h.rentalSvc.GetRental(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newRentalPayload(rental, h.settings))
}

// Snapshot returns the frozen contract field set for document
// rendering. Only signed or closed contracts have one.
func (h *RentalHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return
	}
	rental, err := h.rentalSvc.GetRental(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if !rental.IsSigned() && !rental.Status.IsTerminal() {
		writeJSON(w, http.StatusConflict, errorResponse{Error: "contract is not signed or closed"})
		return
	}
	writeJSON(w, http.StatusOK, rental.Snapshot())
}

func (h *RentalHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	rentals, total, err := h.rentalSvc.ListRentals(r.Context(), queryInt64(r, "vehicle_id"), queryInt64(r, "agent_id"), r.URL.Query().Get("status"), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: rentals, Total: total, Page: page, PageSize: pageSize})
}
