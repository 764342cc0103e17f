package http

import (
	"context"
	"net/http"
	"time"

	"fleet-rental-backend/internal/authz"
	"fleet-rental-backend/internal/domain"
	"fleet-rental-backend/internal/metrics"
	"fleet-rental-backend/internal/money"
	"fleet-rental-backend/internal/service"
)

type ReservationHandler struct {
	reservationSvc service.ReservationService
	settings       money.Settings
}

func NewReservationHandler(reservationSvc service.ReservationService, settings money.Settings) *ReservationHandler {
	return &ReservationHandler{reservationSvc: reservationSvc, settings: settings}
}

type createReservationRequest struct {
	VehicleID  int64     `json:"vehicle_id"`
	CustomerID int64     `json:"customer_id"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	Notes      string    `json:"notes"`
}

func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createReservationRequest
	if !decodeBody(w, r, &req) {
		return
	}

	reservation, err := h.reservationSvc.CreateReservation(r.Context(), ActorFromContext(r.Context()), service.CreateReservationRequest{
		VehicleID:  req.VehicleID,
		CustomerID: req.CustomerID,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Notes:      req.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	metrics.ReservationsCreatedTotal.Inc()
	writeJSON(w, http.StatusCreated, newReservationPayload(reservation, h.settings))
}

func (h *ReservationHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.reservationSvc.ConfirmReservation)
}

func (h *ReservationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.reservationSvc.CancelReservation)
}

func (h *ReservationHandler) MarkNoShow(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.reservationSvc.MarkNoShow)
}

func (h *ReservationHandler) transition(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, actor authz.Actor, id int64) (*domain.Reservation, error)) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return
	}
	reservation, err := fn(r.Context(), ActorFromContext(r.Context()), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newReservationPayload(reservation, h.settings))
}

type paymentStatusRequest struct {
	PaymentStatus domain.PaymentStatus `json:"payment_status"`
}

func (h *ReservationHandler) UpdatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return
	}
	var req paymentStatusRequest
	if !decodeBody(w, r, &req) {
		return
	}
	reservation, err := h.reservationSvc.UpdatePaymentStatus(r.Context(), ActorFromContext(r.Context()), id, req.PaymentStatus)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newReservationPayload(reservation, h.settings))
}

type convertReservationRequest struct {
	AgentID           int64     `json:"agent_id"`
	CoSignerIDs       []int64   `json:"co_signer_ids"`
	StartDate         time.Time `json:"start_date"`
	ExpectedEndDate   time.Time `json:"expected_end_date"`
	DailyRateCents    int64     `json:"daily_rate_cents"`
	DiscountCents     int64     `json:"discount_cents"`
	ExtraChargesCents int64     `json:"extra_charges_cents"`
	Notes             string    `json:"notes"`
}

func (h *ReservationHandler) Convert(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return
	}
	var req convertReservationRequest
	if !decodeBody(w, r, &req) {
		return
	}

	rental, err := h.reservationSvc.ConvertToRental(r.Context(), ActorFromContext(r.Context()), id, service.ConvertReservationRequest{
		AgentID:           req.AgentID,
		CoSignerIDs:       req.CoSignerIDs,
		StartDate:         req.StartDate,
		ExpectedEndDate:   req.ExpectedEndDate,
		DailyRateCents:    req.DailyRateCents,
		DiscountCents:     req.DiscountCents,
		ExtraChargesCents: req.ExtraChargesCents,
		Notes:             req.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	metrics.RentalsCreatedTotal.Inc()
	writeJSON(w, http.StatusCreated, newRentalPayload(rental, h.settings))
}

func (h *ReservationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return
	}
	reservation, err := h.reservationSvc.GetReservation(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newReservationPayload(reservation, h.settings))
}

func (h *ReservationHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	reservations, total, err := h.reservationSvc.ListReservations(r.Context(), queryInt64(r, "vehicle_id"), r.URL.Query().Get("status"), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: reservations, Total: total, Page: page, PageSize: pageSize})
}
