package http

import (
	"net/http"

	"fleet-rental-backend/internal/metrics"
	"fleet-rental-backend/internal/service"
)

type CommissionHandler struct {
	commissionSvc service.CommissionService
}

func NewCommissionHandler(commissionSvc service.CommissionService) *CommissionHandler {
	return &CommissionHandler{commissionSvc: commissionSvc}
}

type approveBatchRequest struct {
	IDs []int64 `json:"ids"`
}

func (h *CommissionHandler) ApproveBatch(w http.ResponseWriter, r *http.Request) {
	var req approveBatchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	commissions, err := h.commissionSvc.ApproveBatch(r.Context(), ActorFromContext(r.Context()), req.IDs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, commissions)
}

type payBatchRequest struct {
	IDs        []int64 `json:"ids"`
	PaymentRef string  `json:"payment_ref"`
}

func (h *CommissionHandler) PayBatch(w http.ResponseWriter, r *http.Request) {
	var req payBatchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	commissions, err := h.commissionSvc.PayBatch(r.Context(), ActorFromContext(r.Context()), req.IDs, req.PaymentRef)
	if err != nil {
		writeError(w, err)
		return
	}
	metrics.CommissionsPaidTotal.Add(float64(len(commissions)))
	writeJSON(w, http.StatusOK, commissions)
}

func (h *CommissionHandler) RevertPayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return
	}
	commission, err := h.commissionSvc.RevertPayment(r.Context(), ActorFromContext(r.Context()), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, commission)
}

func (h *CommissionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return
	}
	commission, err := h.commissionSvc.GetCommission(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, commission)
}

func (h *CommissionHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	commissions, total, err := h.commissionSvc.ListCommissions(r.Context(), queryInt64(r, "agent_id"), r.URL.Query().Get("status"), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: commissions, Total: total, Page: page, PageSize: pageSize})
}

func (h *CommissionHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.commissionSvc.Summary(r.Context(), queryInt64(r, "agent_id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
