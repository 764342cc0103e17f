package http

import (
	"net/http"
	"time"

	"fleet-rental-backend/internal/service"
)

type ReportHandler struct {
	reportSvc service.ReportService
}

func NewReportHandler(reportSvc service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

func reportWindow(r *http.Request) (time.Time, time.Time) {
	now := time.Now()
	from := queryDate(r, "from", now.AddDate(0, -1, 0))
	to := queryDate(r, "to", now)
	return from, to
}

func (h *ReportHandler) VehicleProfitability(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return
	}
	from, to := reportWindow(r)
	report, err := h.reportSvc.VehicleProfitability(r.Context(), ActorFromContext(r.Context()), id, from, to)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *ReportHandler) FleetProfitability(w http.ResponseWriter, r *http.Request) {
	from, to := reportWindow(r)
	reports, err := h.reportSvc.FleetProfitability(r.Context(), ActorFromContext(r.Context()), from, to)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reports)
}
