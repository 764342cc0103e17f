package http

import (
	"net/http"
	"time"

	"fleet-rental-backend/internal/domain"
	"fleet-rental-backend/internal/service"
)

type ExpenseHandler struct {
	expenseSvc service.ExpenseService
}

func NewExpenseHandler(expenseSvc service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseSvc: expenseSvc}
}

func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var expense domain.Expense
	if !decodeBody(w, r, &expense) {
		return
	}
	if err := h.expenseSvc.RecordExpense(r.Context(), ActorFromContext(r.Context()), &expense); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, expense)
}

func (h *ExpenseHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return
	}
	expense, err := h.expenseSvc.GetExpense(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expense)
}

func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	now := time.Now()
	from := queryDate(r, "from", now.AddDate(-1, 0, 0))
	to := queryDate(r, "to", now)
	expenses, total, err := h.expenseSvc.ListExpenses(r.Context(), queryInt64(r, "vehicle_id"), from, to, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: expenses, Total: total, Page: page, PageSize: pageSize})
}
