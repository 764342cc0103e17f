package http

import (
	"net/http"

	"fleet-rental-backend/internal/domain"
	"fleet-rental-backend/internal/service"
)

type AuthHandler struct {
	authSvc service.AuthService
}

func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	token, user, err := h.authSvc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: token, User: user})
}

type createUserRequest struct {
	Email                 string      `json:"email"`
	Password              string      `json:"password"`
	Name                  string      `json:"name"`
	PhoneNumber           string      `json:"phone_number"`
	Role                  domain.Role `json:"role"`
	CommissionRatePercent float64     `json:"commission_rate_percent"`
}

func (h *AuthHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user := &domain.User{
		Email:                 req.Email,
		Name:                  req.Name,
		PhoneNumber:           req.PhoneNumber,
		Role:                  req.Role,
		CommissionRatePercent: req.CommissionRatePercent,
	}
	if err := h.authSvc.CreateUser(r.Context(), ActorFromContext(r.Context()), user, req.Password); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (h *AuthHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return
	}
	user, err := h.authSvc.GetUser(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	users, total, err := h.authSvc.ListUsers(r.Context(), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: users, Total: total, Page: page, PageSize: pageSize})
}
