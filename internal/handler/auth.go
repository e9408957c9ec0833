package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/eventtrail/eventtrail-go/internal/middleware"
	"github.com/eventtrail/eventtrail-go/internal/model"
	"github.com/eventtrail/eventtrail-go/internal/service"
)

// AuthService is the account surface the handlers call. Satisfied by
// service.AuthService.
type AuthService interface {
	Register(ctx context.Context, req model.RegisterRequest) (model.AuthResponse, error)
	Login(ctx context.Context, req model.LoginRequest) (model.AuthResponse, error)
	GetUser(ctx context.Context, userID int64) (model.UserResponse, error)
}

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	service AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc AuthService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// HandleRegister handles POST /api/auth/register requests.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := h.service.Register(r.Context(), req)
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			writeJSON(w, http.StatusBadRequest, validationResponse(verr.Fields))
		case errors.Is(err, service.ErrEmailTaken):
			writeJSON(w, http.StatusConflict, errorResponse("Registration failed", err.Error()))
		default:
			internalError(w, "Registration failed", err)
		}
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// HandleLogin handles POST /api/auth/login requests.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := h.service.Login(r.Context(), req)
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			writeJSON(w, http.StatusBadRequest, validationResponse(verr.Fields))
		case errors.Is(err, service.ErrInvalidCredentials):
			writeJSON(w, http.StatusUnauthorized, errorResponse("Login failed", err.Error()))
		default:
			internalError(w, "Login failed", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleMe handles GET /api/auth/me requests.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("Access denied", "no token provided"))
		return
	}

	resp, err := h.service.GetUser(r.Context(), user.ID)
	if err != nil {
		internalError(w, "Request failed", err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
