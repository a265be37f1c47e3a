package auth

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/love-prep/backend/internal/database"
	"github.com/love-prep/backend/internal/httputil"
	"github.com/love-prep/backend/internal/middleware"
	"github.com/love-prep/backend/internal/models"
	"go.uber.org/zap"
)

type Handler struct {
	service *Service
	log     *zap.Logger
}

func NewHandler(service *Service, log *zap.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// RegisterRoutes mounts the public auth endpoints on api and the account
// endpoints on protected.
func (h *Handler) RegisterRoutes(api, protected *mux.Router, limits *middleware.Limits) {
	api.Handle("/auth/register", limits.Auth.LimitFunc(h.Register)).Methods("POST")
	api.Handle("/auth/login", limits.Auth.LimitFunc(h.Login)).Methods("POST")
	api.Handle("/auth/forgot-password", limits.Auth.LimitFunc(h.ForgotPassword)).Methods("POST")
	api.Handle("/auth/reset-password", limits.Auth.LimitFunc(h.ResetPassword)).Methods("POST")

	protected.Handle("/auth/me", limits.Reads.LimitFunc(h.Me)).Methods("GET")
	protected.Handle("/auth/password", limits.Auth.LimitFunc(h.ChangePassword)).Methods("PUT")
}

func (h *Handler) writeErr(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, httputil.ErrBadRequest):
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrInvalidUsername), errors.Is(err, ErrWeakPassword),
		errors.Is(err, ErrInvalidResetToken), errors.Is(err, ErrWrongPassword):
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrInvalidCredentials):
		httputil.WriteError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrUserBlocked):
		httputil.WriteError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, ErrUsernameTaken), errors.Is(err, ErrEmailTaken):
		httputil.WriteError(w, http.StatusConflict, err.Error())
	case errors.Is(err, database.ErrNotFound):
		httputil.WriteError(w, http.StatusNotFound, "User not found")
	default:
		h.log.Error(op, zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeErr(w, "register", err)
		return
	}

	resp, err := h.service.Register(r.Context(), req)
	if err != nil {
		h.writeErr(w, "register", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, resp)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeErr(w, "login", err)
		return
	}

	resp, err := h.service.Login(r.Context(), req)
	if err != nil {
		h.writeErr(w, "login", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	user, err := h.service.Me(r.Context(), userID)
	if err != nil {
		h.writeErr(w, "get current user", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req models.ChangePasswordRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeErr(w, "change password", err)
		return
	}
	if err := h.service.ChangePassword(r.Context(), userID, req); err != nil {
		h.writeErr(w, "change password", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.MessageResponse{Message: "Password changed"})
}

func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ForgotPasswordRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeErr(w, "forgot password", err)
		return
	}

	// The same answer is returned whether or not the email is known.
	if err := h.service.Forgot(r.Context(), req.Email); err != nil {
		h.log.Error("forgot password", zap.Error(err))
	}
	httputil.WriteJSON(w, http.StatusAccepted, models.MessageResponse{
		Message: "If the email is registered, a reset link has been sent",
	})
}

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeErr(w, "reset password", err)
		return
	}
	if err := h.service.Reset(r.Context(), req); err != nil {
		h.writeErr(w, "reset password", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.MessageResponse{Message: "Password has been reset"})
}
