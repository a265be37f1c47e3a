package session

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
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

func (h *Handler) RegisterRoutes(protected *mux.Router, limits *middleware.Limits) {
	protected.Handle("/simulation/start", limits.Reads.LimitFunc(h.Start)).Methods("POST")
	protected.Handle("/simulation", limits.Reads.LimitFunc(h.Get)).Methods("GET")
	protected.Handle("/simulation/resume", limits.Reads.LimitFunc(h.Resume)).Methods("GET")
	protected.Handle("/simulation", limits.SimulationUpdate.LimitFunc(h.Update)).Methods("PUT")
	protected.Handle("/simulation", limits.Reads.LimitFunc(h.Delete)).Methods("DELETE")
	protected.Handle("/simulation/submit", limits.SimulationSubmit.LimitFunc(h.Submit)).Methods("POST")
}

func (h *Handler) writeErr(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, httputil.ErrBadRequest), errors.Is(err, ErrValidation):
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrSessionNotFound):
		httputil.WriteError(w, http.StatusNotFound, "No active simulation found")
	case errors.Is(err, ErrSessionCorrupt), errors.Is(err, ErrNotEnoughQuestions):
		httputil.WriteError(w, http.StatusConflict, err.Error())
	default:
		h.log.Error(op, zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	resp, err := h.service.Start(r.Context(), userID)
	if err != nil {
		h.writeErr(w, "start simulation", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, resp)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	sess, err := h.service.Get(r.Context(), userID)
	if err != nil {
		h.writeErr(w, "get simulation", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sess)
}

func (h *Handler) Resume(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	resp, err := h.service.Resume(r.Context(), userID)
	if err != nil {
		h.writeErr(w, "resume simulation", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req models.UpdateSessionRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeErr(w, "update simulation", err)
		return
	}

	sess, err := h.service.Update(r.Context(), userID, req)
	if err != nil {
		h.writeErr(w, "update simulation", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sess)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	if err := h.service.Delete(r.Context(), userID); err != nil {
		h.writeErr(w, "delete simulation", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req models.SubmitSimulationRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeErr(w, "submit simulation", err)
		return
	}

	res, err := h.service.Submit(r.Context(), userID, req)
	if err != nil {
		h.writeErr(w, "submit simulation", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}
