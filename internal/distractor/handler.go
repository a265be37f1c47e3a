package distractor

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

// RegisterRoutes registers the distractor settings and scenario endpoints.
func (h *Handler) RegisterRoutes(protected *mux.Router, limits *middleware.Limits) {
	protected.Handle("/settings/distractors", limits.Settings.LimitFunc(h.GetSettings)).Methods("GET")
	protected.Handle("/settings/distractors", limits.Settings.LimitFunc(h.Toggle)).Methods("PUT")
	protected.Handle("/settings/distractors/probability", limits.Settings.LimitFunc(h.SetProbability)).Methods("PUT")
	protected.Handle("/distractors/check", limits.DistractorCheck.LimitFunc(h.Check)).Methods("GET")
	protected.Handle("/distractors", limits.DistractorSubmit.LimitFunc(h.Submit)).Methods("POST")
}

func (h *Handler) writeErr(w http.ResponseWriter, op string, userID int64, err error) {
	switch {
	case errors.Is(err, httputil.ErrBadRequest):
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, database.ErrNotFound):
		httputil.WriteError(w, http.StatusNotFound, "User not found")
	default:
		h.log.Error(op, zap.Int64("user_id", userID), zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	st, err := h.service.Settings(r.Context(), userID)
	if err != nil {
		h.writeErr(w, "get distractor settings", userID, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, st)
}

func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req models.ToggleDistractorsRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeErr(w, "toggle distractors", userID, err)
		return
	}

	st, err := h.service.SetEnabled(r.Context(), userID, req.Enabled)
	if err != nil {
		h.writeErr(w, "toggle distractors", userID, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, st)
}

func (h *Handler) SetProbability(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	req := models.DistractorProbabilityRequest{Probability: DefaultProbability}
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeErr(w, "set distractor probability", userID, err)
		return
	}

	st, err := h.service.SetProbability(r.Context(), userID, req.Probability)
	if err != nil {
		h.writeErr(w, "set distractor probability", userID, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, st)
}

func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	d, err := h.service.Check(r.Context(), userID)
	if err != nil {
		h.writeErr(w, "check distractor", userID, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.DistractorCheckResponse{Distractor: d})
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req models.SubmitDistractorRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeErr(w, "submit distractor", userID, err)
		return
	}

	res, err := h.service.Submit(r.Context(), userID, req)
	if err != nil {
		h.writeErr(w, "submit distractor", userID, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}
