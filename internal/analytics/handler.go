package analytics

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/love-prep/backend/internal/httputil"
	"github.com/love-prep/backend/internal/middleware"
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
	protected.Handle("/stats", limits.Reads.LimitFunc(h.Stats)).Methods("GET")
	protected.Handle("/recommendations", limits.Settings.LimitFunc(h.Recommendations)).Methods("GET")
	protected.Handle("/dashboard", limits.Reads.LimitFunc(h.Dashboard)).Methods("GET")
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	stats, err := h.service.Stats(r.Context(), userID)
	if err != nil {
		h.log.Error("stats", zap.Int64("user_id", userID), zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "Failed to get stats")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, stats)
}

func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	recs, err := h.service.Recommendations(r.Context(), userID)
	if err != nil {
		h.log.Error("recommendations", zap.Int64("user_id", userID), zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "Failed to get recommendations")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, recs)
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	dash, err := h.service.Dashboard(r.Context(), userID)
	if err != nil {
		h.log.Error("dashboard", zap.Int64("user_id", userID), zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "Failed to get dashboard")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, dash)
}
