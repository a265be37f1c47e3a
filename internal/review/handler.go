package review

import (
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
	protected.Handle("/review/next", limits.Reads.LimitFunc(h.Next)).Methods("GET")
	protected.Handle("/review/due", limits.Reads.LimitFunc(h.Due)).Methods("GET")
}

func (h *Handler) Next(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	resp, err := h.service.Next(r.Context(), userID)
	if err != nil {
		h.log.Error("next review question", zap.Int64("user_id", userID), zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "Failed to get review question")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) Due(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	limit := httputil.IntQuery(r.URL.Query(), "limit", 20)
	if limit == 0 || limit > 100 {
		limit = 20
	}

	due, err := h.service.Due(r.Context(), userID, limit)
	if err != nil {
		h.log.Error("due review questions", zap.Int64("user_id", userID), zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "Failed to get due questions")
		return
	}

	if due == nil {
		due = []models.PracticeQuestion{}
	}
	httputil.WriteJSON(w, http.StatusOK, due)
}
