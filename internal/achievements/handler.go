package achievements

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
	protected.Handle("/achievements", limits.Reads.LimitFunc(h.List)).Methods("GET")
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	list, err := h.service.List(r.Context(), userID)
	if err != nil {
		h.log.Error("list achievements", zap.Int64("user_id", userID), zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "Failed to get achievements")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, list)
}
