package questions

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

// RegisterRoutes registers practice endpoints on the protected subrouter.
func (h *Handler) RegisterRoutes(protected *mux.Router, limits *middleware.Limits) {
	protected.Handle("/questions", limits.Reads.LimitFunc(h.Practice)).Methods("GET")
	protected.Handle("/questions/counts", limits.Reads.LimitFunc(h.Counts)).Methods("GET")
	protected.Handle("/questions/incorrect", limits.Reads.LimitFunc(h.Incorrect)).Methods("GET")
	protected.Handle("/questions/{id}/progress", limits.Reads.LimitFunc(h.Progress)).Methods("GET")
	protected.Handle("/answers", limits.Answers.LimitFunc(h.SubmitAnswer)).Methods("POST")
	protected.Handle("/preferences", limits.Settings.LimitFunc(h.GetPreferences)).Methods("GET")
	protected.Handle("/preferences", limits.Settings.LimitFunc(h.SavePreferences)).Methods("PUT")
}

func (h *Handler) writeErr(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, httputil.ErrBadRequest):
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrQuestionNotFound):
		httputil.WriteError(w, http.StatusNotFound, "Question not found")
	case errors.Is(err, ErrNoProgress):
		httputil.WriteError(w, http.StatusNotFound, "No progress for this question")
	default:
		h.log.Error(op, zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func (h *Handler) Practice(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	query := r.URL.Query()
	qs, err := h.service.Practice(r.Context(), userID,
		httputil.ListQuery(query, "categories"),
		httputil.ListQuery(query, "difficulties"),
		httputil.IntQuery(query, "limit", defaultPracticeLimit),
	)
	if err != nil {
		h.writeErr(w, "practice questions", err)
		return
	}

	if qs == nil {
		qs = []models.PracticeQuestion{}
	}
	httputil.WriteJSON(w, http.StatusOK, qs)
}

func (h *Handler) Counts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.service.Counts(r.Context())
	if err != nil {
		h.writeErr(w, "question counts", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, counts)
}

func (h *Handler) Incorrect(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	list, err := h.service.Incorrect(r.Context(), userID)
	if err != nil {
		h.writeErr(w, "incorrect questions", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) Progress(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, ok := httputil.PathID(mux.Vars(r), "id")
	if !ok {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid question ID")
		return
	}

	p, err := h.service.Progress(r.Context(), userID, id)
	if err != nil {
		h.writeErr(w, "question progress", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req models.SubmitAnswerRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeErr(w, "submit answer", err)
		return
	}

	resp, err := h.service.SubmitAnswer(r.Context(), userID, req)
	if err != nil {
		h.writeErr(w, "submit answer", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	prefs, err := h.service.Preferences(r.Context(), userID)
	if err != nil {
		h.writeErr(w, "get preferences", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, prefs)
}

func (h *Handler) SavePreferences(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req models.PracticePreferences
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeErr(w, "save preferences", err)
		return
	}

	prefs, err := h.service.SavePreferences(r.Context(), userID, req)
	if err != nil {
		h.writeErr(w, "save preferences", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, prefs)
}
