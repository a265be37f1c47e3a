package admin

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/love-prep/backend/internal/database"
	"github.com/love-prep/backend/internal/generator"
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

// RegisterRoutes mounts the admin endpoints on a router already guarded by
// middleware.RequireAdmin.
func (h *Handler) RegisterRoutes(admin *mux.Router, limits *middleware.Limits) {
	admin.Handle("/questions", limits.Reads.LimitFunc(h.ListQuestions)).Methods("GET")
	admin.Handle("/questions", limits.Settings.LimitFunc(h.AddQuestion)).Methods("POST")
	admin.Handle("/questions/generate", limits.Settings.LimitFunc(h.Generate)).Methods("POST")
	admin.Handle("/questions/{id:[0-9]+}", limits.Settings.LimitFunc(h.EditQuestion)).Methods("PUT")

	admin.Handle("/users", limits.Reads.LimitFunc(h.ListUsers)).Methods("GET")
	admin.Handle("/users/{id:[0-9]+}/status", limits.Settings.LimitFunc(h.ToggleStatus)).Methods("POST")
	admin.Handle("/users/{id:[0-9]+}/role", limits.Settings.LimitFunc(h.ToggleRole)).Methods("POST")
	admin.Handle("/users/{id:[0-9]+}", limits.Settings.LimitFunc(h.DeleteUser)).Methods("DELETE")

	admin.Handle("/stats", limits.Reads.LimitFunc(h.Stats)).Methods("GET")
}

func (h *Handler) writeErr(w http.ResponseWriter, op string, err error) {
	var valErr *generator.ValidationError
	switch {
	case errors.Is(err, httputil.ErrBadRequest), errors.Is(err, ErrInvalidOption):
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrProtectedUser):
		httputil.WriteError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, database.ErrNotFound):
		httputil.WriteError(w, http.StatusNotFound, "Not found")
	case errors.As(err, &valErr), errors.Is(err, generator.ErrMalformedOutput):
		h.log.Warn(op, zap.Error(err))
		httputil.WriteError(w, http.StatusBadGateway, "Generated questions failed validation")
	default:
		h.log.Error(op, zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// adminAndTarget reads the caller and the {id} path variable.
func adminAndTarget(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	adminID, ok := middleware.UserID(r)
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return 0, 0, false
	}
	id, ok := httputil.PathID(mux.Vars(r), "id")
	if !ok {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid id")
		return 0, 0, false
	}
	return adminID, id, true
}

func (h *Handler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	resp, err := h.service.ListQuestions(r.Context(), httputil.IntQuery(q, "page", 1), httputil.IntQuery(q, "page_size", defaultPageSize))
	if err != nil {
		h.writeErr(w, "list questions", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) AddQuestion(w http.ResponseWriter, r *http.Request) {
	adminID, _ := middleware.UserID(r)

	var req models.NewQuestionRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeErr(w, "add question", err)
		return
	}

	q, err := h.service.AddQuestion(r.Context(), adminID, req)
	if err != nil {
		h.writeErr(w, "add question", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, q)
}

func (h *Handler) EditQuestion(w http.ResponseWriter, r *http.Request) {
	adminID, id, ok := adminAndTarget(w, r)
	if !ok {
		return
	}

	var req models.EditQuestionRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeErr(w, "edit question", err)
		return
	}

	q, err := h.service.EditQuestion(r.Context(), adminID, id, req)
	if err != nil {
		h.writeErr(w, "edit question", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, q)
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	adminID, _ := middleware.UserID(r)

	var req models.GenerateQuestionsRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeErr(w, "generate questions", err)
		return
	}

	resp, err := h.service.Generate(r.Context(), adminID, req)
	if err != nil {
		h.writeErr(w, "generate questions", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, resp)
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		h.writeErr(w, "list users", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, users)
}

func (h *Handler) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	adminID, id, ok := adminAndTarget(w, r)
	if !ok {
		return
	}
	u, err := h.service.ToggleStatus(r.Context(), adminID, id)
	if err != nil {
		h.writeErr(w, "toggle user status", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) ToggleRole(w http.ResponseWriter, r *http.Request) {
	adminID, id, ok := adminAndTarget(w, r)
	if !ok {
		return
	}
	u, err := h.service.ToggleRole(r.Context(), adminID, id)
	if err != nil {
		h.writeErr(w, "toggle user role", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	adminID, id, ok := adminAndTarget(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteUser(r.Context(), adminID, id); err != nil {
		h.writeErr(w, "delete user", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.service.Stats(r.Context())
	if err != nil {
		h.writeErr(w, "admin stats", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, st)
}
