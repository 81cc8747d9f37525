package tasks

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Navin-04/Katomaran-To-Do-App/internal/platform/auth"
	"github.com/Navin-04/Katomaran-To-Do-App/internal/platform/metrics"
)

var taskOps = metrics.NewCounterVec(metrics.Opts{
	Name: "task_operations_total",
	Help: "Task store operations by action and outcome.",
}, []string{"action", "outcome"})

func init() {
	metrics.Default.MustRegister(taskOps)
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type Handler struct {
	Service *Service
	Auth    auth.Manager
}

func NewHandler(service *Service, tokens auth.Manager) *Handler {
	return &Handler{Service: service, Auth: tokens}
}

// Routes is mounted under /api/v1/tasks; every route requires a bearer
// token.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(auth.Middleware(h.Auth))

	r.Get("/", h.handlePage)
	r.Post("/", h.handleCreate)
	r.Post("/refresh", h.handleRefresh)
	r.Get("/stats", h.handleStats)
	r.Put("/filters", h.handleSetFilters)
	r.Put("/page", h.handleSetPage)
	r.Patch("/{taskID}", h.handleUpdate)
	r.Delete("/{taskID}", h.handleDelete)
	r.Put("/{taskID}/share", h.handleShare)

	return r
}

func (h *Handler) handlePage(w http.ResponseWriter, r *http.Request) {
	view, err := h.Service.Page(r.Context())
	if err != nil {
		taskOps.Inc("page", "error")
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	taskOps.Inc("page", "ok")
	h.writeJSON(w, http.StatusOK, view)
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.Stats(r.Context())
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.FetchAll(r.Context()); err != nil {
		taskOps.Inc("refresh", "error")
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	taskOps.Inc("refresh", "ok")
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskData
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	claims := auth.ClaimsFromContext(r.Context())
	t, err := h.Service.Create(r.Context(), req, claims.UserID())
	if err != nil {
		taskOps.Inc("create", "error")
		switch {
		case errors.Is(err, ErrTitleRequired), errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrInvalidPriority):
			h.writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	taskOps.Inc("create", "ok")
	h.writeJSON(w, http.StatusCreated, t)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req UpdateTaskData
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	req.ID = chi.URLParam(r, "taskID")
	claims := auth.ClaimsFromContext(r.Context())
	t, err := h.Service.Update(r.Context(), req, claims.UserID())
	if err != nil {
		taskOps.Inc("update", "error")
		switch {
		case errors.Is(err, ErrNotFound):
			h.writeError(w, http.StatusNotFound, "task not found")
		case errors.Is(err, ErrTitleRequired), errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrInvalidPriority):
			h.writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	taskOps.Inc("update", "ok")
	h.writeJSON(w, http.StatusOK, t)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	if err := h.Service.Delete(r.Context(), chi.URLParam(r, "taskID"), claims.UserID()); err != nil {
		taskOps.Inc("delete", "error")
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	taskOps.Inc("delete", "ok")
	w.WriteHeader(http.StatusNoContent)
}

type shareRequest struct {
	Emails []string `json:"emails"`
}

// handleShare carries the caller-side email validation the store itself
// does not perform: format check plus duplicate rejection.
func (h *Handler) handleShare(w http.ResponseWriter, r *http.Request) {
	var req shareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	seen := map[string]bool{}
	for _, email := range req.Emails {
		email = strings.TrimSpace(email)
		if !emailPattern.MatchString(email) {
			h.writeError(w, http.StatusBadRequest, "invalid email address: "+email)
			return
		}
		if seen[strings.ToLower(email)] {
			h.writeError(w, http.StatusBadRequest, "duplicate email address: "+email)
			return
		}
		seen[strings.ToLower(email)] = true
	}

	claims := auth.ClaimsFromContext(r.Context())
	t, err := h.Service.Share(r.Context(), chi.URLParam(r, "taskID"), req.Emails, claims.UserID())
	if err != nil {
		taskOps.Inc("share", "error")
		if errors.Is(err, ErrNotFound) {
			h.writeError(w, http.StatusNotFound, "task not found")
			return
		}
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	taskOps.Inc("share", "ok")
	h.writeJSON(w, http.StatusOK, t)
}

func (h *Handler) handleSetFilters(w http.ResponseWriter, r *http.Request) {
	var req FilterPatch
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	filters := h.Service.SetFilters(req)
	h.writeJSON(w, http.StatusOK, filters)
}

type setPageRequest struct {
	Page int `json:"page"`
}

type setPageResponse struct {
	Page int `json:"page"`
}

func (h *Handler) handleSetPage(w http.ResponseWriter, r *http.Request) {
	var req setPageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	page, err := h.Service.SetPage(r.Context(), req.Page)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, setPageResponse{Page: page})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}
