package theme

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Navin-04/Katomaran-To-Do-App/internal/platform/auth"
)

type Handler struct {
	Service *Service
	Auth    auth.Manager
}

func NewHandler(service *Service, tokens auth.Manager) *Handler {
	return &Handler{Service: service, Auth: tokens}
}

// Routes is mounted under /api/v1/theme; every route requires a bearer
// token.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(auth.Middleware(h.Auth))

	r.Get("/", h.handleState)
	r.Put("/", h.handleSetTheme)
	r.Post("/toggle", h.handleToggle)

	return r
}

func (h *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.Service.State())
}

type setThemeRequest struct {
	Theme Mode `json:"theme"`
}

func (h *Handler) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	var req setThemeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if !req.Theme.valid() {
		h.writeError(w, http.StatusBadRequest, "unknown theme: "+string(req.Theme))
		return
	}
	state, err := h.Service.SetTheme(r.Context(), req.Theme)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, state)
}

func (h *Handler) handleToggle(w http.ResponseWriter, r *http.Request) {
	state, err := h.Service.Toggle(r.Context())
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, state)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}
