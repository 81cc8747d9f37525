package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Navin-04/Katomaran-To-Do-App/internal/platform/auth"
	"github.com/Navin-04/Katomaran-To-Do-App/internal/platform/metrics"
)

var sessionOps = metrics.NewCounterVec(metrics.Opts{
	Name: "session_operations_total",
	Help: "Session operations by action and outcome.",
}, []string{"action", "outcome"})

func init() {
	metrics.Default.MustRegister(sessionOps)
}

type Handler struct {
	Service *Service
	Auth    auth.Manager
}

func NewHandler(service *Service, tokens auth.Manager) *Handler {
	return &Handler{Service: service, Auth: tokens}
}

// Routes is mounted under /api/v1/auth. Sign-in and sign-up are open;
// everything else requires a bearer token.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/signin", h.handleSignIn)
	r.Post("/signup", h.handleSignUp)
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(h.Auth))
		r.Post("/signout", h.handleSignOut)
		r.Get("/me", h.handleMe)
		r.Patch("/profile", h.handleUpdateProfile)
		r.Put("/password", h.handleUpdatePassword)
	})
	return r
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) handleSignIn(w http.ResponseWriter, r *http.Request) {
	h.startSession(w, r, "signin", h.Service.SignIn)
}

func (h *Handler) handleSignUp(w http.ResponseWriter, r *http.Request) {
	h.startSession(w, r, "signup", h.Service.SignUp)
}

func (h *Handler) startSession(w http.ResponseWriter, r *http.Request, action string, fn func(ctx context.Context, email, password string) (AuthResponse, error)) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sessionOps.Inc(action, "error")
		h.writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	resp, err := fn(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			sessionOps.Inc(action, "rejected")
			h.writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		sessionOps.Inc(action, "error")
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	sessionOps.Inc(action, "ok")
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleSignOut(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.SignOut(r.Context()); err != nil {
		sessionOps.Inc("signout", "error")
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	sessionOps.Inc("signout", "ok")
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := h.Service.Current()
	if !ok {
		h.writeError(w, http.StatusUnauthorized, ErrNoSession.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, user)
}

func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var patch ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	user, err := h.Service.UpdateProfile(r.Context(), patch)
	if err != nil {
		switch {
		case errors.Is(err, ErrNoSession):
			sessionOps.Inc("update_profile", "rejected")
			h.writeError(w, http.StatusUnauthorized, err.Error())
		default:
			sessionOps.Inc("update_profile", "error")
			h.writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	sessionOps.Inc("update_profile", "ok")
	h.writeJSON(w, http.StatusOK, user)
}

type passwordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (h *Handler) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	var req passwordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	err := h.Service.UpdatePassword(r.Context(), req.CurrentPassword, req.NewPassword)
	switch {
	case err == nil:
		sessionOps.Inc("update_password", "ok")
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, ErrInvalidInput):
		sessionOps.Inc("update_password", "rejected")
		h.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrInvalidCredentials):
		sessionOps.Inc("update_password", "rejected")
		h.writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrNoSession):
		sessionOps.Inc("update_password", "rejected")
		h.writeError(w, http.StatusUnauthorized, err.Error())
	default:
		sessionOps.Inc("update_password", "error")
		h.writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}
