package auth

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/urbancoll/artisanhub-backend/internal/apperror"
)

// Handler exposes authentication HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.register)
		r.Post("/login", h.login)
		r.Post("/refresh", h.refresh)
		r.Post("/logout", h.logout)
	})
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	u, pair, err := h.service.Register(r.Context(), req)
	if err != nil {
		respond(w, apperror.Status(err), map[string]string{"error": apperror.UserMessage(err)})
		return
	}
	respond(w, http.StatusCreated, map[string]interface{}{
		"user":         u,
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	u, pair, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respond(w, apperror.Status(err), map[string]string{"error": apperror.UserMessage(err)})
		return
	}
	respond(w, http.StatusOK, map[string]interface{}{
		"user":         u,
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	header := r.Header.Get("Authorization")
	if header == "" {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "missing token"})
		return
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer"))
	pair, err := h.service.Refresh(token)
	if err != nil {
		respond(w, apperror.Status(err), map[string]string{"error": apperror.UserMessage(err)})
		return
	}
	respond(w, http.StatusOK, pair)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	// Stateless tokens: nothing to invalidate server-side.
	respond(w, http.StatusOK, map[string]string{"message": "logout successful"})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
