package payment

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/urbancoll/artisanhub-backend/internal/apperror"
	"github.com/urbancoll/artisanhub-backend/internal/logx"
)

// Handler exposes payment HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux, requireAuth func(http.Handler) http.Handler) {
	r.Route("/payments", func(r chi.Router) {
		// provider callback, no auth middleware
		r.Post("/webhook", h.webhook)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/create", h.create)
			r.Get("/verify/{reference}", h.verify)
		})
	})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	resp, err := h.service.Create(r.Context(), req.OrderID)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, resp)
}

func (h *Handler) verify(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Verify(r.Context(), chi.URLParam(r, "reference"))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, p)
}

func (h *Handler) webhook(w http.ResponseWriter, r *http.Request) {
	var event WebhookEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	if err := h.service.HandleWebhook(r.Context(), event); err != nil {
		logx.Error().Err(err).Str("event", event.Event).Msg("webhook processing failed")
		respond(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "received"})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, err error) {
	respond(w, apperror.Status(err), map[string]string{"error": apperror.UserMessage(err)})
}
