package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"cantina/internal/common/httpx"
	"cantina/internal/common/logger"
	"cantina/internal/microservices/payment/domain/dto"
	"cantina/internal/microservices/payment/service"
)

const maxBody = 64 << 10

var webhookSchema = httpx.MustSchema(`{
  "type": "object",
  "required": ["event"],
  "properties": {
    "event": {"type": "string"},
    "data":  {"type": ["object", "null"]}
  }
}`)

// WebhookSecretHeader carries the webhook secret when the provider cannot put it in the URL.
const WebhookSecretHeader = "X-Webhook-Secret"

type PaymentHandler struct {
	service       service.PaymentServiceInterface
	webhookSecret string
	lg            *logger.Logger
}

// NewPaymentHandler builds the handler. An empty webhookSecret accepts every
// webhook, which config validation only allows in the sandbox.
func NewPaymentHandler(s service.PaymentServiceInterface, webhookSecret string, lg *logger.Logger) *PaymentHandler {
	return &PaymentHandler{service: s, webhookSecret: webhookSecret, lg: lg}
}

func (h *PaymentHandler) RegisterRoutes(r chi.Router) {
	r.Get("/payments/{id}", h.GetPayment)
	r.Post("/payments/{id}/simulate", h.Simulate)
	r.Post("/webhooks/payment", h.Webhook)
}

func (h *PaymentHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, h.lg, "get_payment_failed", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, p)
}

func (h *PaymentHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	p, err := h.service.Simulate(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, h.lg, "simulate_payment_failed", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, p)
}

// Webhook acknowledges every well-formed JSON body, even when the event could not be applied.
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	if !h.webhookAuthorized(r) {
		h.lg.Warn("webhook_rejected", map[string]any{"remote": r.RemoteAddr})
		httpx.WriteProblem(w, http.StatusUnauthorized, "unauthorized", "invalid webhook secret")
		return
	}

	body, err := httpx.ReadBody(w, r, maxBody)
	if err != nil {
		if errors.Is(err, httpx.ErrBodyTooLarge) {
			httpx.WriteProblem(w, http.StatusRequestEntityTooLarge, "body_too_large", err.Error())
			return
		}
		httpx.WriteProblem(w, http.StatusBadRequest, "bad_request", "cannot read body")
		return
	}
	if !json.Valid(body) {
		httpx.WriteProblem(w, http.StatusBadRequest, "bad_json", "Invalid JSON body")
		return
	}

	// well-formed JSON is always acknowledged, even when it cannot be applied
	var req dto.WebhookRequest
	if err := webhookSchema.Validate(body); err != nil {
		h.lg.Warn("webhook_unexpected_shape", map[string]any{"reason": err.Error()})
	} else if err := json.Unmarshal(body, &req); err != nil {
		h.lg.Warn("webhook_unexpected_shape", map[string]any{"reason": err.Error()})
	} else if err := h.service.HandleWebhook(r.Context(), req); err != nil {
		h.lg.Error("webhook_processing_failed", err, map[string]any{"event": req.Event})
	} else {
		h.lg.Info("webhook_received", map[string]any{"event": req.Event})
	}
	httpx.WriteJSON(w, http.StatusOK, dto.WebhookResponse{Received: true})
}

func (h *PaymentHandler) webhookAuthorized(r *http.Request) bool {
	if h.webhookSecret == "" {
		return true
	}
	got := r.URL.Query().Get("webhookSecret")
	if got == "" {
		got = r.Header.Get(WebhookSecretHeader)
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(h.webhookSecret)) == 1
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteProblem(w, http.StatusBadRequest, "bad_request", "id must be a uuid")
		return uuid.Nil, false
	}
	return id, true
}
