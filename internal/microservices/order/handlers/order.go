package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"cantina/internal/common/httpx"
	"cantina/internal/common/logger"
	"cantina/internal/microservices/order/domain/dto"
	"cantina/internal/microservices/order/service"
)

const maxBody = 64 << 10

const itemsSchema = `{
  "type": "array",
  "minItems": 1,
  "maxItems": 50,
  "items": {
    "type": "object",
    "required": ["product_id", "quantity"],
    "properties": {
      "product_id": {"type": "string", "format": "uuid"},
      "quantity":   {"type": "integer", "minimum": 1, "maximum": 99}
    }
  }
}`

var quoteSchema = httpx.MustSchema(`{
  "type": "object",
  "required": ["items"],
  "properties": {
    "delivery": {"type": "boolean"},
    "items": ` + itemsSchema + `
  }
}`)

var orderSchema = httpx.MustSchema(`{
  "type": "object",
  "required": ["customer_name", "items"],
  "properties": {
    "customer_name":    {"type": "string", "minLength": 1, "maxLength": 80},
    "customer_phone":   {"type": "string", "maxLength": 20},
    "delivery":         {"type": "boolean"},
    "delivery_address": {"type": "string", "maxLength": 300},
    "payment_method":   {"type": "string", "enum": ["pix", "cash"]},
    "items": ` + itemsSchema + `
  }
}`)

var statusSchema = httpx.MustSchema(`{
  "type": "object",
  "required": ["status"],
  "properties": {
    "status": {"type": "string", "enum": ["pending", "confirmed", "preparing", "delivering", "done", "cancelled"]},
    "notes":  {"type": "string", "maxLength": 500}
  }
}`)

type OrderHandler struct {
	service service.OrderServiceInterface
	lg      *logger.Logger
	limit   func(http.Handler) http.Handler
}

// NewOrderHandler wires the order endpoints. limit, when set, guards order creation.
func NewOrderHandler(s service.OrderServiceInterface, lg *logger.Logger, limit func(http.Handler) http.Handler) *OrderHandler {
	return &OrderHandler{service: s, lg: lg, limit: limit}
}

func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Post("/cart/quote", h.Quote)
	r.Group(func(r chi.Router) {
		if h.limit != nil {
			r.Use(h.limit)
		}
		r.Post("/checkout", h.Checkout)
		r.Post("/orders", h.CreateOrder)
	})
	r.Get("/orders/{id}", h.GetOrder)
	r.Get("/orders/{id}/timeline", h.Timeline)
}

func (h *OrderHandler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/orders", h.ListOrders)
	r.Patch("/orders/{id}/status", h.UpdateStatus)
	r.Get("/stats", h.Stats)
}

func (h *OrderHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req dto.QuoteRequest
	if !httpx.DecodeJSON(w, r, maxBody, quoteSchema, &req) {
		return
	}
	q, err := h.service.Quote(r.Context(), req)
	if err != nil {
		httpx.WriteError(w, h.lg, "quote_failed", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, q)
}

func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req dto.CheckoutRequest
	if !httpx.DecodeJSON(w, r, maxBody, orderSchema, &req) {
		return
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = dto.PaymentPix
	}
	res, err := h.service.Checkout(r.Context(), req)
	if err != nil {
		httpx.WriteError(w, h.lg, "checkout_failed", err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, res)
}

func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req dto.CheckoutRequest
	if !httpx.DecodeJSON(w, r, maxBody, orderSchema, &req) {
		return
	}
	o, err := h.service.CreateOrder(r.Context(), req)
	if err != nil {
		httpx.WriteError(w, h.lg, "create_order_failed", err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, o)
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	o, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, h.lg, "get_order_failed", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, o)
}

func (h *OrderHandler) Timeline(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	tl, err := h.service.Timeline(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, h.lg, "get_timeline_failed", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, tl)
}

func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	orders, err := h.service.List(r.Context(), dto.ListFilter{
		Status: q.Get("status"),
		Limit:  httpx.AtoiDefault(q.Get("limit"), 0),
		Offset: httpx.AtoiDefault(q.Get("offset"), 0),
	})
	if err != nil {
		httpx.WriteError(w, h.lg, "list_orders_failed", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req dto.StatusRequest
	if !httpx.DecodeJSON(w, r, maxBody, statusSchema, &req) {
		return
	}
	o, err := h.service.UpdateStatus(r.Context(), id, req, httpx.AdminFromContext(r.Context()))
	if err != nil {
		httpx.WriteError(w, h.lg, "update_order_status_failed", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, o)
}

func (h *OrderHandler) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.service.Stats(r.Context())
	if err != nil {
		httpx.WriteError(w, h.lg, "stats_failed", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, st)
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteProblem(w, http.StatusBadRequest, "bad_request", "id must be a uuid")
		return uuid.Nil, false
	}
	return id, true
}
