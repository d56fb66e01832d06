package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"cantina/internal/common/httpx"
	"cantina/internal/common/logger"
	"cantina/internal/microservices/queue/domain/dto"
	"cantina/internal/microservices/queue/service"
)

const maxBody = 64 << 10

var issueSchema = httpx.MustSchema(`{
  "type": "object",
  "required": ["items"],
  "properties": {
    "items": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["name", "quantity", "price"],
        "properties": {
          "name":     {"type": "string", "minLength": 1},
          "quantity": {"type": "integer", "minimum": 1},
          "price":    {"type": ["number", "string"]}
        }
      }
    }
  }
}`)

var statusSchema = httpx.MustSchema(`{
  "type": "object",
  "properties": {
    "status": {"type": "string", "enum": ["", "received", "preparing", "ready", "delivered"]}
  }
}`)

type QueueHandler struct {
	service service.QueueServiceInterface
	lg      *logger.Logger
}

func NewQueueHandler(s service.QueueServiceInterface, lg *logger.Logger) *QueueHandler {
	return &QueueHandler{service: s, lg: lg}
}

func (h *QueueHandler) RegisterRoutes(r chi.Router) {
	r.Get("/queue", h.List)
}

func (h *QueueHandler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/queue/tickets", h.Issue)
	r.Patch("/queue/tickets/{id}/status", h.SetStatus)
	r.Post("/queue/sync", h.Sync)
	r.Delete("/queue", h.Clear)
	r.Post("/queue/reset-check", h.ResetCheck)
}

func (h *QueueHandler) List(w http.ResponseWriter, r *http.Request) {
	ts, err := h.service.List(r.Context())
	if err != nil {
		httpx.WriteError(w, h.lg, "list_queue_failed", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, ts)
}

func (h *QueueHandler) Issue(w http.ResponseWriter, r *http.Request) {
	var req dto.IssueTicketRequest
	if !httpx.DecodeJSON(w, r, maxBody, issueSchema, &req) {
		return
	}
	t, err := h.service.Issue(r.Context(), req)
	if err != nil {
		httpx.WriteError(w, h.lg, "issue_ticket_failed", err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, t)
}

// SetStatus accepts an empty body as "advance one step".
func (h *QueueHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteProblem(w, http.StatusBadRequest, "bad_request", "id must be a uuid")
		return
	}
	var req dto.StatusRequest
	if r.ContentLength != 0 {
		if !httpx.DecodeJSON(w, r, maxBody, statusSchema, &req) {
			return
		}
	}
	t, err := h.service.SetStatus(r.Context(), id, req)
	if err != nil {
		httpx.WriteError(w, h.lg, "set_ticket_status_failed", err)
		return
	}
	h.lg.Debug("ticket_status_set", map[string]any{"ticket_id": id, "status": t.Status, "by": httpx.AdminFromContext(r.Context())})
	httpx.WriteJSON(w, http.StatusOK, t)
}

func (h *QueueHandler) Sync(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.Sync(r.Context())
	if err != nil {
		httpx.WriteError(w, h.lg, "sync_queue_failed", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res)
}

func (h *QueueHandler) Clear(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.Clear(r.Context())
	if err != nil {
		httpx.WriteError(w, h.lg, "clear_queue_failed", err)
		return
	}
	h.lg.Info("queue_clear_requested", map[string]any{"deleted": res.Deleted, "by": httpx.AdminFromContext(r.Context())})
	httpx.WriteJSON(w, http.StatusOK, res)
}

func (h *QueueHandler) ResetCheck(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.ResetCheck(r.Context())
	if err != nil {
		httpx.WriteError(w, h.lg, "queue_reset_check_failed", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res)
}
