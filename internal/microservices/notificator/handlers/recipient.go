package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"cantina/internal/common/httpx"
	"cantina/internal/common/logger"
	"cantina/internal/microservices/notificator/domain/dto"
	"cantina/internal/microservices/notificator/service"
)

const maxBody = 4 << 10

var recipientSchema = httpx.MustSchema(`{
  "type": "object",
  "required": ["email"],
  "properties": {"email": {"type": "string", "minLength": 3, "maxLength": 254}}
}`)

type RecipientHandler struct {
	service service.RecipientServiceInterface
	lg      *logger.Logger
}

func NewRecipientHandler(s service.RecipientServiceInterface, lg *logger.Logger) *RecipientHandler {
	return &RecipientHandler{service: s, lg: lg}
}

func (h *RecipientHandler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/email-recipients", h.List)
	r.Post("/email-recipients", h.Add)
	r.Delete("/email-recipients/{id}", h.Remove)
}

func (h *RecipientHandler) List(w http.ResponseWriter, r *http.Request) {
	rs, err := h.service.List(r.Context())
	if err != nil {
		httpx.WriteError(w, h.lg, "list_recipients_failed", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, rs)
}

func (h *RecipientHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req dto.RecipientRequest
	if !httpx.DecodeJSON(w, r, maxBody, recipientSchema, &req) {
		return
	}
	rc, err := h.service.Add(r.Context(), req)
	if err != nil {
		httpx.WriteError(w, h.lg, "add_recipient_failed", err)
		return
	}
	h.lg.Info("recipient_added", map[string]any{"recipient_id": rc.ID, "by": httpx.AdminFromContext(r.Context())})
	httpx.WriteJSON(w, http.StatusCreated, rc)
}

func (h *RecipientHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteProblem(w, http.StatusBadRequest, "bad_request", "id must be a uuid")
		return
	}
	if err := h.service.Remove(r.Context(), id); err != nil {
		httpx.WriteError(w, h.lg, "remove_recipient_failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
