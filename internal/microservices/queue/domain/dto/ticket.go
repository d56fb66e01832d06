package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"cantina/internal/microservices/queue/domain/dao"
)

type IssueItem struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

type IssueTicketRequest struct {
	Items []IssueItem `json:"items"`
}

// StatusRequest with an empty status advances the ticket one step.
type StatusRequest struct {
	Status string `json:"status"`
}

type TicketItemResponse struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
}

type TicketResponse struct {
	ID        uuid.UUID            `json:"id"`
	Code      string               `json:"code"`
	OrderID   *uuid.UUID           `json:"order_id"`
	Status    string               `json:"status"`
	Items     []TicketItemResponse `json:"items"`
	Total     string               `json:"total"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

type SyncResponse struct {
	Synced  int   `json:"synced"`
	Removed int64 `json:"removed"`
}

type ClearResponse struct {
	Deleted int64 `json:"deleted"`
}

type ResetResponse struct {
	Reset   bool   `json:"reset"`
	Dropped int64  `json:"dropped"`
	Day     string `json:"day"`
}

func ToTicketResponse(t dao.Ticket) TicketResponse {
	resp := TicketResponse{
		ID:        t.ID,
		Code:      t.Code,
		Status:    string(t.Status),
		Items:     make([]TicketItemResponse, 0, len(t.Items)),
		Total:     t.Total.StringFixed(2),
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
	if t.OrderID.Valid {
		id := t.OrderID.UUID
		resp.OrderID = &id
	}
	for _, it := range t.Items {
		resp.Items = append(resp.Items, TicketItemResponse{Name: it.Name, Quantity: it.Quantity, Price: it.Price.StringFixed(2)})
	}
	return resp
}

func ToTicketResponses(ts []dao.Ticket) []TicketResponse {
	out := make([]TicketResponse, 0, len(ts))
	for _, t := range ts {
		out = append(out, ToTicketResponse(t))
	}
	return out
}
