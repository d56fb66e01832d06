package dao

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"cantina/internal/domain"
)

// TicketItem is stored inside queue_tickets.items (JSONB).
type TicketItem struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

type Ticket struct {
	ID        uuid.UUID
	Code      string
	OrderID   uuid.NullUUID
	Status    domain.TicketStatus
	Items     []TicketItem
	Total     decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderSnapshot is the part of an order the queue board mirrors.
type OrderSnapshot struct {
	ID           uuid.UUID
	TicketNumber int
	Status       domain.OrderStatus
	Items        []TicketItem
	Total        decimal.Decimal
	CreatedAt    time.Time
}
