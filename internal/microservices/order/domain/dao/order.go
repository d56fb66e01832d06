package dao

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"cantina/internal/domain"
)

type Order struct {
	ID              uuid.UUID
	TicketNumber    int
	CustomerName    string
	CustomerPhone   string
	Delivery        bool
	DeliveryAddress string
	PaymentMethod   string // pix | cash
	PaymentID       uuid.NullUUID
	DeliveryFee     decimal.Decimal
	TotalAmount     decimal.Decimal
	Status          domain.OrderStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Items           []OrderItem
}

type OrderItem struct {
	ID        int64
	OrderID   uuid.UUID
	ProductID uuid.NullUUID
	Name      string
	Quantity  int
	Price     decimal.Decimal
	CreatedAt time.Time
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// StatusLog is one row of order_status_log.
type StatusLog struct {
	Status    domain.OrderStatus
	ChangedBy string
	ChangedAt time.Time
	Notes     string
}

type ListFilter struct {
	Status domain.OrderStatus // empty = any
	Limit  int
	Offset int
}

type Stats struct {
	Orders   int
	Revenue  decimal.Decimal
	ByStatus map[domain.OrderStatus]int
}
