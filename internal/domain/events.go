package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	EventOrderCreated = "order.created"
	eventStatusPrefix = "order.status."
)

// StatusRoutingKey is the routing key of a status change event.
func StatusRoutingKey(s OrderStatus) string { return eventStatusPrefix + string(s) }

type OrderItemMsg struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// OrderMessage is published to orders_topic on every order creation and status change.
type OrderMessage struct {
	Event           string          `json:"event"`
	OrderID         uuid.UUID       `json:"order_id"`
	TicketNumber    int             `json:"ticket_number"`
	CustomerName    string          `json:"customer_name"`
	CustomerPhone   string          `json:"customer_phone,omitempty"`
	Delivery        bool            `json:"delivery"`
	DeliveryAddress string          `json:"delivery_address,omitempty"`
	PaymentMethod   string          `json:"payment_method"`
	Items           []OrderItemMsg  `json:"items"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	OldStatus       OrderStatus     `json:"old_status,omitempty"`
	Status          OrderStatus     `json:"status"`
	ChangedBy       string          `json:"changed_by,omitempty"`
	Timestamp       time.Time       `json:"timestamp"`
}
