package dto

import (
	"time"

	"github.com/google/uuid"

	"cantina/internal/domain"
	"cantina/internal/microservices/order/domain/dao"
)

const (
	PaymentPix  = "pix"
	PaymentCash = "cash"
)

type CartItemRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

type QuoteRequest struct {
	Delivery bool              `json:"delivery"`
	Items    []CartItemRequest `json:"items"`
}

type CheckoutRequest struct {
	CustomerName    string            `json:"customer_name"`
	CustomerPhone   string            `json:"customer_phone"`
	Delivery        bool              `json:"delivery"`
	DeliveryAddress string            `json:"delivery_address"`
	PaymentMethod   string            `json:"payment_method"`
	Items           []CartItemRequest `json:"items"`
}

type QuoteLine struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	ImageURL  string    `json:"image_url,omitempty"`
	Price     string    `json:"price"`
	Quantity  int       `json:"quantity"`
	Subtotal  string    `json:"subtotal"`
}

type QuoteResponse struct {
	Lines       []QuoteLine `json:"lines"`
	ItemCount   int         `json:"item_count"`
	Subtotal    string      `json:"subtotal"`
	DeliveryFee string      `json:"delivery_fee"`
	Total       string      `json:"total"`
}

// Charge is the PIX charge attached to an order at checkout.
type Charge struct {
	PaymentID  uuid.UUID `json:"payment_id"`
	Amount     string    `json:"amount"`
	PixPayload string    `json:"pix_payload"`
	QRCodeURL  string    `json:"qr_code_url"`
	ExpiresAt  time.Time `json:"expires_at"`
}

type CheckoutResponse struct {
	Order   OrderResponse `json:"order"`
	Payment *Charge       `json:"payment,omitempty"`
}

type OrderItemResponse struct {
	ProductID *uuid.UUID `json:"product_id"`
	Name      string     `json:"name"`
	Quantity  int        `json:"quantity"`
	Price     string     `json:"price"`
}

type OrderResponse struct {
	ID              uuid.UUID           `json:"id"`
	TicketNumber    int                 `json:"ticket_number"`
	Code            string              `json:"code"`
	CustomerName    string              `json:"customer_name"`
	CustomerPhone   string              `json:"customer_phone,omitempty"`
	Delivery        bool                `json:"delivery"`
	DeliveryAddress string              `json:"delivery_address,omitempty"`
	PaymentMethod   string              `json:"payment_method"`
	PaymentID       *uuid.UUID          `json:"payment_id"`
	Items           []OrderItemResponse `json:"items"`
	DeliveryFee     string              `json:"delivery_fee"`
	TotalAmount     string              `json:"total_amount"`
	Status          string              `json:"status"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

type StatusRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

type TimelineEntry struct {
	Status    string    `json:"status"`
	ChangedBy string    `json:"changed_by"`
	ChangedAt time.Time `json:"changed_at"`
	Notes     string    `json:"notes,omitempty"`
}

type ListFilter struct {
	Status string
	Limit  int
	Offset int
}

type StatsResponse struct {
	Day          string         `json:"day"`
	OrdersToday  int            `json:"orders_today"`
	RevenueToday string         `json:"revenue_today"`
	ByStatus     map[string]int `json:"by_status"`
}

func ToOrderResponse(o dao.Order) OrderResponse {
	resp := OrderResponse{
		ID:              o.ID,
		TicketNumber:    o.TicketNumber,
		Code:            domain.TicketCode(o.TicketNumber),
		CustomerName:    o.CustomerName,
		CustomerPhone:   o.CustomerPhone,
		Delivery:        o.Delivery,
		DeliveryAddress: o.DeliveryAddress,
		PaymentMethod:   o.PaymentMethod,
		Items:           make([]OrderItemResponse, 0, len(o.Items)),
		DeliveryFee:     o.DeliveryFee.StringFixed(2),
		TotalAmount:     o.TotalAmount.StringFixed(2),
		Status:          string(o.Status),
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
	if o.PaymentID.Valid {
		id := o.PaymentID.UUID
		resp.PaymentID = &id
	}
	for _, it := range o.Items {
		item := OrderItemResponse{Name: it.Name, Quantity: it.Quantity, Price: it.Price.StringFixed(2)}
		if it.ProductID.Valid {
			id := it.ProductID.UUID
			item.ProductID = &id
		}
		resp.Items = append(resp.Items, item)
	}
	return resp
}

func ToOrderResponses(orders []dao.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, ToOrderResponse(o))
	}
	return out
}

func ToTimeline(ls []dao.StatusLog) []TimelineEntry {
	out := make([]TimelineEntry, 0, len(ls))
	for _, l := range ls {
		out = append(out, TimelineEntry{Status: string(l.Status), ChangedBy: l.ChangedBy, ChangedAt: l.ChangedAt, Notes: l.Notes})
	}
	return out
}

// ToMessage builds the event published for an order.
func ToMessage(event string, o dao.Order, old domain.OrderStatus, changedBy string, at time.Time) domain.OrderMessage {
	msg := domain.OrderMessage{
		Event:           event,
		OrderID:         o.ID,
		TicketNumber:    o.TicketNumber,
		CustomerName:    o.CustomerName,
		CustomerPhone:   o.CustomerPhone,
		Delivery:        o.Delivery,
		DeliveryAddress: o.DeliveryAddress,
		PaymentMethod:   o.PaymentMethod,
		Items:           make([]domain.OrderItemMsg, 0, len(o.Items)),
		TotalAmount:     o.TotalAmount,
		OldStatus:       old,
		Status:          o.Status,
		ChangedBy:       changedBy,
		Timestamp:       at.UTC(),
	}
	for _, it := range o.Items {
		msg.Items = append(msg.Items, domain.OrderItemMsg{Name: it.Name, Quantity: it.Quantity, Price: it.Price})
	}
	return msg
}
