package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"cantina/internal/common/logger"
	"cantina/internal/domain"
)

type Notification struct {
	OrderID    uuid.UUID
	Event      string
	Text       string
	Recipients []string
}

// Notifier delivers a rendered notification.
type Notifier interface {
	Send(ctx context.Context, n Notification) error
}

// LogNotifier writes notifications to the log instead of sending them.
type LogNotifier struct {
	lg *logger.Logger
}

func NewLogNotifier(lg *logger.Logger) *LogNotifier { return &LogNotifier{lg: lg} }

func (n *LogNotifier) Send(ctx context.Context, msg Notification) error {
	n.lg.Info("notification_sent", map[string]any{
		"order_id":   msg.OrderID,
		"event":      msg.Event,
		"recipients": msg.Recipients,
		"text":       msg.Text,
	})
	return nil
}

// Render formats an order event as a short text message:
//
//	Pedido #007 - Maria - R$ 25,90 - status: confirmed
//
// New orders also list their items and the delivery address.
func Render(m domain.OrderMessage) string {
	var b strings.Builder
	if m.Event == domain.EventOrderCreated {
		b.WriteString("Novo pedido #")
	} else {
		b.WriteString("Pedido #")
	}
	b.WriteString(domain.TicketCode(m.TicketNumber))
	b.WriteString(" - ")
	b.WriteString(m.CustomerName)
	b.WriteString(" - ")
	b.WriteString(domain.FormatBRL(m.TotalAmount))
	b.WriteString(" - status: ")
	b.WriteString(string(m.Status))
	if m.Event != domain.EventOrderCreated {
		return b.String()
	}
	for _, it := range m.Items {
		b.WriteString("\n")
		b.WriteString(strconv.Itoa(it.Quantity))
		b.WriteString("x ")
		b.WriteString(it.Name)
	}
	if m.PaymentMethod != "" {
		b.WriteString("\nPagamento: ")
		b.WriteString(m.PaymentMethod)
	}
	if m.Delivery {
		b.WriteString("\nEntrega: ")
		b.WriteString(m.DeliveryAddress)
	} else {
		b.WriteString("\nRetirada no balcão")
	}
	return b.String()
}
