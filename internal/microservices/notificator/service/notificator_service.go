package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp091 "github.com/rabbitmq/amqp091-go"

	"cantina/internal/common/logger"
	"cantina/internal/domain"
)

// ErrMalformed marks a message that can never be handled; it is dropped without requeue.
var ErrMalformed = errors.New("malformed message")

// Recipients lists the email addresses a notification goes to.
type Recipients interface {
	Emails(ctx context.Context) ([]string, error)
}

type NotificatorServiceInterface interface {
	Handle(ctx context.Context, body []byte) error
	Run(ctx context.Context, msgs <-chan amqp091.Delivery)
}

type NotificatorService struct {
	recipients Recipients
	notifier   Notifier
	lg         *logger.Logger
}

func NewNotificatorService(recipients Recipients, notifier Notifier, lg *logger.Logger) *NotificatorService {
	return &NotificatorService{recipients: recipients, notifier: notifier, lg: lg}
}

// Handle decodes one order event, renders it and passes it to the notifier.
func (s *NotificatorService) Handle(ctx context.Context, body []byte) error {
	var m domain.OrderMessage
	if err := json.Unmarshal(body, &m); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if m.Event == "" || !m.Status.Valid() {
		return fmt.Errorf("%w: event %q with status %q", ErrMalformed, m.Event, m.Status)
	}

	to, err := s.recipients.Emails(ctx)
	if err != nil {
		return fmt.Errorf("failed to load recipients: %w", err)
	}
	n := Notification{OrderID: m.OrderID, Event: m.Event, Text: Render(m), Recipients: to}
	if err := s.notifier.Send(ctx, n); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	return nil
}

// Run handles deliveries until ctx is done or the channel is closed.
func (s *NotificatorService) Run(ctx context.Context, msgs <-chan amqp091.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-msgs:
			if !ok {
				s.lg.Warn("deliveries_closed", nil)
				return
			}
			s.settle(d, s.Handle(ctx, d.Body))
		}
	}
}

// settle acks a handled delivery. A failed one is requeued once, then dropped.
func (s *NotificatorService) settle(d amqp091.Delivery, err error) {
	fields := map[string]any{"routing_key": d.RoutingKey, "correlation_id": d.CorrelationId}
	switch {
	case err == nil:
		_ = d.Ack(false)
	case errors.Is(err, ErrMalformed):
		s.lg.Warn("message_dropped", map[string]any{"routing_key": d.RoutingKey, "reason": err.Error()})
		_ = d.Nack(false, false)
	case !d.Redelivered:
		s.lg.Error("message_requeued", err, fields)
		_ = d.Nack(false, true)
	default:
		s.lg.Error("message_dropped", err, fields)
		_ = d.Nack(false, false)
	}
}
