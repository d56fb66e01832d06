package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"cantina/internal/common/logger"
	"cantina/internal/config"
	"cantina/internal/domain"
	"cantina/internal/microservices/payment/domain/dao"
	"cantina/internal/microservices/payment/domain/dto"
	"cantina/internal/microservices/payment/repository"
	"cantina/internal/pix"
)

const changedByPayment = "payment"

// OrderUpdater moves the order a payment belongs to.
type OrderUpdater func(ctx context.Context, orderID uuid.UUID, to domain.OrderStatus, changedBy string) error

type PaymentServiceInterface interface {
	CreateCharge(ctx context.Context, orderID uuid.UUID, amount decimal.Decimal, reference string) (dto.PaymentResponse, error)
	Get(ctx context.Context, id uuid.UUID) (dto.PaymentResponse, error)
	MarkPaid(ctx context.Context, id uuid.UUID) (dto.PaymentResponse, error)
	MarkExpired(ctx context.Context, id uuid.UUID) (dto.PaymentResponse, error)
	Simulate(ctx context.Context, id uuid.UUID) (dto.PaymentResponse, error)
	HandleWebhook(ctx context.Context, req dto.WebhookRequest) error
	ExpireDue(ctx context.Context, now time.Time) (int, error)
}

type PaymentService struct {
	store   repository.Store
	pix     config.PixConfig
	sandbox bool
	orders  OrderUpdater
	now     func() time.Time
	lg      *logger.Logger
}

func NewPaymentService(store repository.Store, pixCfg config.PixConfig, sandbox bool, orders OrderUpdater, lg *logger.Logger) *PaymentService {
	return &PaymentService{store: store, pix: pixCfg, sandbox: sandbox, orders: orders, now: time.Now, lg: lg}
}

// CreateCharge builds the PIX payload for an order and stores a pending payment.
func (s *PaymentService) CreateCharge(ctx context.Context, orderID uuid.UUID, amount decimal.Decimal, reference string) (dto.PaymentResponse, error) {
	amount = amount.Round(2)
	payload, err := pix.Payload{
		Amount:      amount,
		Description: "Pedido " + reference,
		Key:         s.pix.Key,
		Name:        s.pix.MerchantName,
		City:        s.pix.MerchantCity,
		Reference:   reference,
	}.Build()
	if err != nil {
		if errors.Is(err, pix.ErrInvalidAmount) {
			return dto.PaymentResponse{}, domain.Validationf("invalid charge amount %s", amount.StringFixed(2))
		}
		return dto.PaymentResponse{}, fmt.Errorf("failed to build pix payload: %w", err)
	}
	qr, err := pix.QRCodeURL(s.pix.QRBaseURL, payload, s.pix.QRSize)
	if err != nil {
		return dto.PaymentResponse{}, err
	}

	now := s.now().UTC()
	p := dao.Payment{
		ID:         uuid.New(),
		OrderID:    orderID,
		Amount:     amount,
		Status:     domain.PaymentPending,
		PixPayload: payload,
		QRCodeURL:  qr,
		ExpiresAt:  now.Add(s.pix.TTL),
		CreatedAt:  now,
	}
	if err := s.store.Save(ctx, p); err != nil {
		return dto.PaymentResponse{}, err
	}
	s.lg.Info("payment_created", map[string]any{
		"payment_id": p.ID,
		"order_id":   orderID,
		"amount":     amount.StringFixed(2),
		"expires_at": p.ExpiresAt,
	})
	return dto.ToPaymentResponse(p), nil
}

func (s *PaymentService) Get(ctx context.Context, id uuid.UUID) (dto.PaymentResponse, error) {
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return dto.PaymentResponse{}, err
	}
	return dto.ToPaymentResponse(p), nil
}

// settle moves a pending payment to status. It is a no-op when the payment already
// has that status, and an invalid transition from any other settled status.
// A non-zero dueAt additionally requires the payment to be due at that instant.
func (s *PaymentService) settle(ctx context.Context, id uuid.UUID, status domain.PaymentStatus, dueAt time.Time) (dao.Payment, bool, error) {
	changed := false
	now := s.now().UTC()
	p, err := s.store.Update(ctx, id, func(p *dao.Payment) error {
		if p.Status == status {
			return nil
		}
		if p.Status != domain.PaymentPending {
			return domain.TransitionError(p.Status, status)
		}
		if !dueAt.IsZero() && !p.Due(dueAt) {
			return nil
		}
		p.Status = status
		if status == domain.PaymentPaid {
			p.PaidAt = &now
		}
		changed = true
		return nil
	})
	return p, changed, err
}

func (s *PaymentService) MarkPaid(ctx context.Context, id uuid.UUID) (dto.PaymentResponse, error) {
	p, changed, err := s.settle(ctx, id, domain.PaymentPaid, time.Time{})
	if err != nil {
		return dto.PaymentResponse{}, err
	}
	if changed {
		s.lg.Info("payment_paid", map[string]any{"payment_id": p.ID, "order_id": p.OrderID})
		s.moveOrder(ctx, p, domain.OrderConfirmed)
	}
	return dto.ToPaymentResponse(p), nil
}

func (s *PaymentService) MarkExpired(ctx context.Context, id uuid.UUID) (dto.PaymentResponse, error) {
	p, changed, err := s.settle(ctx, id, domain.PaymentExpired, time.Time{})
	if err != nil {
		return dto.PaymentResponse{}, err
	}
	if changed {
		s.expired(ctx, p)
	}
	return dto.ToPaymentResponse(p), nil
}

func (s *PaymentService) expired(ctx context.Context, p dao.Payment) {
	s.lg.Info("payment_expired", map[string]any{"payment_id": p.ID, "order_id": p.OrderID})
	s.moveOrder(ctx, p, domain.OrderCancelled)
}

// moveOrder only logs failures; the payment state is already stored.
func (s *PaymentService) moveOrder(ctx context.Context, p dao.Payment, to domain.OrderStatus) {
	if s.orders == nil {
		return
	}
	err := s.orders(ctx, p.OrderID, to, changedByPayment)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrInvalidTransition):
		s.lg.Warn("order_not_moved", map[string]any{"payment_id": p.ID, "order_id": p.OrderID, "to": to, "reason": err.Error()})
	default:
		s.lg.Error("order_update_failed", err, map[string]any{"payment_id": p.ID, "order_id": p.OrderID, "to": to})
	}
}

// Simulate marks a payment as paid without the provider. Sandbox only.
func (s *PaymentService) Simulate(ctx context.Context, id uuid.UUID) (dto.PaymentResponse, error) {
	if !s.sandbox {
		return dto.PaymentResponse{}, fmt.Errorf("%w: payment simulation is disabled", domain.ErrForbidden)
	}
	return s.MarkPaid(ctx, id)
}

// HandleWebhook applies billing.paid and billing.expired. Other events are ignored.
func (s *PaymentService) HandleWebhook(ctx context.Context, req dto.WebhookRequest) error {
	var apply func(context.Context, uuid.UUID) (dto.PaymentResponse, error)
	switch req.Event {
	case dto.EventBillingPaid:
		apply = s.MarkPaid
	case dto.EventBillingExpired:
		apply = s.MarkExpired
	default:
		s.lg.Debug("webhook_ignored", map[string]any{"event": req.Event})
		return nil
	}

	var billing dto.WebhookBilling
	if len(req.Data) == 0 || json.Unmarshal(req.Data, &billing) != nil {
		return domain.Validationf("webhook %s without billing data", req.Event)
	}
	id, err := uuid.Parse(billing.ID)
	if err != nil {
		return domain.Validationf("webhook %s with invalid billing id %q", req.Event, billing.ID)
	}
	_, err = apply(ctx, id)
	return err
}

// ExpireDue expires every pending payment whose deadline is at or before now and
// returns how many it expired. A payment is expired at most once.
func (s *PaymentService) ExpireDue(ctx context.Context, now time.Time) (int, error) {
	due, err := s.store.ListDue(ctx, now)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, d := range due {
		p, changed, err := s.settle(ctx, d.ID, domain.PaymentExpired, now)
		if err != nil {
			// paid between ListDue and the lock
			if errors.Is(err, domain.ErrInvalidTransition) {
				continue
			}
			return n, err
		}
		if changed {
			s.expired(ctx, p)
			n++
		}
	}
	return n, nil
}

// RunExpiry calls ExpireDue every interval until ctx is done.
func (s *PaymentService) RunExpiry(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := s.ExpireDue(ctx, s.now())
			if err != nil {
				s.lg.Error("payment_expiry_failed", err, nil)
				continue
			}
			if n > 0 {
				s.lg.Info("payments_expired", map[string]any{"count": n})
			}
		}
	}
}
