package handlers

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"cantina/internal/microservices/payment/domain/dto"
)

type MockPaymentService struct {
	GetFunc           func(ctx context.Context, id uuid.UUID) (dto.PaymentResponse, error)
	SimulateFunc      func(ctx context.Context, id uuid.UUID) (dto.PaymentResponse, error)
	HandleWebhookFunc func(ctx context.Context, req dto.WebhookRequest) error
}

func (m *MockPaymentService) CreateCharge(ctx context.Context, orderID uuid.UUID, amount decimal.Decimal, reference string) (dto.PaymentResponse, error) {
	return dto.PaymentResponse{ID: uuid.New(), OrderID: orderID, Amount: amount.StringFixed(2), Status: "pending"}, nil
}

func (m *MockPaymentService) Get(ctx context.Context, id uuid.UUID) (dto.PaymentResponse, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return dto.PaymentResponse{ID: id, Status: "pending"}, nil
}

func (m *MockPaymentService) MarkPaid(ctx context.Context, id uuid.UUID) (dto.PaymentResponse, error) {
	return dto.PaymentResponse{ID: id, Status: "paid"}, nil
}

func (m *MockPaymentService) MarkExpired(ctx context.Context, id uuid.UUID) (dto.PaymentResponse, error) {
	return dto.PaymentResponse{ID: id, Status: "expired"}, nil
}

func (m *MockPaymentService) Simulate(ctx context.Context, id uuid.UUID) (dto.PaymentResponse, error) {
	if m.SimulateFunc != nil {
		return m.SimulateFunc(ctx, id)
	}
	return dto.PaymentResponse{ID: id, Status: "paid"}, nil
}

func (m *MockPaymentService) HandleWebhook(ctx context.Context, req dto.WebhookRequest) error {
	if m.HandleWebhookFunc != nil {
		return m.HandleWebhookFunc(ctx, req)
	}
	return nil
}

func (m *MockPaymentService) ExpireDue(ctx context.Context, now time.Time) (int, error) {
	return 0, nil
}
