package handlers

import (
	"context"

	"github.com/google/uuid"

	"cantina/internal/microservices/order/domain/dto"
)

type MockOrderService struct {
	QuoteFunc        func(ctx context.Context, req dto.QuoteRequest) (dto.QuoteResponse, error)
	CheckoutFunc     func(ctx context.Context, req dto.CheckoutRequest) (dto.CheckoutResponse, error)
	CreateOrderFunc  func(ctx context.Context, req dto.CheckoutRequest) (dto.OrderResponse, error)
	GetFunc          func(ctx context.Context, id uuid.UUID) (dto.OrderResponse, error)
	TimelineFunc     func(ctx context.Context, id uuid.UUID) ([]dto.TimelineEntry, error)
	ListFunc         func(ctx context.Context, f dto.ListFilter) ([]dto.OrderResponse, error)
	UpdateStatusFunc func(ctx context.Context, id uuid.UUID, req dto.StatusRequest, changedBy string) (dto.OrderResponse, error)
	StatsFunc        func(ctx context.Context) (dto.StatsResponse, error)
}

func (m *MockOrderService) Quote(ctx context.Context, req dto.QuoteRequest) (dto.QuoteResponse, error) {
	if m.QuoteFunc != nil {
		return m.QuoteFunc(ctx, req)
	}
	return dto.QuoteResponse{}, nil
}

func (m *MockOrderService) Checkout(ctx context.Context, req dto.CheckoutRequest) (dto.CheckoutResponse, error) {
	if m.CheckoutFunc != nil {
		return m.CheckoutFunc(ctx, req)
	}
	return dto.CheckoutResponse{Order: dto.OrderResponse{ID: uuid.New(), PaymentMethod: req.PaymentMethod}}, nil
}

func (m *MockOrderService) CreateOrder(ctx context.Context, req dto.CheckoutRequest) (dto.OrderResponse, error) {
	if m.CreateOrderFunc != nil {
		return m.CreateOrderFunc(ctx, req)
	}
	return dto.OrderResponse{ID: uuid.New(), PaymentMethod: dto.PaymentCash}, nil
}

func (m *MockOrderService) Get(ctx context.Context, id uuid.UUID) (dto.OrderResponse, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return dto.OrderResponse{ID: id}, nil
}

func (m *MockOrderService) Timeline(ctx context.Context, id uuid.UUID) ([]dto.TimelineEntry, error) {
	if m.TimelineFunc != nil {
		return m.TimelineFunc(ctx, id)
	}
	return []dto.TimelineEntry{}, nil
}

func (m *MockOrderService) List(ctx context.Context, f dto.ListFilter) ([]dto.OrderResponse, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, f)
	}
	return []dto.OrderResponse{}, nil
}

func (m *MockOrderService) UpdateStatus(ctx context.Context, id uuid.UUID, req dto.StatusRequest, changedBy string) (dto.OrderResponse, error) {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, req, changedBy)
	}
	return dto.OrderResponse{ID: id, Status: req.Status}, nil
}

func (m *MockOrderService) Stats(ctx context.Context) (dto.StatsResponse, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx)
	}
	return dto.StatsResponse{ByStatus: map[string]int{}}, nil
}
