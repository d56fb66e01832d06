package handlers

import (
	"context"

	"github.com/google/uuid"

	"cantina/internal/microservices/queue/domain/dto"
)

type MockQueueService struct {
	ListFunc       func(ctx context.Context) ([]dto.TicketResponse, error)
	IssueFunc      func(ctx context.Context, req dto.IssueTicketRequest) (dto.TicketResponse, error)
	SetStatusFunc  func(ctx context.Context, id uuid.UUID, req dto.StatusRequest) (dto.TicketResponse, error)
	SyncFunc       func(ctx context.Context) (dto.SyncResponse, error)
	ClearFunc      func(ctx context.Context) (dto.ClearResponse, error)
	ResetCheckFunc func(ctx context.Context) (dto.ResetResponse, error)
}

func (m *MockQueueService) List(ctx context.Context) ([]dto.TicketResponse, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []dto.TicketResponse{}, nil
}

func (m *MockQueueService) Issue(ctx context.Context, req dto.IssueTicketRequest) (dto.TicketResponse, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(ctx, req)
	}
	return dto.TicketResponse{ID: uuid.New(), Code: "001", Status: "received"}, nil
}

func (m *MockQueueService) SetStatus(ctx context.Context, id uuid.UUID, req dto.StatusRequest) (dto.TicketResponse, error) {
	if m.SetStatusFunc != nil {
		return m.SetStatusFunc(ctx, id, req)
	}
	return dto.TicketResponse{ID: id, Status: req.Status}, nil
}

func (m *MockQueueService) Sync(ctx context.Context) (dto.SyncResponse, error) {
	if m.SyncFunc != nil {
		return m.SyncFunc(ctx)
	}
	return dto.SyncResponse{}, nil
}

func (m *MockQueueService) Clear(ctx context.Context) (dto.ClearResponse, error) {
	if m.ClearFunc != nil {
		return m.ClearFunc(ctx)
	}
	return dto.ClearResponse{}, nil
}

func (m *MockQueueService) ResetCheck(ctx context.Context) (dto.ResetResponse, error) {
	if m.ResetCheckFunc != nil {
		return m.ResetCheckFunc(ctx)
	}
	return dto.ResetResponse{}, nil
}

func (m *MockQueueService) NextTicketNumber(ctx context.Context) (int, error) {
	return 1, nil
}
