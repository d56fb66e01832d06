package handlers

import (
	"context"

	"github.com/google/uuid"

	"cantina/internal/microservices/notificator/domain/dto"
)

type MockRecipientService struct {
	ListFunc   func(ctx context.Context) ([]dto.RecipientResponse, error)
	AddFunc    func(ctx context.Context, req dto.RecipientRequest) (dto.RecipientResponse, error)
	RemoveFunc func(ctx context.Context, id uuid.UUID) error
}

func (m *MockRecipientService) List(ctx context.Context) ([]dto.RecipientResponse, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []dto.RecipientResponse{}, nil
}

func (m *MockRecipientService) Add(ctx context.Context, req dto.RecipientRequest) (dto.RecipientResponse, error) {
	if m.AddFunc != nil {
		return m.AddFunc(ctx, req)
	}
	return dto.RecipientResponse{ID: uuid.New(), Email: req.Email}, nil
}

func (m *MockRecipientService) Remove(ctx context.Context, id uuid.UUID) error {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(ctx, id)
	}
	return nil
}

func (m *MockRecipientService) Emails(ctx context.Context) ([]string, error) {
	return nil, nil
}
