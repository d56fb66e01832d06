package service

import (
	"context"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"cantina/internal/domain"
	"cantina/internal/microservices/notificator/domain/dao"
	"cantina/internal/microservices/notificator/domain/dto"
	"cantina/internal/microservices/notificator/repository"
)

const maxEmailLen = 254

type RecipientServiceInterface interface {
	List(ctx context.Context) ([]dto.RecipientResponse, error)
	Add(ctx context.Context, req dto.RecipientRequest) (dto.RecipientResponse, error)
	Remove(ctx context.Context, id uuid.UUID) error
	// Emails returns the addresses notifications are sent to.
	Emails(ctx context.Context) ([]string, error)
}

type RecipientService struct {
	repo repository.RecipientRepositoryInterface
}

func NewRecipientService(repo repository.RecipientRepositoryInterface) *RecipientService {
	return &RecipientService{repo: repo}
}

func (s *RecipientService) List(ctx context.Context) ([]dto.RecipientResponse, error) {
	rs, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return dto.ToRecipientResponses(rs), nil
}

func (s *RecipientService) Add(ctx context.Context, req dto.RecipientRequest) (dto.RecipientResponse, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return dto.RecipientResponse{}, err
	}
	r, err := s.repo.Create(ctx, dao.Recipient{ID: uuid.New(), Email: email})
	if err != nil {
		return dto.RecipientResponse{}, err
	}
	return dto.ToRecipientResponse(r), nil
}

func (s *RecipientService) Remove(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *RecipientService) Emails(ctx context.Context) ([]string, error) {
	rs, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.Email)
	}
	return out, nil
}

// normalizeEmail accepts a bare address only, no display name.
func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", domain.Validationf("email is required")
	}
	if len(email) > maxEmailLen {
		return "", domain.Validationf("email is too long")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", domain.Validationf("invalid email %q", raw)
	}
	return email, nil
}
