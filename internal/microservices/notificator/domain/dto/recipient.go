package dto

import (
	"time"

	"github.com/google/uuid"

	"cantina/internal/microservices/notificator/domain/dao"
)

type RecipientRequest struct {
	Email string `json:"email"`
}

type RecipientResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func ToRecipientResponse(r dao.Recipient) RecipientResponse {
	return RecipientResponse{ID: r.ID, Email: r.Email, CreatedAt: r.CreatedAt}
}

func ToRecipientResponses(rs []dao.Recipient) []RecipientResponse {
	out := make([]RecipientResponse, 0, len(rs))
	for _, r := range rs {
		out = append(out, ToRecipientResponse(r))
	}
	return out
}
