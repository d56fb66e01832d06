package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"cantina/internal/microservices/payment/domain/dao"
)

// Store keeps payments keyed by id.
type Store interface {
	Save(ctx context.Context, p dao.Payment) error
	Get(ctx context.Context, id uuid.UUID) (dao.Payment, error)
	// Update runs fn on the current payment under a lock and persists the result
	// unless fn returns an error.
	Update(ctx context.Context, id uuid.UUID, fn func(p *dao.Payment) error) (dao.Payment, error)
	// ListDue returns pending payments whose expiry is at or before now.
	ListDue(ctx context.Context, now time.Time) ([]dao.Payment, error)
}
