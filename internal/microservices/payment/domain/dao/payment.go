package dao

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"cantina/internal/domain"
)

type Payment struct {
	ID         uuid.UUID
	OrderID    uuid.UUID
	Amount     decimal.Decimal
	Status     domain.PaymentStatus
	PixPayload string
	QRCodeURL  string
	ExpiresAt  time.Time
	PaidAt     *time.Time
	CreatedAt  time.Time
}

// Due reports whether a pending payment has passed its expiry at now.
func (p Payment) Due(now time.Time) bool {
	return p.Status == domain.PaymentPending && !p.ExpiresAt.After(now)
}
