package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cantina/internal/domain"
	"cantina/internal/microservices/payment/domain/dao"
)

func pending(expires time.Time) dao.Payment {
	return dao.Payment{ID: uuid.New(), OrderID: uuid.New(), Amount: decimal.NewFromInt(10), Status: domain.PaymentPending, ExpiresAt: expires}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	base := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

	a := pending(base.Add(10 * time.Minute))
	b := pending(base.Add(5 * time.Minute))
	require.NoError(t, s.Save(ctx, a))
	require.NoError(t, s.Save(ctx, b))
	assert.True(t, errors.Is(s.Save(ctx, a), domain.ErrConflict))

	_, err := s.Get(ctx, uuid.New())
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	due, err := s.ListDue(ctx, base.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, b.ID, due[0].ID, "earliest deadline first")

	// a failing update leaves the payment untouched
	_, err = s.Update(ctx, a.ID, func(p *dao.Payment) error {
		p.Status = domain.PaymentPaid
		return errors.New("nope")
	})
	require.Error(t, err)
	got, err := s.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPending, got.Status)

	got, err = s.Update(ctx, a.ID, func(p *dao.Payment) error {
		p.Status = domain.PaymentExpired
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentExpired, got.Status)

	due, err = s.ListDue(ctx, base.Add(time.Hour))
	require.NoError(t, err)
	assert.Len(t, due, 1)

	due, err = s.ListDue(ctx, base)
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestNewStore(t *testing.T) {
	s, err := NewStore("", nil)
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	_, err = NewStore(StorePostgres, nil)
	assert.Error(t, err)

	_, err = NewStore("redis", nil)
	assert.Error(t, err)
}
