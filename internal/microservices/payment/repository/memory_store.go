package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"cantina/internal/domain"
	"cantina/internal/microservices/payment/domain/dao"
)

type MemoryStore struct {
	mu       sync.Mutex
	payments map[uuid.UUID]dao.Payment
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{payments: make(map[uuid.UUID]dao.Payment)}
}

func (s *MemoryStore) Save(ctx context.Context, p dao.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.payments[p.ID]; ok {
		return fmt.Errorf("payment %s: %w", p.ID, domain.ErrConflict)
	}
	s.payments[p.ID] = p
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id uuid.UUID) (dao.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[id]
	if !ok {
		return dao.Payment{}, fmt.Errorf("payment %s: %w", id, domain.ErrNotFound)
	}
	return p, nil
}

func (s *MemoryStore) Update(ctx context.Context, id uuid.UUID, fn func(p *dao.Payment) error) (dao.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[id]
	if !ok {
		return dao.Payment{}, fmt.Errorf("payment %s: %w", id, domain.ErrNotFound)
	}
	if err := fn(&p); err != nil {
		return dao.Payment{}, err
	}
	s.payments[id] = p
	return p, nil
}

func (s *MemoryStore) ListDue(ctx context.Context, now time.Time) ([]dao.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]dao.Payment, 0)
	for _, p := range s.payments {
		if p.Due(now) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExpiresAt.Before(out[j].ExpiresAt) })
	return out, nil
}
