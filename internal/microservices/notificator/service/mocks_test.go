package service

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"cantina/internal/domain"
	"cantina/internal/microservices/notificator/domain/dao"
)

type MockRecipientRepo struct {
	mu   sync.Mutex
	list []dao.Recipient

	ListErr error
}

func (m *MockRecipientRepo) List(ctx context.Context) ([]dao.Recipient, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]dao.Recipient(nil), m.list...), nil
}

func (m *MockRecipientRepo) Create(ctx context.Context, r dao.Recipient) (dao.Recipient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.list {
		if existing.Email == r.Email {
			return dao.Recipient{}, domain.ErrConflict
		}
	}
	m.list = append(m.list, r)
	return r, nil
}

func (m *MockRecipientRepo) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.list {
		if r.ID == id {
			m.list = append(m.list[:i], m.list[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

type MockNotifier struct {
	sent []Notification
	err  error
}

func (m *MockNotifier) Send(ctx context.Context, n Notification) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, n)
	return nil
}

// ackRecord captures how a delivery was settled.
type ackRecord struct {
	acked   bool
	nacked  bool
	requeue bool
}

func (a *ackRecord) Ack(tag uint64, multiple bool) error {
	a.acked = true
	return nil
}

func (a *ackRecord) Nack(tag uint64, multiple, requeue bool) error {
	a.nacked, a.requeue = true, requeue
	return nil
}

func (a *ackRecord) Reject(tag uint64, requeue bool) error {
	return a.Nack(tag, false, requeue)
}
