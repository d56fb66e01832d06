package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"cantina/internal/domain"
	"cantina/internal/microservices/queue/domain/dao"
)

type MockTicketRepo struct {
	mu      sync.Mutex
	tickets map[uuid.UUID]dao.Ticket
	orders  []dao.OrderSnapshot
	clock   func() time.Time

	UpsertFunc func(ctx context.Context, t dao.Ticket) (bool, error)
}

func NewMockTicketRepo(clock func() time.Time) *MockTicketRepo {
	return &MockTicketRepo{tickets: make(map[uuid.UUID]dao.Ticket), clock: clock}
}

func (m *MockTicketRepo) ListActive(ctx context.Context) ([]dao.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]dao.Ticket, 0)
	for _, t := range m.tickets {
		if t.Status != domain.TicketDelivered {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (m *MockTicketRepo) Insert(ctx context.Context, t dao.Ticket) (dao.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t.CreatedAt, t.UpdatedAt = m.clock(), m.clock()
	m.tickets[t.ID] = t
	return t, nil
}

func (m *MockTicketRepo) TransitionTx(ctx context.Context, id uuid.UUID, pick func(from domain.TicketStatus) (domain.TicketStatus, error)) (dao.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tickets[id]
	if !ok {
		return dao.Ticket{}, domain.ErrNotFound
	}
	next, err := pick(t.Status)
	if err != nil {
		return dao.Ticket{}, err
	}
	t.Status = next
	m.tickets[id] = t
	return t, nil
}

func (m *MockTicketRepo) UpsertForOrder(ctx context.Context, t dao.Ticket) (bool, error) {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, t)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, existing := range m.tickets {
		if existing.OrderID == t.OrderID {
			if !existing.Status.Behind(t.Status) {
				return false, nil
			}
			existing.Status = t.Status
			m.tickets[id] = existing
			return true, nil
		}
	}
	m.tickets[t.ID] = t
	return true, nil
}

func (m *MockTicketRepo) DeleteCancelled(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, o := range m.orders {
		if o.Status != domain.OrderCancelled {
			continue
		}
		for id, t := range m.tickets {
			if t.OrderID.Valid && t.OrderID.UUID == o.ID {
				delete(m.tickets, id)
				n++
			}
		}
	}
	return n, nil
}

func (m *MockTicketRepo) DeleteAll(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := int64(len(m.tickets))
	m.tickets = make(map[uuid.UUID]dao.Ticket)
	return n, nil
}

func (m *MockTicketRepo) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, t := range m.tickets {
		if t.CreatedAt.Before(before) {
			delete(m.tickets, id)
			n++
		}
	}
	return n, nil
}

func (m *MockTicketRepo) OrdersSince(ctx context.Context, since time.Time) ([]dao.OrderSnapshot, error) {
	out := make([]dao.OrderSnapshot, 0)
	for _, o := range m.orders {
		if !o.CreatedAt.Before(since) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *MockTicketRepo) byOrder(id uuid.UUID) (dao.Ticket, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tickets {
		if t.OrderID.Valid && t.OrderID.UUID == id {
			return t, true
		}
	}
	return dao.Ticket{}, false
}

// MockCounterRepo mirrors the SQL semantics of the counter table in memory.
type MockCounterRepo struct {
	mu      sync.Mutex
	value   map[string]int
	resetOn map[string]string
	days    []string
}

func NewMockCounterRepo() *MockCounterRepo {
	return &MockCounterRepo{value: make(map[string]int), resetOn: make(map[string]string)}
}

func (m *MockCounterRepo) Next(ctx context.Context, name, day string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.days = append(m.days, day)
	if last, ok := m.resetOn[name]; !ok || last < day {
		m.value[name] = 0
		m.resetOn[name] = day
	}
	m.value[name]++
	return m.value[name], nil
}

func (m *MockCounterRepo) ResetIfStale(ctx context.Context, name, day string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	last, ok := m.resetOn[name]
	if !ok {
		m.resetOn[name] = day
		return false, nil
	}
	if last < day {
		m.value[name] = 0
		m.resetOn[name] = day
		return true, nil
	}
	return false, nil
}
