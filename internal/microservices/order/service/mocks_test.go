package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"cantina/internal/domain"
	catalog "cantina/internal/microservices/catalog/domain/dao"
	"cantina/internal/microservices/order/domain/dao"
)

type MockOrderRepo struct {
	mu     sync.Mutex
	orders map[uuid.UUID]dao.Order
	logs   map[uuid.UUID][]dao.StatusLog
	seq    int64

	CreateFunc func(ctx context.Context, o dao.Order, changedBy string) (dao.Order, error)
	StatsFunc  func(ctx context.Context, since time.Time) (dao.Stats, error)
	lastFilter dao.ListFilter
}

func NewMockOrderRepo() *MockOrderRepo {
	return &MockOrderRepo{orders: make(map[uuid.UUID]dao.Order), logs: make(map[uuid.UUID][]dao.StatusLog)}
}

func (m *MockOrderRepo) Create(ctx context.Context, o dao.Order, changedBy string) (dao.Order, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, o, changedBy)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	o.CreatedAt, o.UpdatedAt = now, now
	for i := range o.Items {
		m.seq++
		o.Items[i].ID = m.seq
		o.Items[i].OrderID = o.ID
	}
	m.orders[o.ID] = o
	m.logs[o.ID] = append(m.logs[o.ID], dao.StatusLog{Status: o.Status, ChangedBy: changedBy, ChangedAt: now})
	return o, nil
}

func (m *MockOrderRepo) Get(ctx context.Context, id uuid.UUID) (dao.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return dao.Order{}, fmt.Errorf("order %s: %w", id, domain.ErrNotFound)
	}
	return o, nil
}

func (m *MockOrderRepo) List(ctx context.Context, f dao.ListFilter) ([]dao.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastFilter = f
	out := make([]dao.Order, 0)
	for _, o := range m.orders {
		if f.Status == "" || o.Status == f.Status {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TicketNumber < out[j].TicketNumber })
	return out, nil
}

func (m *MockOrderRepo) TransitionTx(ctx context.Context, id uuid.UUID, changedBy, notes string, pick func(from domain.OrderStatus) (domain.OrderStatus, error)) (dao.Order, domain.OrderStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return dao.Order{}, "", fmt.Errorf("order %s: %w", id, domain.ErrNotFound)
	}
	from := o.Status
	to, err := pick(from)
	if err != nil {
		return dao.Order{}, from, err
	}
	o.Status = to
	m.orders[id] = o
	m.logs[id] = append(m.logs[id], dao.StatusLog{Status: to, ChangedBy: changedBy, ChangedAt: time.Now(), Notes: notes})
	return o, from, nil
}

func (m *MockOrderRepo) SetPayment(ctx context.Context, id, paymentID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.PaymentID = uuid.NullUUID{UUID: paymentID, Valid: true}
	m.orders[id] = o
	return nil
}

func (m *MockOrderRepo) Timeline(ctx context.Context, id uuid.UUID) ([]dao.StatusLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[id]; !ok {
		return nil, domain.ErrNotFound
	}
	return append([]dao.StatusLog(nil), m.logs[id]...), nil
}

func (m *MockOrderRepo) Stats(ctx context.Context, since time.Time) (dao.Stats, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx, since)
	}
	return dao.Stats{Revenue: decimal.Zero, ByStatus: map[domain.OrderStatus]int{}}, nil
}

type MockProducts map[uuid.UUID]catalog.Product

func (m MockProducts) GetMany(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]catalog.Product, error) {
	out := make(map[uuid.UUID]catalog.Product)
	for _, id := range ids {
		if p, ok := m[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

type MockTickets struct{ n int }

func (m *MockTickets) NextTicketNumber(ctx context.Context) (int, error) {
	m.n++
	return m.n, nil
}

type published struct {
	key  string
	corr string
	msg  domain.OrderMessage
}

type MockPublisher struct {
	mu   sync.Mutex
	sent []published
	err  error
}

func (m *MockPublisher) Publish(ctx context.Context, routingKey, correlationID string, body []byte) error {
	if m.err != nil {
		return m.err
	}
	var msg domain.OrderMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, published{key: routingKey, corr: correlationID, msg: msg})
	return nil
}
