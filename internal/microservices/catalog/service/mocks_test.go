package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"cantina/internal/domain"
	"cantina/internal/microservices/catalog/domain/dao"
)

// MockCategoryRepo keeps categories in memory unless a Func field overrides a method.
type MockCategoryRepo struct {
	mu         sync.Mutex
	categories map[uuid.UUID]dao.Category

	ListFunc   func(ctx context.Context) ([]dao.Category, error)
	CreateFunc func(ctx context.Context, c dao.Category) (dao.Category, error)
}

func NewMockCategoryRepo(cs ...dao.Category) *MockCategoryRepo {
	m := &MockCategoryRepo{categories: make(map[uuid.UUID]dao.Category)}
	for _, c := range cs {
		m.categories[c.ID] = c
	}
	return m
}

func (m *MockCategoryRepo) List(ctx context.Context) ([]dao.Category, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]dao.Category, 0, len(m.categories))
	for _, c := range m.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MockCategoryRepo) Get(ctx context.Context, id uuid.UUID) (dao.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.categories[id]
	if !ok {
		return dao.Category{}, fmt.Errorf("category %s: %w", id, domain.ErrNotFound)
	}
	return c, nil
}

func (m *MockCategoryRepo) Create(ctx context.Context, c dao.Category) (dao.Category, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, c)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.categories {
		if existing.Name == c.Name {
			return dao.Category{}, domain.ErrConflict
		}
	}
	c.CreatedAt = time.Now()
	m.categories[c.ID] = c
	return c, nil
}

func (m *MockCategoryRepo) Rename(ctx context.Context, id uuid.UUID, name string) (dao.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.categories[id]
	if !ok {
		return dao.Category{}, domain.ErrNotFound
	}
	c.Name = name
	m.categories[id] = c
	return c, nil
}

func (m *MockCategoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.categories, id)
	return nil
}

type MockProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]dao.Product

	ListFunc   func(ctx context.Context, f dao.ProductFilter) ([]dao.Product, error)
	UpdateFunc func(ctx context.Context, p dao.Product) (dao.Product, error)
}

func NewMockProductRepo(ps ...dao.Product) *MockProductRepo {
	m := &MockProductRepo{products: make(map[uuid.UUID]dao.Product)}
	for _, p := range ps {
		m.products[p.ID] = p
	}
	return m
}

func (m *MockProductRepo) List(ctx context.Context, f dao.ProductFilter) ([]dao.Product, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, f)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]dao.Product, 0)
	for _, p := range m.products {
		if f.OnlyAvailable && !p.Available {
			continue
		}
		if f.Featured && !p.IsFeatured {
			continue
		}
		if f.Promotion && !p.IsPromotion {
			continue
		}
		if f.CategoryID != nil && (!p.CategoryID.Valid || p.CategoryID.UUID != *f.CategoryID) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MockProductRepo) Get(ctx context.Context, id uuid.UUID) (dao.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return dao.Product{}, fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
	}
	return p, nil
}

func (m *MockProductRepo) GetMany(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]dao.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[uuid.UUID]dao.Product)
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (m *MockProductRepo) Create(ctx context.Context, p dao.Product) (dao.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.CreatedAt, p.UpdatedAt = time.Now(), time.Now()
	m.products[p.ID] = p
	return p, nil
}

func (m *MockProductRepo) Update(ctx context.Context, p dao.Product) (dao.Product, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, p)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[p.ID]; !ok {
		return dao.Product{}, domain.ErrNotFound
	}
	m.products[p.ID] = p
	return p, nil
}

func (m *MockProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.products, id)
	return nil
}
