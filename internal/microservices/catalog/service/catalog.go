package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"cantina/internal/domain"
	"cantina/internal/microservices/catalog/domain/dao"
	"cantina/internal/microservices/catalog/domain/dto"
	"cantina/internal/microservices/catalog/repository"
)

const (
	maxNameLen        = 120
	maxDescriptionLen = 2000
)

type CatalogServiceInterface interface {
	ListCategories(ctx context.Context) ([]dto.CategoryResponse, error)
	CreateCategory(ctx context.Context, req dto.CategoryRequest) (dto.CategoryResponse, error)
	RenameCategory(ctx context.Context, id uuid.UUID, req dto.CategoryRequest) (dto.CategoryResponse, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	// ListProducts serves the storefront, so unavailable products are hidden.
	ListProducts(ctx context.Context, f dao.ProductFilter) ([]dto.ProductResponse, error)
	ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]dto.ProductResponse, error)
	GetProduct(ctx context.Context, id uuid.UUID) (dto.ProductResponse, error)
	CreateProduct(ctx context.Context, req dto.ProductRequest) (dto.ProductResponse, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req dto.ProductRequest) (dto.ProductResponse, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type CatalogService struct {
	categories repository.CategoryRepositoryInterface
	products   repository.ProductRepositoryInterface
}

func NewCatalogService(categories repository.CategoryRepositoryInterface, products repository.ProductRepositoryInterface) CatalogServiceInterface {
	return &CatalogService{categories: categories, products: products}
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]dto.CategoryResponse, error) {
	cs, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	return dto.ToCategoryResponses(cs), nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, req dto.CategoryRequest) (dto.CategoryResponse, error) {
	name, err := cleanName(req.Name)
	if err != nil {
		return dto.CategoryResponse{}, err
	}
	c, err := s.categories.Create(ctx, dao.Category{ID: uuid.New(), Name: name})
	if err != nil {
		return dto.CategoryResponse{}, err
	}
	return dto.ToCategoryResponse(c), nil
}

func (s *CatalogService) RenameCategory(ctx context.Context, id uuid.UUID, req dto.CategoryRequest) (dto.CategoryResponse, error) {
	name, err := cleanName(req.Name)
	if err != nil {
		return dto.CategoryResponse{}, err
	}
	c, err := s.categories.Rename(ctx, id, name)
	if err != nil {
		return dto.CategoryResponse{}, err
	}
	return dto.ToCategoryResponse(c), nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return s.categories.Delete(ctx, id)
}

func (s *CatalogService) ListProducts(ctx context.Context, f dao.ProductFilter) ([]dto.ProductResponse, error) {
	f.OnlyAvailable = true
	ps, err := s.products.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return dto.ToProductResponses(ps), nil
}

func (s *CatalogService) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]dto.ProductResponse, error) {
	if _, err := s.categories.Get(ctx, categoryID); err != nil {
		return nil, err
	}
	return s.ListProducts(ctx, dao.ProductFilter{CategoryID: &categoryID})
}

func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (dto.ProductResponse, error) {
	p, err := s.products.Get(ctx, id)
	if err != nil {
		return dto.ProductResponse{}, err
	}
	return dto.ToProductResponse(p), nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, req dto.ProductRequest) (dto.ProductResponse, error) {
	if err := validateProduct(&req); err != nil {
		return dto.ProductResponse{}, err
	}
	p, err := s.products.Create(ctx, req.ToDAO(uuid.New()))
	if err != nil {
		return dto.ProductResponse{}, err
	}
	return dto.ToProductResponse(p), nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, req dto.ProductRequest) (dto.ProductResponse, error) {
	if err := validateProduct(&req); err != nil {
		return dto.ProductResponse{}, err
	}
	p, err := s.products.Update(ctx, req.ToDAO(id))
	if err != nil {
		return dto.ProductResponse{}, err
	}
	return dto.ToProductResponse(p), nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.products.Delete(ctx, id)
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.Validationf("name is required")
	}
	if len(name) > maxNameLen {
		return "", domain.Validationf("name longer than %d characters", maxNameLen)
	}
	return name, nil
}

func validateProduct(req *dto.ProductRequest) error {
	name, err := cleanName(req.Name)
	if err != nil {
		return err
	}
	req.Name = name
	req.Description = strings.TrimSpace(req.Description)
	if len(req.Description) > maxDescriptionLen {
		return domain.Validationf("description longer than %d characters", maxDescriptionLen)
	}
	if !req.Price.IsPositive() {
		return domain.Validationf("price must be positive")
	}
	if !req.Price.Equal(req.Price.Round(2)) {
		return domain.Validationf("price %s has more than two decimals", req.Price)
	}
	if req.OldPrice != nil && req.OldPrice.IsNegative() {
		return domain.Validationf("old_price must not be negative")
	}
	if req.IsPromotion && (req.OldPrice == nil || !req.OldPrice.GreaterThan(req.Price)) {
		return domain.Validationf("promotion requires old_price above price")
	}
	return nil
}
