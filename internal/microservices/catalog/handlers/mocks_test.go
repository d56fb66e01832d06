package handlers

import (
	"context"

	"github.com/google/uuid"

	"cantina/internal/microservices/catalog/domain/dao"
	"cantina/internal/microservices/catalog/domain/dto"
)

// MockCatalogService answers zero values unless the matching Func field is set.
type MockCatalogService struct {
	ListCategoriesFunc func(ctx context.Context) ([]dto.CategoryResponse, error)
	CreateCategoryFunc func(ctx context.Context, req dto.CategoryRequest) (dto.CategoryResponse, error)
	RenameCategoryFunc func(ctx context.Context, id uuid.UUID, req dto.CategoryRequest) (dto.CategoryResponse, error)
	DeleteCategoryFunc func(ctx context.Context, id uuid.UUID) error
	ListProductsFunc   func(ctx context.Context, f dao.ProductFilter) ([]dto.ProductResponse, error)
	ListByCategoryFunc func(ctx context.Context, categoryID uuid.UUID) ([]dto.ProductResponse, error)
	GetProductFunc     func(ctx context.Context, id uuid.UUID) (dto.ProductResponse, error)
	CreateProductFunc  func(ctx context.Context, req dto.ProductRequest) (dto.ProductResponse, error)
	UpdateProductFunc  func(ctx context.Context, id uuid.UUID, req dto.ProductRequest) (dto.ProductResponse, error)
	DeleteProductFunc  func(ctx context.Context, id uuid.UUID) error
}

func (m *MockCatalogService) ListCategories(ctx context.Context) ([]dto.CategoryResponse, error) {
	if m.ListCategoriesFunc != nil {
		return m.ListCategoriesFunc(ctx)
	}
	return []dto.CategoryResponse{}, nil
}

func (m *MockCatalogService) CreateCategory(ctx context.Context, req dto.CategoryRequest) (dto.CategoryResponse, error) {
	if m.CreateCategoryFunc != nil {
		return m.CreateCategoryFunc(ctx, req)
	}
	return dto.CategoryResponse{ID: uuid.New(), Name: req.Name}, nil
}

func (m *MockCatalogService) RenameCategory(ctx context.Context, id uuid.UUID, req dto.CategoryRequest) (dto.CategoryResponse, error) {
	if m.RenameCategoryFunc != nil {
		return m.RenameCategoryFunc(ctx, id, req)
	}
	return dto.CategoryResponse{ID: id, Name: req.Name}, nil
}

func (m *MockCatalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if m.DeleteCategoryFunc != nil {
		return m.DeleteCategoryFunc(ctx, id)
	}
	return nil
}

func (m *MockCatalogService) ListProducts(ctx context.Context, f dao.ProductFilter) ([]dto.ProductResponse, error) {
	if m.ListProductsFunc != nil {
		return m.ListProductsFunc(ctx, f)
	}
	return []dto.ProductResponse{}, nil
}

func (m *MockCatalogService) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]dto.ProductResponse, error) {
	if m.ListByCategoryFunc != nil {
		return m.ListByCategoryFunc(ctx, categoryID)
	}
	return []dto.ProductResponse{}, nil
}

func (m *MockCatalogService) GetProduct(ctx context.Context, id uuid.UUID) (dto.ProductResponse, error) {
	if m.GetProductFunc != nil {
		return m.GetProductFunc(ctx, id)
	}
	return dto.ProductResponse{ID: id}, nil
}

func (m *MockCatalogService) CreateProduct(ctx context.Context, req dto.ProductRequest) (dto.ProductResponse, error) {
	if m.CreateProductFunc != nil {
		return m.CreateProductFunc(ctx, req)
	}
	return dto.ProductResponse{ID: uuid.New(), Name: req.Name, Price: req.Price.StringFixed(2)}, nil
}

func (m *MockCatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, req dto.ProductRequest) (dto.ProductResponse, error) {
	if m.UpdateProductFunc != nil {
		return m.UpdateProductFunc(ctx, id, req)
	}
	return dto.ProductResponse{ID: id, Name: req.Name}, nil
}

func (m *MockCatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if m.DeleteProductFunc != nil {
		return m.DeleteProductFunc(ctx, id)
	}
	return nil
}
