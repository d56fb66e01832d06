package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"cantina/internal/domain"
	"cantina/internal/microservices/catalog/domain/dao"
	"cantina/internal/microservices/catalog/domain/dto"
	"cantina/internal/microservices/catalog/repository"
)

// ParseSeed decodes a catalog YAML file. Unknown keys are rejected.
func ParseSeed(data []byte) (dto.SeedFile, error) {
	var f dto.SeedFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return dto.SeedFile{}, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return f, nil
}

// Seeder loads a catalog file. Running it twice creates nothing new:
// categories are matched by name and products by name within their category.
type Seeder struct {
	catalog    CatalogServiceInterface
	categories repository.CategoryRepositoryInterface
	products   repository.ProductRepositoryInterface
}

func NewSeeder(categories repository.CategoryRepositoryInterface, products repository.ProductRepositoryInterface) *Seeder {
	return &Seeder{
		catalog:    NewCatalogService(categories, products),
		categories: categories,
		products:   products,
	}
}

func (s *Seeder) Seed(ctx context.Context, f dto.SeedFile) (dto.SeedResult, error) {
	var res dto.SeedResult
	existing, err := s.categories.List(ctx)
	if err != nil {
		return res, err
	}
	byName := make(map[string]dao.Category, len(existing))
	for _, c := range existing {
		byName[strings.ToLower(c.Name)] = c
	}

	for _, sc := range f.Categories {
		cat, ok := byName[strings.ToLower(strings.TrimSpace(sc.Name))]
		if !ok {
			created, err := s.catalog.CreateCategory(ctx, dto.CategoryRequest{Name: sc.Name})
			if err != nil {
				return res, fmt.Errorf("category %q: %w", sc.Name, err)
			}
			cat = dao.Category{ID: created.ID, Name: created.Name}
			byName[strings.ToLower(cat.Name)] = cat
			res.CategoriesCreated++
		}

		id := cat.ID
		have, err := s.products.List(ctx, dao.ProductFilter{CategoryID: &id})
		if err != nil {
			return res, err
		}
		seen := make(map[string]bool, len(have))
		for _, p := range have {
			seen[strings.ToLower(p.Name)] = true
		}

		for _, sp := range sc.Products {
			if seen[strings.ToLower(strings.TrimSpace(sp.Name))] {
				res.ProductsSkipped++
				continue
			}
			req, err := seedRequest(sp, id)
			if err != nil {
				return res, fmt.Errorf("product %q: %w", sp.Name, err)
			}
			if _, err := s.catalog.CreateProduct(ctx, req); err != nil {
				return res, fmt.Errorf("product %q: %w", sp.Name, err)
			}
			seen[strings.ToLower(strings.TrimSpace(sp.Name))] = true
			res.ProductsCreated++
		}
	}
	return res, nil
}

func seedRequest(sp dto.SeedProduct, categoryID uuid.UUID) (dto.ProductRequest, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(sp.Price))
	if err != nil {
		return dto.ProductRequest{}, domain.Validationf("invalid price %q", sp.Price)
	}
	req := dto.ProductRequest{
		Name:        sp.Name,
		Description: sp.Description,
		Price:       price,
		CategoryID:  &categoryID,
		Available:   sp.Available,
		IsFeatured:  sp.Featured,
		IsPromotion: sp.Promotion,
		ImageURL:    sp.ImageURL,
	}
	if strings.TrimSpace(sp.OldPrice) != "" {
		old, err := decimal.NewFromString(strings.TrimSpace(sp.OldPrice))
		if err != nil {
			return dto.ProductRequest{}, domain.Validationf("invalid old_price %q", sp.OldPrice)
		}
		req.OldPrice = &old
	}
	return req, nil
}
