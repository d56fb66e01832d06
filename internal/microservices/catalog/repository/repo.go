package repository

import "cantina/internal/connections/database"

type Repository struct {
	CategoryRepo CategoryRepositoryInterface
	ProductRepo  ProductRepositoryInterface
}

func New(db database.DB) *Repository {
	return &Repository{
		CategoryRepo: NewCategoryRepository(db),
		ProductRepo:  NewProductRepository(db),
	}
}
