package service

import "cantina/internal/microservices/catalog/repository"

type Service struct {
	CatalogService CatalogServiceInterface
	Seeder         *Seeder
}

func New(repo *repository.Repository) *Service {
	return &Service{
		CatalogService: NewCatalogService(repo.CategoryRepo, repo.ProductRepo),
		Seeder:         NewSeeder(repo.CategoryRepo, repo.ProductRepo),
	}
}
