package repository

import "cantina/internal/connections/database"

type Repository struct {
	OrderRepo OrderRepositoryInterface
}

func New(db database.DB) *Repository {
	return &Repository{
		OrderRepo: NewOrderRepository(db),
	}
}
