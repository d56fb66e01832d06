package repository

import "cantina/internal/connections/database"

type Repository struct {
	RecipientRepo RecipientRepositoryInterface
}

func New(db database.DB) *Repository {
	return &Repository{
		RecipientRepo: NewRecipientRepository(db),
	}
}
