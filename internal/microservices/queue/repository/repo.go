package repository

import "cantina/internal/connections/database"

type Repository struct {
	TicketRepo  TicketRepositoryInterface
	CounterRepo CounterRepositoryInterface
}

func New(db database.DB) *Repository {
	return &Repository{
		TicketRepo:  NewTicketRepository(db),
		CounterRepo: NewCounterRepository(db),
	}
}
