package service

import (
	"time"

	"cantina/internal/common/logger"
	"cantina/internal/microservices/queue/repository"
)

type Service struct {
	QueueService QueueServiceInterface
}

func New(repo *repository.Repository, loc *time.Location, lg *logger.Logger) *Service {
	return &Service{
		QueueService: NewQueueService(repo.TicketRepo, repo.CounterRepo, loc, lg),
	}
}
