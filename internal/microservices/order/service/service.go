package service

import (
	"cantina/internal/common/logger"
	"cantina/internal/microservices/order/repository"
)

type Service struct {
	OrderService OrderServiceInterface
}

func New(repo *repository.Repository, deps Deps, lg *logger.Logger) *Service {
	return &Service{
		OrderService: NewOrderService(repo.OrderRepo, deps, lg),
	}
}
