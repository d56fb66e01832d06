package service

import (
	"cantina/internal/common/logger"
	"cantina/internal/config"
	"cantina/internal/microservices/payment/repository"
)

type Service struct {
	PaymentService *PaymentService
}

func New(store repository.Store, cfg *config.Config, orders OrderUpdater, lg *logger.Logger) *Service {
	return &Service{
		PaymentService: NewPaymentService(store, cfg.Pix, cfg.Payment.Sandbox, orders, lg),
	}
}
