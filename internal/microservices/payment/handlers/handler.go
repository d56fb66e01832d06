package handlers

import (
	"cantina/internal/common/logger"
	"cantina/internal/microservices/payment/service"
)

type Handler struct {
	PaymentHandler *PaymentHandler
}

func New(s *service.Service, webhookSecret string, lg *logger.Logger) *Handler {
	return &Handler{
		PaymentHandler: NewPaymentHandler(s.PaymentService, webhookSecret, lg),
	}
}
