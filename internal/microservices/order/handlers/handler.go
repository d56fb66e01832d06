package handlers

import (
	"net/http"

	"cantina/internal/common/logger"
	"cantina/internal/microservices/order/service"
)

type Handler struct {
	OrderHandler *OrderHandler
}

func New(s *service.Service, lg *logger.Logger, limit func(http.Handler) http.Handler) *Handler {
	return &Handler{
		OrderHandler: NewOrderHandler(s.OrderService, lg, limit),
	}
}
