package handlers

import (
	"cantina/internal/common/logger"
	"cantina/internal/microservices/notificator/service"
)

type Handler struct {
	RecipientHandler *RecipientHandler
}

func New(s *service.Service, lg *logger.Logger) *Handler {
	return &Handler{
		RecipientHandler: NewRecipientHandler(s.RecipientService, lg),
	}
}
