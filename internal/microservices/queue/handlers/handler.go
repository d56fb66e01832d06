package handlers

import (
	"cantina/internal/common/logger"
	"cantina/internal/microservices/queue/service"
)

type Handler struct {
	QueueHandler *QueueHandler
}

func New(s *service.Service, lg *logger.Logger) *Handler {
	return &Handler{
		QueueHandler: NewQueueHandler(s.QueueService, lg),
	}
}
