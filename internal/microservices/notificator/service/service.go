package service

import (
	"cantina/internal/common/logger"
	"cantina/internal/microservices/notificator/repository"
)

type Service struct {
	RecipientService   *RecipientService
	NotificatorService *NotificatorService
}

func New(repo *repository.Repository, notifier Notifier, lg *logger.Logger) *Service {
	recipients := NewRecipientService(repo.RecipientRepo)
	return &Service{
		RecipientService:   recipients,
		NotificatorService: NewNotificatorService(recipients, notifier, lg),
	}
}
