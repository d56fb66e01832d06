package handlers

import (
	"cantina/internal/common/logger"
	"cantina/internal/microservices/catalog/service"
)

type Handler struct {
	CatalogHandler *CatalogHandler
}

func New(s *service.Service, lg *logger.Logger) *Handler {
	return &Handler{
		CatalogHandler: NewCatalogHandler(s.CatalogService, lg),
	}
}
