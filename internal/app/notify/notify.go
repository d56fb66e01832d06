package notify

import (
	"context"
	"errors"
	"fmt"

	"cantina/internal/common/logger"
	"cantina/internal/config"
	"cantina/internal/connections/database"
	"cantina/internal/connections/rabbitmq"
	"cantina/internal/microservices/notificator"
)

// Run consumes order events and notifies the admin recipients until ctx is done.
func Run(ctx context.Context, cfg *config.Config, lg *logger.Logger) error {
	if !cfg.RabbitMQ.Enabled {
		return errors.New("notifier needs rabbitmq.enabled=true")
	}

	pool, err := database.ConnectDB(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	rmq, err := rabbitmq.Dial(cfg.RabbitMQ)
	if err != nil {
		return fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	defer rmq.Close()
	if err := rmq.DeclareTopology(); err != nil {
		return err
	}
	lg.Info("service_started", map[string]any{"queue": rabbitmq.NotificationsQueue})

	return notificator.Start(ctx, pool, rmq, cfg.RabbitMQ.Prefetch, lg)
}
