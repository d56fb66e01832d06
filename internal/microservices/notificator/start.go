package notificator

import (
	"context"
	"fmt"

	"cantina/internal/common/logger"
	"cantina/internal/connections/database"
	"cantina/internal/connections/rabbitmq"
	"cantina/internal/microservices/notificator/repository"
	"cantina/internal/microservices/notificator/service"
)

const consumerTag = "notificator"

// Start consumes order events until ctx is done.
func Start(ctx context.Context, db database.DB, rmqClient *rabbitmq.Client, prefetch int, lg *logger.Logger) error {
	svc := service.New(repository.New(db), service.NewLogNotifier(lg), lg)

	msgs, stop, err := rmqClient.Consume(rabbitmq.NotificationsQueue, consumerTag, prefetch)
	if err != nil {
		return fmt.Errorf("failed to consume %s: %w", rabbitmq.NotificationsQueue, err)
	}
	defer stop()

	lg.Info("notificator_started", map[string]any{"queue": rabbitmq.NotificationsQueue, "prefetch": prefetch})
	svc.NotificatorService.Run(ctx, msgs)
	lg.Info("graceful_shutdown", nil)
	return nil
}
