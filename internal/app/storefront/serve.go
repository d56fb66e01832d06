package storefront

import (
	"context"
	"fmt"

	"cantina/internal/common/logger"
	"cantina/internal/config"
	"cantina/internal/connections/database"
	"cantina/internal/connections/rabbitmq"
	ordersvc "cantina/internal/microservices/order/service"
)

// Serve connects to Postgres (and RabbitMQ when enabled) and runs the API until ctx is done.
func Serve(ctx context.Context, cfg *config.Config, lg *logger.Logger) error {
	pool, err := database.ConnectDB(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()
	lg.Info("db_connected", map[string]any{"host": cfg.Database.Host, "database": cfg.Database.Database})

	var (
		publisher ordersvc.Publisher
		rmq       *rabbitmq.Client
	)
	if cfg.RabbitMQ.Enabled {
		rmq, err = rabbitmq.Dial(cfg.RabbitMQ)
		if err != nil {
			return fmt.Errorf("failed to connect to rabbitmq: %w", err)
		}
		defer rmq.Close()
		if err := rmq.DeclareTopology(); err != nil {
			return err
		}
		publisher = rmq
		lg.Info("rabbitmq_connected", map[string]any{"host": cfg.RabbitMQ.Host})
	} else {
		lg.Warn("rabbitmq_disabled", map[string]any{"reason": "order events are not published"})
	}

	app, err := New(cfg, pool, publisher, lg)
	if err != nil {
		return err
	}
	app.AddCheck("postgres", pool.Ping)
	if rmq != nil {
		app.AddCheck("rabbitmq", func(context.Context) error { return rmq.Ping() })
	}
	return app.Run(ctx)
}
