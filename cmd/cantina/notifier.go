package main

import (
	"github.com/spf13/cobra"

	"cantina/internal/app/notify"
	"cantina/internal/common/logger"
)

func notifierCmd() *cobra.Command {
	var prefetch int
	cmd := &cobra.Command{
		Use:   "notifier",
		Short: "Consume order events from RabbitMQ and notify the admin recipients",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if prefetch > 0 {
				cfg.RabbitMQ.Prefetch = prefetch
			}
			lg := logger.New("notificator")
			if err := notify.Run(cmd.Context(), cfg, lg); err != nil {
				lg.Error("fatal", err, nil)
				return err
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&prefetch, "prefetch", 0, "override rabbitmq.prefetch")
	return cmd
}
