package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cantina/internal/app/storefront"
	"cantina/internal/common/logger"
)

func serveCmd() *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the payment expiry loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Server.Port = port
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}
			lg := logger.New("storefront")
			if err := storefront.Serve(cmd.Context(), cfg, lg); err != nil {
				lg.Error("fatal", err, nil)
				return err
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "override server.port")
	return cmd
}
