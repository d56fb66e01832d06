package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cantina/internal/common/logger"
	"cantina/internal/connections/database"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded SQL schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			lg := logger.New("migrate")
			pool, err := database.ConnectDB(cmd.Context(), cfg.Database)
			if err != nil {
				return err
			}
			defer pool.Close()

			applied, err := database.Migrate(cmd.Context(), pool)
			if err != nil {
				return err
			}
			lg.Info("migrations_applied", map[string]any{"count": len(applied), "files": applied})
			fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", len(applied))
			return nil
		},
	}
}
