package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cantina/internal/common/logger"
	"cantina/internal/connections/database"
	"cantina/internal/microservices/catalog/repository"
	"cantina/internal/microservices/catalog/service"
)

func seedCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load categories and products from a YAML file",
		Long: `Load categories and products from a YAML file.

Categories are matched by name and products by name inside their category,
so running the same file twice creates nothing new.

Example:
  cantina seed --file deploy/catalog.example.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read %s: %w", file, err)
			}
			f, err := service.ParseSeed(data)
			if err != nil {
				return err
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			pool, err := database.ConnectDB(cmd.Context(), cfg.Database)
			if err != nil {
				return err
			}
			defer pool.Close()

			res, err := service.New(repository.New(pool)).Seeder.Seed(cmd.Context(), f)
			if err != nil {
				return err
			}
			logger.New("seed").Info("catalog_seeded", map[string]any{
				"categories_created": res.CategoriesCreated,
				"products_created":   res.ProductsCreated,
				"products_skipped":   res.ProductsSkipped,
			})
			fmt.Fprintf(cmd.OutOrStdout(), "categories created: %d, products created: %d, skipped: %d\n",
				res.CategoriesCreated, res.ProductsCreated, res.ProductsSkipped)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "catalog YAML file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
