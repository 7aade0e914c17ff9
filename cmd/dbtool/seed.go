package main

import (
	"context"
	"database/sql"

	"shipment-planner/internal/core/database"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Apply migrations and load demo centers, trucks and delivery orders",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context, db *sql.DB) error {
			if err := database.Migrate(ctx, db); err != nil {
				return err
			}
			return database.Seed(ctx, db)
		})
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
