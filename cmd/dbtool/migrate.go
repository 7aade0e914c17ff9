package main

import (
	"shipment-planner/internal/core/database"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, database.Migrate)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
