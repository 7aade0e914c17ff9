package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	"shipment-planner/internal/core/config"
	"shipment-planner/internal/core/database"
	"shipment-planner/internal/core/logger"

	"github.com/spf13/cobra"
)

var (
	databaseURL string
	timeout     time.Duration
)

var rootCmd = &cobra.Command{
	Use:          "dbtool",
	Short:        "Database maintenance for shipment-planner",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logger.Init("development", "info")
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "Postgres connection string (defaults to $DATABASE_URL)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall deadline for the command")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

// withDB opens the database, runs fn and closes the handle.
func withDB(cmd *cobra.Command, fn func(ctx context.Context, db *sql.DB) error) error {
	url := databaseURL
	if url == "" {
		url = os.Getenv("DATABASE_URL")
	}
	if strings.TrimSpace(url) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	db, err := database.Open(ctx, config.DatabaseConfig{
		URL:             url,
		MaxOpenConns:    2,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Minute,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	return fn(ctx, db)
}
