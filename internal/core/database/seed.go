package database

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	"shipment-planner/internal/core/logger"
)

//go:embed seed/seed.sql
var seedSQL string

// Seed loads a small demo data set: two centers, their depots, customer
// stops, trucks with fuel costs and READY delivery orders with boxes.
// Rows that already exist are left untouched.
func Seed(ctx context.Context, db *sql.DB) error {
	err := WithTx(ctx, db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, seedSQL)
		return err
	})
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	logger.Get().Info("Seed data loaded")
	return nil
}
