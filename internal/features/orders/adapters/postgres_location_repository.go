package adapter

import (
	"context"
	"database/sql"
	"fmt"

	"shipment-planner/internal/features/orders/domain"
)

// PostgresLocationRepository implements ports.LocationRepository on Postgres.
type PostgresLocationRepository struct {
	db *sql.DB
}

// NewPostgresLocationRepository creates a new PostgresLocationRepository.
func NewPostgresLocationRepository(db *sql.DB) *PostgresLocationRepository {
	return &PostgresLocationRepository{db: db}
}

const locationColumns = `
	id, name, address, latitude, longitude, province, city, district, postal_code,
	is_dc, dc_id, customer_id, open_hour, close_hour, service_time`

// ListByIDs fetches undeleted locations by id.
func (r *PostgresLocationRepository) ListByIDs(ctx context.Context, ids []int64) ([]domain.Location, error) {
	if len(ids) == 0 {
		return []domain.Location{}, nil
	}
	return r.query(ctx, "list locations", `
	SELECT`+locationColumns+`
	FROM locations
	WHERE id = ANY($1::bigint[]) AND is_deleted = FALSE
	ORDER BY id;
	`, ids)
}

// ListDepots fetches the depot locations owned by a distribution center.
func (r *PostgresLocationRepository) ListDepots(ctx context.Context, dcID int64) ([]domain.Location, error) {
	return r.query(ctx, "list depots", `
	SELECT`+locationColumns+`
	FROM locations
	WHERE is_dc = TRUE AND dc_id = $1 AND is_deleted = FALSE
	ORDER BY id;
	`, dcID)
}

func (r *PostgresLocationRepository) query(ctx context.Context, op, q string, args ...any) ([]domain.Location, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: query: %w", op, err)
	}
	defer rows.Close()

	out := []domain.Location{}
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		out = append(out, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}
	return out, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanLocation reads the columns listed in locationColumns.
func scanLocation(s scanner) (*domain.Location, error) {
	var (
		l          domain.Location
		dcID       sql.NullInt64
		customerID sql.NullInt64
	)
	if err := s.Scan(&l.ID, &l.Name, &l.Address, &l.Latitude, &l.Longitude, &l.Province, &l.City,
		&l.District, &l.PostalCode, &l.IsDC, &dcID, &customerID, &l.OpenHour, &l.CloseHour, &l.ServiceTime); err != nil {
		return nil, err
	}
	if dcID.Valid {
		l.DCID = &dcID.Int64
	}
	if customerID.Valid {
		l.CustomerID = &customerID.Int64
	}
	return &l, nil
}
