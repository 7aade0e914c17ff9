package adapters

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shipment-planner/internal/core/apperror"
	"shipment-planner/internal/features/fleet/domain"
)

// PostgresTruckRepository implements ports.TruckRepository on Postgres.
type PostgresTruckRepository struct {
	db *sql.DB
}

// NewPostgresTruckRepository creates a new PostgresTruckRepository.
func NewPostgresTruckRepository(db *sql.DB) *PostgresTruckRepository {
	return &PostgresTruckRepository{db: db}
}

const truckColumns = `
	t.id, t.plate_number, t.first_status, t.second_status, t.type_id,
	t.max_capacity_volume, t.fuel_consumption, t.dc_id, tt.id, tt.name`

// ListAvailableByDC returns the AVAILABLE trucks of a distribution center, most recently updated first.
func (r *PostgresTruckRepository) ListAvailableByDC(ctx context.Context, dcID int64) ([]domain.Truck, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT`+truckColumns+`
	FROM trucks t
	JOIN truck_types tt ON tt.id = t.type_id
	WHERE t.dc_id = $1 AND t.first_status = $2
	ORDER BY t.updated_at DESC, t.id;
	`, dcID, string(domain.TruckAvailable))
	if err != nil {
		return nil, fmt.Errorf("list available trucks: query: %w", err)
	}
	defer rows.Close()

	trucks := []domain.Truck{}
	for rows.Next() {
		t, err := scanTruck(rows)
		if err != nil {
			return nil, fmt.Errorf("list available trucks: scan: %w", err)
		}
		trucks = append(trucks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list available trucks: rows: %w", err)
	}
	return trucks, nil
}

// GetByID returns one truck with its type.
func (r *PostgresTruckRepository) GetByID(ctx context.Context, id int64) (*domain.Truck, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT`+truckColumns+`
	FROM trucks t
	JOIN truck_types tt ON tt.id = t.type_id
	WHERE t.id = $1;
	`, id)

	t, err := scanTruck(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NotFound("truck %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get truck %d: %w", id, err)
	}
	return t, nil
}

// GetCostForTruck follows the truck_costs link to the cost entry.
func (r *PostgresTruckRepository) GetCostForTruck(ctx context.Context, truckID int64) (*domain.Cost, error) {
	var c domain.Cost
	err := r.db.QueryRowContext(ctx, `
	SELECT c.id, c.name, c.value
	FROM truck_costs tc
	JOIN costs c ON c.id = tc.cost_id
	WHERE tc.truck_id = $1;
	`, truckID).Scan(&c.ID, &c.Name, &c.Value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NotFound("no cost found for truck %d", truckID)
	}
	if err != nil {
		return nil, fmt.Errorf("get cost for truck %d: %w", truckID, err)
	}
	return &c, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTruck(s scanner) (*domain.Truck, error) {
	var (
		t  domain.Truck
		tt domain.TruckType
	)
	if err := s.Scan(
		&t.ID, &t.PlateNumber, &t.FirstStatus, &t.SecondStatus, &t.TypeID,
		&t.MaxCapacityVolume, &t.FuelConsumption, &t.DCID, &tt.ID, &tt.Name,
	); err != nil {
		return nil, err
	}
	t.Type = &tt
	return &t, nil
}
