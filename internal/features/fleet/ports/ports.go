package ports

import (
	"context"

	"shipment-planner/internal/features/fleet/domain"
)

// TruckRepository defines the secondary port for truck and cost storage.
type TruckRepository interface {
	// ListAvailableByDC returns the center's AVAILABLE trucks with their type.
	ListAvailableByDC(ctx context.Context, dcID int64) ([]domain.Truck, error)
	// GetByID returns the truck with its type, or apperror.ErrNotFound.
	GetByID(ctx context.Context, id int64) (*domain.Truck, error)
	// GetCostForTruck resolves the truck's cost link and cost entry, or apperror.ErrNotFound.
	GetCostForTruck(ctx context.Context, truckID int64) (*domain.Cost, error)
}
