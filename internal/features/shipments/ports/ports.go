package ports

import (
	"context"

	fleet "shipment-planner/internal/features/fleet/domain"
	"shipment-planner/internal/features/shipments/domain"
)

// ShipmentService defines the primary port for shipment operations.
type ShipmentService interface {
	GetDetail(ctx context.Context, id int64) (*domain.Detail, error)
	Save(ctx context.Context, num string) (*domain.Shipment, error)
	ReassignTruck(ctx context.Context, shipmentID, truckTypeID int64) (*domain.Detail, error)
}

// LayoutService defines the primary port for box layout requests.
type LayoutService interface {
	GetLayout(ctx context.Context, shipmentID int64) (*domain.LayoutResult, error)
}

// ShipmentRepository defines the secondary port for shipment storage.
type ShipmentRepository interface {
	// Create reserves the draft's truck and persists the shipment, its legs and
	// order links in one transaction, advancing each order to IN_CALCULATION.
	Create(ctx context.Context, draft domain.Draft) (*domain.Shipment, error)
	// GetRecord loads an undeleted shipment with its legs and linked orders.
	GetRecord(ctx context.Context, id int64) (*domain.Record, error)
	// Save moves the shipment with the given number and its orders to RUNNING.
	Save(ctx context.Context, num string) (*domain.Shipment, error)
	// ReassignTruck binds an AVAILABLE truck of the given type, releasing the previous one.
	ReassignTruck(ctx context.Context, shipmentID, truckTypeID int64) error
}

// LayoutEngine defines the secondary port for the box packing engine.
// Failures are reported inside the result, never as an error.
type LayoutEngine interface {
	Layout(ctx context.Context, req domain.LayoutRequest) domain.LayoutResult
}

// TruckFinder loads a truck with its type.
type TruckFinder interface {
	GetByID(ctx context.Context, id int64) (*fleet.Truck, error)
}
