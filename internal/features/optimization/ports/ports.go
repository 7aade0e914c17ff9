package ports

import (
	"context"

	fleet "shipment-planner/internal/features/fleet/domain"
	"shipment-planner/internal/features/optimization/domain"
	orders "shipment-planner/internal/features/orders/domain"
	shipments "shipment-planner/internal/features/shipments/domain"
)

// OptimizationService defines the primary port for optimization runs.
type OptimizationService interface {
	Run(ctx context.Context, req domain.RunRequest) (*domain.RunResult, error)
}

// Optimizer defines the secondary port for the external route optimizer.
type Optimizer interface {
	Optimize(ctx context.Context, req domain.EngineRequest) ([]domain.Proposal, error)
}

// TruckLister lists the trucks a center can dispatch.
type TruckLister interface {
	ListAvailableByDC(ctx context.Context, dcID int64) ([]fleet.Truck, error)
}

// OrderResolver resolves delivery orders and locations by id.
type OrderResolver interface {
	Resolve(ctx context.Context, ids []int64) ([]orders.DeliveryOrder, error)
	ResolveLocations(ctx context.Context, ids []int64) ([]orders.Location, error)
	Destinations(ctx context.Context, dos []orders.DeliveryOrder) ([]orders.Location, error)
	Depots(ctx context.Context, dcID int64) ([]orders.Location, error)
}

// CostEstimator prices a route for a truck.
type CostEstimator interface {
	Estimate(ctx context.Context, truckID int64, distMeters float64) (*fleet.Truck, fleet.CostEstimate, error)
}

// ShipmentCreator persists a shipment draft.
type ShipmentCreator interface {
	Create(ctx context.Context, draft shipments.Draft) (*shipments.Shipment, error)
}
