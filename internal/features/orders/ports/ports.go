package ports

import (
	"context"

	"shipment-planner/internal/features/orders/domain"
)

// DeliveryOrderRepository defines the secondary port for delivery order storage.
type DeliveryOrderRepository interface {
	// ListByIDs returns the undeleted orders among ids, with product lines. Missing ids are omitted.
	ListByIDs(ctx context.Context, ids []int64) ([]domain.DeliveryOrder, error)
}

// LocationRepository defines the secondary port for location storage.
type LocationRepository interface {
	// ListByIDs returns the undeleted locations among ids. Missing ids are omitted.
	ListByIDs(ctx context.Context, ids []int64) ([]domain.Location, error)
	// ListDepots returns the depot locations owned by a distribution center.
	ListDepots(ctx context.Context, dcID int64) ([]domain.Location, error)
}
