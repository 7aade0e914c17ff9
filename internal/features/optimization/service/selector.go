package service

import (
	"context"
	"fmt"

	"shipment-planner/internal/core/apperror"
	"shipment-planner/internal/features/optimization/domain"
	"shipment-planner/internal/features/optimization/ports"
)

// Selector gathers the fleet and order state of one distribution center.
type Selector struct {
	trucks ports.TruckLister
	orders ports.OrderResolver
}

// NewSelector creates a new Selector.
func NewSelector(trucks ports.TruckLister, orders ports.OrderResolver) *Selector {
	return &Selector{trucks: trucks, orders: orders}
}

// Select loads the requested undeleted orders, their destinations, the
// center's depots and its AVAILABLE trucks. It has no side effects.
func (s *Selector) Select(ctx context.Context, dcID int64, orderIDs []int64) (*domain.Selection, error) {
	dos, err := s.orders.Resolve(ctx, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("select: %w", err)
	}

	dests, err := s.orders.Destinations(ctx, dos)
	if err != nil {
		return nil, fmt.Errorf("select: %w", err)
	}

	origins, err := s.orders.Depots(ctx, dcID)
	if err != nil {
		return nil, fmt.Errorf("select: %w", err)
	}
	if len(origins) == 0 {
		return nil, apperror.NotFound("no depot location for distribution center %d", dcID)
	}

	trucks, err := s.trucks.ListAvailableByDC(ctx, dcID)
	if err != nil {
		return nil, fmt.Errorf("select: list trucks: %w", err)
	}

	return &domain.Selection{
		Trucks:         trucks,
		DeliveryOrders: dos,
		Origins:        origins,
		Destinations:   dests,
	}, nil
}
