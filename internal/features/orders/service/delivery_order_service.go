package service

import (
	"context"
	"fmt"
	"sort"

	"shipment-planner/internal/core/apperror"
	"shipment-planner/internal/features/orders/domain"
	"shipment-planner/internal/features/orders/ports"
)

// DeliveryOrderService resolves delivery orders and locations by id.
type DeliveryOrderService struct {
	orders    ports.DeliveryOrderRepository
	locations ports.LocationRepository
}

// NewDeliveryOrderService creates a new instance of DeliveryOrderService.
func NewDeliveryOrderService(orders ports.DeliveryOrderRepository, locations ports.LocationRepository) *DeliveryOrderService {
	return &DeliveryOrderService{
		orders:    orders,
		locations: locations,
	}
}

// Resolve returns the undeleted orders for ids in first-seen order with duplicates collapsed.
// Any missing or soft-deleted id makes the whole call fail with NotFound.
func (s *DeliveryOrderService) Resolve(ctx context.Context, ids []int64) ([]domain.DeliveryOrder, error) {
	uniq := Unique(ids)
	if len(uniq) == 0 {
		return []domain.DeliveryOrder{}, nil
	}

	found, err := s.orders.ListByIDs(ctx, uniq)
	if err != nil {
		return nil, fmt.Errorf("resolve delivery orders: %w", err)
	}

	byID := make(map[int64]domain.DeliveryOrder, len(found))
	for _, o := range found {
		byID[o.ID] = o
	}

	out := make([]domain.DeliveryOrder, 0, len(uniq))
	var missing []int64
	for _, id := range uniq {
		o, ok := byID[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		out = append(out, o)
	}
	if len(missing) > 0 {
		return nil, apperror.NotFound("delivery orders %v", missing)
	}

	return out, nil
}

// ResolveLocations returns one location per id, in the given order. Repeated ids repeat the location.
func (s *DeliveryOrderService) ResolveLocations(ctx context.Context, ids []int64) ([]domain.Location, error) {
	uniq := Unique(ids)
	if len(uniq) == 0 {
		return []domain.Location{}, nil
	}

	found, err := s.locations.ListByIDs(ctx, uniq)
	if err != nil {
		return nil, fmt.Errorf("resolve locations: %w", err)
	}

	byID := make(map[int64]domain.Location, len(found))
	for _, l := range found {
		byID[l.ID] = l
	}

	out := make([]domain.Location, 0, len(ids))
	var missing []int64
	for _, id := range ids {
		l, ok := byID[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		out = append(out, l)
	}
	if len(missing) > 0 {
		return nil, apperror.NotFound("locations %v", Unique(missing))
	}

	return out, nil
}

// Destinations returns the distinct destination locations of orders, sorted by id.
func (s *DeliveryOrderService) Destinations(ctx context.Context, orders []domain.DeliveryOrder) ([]domain.Location, error) {
	ids := make([]int64, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.DestLocationID)
	}
	ids = Unique(ids)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return s.ResolveLocations(ctx, ids)
}

// Depots returns the depot locations of a distribution center.
func (s *DeliveryOrderService) Depots(ctx context.Context, dcID int64) ([]domain.Location, error) {
	depots, err := s.locations.ListDepots(ctx, dcID)
	if err != nil {
		return nil, fmt.Errorf("list depots for dc %d: %w", dcID, err)
	}
	return depots, nil
}

// Unique collapses duplicate ids, keeping first-seen order.
func Unique(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
