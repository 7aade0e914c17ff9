package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"shipment-planner/internal/core/apperror"
	"shipment-planner/internal/core/logger"
	"shipment-planner/internal/core/metrics"
	"shipment-planner/internal/features/optimization/domain"
	"shipment-planner/internal/features/optimization/ports"
	orders "shipment-planner/internal/features/orders/domain"
	shipments "shipment-planner/internal/features/shipments/domain"

	"go.uber.org/zap"
)

// Materializer persists bound proposals one at a time and collects the
// orders that could not be routed.
type Materializer struct {
	orders    ports.OrderResolver
	costs     ports.CostEstimator
	shipments ports.ShipmentCreator
	metrics   *metrics.Recorder
}

// NewMaterializer creates a new Materializer. rec may be nil.
func NewMaterializer(orders ports.OrderResolver, costs ports.CostEstimator, shipments ports.ShipmentCreator, rec *metrics.Recorder) *Materializer {
	return &Materializer{orders: orders, costs: costs, shipments: shipments, metrics: rec}
}

// Materialize walks proposals in array order. Unbound proposals and bound
// proposals whose truck, cost, locations or orders cannot be used are reported
// as failed; storage errors abort the run, keeping shipments already committed.
func (m *Materializer) Materialize(ctx context.Context, sel *domain.Selection, proposals []domain.Proposal) (*domain.RunResult, error) {
	byID := make(map[int64]orders.DeliveryOrder, len(sel.DeliveryOrders))
	for _, o := range sel.DeliveryOrders {
		byID[o.ID] = o
	}

	covered := make(map[int64]bool, len(byID))
	for i, p := range proposals {
		for _, id := range p.OrderIDs() {
			if _, ok := byID[id]; !ok {
				return nil, apperror.NewUpstream("optimizer", http.StatusBadGateway,
					fmt.Sprintf("proposal %d references delivery order %d which was not requested", i, id))
			}
			if covered[id] {
				return nil, apperror.NewUpstream("optimizer", http.StatusBadGateway,
					fmt.Sprintf("delivery order %d appears in more than one proposal", id))
			}
			covered[id] = true
		}
	}

	res := &domain.RunResult{
		Shipments:            []domain.MaterializedShipment{},
		FailedDeliveryOrders: []orders.DeliveryOrder{},
		Skipped:              []domain.SkippedProposal{},
	}
	log := logger.FromContext(ctx)

	for _, p := range proposals {
		dos := make([]orders.DeliveryOrder, 0, len(p.DeliveryOrders))
		for _, id := range p.OrderIDs() {
			dos = append(dos, byID[id])
		}

		if !p.Bound() {
			res.FailedDeliveryOrders = append(res.FailedDeliveryOrders, dos...)
			continue
		}

		ms, err := m.materialize(ctx, p, dos)
		if err != nil {
			reason, ok := skipReason(err)
			if !ok {
				return nil, fmt.Errorf("materialize truck %d: %w", p.TruckID, err)
			}
			log.Warn("Skipping proposal",
				zap.Int64("truck_id", p.TruckID),
				zap.Int64s("delivery_order_ids", p.OrderIDs()),
				zap.String("reason", reason),
				zap.Error(err),
			)
			m.metrics.ProposalSkipped(reason)
			res.Skipped = append(res.Skipped, domain.SkippedProposal{
				TruckID:          p.TruckID,
				DeliveryOrderIDs: p.OrderIDs(),
				Reason:           err.Error(),
			})
			res.FailedDeliveryOrders = append(res.FailedDeliveryOrders, dos...)
			continue
		}

		m.metrics.ShipmentMaterialized()
		res.Shipments = append(res.Shipments, *ms)
	}

	for _, o := range sel.DeliveryOrders {
		if !covered[o.ID] {
			res.FailedDeliveryOrders = append(res.FailedDeliveryOrders, o)
		}
	}
	m.metrics.FailedDeliveryOrders(len(res.FailedDeliveryOrders))

	return res, nil
}

func (m *Materializer) materialize(ctx context.Context, p domain.Proposal, dos []orders.DeliveryOrder) (*domain.MaterializedShipment, error) {
	ids := make([]int64, 0, len(p.LocationRoutes)+len(p.AdditionalInfo))
	for _, s := range p.LocationRoutes {
		ids = append(ids, s.LocationID)
	}
	for _, l := range p.AdditionalInfo {
		ids = append(ids, l.LocDestID)
	}
	locs, err := m.orders.ResolveLocations(ctx, ids)
	if err != nil {
		return nil, err
	}
	route := locs[:len(p.LocationRoutes)]

	truck, est, err := m.costs.Estimate(ctx, p.TruckID, p.CostDistance())
	if err != nil {
		return nil, err
	}

	coords := p.AllCoords
	if coords == nil {
		coords = [][]float64{}
	}
	rawCoords, err := json.Marshal(coords)
	if err != nil {
		return nil, fmt.Errorf("encode all_coords: %w", err)
	}

	legs := make([]shipments.Leg, 0, len(p.AdditionalInfo))
	for _, l := range p.AdditionalInfo {
		legs = append(legs, shipments.Leg{
			LocationID:     l.LocDestID,
			Queue:          l.Queue,
			TravelTime:     l.TravelTime,
			TravelDistance: l.TravelDistance,
		})
	}

	created, err := m.shipments.Create(ctx, shipments.Draft{
		TruckID:              truck.ID,
		TotalDist:            p.LegDistance(),
		TotalTime:            p.TotalTime,
		TotalTimeWithWaiting: p.TotalTimeWithWaiting,
		Cost:                 est.TotalCost,
		TotalVolume:          p.CurrentCapacity,
		AllCoords:            string(rawCoords),
		CreatedBy:            shipments.DefaultCreator,
		Legs:                 legs,
		DeliveryOrderIDs:     p.OrderIDs(),
	})
	if err != nil {
		return nil, err
	}

	return &domain.MaterializedShipment{
		ShipmentID:           created.ID,
		ShipmentNum:          created.Num,
		Truck:                *truck,
		DeliveryOrders:       dos,
		LocationRoutes:       route,
		AllCoords:            coords,
		TotalTime:            p.TotalTime,
		TotalTimeWithWaiting: p.TotalTimeWithWaiting,
		TotalDist:            p.TotalDist,
		AdditionalInfo:       p.AdditionalInfo,
		CurrentCapacity:      p.CurrentCapacity,
		MaxCapacity:          p.MaxCapacity,
		FuelTotal:            est.FuelLiters,
		ShipmentCost:         est.TotalCost,
	}, nil
}

// skipReason classifies per-proposal failures that leave the rest of the run intact.
func skipReason(err error) (string, bool) {
	switch {
	case errors.Is(err, apperror.ErrNotFound):
		return "not_found", true
	case errors.Is(err, apperror.ErrValidation):
		return "validation", true
	case errors.Is(err, apperror.ErrConflict):
		return "conflict", true
	default:
		return "", false
	}
}
