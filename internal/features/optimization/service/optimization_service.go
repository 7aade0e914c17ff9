package service

import (
	"context"
	"fmt"
	"time"

	"shipment-planner/internal/core/apperror"
	"shipment-planner/internal/core/logger"
	"shipment-planner/internal/core/metrics"
	"shipment-planner/internal/features/optimization/domain"
	"shipment-planner/internal/features/optimization/ports"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OptimizationService runs priority optimizations and materializes the proposals.
type OptimizationService struct {
	selector     *Selector
	optimizer    ports.Optimizer
	materializer *Materializer
}

// NewOptimizationService creates a new instance of OptimizationService.
func NewOptimizationService(
	trucks ports.TruckLister,
	orders ports.OrderResolver,
	optimizer ports.Optimizer,
	costs ports.CostEstimator,
	shipments ports.ShipmentCreator,
	rec *metrics.Recorder,
) *OptimizationService {
	return &OptimizationService{
		selector:     NewSelector(trucks, orders),
		optimizer:    optimizer,
		materializer: NewMaterializer(orders, costs, shipments, rec),
	}
}

// Run selects the fleet and orders of a center, asks the optimizer for
// proposals and persists every bound proposal as a draft shipment.
func (s *OptimizationService) Run(ctx context.Context, req domain.RunRequest) (*domain.RunResult, error) {
	if req.DCID <= 0 {
		return nil, apperror.Validation("dc_id must be a positive integer")
	}
	if len(req.DeliveryOrderIDs) == 0 {
		return nil, apperror.Validation("delivery_orders_id must not be empty")
	}
	for _, id := range req.DeliveryOrderIDs {
		if id <= 0 {
			return nil, apperror.Validation("delivery_orders_id contains invalid id %d", id)
		}
	}
	priority, err := domain.ParsePriority(string(req.Priority))
	if err != nil {
		return nil, apperror.Validation("%v", err)
	}

	runID := uuid.NewString()
	log := logger.FromContext(ctx).With(zap.String("run_id", runID), zap.Int64("dc_id", req.DCID))
	start := time.Now()

	sel, err := s.selector.Select(ctx, req.DCID, req.DeliveryOrderIDs)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	log.Info("Requesting optimization",
		zap.String("priority", string(priority)),
		zap.Int("trucks", len(sel.Trucks)),
		zap.Int("delivery_orders", len(sel.DeliveryOrders)),
	)

	proposals, err := s.optimizer.Optimize(ctx, domain.EngineRequest{
		Trucks:         sel.Trucks,
		DeliveryOrders: sel.DeliveryOrders,
		OriLocation:    sel.Origins,
		DestLocation:   sel.Destinations,
		Priority:       priority,
	})
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	res, err := s.materializer.Materialize(ctx, sel, proposals)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	res.RunID = runID

	log.Info("Optimization finished",
		zap.Int("proposals", len(proposals)),
		zap.Int("shipments", len(res.Shipments)),
		zap.Int("failed_delivery_orders", len(res.FailedDeliveryOrders)),
		zap.Int("skipped", len(res.Skipped)),
		zap.Duration("duration", time.Since(start)),
	)

	return res, nil
}
