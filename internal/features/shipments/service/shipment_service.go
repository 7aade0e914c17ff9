package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"shipment-planner/internal/core/apperror"
	"shipment-planner/internal/core/cache"
	"shipment-planner/internal/core/logger"
	"shipment-planner/internal/features/shipments/domain"
	"shipment-planner/internal/features/shipments/ports"

	"go.uber.org/zap"
)

// ShipmentService reads, saves and re-trucks materialized shipments.
type ShipmentService struct {
	repo     ports.ShipmentRepository
	trucks   ports.TruckFinder
	cache    cache.Cache
	dayStart time.Duration
}

// NewShipmentService creates a new instance of ShipmentService.
// The cache is only used to drop stale layout results after a reassignment.
func NewShipmentService(repo ports.ShipmentRepository, trucks ports.TruckFinder, c cache.Cache, dayStart time.Duration) *ShipmentService {
	if c == nil {
		c = cache.Nop{}
	}
	return &ShipmentService{
		repo:     repo,
		trucks:   trucks,
		cache:    c,
		dayStart: dayStart,
	}
}

// GetDetail assembles the caller-facing view of a shipment.
func (s *ShipmentService) GetDetail(ctx context.Context, id int64) (*domain.Detail, error) {
	if id <= 0 {
		return nil, apperror.Validation("shipment id must be a positive integer")
	}

	rec, err := s.repo.GetRecord(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get shipment %d: %w", id, err)
	}

	if rec.Shipment.TruckID != nil {
		truck, err := s.trucks.GetByID(ctx, *rec.Shipment.TruckID)
		if err != nil {
			return nil, fmt.Errorf("get shipment %d: %w", id, err)
		}
		rec.Truck = truck
	}

	return domain.AssembleDetail(*rec, s.dayStart)
}

// Save moves a draft shipment and its orders to RUNNING. Saving twice is a no-op.
func (s *ShipmentService) Save(ctx context.Context, num string) (*domain.Shipment, error) {
	num = strings.TrimSpace(num)
	if num == "" {
		return nil, apperror.Validation("shipment number is required")
	}

	shipment, err := s.repo.Save(ctx, num)
	if err != nil {
		return nil, fmt.Errorf("save shipment %s: %w", num, err)
	}

	logger.FromContext(ctx).Info("Shipment saved",
		zap.Int64("shipment_id", shipment.ID),
		zap.String("shipment_num", shipment.Num),
	)
	return shipment, nil
}

// ReassignTruck binds an available truck of the given type and returns the new detail.
func (s *ShipmentService) ReassignTruck(ctx context.Context, shipmentID, truckTypeID int64) (*domain.Detail, error) {
	if shipmentID <= 0 {
		return nil, apperror.Validation("shipment id must be a positive integer")
	}
	if truckTypeID <= 0 {
		return nil, apperror.Validation("truck_type_id must be a positive integer")
	}

	if err := s.repo.ReassignTruck(ctx, shipmentID, truckTypeID); err != nil {
		return nil, fmt.Errorf("reassign truck of shipment %d: %w", shipmentID, err)
	}

	if err := s.cache.Delete(ctx, LayoutCacheKey(shipmentID)); err != nil {
		logger.FromContext(ctx).Warn("Failed to invalidate layout cache",
			zap.Int64("shipment_id", shipmentID),
			zap.Error(err),
		)
	}

	return s.GetDetail(ctx, shipmentID)
}
