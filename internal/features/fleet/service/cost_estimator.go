package service

import (
	"context"
	"errors"
	"fmt"

	"shipment-planner/internal/core/apperror"
	"shipment-planner/internal/features/fleet/domain"
	"shipment-planner/internal/features/fleet/ports"
)

// CostEstimator prices a proposed route for a given truck.
type CostEstimator struct {
	trucks ports.TruckRepository
}

// NewCostEstimator creates a new CostEstimator.
func NewCostEstimator(trucks ports.TruckRepository) *CostEstimator {
	return &CostEstimator{trucks: trucks}
}

// Estimate loads the truck and its cost entry and prices distMeters of travel.
// Missing trucks or cost links are NotFound; unusable fuel rates are Validation errors.
func (e *CostEstimator) Estimate(ctx context.Context, truckID int64, distMeters float64) (*domain.Truck, domain.CostEstimate, error) {
	truck, err := e.trucks.GetByID(ctx, truckID)
	if err != nil {
		return nil, domain.CostEstimate{}, fmt.Errorf("estimate cost: %w", err)
	}

	cost, err := e.trucks.GetCostForTruck(ctx, truck.ID)
	if err != nil {
		return nil, domain.CostEstimate{}, fmt.Errorf("estimate cost: %w", err)
	}

	est, err := domain.EstimateCost(*truck, distMeters, *cost)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidFuelRate) {
			return nil, domain.CostEstimate{}, apperror.Validation("estimate cost: %v", err)
		}
		return nil, domain.CostEstimate{}, fmt.Errorf("estimate cost: %w", err)
	}

	return truck, est, nil
}
