package service

import (
	"context"

	fleet "shipment-planner/internal/features/fleet/domain"
	"shipment-planner/internal/features/optimization/domain"
	orders "shipment-planner/internal/features/orders/domain"
	shipments "shipment-planner/internal/features/shipments/domain"

	"github.com/stretchr/testify/mock"
)

// MockTruckLister is a mock implementation of ports.TruckLister
type MockTruckLister struct {
	mock.Mock
}

func (m *MockTruckLister) ListAvailableByDC(ctx context.Context, dcID int64) ([]fleet.Truck, error) {
	args := m.Called(ctx, dcID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]fleet.Truck), args.Error(1)
}

// MockOrderResolver is a mock implementation of ports.OrderResolver
type MockOrderResolver struct {
	mock.Mock
}

func (m *MockOrderResolver) Resolve(ctx context.Context, ids []int64) ([]orders.DeliveryOrder, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]orders.DeliveryOrder), args.Error(1)
}

func (m *MockOrderResolver) ResolveLocations(ctx context.Context, ids []int64) ([]orders.Location, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]orders.Location), args.Error(1)
}

func (m *MockOrderResolver) Destinations(ctx context.Context, dos []orders.DeliveryOrder) ([]orders.Location, error) {
	args := m.Called(ctx, dos)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]orders.Location), args.Error(1)
}

func (m *MockOrderResolver) Depots(ctx context.Context, dcID int64) ([]orders.Location, error) {
	args := m.Called(ctx, dcID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]orders.Location), args.Error(1)
}

// MockOptimizer is a mock implementation of ports.Optimizer
type MockOptimizer struct {
	mock.Mock
}

func (m *MockOptimizer) Optimize(ctx context.Context, req domain.EngineRequest) ([]domain.Proposal, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Proposal), args.Error(1)
}

// MockCostEstimator is a mock implementation of ports.CostEstimator
type MockCostEstimator struct {
	mock.Mock
}

func (m *MockCostEstimator) Estimate(ctx context.Context, truckID int64, distMeters float64) (*fleet.Truck, fleet.CostEstimate, error) {
	args := m.Called(ctx, truckID, distMeters)
	if args.Get(0) == nil {
		return nil, fleet.CostEstimate{}, args.Error(2)
	}
	return args.Get(0).(*fleet.Truck), args.Get(1).(fleet.CostEstimate), args.Error(2)
}

// MockShipmentCreator is a mock implementation of ports.ShipmentCreator
type MockShipmentCreator struct {
	mock.Mock
}

func (m *MockShipmentCreator) Create(ctx context.Context, draft shipments.Draft) (*shipments.Shipment, error) {
	args := m.Called(ctx, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipments.Shipment), args.Error(1)
}
