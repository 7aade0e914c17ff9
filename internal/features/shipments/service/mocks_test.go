package service

import (
	"context"

	fleet "shipment-planner/internal/features/fleet/domain"
	"shipment-planner/internal/features/shipments/domain"

	"github.com/stretchr/testify/mock"
)

// MockShipmentRepository is a mock implementation of ports.ShipmentRepository
type MockShipmentRepository struct {
	mock.Mock
}

func (m *MockShipmentRepository) Create(ctx context.Context, draft domain.Draft) (*domain.Shipment, error) {
	args := m.Called(ctx, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Shipment), args.Error(1)
}

func (m *MockShipmentRepository) GetRecord(ctx context.Context, id int64) (*domain.Record, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Record), args.Error(1)
}

func (m *MockShipmentRepository) Save(ctx context.Context, num string) (*domain.Shipment, error) {
	args := m.Called(ctx, num)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Shipment), args.Error(1)
}

func (m *MockShipmentRepository) ReassignTruck(ctx context.Context, shipmentID, truckTypeID int64) error {
	args := m.Called(ctx, shipmentID, truckTypeID)
	return args.Error(0)
}

// MockTruckFinder is a mock implementation of ports.TruckFinder
type MockTruckFinder struct {
	mock.Mock
}

func (m *MockTruckFinder) GetByID(ctx context.Context, id int64) (*fleet.Truck, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fleet.Truck), args.Error(1)
}

// MockLayoutEngine is a mock implementation of ports.LayoutEngine
type MockLayoutEngine struct {
	mock.Mock
}

func (m *MockLayoutEngine) Layout(ctx context.Context, req domain.LayoutRequest) domain.LayoutResult {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.LayoutResult)
}
