package service

import (
	"context"
	"errors"
	"testing"

	"shipment-planner/internal/core/apperror"
	"shipment-planner/internal/core/cache"
	fleet "shipment-planner/internal/features/fleet/domain"
	orders "shipment-planner/internal/features/orders/domain"
	"shipment-planner/internal/features/shipments/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func truckID(id int64) *int64 { return &id }

func record(id int64, truck *int64) *domain.Record {
	return &domain.Record{
		Shipment: domain.Shipment{
			ID:        id,
			Num:       "SP-0001",
			Status:    domain.StatusDraft,
			TruckID:   truck,
			AllCoords: `[[-6.2,106.8]]`,
		},
		Legs: []domain.StoredLeg{
			{Leg: domain.Leg{LocationID: 12, Queue: 2, TravelTime: 15}, Location: orders.Location{ID: 12}},
			{Leg: domain.Leg{LocationID: 100, Queue: 0}, Location: orders.Location{ID: 100}},
			{Leg: domain.Leg{LocationID: 11, Queue: 1, TravelTime: 30}, Location: orders.Location{ID: 11}},
		},
		Orders: []domain.LinkedOrder{
			{Queue: 0, Order: orders.DeliveryOrder{ID: 1, Num: "DO-1", DestLocationID: 11}},
		},
	}
}

func TestShipmentService_GetDetail(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockShipmentRepository)
		trucks := new(MockTruckFinder)
		svc := NewShipmentService(repo, trucks, nil, domain.DefaultDayStart)

		repo.On("GetRecord", ctx, int64(1)).Return(record(1, truckID(7)), nil).Once()
		trucks.On("GetByID", ctx, int64(7)).Return(&fleet.Truck{ID: 7, MaxCapacityVolume: 9}, nil).Once()

		d, err := svc.GetDetail(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(7), d.Truck.ID)
		assert.Equal(t, 9.0, d.MaxCapacity)
		require.Len(t, d.AdditionalInfo, 3)
		assert.Equal(t, []int{0, 1, 2}, []int{d.AdditionalInfo[0].Queue, d.AdditionalInfo[1].Queue, d.AdditionalInfo[2].Queue})
		assert.Equal(t, "08:00:00", d.AdditionalInfo[0].ETA)
		assert.Equal(t, "08:30:00", d.AdditionalInfo[1].ETA)
		assert.Equal(t, "08:45:00", d.AdditionalInfo[2].ETA)
		repo.AssertExpectations(t)
		trucks.AssertExpectations(t)
	})

	t.Run("NoTruck", func(t *testing.T) {
		repo := new(MockShipmentRepository)
		trucks := new(MockTruckFinder)
		svc := NewShipmentService(repo, trucks, nil, domain.DefaultDayStart)

		repo.On("GetRecord", ctx, int64(2)).Return(record(2, nil), nil).Once()

		d, err := svc.GetDetail(ctx, 2)
		require.NoError(t, err)
		assert.Nil(t, d.Truck)
		assert.Zero(t, d.MaxCapacity)
		trucks.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("NotFound", func(t *testing.T) {
		repo := new(MockShipmentRepository)
		svc := NewShipmentService(repo, new(MockTruckFinder), nil, domain.DefaultDayStart)

		repo.On("GetRecord", ctx, int64(3)).Return(nil, apperror.NotFound("shipment 3")).Once()

		_, err := svc.GetDetail(ctx, 3)
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("InvalidID", func(t *testing.T) {
		svc := NewShipmentService(new(MockShipmentRepository), new(MockTruckFinder), nil, domain.DefaultDayStart)

		_, err := svc.GetDetail(ctx, 0)
		assert.ErrorIs(t, err, apperror.ErrValidation)
	})
}

func TestShipmentService_Save(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockShipmentRepository)
		svc := NewShipmentService(repo, new(MockTruckFinder), nil, domain.DefaultDayStart)

		saved := &domain.Shipment{ID: 1, Num: "SP-0001", Status: domain.StatusRunning, IsSaved: true}
		repo.On("Save", ctx, "SP-0001").Return(saved, nil).Twice()

		first, err := svc.Save(ctx, "SP-0001")
		require.NoError(t, err)
		second, err := svc.Save(ctx, " SP-0001 ")
		require.NoError(t, err)
		assert.Equal(t, first, second)
		repo.AssertExpectations(t)
	})

	t.Run("Empty", func(t *testing.T) {
		svc := NewShipmentService(new(MockShipmentRepository), new(MockTruckFinder), nil, domain.DefaultDayStart)

		_, err := svc.Save(ctx, "  ")
		assert.ErrorIs(t, err, apperror.ErrValidation)
	})

	t.Run("Conflict", func(t *testing.T) {
		repo := new(MockShipmentRepository)
		svc := NewShipmentService(repo, new(MockTruckFinder), nil, domain.DefaultDayStart)

		repo.On("Save", ctx, "SP-0009").Return(nil, apperror.Conflict("delivery order 4 cannot move from DONE to RUNNING")).Once()

		_, err := svc.Save(ctx, "SP-0009")
		assert.ErrorIs(t, err, apperror.ErrConflict)
	})
}

func TestShipmentService_ReassignTruck(t *testing.T) {
	ctx := context.Background()

	t.Run("InvalidatesLayoutCache", func(t *testing.T) {
		mr := miniredis.RunT(t)
		c, err := cache.NewRedisAdapter("redis://" + mr.Addr())
		require.NoError(t, err)
		defer c.Close()
		require.NoError(t, mr.Set(LayoutCacheKey(1), `{"data":{}}`))

		repo := new(MockShipmentRepository)
		trucks := new(MockTruckFinder)
		svc := NewShipmentService(repo, trucks, c, domain.DefaultDayStart)

		repo.On("ReassignTruck", ctx, int64(1), int64(2)).Return(nil).Once()
		repo.On("GetRecord", ctx, int64(1)).Return(record(1, truckID(8)), nil).Once()
		trucks.On("GetByID", ctx, int64(8)).Return(&fleet.Truck{ID: 8, TypeID: 2}, nil).Once()

		d, err := svc.ReassignTruck(ctx, 1, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(8), d.Truck.ID)
		assert.False(t, mr.Exists(LayoutCacheKey(1)))
		repo.AssertExpectations(t)
	})

	t.Run("NoAvailableTruck", func(t *testing.T) {
		repo := new(MockShipmentRepository)
		svc := NewShipmentService(repo, new(MockTruckFinder), nil, domain.DefaultDayStart)

		repo.On("ReassignTruck", ctx, int64(1), int64(5)).Return(apperror.Conflict("no available truck of type 5")).Once()

		_, err := svc.ReassignTruck(ctx, 1, 5)
		assert.ErrorIs(t, err, apperror.ErrConflict)
		repo.AssertNotCalled(t, "GetRecord", mock.Anything, mock.Anything)
	})

	t.Run("InvalidIDs", func(t *testing.T) {
		svc := NewShipmentService(new(MockShipmentRepository), new(MockTruckFinder), nil, domain.DefaultDayStart)

		_, err := svc.ReassignTruck(ctx, 0, 1)
		assert.ErrorIs(t, err, apperror.ErrValidation)
		_, err = svc.ReassignTruck(ctx, 1, -1)
		assert.ErrorIs(t, err, apperror.ErrValidation)
	})

	t.Run("StorageError", func(t *testing.T) {
		repo := new(MockShipmentRepository)
		svc := NewShipmentService(repo, new(MockTruckFinder), nil, domain.DefaultDayStart)

		dbErr := errors.New("connection refused")
		repo.On("ReassignTruck", ctx, int64(1), int64(2)).Return(dbErr).Once()

		_, err := svc.ReassignTruck(ctx, 1, 2)
		assert.ErrorIs(t, err, dbErr)
	})
}
