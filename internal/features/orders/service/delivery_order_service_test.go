package service

import (
	"context"
	"errors"
	"testing"

	"shipment-planner/internal/core/apperror"
	"shipment-planner/internal/features/orders/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockDeliveryOrderRepository is a mock implementation of ports.DeliveryOrderRepository
type MockDeliveryOrderRepository struct {
	mock.Mock
}

func (m *MockDeliveryOrderRepository) ListByIDs(ctx context.Context, ids []int64) ([]domain.DeliveryOrder, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DeliveryOrder), args.Error(1)
}

// MockLocationRepository is a mock implementation of ports.LocationRepository
type MockLocationRepository struct {
	mock.Mock
}

func (m *MockLocationRepository) ListByIDs(ctx context.Context, ids []int64) ([]domain.Location, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Location), args.Error(1)
}

func (m *MockLocationRepository) ListDepots(ctx context.Context, dcID int64) ([]domain.Location, error) {
	args := m.Called(ctx, dcID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Location), args.Error(1)
}

func TestDeliveryOrderService_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("KeepsInputOrderAndCollapsesDuplicates", func(t *testing.T) {
		orders := new(MockDeliveryOrderRepository)
		orders.On("ListByIDs", ctx, []int64{3, 1}).Return([]domain.DeliveryOrder{{ID: 1}, {ID: 3}}, nil).Once()

		got, err := NewDeliveryOrderService(orders, nil).Resolve(ctx, []int64{3, 1, 3})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, int64(3), got[0].ID)
		assert.Equal(t, int64(1), got[1].ID)
		orders.AssertExpectations(t)
	})

	t.Run("MissingIsNotFound", func(t *testing.T) {
		orders := new(MockDeliveryOrderRepository)
		orders.On("ListByIDs", ctx, []int64{1, 2}).Return([]domain.DeliveryOrder{{ID: 1}}, nil).Once()

		_, err := NewDeliveryOrderService(orders, nil).Resolve(ctx, []int64{1, 2})
		assert.ErrorIs(t, err, apperror.ErrNotFound)
		assert.Contains(t, err.Error(), "[2]")
	})

	t.Run("Empty", func(t *testing.T) {
		got, err := NewDeliveryOrderService(new(MockDeliveryOrderRepository), nil).Resolve(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("RepoError", func(t *testing.T) {
		orders := new(MockDeliveryOrderRepository)
		orders.On("ListByIDs", ctx, []int64{1}).Return(nil, errors.New("db error")).Once()

		_, err := NewDeliveryOrderService(orders, nil).Resolve(ctx, []int64{1})
		assert.Error(t, err)
	})
}

func TestDeliveryOrderService_ResolveLocations(t *testing.T) {
	ctx := context.Background()
	locations := new(MockLocationRepository)
	locations.On("ListByIDs", ctx, []int64{5, 4}).Return([]domain.Location{{ID: 4, Name: "B"}, {ID: 5, Name: "A"}}, nil).Once()

	got, err := NewDeliveryOrderService(nil, locations).ResolveLocations(ctx, []int64{5, 4, 5})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"A", "B", "A"}, []string{got[0].Name, got[1].Name, got[2].Name})
}

func TestDeliveryOrderService_Destinations(t *testing.T) {
	ctx := context.Background()
	locations := new(MockLocationRepository)
	locations.On("ListByIDs", ctx, []int64{4, 9}).Return([]domain.Location{{ID: 9}, {ID: 4}}, nil).Once()

	orders := []domain.DeliveryOrder{{ID: 1, DestLocationID: 9}, {ID: 2, DestLocationID: 4}, {ID: 3, DestLocationID: 9}}
	got, err := NewDeliveryOrderService(nil, locations).Destinations(ctx, orders)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(4), got[0].ID)
	assert.Equal(t, int64(9), got[1].ID)
}

func TestUnique(t *testing.T) {
	assert.Equal(t, []int64{2, 1, 3}, Unique([]int64{2, 1, 2, 3, 1}))
	assert.Equal(t, []int64{}, Unique(nil))
}
