package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shipment-planner/internal/core/cache"
	"shipment-planner/internal/core/logger"
	"shipment-planner/internal/features/shipments/domain"
	"shipment-planner/internal/features/shipments/ports"

	"go.uber.org/zap"
)

// LayoutCacheKey is the cache key of a shipment's layout result.
func LayoutCacheKey(shipmentID int64) string {
	return fmt.Sprintf("layout:shipment:%d", shipmentID)
}

// LayoutService requests box packing layouts for shipments.
type LayoutService struct {
	details ports.ShipmentService
	engine  ports.LayoutEngine
	cache   cache.Cache
	ttl     time.Duration
}

// NewLayoutService creates a new instance of LayoutService.
func NewLayoutService(details ports.ShipmentService, engine ports.LayoutEngine, c cache.Cache, ttl time.Duration) *LayoutService {
	if c == nil {
		c = cache.Nop{}
	}
	return &LayoutService{
		details: details,
		engine:  engine,
		cache:   c,
		ttl:     ttl,
	}
}

// GetLayout returns the packing layout of a shipment. Engine failures are
// reported in the result; only a missing shipment or storage failure is an error.
func (s *LayoutService) GetLayout(ctx context.Context, shipmentID int64) (*domain.LayoutResult, error) {
	log := logger.FromContext(ctx).With(zap.Int64("shipment_id", shipmentID))
	key := LayoutCacheKey(shipmentID)

	var cached domain.LayoutResult
	err := cache.GetJSON(ctx, s.cache, key, &cached)
	switch {
	case err == nil:
		log.Debug("Layout served from cache")
		return &cached, nil
	case !errors.Is(err, cache.ErrCacheMiss):
		log.Warn("Layout cache read failed", zap.Error(err))
	}

	detail, err := s.details.GetDetail(ctx, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}

	result := s.engine.Layout(ctx, domain.BuildLayoutRequest(detail))
	if result.Error != nil {
		log.Warn("Layout engine failed",
			zap.Int("status", result.Error.StatusCode),
			zap.String("message", result.Error.Message),
		)
		return &result, nil
	}

	if err := cache.SetJSON(ctx, s.cache, key, result, s.ttl); err != nil {
		log.Warn("Layout cache write failed", zap.Error(err))
	}
	return &result, nil
}
