package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"shipment-planner/internal/core/cache"
	"shipment-planner/internal/core/config"
	"shipment-planner/internal/core/database"
	"shipment-planner/internal/core/logger"
	"shipment-planner/internal/core/metrics"
	"shipment-planner/internal/core/server"
	fleetadapter "shipment-planner/internal/features/fleet/adapters"
	fleetservice "shipment-planner/internal/features/fleet/service"
	optimizationadapter "shipment-planner/internal/features/optimization/adapters"
	optimizationhandler "shipment-planner/internal/features/optimization/handler"
	optimizationservice "shipment-planner/internal/features/optimization/service"
	orderadapter "shipment-planner/internal/features/orders/adapters"
	orderservice "shipment-planner/internal/features/orders/service"
	shipmentadapter "shipment-planner/internal/features/shipments/adapters"
	shipmentdomain "shipment-planner/internal/features/shipments/domain"
	shipmenthandler "shipment-planner/internal/features/shipments/handler"
	shipmentservice "shipment-planner/internal/features/shipments/service"

	"go.uber.org/zap"
)

// @title Shipment Planner API
// @version 1.0
// @description Turns delivery orders into truck shipments using an external route optimizer and box layout engine.
// @contact.name API Support
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize Database and apply migrations
	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		l.Fatal("Database connection failed", zap.Error(err))
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		l.Fatal("Database migration failed", zap.Error(err))
	}
	l.Info("Database ready")

	rec, err := metrics.New(nil)
	if err != nil {
		l.Fatal("Metrics registration failed", zap.Error(err))
	}

	// Initialize layout cache; an empty REDIS_URL disables caching
	var layoutCache cache.Cache = cache.Nop{}
	if cfg.Redis.URL != "" {
		redisCache, err := cache.NewRedisAdapter(cfg.Redis.URL,
			cache.WithPrefix(cfg.Redis.KeyPrefix),
			cache.WithRecorder(rec),
		)
		if err != nil {
			l.Fatal("Invalid Redis configuration", zap.Error(err))
		}
		if err := redisCache.Ping(ctx); err != nil {
			l.Warn("Redis unreachable, layout results will not be cached until it recovers", zap.Error(err))
		}
		layoutCache = redisCache
	}
	defer layoutCache.Close()

	dayStart, err := shipmentdomain.ParseDayStart(cfg.DayStart)
	if err != nil {
		l.Fatal("Invalid day start", zap.Error(err))
	}

	// Initialize Repositories
	truckRepo := fleetadapter.NewPostgresTruckRepository(db)
	orderRepo := orderadapter.NewPostgresDeliveryOrderRepository(db)
	locationRepo := orderadapter.NewPostgresLocationRepository(db)
	shipmentRepo := shipmentadapter.NewPostgresShipmentRepository(db)

	// Initialize Engine Clients
	optimizer := optimizationadapter.NewEngineClient(cfg.Engine, cfg.Proxy, rec)
	layoutEngine := shipmentadapter.NewLayoutEngineClient(cfg.Engine, cfg.Proxy, rec)

	// Initialize Services
	orderSvc := orderservice.NewDeliveryOrderService(orderRepo, locationRepo)
	costEstimator := fleetservice.NewCostEstimator(truckRepo)
	optimizationSvc := optimizationservice.NewOptimizationService(truckRepo, orderSvc, optimizer, costEstimator, shipmentRepo, rec)
	shipmentSvc := shipmentservice.NewShipmentService(shipmentRepo, truckRepo, layoutCache, dayStart)
	layoutSvc := shipmentservice.NewLayoutService(shipmentSvc, layoutEngine, layoutCache, cfg.Redis.LayoutTTL)

	// Initialize Handlers
	optimizationHdl := optimizationhandler.NewOptimizationHandler(optimizationSvc)
	shipmentHdl := shipmenthandler.NewShipmentHandler(shipmentSvc, layoutSvc)

	srv := server.New(cfg,
		server.HealthCheck{Name: "database", Check: db.PingContext},
		server.HealthCheck{Name: "cache", Check: layoutCache.Ping},
	)

	// Register Routes
	srv.App.Post("/optimizations/priority", optimizationHdl.RunPriority)
	srv.App.Get("/shipments/:id", shipmentHdl.GetDetail)
	srv.App.Get("/shipments/:id/layout", shipmentHdl.GetLayout)
	srv.App.Patch("/shipments/:num/save", shipmentHdl.Save)
	srv.App.Patch("/shipments/:id/truck", shipmentHdl.ReassignTruck)

	go func() {
		<-ctx.Done()
		l.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			l.Error("Graceful shutdown failed", zap.Error(err))
		}
	}()

	if err := srv.Run(); err != nil {
		l.Fatal("Server failed to start", zap.Error(err))
	}
}
