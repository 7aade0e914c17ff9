package domain

import (
	fleet "shipment-planner/internal/features/fleet/domain"
	orders "shipment-planner/internal/features/orders/domain"
)

// RunRequest asks for a priority optimization of some delivery orders of one center.
type RunRequest struct {
	DCID             int64    `json:"dc_id"`
	DeliveryOrderIDs []int64  `json:"delivery_orders_id"`
	Priority         Priority `json:"priority"`
}

// Selection is the fleet and order state sent to the optimizer.
type Selection struct {
	Trucks         []fleet.Truck
	DeliveryOrders []orders.DeliveryOrder
	Origins        []orders.Location
	Destinations   []orders.Location
}

// MaterializedShipment is a persisted proposal with its resolved records.
type MaterializedShipment struct {
	ShipmentID           int64                  `json:"shipment_id"`
	ShipmentNum          string                 `json:"shipment_num"`
	Truck                fleet.Truck            `json:"truck"`
	DeliveryOrders       []orders.DeliveryOrder `json:"delivery_orders"`
	LocationRoutes       []orders.Location      `json:"location_routes"`
	AllCoords            [][]float64            `json:"all_coords"`
	TotalTime            float64                `json:"total_time"`
	TotalTimeWithWaiting float64                `json:"total_time_with_waiting"`
	TotalDist            float64                `json:"total_dist"`
	AdditionalInfo       []LegInfo              `json:"additional_info"`
	CurrentCapacity      float64                `json:"current_capacity"`
	MaxCapacity          float64                `json:"max_capacity"`
	FuelTotal            float64                `json:"fuel_total"`
	ShipmentCost         float64                `json:"shipment_cost"`
}

// SkippedProposal is a bound proposal that could not be materialized.
type SkippedProposal struct {
	TruckID          int64   `json:"id_truck"`
	DeliveryOrderIDs []int64 `json:"delivery_orders_id"`
	Reason           string  `json:"reason"`
}

// RunResult is the outcome of one optimization run.
type RunResult struct {
	RunID                string                 `json:"run_id"`
	Shipments            []MaterializedShipment `json:"shipments"`
	FailedDeliveryOrders []orders.DeliveryOrder `json:"failed_delivery_orders"`
	Skipped              []SkippedProposal      `json:"skipped"`
}
