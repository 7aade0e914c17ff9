package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	fleet "shipment-planner/internal/features/fleet/domain"
	orders "shipment-planner/internal/features/orders/domain"
)

// DefaultDayStart is the wall-clock time ETAs are counted from.
const DefaultDayStart = 8 * time.Hour

// StoredLeg is a persisted leg with its resolved location.
type StoredLeg struct {
	Leg
	Location orders.Location
}

// LinkedOrder is a delivery order attached to a shipment at a link queue position.
type LinkedOrder struct {
	Queue int
	Order orders.DeliveryOrder
}

// Record is a shipment with every row needed to assemble its detail.
type Record struct {
	Shipment Shipment
	Truck    *fleet.Truck
	Legs     []StoredLeg
	Orders   []LinkedOrder
}

// LegETA is a leg with its estimated arrival time.
type LegETA struct {
	Leg
	ETA string `json:"eta"`
}

// Detail is the caller-facing view of a shipment.
type Detail struct {
	ID                   int64                  `json:"id"`
	ShipmentNum          string                 `json:"shipment_num"`
	Status               Status                 `json:"status"`
	IsSaved              bool                   `json:"is_saved"`
	TotalTime            float64                `json:"total_time"`
	TotalTimeWithWaiting float64                `json:"total_time_with_waiting"`
	TotalDist            float64                `json:"total_dist"`
	ShipmentCost         float64                `json:"shipment_cost"`
	MaxCapacity          float64                `json:"max_capacity"`
	CurrentCapacity      float64                `json:"current_capacity"`
	Truck                *fleet.Truck           `json:"truck"`
	DeliveryOrders       []orders.DeliveryOrder `json:"delivery_orders"`
	LocationRoutes       []orders.Location      `json:"location_routes"`
	AllCoords            [][]float64            `json:"all_coords"`
	AdditionalInfo       []LegETA               `json:"additional_info"`
}

// AssembleDetail sorts legs by queue and orders by link queue, accumulates
// ETAs from dayStart and sums the load of every linked order.
func AssembleDetail(rec Record, dayStart time.Duration) (*Detail, error) {
	legs := append([]StoredLeg(nil), rec.Legs...)
	sort.SliceStable(legs, func(i, j int) bool { return legs[i].Queue < legs[j].Queue })

	links := append([]LinkedOrder(nil), rec.Orders...)
	sort.SliceStable(links, func(i, j int) bool { return links[i].Queue < links[j].Queue })

	coords := [][]float64{}
	if rec.Shipment.AllCoords != "" {
		if err := json.Unmarshal([]byte(rec.Shipment.AllCoords), &coords); err != nil {
			return nil, fmt.Errorf("decode all_coords of shipment %d: %w", rec.Shipment.ID, err)
		}
	}

	d := &Detail{
		ID:                   rec.Shipment.ID,
		ShipmentNum:          rec.Shipment.Num,
		Status:               rec.Shipment.Status,
		IsSaved:              rec.Shipment.IsSaved,
		TotalTime:            rec.Shipment.TotalTime,
		TotalTimeWithWaiting: rec.Shipment.TotalTimeWithWaiting,
		TotalDist:            rec.Shipment.TotalDist,
		ShipmentCost:         rec.Shipment.Cost,
		Truck:                rec.Truck,
		DeliveryOrders:       make([]orders.DeliveryOrder, 0, len(links)),
		LocationRoutes:       make([]orders.Location, 0, len(legs)),
		AllCoords:            coords,
		AdditionalInfo:       make([]LegETA, 0, len(legs)),
	}
	if rec.Truck != nil {
		d.MaxCapacity = rec.Truck.MaxCapacityVolume
	}

	for _, l := range links {
		d.CurrentCapacity += l.Order.Demand()
		d.DeliveryOrders = append(d.DeliveryOrders, l.Order)
	}

	var elapsed float64
	for _, l := range legs {
		elapsed += l.TravelTime
		d.LocationRoutes = append(d.LocationRoutes, l.Location)
		d.AdditionalInfo = append(d.AdditionalInfo, LegETA{
			Leg: l.Leg,
			ETA: FormatETA(dayStart, elapsed),
		})
	}

	return d, nil
}

// FormatETA renders dayStart plus minutes as HH:MM:SS, wrapping at midnight.
func FormatETA(dayStart time.Duration, minutes float64) string {
	secs := int64(dayStart/time.Second) + int64(math.Round(minutes*60))
	secs %= 24 * 60 * 60
	if secs < 0 {
		secs += 24 * 60 * 60
	}
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, secs/60%60, secs%60)
}

// ParseDayStart converts "HH:MM" into an offset from midnight.
func ParseDayStart(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("parse day start %q: %w", s, err)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}
