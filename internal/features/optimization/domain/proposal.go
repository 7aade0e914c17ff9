package domain

import (
	"encoding/json"
	"errors"
	"fmt"

	fleet "shipment-planner/internal/features/fleet/domain"
	orders "shipment-planner/internal/features/orders/domain"
)

// UnboundTruck marks a proposal the optimizer could not fit on any truck.
const UnboundTruck int64 = -1

var (
	// ErrMalformedProposal is returned when an optimizer payload does not match the expected schema.
	ErrMalformedProposal = errors.New("malformed proposal")
	// ErrInvalidPriority is returned for an unknown optimization priority.
	ErrInvalidPriority = errors.New("invalid priority")
)

// Priority is the objective the optimizer minimizes.
type Priority string

const (
	PriorityDistance Priority = "distance"
	PriorityEmission Priority = "emission"
	PriorityTime     Priority = "time"
)

// ParsePriority validates a caller supplied priority.
func ParsePriority(s string) (Priority, error) {
	switch p := Priority(s); p {
	case PriorityDistance, PriorityEmission, PriorityTime:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPriority, s)
	}
}

// EngineRequest is the body posted to the optimizer.
type EngineRequest struct {
	Trucks         []fleet.Truck          `json:"trucks"`
	DeliveryOrders []orders.DeliveryOrder `json:"delivery_orders"`
	OriLocation    []orders.Location      `json:"ori_location"`
	DestLocation   []orders.Location      `json:"dest_location"`
	Priority       Priority               `json:"priority"`
}

// ProposalOrder references one delivery order of a proposal.
type ProposalOrder struct {
	DeliveryOrderID int64 `json:"delivery_order_id"`
}

// RouteStop is one location visited by a proposed route.
type RouteStop struct {
	LocationID     int64   `json:"location_id"`
	Queue          int     `json:"queue"`
	TravelTime     float64 `json:"travel_time"`
	TravelDistance float64 `json:"travel_distance"`
}

// LegInfo carries the travel metrics towards one destination of the route.
type LegInfo struct {
	LocDestID      int64   `json:"loc_dest_id"`
	Queue          int     `json:"queue"`
	TravelTime     float64 `json:"travel_time"`
	TravelDistance float64 `json:"travel_distance"`
}

// Proposal is one grouping of delivery orders suggested by the optimizer.
type Proposal struct {
	TruckID              int64           `json:"id_truck"`
	DeliveryOrders       []ProposalOrder `json:"delivery_orders"`
	LocationRoutes       []RouteStop     `json:"location_routes,omitempty"`
	AllCoords            [][]float64     `json:"all_coords,omitempty"`
	TotalTime            float64         `json:"total_time,omitempty"`
	TotalTimeWithWaiting float64         `json:"total_time_with_waiting,omitempty"`
	TotalDist            float64         `json:"total_dist,omitempty"`
	AdditionalInfo       []LegInfo       `json:"additional_info,omitempty"`
	CurrentCapacity      float64         `json:"current_capacity,omitempty"`
	MaxCapacity          float64         `json:"max_capacity,omitempty"`
}

// UnmarshalJSON rejects proposals without id_truck.
func (p *Proposal) UnmarshalJSON(b []byte) error {
	type alias Proposal
	aux := struct {
		*alias
		TruckID *int64 `json:"id_truck"`
	}{alias: (*alias)(p)}

	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	if aux.TruckID == nil {
		return fmt.Errorf("%w: missing id_truck", ErrMalformedProposal)
	}
	p.TruckID = *aux.TruckID
	return nil
}

// Bound reports whether the proposal was assigned a truck.
func (p Proposal) Bound() bool {
	return p.TruckID != UnboundTruck
}

// OrderIDs lists the referenced delivery order ids in proposal order.
func (p Proposal) OrderIDs() []int64 {
	ids := make([]int64, 0, len(p.DeliveryOrders))
	for _, o := range p.DeliveryOrders {
		ids = append(ids, o.DeliveryOrderID)
	}
	return ids
}

// LegDistance sums the travel distance of every leg.
func (p Proposal) LegDistance() float64 {
	var total float64
	for _, l := range p.AdditionalInfo {
		total += l.TravelDistance
	}
	return total
}

// CostDistance is the distance used for fuel costing: the optimizer's
// total when present, otherwise the sum of legs.
func (p Proposal) CostDistance() float64 {
	if p.TotalDist > 0 {
		return p.TotalDist
	}
	return p.LegDistance()
}

// Validate checks the proposal against the optimizer contract.
func (p Proposal) Validate() error {
	if p.TruckID <= 0 && p.TruckID != UnboundTruck {
		return fmt.Errorf("%w: id_truck %d", ErrMalformedProposal, p.TruckID)
	}
	for _, o := range p.DeliveryOrders {
		if o.DeliveryOrderID <= 0 {
			return fmt.Errorf("%w: delivery_order_id %d", ErrMalformedProposal, o.DeliveryOrderID)
		}
	}
	if !p.Bound() {
		return nil
	}

	if len(p.DeliveryOrders) == 0 {
		return fmt.Errorf("%w: truck %d has no delivery orders", ErrMalformedProposal, p.TruckID)
	}
	if len(p.LocationRoutes) == 0 {
		return fmt.Errorf("%w: truck %d has no location_routes", ErrMalformedProposal, p.TruckID)
	}
	if len(p.AdditionalInfo) == 0 {
		return fmt.Errorf("%w: truck %d has no additional_info", ErrMalformedProposal, p.TruckID)
	}
	for _, s := range p.LocationRoutes {
		if s.LocationID <= 0 || s.Queue < 0 {
			return fmt.Errorf("%w: truck %d route stop %+v", ErrMalformedProposal, p.TruckID, s)
		}
	}

	seen := make(map[int]struct{}, len(p.AdditionalInfo))
	for _, l := range p.AdditionalInfo {
		if l.LocDestID <= 0 || l.Queue < 0 {
			return fmt.Errorf("%w: truck %d leg %+v", ErrMalformedProposal, p.TruckID, l)
		}
		if l.Queue >= len(p.AdditionalInfo) {
			return fmt.Errorf("%w: truck %d queue %d outside 0..%d", ErrMalformedProposal, p.TruckID, l.Queue, len(p.AdditionalInfo)-1)
		}
		if _, dup := seen[l.Queue]; dup {
			return fmt.Errorf("%w: truck %d repeats queue %d", ErrMalformedProposal, p.TruckID, l.Queue)
		}
		seen[l.Queue] = struct{}{}
	}
	for _, c := range p.AllCoords {
		if len(c) != 2 {
			return fmt.Errorf("%w: truck %d coordinate %v", ErrMalformedProposal, p.TruckID, c)
		}
	}
	return nil
}
