package domain

import (
	"errors"
	"fmt"
	"time"
)

// Status represents the lifecycle state of a shipment.
type Status string

const (
	// StatusDraft is the state of a freshly materialized shipment.
	StatusDraft Status = "DRAF"
	// StatusRunning indicates the shipment was saved and dispatched.
	StatusRunning Status = "RUNNING"
	// StatusDone indicates every stop was delivered.
	StatusDone Status = "DONE"
)

const (
	// DistanceUnit is recorded with every stored distance.
	DistanceUnit = "meter"
	// TimeUnit is recorded with every stored duration.
	TimeUnit = "menit"
	// DefaultCreator is stored as created_by for materialized shipments.
	DefaultCreator = "User"
)

// ErrInvalidDraft is returned when a draft cannot be persisted.
var ErrInvalidDraft = errors.New("invalid shipment draft")

// CanTransition reports whether a shipment may move from one status to another.
// Staying in the same status is allowed; skipping a status is not.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	switch from {
	case StatusDraft:
		return to == StatusRunning
	case StatusRunning:
		return to == StatusDone
	default:
		return false
	}
}

// Shipment is one truck's planned multi-stop route.
type Shipment struct {
	ID                   int64     `json:"id"`
	Num                  string    `json:"shipment_num"`
	Status               Status    `json:"status"`
	IsSaved              bool      `json:"is_saved"`
	TotalDist            float64   `json:"total_dist"`
	TotalTime            float64   `json:"total_time"`
	TotalTimeWithWaiting float64   `json:"total_time_with_waiting"`
	Cost                 float64   `json:"shipment_cost"`
	TotalVolume          float64   `json:"total_volume"`
	AllCoords            string    `json:"-"`
	TruckID              *int64    `json:"truck_id"`
	CreatedAt            time.Time `json:"created_at"`
	CreatedBy            string    `json:"created_by"`
}

// Leg is one stop of a shipment's route.
type Leg struct {
	LocationID     int64   `json:"loc_dest_id"`
	Queue          int     `json:"queue"`
	TravelTime     float64 `json:"travel_time"`
	TravelDistance float64 `json:"travel_distance"`
}

// Draft is everything needed to persist a new shipment.
type Draft struct {
	TruckID              int64
	TotalDist            float64
	TotalTime            float64
	TotalTimeWithWaiting float64
	Cost                 float64
	TotalVolume          float64
	// AllCoords is the serialized coordinate polyline.
	AllCoords string
	CreatedBy string
	Legs      []Leg
	// DeliveryOrderIDs are linked in this order; the index becomes the link queue.
	DeliveryOrderIDs []int64
}

// Validate checks the draft before it reaches storage.
func (d Draft) Validate() error {
	if d.TruckID <= 0 {
		return fmt.Errorf("%w: truck id %d", ErrInvalidDraft, d.TruckID)
	}
	if len(d.DeliveryOrderIDs) == 0 {
		return fmt.Errorf("%w: no delivery orders", ErrInvalidDraft)
	}
	seen := make(map[int]struct{}, len(d.Legs))
	for _, l := range d.Legs {
		if l.Queue < 0 || l.Queue >= len(d.Legs) {
			return fmt.Errorf("%w: queue %d outside 0..%d", ErrInvalidDraft, l.Queue, len(d.Legs)-1)
		}
		if _, dup := seen[l.Queue]; dup {
			return fmt.Errorf("%w: duplicate queue %d", ErrInvalidDraft, l.Queue)
		}
		seen[l.Queue] = struct{}{}
	}
	return nil
}
