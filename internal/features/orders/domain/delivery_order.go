package domain

import (
	"time"
)

// Status represents the lifecycle state of a delivery order.
type Status string

const (
	// StatusReady indicates the order is waiting to be planned.
	StatusReady Status = "READY"
	// StatusInCalculation indicates the order belongs to a draft shipment.
	StatusInCalculation Status = "IN_CALCULATION"
	// StatusRunning indicates the order's shipment has been saved and dispatched.
	StatusRunning Status = "RUNNING"
	// StatusDone indicates the order has been delivered.
	StatusDone Status = "DONE"
)

var nextStatus = map[Status]Status{
	StatusReady:         StatusInCalculation,
	StatusInCalculation: StatusRunning,
	StatusRunning:       StatusDone,
}

// CanTransition reports whether an order may move from one status to another.
// Staying in the same status is allowed; skipping a status is not.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	return nextStatus[from] == to
}

// ProductLine is one product entry of a delivery order.
type ProductLine struct {
	ID          int64   `json:"id"`
	ProductName string  `json:"product_name"`
	Volume      float64 `json:"volume"`
	Quantity    int     `json:"quantity"`
}

// Box is a packing box attached to a delivery order with a quantity.
type Box struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Length   float64 `json:"length"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Status   string  `json:"status"`
	Quantity int     `json:"quantity"`
}

// DeliveryOrder is a customer order awaiting transport.
type DeliveryOrder struct {
	ID               int64         `json:"id"`
	Num              string        `json:"do_num"`
	Description      string        `json:"description"`
	OriginLocationID int64         `json:"loc_ori_id"`
	DestLocationID   int64         `json:"loc_dest_id"`
	Status           Status        `json:"status"`
	IsDeleted        bool          `json:"is_deleted"`
	OrderDate        time.Time     `json:"order_date"`
	ProductLines     []ProductLine `json:"product_lines"`
	Boxes            []Box         `json:"boxes,omitempty"`
}

// Demand is the total volume of the order.
func (d DeliveryOrder) Demand() float64 {
	var total float64
	for _, p := range d.ProductLines {
		total += p.Volume * float64(p.Quantity)
	}
	return total
}
