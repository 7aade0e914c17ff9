package domain

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// DefaultContainer is used when the shipment has no truck type.
const DefaultContainer = "Blind Van"

var whitespace = regexp.MustCompile(`\s+`)

// ContainerLabel upper-cases a truck type name and joins words with underscores.
func ContainerLabel(typeName string) string {
	if strings.TrimSpace(typeName) == "" {
		typeName = DefaultContainer
	}
	return whitespace.ReplaceAllString(strings.ToUpper(typeName), "_")
}

// BoxDims is [length, width, height, quantity].
type BoxDims [4]float64

// OrderBoxes holds the boxes of one delivery order in line order.
type OrderBoxes struct {
	Num   string
	Boxes []BoxDims
}

// ShipmentData lists orders in route order. It marshals to an object keyed by
// order number, then by 1-based box index, with keys written in slice order.
type ShipmentData []OrderBoxes

// Get returns the boxes of the order with the given number.
func (s ShipmentData) Get(num string) ([]BoxDims, bool) {
	for _, o := range s {
		if o.Num == num {
			return o.Boxes, true
		}
	}
	return nil, false
}

// MarshalJSON implements json.Marshaler.
func (s ShipmentData) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, o := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(o.Num)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteString(":{")
		for j, b := range o.Boxes {
			if j > 0 {
				buf.WriteByte(',')
			}
			dims, err := json.Marshal(b)
			if err != nil {
				return nil, err
			}
			buf.WriteString(`"` + strconv.Itoa(j+1) + `":`)
			buf.Write(dims)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// LayoutRequest is the body posted to the layout engine.
type LayoutRequest struct {
	ShipmentData ShipmentData `json:"shipment_data"`
	Container    string       `json:"container"`
	ShipmentID   int64        `json:"shipment_id"`
	ShipmentNum  string       `json:"shipment_num"`
}

// LayoutResult carries either the engine's payload or the failure that replaced it.
type LayoutResult struct {
	Data  json.RawMessage `json:"data,omitempty"`
	Error *LayoutError    `json:"error,omitempty"`
}

// LayoutError describes a failed layout call.
type LayoutError struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
}

// BuildLayoutRequest walks the route in queue order and emits the boxes of
// every order destined to each stop. Orders sharing a stop keep their link order.
func BuildLayoutRequest(d *Detail) LayoutRequest {
	req := LayoutRequest{
		ShipmentData: ShipmentData{},
		ShipmentID:   d.ID,
		ShipmentNum:  d.ShipmentNum,
	}

	typeName := ""
	if d.Truck != nil && d.Truck.Type != nil {
		typeName = d.Truck.Type.Name
	}
	req.Container = ContainerLabel(typeName)

	emitted := make(map[int64]bool, len(d.DeliveryOrders))
	for _, stop := range d.LocationRoutes {
		for _, o := range d.DeliveryOrders {
			if o.DestLocationID != stop.ID || emitted[o.ID] {
				continue
			}
			emitted[o.ID] = true

			boxes := make([]BoxDims, 0, len(o.Boxes))
			for _, b := range o.Boxes {
				boxes = append(boxes, BoxDims{b.Length, b.Width, b.Height, float64(b.Quantity)})
			}
			req.ShipmentData = append(req.ShipmentData, OrderBoxes{Num: o.Num, Boxes: boxes})
		}
	}

	return req
}
