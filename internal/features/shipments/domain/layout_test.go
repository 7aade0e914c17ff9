package domain

import (
	"encoding/json"
	"strings"
	"testing"

	fleet "shipment-planner/internal/features/fleet/domain"
	orders "shipment-planner/internal/features/orders/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContainerLabel(t *testing.T) {
	assert.Equal(t, "BLIND_VAN", ContainerLabel("Blind Van"))
	assert.Equal(t, "CDD_LONG", ContainerLabel("cdd   long"))
	assert.Equal(t, "BLIND_VAN", ContainerLabel(""))
	assert.Equal(t, "PICKUP", ContainerLabel("Pickup"))
}

func TestBuildLayoutRequest(t *testing.T) {
	d, err := AssembleDetail(sampleRecord(), DefaultDayStart)
	require.NoError(t, err)

	req := BuildLayoutRequest(d)

	assert.Equal(t, "BLIND_VAN", req.Container)
	assert.Equal(t, int64(12), req.ShipmentID)
	assert.Equal(t, "SP-0012", req.ShipmentNum)
	boxes, ok := req.ShipmentData.Get("DO-1")
	require.True(t, ok)
	assert.Equal(t, []BoxDims{{40, 30, 20, 3}}, boxes)
	boxes, ok = req.ShipmentData.Get("DO-2")
	require.True(t, ok)
	assert.Empty(t, boxes)

	raw, err := json.Marshal(req)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"shipment_data":{"DO-2":{},"DO-1":{"1":[40,30,20,3]}}`)
}

func TestBuildLayoutRequest_RouteOrderOnTheWire(t *testing.T) {
	many := make([]orders.Box, 11)
	for i := range many {
		many[i] = orders.Box{Length: float64(i + 1), Width: 1, Height: 1, Quantity: 1}
	}
	d := &Detail{
		ID:             7,
		ShipmentNum:    "SP-0007",
		LocationRoutes: []orders.Location{{ID: 20}, {ID: 10}},
		DeliveryOrders: []orders.DeliveryOrder{
			{ID: 1, Num: "DO-A", DestLocationID: 10, Boxes: []orders.Box{{Length: 3, Width: 3, Height: 3, Quantity: 1}}},
			{ID: 2, Num: "DO-B", DestLocationID: 20, Boxes: many},
		},
	}

	raw, err := json.Marshal(BuildLayoutRequest(d))
	require.NoError(t, err)
	body := string(raw)

	posB := strings.Index(body, `"DO-B"`)
	posA := strings.Index(body, `"DO-A"`)
	require.NotEqual(t, -1, posA)
	require.NotEqual(t, -1, posB)
	assert.Less(t, posB, posA)

	pos2 := strings.Index(body, `"2":[2,1,1,1]`)
	pos10 := strings.Index(body, `"10":[10,1,1,1]`)
	require.NotEqual(t, -1, pos2)
	require.NotEqual(t, -1, pos10)
	assert.Less(t, pos2, pos10)

	var decoded struct {
		ShipmentData map[string]map[string]BoxDims `json:"shipment_data"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Len(t, decoded.ShipmentData["DO-B"], 11)
	assert.Equal(t, BoxDims{3, 3, 3, 1}, decoded.ShipmentData["DO-A"]["1"])
}

func TestShipmentData_MarshalEmpty(t *testing.T) {
	raw, err := json.Marshal(ShipmentData{})
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(raw))
}

func TestBuildLayoutRequest_SharedStopAndNoType(t *testing.T) {
	d := &Detail{
		ID:             5,
		ShipmentNum:    "SP-0005",
		Truck:          &fleet.Truck{ID: 1},
		LocationRoutes: []orders.Location{{ID: 9}},
		DeliveryOrders: []orders.DeliveryOrder{
			{ID: 1, Num: "DO-A", DestLocationID: 9, Boxes: []orders.Box{{Length: 1, Width: 1, Height: 1, Quantity: 1}}},
			{ID: 2, Num: "DO-B", DestLocationID: 9, Boxes: []orders.Box{{Length: 2, Width: 2, Height: 2, Quantity: 5}}},
			{ID: 3, Num: "DO-C", DestLocationID: 99},
		},
	}

	req := BuildLayoutRequest(d)

	assert.Equal(t, "BLIND_VAN", req.Container)
	require.Len(t, req.ShipmentData, 2)
	assert.Equal(t, "DO-A", req.ShipmentData[0].Num)
	assert.Equal(t, "DO-B", req.ShipmentData[1].Num)
	assert.Equal(t, []BoxDims{{2, 2, 2, 5}}, req.ShipmentData[1].Boxes)
	_, ok := req.ShipmentData.Get("DO-C")
	assert.False(t, ok)
}
