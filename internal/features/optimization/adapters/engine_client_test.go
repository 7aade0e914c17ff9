package adapters

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shipment-planner/internal/core/apperror"
	"shipment-planner/internal/core/config"
	"shipment-planner/internal/core/proxy"
	fleet "shipment-planner/internal/features/fleet/domain"
	"shipment-planner/internal/features/optimization/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(url string) *EngineClient {
	return NewEngineClient(config.EngineConfig{
		URL:              url,
		Key:              "engine-key",
		OptimizerTimeout: 2 * time.Second,
	}, proxy.Settings{}, nil)
}

func TestEngineClient_Optimize_Success(t *testing.T) {
	var received domain.EngineRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/priority", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer engine-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id_truck": -1, "delivery_orders": [{"delivery_order_id": 3}]},
			{"id_truck": 5, "delivery_orders": [{"delivery_order_id": 1}],
			 "location_routes": [{"location_id": 1, "queue": 0, "travel_time": 0, "travel_distance": 0}],
			 "additional_info": [{"loc_dest_id": 8, "queue": 0, "travel_time": 12, "travel_distance": 3000}],
			 "all_coords": [[-6.2, 106.8]], "total_dist": 3000, "total_time": 12, "current_capacity": 0.4}
		]`))
	}))
	defer ts.Close()

	req := domain.EngineRequest{
		Trucks:   []fleet.Truck{{ID: 5, PlateNumber: "B 1234 XY"}},
		Priority: domain.PriorityDistance,
	}

	proposals, err := newTestClient(ts.URL+"/").Optimize(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, proposals, 2)
	assert.False(t, proposals[0].Bound())
	assert.Equal(t, int64(5), proposals[1].TruckID)
	assert.Equal(t, 3000.0, proposals[1].TotalDist)

	assert.Equal(t, domain.PriorityDistance, received.Priority)
	require.Len(t, received.Trucks, 1)
	assert.Equal(t, "B 1234 XY", received.Trucks[0].PlateNumber)
}

func TestEngineClient_Optimize_Errors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
	}{
		{name: "UpstreamStatus", status: http.StatusServiceUnavailable, body: "engine busy", wantStatus: http.StatusServiceUnavailable},
		{name: "NotAnArray", status: http.StatusOK, body: `{"detail":"ok"}`, wantStatus: http.StatusBadGateway},
		{name: "Null", status: http.StatusOK, body: `null`, wantStatus: http.StatusBadGateway},
		{name: "MissingTruck", status: http.StatusOK, body: `[{"delivery_orders":[]}]`, wantStatus: http.StatusBadGateway},
		{name: "NonContiguousQueues", status: http.StatusOK, body: `[{"id_truck":2,"delivery_orders":[{"delivery_order_id":1}],
			"location_routes":[{"location_id":1,"queue":0}],
			"additional_info":[{"loc_dest_id":8,"queue":0},{"loc_dest_id":9,"queue":2}]}]`, wantStatus: http.StatusBadGateway},
		{name: "BoundWithoutRoutes", status: http.StatusOK, body: `[{"id_truck":2,"delivery_orders":[{"delivery_order_id":1}]}]`, wantStatus: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			_, err := newTestClient(ts.URL).Optimize(context.Background(), domain.EngineRequest{})
			require.Error(t, err)

			var up *apperror.UpstreamError
			require.ErrorAs(t, err, &up)
			assert.Equal(t, "optimizer", up.Service)
			assert.Equal(t, tt.wantStatus, up.StatusCode)
			assert.Equal(t, tt.wantStatus, apperror.HTTPStatus(err))
		})
	}
}

func TestEngineClient_Optimize_TransportFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close()

	_, err := newTestClient(url).Optimize(context.Background(), domain.EngineRequest{})

	var up *apperror.UpstreamError
	require.ErrorAs(t, err, &up)
	assert.Equal(t, http.StatusInternalServerError, up.StatusCode)
}

func TestEngineClient_Optimize_Empty(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer ts.Close()

	proposals, err := newTestClient(ts.URL).Optimize(context.Background(), domain.EngineRequest{})
	require.NoError(t, err)
	assert.Empty(t, proposals)
}
