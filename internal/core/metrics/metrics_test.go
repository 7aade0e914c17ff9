package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()

	first, err := New(reg)
	require.NoError(t, err)
	second, err := New(reg)
	require.NoError(t, err)

	first.ShipmentMaterialized()
	second.ShipmentMaterialized()

	assert.Equal(t, float64(2), testutil.ToFloat64(first.shipmentsCreated))
}

func TestRecorder_ObserveUpstream(t *testing.T) {
	reg := prometheus.NewRegistry()
	r, err := New(reg)
	require.NoError(t, err)

	r.ObserveUpstream("optimizer", 200, 150*time.Millisecond)
	r.ObserveUpstream("optimizer", 502, time.Second)
	r.ObserveUpstream("layout", 0, time.Second)

	assert.Equal(t, float64(1), testutil.ToFloat64(r.upstreamCalls.WithLabelValues("optimizer", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.upstreamCalls.WithLabelValues("optimizer", "502")))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.upstreamCalls.WithLabelValues("layout", "0")))
}

func TestRecorder_Counters(t *testing.T) {
	r, err := New(prometheus.NewRegistry())
	require.NoError(t, err)

	r.FailedDeliveryOrders(2)
	r.FailedDeliveryOrders(0)
	r.ProposalSkipped("not_found")
	r.CacheLookup("hit")
	r.CacheLookup("hit")

	assert.Equal(t, float64(2), testutil.ToFloat64(r.cacheLookups.WithLabelValues("hit")))
	assert.Equal(t, float64(2), testutil.ToFloat64(r.failedOrders))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.skippedProposals.WithLabelValues("not_found")))
}

func TestRecorder_NilSafe(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.ObserveUpstream("optimizer", 200, time.Second)
		r.ShipmentMaterialized()
		r.FailedDeliveryOrders(1)
		r.ProposalSkipped("conflict")
		r.CacheLookup("miss")
	})
}
