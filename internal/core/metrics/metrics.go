package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder exposes the planner's Prometheus collectors.
type Recorder struct {
	upstreamCalls    *prometheus.CounterVec
	upstreamLatency  *prometheus.HistogramVec
	shipmentsCreated prometheus.Counter
	failedOrders     prometheus.Counter
	skippedProposals *prometheus.CounterVec
	cacheLookups     *prometheus.CounterVec
}

// New registers the planner metrics on reg.
// If reg is nil, the default registerer is used. If the collectors are already
// registered, the existing ones are reused.
func New(reg prometheus.Registerer) (*Recorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	upstreamCalls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "planner_upstream_requests_total",
		Help: "Outbound engine requests by service and status code",
	}, []string{"service", "status"})
	upstreamLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "planner_upstream_request_duration_seconds",
		Help:    "Outbound engine request latency",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
	}, []string{"service"})
	shipmentsCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "planner_shipments_materialized_total",
		Help: "Shipments persisted from optimizer proposals",
	})
	failedOrders := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "planner_failed_delivery_orders_total",
		Help: "Delivery orders reported as unroutable",
	})
	skippedProposals := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "planner_skipped_proposals_total",
		Help: "Bound proposals skipped during materialization",
	}, []string{"reason"})
	cacheLookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "planner_cache_lookups_total",
		Help: "Layout cache lookups by result (hit, miss, error)",
	}, []string{"result"})

	var err error
	if upstreamCalls, err = register(reg, upstreamCalls); err != nil {
		return nil, err
	}
	if upstreamLatency, err = register(reg, upstreamLatency); err != nil {
		return nil, err
	}
	if shipmentsCreated, err = register(reg, shipmentsCreated); err != nil {
		return nil, err
	}
	if failedOrders, err = register(reg, failedOrders); err != nil {
		return nil, err
	}
	if skippedProposals, err = register(reg, skippedProposals); err != nil {
		return nil, err
	}
	if cacheLookups, err = register(reg, cacheLookups); err != nil {
		return nil, err
	}

	return &Recorder{
		upstreamCalls:    upstreamCalls,
		upstreamLatency:  upstreamLatency,
		shipmentsCreated: shipmentsCreated,
		failedOrders:     failedOrders,
		skippedProposals: skippedProposals,
		cacheLookups:     cacheLookups,
	}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// ObserveUpstream records one outbound call. status 0 means no response was received.
func (r *Recorder) ObserveUpstream(service string, status int, d time.Duration) {
	if r == nil {
		return
	}
	r.upstreamCalls.WithLabelValues(service, strconv.Itoa(status)).Inc()
	r.upstreamLatency.WithLabelValues(service).Observe(d.Seconds())
}

// ShipmentMaterialized increments the materialized shipment counter.
func (r *Recorder) ShipmentMaterialized() {
	if r == nil {
		return
	}
	r.shipmentsCreated.Inc()
}

// FailedDeliveryOrders adds n unroutable orders.
func (r *Recorder) FailedDeliveryOrders(n int) {
	if r == nil || n <= 0 {
		return
	}
	r.failedOrders.Add(float64(n))
}

// ProposalSkipped records a skipped bound proposal.
func (r *Recorder) ProposalSkipped(reason string) {
	if r == nil {
		return
	}
	r.skippedProposals.WithLabelValues(reason).Inc()
}

// CacheLookup records one cache read.
func (r *Recorder) CacheLookup(result string) {
	if r == nil {
		return
	}
	r.cacheLookups.WithLabelValues(result).Inc()
}
