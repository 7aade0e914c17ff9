package httpclient

import (
	"net/http"
	"strings"
	"time"

	"shipment-planner/internal/core/logger"
	"shipment-planner/internal/core/metrics"
	"shipment-planner/internal/core/proxy"

	"go.uber.org/zap"
)

// LoggingRoundTripper captures request details for debugging.
type LoggingRoundTripper struct {
	// Proxied is the underlying RoundTripper to execute the request.
	Proxied http.RoundTripper
}

// RoundTrip executes the request and logs details.
func (lrt *LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	logger.Get().Debug("HTTP Request Started",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
	)

	resp, err := lrt.Proxied.RoundTrip(req)

	duration := time.Since(start)

	if err != nil {
		logger.Get().Error("HTTP Request Failed",
			zap.String("method", req.Method),
			zap.String("url", req.URL.String()),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Get().Debug("HTTP Request Completed",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("duration", duration),
	)

	return resp, nil
}

// BearerRoundTripper attaches the engine credential to every request.
type BearerRoundTripper struct {
	// Token is sent as "Bearer <Token>" unless it already carries a scheme.
	Token string
	// Proxied is the underlying RoundTripper to execute the request.
	Proxied http.RoundTripper
}

// RoundTrip clones the request and sets the Authorization header.
func (b *BearerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.Header.Set("Authorization", AuthorizationValue(b.Token))
	return b.Proxied.RoundTrip(r)
}

// AuthorizationValue formats a credential for the Authorization header.
func AuthorizationValue(token string) string {
	if strings.Contains(strings.TrimSpace(token), " ") {
		return token
	}
	return "Bearer " + token
}

// MetricsRoundTripper records the status and latency of each call.
type MetricsRoundTripper struct {
	Service  string
	Recorder *metrics.Recorder
	Proxied  http.RoundTripper
}

// RoundTrip executes the request and observes it.
func (m *MetricsRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := m.Proxied.RoundTrip(req)
	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	m.Recorder.ObserveUpstream(m.Service, status, time.Since(start))
	return resp, err
}

type options struct {
	token    string
	proxy    *proxy.Settings
	service  string
	recorder *metrics.Recorder
}

// Option customizes the client built by NewClient.
type Option func(*options)

// WithBearer authenticates every request with token.
func WithBearer(token string) Option {
	return func(o *options) { o.token = token }
}

// WithProxy routes requests through the configured egress proxy.
func WithProxy(p proxy.Settings) Option {
	return func(o *options) { o.proxy = &p }
}

// WithMetrics records calls under the given service label.
func WithMetrics(service string, r *metrics.Recorder) Option {
	return func(o *options) {
		o.service = service
		o.recorder = r
	}
}

// NewClient returns an http.Client with logging middleware.
func NewClient(timeout time.Duration, opts ...Option) *http.Client {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var rt http.RoundTripper = http.DefaultTransport
	if o.proxy != nil {
		t := http.DefaultTransport.(*http.Transport).Clone()
		t.Proxy = o.proxy.Func()
		rt = t
	}
	if o.token != "" {
		rt = &BearerRoundTripper{Token: o.token, Proxied: rt}
	}
	if o.recorder != nil {
		rt = &MetricsRoundTripper{Service: o.service, Recorder: o.recorder, Proxied: rt}
	}

	return &http.Client{
		Transport: &LoggingRoundTripper{
			Proxied: rt,
		},
		Timeout: timeout,
	}
}
