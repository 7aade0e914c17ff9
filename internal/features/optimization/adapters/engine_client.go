package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"shipment-planner/internal/core/apperror"
	"shipment-planner/internal/core/config"
	"shipment-planner/internal/core/httpclient"
	"shipment-planner/internal/core/metrics"
	"shipment-planner/internal/core/proxy"
	"shipment-planner/internal/features/optimization/domain"
)

const (
	serviceName  = "optimizer"
	priorityPath = "/api/priority"
	maxErrorBody = 4 << 10
)

// EngineClient calls the external route optimizer.
type EngineClient struct {
	client  *http.Client
	baseURL string
}

// NewEngineClient creates an EngineClient. The optimizer has no per-call
// timeout; the transport timeout comes from OPTIMIZER_TIMEOUT.
func NewEngineClient(cfg config.EngineConfig, p proxy.Settings, rec *metrics.Recorder) *EngineClient {
	return &EngineClient{
		client: httpclient.NewClient(cfg.OptimizerTimeout,
			httpclient.WithBearer(cfg.Key),
			httpclient.WithProxy(p),
			httpclient.WithMetrics(serviceName, rec),
		),
		baseURL: strings.TrimRight(cfg.URL, "/"),
	}
}

// Optimize posts the request and returns the validated proposals.
// Every failure is an *apperror.UpstreamError; no retry is attempted.
func (c *EngineClient) Optimize(ctx context.Context, req domain.EngineRequest) ([]domain.Proposal, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("optimize: encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+priorityPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("optimize: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, apperror.NewUpstream(serviceName, 0, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		text := strings.TrimSpace(string(msg))
		if text == "" {
			text = http.StatusText(resp.StatusCode)
		}
		return nil, apperror.NewUpstream(serviceName, resp.StatusCode, text)
	}

	var proposals []domain.Proposal
	if err := json.NewDecoder(resp.Body).Decode(&proposals); err != nil {
		return nil, apperror.NewUpstream(serviceName, http.StatusBadGateway, "malformed response: "+err.Error())
	}
	if proposals == nil {
		return nil, apperror.NewUpstream(serviceName, http.StatusBadGateway, "malformed response: expected an array")
	}
	for i, p := range proposals {
		if err := p.Validate(); err != nil {
			return nil, apperror.NewUpstream(serviceName, http.StatusBadGateway, fmt.Sprintf("proposal %d: %v", i, err))
		}
	}

	return proposals, nil
}
