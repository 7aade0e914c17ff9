package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"shipment-planner/internal/core/config"
	"shipment-planner/internal/core/httpclient"
	"shipment-planner/internal/core/logger"
	"shipment-planner/internal/core/metrics"
	"shipment-planner/internal/core/proxy"
	"shipment-planner/internal/features/shipments/domain"

	"go.uber.org/zap"
)

const (
	layoutService = "layout"
	layoutPath    = "/api/layouting"
	maxLayoutBody = 8 << 20
)

// LayoutEngineClient calls the external box packing engine.
type LayoutEngineClient struct {
	client  *http.Client
	baseURL string
}

// NewLayoutEngineClient creates a LayoutEngineClient bounded by LAYOUT_TIMEOUT.
func NewLayoutEngineClient(cfg config.EngineConfig, p proxy.Settings, rec *metrics.Recorder) *LayoutEngineClient {
	return &LayoutEngineClient{
		client: httpclient.NewClient(cfg.LayoutTimeout,
			httpclient.WithBearer(cfg.Key),
			httpclient.WithProxy(p),
			httpclient.WithMetrics(layoutService, rec),
		),
		baseURL: strings.TrimRight(cfg.URL, "/"),
	}
}

// Layout posts the request and relays the engine's body. Any failure is
// returned in LayoutResult.Error.
func (c *LayoutEngineClient) Layout(ctx context.Context, req domain.LayoutRequest) domain.LayoutResult {
	body, err := json.Marshal(req)
	if err != nil {
		return failed(http.StatusInternalServerError, "encode layout request: "+err.Error())
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+layoutPath, bytes.NewReader(body))
	if err != nil {
		return failed(http.StatusInternalServerError, "create layout request: "+err.Error())
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "*/*")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		logger.Get().Warn("Layout engine unreachable",
			zap.Int64("shipment_id", req.ShipmentID),
			zap.Error(err),
		)
		return failed(http.StatusInternalServerError, err.Error())
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxLayoutBody))
	if err != nil {
		return failed(http.StatusBadGateway, "read layout response: "+err.Error())
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(string(raw))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		logger.Get().Warn("Layout engine returned an error",
			zap.Int64("shipment_id", req.ShipmentID),
			zap.Int("status_code", resp.StatusCode),
		)
		return failed(resp.StatusCode, msg)
	}

	if !json.Valid(raw) {
		return failed(http.StatusBadGateway, "layout engine returned a non-JSON body")
	}

	return domain.LayoutResult{Data: json.RawMessage(raw)}
}

func failed(status int, msg string) domain.LayoutResult {
	return domain.LayoutResult{Error: &domain.LayoutError{StatusCode: status, Message: msg}}
}
