package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/shiroonigami23-ui/disruption-response-pipeline/internal/contracts"
)

// Backend scores a signal bundle into prediction features. Implementations
// may block; they must honor the context deadline.
type Backend interface {
	Infer(ctx context.Context, bundle contracts.SignalBundle, iot contracts.IoTSummary) (contracts.PredictionFeatures, error)
}

// HTTPBackend calls a remote inference service over JSON.
type HTTPBackend struct {
	baseURL string
	client  *http.Client
}

func NewHTTPBackend(baseURL string, client *http.Client) *HTTPBackend {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPBackend{baseURL: baseURL, client: client}
}

type inferRequest struct {
	Satellite *contracts.SatelliteSummary `json:"satellite,omitempty"`
	IoT       contracts.IoTSummary        `json:"iot"`
	Context   string                      `json:"context,omitempty"`
}

func (b *HTTPBackend) Infer(ctx context.Context, bundle contracts.SignalBundle, iot contracts.IoTSummary) (contracts.PredictionFeatures, error) {
	payload, err := json.Marshal(inferRequest{
		Satellite: bundle.Satellite,
		IoT:       iot,
		Context:   bundle.Context,
	})
	if err != nil {
		return contracts.PredictionFeatures{}, fmt.Errorf("marshal inference request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/v1/infer", bytes.NewReader(payload))
	if err != nil {
		return contracts.PredictionFeatures{}, fmt.Errorf("build inference request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return contracts.PredictionFeatures{}, fmt.Errorf("call inference backend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return contracts.PredictionFeatures{}, fmt.Errorf("inference backend status %d", resp.StatusCode)
	}

	var features contracts.PredictionFeatures
	if err := json.NewDecoder(resp.Body).Decode(&features); err != nil {
		return contracts.PredictionFeatures{}, fmt.Errorf("decode inference response: %w", err)
	}
	return features, nil
}
