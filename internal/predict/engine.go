package predict

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shiroonigami23-ui/disruption-response-pipeline/internal/contracts"
)

// DefaultDelayThresholdMinutes marks an IoT batch anomalous when the
// average reported delay exceeds it.
const DefaultDelayThresholdMinutes = 30.0

// Fallback scoring constants used when no inference backend is configured.
// Illustrative calibration, kept configurable rather than load-bearing.
const (
	fallbackBaseConfidence = 0.50
	satelliteRiskWeight    = 0.30
	weatherAnomalyBoost    = 0.05
	iotAnomalyBoost        = 0.15
	maxFallbackConfidence  = 0.99
	fallbackBaseRouteCount = 2
	congestionRouteSpread  = 10
	iotAnomalyRouteSpread  = 4
)

// Engine is the prediction stage. It reduces raw signal summaries into a
// structured disruption prediction, delegating scoring to an inference
// backend when one is configured and to a deterministic fallback otherwise.
type Engine struct {
	backend        Backend
	delayThreshold float64
}

func NewEngine(backend Backend, delayThresholdMinutes float64) *Engine {
	if delayThresholdMinutes <= 0 {
		delayThresholdMinutes = DefaultDelayThresholdMinutes
	}
	return &Engine{backend: backend, delayThreshold: delayThresholdMinutes}
}

// Predict turns a signal bundle into a prediction. Missing inputs contribute
// neutrally; a backend error is returned tagged, never a partial prediction.
func (e *Engine) Predict(ctx context.Context, bundle contracts.SignalBundle) (contracts.DisruptionPrediction, error) {
	iot := ReduceReadings(bundle.IoTReadings, e.delayThreshold)

	var features contracts.PredictionFeatures
	if e.backend != nil {
		inferred, err := e.backend.Infer(ctx, bundle, iot)
		if err != nil {
			return contracts.DisruptionPrediction{}, fmt.Errorf("inference backend: %w", err)
		}
		features = inferred
	} else {
		features = fallbackFeatures(bundle.Satellite, iot)
	}

	if features.Type == "" {
		features.Type = contracts.DisruptionPortCongestion
	}
	features.Confidence = clamp(features.Confidence, 0, 1)

	return contracts.DisruptionPrediction{
		ID:              uuid.NewString(),
		Type:            features.Type,
		Confidence:      features.Confidence,
		AffectedRoutes:  features.AffectedRoutes,
		AffectedRegions: features.AffectedRegions,
		CreatedAt:       time.Now().UTC(),
	}, nil
}

// ReduceReadings folds a batch of sensor readings into an IoT summary.
// Zero readings reduce to a zero average with no anomaly.
func ReduceReadings(readings []contracts.IoTReading, thresholdMinutes float64) contracts.IoTSummary {
	if len(readings) == 0 {
		return contracts.IoTSummary{}
	}

	total := 0.0
	for _, r := range readings {
		total += r.DelayMinutes
	}
	avg := total / float64(len(readings))

	return contracts.IoTSummary{
		AverageDelayMinutes: avg,
		AnomalyDetected:     avg > thresholdMinutes,
		SensorCount:         len(readings),
	}
}

// fallbackFeatures scores the bundle without an inference backend. It is
// deterministic for a given bundle so demo runs are reproducible.
func fallbackFeatures(sat *contracts.SatelliteSummary, iot contracts.IoTSummary) contracts.PredictionFeatures {
	confidence := fallbackBaseConfidence
	disruptionType := contracts.DisruptionPortCongestion

	routeCount := fallbackBaseRouteCount
	if sat != nil {
		confidence += satelliteRiskWeight * clamp(sat.RiskScore, 0, 1)
		routeCount += int(clamp(sat.CongestionLevel, 0, 1) * congestionRouteSpread)
		if sat.WeatherAnomaly {
			disruptionType = contracts.DisruptionSevereWeather
			confidence += weatherAnomalyBoost
		}
	}
	if iot.AnomalyDetected {
		confidence += iotAnomalyBoost
		routeCount += iotAnomalyRouteSpread
	}

	routes := make([]string, 0, routeCount)
	for i := 1; i <= routeCount; i++ {
		routes = append(routes, fmt.Sprintf("route-%d", i))
	}

	return contracts.PredictionFeatures{
		Type:           disruptionType,
		Confidence:     clamp(confidence, 0, maxFallbackConfidence),
		AffectedRoutes: routes,
	}
}

func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
