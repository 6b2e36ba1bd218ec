package predict

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiroonigami23-ui/disruption-response-pipeline/internal/contracts"
)

type stubBackend struct {
	features contracts.PredictionFeatures
	err      error
	gotIoT   contracts.IoTSummary
}

func (s *stubBackend) Infer(_ context.Context, _ contracts.SignalBundle, iot contracts.IoTSummary) (contracts.PredictionFeatures, error) {
	s.gotIoT = iot
	return s.features, s.err
}

func TestReduceReadings(t *testing.T) {
	t.Run("zero readings reduce to neutral summary", func(t *testing.T) {
		summary := ReduceReadings(nil, 30)
		assert.Zero(t, summary.AverageDelayMinutes)
		assert.False(t, summary.AnomalyDetected)
		assert.Zero(t, summary.SensorCount)
	})

	t.Run("average over readings", func(t *testing.T) {
		summary := ReduceReadings([]contracts.IoTReading{
			{SensorID: "a", DelayMinutes: 10},
			{SensorID: "b", DelayMinutes: 50},
		}, 30)
		assert.InDelta(t, 30.0, summary.AverageDelayMinutes, 1e-9)
		assert.Equal(t, 2, summary.SensorCount)
	})

	t.Run("anomaly threshold is strict", func(t *testing.T) {
		at := ReduceReadings([]contracts.IoTReading{{DelayMinutes: 30}}, 30)
		assert.False(t, at.AnomalyDetected)

		above := ReduceReadings([]contracts.IoTReading{{DelayMinutes: 31}}, 30)
		assert.True(t, above.AnomalyDetected)
	})
}

func TestPredictFallback(t *testing.T) {
	engine := NewEngine(nil, 30)

	t.Run("empty bundle still yields a valid prediction", func(t *testing.T) {
		pred, err := engine.Predict(context.Background(), contracts.SignalBundle{})
		require.NoError(t, err)

		assert.NotEmpty(t, pred.ID)
		assert.Equal(t, contracts.DisruptionPortCongestion, pred.Type)
		assert.Greater(t, pred.Confidence, 0.0)
		assert.LessOrEqual(t, pred.Confidence, 1.0)
		assert.NotEmpty(t, pred.AffectedRoutes)
		assert.False(t, pred.CreatedAt.IsZero())
	})

	t.Run("deterministic for the same bundle", func(t *testing.T) {
		bundle := contracts.SignalBundle{
			Satellite: &contracts.SatelliteSummary{CongestionLevel: 0.75, RiskScore: 0.82},
			IoTReadings: []contracts.IoTReading{
				{SensorID: "a", DelayMinutes: 45},
				{SensorID: "b", DelayMinutes: 55},
			},
		}

		first, err := engine.Predict(context.Background(), bundle)
		require.NoError(t, err)
		second, err := engine.Predict(context.Background(), bundle)
		require.NoError(t, err)

		assert.Equal(t, first.Type, second.Type)
		assert.Equal(t, first.Confidence, second.Confidence)
		assert.Equal(t, first.AffectedRoutes, second.AffectedRoutes)
		assert.NotEqual(t, first.ID, second.ID)
	})

	t.Run("weather anomaly flips the type", func(t *testing.T) {
		pred, err := engine.Predict(context.Background(), contracts.SignalBundle{
			Satellite: &contracts.SatelliteSummary{WeatherAnomaly: true, RiskScore: 0.5},
		})
		require.NoError(t, err)
		assert.Equal(t, contracts.DisruptionSevereWeather, pred.Type)
	})

	t.Run("iot anomaly raises confidence and route count", func(t *testing.T) {
		quiet, err := engine.Predict(context.Background(), contracts.SignalBundle{})
		require.NoError(t, err)

		noisy, err := engine.Predict(context.Background(), contracts.SignalBundle{
			IoTReadings: []contracts.IoTReading{{DelayMinutes: 90}},
		})
		require.NoError(t, err)

		assert.Greater(t, noisy.Confidence, quiet.Confidence)
		assert.Greater(t, len(noisy.AffectedRoutes), len(quiet.AffectedRoutes))
	})
}

func TestPredictWithBackend(t *testing.T) {
	t.Run("backend features are used", func(t *testing.T) {
		backend := &stubBackend{features: contracts.PredictionFeatures{
			Type:            contracts.DisruptionLaborStrike,
			Confidence:      0.91,
			AffectedRoutes:  []string{"r1", "r2"},
			AffectedRegions: []string{"emea"},
		}}
		engine := NewEngine(backend, 30)

		pred, err := engine.Predict(context.Background(), contracts.SignalBundle{
			IoTReadings: []contracts.IoTReading{{DelayMinutes: 40}, {DelayMinutes: 44}},
		})
		require.NoError(t, err)

		assert.Equal(t, contracts.DisruptionLaborStrike, pred.Type)
		assert.Equal(t, 0.91, pred.Confidence)
		assert.Equal(t, []string{"r1", "r2"}, pred.AffectedRoutes)
		assert.Equal(t, []string{"emea"}, pred.AffectedRegions)

		// The backend sees the reduced IoT summary, not raw readings.
		assert.Equal(t, 2, backend.gotIoT.SensorCount)
		assert.True(t, backend.gotIoT.AnomalyDetected)
	})

	t.Run("backend error is returned tagged, no partial prediction", func(t *testing.T) {
		engine := NewEngine(&stubBackend{err: errors.New("model overloaded")}, 30)

		pred, err := engine.Predict(context.Background(), contracts.SignalBundle{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "inference backend")
		assert.Empty(t, pred.ID)
	})

	t.Run("confidence outside range is clamped", func(t *testing.T) {
		engine := NewEngine(&stubBackend{features: contracts.PredictionFeatures{Confidence: 1.7}}, 30)
		pred, err := engine.Predict(context.Background(), contracts.SignalBundle{})
		require.NoError(t, err)
		assert.Equal(t, 1.0, pred.Confidence)
		assert.Equal(t, contracts.DisruptionPortCongestion, pred.Type)
	})
}
