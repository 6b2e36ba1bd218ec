package contracts

// SatelliteSummary is the finished feature vector produced by an external
// imagery analyzer. The pipeline consumes it as-is and never touches raw
// imagery.
type SatelliteSummary struct {
	CongestionLevel float64 `json:"congestion_level"`
	ShipCount       int     `json:"ship_count"`
	WeatherAnomaly  bool    `json:"weather_anomaly"`
	RiskScore       float64 `json:"risk_score"`
}

// IoTReading is a single sensor observation from the field.
type IoTReading struct {
	SensorID     string  `json:"sensor_id"`
	DelayMinutes float64 `json:"delay_minutes"`
}

// IoTSummary is the reduction of a batch of readings.
type IoTSummary struct {
	AverageDelayMinutes float64 `json:"avg_delay_minutes"`
	AnomalyDetected     bool    `json:"anomaly_detected"`
	SensorCount         int     `json:"sensor_count"`
}

// SignalBundle carries every disruption signal known for one submission.
// Any field may be absent; missing inputs degrade to neutral contributions.
type SignalBundle struct {
	Satellite   *SatelliteSummary `json:"satellite,omitempty"`
	IoTReadings []IoTReading      `json:"iot_readings,omitempty"`
	Context     string            `json:"context,omitempty"`
}

// PredictionFeatures is what an inference backend returns for a bundle.
type PredictionFeatures struct {
	Type            DisruptionType `json:"type"`
	Confidence      float64        `json:"confidence"`
	AffectedRoutes  []string       `json:"affected_routes"`
	AffectedRegions []string       `json:"affected_regions"`
}
