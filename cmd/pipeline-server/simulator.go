package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/shiroonigami23-ui/disruption-response-pipeline/internal/contracts"
	"github.com/shiroonigami23-ui/disruption-response-pipeline/internal/pipeline"
)

// The simulator is demo stimulus only: it feeds validly-shaped bundles into
// the same submission path external callers use.

type monitoredRoute struct {
	ID          string  `json:"id"`
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	RiskScore   float64 `json:"risk_score"`
}

func monitoredRoutes() []monitoredRoute {
	return []monitoredRoute{
		{ID: "route-1", Origin: "Shanghai", Destination: "Los Angeles", RiskScore: 0.15},
		{ID: "route-2", Origin: "Rotterdam", Destination: "New York", RiskScore: 0.67},
		{ID: "route-3", Origin: "Singapore", Destination: "Dubai", RiskScore: 0.22},
	}
}

var simulatedHubs = []string{
	"shanghai", "rotterdam", "singapore", "los-angeles", "new-york", "dubai",
}

func runSimulator(ctx context.Context, coordinator *pipeline.Coordinator, tick, runTimeout time.Duration) {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			identity, bundle := randomDisruption()
			_, err := coordinator.Submit(bundle, identity, time.Now().Add(runTimeout))
			if errors.Is(err, pipeline.ErrDuplicateRun) {
				continue
			}
			if err != nil {
				log.Printf("simulator submit error: %v", err)
			}
		}
	}
}

func randomDisruption() (string, contracts.SignalBundle) {
	hub := simulatedHubs[rand.Intn(len(simulatedHubs))]
	identity := fmt.Sprintf("%s-%d", hub, rand.Intn(1000))

	readings := make([]contracts.IoTReading, 0, 6)
	for i := 0; i < cap(readings); i++ {
		readings = append(readings, contracts.IoTReading{
			SensorID:     fmt.Sprintf("%s-sensor-%d", hub, i),
			DelayMinutes: float64(rand.Intn(70)),
		})
	}

	bundle := contracts.SignalBundle{
		IoTReadings: readings,
		Context:     fmt.Sprintf("synthetic congestion report near %s", hub),
	}
	if rand.Intn(2) == 0 {
		bundle.Satellite = &contracts.SatelliteSummary{
			CongestionLevel: rand.Float64(),
			ShipCount:       10 + rand.Intn(60),
			WeatherAnomaly:  rand.Intn(4) == 0,
			RiskScore:       rand.Float64(),
		}
	}
	return identity, bundle
}
