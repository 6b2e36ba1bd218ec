package contracts

import "time"

type DisruptionType string

const (
	DisruptionPortCongestion  DisruptionType = "port_congestion"
	DisruptionSevereWeather   DisruptionType = "severe_weather"
	DisruptionLaborStrike     DisruptionType = "labor_strike"
	DisruptionInfraFailure    DisruptionType = "infrastructure_failure"
	DisruptionGeopolitical    DisruptionType = "geopolitical_event"
	DisruptionCyberThreat     DisruptionType = "cyber_security_threat"
	DisruptionNaturalDisaster DisruptionType = "natural_disaster"
)

// DisruptionPrediction is immutable once produced by the prediction stage.
type DisruptionPrediction struct {
	ID              string         `json:"id"`
	Type            DisruptionType `json:"type"`
	Confidence      float64        `json:"confidence"`
	AffectedRoutes  []string       `json:"affected_routes"`
	AffectedRegions []string       `json:"affected_regions"`
	CreatedAt       time.Time      `json:"created_at"`
}

type AlternativeRoute struct {
	OriginalRoute       string  `json:"original_route"`
	AlternativeRoute    string  `json:"alternative_route"`
	AdditionalCost      float64 `json:"additional_cost"`
	AdditionalTimeHours float64 `json:"additional_time_hours"`
	RiskReduction       float64 `json:"risk_reduction"`
}

type RebalancingMove struct {
	FromWarehouse string  `json:"from_warehouse"`
	ToWarehouse   string  `json:"to_warehouse"`
	Items         int     `json:"items"`
	EstimatedCost float64 `json:"estimated_cost"`
}

type BufferIncrease struct {
	Region          string  `json:"region"`
	AdditionalUnits int     `json:"additional_units"`
	Cost            float64 `json:"cost"`
}

type InventoryRebalancing struct {
	Moves           []RebalancingMove `json:"moves"`
	BufferIncreases []BufferIncrease  `json:"buffer_increases"`
}

// OptimizationPlan is immutable once produced by the optimization stage.
type OptimizationPlan struct {
	AlternativeRoutes         []AlternativeRoute   `json:"alternative_routes"`
	Inventory                 InventoryRebalancing `json:"inventory_rebalancing"`
	EstimatedCostSavings      float64              `json:"estimated_cost_savings"`
	EstimatedTimeSavingsHours float64              `json:"estimated_time_savings_hours"`
	OptimizationScore         float64              `json:"optimization_score"`
}

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

type AlertStatus string

const (
	StatusPending  AlertStatus = "pending"
	StatusActive   AlertStatus = "active"
	StatusResolved AlertStatus = "resolved"
)

// Alert ties one prediction to its mitigation plan. Only Status,
// NotificationsSent and ResolvedAt mutate after creation; the transition
// order is pending -> active -> resolved, forward only.
type Alert struct {
	ID                 string               `json:"id"`
	Identity           string               `json:"identity"`
	Disruption         DisruptionPrediction `json:"disruption"`
	Plan               OptimizationPlan     `json:"plan"`
	Severity           Severity             `json:"severity"`
	Stakeholders       []string             `json:"stakeholders"`
	RecommendedActions []AlternativeRoute   `json:"recommended_actions"`
	Status             AlertStatus          `json:"status"`
	NotificationsSent  int                  `json:"notifications_sent"`
	CreatedAt          time.Time            `json:"created_at"`
	ResolvedAt         time.Time            `json:"resolved_at,omitempty"`
}

// AlertSummary is the compact form handed to notification channels.
type AlertSummary struct {
	AlertID     string         `json:"alert_id"`
	Severity    Severity       `json:"severity"`
	Type        DisruptionType `json:"type"`
	Confidence  float64        `json:"confidence"`
	ActionCount int            `json:"action_count"`
}

// NotificationOutcome reports one stakeholder send attempt.
type NotificationOutcome struct {
	Stakeholder string `json:"stakeholder"`
	Sent        bool   `json:"sent"`
	Error       string `json:"error,omitempty"`
}

// DispatchReport aggregates the per-stakeholder outcomes of one alert.
type DispatchReport struct {
	AlertID  string                `json:"alert_id"`
	Outcomes []NotificationOutcome `json:"outcomes"`
	Sent     int                   `json:"sent"`
}

// ResolutionStatus is the answer to a resolution-tracking query.
type ResolutionStatus struct {
	AlertID        string        `json:"alert_id"`
	Status         AlertStatus   `json:"status"`
	CreatedAt      time.Time     `json:"created_at"`
	ActionsPlanned int           `json:"actions_planned"`
	ResolutionTime time.Duration `json:"resolution_time,omitempty"`
}
