package alerting

import "github.com/shiroonigami23-ui/disruption-response-pipeline/internal/contracts"

// Stakeholder roles, in notification order.
const (
	RoleLogisticsManager   = "logistics_manager"
	RoleOperationsDirector = "operations_director"
	RoleCLevel             = "c_level"
)

// escalationConfidence is the strict threshold above which the escalation
// roles join the baseline.
const escalationConfidence = 0.85

// ClassifySeverity maps a prediction's confidence and affected-route count
// to a severity tier. Rules are evaluated most-severe-first with strict
// inequalities, so boundary values fall to the lower tier.
func ClassifySeverity(confidence float64, affectedRoutes int) contracts.Severity {
	switch {
	case confidence > 0.9 && affectedRoutes > 10:
		return contracts.SeverityCritical
	case confidence > 0.8 && affectedRoutes > 5:
		return contracts.SeverityHigh
	case confidence > 0.7:
		return contracts.SeverityMedium
	default:
		return contracts.SeverityLow
	}
}

// ResolveStakeholders returns the roles to notify for a prediction. The
// baseline role always comes first; escalation roles follow in declared
// order when confidence exceeds the escalation threshold. The result never
// contains duplicates.
func ResolveStakeholders(confidence float64) []string {
	stakeholders := []string{RoleLogisticsManager}
	if confidence > escalationConfidence {
		stakeholders = append(stakeholders, RoleOperationsDirector, RoleCLevel)
	}
	return stakeholders
}
