package alerting

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shiroonigami23-ui/disruption-response-pipeline/internal/contracts"
)

func TestClassifySeverity(t *testing.T) {
	cases := []struct {
		name       string
		confidence float64
		routes     int
		want       contracts.Severity
	}{
		{"critical", 0.95, 12, contracts.SeverityCritical},
		{"high", 0.85, 7, contracts.SeverityHigh},
		{"medium", 0.72, 2, contracts.SeverityMedium},
		{"low", 0.5, 1, contracts.SeverityLow},

		// Thresholds are strict: boundary values fall to the lower tier.
		{"confidence exactly 0.9 is not critical", 0.9, 11, contracts.SeverityHigh},
		{"routes exactly 10 is not critical", 0.95, 10, contracts.SeverityHigh},
		{"confidence exactly 0.8 is not high", 0.8, 8, contracts.SeverityMedium},
		{"routes exactly 5 is not high", 0.85, 5, contracts.SeverityMedium},
		{"confidence exactly 0.7 is not medium", 0.7, 3, contracts.SeverityLow},

		{"high confidence few routes", 0.95, 3, contracts.SeverityMedium},
		{"low confidence many routes", 0.6, 50, contracts.SeverityLow},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ClassifySeverity(tc.confidence, tc.routes))
		})
	}
}

func TestResolveStakeholders(t *testing.T) {
	t.Run("baseline only at or below escalation threshold", func(t *testing.T) {
		assert.Equal(t, []string{RoleLogisticsManager}, ResolveStakeholders(0.72))
		assert.Equal(t, []string{RoleLogisticsManager}, ResolveStakeholders(0.85))
	})

	t.Run("escalation set above threshold, stable order", func(t *testing.T) {
		want := []string{RoleLogisticsManager, RoleOperationsDirector, RoleCLevel}
		assert.Equal(t, want, ResolveStakeholders(0.86))
		assert.Equal(t, want, ResolveStakeholders(0.95))
	})

	t.Run("deterministic and duplicate-free on repeated calls", func(t *testing.T) {
		first := ResolveStakeholders(0.9)
		for i := 0; i < 10; i++ {
			got := ResolveStakeholders(0.9)
			assert.Equal(t, first, got)

			seen := make(map[string]bool, len(got))
			for _, role := range got {
				assert.False(t, seen[role], "duplicate role %s", role)
				seen[role] = true
			}
		}
	})
}
