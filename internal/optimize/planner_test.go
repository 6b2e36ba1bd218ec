package optimize

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiroonigami23-ui/disruption-response-pipeline/internal/contracts"
)

func TestOptimize(t *testing.T) {
	planner := NewPlanner(DefaultConfig())

	t.Run("one alternative per affected route", func(t *testing.T) {
		plan, err := planner.Optimize(context.Background(), contracts.DisruptionPrediction{
			AffectedRoutes:  []string{"route-7", "route-9"},
			AffectedRegions: []string{"apac"},
		})
		require.NoError(t, err)

		require.Len(t, plan.AlternativeRoutes, 2)
		assert.Equal(t, "route-7", plan.AlternativeRoutes[0].OriginalRoute)
		assert.Equal(t, "route-7-alt", plan.AlternativeRoutes[0].AlternativeRoute)
		assert.Equal(t, 15000.0, plan.AlternativeRoutes[0].AdditionalCost)
		assert.Equal(t, 8.0, plan.AlternativeRoutes[0].AdditionalTimeHours)
		assert.Equal(t, 0.45, plan.AlternativeRoutes[0].RiskReduction)
	})

	t.Run("zero routes fall back to the default route set", func(t *testing.T) {
		plan, err := planner.Optimize(context.Background(), contracts.DisruptionPrediction{})
		require.NoError(t, err)

		require.Len(t, plan.AlternativeRoutes, 2)
		assert.Equal(t, "route-1", plan.AlternativeRoutes[0].OriginalRoute)
		assert.Equal(t, "route-2", plan.AlternativeRoutes[1].OriginalRoute)
	})

	t.Run("zero regions fall back to the default region", func(t *testing.T) {
		plan, err := planner.Optimize(context.Background(), contracts.DisruptionPrediction{
			AffectedRoutes: []string{"route-1"},
		})
		require.NoError(t, err)

		require.Len(t, plan.Inventory.BufferIncreases, 1)
		assert.Equal(t, "west-coast", plan.Inventory.BufferIncreases[0].Region)
		require.Len(t, plan.Inventory.Moves, 1)
		assert.Equal(t, 5000, plan.Inventory.Moves[0].Items)
		assert.Equal(t, 25000.0, plan.Inventory.Moves[0].EstimatedCost)
	})

	t.Run("rebalancing covers every region", func(t *testing.T) {
		plan, err := planner.Optimize(context.Background(), contracts.DisruptionPrediction{
			AffectedRegions: []string{"emea", "apac", "latam"},
		})
		require.NoError(t, err)

		require.Len(t, plan.Inventory.BufferIncreases, 3)
		regions := make([]string, 0, 3)
		for _, b := range plan.Inventory.BufferIncreases {
			regions = append(regions, b.Region)
			assert.Equal(t, 10000, b.AdditionalUnits)
			assert.Equal(t, 150000.0, b.Cost)
		}
		assert.Equal(t, []string{"emea", "apac", "latam"}, regions)
	})

	t.Run("score is the documented weighted sum", func(t *testing.T) {
		// 0.3*0.8 + 0.5*0.9 + 0.2*0.95 = 0.88
		assert.Equal(t, 0.88, planner.Score())

		plan, err := planner.Optimize(context.Background(), contracts.DisruptionPrediction{})
		require.NoError(t, err)
		assert.Equal(t, 0.88, plan.OptimizationScore)
	})

	t.Run("deterministic across runs", func(t *testing.T) {
		pred := contracts.DisruptionPrediction{
			AffectedRoutes:  []string{"route-3"},
			AffectedRegions: []string{"apac"},
		}
		first, err := planner.Optimize(context.Background(), pred)
		require.NoError(t, err)
		second, err := planner.Optimize(context.Background(), pred)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("cancelled context aborts", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := planner.Optimize(ctx, contracts.DisruptionPrediction{})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestCustomWeights(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Weights = Weights{Cost: 1, Time: 0, Risk: 0}
	cfg.SubScores = SubScores{CostEfficiency: 0.5}

	planner := NewPlanner(cfg)
	assert.Equal(t, 0.5, planner.Score())
}
