package optimize

import (
	"context"
	"fmt"
	"math"

	"github.com/shiroonigami23-ui/disruption-response-pipeline/internal/contracts"
)

// Score weights and sub-scores. The values mirror the original planner
// calibration (cost 0.3/0.8, time 0.5/0.9, risk 0.2/0.95); they are
// placeholder arithmetic kept stable so scores stay comparable across runs,
// not a principled cost model.
type Weights struct {
	Cost float64
	Time float64
	Risk float64
}

type SubScores struct {
	CostEfficiency float64
	TimeEfficiency float64
	RiskReduction  float64
}

// Config fixes every estimate the planner produces so plans are
// deterministic with respect to their prediction.
type Config struct {
	Weights   Weights
	SubScores SubScores

	RouteAdditionalCost      float64
	RouteAdditionalTimeHours float64
	RouteRiskReduction       float64

	RebalanceItems int
	RebalanceCost  float64
	BufferUnits    int
	BufferCost     float64

	EstimatedCostSavings      float64
	EstimatedTimeSavingsHours float64

	DefaultRoutes []string
	DefaultRegion string
}

func DefaultConfig() Config {
	return Config{
		Weights:   Weights{Cost: 0.3, Time: 0.5, Risk: 0.2},
		SubScores: SubScores{CostEfficiency: 0.8, TimeEfficiency: 0.9, RiskReduction: 0.95},

		RouteAdditionalCost:      15000,
		RouteAdditionalTimeHours: 8,
		RouteRiskReduction:       0.45,

		RebalanceItems: 5000,
		RebalanceCost:  25000,
		BufferUnits:    10000,
		BufferCost:     150000,

		EstimatedCostSavings:      450000,
		EstimatedTimeSavingsHours: 24,

		DefaultRoutes: []string{"route-1", "route-2"},
		DefaultRegion: "west-coast",
	}
}

// Planner is the optimization stage. It is pure with respect to its inputs;
// every estimate comes from the fixed Config.
type Planner struct {
	cfg Config
}

func NewPlanner(cfg Config) *Planner {
	if len(cfg.DefaultRoutes) == 0 {
		cfg.DefaultRoutes = DefaultConfig().DefaultRoutes
	}
	if cfg.DefaultRegion == "" {
		cfg.DefaultRegion = DefaultConfig().DefaultRegion
	}
	return &Planner{cfg: cfg}
}

// Optimize derives a mitigation plan from one prediction. A prediction with
// no routes or regions falls back to the configured defaults so the plan is
// never empty.
func (p *Planner) Optimize(ctx context.Context, prediction contracts.DisruptionPrediction) (contracts.OptimizationPlan, error) {
	if err := ctx.Err(); err != nil {
		return contracts.OptimizationPlan{}, err
	}

	routes := prediction.AffectedRoutes
	if len(routes) == 0 {
		routes = p.cfg.DefaultRoutes
	}

	regions := prediction.AffectedRegions
	if len(regions) == 0 {
		regions = []string{p.cfg.DefaultRegion}
	}

	alternatives := make([]contracts.AlternativeRoute, 0, len(routes))
	for _, route := range routes {
		alternatives = append(alternatives, contracts.AlternativeRoute{
			OriginalRoute:       route,
			AlternativeRoute:    route + "-alt",
			AdditionalCost:      p.cfg.RouteAdditionalCost,
			AdditionalTimeHours: p.cfg.RouteAdditionalTimeHours,
			RiskReduction:       p.cfg.RouteRiskReduction,
		})
	}

	plan := contracts.OptimizationPlan{
		AlternativeRoutes:         alternatives,
		Inventory:                 p.rebalance(regions),
		EstimatedCostSavings:      p.cfg.EstimatedCostSavings,
		EstimatedTimeSavingsHours: p.cfg.EstimatedTimeSavingsHours,
	}
	plan.OptimizationScore = p.Score()

	return plan, nil
}

func (p *Planner) rebalance(regions []string) contracts.InventoryRebalancing {
	moves := make([]contracts.RebalancingMove, 0, len(regions))
	buffers := make([]contracts.BufferIncrease, 0, len(regions))
	for i, region := range regions {
		moves = append(moves, contracts.RebalancingMove{
			FromWarehouse: fmt.Sprintf("warehouse-%c", 'a'+i%26),
			ToWarehouse:   fmt.Sprintf("warehouse-%c", 'a'+(i+1)%26),
			Items:         p.cfg.RebalanceItems,
			EstimatedCost: p.cfg.RebalanceCost,
		})
		buffers = append(buffers, contracts.BufferIncrease{
			Region:          region,
			AdditionalUnits: p.cfg.BufferUnits,
			Cost:            p.cfg.BufferCost,
		})
	}
	return contracts.InventoryRebalancing{Moves: moves, BufferIncreases: buffers}
}

// Score is the weighted sum of the configured sub-scores, rounded to two
// decimals. With the default config it is always 0.88.
func (p *Planner) Score() float64 {
	w, s := p.cfg.Weights, p.cfg.SubScores
	raw := w.Cost*s.CostEfficiency + w.Time*s.TimeEfficiency + w.Risk*s.RiskReduction
	return math.Round(raw*100) / 100
}
