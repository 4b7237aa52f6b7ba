package valuation

import (
	"fmt"

	"github.com/CliffordWilsonK/InvestmentModellingApp/pkg/models"
)

// Scenario is a uniform multiplicative shock to revenues and costs.
type Scenario struct {
	Name          string  `json:"name"`
	RevenueFactor float64 `json:"revenue_factor"`
	CostFactor    float64 `json:"cost_factor"`
}

// Fixed scenario set.
var (
	BestCase  = Scenario{Name: "best", RevenueFactor: 1.2, CostFactor: 0.9}
	BaseCase  = Scenario{Name: "base", RevenueFactor: 1.0, CostFactor: 1.0}
	WorstCase = Scenario{Name: "worst", RevenueFactor: 0.8, CostFactor: 1.15}
)

// Scenarios returns the fixed scenario set in best, base, worst order.
func Scenarios() []Scenario {
	return []Scenario{BestCase, BaseCase, WorstCase}
}

// Apply returns a perturbed deep copy of p; p itself is never modified.
func (s Scenario) Apply(p models.ProjectParameters) models.ProjectParameters {
	if s.RevenueFactor == 1 && s.CostFactor == 1 {
		return p.Clone()
	}
	return p.WithRevenuesScaled(s.RevenueFactor).WithCostsScaled(s.CostFactor)
}

// RunScenario computes metrics for p under s.
func RunScenario(p models.ProjectParameters, s Scenario) (*models.FinancialMetrics, error) {
	m, err := ComputeMetrics(s.Apply(p))
	if err != nil {
		return nil, fmt.Errorf("valuation: scenario %s: %w", s.Name, err)
	}
	return m, nil
}

// ComputeScenarios computes the best, base and worst case independently.
func ComputeScenarios(p models.ProjectParameters) (*models.ScenarioAnalysis, error) {
	best, err := RunScenario(p, BestCase)
	if err != nil {
		return nil, err
	}
	base, err := RunScenario(p, BaseCase)
	if err != nil {
		return nil, err
	}
	worst, err := RunScenario(p, WorstCase)
	if err != nil {
		return nil, err
	}
	return &models.ScenarioAnalysis{
		BestCase:  *best,
		BaseCase:  *base,
		WorstCase: *worst,
	}, nil
}
