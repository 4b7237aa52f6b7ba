package montecarlo

import (
	"math/rand/v2"

	"github.com/CliffordWilsonK/InvestmentModellingApp/pkg/models"
)

// Perturbation ranges. Each factor is drawn once per iteration and applied
// uniformly to every project year.
const (
	revenueFactorMin  = 0.80
	revenueFactorMax  = 1.20
	costFactorMin     = 0.85
	costFactorMax     = 1.15
	discountFactorMin = 0.90
	discountFactorMax = 1.10
)

// Sample is one random draw of the perturbation factors.
type Sample struct {
	RevenueFactor  float64 `json:"revenue_factor"`
	CostFactor     float64 `json:"cost_factor"`
	DiscountFactor float64 `json:"discount_factor"`
}

// DrawSample draws revenue, cost and discount-rate factors from r, in that order.
func DrawSample(r *rand.Rand) Sample {
	return Sample{
		RevenueFactor:  uniform(r, revenueFactorMin, revenueFactorMax),
		CostFactor:     uniform(r, costFactorMin, costFactorMax),
		DiscountFactor: uniform(r, discountFactorMin, discountFactorMax),
	}
}

// Apply returns a perturbed deep copy of p.
func (s Sample) Apply(p models.ProjectParameters) models.ProjectParameters {
	return p.WithRevenuesScaled(s.RevenueFactor).
		WithCostsScaled(s.CostFactor).
		WithDiscountRate(p.DiscountRate * s.DiscountFactor)
}

func uniform(r *rand.Rand, lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}
