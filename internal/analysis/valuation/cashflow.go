// Package valuation projects project free cash flows and derives the
// discounted valuation metrics (NPV, IRR, payback, ROI) and the fixed
// best/base/worst scenario set from them.
package valuation

import (
	"fmt"

	"github.com/CliffordWilsonK/InvestmentModellingApp/pkg/models"
)

// ProjectCashFlows returns the free-cash-flow sequence for p. Index 0 is the
// initial outlay (investment plus working capital); index y is project year y.
// The final year also carries the terminal value and the working-capital
// recovery.
func ProjectCashFlows(p models.ProjectParameters) ([]float64, error) {
	if p.ProjectTimeline < 1 || p.ProjectTimeline > models.MaxProjectTimeline {
		return nil, &models.InvalidParameterError{
			Field:  "project_timeline",
			Value:  p.ProjectTimeline,
			Reason: fmt.Sprintf("must be between 1 and %d", models.MaxProjectTimeline),
			Kind:   models.ErrInvalidTimeline,
		}
	}

	flows := make([]float64, p.ProjectTimeline+1)
	flows[0] = -(p.InitialInvestment + p.WorkingCapital)

	depreciation := p.AnnualDepreciation()
	for year := 1; year <= p.ProjectTimeline; year++ {
		ebit := p.RevenueAt(year) - p.CostAt(year) - depreciation

		// No loss carryforward: a loss year simply pays no tax.
		tax := 0.0
		if ebit > 0 {
			tax = ebit * p.TaxRate
		}
		nopat := ebit - tax
		flows[year] = nopat + depreciation
	}

	flows[p.ProjectTimeline] += p.TerminalValue + p.WorkingCapital
	return flows, nil
}

// CumulativeCashFlows returns the running prefix sum of flows.
func CumulativeCashFlows(flows []float64) []float64 {
	cum := make([]float64, len(flows))
	running := 0.0
	for i, f := range flows {
		running += f
		cum[i] = running
	}
	return cum
}
