package valuation

import (
	"fmt"

	"github.com/CliffordWilsonK/InvestmentModellingApp/pkg/models"
)

// ComputeMetrics runs the full projection → discount → IRR → payback
// pipeline for p. It checks only what the arithmetic needs (timeline and
// rate > -1); domain validation of the parameters is the caller's job.
func ComputeMetrics(p models.ProjectParameters) (*models.FinancialMetrics, error) {
	flows, err := ProjectCashFlows(p)
	if err != nil {
		return nil, err
	}

	npv, err := NPV(flows, p.DiscountRate)
	if err != nil {
		return nil, fmt.Errorf("valuation: npv: %w", err)
	}
	pv, err := PresentValues(flows, p.DiscountRate)
	if err != nil {
		return nil, fmt.Errorf("valuation: present values: %w", err)
	}

	irr := SolveIRR(flows)
	cumulative := CumulativeCashFlows(flows)

	return &models.FinancialMetrics{
		NPV:                 npv,
		IRR:                 irr.Rate,
		IRRConverged:        irr.Converged,
		IRRReason:           irr.Reason,
		PaybackPeriod:       PaybackPeriod(flows),
		ROI:                 ROI(cumulative, p.InitialInvestment),
		EBITDAMargin:        EBITDAMargin(p),
		FreeCashFlows:       flows,
		CumulativeCashFlows: cumulative,
		PresentValues:       pv,
	}, nil
}

// ROI is the net undiscounted gain over the life of the project as a
// percentage of the initial investment. Zero investment yields 0.
func ROI(cumulative []float64, initialInvestment float64) float64 {
	if initialInvestment == 0 || len(cumulative) == 0 {
		return 0
	}
	return cumulative[len(cumulative)-1] / initialInvestment * 100
}

// EBITDAMargin is lifetime (revenue - operating cost) over lifetime revenue,
// in percent. Zero revenue yields 0.
func EBITDAMargin(p models.ProjectParameters) float64 {
	var revenue, ebitda float64
	for year := 1; year <= p.ProjectTimeline; year++ {
		r := p.RevenueAt(year)
		revenue += r
		ebitda += r - p.CostAt(year)
	}
	if revenue == 0 {
		return 0
	}
	return ebitda / revenue * 100
}
