// Package statements derives simplified pro-forma financial statements
// from project parameters. The income statement, balance sheet and cash
// flow series are computed independently and never feed into each other.
package statements

import (
	"math"

	"github.com/CliffordWilsonK/InvestmentModellingApp/pkg/models"
)

// Operating cost split and fixed financing assumptions.
const (
	cogsShare         = 0.60 // of operating cost
	opexShare         = 0.40 // of operating cost
	interestRate      = 0.10 // flat, on the initial investment
	debtShare         = 0.60 // of the initial investment
	shareCapitalShare = 0.40 // of the initial investment
)

// IncomeStatements returns one income statement per project year.
func IncomeStatements(p models.ProjectParameters) []models.IncomeStatement {
	depreciation := p.AnnualDepreciation()
	interest := interestRate * p.InitialInvestment

	out := make([]models.IncomeStatement, 0, p.ProjectTimeline)
	for year := 1; year <= p.ProjectTimeline; year++ {
		revenue := p.RevenueAt(year)
		cost := p.CostAt(year)

		is := models.IncomeStatement{
			Year:              year,
			Revenue:           revenue,
			CostOfGoodsSold:   cogsShare * cost,
			OperatingExpenses: opexShare * cost,
			Depreciation:      depreciation,
			InterestExpense:   interest,
		}
		is.GrossProfit = is.Revenue - is.CostOfGoodsSold
		is.EBITDA = is.GrossProfit - is.OperatingExpenses
		is.EBIT = is.EBITDA - is.Depreciation
		is.EBT = is.EBIT - is.InterestExpense
		is.Tax = math.Max(is.EBT, 0) * p.TaxRate
		is.NetIncome = is.EBT - is.Tax

		is.GrossMarginPct = safeDiv(is.GrossProfit, revenue) * 100
		is.OperatingMarginPct = safeDiv(is.EBIT, revenue) * 100
		is.NetMarginPct = safeDiv(is.NetIncome, revenue) * 100
		out = append(out, is)
	}
	return out
}

func safeDiv(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}
