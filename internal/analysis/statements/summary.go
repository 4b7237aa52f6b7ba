package statements

import (
	"fmt"

	"github.com/CliffordWilsonK/InvestmentModellingApp/pkg/models"
)

// Summarize rolls the three statement series up into headline totals.
// Balance sheet totals are taken from the final year as-is.
func Summarize(income []models.IncomeStatement, balance []models.BalanceSheet, cash []models.CashFlowStatement) models.ReportSummary {
	var s models.ReportSummary

	var marginSum float64
	for _, is := range income {
		s.TotalRevenue += is.Revenue
		s.TotalNetIncome += is.NetIncome
		marginSum += is.NetMarginPct
	}
	if len(income) > 0 {
		s.AverageNetMarginPct = marginSum / float64(len(income))
	}

	if n := len(balance); n > 0 {
		last := balance[n-1]
		s.TotalAssets = last.TotalAssets
		s.TotalLiabilities = last.TotalLiabilities
		s.TotalEquity = last.TotalEquity
	}

	for _, cf := range cash {
		s.CumulativeCashFlow += cf.NetCashFlow
	}
	if n := len(cash); n > 0 {
		s.FinalCashBalance = cash[n-1].EndingCash
	}
	return s
}

// Generate derives every statement series for p plus their summary.
func Generate(p models.ProjectParameters) (*models.FinancialReports, error) {
	if p.ProjectTimeline < 1 || p.ProjectTimeline > models.MaxProjectTimeline {
		return nil, &models.InvalidParameterError{
			Field:  "project_timeline",
			Value:  p.ProjectTimeline,
			Reason: fmt.Sprintf("must be between 1 and %d", models.MaxProjectTimeline),
			Kind:   models.ErrInvalidTimeline,
		}
	}

	income := IncomeStatements(p)
	balance := BalanceSheets(p)
	cash, err := CashFlowStatements(p, income)
	if err != nil {
		return nil, fmt.Errorf("statements: cash flow: %w", err)
	}

	return &models.FinancialReports{
		IncomeStatements:   income,
		BalanceSheets:      balance,
		CashFlowStatements: cash,
		Summary:            Summarize(income, balance, cash),
	}, nil
}
