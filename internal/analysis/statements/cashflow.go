package statements

import (
	"errors"
	"fmt"

	"github.com/CliffordWilsonK/InvestmentModellingApp/pkg/models"
)

// ErrRepaymentUndefined is returned by DebtRepayment when the project has
// no year after the issuance year to repay in.
var ErrRepaymentUndefined = errors.New("statements: debt repayment undefined for a single-year timeline")

const (
	maintenanceCapexShare = 0.05 // of the initial investment, years 2+
	dividendPayout        = 0.30 // of positive net income
)

// DebtRepayment is the equal annual repayment, from year 2 onwards, of debt
// issued in year 1.
func DebtRepayment(issuance float64, timeline int) (float64, error) {
	if timeline <= 1 {
		return 0, fmt.Errorf("%w (timeline=%d)", ErrRepaymentUndefined, timeline)
	}
	return issuance / float64(timeline-1), nil
}

// CashFlowStatements returns one cash flow statement per project year.
// Net income comes from the income statement series for the same year.
func CashFlowStatements(p models.ProjectParameters, income []models.IncomeStatement) ([]models.CashFlowStatement, error) {
	depreciation := p.AnnualDepreciation()
	issuance := debtShare * p.InitialInvestment

	var repayment float64
	if p.ProjectTimeline > 1 {
		r, err := DebtRepayment(issuance, p.ProjectTimeline)
		if err != nil {
			return nil, err
		}
		repayment = r
	}

	var beginning float64
	out := make([]models.CashFlowStatement, 0, p.ProjectTimeline)
	for year := 1; year <= p.ProjectTimeline; year++ {
		revenue := p.RevenueAt(year)
		cost := p.CostAt(year)

		var netIncome float64
		if year-1 < len(income) {
			netIncome = income[year-1].NetIncome
		}

		cf := models.CashFlowStatement{
			Year:                 year,
			NetIncome:            netIncome,
			Depreciation:         depreciation,
			WorkingCapitalChange: receivablesShare*revenue + inventoryShare*cost - payablesShare*cost,
			BeginningCash:        beginning,
		}
		cf.OperatingCashFlow = cf.NetIncome + cf.Depreciation - cf.WorkingCapitalChange

		if year == 1 {
			cf.CapitalExpenditures = p.InitialInvestment
			cf.DebtIssuance = issuance
		} else {
			cf.CapitalExpenditures = maintenanceCapexShare * p.InitialInvestment
			cf.DebtRepayment = repayment
		}
		cf.InvestingCashFlow = -cf.CapitalExpenditures

		if netIncome > 0 {
			cf.DividendsPaid = dividendPayout * netIncome
		}
		cf.FinancingCashFlow = cf.DebtIssuance - cf.DebtRepayment - cf.DividendsPaid

		cf.NetCashFlow = cf.OperatingCashFlow + cf.InvestingCashFlow + cf.FinancingCashFlow
		cf.EndingCash = cf.BeginningCash + cf.NetCashFlow
		cf.FreeCashFlow = cf.OperatingCashFlow - cf.CapitalExpenditures

		beginning = cf.EndingCash
		out = append(out, cf)
	}
	return out, nil
}
