package statements

import "github.com/CliffordWilsonK/InvestmentModellingApp/pkg/models"

// Working capital items as a share of revenue (receivables) or operating
// cost (everything else).
const (
	receivablesShare = 0.15
	inventoryShare   = 0.20
	prepaidShare     = 0.05
	payablesShare    = 0.25
	accruedShare     = 0.10
)

// BalanceSheets returns one end-of-year balance sheet per project year.
//
// Retained earnings and cash accumulate the pre-interest, pre-tax operating
// income (revenue - cost - depreciation), not the income statement's net
// income. Debt and share capital stay at their opening split throughout.
func BalanceSheets(p models.ProjectParameters) []models.BalanceSheet {
	depreciation := p.AnnualDepreciation()
	debt := debtShare * p.InitialInvestment
	shareCapital := shareCapitalShare * p.InitialInvestment

	var retained, accumulated, cash float64

	out := make([]models.BalanceSheet, 0, p.ProjectTimeline)
	for year := 1; year <= p.ProjectTimeline; year++ {
		revenue := p.RevenueAt(year)
		cost := p.CostAt(year)

		operatingIncome := revenue - cost - depreciation
		retained += operatingIncome
		accumulated += depreciation
		cash += operatingIncome + depreciation

		bs := models.BalanceSheet{
			Year:                    year,
			Cash:                    cash,
			AccountsReceivable:      receivablesShare * revenue,
			Inventory:               inventoryShare * cost,
			PrepaidExpenses:         prepaidShare * cost,
			PropertyPlantEquipment:  p.InitialInvestment,
			AccumulatedDepreciation: accumulated,
			AccountsPayable:         payablesShare * cost,
			AccruedLiabilities:      accruedShare * cost,
			LongTermDebt:            debt,
			ShareCapital:            shareCapital,
			RetainedEarnings:        retained,
			NetIncome:               operatingIncome,
		}
		bs.TotalCurrentAssets = bs.Cash + bs.AccountsReceivable + bs.Inventory + bs.PrepaidExpenses
		bs.NetFixedAssets = bs.PropertyPlantEquipment - bs.AccumulatedDepreciation
		bs.TotalAssets = bs.TotalCurrentAssets + bs.NetFixedAssets
		bs.TotalCurrentLiabilities = bs.AccountsPayable + bs.AccruedLiabilities
		bs.TotalLiabilities = bs.TotalCurrentLiabilities + bs.LongTermDebt
		bs.TotalEquity = bs.ShareCapital + bs.RetainedEarnings

		bs.CurrentRatio = safeDiv(bs.TotalCurrentAssets, bs.TotalCurrentLiabilities)
		bs.DebtToEquity = safeDiv(bs.TotalLiabilities, bs.TotalEquity)
		bs.ROEPct = safeDiv(operatingIncome, bs.TotalEquity) * 100
		out = append(out, bs)
	}
	return out
}
