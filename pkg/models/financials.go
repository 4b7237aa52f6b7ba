package models

// IncomeStatement is the pro-forma income statement for one project year.
type IncomeStatement struct {
	Year               int     `json:"year"                 yaml:"year"`
	Revenue            float64 `json:"revenue"              yaml:"revenue"`
	CostOfGoodsSold    float64 `json:"cost_of_goods_sold"   yaml:"cost_of_goods_sold"`
	GrossProfit        float64 `json:"gross_profit"         yaml:"gross_profit"`
	OperatingExpenses  float64 `json:"operating_expenses"   yaml:"operating_expenses"`
	EBITDA             float64 `json:"ebitda"               yaml:"ebitda"`
	Depreciation       float64 `json:"depreciation"         yaml:"depreciation"`
	EBIT               float64 `json:"ebit"                 yaml:"ebit"`
	InterestExpense    float64 `json:"interest_expense"     yaml:"interest_expense"`
	EBT                float64 `json:"ebt"                  yaml:"ebt"` // earnings before tax
	Tax                float64 `json:"tax"                  yaml:"tax"`
	NetIncome          float64 `json:"net_income"           yaml:"net_income"`
	GrossMarginPct     float64 `json:"gross_margin_pct"     yaml:"gross_margin_pct"`
	OperatingMarginPct float64 `json:"operating_margin_pct" yaml:"operating_margin_pct"`
	NetMarginPct       float64 `json:"net_margin_pct"       yaml:"net_margin_pct"`
}

// BalanceSheet is the pro-forma balance sheet at the end of one project year.
type BalanceSheet struct {
	Year int `json:"year" yaml:"year"`
	// Assets
	Cash                    float64 `json:"cash"                      yaml:"cash"`
	AccountsReceivable      float64 `json:"accounts_receivable"       yaml:"accounts_receivable"`
	Inventory               float64 `json:"inventory"                 yaml:"inventory"`
	PrepaidExpenses         float64 `json:"prepaid_expenses"          yaml:"prepaid_expenses"`
	TotalCurrentAssets      float64 `json:"total_current_assets"      yaml:"total_current_assets"`
	PropertyPlantEquipment  float64 `json:"property_plant_equipment"  yaml:"property_plant_equipment"` // gross, original basis
	AccumulatedDepreciation float64 `json:"accumulated_depreciation"  yaml:"accumulated_depreciation"`
	NetFixedAssets          float64 `json:"net_fixed_assets"          yaml:"net_fixed_assets"`
	TotalAssets             float64 `json:"total_assets"              yaml:"total_assets"`
	// Liabilities
	AccountsPayable         float64 `json:"accounts_payable"          yaml:"accounts_payable"`
	AccruedLiabilities      float64 `json:"accrued_liabilities"       yaml:"accrued_liabilities"`
	TotalCurrentLiabilities float64 `json:"total_current_liabilities" yaml:"total_current_liabilities"`
	LongTermDebt            float64 `json:"long_term_debt"            yaml:"long_term_debt"`
	TotalLiabilities        float64 `json:"total_liabilities"         yaml:"total_liabilities"`
	// Equity
	ShareCapital     float64 `json:"share_capital"     yaml:"share_capital"`
	RetainedEarnings float64 `json:"retained_earnings" yaml:"retained_earnings"`
	TotalEquity      float64 `json:"total_equity"      yaml:"total_equity"`

	// NetIncome here is revenue - cost - depreciation, before interest and
	// tax. It intentionally differs from IncomeStatement.NetIncome.
	NetIncome    float64 `json:"net_income"     yaml:"net_income"`
	CurrentRatio float64 `json:"current_ratio"  yaml:"current_ratio"`
	DebtToEquity float64 `json:"debt_to_equity" yaml:"debt_to_equity"`
	ROEPct       float64 `json:"roe_pct"        yaml:"roe_pct"`
}

// CashFlowStatement is the pro-forma cash flow statement for one project year.
type CashFlowStatement struct {
	Year                 int     `json:"year"                   yaml:"year"`
	NetIncome            float64 `json:"net_income"             yaml:"net_income"`
	Depreciation         float64 `json:"depreciation"           yaml:"depreciation"`
	WorkingCapitalChange float64 `json:"working_capital_change" yaml:"working_capital_change"` // level, not delta
	OperatingCashFlow    float64 `json:"operating_cash_flow"    yaml:"operating_cash_flow"`
	CapitalExpenditures  float64 `json:"capital_expenditures"   yaml:"capital_expenditures"`
	InvestingCashFlow    float64 `json:"investing_cash_flow"    yaml:"investing_cash_flow"`
	DebtIssuance         float64 `json:"debt_issuance"          yaml:"debt_issuance"`
	DebtRepayment        float64 `json:"debt_repayment"         yaml:"debt_repayment"`
	DividendsPaid        float64 `json:"dividends_paid"         yaml:"dividends_paid"`
	FinancingCashFlow    float64 `json:"financing_cash_flow"    yaml:"financing_cash_flow"`
	NetCashFlow          float64 `json:"net_cash_flow"          yaml:"net_cash_flow"`
	BeginningCash        float64 `json:"beginning_cash"         yaml:"beginning_cash"`
	EndingCash           float64 `json:"ending_cash"            yaml:"ending_cash"`
	FreeCashFlow         float64 `json:"free_cash_flow"         yaml:"free_cash_flow"`
}

// ReportSummary rolls the statement series up into headline totals.
type ReportSummary struct {
	TotalRevenue        float64 `json:"total_revenue"          yaml:"total_revenue"`
	TotalNetIncome      float64 `json:"total_net_income"       yaml:"total_net_income"`
	TotalAssets         float64 `json:"total_assets"           yaml:"total_assets"`
	TotalLiabilities    float64 `json:"total_liabilities"      yaml:"total_liabilities"`
	TotalEquity         float64 `json:"total_equity"           yaml:"total_equity"`
	CumulativeCashFlow  float64 `json:"cumulative_cash_flow"   yaml:"cumulative_cash_flow"`
	AverageNetMarginPct float64 `json:"average_net_margin_pct" yaml:"average_net_margin_pct"`
	FinalCashBalance    float64 `json:"final_cash_balance"     yaml:"final_cash_balance"`
}

// FinancialReports aggregates all statement series for a project.
type FinancialReports struct {
	IncomeStatements   []IncomeStatement   `json:"income_statements"    yaml:"income_statements"`
	BalanceSheets      []BalanceSheet      `json:"balance_sheets"       yaml:"balance_sheets"`
	CashFlowStatements []CashFlowStatement `json:"cash_flow_statements" yaml:"cash_flow_statements"`
	Summary            ReportSummary       `json:"summary"              yaml:"summary"`
}
