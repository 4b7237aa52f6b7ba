// Package report renders engine results as plain-text reports for the CLI.
package report

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/CliffordWilsonK/InvestmentModellingApp/pkg/models"
	"github.com/CliffordWilsonK/InvestmentModellingApp/pkg/utils"
)

// ErrNilResult is returned when asked to render a nil result.
var ErrNilResult = errors.New("report: nil result")

// ════════════════════════════════════════════════════════════════════
// Report configuration
// ════════════════════════════════════════════════════════════════════

// ReportSection identifies a statement section to include/exclude.
type ReportSection string

const (
	SectionIncome   ReportSection = "income"
	SectionBalance  ReportSection = "balance"
	SectionCashFlow ReportSection = "cashflow"
	SectionSummary  ReportSection = "summary"
)

// AllSections returns all statement sections in display order.
func AllSections() []ReportSection {
	return []ReportSection{SectionIncome, SectionBalance, SectionCashFlow, SectionSummary}
}

// ReportConfig controls report rendering.
type ReportConfig struct {
	Title     string          // custom report title (optional)
	Sections  []ReportSection // statement sections to include (default: all)
	Timestamp bool            // print a generation time under the title
}

// DefaultReportConfig returns sensible defaults.
func DefaultReportConfig() ReportConfig {
	return ReportConfig{
		Sections:  AllSections(),
		Timestamp: true,
	}
}

// hasSection returns true if the section is included in the config.
func (rc ReportConfig) hasSection(s ReportSection) bool {
	if len(rc.Sections) == 0 {
		return true
	}
	for _, sec := range rc.Sections {
		if sec == s {
			return true
		}
	}
	return false
}

func (rc ReportConfig) title(fallback string) string {
	if rc.Title != "" {
		return rc.Title
	}
	return fallback
}

// ════════════════════════════════════════════════════════════════════
// Renderers
// ════════════════════════════════════════════════════════════════════

// GenerateMetricsText renders a single valuation record.
func GenerateMetricsText(m *models.FinancialMetrics, cfg ReportConfig) (string, error) {
	if m == nil {
		return "", ErrNilResult
	}
	var sb strings.Builder
	writeHeader(&sb, cfg.title("VALUATION METRICS"), cfg.Timestamp)
	writeMetrics(&sb, m)
	writeCashFlowTable(&sb, m)
	writeFooter(&sb)
	return sb.String(), nil
}

// GenerateScenariosText renders the best/base/worst comparison.
func GenerateScenariosText(a *models.ScenarioAnalysis, cfg ReportConfig) (string, error) {
	if a == nil {
		return "", ErrNilResult
	}
	var sb strings.Builder
	writeHeader(&sb, cfg.title("SCENARIO ANALYSIS"), cfg.Timestamp)

	rows := [][]string{{"Metric", "Best", "Base", "Worst"}}
	add := func(label string, f func(m *models.FinancialMetrics) string) {
		rows = append(rows, []string{label, f(&a.BestCase), f(&a.BaseCase), f(&a.WorstCase)})
	}
	add("NPV", func(m *models.FinancialMetrics) string { return utils.FormatAmount(m.NPV) })
	add("IRR", func(m *models.FinancialMetrics) string { return formatIRR(m) })
	add("Payback (yrs)", func(m *models.FinancialMetrics) string { return formatPayback(m) })
	add("ROI", func(m *models.FinancialMetrics) string { return utils.FormatPct(m.ROI) })
	add("EBITDA margin", func(m *models.FinancialMetrics) string { return utils.FormatPct(m.EBITDAMargin) })
	writeTable(&sb, rows)

	writeFooter(&sb)
	return sb.String(), nil
}

// GenerateMonteCarloText renders a simulation summary. The raw
// distributions are omitted.
func GenerateMonteCarloText(r *models.MonteCarloResult, cfg ReportConfig) (string, error) {
	if r == nil {
		return "", ErrNilResult
	}
	var sb strings.Builder
	writeHeader(&sb, cfg.title("MONTE CARLO SIMULATION"), cfg.Timestamp)

	writeTable(&sb, [][]string{
		{"Iterations", utils.FormatCount(r.Iterations)},
		{"Seed", fmt.Sprintf("%d", r.Seed)},
		{"P(NPV > 0)", utils.FormatRate(r.ProbabilityOfPositiveNPV)},
		{"Expected NPV", utils.FormatAmount(r.ExpectedNPV)},
		{"Std deviation", utils.FormatAmount(r.NPVStdDev)},
		{"Min NPV", utils.FormatAmount(r.NPVMin)},
		{"Max NPV", utils.FormatAmount(r.NPVMax)},
		{"P10 to P90", utils.FormatAmountCompact(r.NPVPercentiles.P10) + " to " + utils.FormatAmountCompact(r.NPVPercentiles.P90)},
		{"IRR not converged", utils.FormatCount(r.IRRNonConverged)},
	})

	sb.WriteString("\n  ■ NPV PERCENTILES\n")
	p := r.NPVPercentiles
	writeTable(&sb, [][]string{
		{"P10", "P25", "P50", "P75", "P90"},
		{utils.FormatAmount(p.P10), utils.FormatAmount(p.P25), utils.FormatAmount(p.P50), utils.FormatAmount(p.P75), utils.FormatAmount(p.P90)},
	})

	writeFooter(&sb)
	return sb.String(), nil
}

// GenerateReportsText renders the pro-forma statements, one column per
// project year.
func GenerateReportsText(r *models.FinancialReports, cfg ReportConfig) (string, error) {
	if r == nil {
		return "", ErrNilResult
	}
	var sb strings.Builder
	writeHeader(&sb, cfg.title("PRO-FORMA FINANCIAL STATEMENTS"), cfg.Timestamp)

	if cfg.hasSection(SectionIncome) && len(r.IncomeStatements) > 0 {
		sb.WriteString("\n  ■ INCOME STATEMENT\n")
		is := r.IncomeStatements
		rows := [][]string{yearHeader(len(is))}
		line := func(label string, f func(models.IncomeStatement) float64) {
			row := []string{label}
			for _, s := range is {
				row = append(row, utils.FormatAmount(f(s)))
			}
			rows = append(rows, row)
		}
		line("Revenue", func(s models.IncomeStatement) float64 { return s.Revenue })
		line("Cost of goods sold", func(s models.IncomeStatement) float64 { return s.CostOfGoodsSold })
		line("Gross profit", func(s models.IncomeStatement) float64 { return s.GrossProfit })
		line("Operating expenses", func(s models.IncomeStatement) float64 { return s.OperatingExpenses })
		line("EBITDA", func(s models.IncomeStatement) float64 { return s.EBITDA })
		line("Depreciation", func(s models.IncomeStatement) float64 { return s.Depreciation })
		line("EBIT", func(s models.IncomeStatement) float64 { return s.EBIT })
		line("Interest expense", func(s models.IncomeStatement) float64 { return s.InterestExpense })
		line("Tax", func(s models.IncomeStatement) float64 { return s.Tax })
		line("Net income", func(s models.IncomeStatement) float64 { return s.NetIncome })
		line("Net margin %", func(s models.IncomeStatement) float64 { return utils.RoundCents(s.NetMarginPct) })
		writeTable(&sb, rows)
	}

	if cfg.hasSection(SectionBalance) && len(r.BalanceSheets) > 0 {
		sb.WriteString("\n  ■ BALANCE SHEET\n")
		bs := r.BalanceSheets
		rows := [][]string{yearHeader(len(bs))}
		line := func(label string, f func(models.BalanceSheet) float64) {
			row := []string{label}
			for _, s := range bs {
				row = append(row, utils.FormatAmount(f(s)))
			}
			rows = append(rows, row)
		}
		line("Cash", func(s models.BalanceSheet) float64 { return s.Cash })
		line("Current assets", func(s models.BalanceSheet) float64 { return s.TotalCurrentAssets })
		line("Net fixed assets", func(s models.BalanceSheet) float64 { return s.NetFixedAssets })
		line("Total assets", func(s models.BalanceSheet) float64 { return s.TotalAssets })
		line("Current liabilities", func(s models.BalanceSheet) float64 { return s.TotalCurrentLiabilities })
		line("Long-term debt", func(s models.BalanceSheet) float64 { return s.LongTermDebt })
		line("Total liabilities", func(s models.BalanceSheet) float64 { return s.TotalLiabilities })
		line("Total equity", func(s models.BalanceSheet) float64 { return s.TotalEquity })
		line("Current ratio", func(s models.BalanceSheet) float64 { return s.CurrentRatio })
		line("Debt / equity", func(s models.BalanceSheet) float64 { return s.DebtToEquity })
		writeTable(&sb, rows)
	}

	if cfg.hasSection(SectionCashFlow) && len(r.CashFlowStatements) > 0 {
		sb.WriteString("\n  ■ CASH FLOW STATEMENT\n")
		cf := r.CashFlowStatements
		rows := [][]string{yearHeader(len(cf))}
		line := func(label string, f func(models.CashFlowStatement) float64) {
			row := []string{label}
			for _, s := range cf {
				row = append(row, utils.FormatAmount(f(s)))
			}
			rows = append(rows, row)
		}
		line("Operating", func(s models.CashFlowStatement) float64 { return s.OperatingCashFlow })
		line("Investing", func(s models.CashFlowStatement) float64 { return s.InvestingCashFlow })
		line("Financing", func(s models.CashFlowStatement) float64 { return s.FinancingCashFlow })
		line("Net cash flow", func(s models.CashFlowStatement) float64 { return s.NetCashFlow })
		line("Ending cash", func(s models.CashFlowStatement) float64 { return s.EndingCash })
		line("Free cash flow", func(s models.CashFlowStatement) float64 { return s.FreeCashFlow })
		writeTable(&sb, rows)
	}

	if cfg.hasSection(SectionSummary) {
		s := r.Summary
		sb.WriteString("\n  ■ SUMMARY\n")
		writeTable(&sb, [][]string{
			{"Total revenue", utils.FormatAmount(s.TotalRevenue)},
			{"Total net income", utils.FormatAmount(s.TotalNetIncome)},
			{"Total assets", utils.FormatAmount(s.TotalAssets)},
			{"Total liabilities", utils.FormatAmount(s.TotalLiabilities)},
			{"Total equity", utils.FormatAmount(s.TotalEquity)},
			{"Cumulative cash flow", utils.FormatAmount(s.CumulativeCashFlow)},
			{"Final cash balance", utils.FormatAmount(s.FinalCashBalance)},
			{"Average net margin", utils.FormatPct(s.AverageNetMarginPct)},
		})
	}

	writeFooter(&sb)
	return sb.String(), nil
}

// ════════════════════════════════════════════════════════════════════
// Layout helpers
// ════════════════════════════════════════════════════════════════════

const ruleWidth = 60

func writeHeader(sb *strings.Builder, title string, timestamp bool) {
	line := strings.Repeat("═", ruleWidth)
	sb.WriteString("\n" + line + "\n")
	sb.WriteString(fmt.Sprintf("  %s\n", title))
	if timestamp {
		sb.WriteString(fmt.Sprintf("  Generated: %s\n", ReportTimestamp()))
	}
	sb.WriteString(line + "\n")
}

func writeFooter(sb *strings.Builder) {
	sb.WriteString("\n" + strings.Repeat("═", ruleWidth) + "\n")
}

func writeMetrics(sb *strings.Builder, m *models.FinancialMetrics) {
	writeTable(sb, [][]string{
		{"NPV", utils.FormatAmount(m.NPV)},
		{"IRR", formatIRR(m)},
		{"Payback period", formatPaybackYears(m)},
		{"ROI", utils.FormatPct(m.ROI)},
		{"EBITDA margin", utils.FormatPct(m.EBITDAMargin)},
	})
}

func writeCashFlowTable(sb *strings.Builder, m *models.FinancialMetrics) {
	sb.WriteString("\n  ■ CASH FLOWS\n")
	rows := [][]string{{"Year", "Free cash flow", "Cumulative", "Present value"}}
	for i := range m.FreeCashFlows {
		row := []string{fmt.Sprintf("%d", i), utils.FormatAmount(m.FreeCashFlows[i])}
		if i < len(m.CumulativeCashFlows) {
			row = append(row, utils.FormatAmount(m.CumulativeCashFlows[i]))
		}
		if i < len(m.PresentValues) {
			row = append(row, utils.FormatAmount(m.PresentValues[i]))
		}
		rows = append(rows, row)
	}
	writeTable(sb, rows)
}

// writeTable lays rows out with tabwriter; numeric columns are right aligned.
func writeTable(sb *strings.Builder, rows [][]string) {
	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', tabwriter.AlignRight)
	for _, row := range rows {
		// AlignRight pads every cell on the left; a trailing tab keeps the
		// last column aligned too.
		fmt.Fprintf(tw, "  %s\t\n", strings.Join(row, "\t"))
	}
	_ = tw.Flush()
	sb.Write(buf.Bytes())
}

func yearHeader(years int) []string {
	row := []string{""}
	for y := 1; y <= years; y++ {
		row = append(row, fmt.Sprintf("Year %d", y))
	}
	return row
}

func formatIRR(m *models.FinancialMetrics) string {
	s := utils.FormatRate(m.IRR)
	if !m.IRRConverged {
		s += " (not converged)"
	}
	return s
}

// formatPayback prints "never" for the len(flows) sentinel.
func formatPayback(m *models.FinancialMetrics) string {
	if len(m.FreeCashFlows) > 0 && m.PaybackPeriod >= float64(len(m.FreeCashFlows)) {
		return "never"
	}
	return fmt.Sprintf("%.2f", m.PaybackPeriod)
}

func formatPaybackYears(m *models.FinancialMetrics) string {
	s := formatPayback(m)
	if s == "never" {
		return s
	}
	return s + " yrs"
}

// ════════════════════════════════════════════════════════════════════
// Utility: Timestamp
// ════════════════════════════════════════════════════════════════════

// ReportTimestamp returns the current UTC time formatted for report headers.
func ReportTimestamp() string {
	return time.Now().UTC().Format("02 Jan 2006, 15:04 MST")
}
