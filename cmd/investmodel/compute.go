package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/CliffordWilsonK/InvestmentModellingApp/internal/engine"
	"github.com/CliffordWilsonK/InvestmentModellingApp/internal/report"
)

func reportConfig(cmd *cobra.Command) (report.ReportConfig, error) {
	rc := report.DefaultReportConfig()
	rc.Title, _ = cmd.Flags().GetString("title")
	if cmd.Flags().Lookup("sections") == nil {
		return rc, nil
	}
	raw, _ := cmd.Flags().GetString("sections")
	if raw == "" {
		return rc, nil
	}
	sections, err := parseSections(raw)
	if err != nil {
		return rc, err
	}
	rc.Sections = sections
	return rc, nil
}

func parseSections(raw string) ([]report.ReportSection, error) {
	known := make(map[report.ReportSection]bool)
	for _, s := range report.AllSections() {
		known[s] = true
	}
	var out []report.ReportSection
	for _, part := range strings.Split(raw, ",") {
		s := report.ReportSection(strings.ToLower(strings.TrimSpace(part)))
		if s == "" {
			continue
		}
		if !known[s] {
			return nil, fmt.Errorf("unknown section %q (want income, balance, cashflow, summary)", s)
		}
		out = append(out, s)
	}
	return out, nil
}

// --- Metrics Command ---

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Compute NPV, IRR, payback, ROI and EBITDA margin",
	Long: `Compute the valuation metrics of a project.

Examples:
  investmodel metrics --params project.yaml
  investmodel metrics --investment 500k --revenues 150k,180k,210k --costs 60k,70k,80k \
      --tax-rate 0.25 --discount-rate 0.1 --depreciation-rate 0.2`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadParams(cmd)
		if err != nil {
			return err
		}
		rc, err := reportConfig(cmd)
		if err != nil {
			return err
		}
		m, err := eng.ComputeMetrics(p)
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), cfg.Output.Format, m, func() (string, error) {
			return report.GenerateMetricsText(m, rc)
		})
	},
}

// --- Scenarios Command ---

var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "Compare best, base and worst case metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadParams(cmd)
		if err != nil {
			return err
		}
		rc, err := reportConfig(cmd)
		if err != nil {
			return err
		}
		a, err := eng.ComputeScenarios(p)
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), cfg.Output.Format, a, func() (string, error) {
			return report.GenerateScenariosText(a, rc)
		})
	},
}

// --- Monte Carlo Command ---

var montecarloCmd = &cobra.Command{
	Use:     "montecarlo",
	Aliases: []string{"mc"},
	Short:   "Run a Monte Carlo simulation of NPV and IRR",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadParams(cmd)
		if err != nil {
			return err
		}
		rc, err := reportConfig(cmd)
		if err != nil {
			return err
		}

		opts := engine.MonteCarloOptions{}
		opts.Iterations, _ = cmd.Flags().GetInt("iterations")
		opts.Workers, _ = cmd.Flags().GetInt("workers")
		if cmd.Flags().Changed("seed") {
			seed, _ := cmd.Flags().GetInt64("seed")
			opts.Seed = &seed
		}
		opts.Progress = progressLogger()

		res, err := eng.RunMonteCarlo(cmd.Context(), p, opts)
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), cfg.Output.Format, res, func() (string, error) {
			return report.GenerateMonteCarloText(res, rc)
		})
	},
}

// progressLogger logs simulation progress at debug level every 10%.
func progressLogger() func(completed, total int) {
	return func(completed, total int) {
		step := total / 10
		if step < 1 {
			step = 1
		}
		if completed%step == 0 {
			logger.Debug("monte carlo progress", zap.Int("completed", completed), zap.Int("total", total))
		}
	}
}

// --- Reports Command ---

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "Generate pro-forma income, balance sheet and cash flow statements",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadParams(cmd)
		if err != nil {
			return err
		}
		rc, err := reportConfig(cmd)
		if err != nil {
			return err
		}
		r, err := eng.GenerateReports(p)
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), cfg.Output.Format, r, func() (string, error) {
			return report.GenerateReportsText(r, rc)
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{metricsCmd, scenariosCmd, montecarloCmd, reportsCmd} {
		addParamFlags(c)
		c.Flags().String("title", "", "report title (text output)")
	}

	montecarloCmd.Flags().Int("iterations", 0, "number of iterations (default from config)")
	montecarloCmd.Flags().Int64("seed", 0, "random seed for a reproducible run")
	montecarloCmd.Flags().Int("workers", 0, "worker goroutines (default from config)")

	reportsCmd.Flags().String("sections", "", "comma-separated sections: income,balance,cashflow,summary")
}
