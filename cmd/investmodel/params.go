package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/CliffordWilsonK/InvestmentModellingApp/pkg/models"
	"github.com/CliffordWilsonK/InvestmentModellingApp/pkg/utils"
)

// addParamFlags registers the project parameter flags on cmd. Amount
// flags accept k/m/b suffixes ("500k", "1.2m").
func addParamFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("params", "", "parameter file (YAML or JSON)")
	f.String("investment", "", "initial investment")
	f.Int("timeline", 0, "project timeline in years (default: number of revenues)")
	f.String("revenues", "", "comma-separated annual revenues")
	f.String("costs", "", "comma-separated annual operating costs")
	f.Float64("tax-rate", 0, "tax rate as a fraction (0.25 = 25%)")
	f.Float64("discount-rate", 0, "discount rate as a fraction")
	f.Float64("depreciation-rate", 0, "straight-line depreciation rate as a fraction")
	f.String("working-capital", "", "working capital tied up in year 1")
	f.Float64("terminal-growth", 0, "terminal growth rate as a fraction (max 0.1)")
	f.String("terminal-value", "", "terminal value base amount")
}

// loadParams builds ProjectParameters from --params and then applies any
// explicitly set flags on top.
func loadParams(cmd *cobra.Command) (models.ProjectParameters, error) {
	var p models.ProjectParameters
	f := cmd.Flags()

	if path, _ := f.GetString("params"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return p, fmt.Errorf("read params: %w", err)
		}
		if err := yaml.Unmarshal(data, &p); err != nil {
			return p, fmt.Errorf("parse params %s: %w", path, err)
		}
	}

	amounts := []struct {
		flag string
		dst  *float64
	}{
		{"investment", &p.InitialInvestment},
		{"working-capital", &p.WorkingCapital},
		{"terminal-value", &p.TerminalValue},
	}
	for _, a := range amounts {
		if !f.Changed(a.flag) {
			continue
		}
		s, _ := f.GetString(a.flag)
		v, err := utils.ParseAmount(s)
		if err != nil {
			return p, fmt.Errorf("--%s: %w", a.flag, err)
		}
		*a.dst = v
	}

	series := []struct {
		flag string
		dst  *[]float64
	}{
		{"revenues", &p.AnnualRevenues},
		{"costs", &p.OperatingCosts},
	}
	for _, s := range series {
		if !f.Changed(s.flag) {
			continue
		}
		raw, _ := f.GetString(s.flag)
		v, err := utils.ParseFloatList(raw)
		if err != nil {
			return p, fmt.Errorf("--%s: %w", s.flag, err)
		}
		*s.dst = v
	}

	rates := []struct {
		flag string
		dst  *float64
	}{
		{"tax-rate", &p.TaxRate},
		{"discount-rate", &p.DiscountRate},
		{"depreciation-rate", &p.DepreciationRate},
		{"terminal-growth", &p.TerminalGrowthRate},
	}
	for _, r := range rates {
		if f.Changed(r.flag) {
			*r.dst, _ = f.GetFloat64(r.flag)
		}
	}

	if f.Changed("timeline") {
		p.ProjectTimeline, _ = f.GetInt("timeline")
	} else if p.ProjectTimeline == 0 {
		p.ProjectTimeline = len(p.AnnualRevenues)
	}

	return models.NewProjectParameters(p)
}
