package models

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
)

func validParams() ProjectParameters {
	return ProjectParameters{
		InitialInvestment:  500000,
		ProjectTimeline:    3,
		AnnualRevenues:     []float64{150000, 180000, 210000},
		OperatingCosts:     []float64{60000, 70000, 80000},
		TaxRate:            0.25,
		DiscountRate:       0.10,
		DepreciationRate:   0.20,
		WorkingCapital:     50000,
		TerminalGrowthRate: 0.02,
		TerminalValue:      100000,
	}
}

// ════════════════════════════════════════════════════════════════════
// Validation
// ════════════════════════════════════════════════════════════════════

func TestValidateAcceptsValid(t *testing.T) {
	if err := validParams().Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	p := validParams()
	p.TaxRate, p.DiscountRate, p.DepreciationRate, p.TerminalGrowthRate = 1, 0, 1, 0.1
	if err := p.Validate(); err != nil {
		t.Errorf("boundary values should be accepted: %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ProjectParameters)
		field  string
		kind   error
	}{
		{"negative investment", func(p *ProjectParameters) { p.InitialInvestment = -1 }, "initial_investment", ErrNegativeAmount},
		{"zero timeline", func(p *ProjectParameters) { p.ProjectTimeline = 0 }, "project_timeline", ErrInvalidTimeline},
		{"timeline above max", func(p *ProjectParameters) { p.ProjectTimeline = MaxProjectTimeline + 1 }, "project_timeline", ErrInvalidTimeline},
		{"huge timeline", func(p *ProjectParameters) { p.ProjectTimeline = 1 << 40 }, "project_timeline", ErrInvalidTimeline},
		{"tax above one", func(p *ProjectParameters) { p.TaxRate = 1.01 }, "tax_rate", ErrRateOutOfDomain},
		{"negative discount", func(p *ProjectParameters) { p.DiscountRate = -0.1 }, "discount_rate", ErrRateOutOfDomain},
		{"depreciation above one", func(p *ProjectParameters) { p.DepreciationRate = 2 }, "depreciation_rate", ErrRateOutOfDomain},
		{"negative working capital", func(p *ProjectParameters) { p.WorkingCapital = -5 }, "working_capital", ErrNegativeAmount},
		{"growth above cap", func(p *ProjectParameters) { p.TerminalGrowthRate = 0.11 }, "terminal_growth_rate", ErrRateOutOfDomain},
		{"negative terminal value", func(p *ProjectParameters) { p.TerminalValue = -1 }, "terminal_value", ErrNegativeAmount},
		{"nan rate", func(p *ProjectParameters) { p.DiscountRate = math.NaN() }, "discount_rate", ErrNonFinite},
		{"inf revenue", func(p *ProjectParameters) { p.AnnualRevenues[1] = math.Inf(1) }, "annual_revenues[1]", ErrNonFinite},
		{"nan cost", func(p *ProjectParameters) { p.OperatingCosts[0] = math.NaN() }, "operating_costs[0]", ErrNonFinite},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams()
			tt.mutate(&p)
			err := p.Validate()
			if !errors.Is(err, ErrInvalidParameter) {
				t.Fatalf("expected ErrInvalidParameter, got %v", err)
			}
			if !errors.Is(err, tt.kind) {
				t.Errorf("expected kind %v, got %v", tt.kind, err)
			}
			var ipe *InvalidParameterError
			if !errors.As(err, &ipe) {
				t.Fatalf("expected *InvalidParameterError, got %T", err)
			}
			if ipe.Field != tt.field {
				t.Errorf("Field: got %q, want %q", ipe.Field, tt.field)
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("message should name the field: %q", err.Error())
			}
		})
	}
}

func TestInvalidParameterErrorWithoutKind(t *testing.T) {
	err := &InvalidParameterError{Field: "x", Value: 1, Reason: "bad"}
	if !errors.Is(err, ErrInvalidParameter) {
		t.Error("expected ErrInvalidParameter")
	}
	if errors.Is(err, ErrNegativeAmount) {
		t.Error("unexpected specific kind")
	}
}

func TestNewProjectParametersCopies(t *testing.T) {
	in := validParams()
	p, err := NewProjectParameters(in)
	if err != nil {
		t.Fatalf("NewProjectParameters: %v", err)
	}
	in.AnnualRevenues[0] = 1
	if p.AnnualRevenues[0] != 150000 {
		t.Error("result shares the caller's revenue slice")
	}

	in.ProjectTimeline = 0
	if _, err := NewProjectParameters(in); !errors.Is(err, ErrInvalidTimeline) {
		t.Errorf("expected ErrInvalidTimeline, got %v", err)
	}
}

// ════════════════════════════════════════════════════════════════════
// Accessors and copies
// ════════════════════════════════════════════════════════════════════

func TestSeriesAccessors(t *testing.T) {
	p := validParams()
	p.ProjectTimeline = 5
	tests := []struct {
		year          int
		revenue, cost float64
	}{
		{0, 0, 0},
		{1, 150000, 60000},
		{3, 210000, 80000},
		{4, 0, 0}, // series shorter than timeline
	}
	for _, tt := range tests {
		if got := p.RevenueAt(tt.year); got != tt.revenue {
			t.Errorf("RevenueAt(%d): got %f, want %f", tt.year, got, tt.revenue)
		}
		if got := p.CostAt(tt.year); got != tt.cost {
			t.Errorf("CostAt(%d): got %f, want %f", tt.year, got, tt.cost)
		}
	}
	if got := p.AnnualDepreciation(); got != 100000 {
		t.Errorf("AnnualDepreciation: got %f, want 100000", got)
	}
}

func TestWithHelpersDoNotMutate(t *testing.T) {
	p := validParams()

	r := p.WithRevenuesScaled(2)
	if r.AnnualRevenues[0] != 300000 || p.AnnualRevenues[0] != 150000 {
		t.Errorf("WithRevenuesScaled: got %f, original %f", r.AnnualRevenues[0], p.AnnualRevenues[0])
	}
	c := p.WithCostsScaled(0.5)
	if c.OperatingCosts[2] != 40000 || p.OperatingCosts[2] != 80000 {
		t.Errorf("WithCostsScaled: got %f, original %f", c.OperatingCosts[2], p.OperatingCosts[2])
	}
	d := p.WithDiscountRate(0.2)
	if d.DiscountRate != 0.2 || p.DiscountRate != 0.1 {
		t.Errorf("WithDiscountRate: got %f, original %f", d.DiscountRate, p.DiscountRate)
	}
}

func TestProjectParametersJSONNames(t *testing.T) {
	data, err := json.Marshal(validParams())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, key := range []string{
		"initial_investment", "project_timeline", "annual_revenues", "operating_costs",
		"tax_rate", "discount_rate", "depreciation_rate", "working_capital",
		"terminal_growth_rate", "terminal_value",
	} {
		if !strings.Contains(string(data), `"`+key+`"`) {
			t.Errorf("missing json key %q", key)
		}
	}
}
