package models

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Parameter validation errors. Every *InvalidParameterError matches
// ErrInvalidParameter plus exactly one of the more specific kinds.
var (
	ErrInvalidParameter = errors.New("models: invalid parameter")
	ErrInvalidTimeline  = errors.New("models: project timeline must be between 1 and 1000 years")
	ErrRateOutOfDomain  = errors.New("models: rate outside its documented domain")
	ErrNegativeAmount   = errors.New("models: amount must not be negative")
	ErrNonFinite        = errors.New("models: value is not a finite number")
)

// MaxProjectTimeline bounds the per-year cash flow schedule.
const MaxProjectTimeline = 1000

// InvalidParameterError reports a single out-of-domain project parameter.
type InvalidParameterError struct {
	Field  string // json name, e.g. "discount_rate"
	Value  any
	Reason string
	Kind   error // one of the Err* kinds above
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("models: invalid parameter %s=%v: %s", e.Field, e.Value, e.Reason)
}

// Unwrap lets errors.Is match both ErrInvalidParameter and the specific kind.
func (e *InvalidParameterError) Unwrap() []error {
	if e.Kind == nil {
		return []error{ErrInvalidParameter}
	}
	return []error{ErrInvalidParameter, e.Kind}
}

// ProjectParameters is the complete input to every engine calculation.
// Treat values as immutable: the With* helpers return deep copies.
type ProjectParameters struct {
	InitialInvestment  float64   `json:"initial_investment"   yaml:"initial_investment"   validate:"gte=0"`
	ProjectTimeline    int       `json:"project_timeline"     yaml:"project_timeline"     validate:"gte=1,lte=1000"`
	AnnualRevenues     []float64 `json:"annual_revenues"      yaml:"annual_revenues"`
	OperatingCosts     []float64 `json:"operating_costs"      yaml:"operating_costs"`
	TaxRate            float64   `json:"tax_rate"             yaml:"tax_rate"             validate:"gte=0,lte=1"`
	DiscountRate       float64   `json:"discount_rate"        yaml:"discount_rate"        validate:"gte=0,lte=1"`
	DepreciationRate   float64   `json:"depreciation_rate"    yaml:"depreciation_rate"    validate:"gte=0,lte=1"`
	WorkingCapital     float64   `json:"working_capital"      yaml:"working_capital"      validate:"gte=0"`
	TerminalGrowthRate float64   `json:"terminal_growth_rate" yaml:"terminal_growth_rate" validate:"gte=0,lte=0.1"`
	TerminalValue      float64   `json:"terminal_value"       yaml:"terminal_value"       validate:"gte=0"`
}

// fieldKinds maps a json field name to the error kind its tag failure reports.
var fieldKinds = map[string]error{
	"initial_investment":   ErrNegativeAmount,
	"project_timeline":     ErrInvalidTimeline,
	"tax_rate":             ErrRateOutOfDomain,
	"discount_rate":        ErrRateOutOfDomain,
	"depreciation_rate":    ErrRateOutOfDomain,
	"working_capital":      ErrNegativeAmount,
	"terminal_growth_rate": ErrRateOutOfDomain,
	"terminal_value":       ErrNegativeAmount,
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// NewProjectParameters validates p and returns a copy that shares no
// slices with the caller.
func NewProjectParameters(p ProjectParameters) (ProjectParameters, error) {
	if err := p.Validate(); err != nil {
		return ProjectParameters{}, err
	}
	return p.Clone(), nil
}

// Validate checks every field against its documented domain and returns
// the first violation as an *InvalidParameterError.
func (p ProjectParameters) Validate() error {
	scalars := []struct {
		name string
		v    float64
	}{
		{"initial_investment", p.InitialInvestment},
		{"tax_rate", p.TaxRate},
		{"discount_rate", p.DiscountRate},
		{"depreciation_rate", p.DepreciationRate},
		{"working_capital", p.WorkingCapital},
		{"terminal_growth_rate", p.TerminalGrowthRate},
		{"terminal_value", p.TerminalValue},
	}
	for _, s := range scalars {
		if !isFinite(s.v) {
			return &InvalidParameterError{Field: s.name, Value: s.v, Reason: "must be a finite number", Kind: ErrNonFinite}
		}
	}
	if err := checkSeries("annual_revenues", p.AnnualRevenues); err != nil {
		return err
	}
	if err := checkSeries("operating_costs", p.OperatingCosts); err != nil {
		return err
	}

	err := validate.Struct(p)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("models: validate parameters: %w", err)
	}
	fe := verrs[0]
	return &InvalidParameterError{
		Field:  fe.Field(),
		Value:  fe.Value(),
		Reason: describeTag(fe.Tag(), fe.Param()),
		Kind:   fieldKinds[fe.Field()],
	}
}

func checkSeries(name string, series []float64) error {
	for i, v := range series {
		if !isFinite(v) {
			return &InvalidParameterError{
				Field:  fmt.Sprintf("%s[%d]", name, i),
				Value:  v,
				Reason: "must be a finite number",
				Kind:   ErrNonFinite,
			}
		}
	}
	return nil
}

func describeTag(tag, param string) string {
	switch tag {
	case "gte":
		return "must be >= " + param
	case "lte":
		return "must be <= " + param
	default:
		return "failed " + tag + " check"
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// RevenueAt returns the revenue of project year (1-based), or 0 when
// the revenue series is shorter than the timeline.
func (p ProjectParameters) RevenueAt(year int) float64 {
	return valueAt(p.AnnualRevenues, year-1)
}

// CostAt returns the operating cost of project year (1-based), or 0
// when the cost series is shorter than the timeline.
func (p ProjectParameters) CostAt(year int) float64 {
	return valueAt(p.OperatingCosts, year-1)
}

func valueAt(series []float64, i int) float64 {
	if i < 0 || i >= len(series) {
		return 0
	}
	return series[i]
}

// AnnualDepreciation is the flat straight-line charge on the original basis.
func (p ProjectParameters) AnnualDepreciation() float64 {
	return p.InitialInvestment * p.DepreciationRate
}

// Clone returns a deep copy of p.
func (p ProjectParameters) Clone() ProjectParameters {
	c := p
	c.AnnualRevenues = append([]float64(nil), p.AnnualRevenues...)
	c.OperatingCosts = append([]float64(nil), p.OperatingCosts...)
	return c
}

// WithRevenuesScaled returns a copy with every revenue multiplied by factor.
func (p ProjectParameters) WithRevenuesScaled(factor float64) ProjectParameters {
	c := p.Clone()
	for i := range c.AnnualRevenues {
		c.AnnualRevenues[i] *= factor
	}
	return c
}

// WithCostsScaled returns a copy with every operating cost multiplied by factor.
func (p ProjectParameters) WithCostsScaled(factor float64) ProjectParameters {
	c := p.Clone()
	for i := range c.OperatingCosts {
		c.OperatingCosts[i] *= factor
	}
	return c
}

// WithDiscountRate returns a copy using rate as the discount rate.
func (p ProjectParameters) WithDiscountRate(rate float64) ProjectParameters {
	c := p.Clone()
	c.DiscountRate = rate
	return c
}
