package models

// FinancialMetrics is the valuation record produced for one parameter set.
type FinancialMetrics struct {
	NPV           float64 `json:"npv"                  yaml:"npv"`
	IRR           float64 `json:"irr"                  yaml:"irr"`
	IRRConverged  bool    `json:"irr_converged"        yaml:"irr_converged"`
	IRRReason     string  `json:"irr_reason,omitempty" yaml:"irr_reason,omitempty"` // set when IRRConverged is false
	PaybackPeriod float64 `json:"payback_period"       yaml:"payback_period"`        // years; len(FreeCashFlows) when never reached
	ROI           float64 `json:"roi"                  yaml:"roi"`                   // %
	EBITDAMargin  float64 `json:"ebitda_margin"        yaml:"ebitda_margin"`         // %

	// Index 0 is the initial outlay; index y is project year y.
	FreeCashFlows       []float64 `json:"free_cash_flows"       yaml:"free_cash_flows"`
	CumulativeCashFlows []float64 `json:"cumulative_cash_flows" yaml:"cumulative_cash_flows"`
	PresentValues       []float64 `json:"present_values"        yaml:"present_values"`
}

// ScenarioAnalysis holds metrics for the fixed best/base/worst perturbations.
type ScenarioAnalysis struct {
	BestCase  FinancialMetrics `json:"best_case"  yaml:"best_case"`
	BaseCase  FinancialMetrics `json:"base_case"  yaml:"base_case"`
	WorstCase FinancialMetrics `json:"worst_case" yaml:"worst_case"`
}

// Percentiles are discrete-index order statistics of a sorted sample.
type Percentiles struct {
	P10 float64 `json:"p10" yaml:"p10"`
	P25 float64 `json:"p25" yaml:"p25"`
	P50 float64 `json:"p50" yaml:"p50"`
	P75 float64 `json:"p75" yaml:"p75"`
	P90 float64 `json:"p90" yaml:"p90"`
}

// MonteCarloResult summarises a randomized simulation run.
type MonteCarloResult struct {
	Iterations int   `json:"iterations" yaml:"iterations"`
	Seed       int64 `json:"seed"       yaml:"seed"` // base seed actually used

	// Indexed by iteration number, not sorted.
	NPVDistribution []float64 `json:"npv_distribution" yaml:"npv_distribution"`
	IRRDistribution []float64 `json:"irr_distribution" yaml:"irr_distribution"`

	ProbabilityOfPositiveNPV float64     `json:"probability_of_positive_npv" yaml:"probability_of_positive_npv"`
	ExpectedNPV              float64     `json:"expected_npv"                yaml:"expected_npv"`
	NPVPercentiles           Percentiles `json:"npv_percentiles"             yaml:"npv_percentiles"`
	NPVStdDev                float64     `json:"npv_std_dev"                 yaml:"npv_std_dev"`
	NPVMin                   float64     `json:"npv_min"                     yaml:"npv_min"`
	NPVMax                   float64     `json:"npv_max"                     yaml:"npv_max"`
	IRRNonConverged          int         `json:"irr_non_converged"           yaml:"irr_non_converged"` // iterations whose IRR search did not converge
}
