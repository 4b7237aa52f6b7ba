package valuation

import "math"

const (
	irrInitialGuess  = 0.10
	irrMaxIterations = 100
	irrTolerance     = 1e-7
)

// Reasons attached to a non-converged IRRResult.
const (
	ReasonDerivativeUnderflow = "derivative underflow"
	ReasonMaxIterations       = "max iterations"
	ReasonRateDomain          = "rate domain"
)

// IRRResult is the outcome of the Newton-Raphson IRR search. Rate is always
// populated; Converged is false when the search stopped for any reason
// other than the step size falling below tolerance.
type IRRResult struct {
	Rate       float64 `json:"rate"`
	Converged  bool    `json:"converged"`
	Iterations int     `json:"iterations"`
	Reason     string  `json:"reason,omitempty"`
}

// SolveIRR searches for the rate that zeroes NPV, starting at 10%.
//
// There is no bracketing fallback. Cash flows with several sign changes may
// land on a non-physical root or stop wherever the iteration budget runs out;
// callers that care should check Converged.
func SolveIRR(flows []float64) IRRResult {
	rate := irrInitialGuess
	for i := 0; i < irrMaxIterations; i++ {
		f := npvAt(flows, rate)
		df := npvDerivative(flows, rate)
		if math.Abs(df) < irrTolerance {
			return IRRResult{Rate: rate, Iterations: i, Reason: ReasonDerivativeUnderflow}
		}

		next := rate - f/df

		// The next iterate would leave the domain where (1+r)^i is defined.
		if math.IsNaN(next) || math.IsInf(next, 0) || next <= -1 {
			return IRRResult{Rate: rate, Iterations: i + 1, Reason: ReasonRateDomain}
		}
		if math.Abs(next-rate) < irrTolerance {
			return IRRResult{Rate: next, Converged: true, Iterations: i + 1}
		}
		rate = next
	}
	return IRRResult{Rate: rate, Iterations: irrMaxIterations, Reason: ReasonMaxIterations}
}

// IRR returns the best-effort internal rate of return of flows.
func IRR(flows []float64) float64 {
	return SolveIRR(flows).Rate
}
