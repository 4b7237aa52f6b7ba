package valuation

import "math"

// PaybackPeriod returns the (fractional) number of years until cumulative
// cash flow first reaches zero, interpolating linearly inside the crossing
// year. When the outlay is never recovered it returns len(flows).
func PaybackPeriod(flows []float64) float64 {
	cumulative := 0.0
	for i, f := range flows {
		prev := cumulative
		cumulative += f
		if cumulative >= 0 {
			if i == 0 {
				return 0
			}
			return float64(i-1) + math.Abs(prev)/f
		}
	}
	return float64(len(flows))
}
