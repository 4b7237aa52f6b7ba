package valuation

import (
	"math"

	"github.com/CliffordWilsonK/InvestmentModellingApp/pkg/models"
)

// NPV discounts flows at rate, treating index i as period i.
// Rates at or below -1 have no meaning and are rejected.
func NPV(flows []float64, rate float64) (float64, error) {
	if err := checkRate(rate); err != nil {
		return 0, err
	}
	return npvAt(flows, rate), nil
}

// PresentValues returns every flow discounted to period 0 at rate.
// PresentValues(flows, r)[0] is always flows[0].
func PresentValues(flows []float64, rate float64) ([]float64, error) {
	if err := checkRate(rate); err != nil {
		return nil, err
	}
	pv := make([]float64, len(flows))
	for i, f := range flows {
		pv[i] = f / math.Pow(1+rate, float64(i))
	}
	return pv, nil
}

func checkRate(rate float64) error {
	if math.IsNaN(rate) || rate <= -1 {
		return &models.InvalidParameterError{
			Field:  "discount_rate",
			Value:  rate,
			Reason: "must be greater than -1",
			Kind:   models.ErrRateOutOfDomain,
		}
	}
	return nil
}

// npvAt assumes rate > -1.
func npvAt(flows []float64, rate float64) float64 {
	total := 0.0
	for i, f := range flows {
		total += f / math.Pow(1+rate, float64(i))
	}
	return total
}

// npvDerivative is d(NPV)/d(rate).
func npvDerivative(flows []float64, rate float64) float64 {
	total := 0.0
	for i, f := range flows {
		total += -float64(i) * f / math.Pow(1+rate, float64(i+1))
	}
	return total
}
