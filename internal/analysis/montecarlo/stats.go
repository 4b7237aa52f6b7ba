package montecarlo

import (
	"math"
	"sort"

	"github.com/CliffordWilsonK/InvestmentModellingApp/pkg/models"
)

// Summarize builds the distribution summary for a set of NPV and IRR
// samples. The input slices are kept as the distributions; percentiles are
// taken from a sorted copy.
func Summarize(npvs, irrs []float64) models.MonteCarloResult {
	res := models.MonteCarloResult{
		Iterations:      len(npvs),
		NPVDistribution: npvs,
		IRRDistribution: irrs,
	}
	if len(npvs) == 0 {
		return res
	}

	sorted := make([]float64, len(npvs))
	copy(sorted, npvs)
	sort.Float64s(sorted)

	res.NPVPercentiles = models.Percentiles{
		P10: Percentile(sorted, 0.10),
		P25: Percentile(sorted, 0.25),
		P50: Percentile(sorted, 0.50),
		P75: Percentile(sorted, 0.75),
		P90: Percentile(sorted, 0.90),
	}

	positive := 0
	for _, v := range npvs {
		if v > 0 {
			positive++
		}
	}
	res.ProbabilityOfPositiveNPV = float64(positive) / float64(len(npvs))
	res.ExpectedNPV = mean(npvs)
	res.NPVStdDev = stddev(npvs)
	res.NPVMin = sorted[0]
	res.NPVMax = sorted[len(sorted)-1]
	return res
}

// Percentile returns sorted[floor(len*q)] without interpolation. The index
// is clamped to the last element so q=1 is safe. sorted must be ascending.
func Percentile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(math.Floor(float64(len(sorted)) * q))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range data {
		sum += v
	}
	return sum / float64(len(data))
}

func stddev(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	m := mean(data)
	sumSq := 0.0
	for _, v := range data {
		d := v - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(data)-1)) // sample stddev
}
