package montecarlo

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/CliffordWilsonK/InvestmentModellingApp/pkg/models"
)

// ════════════════════════════════════════════════════════════════════
// Test Helpers
// ════════════════════════════════════════════════════════════════════

func sampleParams() models.ProjectParameters {
	return models.ProjectParameters{
		InitialInvestment:  500000,
		ProjectTimeline:    5,
		AnnualRevenues:     []float64{150000, 180000, 210000, 240000, 270000},
		OperatingCosts:     []float64{60000, 70000, 80000, 90000, 100000},
		TaxRate:            0.25,
		DiscountRate:       0.10,
		DepreciationRate:   0.20,
		WorkingCapital:     50000,
		TerminalGrowthRate: 0.02,
		TerminalValue:      100000,
	}
}

func seed(v int64) *int64 { return &v }

// ════════════════════════════════════════════════════════════════════
// Run
// ════════════════════════════════════════════════════════════════════

func TestRun_distributionShape(t *testing.T) {
	const n = 500
	res, err := Run(context.Background(), sampleParams(), Options{Iterations: n, Seed: seed(42)})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Iterations != n {
		t.Errorf("Iterations: got %d, want %d", res.Iterations, n)
	}
	if len(res.NPVDistribution) != n {
		t.Errorf("NPVDistribution: got %d samples, want %d", len(res.NPVDistribution), n)
	}
	if len(res.IRRDistribution) != n {
		t.Errorf("IRRDistribution: got %d samples, want %d", len(res.IRRDistribution), n)
	}
	if res.ProbabilityOfPositiveNPV < 0 || res.ProbabilityOfPositiveNPV > 1 {
		t.Errorf("ProbabilityOfPositiveNPV out of range: %f", res.ProbabilityOfPositiveNPV)
	}

	p := res.NPVPercentiles
	if !(p.P10 <= p.P25 && p.P25 <= p.P50 && p.P50 <= p.P75 && p.P75 <= p.P90) {
		t.Errorf("percentiles not monotone: %+v", p)
	}
	if res.NPVMin > p.P10 || res.NPVMax < p.P90 {
		t.Errorf("min/max %.2f/%.2f do not bracket percentiles %+v", res.NPVMin, res.NPVMax, p)
	}
	if res.Seed != 42 {
		t.Errorf("Seed: got %d, want 42", res.Seed)
	}
}

func TestRun_reproducibleAcrossWorkerCounts(t *testing.T) {
	p := sampleParams()
	a, err := Run(context.Background(), p, Options{Iterations: 300, Seed: seed(7), Workers: 1})
	if err != nil {
		t.Fatalf("Run (1 worker): %v", err)
	}
	b, err := Run(context.Background(), p, Options{Iterations: 300, Seed: seed(7), Workers: 7})
	if err != nil {
		t.Fatalf("Run (7 workers): %v", err)
	}
	for i := range a.NPVDistribution {
		if a.NPVDistribution[i] != b.NPVDistribution[i] {
			t.Fatalf("npv[%d]: %f != %f", i, a.NPVDistribution[i], b.NPVDistribution[i])
		}
		if a.IRRDistribution[i] != b.IRRDistribution[i] {
			t.Fatalf("irr[%d]: %f != %f", i, a.IRRDistribution[i], b.IRRDistribution[i])
		}
	}
	if a.NPVPercentiles != b.NPVPercentiles {
		t.Errorf("percentiles differ: %+v vs %+v", a.NPVPercentiles, b.NPVPercentiles)
	}
	if a.ExpectedNPV != b.ExpectedNPV {
		t.Errorf("ExpectedNPV differs: %f vs %f", a.ExpectedNPV, b.ExpectedNPV)
	}
}

func TestRun_differentSeedsDiffer(t *testing.T) {
	p := sampleParams()
	a, _ := Run(context.Background(), p, Options{Iterations: 100, Seed: seed(1)})
	b, _ := Run(context.Background(), p, Options{Iterations: 100, Seed: seed(2)})
	if a.ExpectedNPV == b.ExpectedNPV {
		t.Error("expected different seeds to produce different expected NPV")
	}
}

func TestRun_doesNotMutateParams(t *testing.T) {
	p := sampleParams()
	before := p.Clone()
	if _, err := Run(context.Background(), p, Options{Iterations: 50, Seed: seed(3)}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	for i := range before.AnnualRevenues {
		if p.AnnualRevenues[i] != before.AnnualRevenues[i] || p.OperatingCosts[i] != before.OperatingCosts[i] {
			t.Fatalf("params mutated at year %d", i+1)
		}
	}
	if p.DiscountRate != before.DiscountRate {
		t.Errorf("DiscountRate mutated: %f", p.DiscountRate)
	}
}

func TestRun_defaultIterations(t *testing.T) {
	res, err := Run(context.Background(), sampleParams(), Options{Seed: seed(9)})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Iterations != DefaultIterations || len(res.NPVDistribution) != DefaultIterations {
		t.Errorf("expected %d iterations, got %d", DefaultIterations, res.Iterations)
	}
}

func TestRun_invalidIterations(t *testing.T) {
	for _, n := range []int{-1, MaxIterations + 1} {
		_, err := Run(context.Background(), sampleParams(), Options{Iterations: n})
		if !errors.Is(err, ErrInvalidIterations) {
			t.Errorf("iterations=%d: expected ErrInvalidIterations, got %v", n, err)
		}
		if !errors.Is(err, models.ErrInvalidParameter) {
			t.Errorf("iterations=%d: expected ErrInvalidParameter, got %v", n, err)
		}
	}
}

func TestRun_cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, sampleParams(), Options{Iterations: 1000, Seed: seed(1)})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRun_progressReportsEveryIteration(t *testing.T) {
	const n = 200
	var calls, maxSeen atomic.Int64
	_, err := Run(context.Background(), sampleParams(), Options{
		Iterations: n,
		Seed:       seed(11),
		Workers:    4,
		Progress: func(completed, total int) {
			calls.Add(1)
			if total != n {
				t.Errorf("total: got %d, want %d", total, n)
			}
			for {
				cur := maxSeen.Load()
				if int64(completed) <= cur || maxSeen.CompareAndSwap(cur, int64(completed)) {
					break
				}
			}
		},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if calls.Load() != n {
		t.Errorf("progress calls: got %d, want %d", calls.Load(), n)
	}
	if maxSeen.Load() != n {
		t.Errorf("final completed: got %d, want %d", maxSeen.Load(), n)
	}
}

// ════════════════════════════════════════════════════════════════════
// Sampling
// ════════════════════════════════════════════════════════════════════

func TestDrawSample_withinRanges(t *testing.T) {
	for i := 0; i < 5000; i++ {
		s := DrawSample(IterationRand(123, i))
		if s.RevenueFactor < revenueFactorMin || s.RevenueFactor >= revenueFactorMax {
			t.Fatalf("revenue factor out of range: %f", s.RevenueFactor)
		}
		if s.CostFactor < costFactorMin || s.CostFactor >= costFactorMax {
			t.Fatalf("cost factor out of range: %f", s.CostFactor)
		}
		if s.DiscountFactor < discountFactorMin || s.DiscountFactor >= discountFactorMax {
			t.Fatalf("discount factor out of range: %f", s.DiscountFactor)
		}
	}
}

func TestIterationRand_deterministic(t *testing.T) {
	a := DrawSample(IterationRand(99, 5))
	b := DrawSample(IterationRand(99, 5))
	if a != b {
		t.Errorf("same (seed, index) produced different samples: %+v vs %+v", a, b)
	}
	c := DrawSample(IterationRand(99, 6))
	if a == c {
		t.Error("adjacent indices produced identical samples")
	}
}

func TestSampleApply(t *testing.T) {
	p := sampleParams()
	s := Sample{RevenueFactor: 1.1, CostFactor: 0.9, DiscountFactor: 1.05}
	out := s.Apply(p)
	if out.AnnualRevenues[0] != p.AnnualRevenues[0]*1.1 {
		t.Errorf("revenue: got %f", out.AnnualRevenues[0])
	}
	if out.OperatingCosts[0] != p.OperatingCosts[0]*0.9 {
		t.Errorf("cost: got %f", out.OperatingCosts[0])
	}
	if out.DiscountRate != p.DiscountRate*1.05 {
		t.Errorf("discount rate: got %f", out.DiscountRate)
	}
	if out.InitialInvestment != p.InitialInvestment || out.ProjectTimeline != p.ProjectTimeline {
		t.Error("unperturbed fields changed")
	}
}

// ════════════════════════════════════════════════════════════════════
// Statistics
// ════════════════════════════════════════════════════════════════════

func TestPercentile_discreteIndex(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	tests := []struct {
		q    float64
		want float64
	}{
		{0.10, 2},
		{0.25, 3},
		{0.50, 6},
		{0.75, 8},
		{0.90, 10},
		{1.00, 10},
		{0.00, 1},
	}
	for _, tt := range tests {
		if got := Percentile(sorted, tt.q); got != tt.want {
			t.Errorf("Percentile(q=%.2f): got %f, want %f", tt.q, got, tt.want)
		}
	}
	if got := Percentile(nil, 0.5); got != 0 {
		t.Errorf("Percentile(nil): got %f, want 0", got)
	}
}

func TestSummarize(t *testing.T) {
	npvs := []float64{20, -10, 0, 10}
	res := Summarize(npvs, []float64{0.1, 0.2, 0.3, 0.4})

	if res.ProbabilityOfPositiveNPV != 0.5 {
		t.Errorf("ProbabilityOfPositiveNPV: got %f, want 0.5", res.ProbabilityOfPositiveNPV)
	}
	if res.ExpectedNPV != 5 {
		t.Errorf("ExpectedNPV: got %f, want 5", res.ExpectedNPV)
	}
	if res.NPVMin != -10 || res.NPVMax != 20 {
		t.Errorf("min/max: got %f/%f, want -10/20", res.NPVMin, res.NPVMax)
	}
	// sorted: -10, 0, 10, 20 → p50 = sorted[2]
	if res.NPVPercentiles.P50 != 10 {
		t.Errorf("P50: got %f, want 10", res.NPVPercentiles.P50)
	}
	// distribution keeps iteration order
	if res.NPVDistribution[0] != 20 {
		t.Errorf("distribution reordered: %v", res.NPVDistribution)
	}
}

func TestSummarize_empty(t *testing.T) {
	res := Summarize(nil, nil)
	if res.Iterations != 0 || res.ExpectedNPV != 0 {
		t.Errorf("unexpected summary for empty input: %+v", res)
	}
}
