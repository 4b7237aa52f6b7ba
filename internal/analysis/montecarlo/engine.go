// Package montecarlo estimates the NPV/IRR distribution of a project by
// re-running the valuation pipeline over randomly perturbed parameters.
//
// Every iteration owns its own generator seeded from (base seed, iteration
// index), so a run is reproducible for a given seed no matter how many
// workers it is spread across.
package montecarlo

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/CliffordWilsonK/InvestmentModellingApp/internal/analysis/valuation"
	"github.com/CliffordWilsonK/InvestmentModellingApp/pkg/models"
)

const (
	DefaultIterations = 1000
	MaxIterations     = 100000
)

// ErrInvalidIterations is the Kind of the error returned for an iteration
// count outside [1, MaxIterations].
var ErrInvalidIterations = errors.New("montecarlo: iterations out of range")

// ProgressFunc is called after each completed iteration. It may be called
// from several goroutines at once.
type ProgressFunc func(completed, total int)

// Options controls a simulation run.
type Options struct {
	Iterations int          // 0 means DefaultIterations
	Seed       *int64       // nil draws a fresh base seed
	Workers    int          // 0 means GOMAXPROCS
	Progress   ProgressFunc // optional
}

// Run simulates opts.Iterations perturbed projects and summarises the
// resulting NPV distribution. Cancelling ctx stops all workers before their
// next iteration and Run returns ctx.Err().
func Run(ctx context.Context, p models.ProjectParameters, opts Options) (*models.MonteCarloResult, error) {
	n := opts.Iterations
	if n == 0 {
		n = DefaultIterations
	}
	if n < 1 || n > MaxIterations {
		return nil, &models.InvalidParameterError{
			Field:  "iterations",
			Value:  n,
			Reason: fmt.Sprintf("must be between 1 and %d", MaxIterations),
			Kind:   ErrInvalidIterations,
		}
	}

	seed := rand.Int64()
	if opts.Seed != nil {
		seed = *opts.Seed
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > n {
		workers = n
	}

	npvs := make([]float64, n)
	irrs := make([]float64, n)
	converged := make([]bool, n)
	var completed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			// Strided so each worker touches a disjoint set of indices.
			for i := w; i < n; i += workers {
				if err := gctx.Err(); err != nil {
					return err
				}

				s := DrawSample(IterationRand(seed, i))
				m, err := valuation.ComputeMetrics(s.Apply(p))
				if err != nil {
					return fmt.Errorf("montecarlo: iteration %d: %w", i, err)
				}
				npvs[i] = m.NPV
				irrs[i] = m.IRR
				converged[i] = m.IRRConverged

				done := completed.Add(1)
				if opts.Progress != nil {
					opts.Progress(int(done), n)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := Summarize(npvs, irrs)
	summary.Seed = seed
	for _, ok := range converged {
		if !ok {
			summary.IRRNonConverged++
		}
	}
	return &summary, nil
}

// IterationRand returns the generator for iteration i of a run seeded with
// base. PCG takes both words directly, so no shared stream is involved.
func IterationRand(base int64, i int) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(base), mix(uint64(i))))
}

// mix is the SplitMix64 finalizer; it spreads consecutive indices across
// the PCG sequence space.
func mix(z uint64) uint64 {
	z += 0x9E3779B97F4A7C15
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}
