// Package engine is the validated entry point to the valuation, scenario,
// Monte Carlo and statement calculations. The CLI and the API server both
// go through an Engine so that validation and logging behave the same way.
package engine

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/CliffordWilsonK/InvestmentModellingApp/internal/analysis/montecarlo"
	"github.com/CliffordWilsonK/InvestmentModellingApp/internal/analysis/statements"
	"github.com/CliffordWilsonK/InvestmentModellingApp/internal/analysis/valuation"
	"github.com/CliffordWilsonK/InvestmentModellingApp/internal/config"
	"github.com/CliffordWilsonK/InvestmentModellingApp/pkg/models"
)

// MonteCarloOptions are per-run overrides. Zero values fall back to the
// engine defaults.
type MonteCarloOptions struct {
	Iterations int
	Seed       *int64
	Workers    int
	Progress   montecarlo.ProgressFunc
}

// Config holds configuration for creating an Engine.
type Config struct {
	Defaults config.EngineConfig
	Logger   *zap.Logger
}

// Engine runs calculations on validated parameters. It holds no per-call
// state and is safe for concurrent use.
type Engine struct {
	defaults config.EngineConfig
	log      *zap.Logger
}

// New creates an Engine. A nil logger discards output.
func New(cfg Config) *Engine {
	e := &Engine{defaults: cfg.Defaults, log: cfg.Logger}
	if e.log == nil {
		e.log = zap.NewNop()
	}
	if e.defaults.DefaultIterations <= 0 {
		e.defaults.DefaultIterations = montecarlo.DefaultIterations
	}
	if e.defaults.MaxIterations <= 0 || e.defaults.MaxIterations > montecarlo.MaxIterations {
		e.defaults.MaxIterations = montecarlo.MaxIterations
	}
	return e
}

// ComputeMetrics validates p and returns its valuation metrics.
func (e *Engine) ComputeMetrics(p models.ProjectParameters) (*models.FinancialMetrics, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()
	m, err := valuation.ComputeMetrics(p)
	if err != nil {
		return nil, fmt.Errorf("engine: metrics: %w", err)
	}
	e.warnIRR("metrics", m)
	e.log.Debug("metrics computed",
		zap.Int("timeline", p.ProjectTimeline),
		zap.Float64("npv", m.NPV),
		zap.Float64("irr", m.IRR),
		zap.Duration("elapsed", time.Since(start)),
	)
	return m, nil
}

// ComputeScenarios validates p and returns the best/base/worst analysis.
func (e *Engine) ComputeScenarios(p models.ProjectParameters) (*models.ScenarioAnalysis, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	a, err := valuation.ComputeScenarios(p)
	if err != nil {
		return nil, fmt.Errorf("engine: scenarios: %w", err)
	}
	e.warnIRR(valuation.BestCase.Name, &a.BestCase)
	e.warnIRR(valuation.BaseCase.Name, &a.BaseCase)
	e.warnIRR(valuation.WorstCase.Name, &a.WorstCase)
	e.log.Debug("scenarios computed",
		zap.Float64("best_npv", a.BestCase.NPV),
		zap.Float64("base_npv", a.BaseCase.NPV),
		zap.Float64("worst_npv", a.WorstCase.NPV),
	)
	return a, nil
}

// RunScenario validates p and computes metrics under a custom scenario.
func (e *Engine) RunScenario(p models.ProjectParameters, s valuation.Scenario) (*models.FinancialMetrics, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	m, err := valuation.RunScenario(p, s)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	e.warnIRR(s.Name, m)
	return m, nil
}

// Scenarios lists the fixed scenario definitions.
func (e *Engine) Scenarios() []valuation.Scenario {
	return valuation.Scenarios()
}

// RunMonteCarlo validates p and runs a simulation, honouring ctx
// cancellation between iterations.
func (e *Engine) RunMonteCarlo(ctx context.Context, p models.ProjectParameters, opts MonteCarloOptions) (*models.MonteCarloResult, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	mc := montecarlo.Options{
		Iterations: opts.Iterations,
		Seed:       opts.Seed,
		Workers:    opts.Workers,
		Progress:   opts.Progress,
	}
	if mc.Iterations == 0 {
		mc.Iterations = e.defaults.DefaultIterations
	}
	if mc.Iterations > e.defaults.MaxIterations {
		return nil, &models.InvalidParameterError{
			Field:  "iterations",
			Value:  mc.Iterations,
			Reason: fmt.Sprintf("must be between 1 and %d", e.defaults.MaxIterations),
			Kind:   montecarlo.ErrInvalidIterations,
		}
	}
	if mc.Seed == nil && e.defaults.Seed != 0 {
		seed := e.defaults.Seed
		mc.Seed = &seed
	}
	if mc.Workers == 0 {
		mc.Workers = e.defaults.Workers
	}

	start := time.Now()
	res, err := montecarlo.Run(ctx, p, mc)
	if err != nil {
		return nil, err
	}
	if res.IRRNonConverged > 0 {
		e.log.Warn("irr did not converge in some iterations",
			zap.Int("count", res.IRRNonConverged),
			zap.Int("iterations", res.Iterations),
		)
	}
	e.log.Debug("monte carlo complete",
		zap.Int("iterations", res.Iterations),
		zap.Int64("seed", res.Seed),
		zap.Float64("expected_npv", res.ExpectedNPV),
		zap.Float64("p_positive", res.ProbabilityOfPositiveNPV),
		zap.Duration("elapsed", time.Since(start)),
	)
	return res, nil
}

// GenerateReports validates p and derives the pro-forma statements.
func (e *Engine) GenerateReports(p models.ProjectParameters) (*models.FinancialReports, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	r, err := statements.Generate(p)
	if err != nil {
		return nil, fmt.Errorf("engine: reports: %w", err)
	}
	e.log.Debug("reports generated",
		zap.Int("years", len(r.IncomeStatements)),
		zap.Float64("total_revenue", r.Summary.TotalRevenue),
	)
	return r, nil
}

func (e *Engine) warnIRR(label string, m *models.FinancialMetrics) {
	if m.IRRConverged {
		return
	}
	e.log.Warn("irr did not converge",
		zap.String("case", label),
		zap.String("reason", m.IRRReason),
		zap.Float64("irr", m.IRR),
	)
}
