package scenario

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rustyeddy/liqstress/behavior"
	"github.com/rustyeddy/liqstress/diag"
	"github.com/rustyeddy/liqstress/engine"
	"github.com/rustyeddy/liqstress/hqla"
	"github.com/rustyeddy/liqstress/kpi"
	"github.com/rustyeddy/liqstress/metrics"
	"github.com/rustyeddy/liqstress/pkg/dates"
	"github.com/rustyeddy/liqstress/pkg/id"
	"github.com/rustyeddy/liqstress/portfolio"
)

// BaselineName labels the contractual-only run.
const BaselineName = "baseline"

// DefaultConcurrency bounds parallel scenario runs when Runner.Concurrency is 0.
const DefaultConcurrency = 4

// Outcome is the result of one scenario. A failed scenario carries Error and
// no KPIs.
type Outcome struct {
	Name     string                `json:"scenario_name" yaml:"scenario_name"`
	Severity Severity              `json:"severity,omitempty" yaml:"severity,omitempty"`
	Macro    MacroInputs           `json:"macro_shocks" yaml:"macro_shocks"`
	Behavior behavior.ParameterSet `json:"behavior_params,omitempty" yaml:"behavior_params,omitempty"`
	Impacts  []behavior.Impact     `json:"instrument_impacts,omitempty" yaml:"instrument_impacts,omitempty"`

	Stock    hqla.Stock     `json:"hqla_stock" yaml:"hqla_stock"`
	KPIs     kpi.Set        `json:"kpis" yaml:"kpis"`
	Effects  *Effects       `json:"what_it_will_do,omitempty" yaml:"what_it_will_do,omitempty"`
	Warnings []diag.Warning `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Duration time.Duration  `json:"duration_ns" yaml:"duration_ns"`
	Error    string         `json:"error,omitempty" yaml:"error,omitempty"`

	// Ladder is kept for the journal; it is not part of the report document.
	Ladder kpi.Ladder `json:"-" yaml:"-"`

	err error
}

// Err returns the error that stopped the scenario, if any.
func (o Outcome) Err() error { return o.err }

func (o Outcome) OK() bool { return o.err == nil }

// Report is everything one invocation of the runner produced.
type Report struct {
	RunID       string            `json:"run_id" yaml:"run_id"`
	AsOf        time.Time         `json:"as_of" yaml:"as_of"`
	GeneratedAt time.Time         `json:"generated_at" yaml:"generated_at"`
	HorizonDays int               `json:"horizon_days" yaml:"horizon_days"`
	Proxies     portfolio.Proxies `json:"size_proxies" yaml:"size_proxies"`
	Baseline    Outcome           `json:"baseline" yaml:"baseline"`
	Scenarios   []Outcome         `json:"scenarios" yaml:"scenarios"`
}

// Failed returns the scenarios that did not produce KPIs.
func (r Report) Failed() []Outcome {
	var out []Outcome
	for _, o := range r.Scenarios {
		if !o.OK() {
			out = append(out, o)
		}
	}
	return out
}

// Runner runs a baseline and a set of scenarios against one engine.
type Runner struct {
	Engine      *engine.Engine
	Provider    Provider // RuleProvider when nil
	Concurrency int
	Log         *zap.Logger
	Metrics     *metrics.Recorder // optional
}

// Run computes the baseline, then every scenario concurrently. A scenario
// that fails is recorded on its Outcome and does not stop the others; a
// baseline failure or context cancellation fails the whole run.
func (r *Runner) Run(ctx context.Context, asOf time.Time, pf portfolio.Portfolio, scenarios []Scenario) (Report, error) {
	if r.Engine == nil {
		return Report{}, fmt.Errorf("scenario: Engine is required")
	}
	if err := ValidateAll(scenarios); err != nil {
		return Report{}, err
	}
	log := r.Log
	if log == nil {
		log = zap.NewNop()
	}
	provider := r.Provider
	if provider == nil {
		provider = RuleProvider{}
	}
	limit := r.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	rep := Report{
		RunID:       id.New(),
		AsOf:        dates.Day(asOf),
		GeneratedAt: time.Now().UTC(),
		HorizonDays: r.Engine.Config().HorizonDays,
		Proxies:     portfolio.SizeProxies(pf),
	}
	log = log.With(zap.String("run_id", rep.RunID))

	start := time.Now()
	base, err := r.Engine.Run(engine.Input{AsOf: asOf, Portfolio: pf})
	r.observe(BaselineName, "", start, base, err)
	if err != nil {
		return Report{}, fmt.Errorf("baseline: %w", err)
	}
	rep.Baseline = outcome(Scenario{Name: BaselineName}, nil, base, time.Since(start))
	log.Info("baseline computed",
		zap.Float64("hqla", base.KPIs.HQLA),
		zap.Float64("lcr", base.KPIs.LCR),
		zap.Int("survival_days", base.KPIs.SurvivalDays),
	)

	rep.Scenarios = make([]Outcome, len(scenarios))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, s := range scenarios {
		i, s := i, s
		g.Go(func() error {
			rep.Scenarios[i] = r.runOne(gctx, log, asOf, pf, s, base, provider)
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}
	return rep, nil
}

func (r *Runner) runOne(ctx context.Context, log *zap.Logger, asOf time.Time, pf portfolio.Portfolio, s Scenario, base engine.Result, provider Provider) Outcome {
	log = log.With(zap.String("scenario", s.Name), zap.String("severity", string(s.Severity)))
	log.Info("scenario started")
	start := time.Now()

	fail := func(err error) Outcome {
		r.observe(s.Name, s.Severity, start, engine.Result{}, err)
		log.Error("scenario failed", zap.Error(err))
		out := outcome(s, nil, engine.Result{}, time.Since(start))
		out.Error = err.Error()
		out.err = err
		return out
	}

	params := s.Behavior.Clone()
	if params == nil {
		var err error
		if params, err = provider.Produce(ctx, s.MacroInputs()); err != nil {
			return fail(fmt.Errorf("produce behavior: %w", err))
		}
	}
	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	res, err := r.Engine.Run(engine.Input{AsOf: asOf, Portfolio: pf, Behavior: params, Impacts: s.Impacts})
	if err != nil {
		return fail(err)
	}
	r.observe(s.Name, s.Severity, start, res, nil)

	eff := ComputeEffects(base, res)
	out := outcome(s, params, res, time.Since(start))
	out.Effects = &eff
	log.Info("scenario finished",
		zap.Float64("lcr", res.KPIs.LCR),
		zap.Int("survival_days", res.KPIs.SurvivalDays),
		zap.String("binding_metric", res.KPIs.Gaps.BindingMetric),
		zap.Int("warnings", len(res.Warnings)),
	)
	return out
}

func outcome(s Scenario, params behavior.ParameterSet, res engine.Result, d time.Duration) Outcome {
	return Outcome{
		Name:     s.Name,
		Severity: s.Severity,
		Macro:    s.Macro,
		Behavior: params,
		Impacts:  s.Impacts,
		Stock:    res.Stock,
		KPIs:     res.KPIs,
		Warnings: res.Warnings,
		Duration: d,
		Ladder:   res.Ladder,
	}
}

func (r *Runner) observe(name string, sev Severity, start time.Time, res engine.Result, err error) {
	var unclassified int
	for _, w := range res.Warnings {
		if w.Code == diag.CodeUnclassified {
			unclassified++
		}
	}
	r.Metrics.ObserveScenario(metrics.Observation{
		Scenario:     name,
		Severity:     string(sev),
		Err:          err,
		Duration:     time.Since(start),
		LCR:          res.KPIs.LCR,
		LCRUnbounded: res.KPIs.LCRUnbounded,
		SurvivalDays: res.KPIs.SurvivalDays,
		Unclassified: unclassified,
	})
}
