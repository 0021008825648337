package scenario

import (
	"context"
	"math"

	"github.com/rustyeddy/liqstress/behavior"
	"github.com/rustyeddy/liqstress/portfolio"
)

// Provider resolves macro inputs into concrete behavioral parameters. How the
// numbers are produced (rules, a human, a model) is up to the implementation.
type Provider interface {
	Produce(ctx context.Context, m MacroInputs) (behavior.ParameterSet, error)
}

// StaticProvider hands out a fixed, human-entered parameter set.
type StaticProvider struct {
	Set behavior.ParameterSet
}

func (p StaticProvider) Produce(ctx context.Context, _ MacroInputs) (behavior.ParameterSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p.Set.Clone(), nil
}

// RuleParams are the intermediate stress drivers derived from macro inputs.
// Rates are fractions.
type RuleParams struct {
	DepositRunoff30d float64 `json:"deposit_runoff_30d_pct" yaml:"deposit_runoff_30d_pct"`
	NonRoll30d       float64 `json:"notroll_prob_30d" yaml:"notroll_prob_30d"`
	NonRoll90d       float64 `json:"notroll_prob_90d" yaml:"notroll_prob_90d"`
	MarginFactor     float64 `json:"margin_factor" yaml:"margin_factor"`
	LineDrawdown     float64 `json:"line_drawdown_pct" yaml:"line_drawdown_pct"`
}

// Rules maps macro shocks to stress drivers. Volatility and credit spreads
// push deposit runoff and wholesale non-roll up; volatility and rates push
// margin calls up. Results are clamped, then scaled by severity.
func Rules(m MacroInputs) (RuleParams, error) {
	mult, err := m.Severity.Multiplier()
	if err != nil {
		return RuleParams{}, err
	}
	m = m.withDefaults()

	// percent
	runoff := 0.5 + 0.01*(m.VIX-DefaultVIX) + 0.002*(m.BAASpreadBps-DefaultBAASpreadBps)
	runoff = clamp(runoff*mult, 0.3, 8.0)

	nonRoll := 5 + 0.6*(m.VIX-DefaultVIX) + 0.05*(m.HYSpreadBps-DefaultHYSpreadBps)
	nonRoll = clamp(nonRoll*mult, 5, 60)

	margin := clamp(0.8+0.04*(m.VIX-DefaultVIX)+0.1*(m.US10Y-DefaultUS10Y), 0.5, 3.0) * mult

	return RuleParams{
		DepositRunoff30d: runoff / 100,
		NonRoll30d:       nonRoll / 100,
		NonRoll90d:       math.Min(90, nonRoll*1.5) / 100,
		MarginFactor:     margin,
		LineDrawdown:     math.Min(1, 0.10*mult),
	}, nil
}

// Rule horizons and sizing.
const (
	depositHorizonDays   = 30
	wholesaleHorizonDays = 30
	marginHorizonDays    = 7
	drawdownHorizonDays  = 30
	marginPerFactor      = 0.001
)

// RuleProvider derives parameters with Rules.
type RuleProvider struct{}

func (RuleProvider) Produce(ctx context.Context, m MacroInputs) (behavior.ParameterSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r, err := Rules(m)
	if err != nil {
		return nil, err
	}
	return r.ParameterSet(), nil
}

// ParameterSet spells the drivers out per instrument bucket.
func (r RuleParams) ParameterSet() behavior.ParameterSet {
	ps := behavior.ParameterSet{}

	deposits := behavior.Spec{Rate: r.DepositRunoff30d, HorizonDays: depositHorizonDays, Shape: behavior.Linear}
	for _, t := range []portfolio.InstrumentType{portfolio.RetailDeposit, portfolio.SMEDeposit, portfolio.CorporateDeposit} {
		ps[string(t)] = deposits
	}

	tail := r.NonRoll90d
	wholesale := behavior.Spec{Rate: r.NonRoll30d, HorizonDays: wholesaleHorizonDays, Shape: behavior.Linear, TailRate: &tail}
	for _, t := range []portfolio.InstrumentType{
		portfolio.Repo, portfolio.CommercialPaper, portfolio.CertificateOfDeposit,
		portfolio.InterbankBorrowing, portfolio.FedFunds, portfolio.FedDiscountWindow,
	} {
		ps[string(t)] = wholesale
	}

	margin := behavior.Spec{Rate: math.Min(1, marginPerFactor*r.MarginFactor), HorizonDays: marginHorizonDays, Shape: behavior.Linear}
	for _, t := range []portfolio.InstrumentType{
		portfolio.DerivativeCollateral, portfolio.InterestRateSwap, portfolio.Futures,
		portfolio.FXForward, portfolio.CrossCurrencySwap,
	} {
		ps[string(t)] = margin
	}

	ps[string(portfolio.CommittedLine)] = behavior.Spec{Rate: r.LineDrawdown, HorizonDays: drawdownHorizonDays, Shape: behavior.FrontLoaded}
	return ps
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
