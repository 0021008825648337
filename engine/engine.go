// Package engine runs one scenario through the liquidity pipeline: validate,
// classify, expand contractual cashflows, apply impacts and behavior, then
// aggregate KPIs. An Engine holds only immutable configuration and is safe for
// concurrent use.
package engine

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rustyeddy/liqstress/behavior"
	"github.com/rustyeddy/liqstress/cashflow"
	"github.com/rustyeddy/liqstress/diag"
	"github.com/rustyeddy/liqstress/hqla"
	"github.com/rustyeddy/liqstress/kpi"
	"github.com/rustyeddy/liqstress/pkg/dates"
	"github.com/rustyeddy/liqstress/portfolio"
)

// DefaultHorizonDays is six months of daily buckets.
const DefaultHorizonDays = 180

// Config is passed by value into every run and never changes afterwards.
type Config struct {
	HorizonDays int
	Haircuts    hqla.Schedule
	KPI         kpi.Params
}

func DefaultConfig() Config {
	return Config{
		HorizonDays: DefaultHorizonDays,
		Haircuts:    hqla.Basel(),
		KPI:         kpi.DefaultParams(),
	}
}

func (c Config) Validate() error {
	if c.HorizonDays <= 0 {
		return &diag.DegenerateInputError{Reason: fmt.Sprintf("horizon_days must be positive, got %d", c.HorizonDays)}
	}
	if err := c.Haircuts.Validate(); err != nil {
		return err
	}
	return c.KPI.Validate()
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for classification and impact warnings.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

type Engine struct {
	cfg Config
	log *zap.Logger
}

// New validates cfg and returns an engine. Without WithLogger the engine logs
// nothing.
func New(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	e := &Engine{cfg: cfg, log: zap.NewNop()}
	for _, o := range opts {
		o(e)
	}
	return e, nil
}

func (e *Engine) Config() Config { return e.cfg }

// Input is everything one scenario run reads. None of it is modified.
type Input struct {
	AsOf      time.Time
	Portfolio portfolio.Portfolio
	Behavior  behavior.ParameterSet // nil means contractual only
	Impacts   []behavior.Impact
}

// Result carries the KPI set and the detail behind it.
type Result struct {
	AsOf            time.Time                       `json:"as_of" yaml:"as_of"`
	HorizonDays     int                             `json:"horizon_days" yaml:"horizon_days"`
	Stock           hqla.Stock                      `json:"hqla_stock" yaml:"hqla_stock"`
	Classifications map[string]hqla.Classification `json:"classifications" yaml:"classifications"`
	Events          []cashflow.Event                `json:"events" yaml:"events"`
	Ladder          kpi.Ladder                      `json:"ladder" yaml:"ladder"`
	KPIs            kpi.Set                         `json:"kpis" yaml:"kpis"`
	Warnings        []diag.Warning                  `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Run executes the pipeline for in. Validation problems return a
// *diag.ValidationError and no KPIs; an empty portfolio returns a
// *diag.DegenerateInputError.
func (e *Engine) Run(in Input) (Result, error) {
	if in.AsOf.IsZero() {
		return Result{}, diag.Invalid("", "as_of", "is required")
	}
	if in.Portfolio.Len() == 0 {
		return Result{}, &diag.DegenerateInputError{Reason: "portfolio has no positions"}
	}
	asOf := dates.Day(in.AsOf)
	h := e.cfg.HorizonDays

	if err := in.Portfolio.Validate(asOf); err != nil {
		return Result{}, err
	}
	if err := in.Behavior.Validate(); err != nil {
		return Result{}, err
	}

	classes, warns := hqla.ClassifyAll(in.Portfolio, e.cfg.Haircuts)
	for _, w := range warns {
		e.log.Warn("position excluded from HQLA",
			zap.String("position_id", w.PositionID),
			zap.String("code", w.Code),
			zap.String("msg", w.Msg),
		)
	}
	stock := hqla.Sum(in.Portfolio, classes, e.cfg.Haircuts)

	events := dropBufferPrincipal(cashflow.ExpandAll(in.Portfolio, asOf, h), classes)

	n := len(warns)
	events, impactWarns, err := behavior.ApplyImpacts(in.Portfolio, events, in.Impacts, asOf, h)
	if err != nil {
		return Result{}, err
	}
	warns = append(warns, impactWarns...)

	events, overlayWarns := behavior.Apply(in.Portfolio, events, in.Behavior, asOf, h)
	warns = append(warns, overlayWarns...)
	for _, w := range warns[n:] {
		e.log.Warn("behavior input ignored",
			zap.String("position_id", w.PositionID),
			zap.String("code", w.Code),
			zap.String("msg", w.Msg),
		)
	}

	set, ladder, err := kpi.Compute(stock.Total(), events, asOf, h, e.cfg.KPI)
	if err != nil {
		return Result{}, err
	}

	e.log.Debug("scenario computed",
		zap.Int("positions", in.Portfolio.Len()),
		zap.Int("events", len(events)),
		zap.Float64("hqla", set.HQLA),
		zap.Float64("lcr", set.LCR),
		zap.Int("survival_days", set.SurvivalDays),
	)

	return Result{
		AsOf:            asOf,
		HorizonDays:     h,
		Stock:           stock,
		Classifications: classes,
		Events:          events,
		Ladder:          ladder,
		KPIs:            set,
		Warnings:        warns,
	}, nil
}

// dropBufferPrincipal removes principal events of HQLA-eligible positions;
// their value already sits in the buffer.
func dropBufferPrincipal(events []cashflow.Event, classes map[string]hqla.Classification) []cashflow.Event {
	out := events[:0:0]
	for _, ev := range events {
		if ev.Leg == cashflow.Principal && classes[ev.PositionID].Eligible() {
			continue
		}
		out = append(out, ev)
	}
	return out
}
