// Package behavior overlays scenario assumptions (deposit runoff, wholesale
// non-roll, line drawdowns, collateral calls) onto contractual cashflows.
package behavior

import (
	"fmt"
	"math"
	"sort"

	"github.com/rustyeddy/liqstress/diag"
	"github.com/rustyeddy/liqstress/portfolio"
)

// Shape controls how a synthetic amount is spread over a spec's horizon.
type Shape string

const (
	Immediate   Shape = "immediate"
	Linear      Shape = "linear"
	FrontLoaded Shape = "front_loaded"
)

// Share of a front-loaded amount that leaves in the first third of the horizon.
const frontLoadedShare = 0.60

// Spec is the runoff or non-roll assumption for one instrument bucket.
type Spec struct {
	Rate        float64 `json:"rate" yaml:"rate"`                 // fraction in [0,1]
	HorizonDays int     `json:"horizon_days" yaml:"horizon_days"` // window the rate applies over
	Shape       Shape   `json:"shape" yaml:"shape"`

	// TailRate, when set, is the non-roll rate for maturities after HorizonDays.
	TailRate *float64 `json:"tail_rate,omitempty" yaml:"tail_rate,omitempty"`
}

// rateOn returns the rate that applies to an event on day index d.
func (s Spec) rateOn(d int) float64 {
	if s.TailRate != nil && d > s.HorizonDays {
		return *s.TailRate
	}
	return s.Rate
}

func (s Spec) validate(key string) error {
	if math.IsNaN(s.Rate) || s.Rate < 0 || s.Rate > 1 {
		return diag.Invalid("", "behavior["+key+"].rate", "must be in [0,1], got %v", s.Rate)
	}
	if s.HorizonDays < 1 {
		return diag.Invalid("", "behavior["+key+"].horizon_days", "must be >= 1, got %d", s.HorizonDays)
	}
	switch s.Shape {
	case Immediate, Linear, FrontLoaded:
	default:
		return diag.Invalid("", "behavior["+key+"].shape", "unknown shape %q", s.Shape)
	}
	if tr := s.TailRate; tr != nil && (math.IsNaN(*tr) || *tr < 0 || *tr > 1) {
		return diag.Invalid("", "behavior["+key+"].tail_rate", "must be in [0,1], got %v", *tr)
	}
	return nil
}

// ParameterSet maps an instrument bucket to its assumption. Keys are either
// "<instrument_type>" or the finer "<instrument_type>/<counterparty_type>".
// A nil or empty set means contractual cashflows only.
type ParameterSet map[string]Spec

// Key builds the finer bucket key.
func Key(t portfolio.InstrumentType, c portfolio.CounterpartyType) string {
	if c == "" {
		return string(t)
	}
	return fmt.Sprintf("%s/%s", t, c)
}

// Lookup finds the spec for p, preferring the counterparty-specific key.
func (ps ParameterSet) Lookup(p portfolio.Position) (Spec, bool) {
	if p.Counterparty != "" {
		if s, ok := ps[Key(p.Type, p.Counterparty)]; ok {
			return s, true
		}
	}
	s, ok := ps[string(p.Type)]
	return s, ok
}

// Validate checks every spec. Keys are visited in sorted order so the same
// set always reports the same first error.
func (ps ParameterSet) Validate() error {
	keys := make([]string, 0, len(ps))
	for k := range ps {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := ps[k].validate(k); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns an independent copy.
func (ps ParameterSet) Clone() ParameterSet {
	if ps == nil {
		return nil
	}
	out := make(ParameterSet, len(ps))
	for k, s := range ps {
		if s.TailRate != nil {
			tr := *s.TailRate
			s.TailRate = &tr
		}
		out[k] = s
	}
	return out
}

// distribute spreads amount over day indices starting at 1. The result's
// element i is the amount for day i+1.
func distribute(amount float64, horizon int, shape Shape) []float64 {
	if horizon < 1 {
		horizon = 1
	}
	switch shape {
	case Immediate:
		return []float64{amount}

	case FrontLoaded:
		if horizon >= 3 {
			k := (horizon + 2) / 3
			out := make([]float64, horizon)
			for i := 0; i < k; i++ {
				out[i] = frontLoadedShare * amount / float64(k)
			}
			for i := k; i < horizon; i++ {
				out[i] = (1 - frontLoadedShare) * amount / float64(horizon-k)
			}
			return out
		}
		fallthrough

	default:
		out := make([]float64, horizon)
		for i := range out {
			out[i] = amount / float64(horizon)
		}
		return out
	}
}
