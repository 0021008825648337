package kpi

import (
	"fmt"
	"math"
	"time"

	"github.com/rustyeddy/liqstress/cashflow"
)

// DefaultInflowCap is the Basel share of outflows that inflows may offset.
const DefaultInflowCap = 0.75

// Params fixes the aggregation windows and targets for one computation.
type Params struct {
	LCRWindowDays int     // regulatory window; days 0..min(LCRWindowDays, H)
	InflowCap     float64 // in [0,1]
	Targets       Targets
}

// DefaultParams is a 30-day window with the 75% inflow cap.
func DefaultParams() Params {
	return Params{LCRWindowDays: 30, InflowCap: DefaultInflowCap, Targets: DefaultTargets()}
}

func (p Params) Validate() error {
	if p.LCRWindowDays < 1 {
		return fmt.Errorf("kpi: lcr window must be >= 1 day, got %d", p.LCRWindowDays)
	}
	if math.IsNaN(p.InflowCap) || p.InflowCap < 0 || p.InflowCap > 1 {
		return fmt.Errorf("kpi: inflow cap must be in [0,1], got %v", p.InflowCap)
	}
	return p.Targets.Validate()
}

// Set is the KPI output of one scenario run.
type Set struct {
	HQLA                  float64 `json:"hqla" yaml:"hqla"`
	LCR                   float64 `json:"lcr" yaml:"lcr"`
	LCRUnbounded          bool    `json:"lcr_unbounded" yaml:"lcr_unbounded"`
	PeakOutflow30d        float64 `json:"peak_outflow_30d" yaml:"peak_outflow_30d"`
	PeakCumulativeOutflow float64 `json:"peak_cumulative_outflow" yaml:"peak_cumulative_outflow"`
	SurvivalDays          int     `json:"survival_days" yaml:"survival_days"`
	HorizonDays           int     `json:"horizon_days" yaml:"horizon_days"`
	Gaps                  Gaps    `json:"gap_to_targets" yaml:"gap_to_targets"`
}

// LCR divides hqla by the window outflow. A non-positive denominator means
// no stress: the ratio is reported as math.MaxFloat64 and unbounded is true.
func LCR(hqla, peakOutflow30d float64) (lcr float64, unbounded bool) {
	if peakOutflow30d <= 0 {
		return math.MaxFloat64, true
	}
	return hqla / peakOutflow30d, false
}

// Compute builds the ladder for events and derives the KPI set.
func Compute(hqlaTotal float64, events []cashflow.Event, asOf time.Time, horizonDays int, p Params) (Set, Ladder, error) {
	if err := p.Validate(); err != nil {
		return Set{}, nil, err
	}
	if math.IsNaN(hqlaTotal) || math.IsInf(hqlaTotal, 0) || hqlaTotal < 0 {
		return Set{}, nil, fmt.Errorf("kpi: hqla total must be finite and >= 0, got %v", hqlaTotal)
	}

	l, err := BuildLadder(events, asOf, horizonDays)
	if err != nil {
		return Set{}, nil, err
	}

	window := min(p.LCRWindowDays, horizonDays)
	s := Set{
		HQLA:                  hqlaTotal,
		PeakOutflow30d:        l.PeakNetOutflow(window, p.InflowCap),
		PeakCumulativeOutflow: l.PeakCumulativeOutflow(horizonDays),
		SurvivalDays:          l.SurvivalDays(hqlaTotal),
		HorizonDays:           horizonDays,
	}
	s.LCR, s.LCRUnbounded = LCR(hqlaTotal, s.PeakOutflow30d)
	s.Gaps = GapToTargets(s, p.Targets)
	return s, l, nil
}
