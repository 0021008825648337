// Package kpi turns an adjusted cashflow stream into a daily ladder and the
// liquidity indicators derived from it: LCR, survival days, peak cumulative
// outflow and gap to targets.
package kpi

import (
	"time"

	"github.com/rustyeddy/liqstress/cashflow"
	"github.com/rustyeddy/liqstress/diag"
	"github.com/rustyeddy/liqstress/pkg/dates"
)

// Row is one day of the ladder. Inflow and Outflow are gross and positive.
type Row struct {
	Date              time.Time `json:"date" yaml:"date"`
	Day               int       `json:"day" yaml:"day"`
	Inflow            float64   `json:"inflow" yaml:"inflow"`
	Outflow           float64   `json:"outflow" yaml:"outflow"`
	Net               float64   `json:"net" yaml:"net"`
	CumulativeNet     float64   `json:"cumulative_net" yaml:"cumulative_net"`
	CumulativeOutflow float64   `json:"cumulative_outflow" yaml:"cumulative_outflow"` // max(0, -CumulativeNet)

	cumIn, cumOut float64
}

// Ladder is the dense daily series for day indices 0..H.
type Ladder []Row

// Horizon returns H, the last day index of the ladder.
func (l Ladder) Horizon() int { return len(l) - 1 }

// BuildLadder buckets events by calendar day. Every day from asOf through
// asOf+horizonDays gets a row, including days with no cash. Events after the
// horizon are ignored; events before asOf are a validation error.
func BuildLadder(events []cashflow.Event, asOf time.Time, horizonDays int) (Ladder, error) {
	if horizonDays <= 0 {
		return nil, &diag.DegenerateInputError{Reason: "horizon must be at least one day"}
	}
	asOf = dates.Day(asOf)

	l := make(Ladder, horizonDays+1)
	for d := range l {
		l[d].Date = dates.Add(asOf, d)
		l[d].Day = d
	}

	for _, e := range events {
		d := dates.Between(asOf, e.Date)
		if d < 0 {
			return nil, diag.Invalid(e.PositionID, "cashflow.date",
				"event dated %s is before as-of %s", e.Date.Format(dates.Layout), asOf.Format(dates.Layout))
		}
		if d > horizonDays {
			continue
		}
		if e.Inflow() {
			l[d].Inflow += e.Amount
		} else {
			l[d].Outflow -= e.Amount
		}
	}

	var cumNet, cumIn, cumOut float64
	for d := range l {
		r := &l[d]
		r.Net = r.Inflow - r.Outflow
		cumNet += r.Net
		cumIn += r.Inflow
		cumOut += r.Outflow
		r.CumulativeNet = cumNet
		r.CumulativeOutflow = max(0, -cumNet)
		r.cumIn, r.cumOut = cumIn, cumOut
	}
	return l, nil
}

// PeakCumulativeOutflow is the largest CumulativeOutflow on days 0..through.
func (l Ladder) PeakCumulativeOutflow(through int) float64 {
	var peak float64
	for d := 0; d <= through && d < len(l); d++ {
		peak = max(peak, l[d].CumulativeOutflow)
	}
	return peak
}

// PeakNetOutflow is the LCR-style stressed net outflow over days 0..through:
// max over t of Out(t) - min(In(t), inflowCap*Out(t)), floored at 0, where
// In and Out are cumulative gross flows. inflowCap of 1 gives the plain
// cumulative net outflow.
func (l Ladder) PeakNetOutflow(through int, inflowCap float64) float64 {
	var peak float64
	for d := 0; d <= through && d < len(l); d++ {
		in, out := l[d].cumIn, l[d].cumOut
		peak = max(peak, out-min(in, inflowCap*out))
	}
	return peak
}

// SurvivalDays walks hqla+CumulativeNet forward and returns the first day it
// turns negative, or the horizon when it never does.
func (l Ladder) SurvivalDays(hqla float64) int {
	for _, r := range l {
		if hqla+r.CumulativeNet < 0 {
			return r.Day
		}
	}
	return l.Horizon()
}
