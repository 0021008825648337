// Package cashflow defines dated cashflow events and expands positions into
// their contractual schedules.
package cashflow

import (
	"sort"
	"time"
)

// Kind separates scheduled cash from modeled behavior.
type Kind string

const (
	Contractual Kind = "contractual"
	Behavioral  Kind = "behavioral"
)

// Leg names what produced an event.
type Leg string

const (
	Principal      Leg = "principal"
	Interest       Leg = "interest"
	Runoff         Leg = "runoff"
	NonRoll        Leg = "non_roll"
	Drawdown       Leg = "drawdown"
	CollateralCall Leg = "collateral_call"
	ReducedInflow  Leg = "reduced_inflow"
	Impact         Leg = "impact"
)

// Event is one dated cash movement. Amount is signed: positive is an inflow,
// negative an outflow.
type Event struct {
	Date       time.Time `json:"date" yaml:"date"`
	Amount     float64   `json:"amount" yaml:"amount"`
	PositionID string    `json:"position_id" yaml:"position_id"`
	Kind       Kind      `json:"kind" yaml:"kind"`
	Leg        Leg       `json:"leg" yaml:"leg"`
}

// Inflow reports whether e brings cash in.
func (e Event) Inflow() bool { return e.Amount > 0 }

// SortByDate orders events by date, keeping the relative order of events that
// share a date.
func SortByDate(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date.Before(events[j].Date)
	})
}

// Totals sums gross inflows and outflows (outflows returned positive).
func Totals(events []Event) (in, out float64) {
	for _, e := range events {
		if e.Amount >= 0 {
			in += e.Amount
		} else {
			out -= e.Amount
		}
	}
	return in, out
}

// ByPosition groups events by source position, preserving order.
func ByPosition(events []Event) map[string][]Event {
	out := make(map[string][]Event)
	for _, e := range events {
		out[e.PositionID] = append(out[e.PositionID], e)
	}
	return out
}
