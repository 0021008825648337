package behavior

import (
	"fmt"
	"math"
	"time"

	"github.com/rustyeddy/liqstress/cashflow"
	"github.com/rustyeddy/liqstress/diag"
	"github.com/rustyeddy/liqstress/pkg/dates"
	"github.com/rustyeddy/liqstress/portfolio"
)

// Action is a scenario-proposed change to one instrument.
type Action string

const (
	Prepay         Action = "prepay"
	ExtendMaturity Action = "extend_maturity"
	NotRollover    Action = "not_rollover"
	Terminate      Action = "terminate"
	MarginCall     Action = "margin_call"
	ExerciseOption Action = "exercise_option"
)

// Impact moves or adds cash for a single position.
type Impact struct {
	PositionID  string     `json:"id" yaml:"id"`
	Action      Action     `json:"action" yaml:"action"`
	Date        time.Time  `json:"date" yaml:"date"`
	Amount      float64    `json:"amount" yaml:"amount"` // positive currency amount
	NewMaturity *time.Time `json:"new_maturity,omitempty" yaml:"new_maturity,omitempty"`
}

// ApplyImpacts adds impact-driven events to the contractual stream. Each
// action books cash on its date and, where it moves existing cash, takes the
// moved amount out of the position's next contractual principal event so
// nothing is counted twice and later overlays only scale what is left.
// Impacts on unknown positions, with non-positive amounts, or with unsupported
// actions are skipped with a warning. Dates before asOf are validation errors.
func ApplyImpacts(pf portfolio.Portfolio, events []cashflow.Event, impacts []Impact, asOf time.Time, horizonDays int) ([]cashflow.Event, []diag.Warning, error) {
	if len(impacts) == 0 {
		return events, nil, nil
	}
	asOf = dates.Day(asOf)

	for i, imp := range impacts {
		if dates.Between(asOf, imp.Date) < 0 {
			return nil, nil, diag.Invalid(imp.PositionID, "impact.date",
				"impact %d dated %s is before as-of", i, imp.Date.Format(dates.Layout))
		}
		if imp.NewMaturity != nil && dates.Between(asOf, *imp.NewMaturity) < 0 {
			return nil, nil, diag.Invalid(imp.PositionID, "impact.new_maturity",
				"impact %d new maturity %s is before as-of", i, imp.NewMaturity.Format(dates.Layout))
		}
	}

	positions := pf.ByID()

	out := append(make([]cashflow.Event, 0, len(events)+2*len(impacts)), events...)
	next := nextPrincipal(out)
	settled := make(map[int]bool)

	var warns []diag.Warning
	skip := func(imp Impact, why string) {
		warns = append(warns, diag.Warning{
			Code:       diag.CodeImpactSkipped,
			PositionID: imp.PositionID,
			Msg:        fmt.Sprintf("%s impact skipped: %s", imp.Action, why),
		})
	}
	book := func(id string, d time.Time, amount float64) {
		if n := dates.Between(asOf, d); n < 0 || n > horizonDays {
			return
		}
		out = append(out, cashflow.Event{
			Date:       dates.Day(d),
			Amount:     amount,
			PositionID: id,
			Kind:       cashflow.Behavioral,
			Leg:        cashflow.Impact,
		})
	}
	// settle shrinks the next principal by up to amount; a negative amount
	// cancels it outright.
	settle := func(id string, amount float64) {
		i, ok := next[id]
		if !ok {
			return
		}
		left := 0.0
		if amount >= 0 {
			left = math.Max(0, math.Abs(out[i].Amount)-amount)
		}
		out[i].Amount = math.Copysign(left, out[i].Amount)
		settled[i] = true
	}

	for _, imp := range impacts {
		p, ok := positions[imp.PositionID]
		switch {
		case !ok:
			skip(imp, "unknown position")
			continue
		case imp.Amount <= 0:
			skip(imp, "amount must be positive")
			continue
		}

		if imp.Action == MarginCall || imp.Action == ExerciseOption {
			book(p.ID, imp.Date, -imp.Amount)
			continue
		}

		switch p.Type.Side() {
		case portfolio.Liability:
			switch imp.Action {
			case Prepay, NotRollover, Terminate:
				book(p.ID, imp.Date, -imp.Amount)
				settle(p.ID, imp.Amount)
			case ExtendMaturity:
				if imp.NewMaturity == nil {
					skip(imp, "new_maturity is required")
					continue
				}
				settle(p.ID, -1)
				book(p.ID, *imp.NewMaturity, -imp.Amount)
			default:
				skip(imp, "unsupported action for a liability")
			}

		case portfolio.Asset:
			switch imp.Action {
			case Prepay, Terminate:
				book(p.ID, imp.Date, imp.Amount)
				settle(p.ID, imp.Amount)
			case ExtendMaturity:
				if imp.NewMaturity == nil {
					skip(imp, "new_maturity is required")
					continue
				}
				settle(p.ID, -1)
				book(p.ID, *imp.NewMaturity, imp.Amount)
			default:
				skip(imp, "unsupported action for an asset")
			}

		default:
			book(p.ID, imp.Date, -imp.Amount)
		}
	}

	kept := out[:0]
	for i, e := range out {
		if settled[i] && e.Amount == 0 {
			continue
		}
		kept = append(kept, e)
	}
	cashflow.SortByDate(kept)
	return kept, warns, nil
}

// nextPrincipal indexes the earliest contractual principal event per position.
func nextPrincipal(events []cashflow.Event) map[string]int {
	out := make(map[string]int)
	for i, e := range events {
		if e.Kind != cashflow.Contractual || e.Leg != cashflow.Principal {
			continue
		}
		if cur, ok := out[e.PositionID]; !ok || e.Date.Before(events[cur].Date) {
			out[e.PositionID] = i
		}
	}
	return out
}
