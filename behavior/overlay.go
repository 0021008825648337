package behavior

import (
	"fmt"
	"time"

	"github.com/rustyeddy/liqstress/cashflow"
	"github.com/rustyeddy/liqstress/diag"
	"github.com/rustyeddy/liqstress/pkg/dates"
	"github.com/rustyeddy/liqstress/portfolio"
)

// sffSensitivity scales the runoff base up for less stable funding:
// adj = 1 + sffSensitivity*(1-SFF).
const sffSensitivity = 0.75

// Apply combines contractual events with the parameter set and returns the
// adjusted event stream for day indices 0..horizonDays.
//
// Positions without a matching spec keep exactly their contractual events, in
// input order. Matched positions are adjusted by their mechanism:
//   - runoff, drawdown, collateral_call: rate*notional leaves from day 1 on,
//     spread by the spec's shape
//   - non_roll: each principal repayment is replaced by a realized outflow of
//     rate*principal; the remainder is assumed rolled with no cash impact
//   - reduced_inflow: each principal receipt is cut by rate*principal
func Apply(pf portfolio.Portfolio, contractual []cashflow.Event, params ParameterSet, asOf time.Time, horizonDays int) ([]cashflow.Event, []diag.Warning) {
	out := make([]cashflow.Event, 0, len(contractual))
	if len(params) == 0 {
		return append(out, contractual...), nil
	}

	asOf = dates.Day(asOf)
	type match struct {
		spec Spec
		mech Mechanism
	}
	matched := make(map[string]match, pf.Len())
	var warns []diag.Warning
	for _, p := range pf.Positions {
		spec, ok := params.Lookup(p)
		if !ok {
			continue
		}
		mech := MechanismFor(p)
		if mech == NoMechanism {
			warns = append(warns, diag.Warning{
				Code:       diag.CodeUnmatchedMechanism,
				PositionID: p.ID,
				Msg:        fmt.Sprintf("behavior spec for %s ignored: no behavioral treatment for this instrument", p.Type),
			})
			continue
		}
		matched[p.ID] = match{spec: spec, mech: mech}
	}

	for _, e := range contractual {
		m, ok := matched[e.PositionID]
		if !ok || e.Kind != cashflow.Contractual || e.Leg != cashflow.Principal {
			out = append(out, e)
			continue
		}
		rate := m.spec.rateOn(dates.Between(asOf, e.Date))

		switch {
		case m.mech == NonRollMech && e.Amount < 0:
			if realized := e.Amount * rate; realized != 0 {
				out = append(out, behavioral(e.PositionID, e.Date, realized, cashflow.NonRoll))
			}
		case m.mech == ReducedInflow && e.Inflow():
			out = append(out, e)
			if cut := e.Amount * rate; cut != 0 {
				out = append(out, behavioral(e.PositionID, e.Date, -cut, cashflow.ReducedInflow))
			}
		default:
			out = append(out, e)
		}
	}

	var synthetic []cashflow.Event
	for _, p := range pf.Positions {
		m, ok := matched[p.ID]
		if !ok {
			continue
		}
		var leg cashflow.Leg
		base := p.Notional
		switch m.mech {
		case RunoffMech:
			leg = cashflow.Runoff
			if p.StableFundingFactor != nil {
				base *= 1 + sffSensitivity*(1-*p.StableFundingFactor)
			}
		case DrawdownMech:
			leg = cashflow.Drawdown
		case CollateralMech:
			leg = cashflow.CollateralCall
		default:
			continue
		}

		amount := m.spec.Rate * base
		if amount == 0 {
			continue
		}
		for i, v := range distribute(amount, m.spec.HorizonDays, m.spec.Shape) {
			day := i + 1
			if day > horizonDays {
				break
			}
			synthetic = append(synthetic, behavioral(p.ID, dates.Add(asOf, day), -v, leg))
		}
	}

	if len(synthetic) > 0 {
		out = append(out, synthetic...)
		cashflow.SortByDate(out)
	}
	return out, warns
}

func behavioral(positionID string, d time.Time, amount float64, leg cashflow.Leg) cashflow.Event {
	return cashflow.Event{
		Date:       d,
		Amount:     amount,
		PositionID: positionID,
		Kind:       cashflow.Behavioral,
		Leg:        leg,
	}
}
