package cashflow

import (
	"time"

	"github.com/rustyeddy/liqstress/pkg/dates"
	"github.com/rustyeddy/liqstress/portfolio"
)

// dayCount is the ACT/360 money-market convention used for accrued interest.
const dayCount = 360.0

// residualEpsilon ignores rounding dust left after a schedule fully amortizes.
const residualEpsilon = 1e-6

// direction returns +1 for positions whose principal comes back to the bank,
// -1 for positions the bank repays, and 0 for off-balance items with no
// principal exchange. Unrecognized types are treated as money owed.
func direction(t portfolio.InstrumentType) float64 {
	switch t.Side() {
	case portfolio.Asset:
		return 1
	case portfolio.Liability, portfolio.SideUnknown:
		return -1
	default:
		return 0
	}
}

// Expand returns the contractual events of p that fall on day indices
// 0..horizonDays from asOf. Demand instruments and off-balance items produce
// nothing; their cash impact is behavioral. A dated position of an unknown type
// is booked as an outflow at maturity.
func Expand(p portfolio.Position, asOf time.Time, horizonDays int) []Event {
	sign := direction(p.Type)
	if sign == 0 || p.Maturity == nil || p.Notional == 0 {
		return nil
	}

	x := expander{pos: p, asOf: dates.Day(asOf), horizon: horizonDays, sign: sign}
	if p.Amortizing() {
		return x.amortizing()
	}
	x.redeem(x.asOf, *p.Maturity, p.Notional)
	return x.events
}

type expander struct {
	pos     portfolio.Position
	asOf    time.Time
	horizon int
	sign    float64
	events  []Event
}

func (x *expander) inHorizon(d time.Time) bool {
	n := dates.Between(x.asOf, d)
	return n >= 0 && n <= x.horizon
}

// redeem books a principal repayment on date d plus the interest accrued on
// that principal since accrualStart.
func (x *expander) redeem(accrualStart, d time.Time, principal float64) {
	if !x.inHorizon(d) {
		return
	}
	d = dates.Day(d)
	x.events = append(x.events, Event{
		Date:       d,
		Amount:     x.sign * principal,
		PositionID: x.pos.ID,
		Kind:       Contractual,
		Leg:        Principal,
	})
	x.interest(accrualStart, d, principal)
}

func (x *expander) interest(from, to time.Time, balance float64) {
	days := dates.Between(from, to)
	if x.pos.Rate == 0 || days <= 0 || balance <= 0 {
		return
	}
	x.events = append(x.events, Event{
		Date:       dates.Day(to),
		Amount:     x.sign * balance * x.pos.Rate * float64(days) / dayCount,
		PositionID: x.pos.ID,
		Kind:       Contractual,
		Leg:        Interest,
	})
}

// amortizing books one principal event per scheduled payment, interest on the
// outstanding balance for each period, and any residual at maturity.
func (x *expander) amortizing() []Event {
	outstanding := x.pos.Notional
	prev := x.asOf
	for _, pay := range x.pos.Schedule {
		if !x.inHorizon(pay.Date) {
			return x.events
		}
		x.events = append(x.events, Event{
			Date:       dates.Day(pay.Date),
			Amount:     x.sign * pay.Principal,
			PositionID: x.pos.ID,
			Kind:       Contractual,
			Leg:        Principal,
		})
		x.interest(prev, pay.Date, outstanding)
		outstanding -= pay.Principal
		prev = dates.Day(pay.Date)
	}

	if outstanding > residualEpsilon {
		x.redeem(prev, *x.pos.Maturity, outstanding)
	}
	return x.events
}

// ExpandAll expands every position and returns the events ordered by date.
func ExpandAll(pf portfolio.Portfolio, asOf time.Time, horizonDays int) []Event {
	var out []Event
	for _, p := range pf.Positions {
		out = append(out, Expand(p, asOf, horizonDays)...)
	}
	SortByDate(out)
	return out
}
