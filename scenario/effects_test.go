package scenario

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rustyeddy/liqstress/cashflow"
	"github.com/rustyeddy/liqstress/engine"
	"github.com/rustyeddy/liqstress/kpi"
)

func TestComputeEffects(t *testing.T) {
	t.Parallel()

	ev := func(leg cashflow.Leg, kind cashflow.Kind, amount float64) cashflow.Event {
		return cashflow.Event{Date: asOf, Amount: amount, PositionID: "P", Kind: kind, Leg: leg}
	}
	base := engine.Result{KPIs: kpi.Set{LCR: 1.4286, SurvivalDays: 180}}
	stressed := engine.Result{
		Events: []cashflow.Event{
			ev(cashflow.Principal, cashflow.Contractual, -500),
			ev(cashflow.Runoff, cashflow.Behavioral, -100.004),
			ev(cashflow.Runoff, cashflow.Behavioral, -50),
			ev(cashflow.NonRoll, cashflow.Behavioral, -75),
			ev(cashflow.CollateralCall, cashflow.Behavioral, -12.5),
			ev(cashflow.Drawdown, cashflow.Behavioral, -40),
			ev(cashflow.ReducedInflow, cashflow.Behavioral, -10),
			ev(cashflow.Impact, cashflow.Behavioral, -30),
			ev(cashflow.Impact, cashflow.Behavioral, 30),
			ev(cashflow.Impact, cashflow.Behavioral, -25),
		},
		KPIs: kpi.Set{LCR: 1.0, SurvivalDays: 150, PeakOutflow30d: 812.345, PeakCumulativeOutflow: 900},
	}

	eff := ComputeEffects(base, stressed)
	assert.Equal(t, "150", eff.DepositRunoffUSD.String())
	assert.Equal(t, "75", eff.WholesaleNonRollUSD.String())
	assert.Equal(t, "12.5", eff.CollateralCallsUSD.String())
	assert.Equal(t, "40", eff.DrawdownsUSD.String())
	assert.Equal(t, "10", eff.ReducedInflowUSD.String())
	assert.Equal(t, "-25", eff.ImpactNetUSD.String())
	assert.Equal(t, "812.35", eff.Worst30dOutflowUSD.String())
	assert.Equal(t, "900", eff.PeakCumulativeOutflowUSD.String())
	assert.InDelta(t, -42.9, eff.DeltaLCRPP, 1e-9)
	assert.Equal(t, -30, eff.DeltaSurvivalDays)
}

func TestComputeEffectsUnboundedLCR(t *testing.T) {
	t.Parallel()

	base := engine.Result{KPIs: kpi.Set{LCR: math.MaxFloat64, LCRUnbounded: true, SurvivalDays: 180}}
	stressed := engine.Result{KPIs: kpi.Set{LCR: 2.5, SurvivalDays: 180}}

	eff := ComputeEffects(base, stressed)
	assert.Zero(t, eff.DeltaLCRPP)
	assert.Zero(t, eff.DeltaSurvivalDays)
	assert.True(t, eff.DepositRunoffUSD.IsZero())
}
