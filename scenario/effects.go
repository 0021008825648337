package scenario

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/liqstress/cashflow"
	"github.com/rustyeddy/liqstress/engine"
)

// Effects summarizes what a scenario does relative to the baseline. Behavioral
// amounts are totals over the horizon, as positive outflows; ImpactNet is
// signed and counts only cash booked by impacts, since the principal they move
// is netted out of the contractual flows.
type Effects struct {
	DepositRunoffUSD    decimal.Decimal `json:"deposit_runoff_usd" yaml:"deposit_runoff_usd"`
	WholesaleNonRollUSD decimal.Decimal `json:"wholesale_non_roll_usd" yaml:"wholesale_non_roll_usd"`
	CollateralCallsUSD  decimal.Decimal `json:"collateral_calls_usd" yaml:"collateral_calls_usd"`
	DrawdownsUSD        decimal.Decimal `json:"drawdowns_usd" yaml:"drawdowns_usd"`
	ReducedInflowUSD    decimal.Decimal `json:"reduced_inflow_usd" yaml:"reduced_inflow_usd"`
	ImpactNetUSD        decimal.Decimal `json:"impact_net_usd" yaml:"impact_net_usd"`

	Worst30dOutflowUSD       decimal.Decimal `json:"worst_30d_outflow_usd" yaml:"worst_30d_outflow_usd"`
	PeakCumulativeOutflowUSD decimal.Decimal `json:"peak_cumulative_outflow_usd" yaml:"peak_cumulative_outflow_usd"`

	// DeltaLCRPP is zero when either LCR is unbounded.
	DeltaLCRPP        float64 `json:"delta_lcr_percentage_points" yaml:"delta_lcr_percentage_points"`
	DeltaSurvivalDays int     `json:"delta_survival_days" yaml:"delta_survival_days"`
}

// ComputeEffects compares a stressed result with the baseline.
func ComputeEffects(baseline, stressed engine.Result) Effects {
	byLeg := map[cashflow.Leg]float64{}
	for _, e := range stressed.Events {
		if e.Kind == cashflow.Behavioral {
			byLeg[e.Leg] += e.Amount
		}
	}

	eff := Effects{
		DepositRunoffUSD:         cents(-byLeg[cashflow.Runoff]),
		WholesaleNonRollUSD:      cents(-byLeg[cashflow.NonRoll]),
		CollateralCallsUSD:       cents(-byLeg[cashflow.CollateralCall]),
		DrawdownsUSD:             cents(-byLeg[cashflow.Drawdown]),
		ReducedInflowUSD:         cents(-byLeg[cashflow.ReducedInflow]),
		ImpactNetUSD:             cents(byLeg[cashflow.Impact]),
		Worst30dOutflowUSD:       cents(stressed.KPIs.PeakOutflow30d),
		PeakCumulativeOutflowUSD: cents(stressed.KPIs.PeakCumulativeOutflow),
		DeltaSurvivalDays:        stressed.KPIs.SurvivalDays - baseline.KPIs.SurvivalDays,
	}
	if !baseline.KPIs.LCRUnbounded && !stressed.KPIs.LCRUnbounded {
		eff.DeltaLCRPP = math.Round((stressed.KPIs.LCR-baseline.KPIs.LCR)*1000) / 10
	}
	return eff
}

func cents(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}
