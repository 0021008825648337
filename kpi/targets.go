package kpi

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Targets are the regulatory or internal minimums a scenario is measured
// against. A zero MinHQLA disables the HQLA target.
type Targets struct {
	MinLCR          float64 `json:"min_lcr" yaml:"min_lcr"`
	MinSurvivalDays int     `json:"min_survival_days" yaml:"min_survival_days"`
	MinHQLA         float64 `json:"min_hqla_usd" yaml:"min_hqla_usd"`
}

// DefaultTargets mirror common internal policy: 130% LCR and six months of survival.
func DefaultTargets() Targets {
	return Targets{MinLCR: 1.30, MinSurvivalDays: 180}
}

func (t Targets) Validate() error {
	if t.MinLCR < 0 {
		return fmt.Errorf("targets: min_lcr must be >= 0, got %v", t.MinLCR)
	}
	if t.MinSurvivalDays < 0 {
		return fmt.Errorf("targets: min_survival_days must be >= 0, got %d", t.MinSurvivalDays)
	}
	if t.MinHQLA < 0 {
		return fmt.Errorf("targets: min_hqla_usd must be >= 0, got %v", t.MinHQLA)
	}
	return nil
}

// Binding metric names.
const (
	BindingNone     = "none"
	BindingLCR      = "lcr"
	BindingSurvival = "survival"
	BindingHQLA     = "hqla"
)

// Gaps is the deficit to each target in the target's native unit, zero when
// the target is met. Money amounts are rounded to cents.
type Gaps struct {
	LCRGapUSD       decimal.Decimal `json:"lcr_gap_usd" yaml:"lcr_gap_usd"`
	SurvivalGapDays int             `json:"survival_gap_days" yaml:"survival_gap_days"`
	SurvivalGapUSD  decimal.Decimal `json:"survival_gap_usd" yaml:"survival_gap_usd"`
	HQLAGapUSD      decimal.Decimal `json:"hqla_gap_usd" yaml:"hqla_gap_usd"`

	BindingMetric string          `json:"binding_metric" yaml:"binding_metric"`
	BindingGapUSD decimal.Decimal `json:"binding_gap_usd" yaml:"binding_gap_usd"`
}

// GapToTargets compares observed KPIs with t. The binding metric is the
// missed target needing the most extra HQLA; ties go to lcr, then survival,
// then hqla.
func GapToTargets(s Set, t Targets) Gaps {
	hqla := usd(s.HQLA)

	g := Gaps{
		LCRGapUSD:      decimal.Zero,
		SurvivalGapUSD: decimal.Zero,
		HQLAGapUSD:     decimal.Zero,
		BindingMetric:  BindingNone,
		BindingGapUSD:  decimal.Zero,
	}

	var lcrMissed, survMissed, hqlaMissed bool
	if !s.LCRUnbounded && s.LCR < t.MinLCR {
		lcrMissed = true
		g.LCRGapUSD = floor0(usd(t.MinLCR * s.PeakOutflow30d).Sub(hqla))
	}
	if s.SurvivalDays < t.MinSurvivalDays {
		survMissed = true
		g.SurvivalGapDays = t.MinSurvivalDays - s.SurvivalDays
		g.SurvivalGapUSD = floor0(usd(s.PeakCumulativeOutflow).Sub(hqla))
	}
	if t.MinHQLA > 0 && s.HQLA < t.MinHQLA {
		hqlaMissed = true
		g.HQLAGapUSD = floor0(usd(t.MinHQLA).Sub(hqla))
	}

	for _, c := range []struct {
		missed bool
		name   string
		gap    decimal.Decimal
	}{
		{lcrMissed, BindingLCR, g.LCRGapUSD},
		{survMissed, BindingSurvival, g.SurvivalGapUSD},
		{hqlaMissed, BindingHQLA, g.HQLAGapUSD},
	} {
		if !c.missed {
			continue
		}
		if g.BindingMetric == BindingNone || c.gap.GreaterThan(g.BindingGapUSD) {
			g.BindingMetric = c.name
			g.BindingGapUSD = c.gap
		}
	}
	return g
}

func usd(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

func floor0(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
