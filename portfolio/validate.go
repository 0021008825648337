package portfolio

import (
	"math"
	"time"

	"github.com/rustyeddy/liqstress/diag"
	"github.com/rustyeddy/liqstress/pkg/dates"
)

// Validate checks a single position against the as-of date. The returned
// error is always a *diag.ValidationError carrying the position ID.
func (p Position) Validate(asOf time.Time) error {
	if p.ID == "" {
		return diag.Invalid("", "id", "is required")
	}
	if p.Type == "" {
		return diag.Invalid(p.ID, "type", "is required")
	}
	if p.Currency == "" {
		return diag.Invalid(p.ID, "currency", "is required")
	}
	if math.IsNaN(p.Notional) || math.IsInf(p.Notional, 0) {
		return diag.Invalid(p.ID, "notional", "must be finite")
	}
	if p.Notional < 0 {
		return diag.Invalid(p.ID, "notional", "must be non-negative, got %.2f", p.Notional)
	}
	if math.IsNaN(p.Rate) || math.IsInf(p.Rate, 0) {
		return diag.Invalid(p.ID, "rate", "must be finite")
	}
	if sff := p.StableFundingFactor; sff != nil && (*sff < 0 || *sff > 1) {
		return diag.Invalid(p.ID, "stable_funding_factor", "must be in [0,1], got %.4f", *sff)
	}

	if p.Maturity != nil {
		if p.Type.DemandOnly() {
			return diag.Invalid(p.ID, "maturity", "demand instrument %s cannot carry a maturity", p.Type)
		}
		if dates.Between(asOf, *p.Maturity) < 0 {
			return diag.Invalid(p.ID, "maturity", "%s is before as-of %s",
				p.Maturity.Format(dates.Layout), asOf.Format(dates.Layout))
		}
	}

	if p.Amortizing() {
		return p.validateSchedule(asOf)
	}
	return nil
}

func (p Position) validateSchedule(asOf time.Time) error {
	if p.Maturity == nil {
		return diag.Invalid(p.ID, "schedule", "amortizing position needs a final maturity")
	}

	var sum float64
	for i, pay := range p.Schedule {
		if pay.Principal <= 0 || math.IsNaN(pay.Principal) || math.IsInf(pay.Principal, 0) {
			return diag.Invalid(p.ID, "schedule", "payment %d principal must be positive", i)
		}
		if dates.Between(asOf, pay.Date) < 0 {
			return diag.Invalid(p.ID, "schedule", "payment %d date %s is before as-of",
				i, pay.Date.Format(dates.Layout))
		}
		if dates.Between(pay.Date, *p.Maturity) < 0 {
			return diag.Invalid(p.ID, "schedule", "payment %d date %s is after maturity",
				i, pay.Date.Format(dates.Layout))
		}
		if i > 0 && dates.Between(p.Schedule[i-1].Date, pay.Date) <= 0 {
			return diag.Invalid(p.ID, "schedule", "payment dates must be strictly increasing (payment %d)", i)
		}
		sum += pay.Principal
	}

	if sum > p.Notional*(1+1e-9) {
		return diag.Invalid(p.ID, "schedule", "scheduled principal %.2f exceeds notional %.2f", sum, p.Notional)
	}
	return nil
}

// Validate checks every position and rejects duplicate identifiers.
// The first problem found is returned.
func (pf Portfolio) Validate(asOf time.Time) error {
	seen := make(map[string]struct{}, len(pf.Positions))
	for _, p := range pf.Positions {
		if err := p.Validate(asOf); err != nil {
			return err
		}
		if _, dup := seen[p.ID]; dup {
			return diag.Invalid(p.ID, "id", "duplicate position id")
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}
