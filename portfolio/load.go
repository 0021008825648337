package portfolio

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rustyeddy/liqstress/pkg/dates"
	"gopkg.in/yaml.v3"
)

// positionFile is the on-disk shape of a position; dates are plain
// YYYY-MM-DD strings so YAML and JSON files read the same way.
type positionFile struct {
	ID                  string        `json:"id" yaml:"id"`
	Type                string        `json:"type" yaml:"type"`
	Notional            float64       `json:"notional" yaml:"notional"`
	Maturity            string        `json:"maturity,omitempty" yaml:"maturity,omitempty"`
	Rate                float64       `json:"rate" yaml:"rate"`
	Counterparty        string        `json:"counterparty" yaml:"counterparty"`
	Currency            string        `json:"currency" yaml:"currency"`
	CreditQuality       string        `json:"credit_quality,omitempty" yaml:"credit_quality,omitempty"`
	StableFundingFactor *float64      `json:"stable_funding_factor,omitempty" yaml:"stable_funding_factor,omitempty"`
	Schedule            []paymentFile `json:"schedule,omitempty" yaml:"schedule,omitempty"`
}

type paymentFile struct {
	Date      string  `json:"date" yaml:"date"`
	Principal float64 `json:"principal" yaml:"principal"`
}

type portfolioFile struct {
	Positions []positionFile `json:"positions" yaml:"positions"`
}

// LoadFile reads a portfolio from a YAML or JSON file. It only parses; call
// Validate with the run's as-of date before use.
func LoadFile(path string) (Portfolio, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Portfolio{}, fmt.Errorf("read portfolio file: %w", err)
	}
	return Parse(data)
}

// Parse decodes portfolio bytes, trying YAML first and falling back to JSON.
func Parse(data []byte) (Portfolio, error) {
	var raw portfolioFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		if jerr := json.Unmarshal(data, &raw); jerr != nil {
			return Portfolio{}, fmt.Errorf("parse portfolio (tried YAML and JSON): %w", err)
		}
	}

	pf := Portfolio{Positions: make([]Position, 0, len(raw.Positions))}
	for i, rp := range raw.Positions {
		p, err := rp.position()
		if err != nil {
			return Portfolio{}, fmt.Errorf("position %d (%s): %w", i, rp.ID, err)
		}
		pf.Positions = append(pf.Positions, p)
	}
	return pf, nil
}

func (rp positionFile) position() (Position, error) {
	p := Position{
		ID:                  rp.ID,
		Type:                InstrumentType(rp.Type),
		Notional:            rp.Notional,
		Rate:                rp.Rate,
		Counterparty:        CounterpartyType(rp.Counterparty),
		Currency:            rp.Currency,
		CreditQuality:       CreditQuality(rp.CreditQuality),
		StableFundingFactor: rp.StableFundingFactor,
	}
	if rp.Maturity != "" {
		m, err := dates.Parse(rp.Maturity)
		if err != nil {
			return Position{}, fmt.Errorf("maturity: %w", err)
		}
		p.Maturity = &m
	}
	for _, pay := range rp.Schedule {
		d, err := dates.Parse(pay.Date)
		if err != nil {
			return Position{}, fmt.Errorf("schedule: %w", err)
		}
		p.Schedule = append(p.Schedule, Payment{Date: d, Principal: pay.Principal})
	}
	return p, nil
}

// MaturityOn is a convenience for building positions in code.
func MaturityOn(t time.Time) *time.Time {
	d := dates.Day(t)
	return &d
}
