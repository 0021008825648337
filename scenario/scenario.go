// Package scenario turns stress narratives into behavioral parameter sets and
// runs them, next to a contractual-only baseline, through the engine.
package scenario

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/liqstress/behavior"
	"github.com/rustyeddy/liqstress/diag"
	"github.com/rustyeddy/liqstress/pkg/dates"
)

type Severity string

const (
	Mild   Severity = "mild"
	Base   Severity = "base"
	Severe Severity = "severe"
)

// Multiplier scales rule-based behavior so stress escalates with severity.
// An empty severity counts as base.
func (s Severity) Multiplier() (float64, error) {
	switch s {
	case Mild:
		return 0.6, nil
	case Base, "":
		return 1.0, nil
	case Severe:
		return 1.6, nil
	default:
		return 0, fmt.Errorf("unknown severity %q", s)
	}
}

// Default macro levels, used for any input left at zero.
const (
	DefaultVIX          = 18.0
	DefaultBAASpreadBps = 180.0
	DefaultHYSpreadBps  = 400.0
	DefaultUS10Y        = 4.2
)

// MacroInputs are the market shocks a scenario assumes. Spreads are in basis
// points, yields in percent.
type MacroInputs struct {
	Severity Severity `json:"-" yaml:"-"`

	VIX          float64            `json:"vix" yaml:"vix"`
	BAASpreadBps float64            `json:"credit_spreads_baa" yaml:"credit_spreads_baa"`
	HYSpreadBps  float64            `json:"credit_spreads_hy" yaml:"credit_spreads_hy"`
	US10Y        float64            `json:"us10y_yield" yaml:"us10y_yield"`
	FedFunds     float64            `json:"fed_funds_rate,omitempty" yaml:"fed_funds_rate,omitempty"`
	FX           map[string]float64 `json:"fx,omitempty" yaml:"fx,omitempty"`
}

func (m MacroInputs) withDefaults() MacroInputs {
	if m.VIX == 0 {
		m.VIX = DefaultVIX
	}
	if m.BAASpreadBps == 0 {
		m.BAASpreadBps = DefaultBAASpreadBps
	}
	if m.HYSpreadBps == 0 {
		m.HYSpreadBps = DefaultHYSpreadBps
	}
	if m.US10Y == 0 {
		m.US10Y = DefaultUS10Y
	}
	return m
}

// Scenario is one stress case. When Behavior is set it is used as given and
// the provider is not consulted.
type Scenario struct {
	Name     string                `json:"scenario_name" yaml:"scenario_name"`
	Severity Severity              `json:"severity" yaml:"severity"`
	Macro    MacroInputs           `json:"macro_shocks" yaml:"macro_shocks"`
	Behavior behavior.ParameterSet `json:"behavior,omitempty" yaml:"behavior,omitempty"`
	Impacts  []behavior.Impact     `json:"instrument_impacts,omitempty" yaml:"instrument_impacts,omitempty"`
}

// MacroInputs returns the macro shocks tagged with the scenario's severity.
func (s Scenario) MacroInputs() MacroInputs {
	m := s.Macro
	m.Severity = s.Severity
	return m
}

func (s Scenario) Validate() error {
	if s.Name == "" {
		return diag.Invalid("", "scenario_name", "is required")
	}
	if _, err := s.Severity.Multiplier(); err != nil {
		return diag.Invalid("", "scenario["+s.Name+"].severity", "%v", err)
	}
	return s.Behavior.Validate()
}

// ValidateAll checks each scenario and rejects duplicate names.
func ValidateAll(scenarios []Scenario) error {
	seen := make(map[string]struct{}, len(scenarios))
	for _, s := range scenarios {
		if err := s.Validate(); err != nil {
			return err
		}
		if s.Name == BaselineName {
			return diag.Invalid("", "scenario_name", "%q is reserved", BaselineName)
		}
		if _, dup := seen[s.Name]; dup {
			return diag.Invalid("", "scenario_name", "duplicate scenario %q", s.Name)
		}
		seen[s.Name] = struct{}{}
	}
	return nil
}

type impactFile struct {
	ID          string  `json:"id" yaml:"id"`
	Action      string  `json:"action" yaml:"action"`
	Date        string  `json:"date" yaml:"date"`
	Amount      float64 `json:"amount" yaml:"amount"`
	NewMaturity string  `json:"new_maturity,omitempty" yaml:"new_maturity,omitempty"`
}

type scenarioFile struct {
	Name     string                `json:"scenario_name" yaml:"scenario_name"`
	Severity string                `json:"severity" yaml:"severity"`
	Macro    MacroInputs           `json:"macro_shocks" yaml:"macro_shocks"`
	Behavior behavior.ParameterSet `json:"behavior,omitempty" yaml:"behavior,omitempty"`
	Impacts  []impactFile          `json:"instrument_impacts,omitempty" yaml:"instrument_impacts,omitempty"`
}

type setFile struct {
	Scenarios []scenarioFile `json:"scenarios" yaml:"scenarios"`
}

// LoadFile reads scenarios from a YAML or JSON file.
func LoadFile(path string) ([]Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}
	return Parse(data)
}

// Parse accepts either {"scenarios": [...]} or a single bare scenario.
func Parse(data []byte) ([]Scenario, error) {
	var set setFile
	if err := unmarshal(data, &set); err != nil {
		return nil, err
	}
	if len(set.Scenarios) == 0 {
		var one scenarioFile
		if err := unmarshal(data, &one); err != nil {
			return nil, err
		}
		if one.Name != "" {
			set.Scenarios = append(set.Scenarios, one)
		}
	}

	out := make([]Scenario, 0, len(set.Scenarios))
	for i, sf := range set.Scenarios {
		s, err := sf.scenario()
		if err != nil {
			return nil, fmt.Errorf("scenario %d (%s): %w", i, sf.Name, err)
		}
		out = append(out, s)
	}
	return out, nil
}

func unmarshal(data []byte, v any) error {
	if err := yaml.Unmarshal(data, v); err != nil {
		if jerr := json.Unmarshal(data, v); jerr != nil {
			return fmt.Errorf("parse scenarios (tried YAML and JSON): %w", err)
		}
	}
	return nil
}

func (sf scenarioFile) scenario() (Scenario, error) {
	s := Scenario{
		Name:     sf.Name,
		Severity: Severity(sf.Severity),
		Macro:    sf.Macro,
		Behavior: sf.Behavior,
	}
	for j, imp := range sf.Impacts {
		d, err := dates.Parse(imp.Date)
		if err != nil {
			return Scenario{}, fmt.Errorf("impact %d date: %w", j, err)
		}
		bi := behavior.Impact{
			PositionID: imp.ID,
			Action:     behavior.Action(imp.Action),
			Date:       d,
			Amount:     imp.Amount,
		}
		if imp.NewMaturity != "" {
			nm, err := dates.Parse(imp.NewMaturity)
			if err != nil {
				return Scenario{}, fmt.Errorf("impact %d new_maturity: %w", j, err)
			}
			bi.NewMaturity = &nm
		}
		s.Impacts = append(s.Impacts, bi)
	}
	return s, nil
}
