package scenario

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/liqstress/behavior"
	"github.com/rustyeddy/liqstress/diag"
)

const sampleYAML = `
scenarios:
  - scenario_name: Soft landing wobble
    severity: mild
    macro_shocks:
      vix: 21
      credit_spreads_baa: 200
      credit_spreads_hy: 450
      us10y_yield: 4.4
  - scenario_name: Funding squeeze
    severity: severe
    macro_shocks:
      vix: 38
      credit_spreads_baa: 300
      credit_spreads_hy: 800
      us10y_yield: 5.1
      fx:
        EURUSD: 1.02
    instrument_impacts:
      - id: REPO-1
        action: not_rollover
        date: "2025-02-05"
        amount: 250000000
      - id: LOAN-7
        action: extend_maturity
        date: 2025-02-01
        amount: 100000000
        new_maturity: 2025-09-30
  - scenario_name: Desk override
    severity: base
    behavior:
      retail_deposit:
        rate: 0.05
        horizon_days: 30
        shape: front_loaded
`

func TestParseYAML(t *testing.T) {
	t.Parallel()

	got, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "Soft landing wobble", got[0].Name)
	assert.Equal(t, Mild, got[0].Severity)
	assert.InDelta(t, 21.0, got[0].Macro.VIX, 1e-12)
	assert.Nil(t, got[0].Behavior)

	sev := got[1]
	assert.Equal(t, Severe, sev.Severity)
	assert.InDelta(t, 1.02, sev.Macro.FX["EURUSD"], 1e-12)
	require.Len(t, sev.Impacts, 2)
	assert.Equal(t, behavior.NotRollover, sev.Impacts[0].Action)
	assert.Equal(t, time.Date(2025, 2, 5, 0, 0, 0, 0, time.UTC), sev.Impacts[0].Date)
	require.NotNil(t, sev.Impacts[1].NewMaturity)
	assert.Equal(t, time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC), *sev.Impacts[1].NewMaturity)

	assert.Equal(t, behavior.FrontLoaded, got[2].Behavior["retail_deposit"].Shape)
	assert.NoError(t, ValidateAll(got))
	assert.Equal(t, Severe, sev.MacroInputs().Severity)
}

func TestParseBareJSONScenario(t *testing.T) {
	t.Parallel()

	raw := `{"scenario_name":"Rates spike","severity":"base","macro_shocks":{"vix":25,"us10y_yield":5.5},
"instrument_impacts":[{"id":"IRS-1","action":"margin_call","date":"2025-02-03","amount":5e7}]}`

	got, err := Parse([]byte(raw))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Rates spike", got[0].Name)
	assert.Equal(t, behavior.MarginCall, got[0].Impacts[0].Action)
	assert.InDelta(t, 5e7, got[0].Impacts[0].Amount, 0)
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte(`scenarios: [{scenario_name: x, instrument_impacts: [{id: A, action: prepay, date: "soon", amount: 1}]}]`))
	assert.ErrorContains(t, err, "impact 0 date")

	_, err = Parse([]byte("scenarios: [unclosed"))
	assert.Error(t, err)

	got, err := Parse([]byte("{}"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "scenarios.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o644))

	got, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSeverityMultiplier(t *testing.T) {
	t.Parallel()

	tests := []struct {
		sev  Severity
		want float64
		err  bool
	}{
		{Mild, 0.6, false},
		{Base, 1.0, false},
		{"", 1.0, false},
		{Severe, 1.6, false},
		{"apocalyptic", 0, true},
	}
	for _, tt := range tests {
		got, err := tt.sev.Multiplier()
		if tt.err {
			assert.Error(t, err, tt.sev)
			continue
		}
		require.NoError(t, err)
		assert.InDelta(t, tt.want, got, 1e-12, tt.sev)
	}
}

func TestValidateAll(t *testing.T) {
	t.Parallel()

	ok := Scenario{Name: "a", Severity: Mild}
	tests := []struct {
		name string
		in   []Scenario
	}{
		{"missing name", []Scenario{{Severity: Mild}}},
		{"bad severity", []Scenario{{Name: "a", Severity: "extreme"}}},
		{"duplicate", []Scenario{ok, ok}},
		{"reserved", []Scenario{{Name: BaselineName}}},
		{"bad behavior", []Scenario{{Name: "b", Behavior: behavior.ParameterSet{"repo": {Rate: 3, HorizonDays: 1, Shape: behavior.Linear}}}}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.ErrorIs(t, ValidateAll(tt.in), diag.ErrValidation)
		})
	}
	assert.NoError(t, ValidateAll([]Scenario{ok, {Name: "b"}}))
}
