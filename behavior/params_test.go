package behavior

import (
	"testing"

	"github.com/rustyeddy/liqstress/diag"
	"github.com/rustyeddy/liqstress/portfolio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func total(xs []float64) float64 {
	var s float64
	for _, x := range xs {
		s += x
	}
	return s
}

func TestDistribute(t *testing.T) {
	t.Parallel()

	t.Run("immediate", func(t *testing.T) {
		t.Parallel()
		got := distribute(90, 30, Immediate)
		assert.Equal(t, []float64{90}, got)
	})

	t.Run("linear", func(t *testing.T) {
		t.Parallel()
		got := distribute(90, 30, Linear)
		require.Len(t, got, 30)
		for _, v := range got {
			assert.InDelta(t, 3.0, v, 1e-12)
		}
	})

	t.Run("front loaded", func(t *testing.T) {
		t.Parallel()
		got := distribute(100, 30, FrontLoaded)
		require.Len(t, got, 30)
		// First 10 days carry 60, last 20 carry 40.
		assert.InDelta(t, 6.0, got[0], 1e-12)
		assert.InDelta(t, 6.0, got[9], 1e-12)
		assert.InDelta(t, 2.0, got[10], 1e-12)
		assert.InDelta(t, 2.0, got[29], 1e-12)
		assert.InDelta(t, 100.0, total(got), 1e-9)
	})

	t.Run("front loaded uneven thirds", func(t *testing.T) {
		t.Parallel()
		got := distribute(100, 7, FrontLoaded)
		require.Len(t, got, 7)
		// ceil(7/3) = 3 front days.
		assert.InDelta(t, 20.0, got[0], 1e-12)
		assert.InDelta(t, 10.0, got[3], 1e-12)
		assert.InDelta(t, 100.0, total(got), 1e-9)
	})

	t.Run("front loaded short horizon degrades to linear", func(t *testing.T) {
		t.Parallel()
		got := distribute(10, 2, FrontLoaded)
		assert.Equal(t, []float64{5, 5}, got)
	})
}

func TestLookupPrefersCounterpartyKey(t *testing.T) {
	t.Parallel()

	ps := ParameterSet{
		"corporate_deposit":           {Rate: 0.1, HorizonDays: 30, Shape: Linear},
		"corporate_deposit/interbank": {Rate: 0.4, HorizonDays: 30, Shape: Linear},
	}

	spec, ok := ps.Lookup(portfolio.Position{Type: portfolio.CorporateDeposit, Counterparty: portfolio.Interbank})
	require.True(t, ok)
	assert.InDelta(t, 0.4, spec.Rate, 1e-12)

	spec, ok = ps.Lookup(portfolio.Position{Type: portfolio.CorporateDeposit, Counterparty: portfolio.Wholesale})
	require.True(t, ok)
	assert.InDelta(t, 0.1, spec.Rate, 1e-12)

	_, ok = ps.Lookup(portfolio.Position{Type: portfolio.Repo})
	assert.False(t, ok)
}

func TestParameterSetValidate(t *testing.T) {
	t.Parallel()

	neg := -0.1
	tests := []struct {
		name string
		spec Spec
		ok   bool
	}{
		{"ok", Spec{Rate: 0.05, HorizonDays: 30, Shape: Linear}, true},
		{"rate above one", Spec{Rate: 1.5, HorizonDays: 30, Shape: Linear}, false},
		{"zero horizon", Spec{Rate: 0.05, HorizonDays: 0, Shape: Linear}, false},
		{"unknown shape", Spec{Rate: 0.05, HorizonDays: 30, Shape: "s_curve"}, false},
		{"bad tail", Spec{Rate: 0.05, HorizonDays: 30, Shape: Linear, TailRate: &neg}, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ParameterSet{"repo": tt.spec}.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, diag.ErrValidation)
			}
		})
	}
}

func TestCloneIsIndependent(t *testing.T) {
	t.Parallel()

	tail := 0.3
	ps := ParameterSet{"repo": {Rate: 0.1, HorizonDays: 30, Shape: Linear, TailRate: &tail}}
	cp := ps.Clone()
	*cp["repo"].TailRate = 0.9

	assert.InDelta(t, 0.3, *ps["repo"].TailRate, 1e-12)
	assert.Nil(t, ParameterSet(nil).Clone())
}

func TestMechanismFor(t *testing.T) {
	t.Parallel()

	m := portfolio.MaturityOn(asOf)
	assert.Equal(t, RunoffMech, MechanismFor(portfolio.Position{Type: portfolio.RetailDeposit}))
	assert.Equal(t, RunoffMech, MechanismFor(portfolio.Position{Type: portfolio.CorporateDeposit}))
	assert.Equal(t, NonRollMech, MechanismFor(portfolio.Position{Type: portfolio.CorporateDeposit, Maturity: m}))
	assert.Equal(t, NonRollMech, MechanismFor(portfolio.Position{Type: portfolio.Repo, Maturity: m}))
	assert.Equal(t, DrawdownMech, MechanismFor(portfolio.Position{Type: portfolio.CommittedLine}))
	assert.Equal(t, CollateralMech, MechanismFor(portfolio.Position{Type: portfolio.InterestRateSwap}))
	assert.Equal(t, ReducedInflow, MechanismFor(portfolio.Position{Type: portfolio.Loan, Maturity: m}))
	assert.Equal(t, NoMechanism, MechanismFor(portfolio.Position{Type: portfolio.Treasury}))
	assert.Equal(t, NoMechanism, MechanismFor(portfolio.Position{Type: "cat_bond"}))
}
