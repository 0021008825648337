package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/liqstress/behavior"
	"github.com/rustyeddy/liqstress/engine"
	"github.com/rustyeddy/liqstress/portfolio"
	"github.com/rustyeddy/liqstress/scenario"
)

var asOf = time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

func on(n int) *time.Time { return portfolio.MaturityOn(asOf.AddDate(0, 0, n)) }

func book() portfolio.Portfolio {
	return portfolio.Portfolio{Positions: []portfolio.Position{
		{ID: "UST", Type: portfolio.Treasury, Notional: 3000, Maturity: on(90), Currency: "USD"},
		{ID: "DDA", Type: portfolio.RetailDeposit, Notional: 10000, Currency: "USD", Counterparty: portfolio.Retail},
		{ID: "REPO", Type: portfolio.Repo, Notional: 1200, Maturity: on(14), Currency: "USD", Counterparty: portfolio.Wholesale},
		{ID: "LOAN", Type: portfolio.Loan, Notional: 500, Maturity: on(40), Currency: "USD"},
		{ID: "LINE", Type: portfolio.CommittedLine, Notional: 1000, Currency: "USD"},
	}}
}

// report runs a baseline, one stressed scenario and one scenario that fails
// validation.
func report(t *testing.T) scenario.Report {
	t.Helper()

	e, err := engine.New(engine.DefaultConfig())
	require.NoError(t, err)
	r := &scenario.Runner{Engine: e, Concurrency: 1}

	rep, err := r.Run(context.Background(), asOf, book(), []scenario.Scenario{
		{Name: "severe stress", Severity: scenario.Severe, Macro: scenario.MacroInputs{VIX: 35, BAASpreadBps: 280, HYSpreadBps: 700}},
		{Name: "broken", Impacts: []behavior.Impact{
			{PositionID: "REPO", Action: behavior.Prepay, Date: asOf.AddDate(0, 0, -1), Amount: 10},
		}},
	})
	require.NoError(t, err)
	require.Len(t, rep.Failed(), 1)
	return rep
}

func newTestSQLite(t *testing.T) *SQLite {
	t.Helper()

	j, err := NewSQLite(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })
	return j
}

var (
	_ Journal = (*SQLite)(nil)
	_ Journal = (*CSVJournal)(nil)
)
