package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bookYAML = `
positions:
  - id: UST
    type: treasury
    notional: 4000000000
    maturity: 2025-06-30
    counterparty: sovereign
    currency: USD
  - id: DDA
    type: retail_deposit
    notional: 15000000000
    counterparty: retail
    currency: USD
  - id: REPO-1
    type: repo
    notional: 900000000
    maturity: 2025-02-10
    rate: 0.045
    counterparty: wholesale
    currency: USD
  - id: LINE
    type: committed_line
    notional: 2000000000
    counterparty: wholesale
    currency: USD
`

const scenariosYAML = `
scenarios:
  - scenario_name: funding squeeze
    severity: severe
    macro_shocks:
      vix: 38
      credit_spreads_baa: 300
      credit_spreads_hy: 800
`

// execute runs the root command in-process. Flag globals persist across
// executions, so they are reset first.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	runConfigPath, runPortfolioPath, runScenariosPath, runAsOf = "", "", "", ""
	runOut, runOrg, runDBPath, runLadderDir, runMetricsFile = "", "", "", "", ""
	journalLadder, journalFrom, journalTo = "", "", ""
	verbose = false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "--env-file", filepath.Join(t.TempDir(), "missing.env")))
	err := rootCmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestRunAndJournal(t *testing.T) {
	dir := t.TempDir()
	book := writeFile(t, dir, "book.yaml", bookYAML)
	scen := writeFile(t, dir, "scenarios.yaml", scenariosYAML)
	db := filepath.Join(dir, "runs.db")
	reportPath := filepath.Join(dir, "report.json")
	ladders := filepath.Join(dir, "ladders")
	prom := filepath.Join(dir, "liqstress.prom")
	org := filepath.Join(dir, "run.org")

	_, err := execute(t, "run",
		"--portfolio", book,
		"--scenarios", scen,
		"--as-of", "2025-01-31",
		"--out", reportPath,
		"--org", org,
		"--db", db,
		"--ladder-dir", ladders,
		"--metrics-file", prom,
	)
	require.NoError(t, err)

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	var rep struct {
		RunID     string `json:"run_id"`
		Scenarios []struct {
			Name  string `json:"scenario_name"`
			Error string `json:"error"`
		} `json:"scenarios"`
	}
	require.NoError(t, json.Unmarshal(data, &rep))
	require.Len(t, rep.RunID, 26)
	require.Len(t, rep.Scenarios, 1)
	assert.Equal(t, "funding squeeze", rep.Scenarios[0].Name)
	assert.Empty(t, rep.Scenarios[0].Error)

	for _, p := range []string{
		org,
		prom,
		filepath.Join(ladders, rep.RunID+"_kpis.csv"),
		filepath.Join(ladders, rep.RunID+"_baseline.csv"),
		filepath.Join(ladders, rep.RunID+"_funding_squeeze.csv"),
	} {
		_, err := os.Stat(p)
		assert.NoError(t, err, p)
	}
	metrics, err := os.ReadFile(prom)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), `liqstress_scenario_runs_total{outcome="ok",severity="severe"} 1`)

	out, err := execute(t, "journal", "show", rep.RunID, "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, ":RUN_ID: "+rep.RunID)
	assert.Contains(t, out, "| funding squeeze | ")

	out, err = execute(t, "journal", "show", rep.RunID, "--db", db, "--ladder", "baseline")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, "day,date,inflow,outflow,net,cumulative_net,cumulative_outflow", lines[0])
	assert.Len(t, lines, 182)
	assert.True(t, strings.HasPrefix(lines[1], "0,2025-01-31,"))

	_, err = execute(t, "journal", "show", rep.RunID, "--db", db, "--ladder", "nope")
	assert.Error(t, err)

	today := time.Now().UTC().Format("2006-01-02")
	out, err = execute(t, "journal", "list", "--db", db, "--from", "2000-01-01", "--to", today)
	require.NoError(t, err)
	assert.Contains(t, out, rep.RunID)

	_, err = execute(t, "journal", "show", "01JNOSUCHRUN", "--db", db)
	assert.ErrorContains(t, err, "run id")

	_, err = execute(t, "journal", "show", "01ARZ3NDEKTSV4RRFFQ69G5FAV", "--db", db)
	assert.ErrorContains(t, err, "not found")
}

func TestRunRejectsBadInput(t *testing.T) {
	dir := t.TempDir()
	book := writeFile(t, dir, "book.yaml", bookYAML)

	_, err := execute(t, "run", "--portfolio", book, "--as-of", "31/01/2025")
	assert.ErrorContains(t, err, "as-of")

	_, err = execute(t, "run", "--portfolio", filepath.Join(dir, "missing.yaml"), "--as-of", "2025-01-31")
	assert.ErrorContains(t, err, "load portfolio")

	bad := writeFile(t, dir, "bad.yaml", "horizon_days: -5\n")
	_, err = execute(t, "run", "--portfolio", book, "--config", bad, "--as-of", "2025-01-31")
	assert.ErrorContains(t, err, "invalid config")

	late := writeFile(t, dir, "late.yaml", strings.Replace(bookYAML, "2025-02-10", "2024-12-31", 1))
	_, err = execute(t, "run", "--portfolio", late, "--as-of", "2025-01-31", "--out", filepath.Join(dir, "r.json"))
	assert.ErrorContains(t, err, "baseline")
}

func TestConfigInitAndValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "liqstress.yaml")

	out, err := execute(t, "config", "init", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Created default configuration")

	out, err = execute(t, "config", "validate", "-f", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Horizon: 180 days (LCR window 30, inflow cap 75%)")
	assert.Contains(t, out, "Journal: none")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "liqstress version "+version)
}

func TestListBounds(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 15, 17, 30, 0, 0, time.UTC)
	day := func(s string) time.Time {
		d, err := time.Parse("2006-01-02", s)
		require.NoError(t, err)
		return d
	}

	tests := []struct {
		name       string
		from, to   string
		start, end time.Time
		wantErr    bool
	}{
		{name: "defaults", start: day("2025-02-13"), end: day("2025-03-16")},
		{name: "explicit", from: "2025-01-01", to: "2025-01-31", start: day("2025-01-01"), end: day("2025-02-01")},
		{name: "single day", from: "2025-01-05", to: "2025-01-05", start: day("2025-01-05"), end: day("2025-01-06")},
		{name: "reversed", from: "2025-02-01", to: "2025-01-01", wantErr: true},
		{name: "bad from", from: "yesterday", wantErr: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := listBounds(now, tt.from, tt.to)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.start, start)
			assert.Equal(t, tt.end, end)
		})
	}
}
