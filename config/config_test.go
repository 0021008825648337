package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/liqstress/engine"
)

func write(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	t.Parallel()

	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, 180, c.HorizonDays)
	assert.Equal(t, 30, c.LCR.WindowDays)
	assert.InDelta(t, 0.75, c.LCR.InflowCap, 0)
	assert.InDelta(t, 1.30, c.Targets.MinLCR, 0)
	assert.Equal(t, 180, c.Targets.MinSurvivalDays)
	assert.InDelta(t, 0.15, c.Haircuts.Level2A, 0)
	assert.Equal(t, 4, c.Concurrency)
	assert.Equal(t, JournalNone, c.Journal.Type)

	_, err := engine.New(c.Engine())
	assert.NoError(t, err)
}

func TestLoadYAMLWithEnvAndDefaults(t *testing.T) {
	t.Setenv("LIQ_DB", "/tmp/liq-test.db")

	path := write(t, "liqstress.yaml", `
horizon_days: 90
targets:
  min_lcr: 1.1
  min_hqla_usd: 5e9
journal:
  type: sqlite
  db_path: ${LIQ_DB}
`)

	c, err := LoadAndValidate(path)
	require.NoError(t, err)
	assert.Equal(t, 90, c.HorizonDays)
	assert.InDelta(t, 1.1, c.Targets.MinLCR, 0)
	assert.InDelta(t, 5e9, c.Targets.MinHQLA, 0)
	assert.Equal(t, 180, c.Targets.MinSurvivalDays)
	assert.Equal(t, "/tmp/liq-test.db", c.Journal.DBPath)
	assert.InDelta(t, 0.50, c.Haircuts.Level2B, 0)

	ec := c.Engine()
	assert.Equal(t, 90, ec.HorizonDays)
	assert.Equal(t, 30, ec.KPI.LCRWindowDays)
	assert.InDelta(t, 1.1, ec.KPI.Targets.MinLCR, 0)
}

func TestLoadJSON(t *testing.T) {
	t.Parallel()

	path := write(t, "liqstress.json", `{"horizon_days": 60, "concurrency": 2, "lcr": {"window_days": 30, "inflow_cap": 1}}`)
	c, err := LoadWithDefaults(path)
	require.NoError(t, err)
	assert.Equal(t, 60, c.HorizonDays)
	assert.Equal(t, 2, c.Concurrency)
	assert.InDelta(t, 1.0, c.LCR.InflowCap, 0)
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read config file")

	_, err = Load(write(t, "bad.yaml", "horizon_days: [1"))
	assert.ErrorContains(t, err, "tried YAML and JSON")

	_, err = LoadAndValidate(write(t, "neg.yaml", "horizon_days: -5"))
	assert.ErrorContains(t, err, "invalid config")
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(c *Config)
		errMsg string
	}{
		{"horizon", func(c *Config) { c.HorizonDays = -1 }, "horizon_days"},
		{"window", func(c *Config) { c.LCR.WindowDays = -1 }, "lcr.window_days"},
		{"inflow cap", func(c *Config) { c.LCR.InflowCap = 1.2 }, "lcr.inflow_cap"},
		{"targets", func(c *Config) { c.Targets.MinLCR = -1 }, "min_lcr"},
		{"haircut", func(c *Config) { c.Haircuts.Level2B = 1.5 }, "level2b"},
		{"concurrency", func(c *Config) { c.Concurrency = -2 }, "concurrency"},
		{"journal type", func(c *Config) { c.Journal.Type = "postgres" }, "journal.type"},
		{"sqlite path", func(c *Config) { c.Journal.Type = JournalSQLite; c.Journal.DBPath = "" }, "db_path"},
		{"csv dir", func(c *Config) { c.Journal.Type = JournalCSV }, "ladder_dir"},
		{"log level", func(c *Config) { c.Log.Level = "trace" }, "log.level"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := Default()
			tt.mutate(c)
			assert.ErrorContains(t, c.Validate(), tt.errMsg)
		})
	}
}

func TestSaveToFileRoundTrip(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"out.yaml", "out.yml", "out.json"} {
		path := filepath.Join(t.TempDir(), name)
		c := Default()
		c.Journal = JournalConfig{Type: JournalCSV, LadderDir: "./ladders"}
		require.NoError(t, c.SaveToFile(path), name)

		got, err := LoadAndValidate(path)
		require.NoError(t, err, name)
		assert.Equal(t, c, got, name)
	}
}

func TestExampleConfig(t *testing.T) {
	t.Setenv("LIQSTRESS_DB", "")

	c, err := LoadAndValidate(filepath.Join("..", "examples", "configs", "liqstress.yaml"))
	require.NoError(t, err)
	assert.Equal(t, JournalSQLite, c.Journal.Type)
	assert.Equal(t, DefaultDBPath, c.Journal.DBPath)
	assert.Equal(t, "./ladders", c.Journal.LadderDir)
}
