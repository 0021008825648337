package config

import (
	"github.com/rustyeddy/liqstress/engine"
	"github.com/rustyeddy/liqstress/hqla"
	"github.com/rustyeddy/liqstress/kpi"
	"github.com/rustyeddy/liqstress/scenario"
)

// Default values for optional configuration fields.
const (
	DefaultHorizonDays     = engine.DefaultHorizonDays
	DefaultLCRWindowDays   = 30
	DefaultInflowCap       = kpi.DefaultInflowCap
	DefaultMinLCR          = 1.30
	DefaultMinSurvivalDays = 180
	DefaultConcurrency     = scenario.DefaultConcurrency
	DefaultJournalType     = JournalNone
	DefaultDBPath          = "./liqstress.db"
	DefaultLogLevel        = "info"
)

// Journal types.
const (
	JournalNone   = "none"
	JournalSQLite = "sqlite"
	JournalCSV    = "csv"
)

func (c *Config) applyDefaults() {
	if c.HorizonDays == 0 {
		c.HorizonDays = DefaultHorizonDays
	}

	if c.LCR.WindowDays == 0 {
		c.LCR.WindowDays = DefaultLCRWindowDays
	}
	if c.LCR.InflowCap == 0 {
		c.LCR.InflowCap = DefaultInflowCap
	}

	if c.Targets.MinLCR == 0 {
		c.Targets.MinLCR = DefaultMinLCR
	}
	if c.Targets.MinSurvivalDays == 0 {
		c.Targets.MinSurvivalDays = DefaultMinSurvivalDays
	}

	basel := hqla.Basel()
	if c.Haircuts.Level2A == 0 {
		c.Haircuts.Level2A = basel.Level2A
	}
	if c.Haircuts.Level2B == 0 {
		c.Haircuts.Level2B = basel.Level2B
	}
	if c.Haircuts.Level2BRMBS == 0 {
		c.Haircuts.Level2BRMBS = basel.Level2BRMBS
	}
	if c.Haircuts.Level2BCap == 0 {
		c.Haircuts.Level2BCap = basel.Level2BCap
	}
	if c.Haircuts.Level2Cap == 0 {
		c.Haircuts.Level2Cap = basel.Level2Cap
	}

	if c.Concurrency == 0 {
		c.Concurrency = DefaultConcurrency
	}

	if c.Journal.Type == "" {
		c.Journal.Type = DefaultJournalType
	}
	if c.Journal.Type == JournalSQLite && c.Journal.DBPath == "" {
		c.Journal.DBPath = DefaultDBPath
	}

	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
}
