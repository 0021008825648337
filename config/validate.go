package config

import (
	"errors"
	"fmt"
)

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.HorizonDays <= 0 {
		return fmt.Errorf("horizon_days must be positive")
	}
	if c.LCR.WindowDays <= 0 {
		return fmt.Errorf("lcr.window_days must be positive")
	}
	if c.LCR.InflowCap < 0 || c.LCR.InflowCap > 1 {
		return fmt.Errorf("lcr.inflow_cap must be between 0 and 1")
	}
	if err := c.Targets.Validate(); err != nil {
		return err
	}
	if err := c.Haircuts.Validate(); err != nil {
		return err
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1")
	}

	switch c.Journal.Type {
	case JournalNone:
	case JournalSQLite:
		if c.Journal.DBPath == "" {
			return errors.New("journal.db_path is required for sqlite")
		}
	case JournalCSV:
		if c.Journal.LadderDir == "" {
			return errors.New("journal.ladder_dir is required for csv")
		}
	default:
		return fmt.Errorf("journal.type must be 'none', 'sqlite' or 'csv', got %q", c.Journal.Type)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	return nil
}
