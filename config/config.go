package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/liqstress/engine"
	"github.com/rustyeddy/liqstress/hqla"
	"github.com/rustyeddy/liqstress/kpi"
)

// Config represents the complete run configuration
type Config struct {
	HorizonDays int           `json:"horizon_days" yaml:"horizon_days"`
	LCR         LCRConfig     `json:"lcr" yaml:"lcr"`
	Targets     kpi.Targets   `json:"targets" yaml:"targets"`
	Haircuts    hqla.Schedule `json:"haircuts" yaml:"haircuts"`
	Concurrency int           `json:"concurrency" yaml:"concurrency"`
	Journal     JournalConfig `json:"journal" yaml:"journal"`
	Metrics     MetricsConfig `json:"metrics" yaml:"metrics"`
	Log         LogConfig     `json:"log" yaml:"log"`
}

// LCRConfig fixes the regulatory window and how far inflows may offset outflows
type LCRConfig struct {
	WindowDays int     `json:"window_days" yaml:"window_days"`
	InflowCap  float64 `json:"inflow_cap" yaml:"inflow_cap"`
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type      string `json:"type" yaml:"type"` // "none", "sqlite" or "csv"
	DBPath    string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	LadderDir string `json:"ladder_dir,omitempty" yaml:"ladder_dir,omitempty"`
}

type MetricsConfig struct {
	Textfile string `json:"textfile,omitempty" yaml:"textfile,omitempty"` // node_exporter textfile path
}

type LogConfig struct {
	Level string `json:"level" yaml:"level"` // debug, info, warn, error
}

// Load reads a config file, expands ${VAR} references from the environment
// and parses it as YAML, falling back to JSON. No defaults are applied.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	data = []byte(os.ExpandEnv(string(data)))

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}
	return cfg, nil
}

// LoadWithDefaults loads path and fills every unset field.
func LoadWithDefaults(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

// LoadAndValidate loads path, applies defaults and validates the result.
func LoadAndValidate(path string) (*Config, error) {
	cfg, err := LoadWithDefaults(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Engine converts the file configuration into the immutable engine config.
func (c *Config) Engine() engine.Config {
	return engine.Config{
		HorizonDays: c.HorizonDays,
		Haircuts:    c.Haircuts,
		KPI: kpi.Params{
			LCRWindowDays: c.LCR.WindowDays,
			InflowCap:     c.LCR.InflowCap,
			Targets:       c.Targets,
		},
	}
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}
