package hqla

import (
	"fmt"
	"math"
)

// Schedule is the haircut and cap table applied when classifying positions.
// It is passed into every run; nothing in this package reads global state.
type Schedule struct {
	Level2A     float64 `json:"level2a" yaml:"level2a"`           // 0.15
	Level2B     float64 `json:"level2b" yaml:"level2b"`           // 0.50
	Level2BRMBS float64 `json:"level2b_rmbs" yaml:"level2b_rmbs"` // 0.25

	// Composition caps, as a share of total HQLA after haircuts.
	Level2BCap float64 `json:"level2b_cap" yaml:"level2b_cap"` // 0.15
	Level2Cap  float64 `json:"level2_cap" yaml:"level2_cap"`   // 0.40
}

// Basel returns the Basel III LCR haircuts and caps.
func Basel() Schedule {
	return Schedule{
		Level2A:     0.15,
		Level2B:     0.50,
		Level2BRMBS: 0.25,
		Level2BCap:  0.15,
		Level2Cap:   0.40,
	}
}

func (s Schedule) Validate() error {
	for _, h := range []struct {
		name string
		v    float64
	}{
		{"level2a", s.Level2A},
		{"level2b", s.Level2B},
		{"level2b_rmbs", s.Level2BRMBS},
	} {
		if math.IsNaN(h.v) || h.v < 0 || h.v > 1 {
			return fmt.Errorf("haircuts.%s must be in [0,1], got %.4f", h.name, h.v)
		}
	}
	if s.Level2BCap <= 0 || s.Level2BCap >= 1 {
		return fmt.Errorf("haircuts.level2b_cap must be in (0,1), got %.4f", s.Level2BCap)
	}
	if s.Level2Cap <= 0 || s.Level2Cap >= 1 {
		return fmt.Errorf("haircuts.level2_cap must be in (0,1), got %.4f", s.Level2Cap)
	}
	if s.Level2BCap > s.Level2Cap {
		return fmt.Errorf("haircuts.level2b_cap (%.2f) cannot exceed level2_cap (%.2f)", s.Level2BCap, s.Level2Cap)
	}
	return nil
}
