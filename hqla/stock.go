package hqla

import "github.com/rustyeddy/liqstress/portfolio"

// Stock is the HQLA buffer broken down by level, after haircuts and caps.
type Stock struct {
	Level1  float64 `json:"level1" yaml:"level1"`
	Level2A float64 `json:"level2a" yaml:"level2a"`
	Level2B float64 `json:"level2b" yaml:"level2b"`

	// Amounts removed by the composition caps.
	CappedLevel2B float64 `json:"capped_level2b" yaml:"capped_level2b"`
	CappedLevel2  float64 `json:"capped_level2" yaml:"capped_level2"`
}

func (s Stock) Total() float64 {
	return s.Level1 + s.Level2A + s.Level2B
}

// Sum computes the stock from positions and their classifications. Only
// positive-notional asset positions contribute.
func Sum(pf portfolio.Portfolio, classes map[string]Classification, s Schedule) Stock {
	var st Stock
	for _, p := range pf.Positions {
		c, ok := classes[p.ID]
		if !ok || !c.Eligible() || p.Notional <= 0 || p.Type.Side() != portfolio.Asset {
			continue
		}
		v := p.Notional * (1 - c.Haircut)
		switch c.Level {
		case Level1:
			st.Level1 += v
		case Level2A:
			st.Level2A += v
		case Level2B:
			st.Level2B += v
		}
	}
	return applyCaps(st, s)
}

// applyCaps enforces L2B <= cap2B of total and L2 <= cap2 of total. With
// L2B/(L1+L2A+L2B) <= c the bound is L2B <= c/(1-c) * (L1+L2A); the L2 bound
// is analogous against L1 alone and scales 2A and 2B proportionally.
func applyCaps(st Stock, s Schedule) Stock {
	if max2B := s.Level2BCap / (1 - s.Level2BCap) * (st.Level1 + st.Level2A); st.Level2B > max2B {
		st.CappedLevel2B = st.Level2B - max2B
		st.Level2B = max2B
	}

	l2 := st.Level2A + st.Level2B
	if max2 := s.Level2Cap / (1 - s.Level2Cap) * st.Level1; l2 > max2 {
		scale := max2 / l2
		st.CappedLevel2 = l2 - max2
		st.Level2A *= scale
		st.Level2B *= scale
	}
	return st
}
