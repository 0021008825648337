// Package hqla classifies positions into Basel liquidity levels and sums the
// haircut-adjusted, cap-constrained stock of high-quality liquid assets.
package hqla

import (
	"fmt"

	"github.com/rustyeddy/liqstress/diag"
	"github.com/rustyeddy/liqstress/portfolio"
)

type Level int8

const (
	None Level = iota
	Level1
	Level2A
	Level2B
)

func (l Level) String() string {
	switch l {
	case Level1:
		return "1"
	case Level2A:
		return "2A"
	case Level2B:
		return "2B"
	default:
		return "none"
	}
}

func (l Level) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

// Classification is the derived HQLA attribute of one position.
type Classification struct {
	Level   Level   `json:"level" yaml:"level"`
	Haircut float64 `json:"haircut" yaml:"haircut"` // fraction in [0,1]
}

// Eligible reports whether the position counts toward the HQLA stock.
func (c Classification) Eligible() bool { return c.Level != None }

var excluded = Classification{Level: None, Haircut: 1}

// Classify maps a position to its level and haircut. Unknown instrument types
// fail closed: they are excluded and ok is false so the caller can warn.
func Classify(p portfolio.Position, s Schedule) (c Classification, ok bool) {
	switch p.Type {
	case portfolio.CentralBankReserve, portfolio.Treasury:
		return Classification{Level: Level1, Haircut: 0}, true

	case portfolio.AgencyBond, portfolio.CoveredBond:
		return Classification{Level: Level2A, Haircut: s.Level2A}, true

	case portfolio.CorporateBond:
		switch p.CreditQuality {
		case portfolio.CreditHigh:
			return Classification{Level: Level2A, Haircut: s.Level2A}, true
		case portfolio.CreditMedium:
			return Classification{Level: Level2B, Haircut: s.Level2B}, true
		default:
			return excluded, true
		}

	case portfolio.MortgageBackedSecurity:
		if p.CreditQuality == portfolio.CreditHigh {
			return Classification{Level: Level2B, Haircut: s.Level2BRMBS}, true
		}
		return excluded, true

	case portfolio.Loan, portfolio.ReverseRepo,
		portfolio.RetailDeposit, portfolio.SMEDeposit, portfolio.CorporateDeposit,
		portfolio.CertificateOfDeposit, portfolio.CommercialPaper, portfolio.Repo,
		portfolio.InterbankBorrowing, portfolio.FedFunds, portfolio.FedDiscountWindow,
		portfolio.CommittedLine, portfolio.DerivativeCollateral, portfolio.InterestRateSwap,
		portfolio.Futures, portfolio.FXForward, portfolio.CrossCurrencySwap:
		return excluded, true

	default:
		return excluded, false
	}
}

// ClassifyAll classifies every position. Unknown types are reported as
// warnings rather than errors.
func ClassifyAll(pf portfolio.Portfolio, s Schedule) (map[string]Classification, []diag.Warning) {
	out := make(map[string]Classification, pf.Len())
	var warns []diag.Warning
	for _, p := range pf.Positions {
		c, ok := Classify(p, s)
		if !ok {
			warns = append(warns, diag.Warning{
				Code:       diag.CodeUnclassified,
				PositionID: p.ID,
				Msg:        fmt.Sprintf("unrecognized instrument type %q excluded from HQLA", p.Type),
			})
		}
		out[p.ID] = c
	}
	return out, warns
}
