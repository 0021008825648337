package behavior

import "github.com/rustyeddy/liqstress/portfolio"

// Mechanism is how a behavioral spec acts on a position.
type Mechanism string

const (
	NoMechanism    Mechanism = "none"
	RunoffMech     Mechanism = "runoff"
	NonRollMech    Mechanism = "non_roll"
	DrawdownMech   Mechanism = "drawdown"
	CollateralMech Mechanism = "collateral_call"
	ReducedInflow  Mechanism = "reduced_inflow"
)

// MechanismFor selects the mechanism for p. Types without a behavioral
// treatment, including unknown ones, get NoMechanism.
func MechanismFor(p portfolio.Position) Mechanism {
	switch p.Type {
	case portfolio.RetailDeposit, portfolio.SMEDeposit:
		return RunoffMech

	case portfolio.CorporateDeposit, portfolio.CertificateOfDeposit, portfolio.CommercialPaper,
		portfolio.Repo, portfolio.InterbankBorrowing, portfolio.FedFunds, portfolio.FedDiscountWindow:
		if p.Maturity == nil {
			return RunoffMech
		}
		return NonRollMech

	case portfolio.CommittedLine:
		return DrawdownMech

	case portfolio.DerivativeCollateral, portfolio.InterestRateSwap, portfolio.Futures,
		portfolio.FXForward, portfolio.CrossCurrencySwap:
		return CollateralMech

	case portfolio.Loan, portfolio.ReverseRepo:
		if p.Maturity == nil {
			return NoMechanism
		}
		return ReducedInflow

	case portfolio.CentralBankReserve, portfolio.Treasury, portfolio.AgencyBond,
		portfolio.CoveredBond, portfolio.CorporateBond, portfolio.MortgageBackedSecurity:
		return NoMechanism

	default:
		return NoMechanism
	}
}
