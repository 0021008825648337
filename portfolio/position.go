package portfolio

import "time"

type InstrumentType string

const (
	CentralBankReserve     InstrumentType = "central_bank_reserve"
	Treasury               InstrumentType = "treasury"
	AgencyBond             InstrumentType = "agency_bond"
	CoveredBond            InstrumentType = "covered_bond"
	CorporateBond          InstrumentType = "corporate_bond"
	MortgageBackedSecurity InstrumentType = "mortgage_backed_security"
	Loan                   InstrumentType = "loan"
	ReverseRepo            InstrumentType = "reverse_repo"

	RetailDeposit        InstrumentType = "retail_deposit"
	SMEDeposit           InstrumentType = "sme_deposit"
	CorporateDeposit     InstrumentType = "corporate_deposit" // wholesale deposit
	CertificateOfDeposit InstrumentType = "certificate_of_deposit"
	CommercialPaper      InstrumentType = "commercial_paper"
	Repo                 InstrumentType = "repo"
	InterbankBorrowing   InstrumentType = "interbank_borrowing"
	FedFunds             InstrumentType = "fed_funds"
	FedDiscountWindow    InstrumentType = "fed_discount_window"

	CommittedLine        InstrumentType = "committed_line"
	DerivativeCollateral InstrumentType = "derivative_collateral"
	InterestRateSwap     InstrumentType = "interest_rate_swap"
	Futures              InstrumentType = "futures"
	FXForward            InstrumentType = "fx_forward"
	CrossCurrencySwap    InstrumentType = "cross_currency_swap"
)

// Side is the balance-sheet side an instrument sits on.
type Side int8

const (
	SideUnknown Side = iota
	Asset
	Liability
	OffBalance
)

func (s Side) String() string {
	switch s {
	case Asset:
		return "asset"
	case Liability:
		return "liability"
	case OffBalance:
		return "off_balance"
	default:
		return "unknown"
	}
}

// Side reports which side of the balance sheet t belongs to. Unrecognized
// types return SideUnknown.
func (t InstrumentType) Side() Side {
	switch t {
	case CentralBankReserve, Treasury, AgencyBond, CoveredBond, CorporateBond,
		MortgageBackedSecurity, Loan, ReverseRepo:
		return Asset
	case RetailDeposit, SMEDeposit, CorporateDeposit, CertificateOfDeposit,
		CommercialPaper, Repo, InterbankBorrowing, FedFunds, FedDiscountWindow:
		return Liability
	case CommittedLine, DerivativeCollateral, InterestRateSwap, Futures,
		FXForward, CrossCurrencySwap:
		return OffBalance
	default:
		return SideUnknown
	}
}

// Known reports whether t is part of the instrument taxonomy.
func (t InstrumentType) Known() bool {
	return t.Side() != SideUnknown
}

// DemandOnly reports whether t is a demand instrument that never matures.
func (t InstrumentType) DemandOnly() bool {
	switch t {
	case CentralBankReserve, RetailDeposit, SMEDeposit, CommittedLine:
		return true
	default:
		return false
	}
}

// Wholesale reports whether t is wholesale funding subject to non-roll.
func (t InstrumentType) Wholesale() bool {
	switch t {
	case Repo, CommercialPaper, CertificateOfDeposit, InterbankBorrowing,
		FedFunds, FedDiscountWindow, CorporateDeposit:
		return true
	default:
		return false
	}
}

type CounterpartyType string

const (
	Retail    CounterpartyType = "retail"
	Wholesale CounterpartyType = "wholesale"
	Interbank CounterpartyType = "interbank"
	Sovereign CounterpartyType = "sovereign"
)

// CreditQuality buckets issuer ratings: high is AA- or better, medium is A+ to
// BBB-, low is anything below or unrated.
type CreditQuality string

const (
	CreditHigh   CreditQuality = "high"
	CreditMedium CreditQuality = "medium"
	CreditLow    CreditQuality = "low"
)

// Payment is one scheduled principal repayment of an amortizing position.
type Payment struct {
	Date      time.Time `json:"date" yaml:"date"`
	Principal float64   `json:"principal" yaml:"principal"`
}

// Position is one balance-sheet or off-balance-sheet item.
type Position struct {
	ID           string           `json:"id" yaml:"id"`
	Type         InstrumentType   `json:"type" yaml:"type"`
	Notional     float64          `json:"notional" yaml:"notional"` // currency amount, >= 0
	Maturity     *time.Time       `json:"maturity,omitempty" yaml:"maturity,omitempty"`
	Rate         float64          `json:"rate" yaml:"rate"` // annual, simple, ACT/360
	Counterparty CounterpartyType `json:"counterparty" yaml:"counterparty"`
	Currency     string           `json:"currency" yaml:"currency"`

	CreditQuality       CreditQuality `json:"credit_quality,omitempty" yaml:"credit_quality,omitempty"`
	StableFundingFactor *float64      `json:"stable_funding_factor,omitempty" yaml:"stable_funding_factor,omitempty"`

	// Schedule makes the position amortizing. Any residual of Notional not
	// covered by the schedule redeems at Maturity.
	Schedule []Payment `json:"schedule,omitempty" yaml:"schedule,omitempty"`
}

// Amortizing reports whether p carries a payment schedule.
func (p Position) Amortizing() bool { return len(p.Schedule) > 0 }

// Portfolio is an unordered collection of positions.
type Portfolio struct {
	Positions []Position `json:"positions" yaml:"positions"`
}

// Len returns the number of positions.
func (pf Portfolio) Len() int { return len(pf.Positions) }

// ByID indexes the positions by identifier.
func (pf Portfolio) ByID() map[string]Position {
	out := make(map[string]Position, len(pf.Positions))
	for _, p := range pf.Positions {
		out[p.ID] = p
	}
	return out
}
