package portfolio

// Proxies are quick magnitude measures of the book used in scenario summaries.
type Proxies struct {
	DepositBase   float64 `json:"deposit_base" yaml:"deposit_base"`
	WholesaleBase float64 `json:"wholesale_base" yaml:"wholesale_base"`
	IRNotionals   float64 `json:"ir_notionals" yaml:"ir_notionals"`
	FXNotionals   float64 `json:"fx_notionals" yaml:"fx_notionals"`
}

// SizeProxies sums notionals by funding and derivative family.
func SizeProxies(pf Portfolio) Proxies {
	var px Proxies
	for _, p := range pf.Positions {
		switch p.Type {
		case RetailDeposit, SMEDeposit, CorporateDeposit, CertificateOfDeposit:
			px.DepositBase += p.Notional
		case Repo, CommercialPaper, InterbankBorrowing, FedFunds, FedDiscountWindow:
			px.WholesaleBase += p.Notional
		case InterestRateSwap, Futures, Treasury, AgencyBond, CorporateBond, MortgageBackedSecurity:
			px.IRNotionals += p.Notional
		case FXForward, CrossCurrencySwap:
			px.FXNotionals += p.Notional
		}
	}
	return px
}
