package portfolio

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePortfolioYAML = `
positions:
  - id: UST-2Y
    type: treasury
    notional: 5000000000
    maturity: 2027-01-31
    rate: 0.042
    counterparty: sovereign
    currency: USD
  - id: RET-DDA
    type: retail_deposit
    notional: 12000000000
    counterparty: retail
    currency: USD
    stable_funding_factor: 0.9
  - id: TERM-LOAN
    type: loan
    notional: 300000000
    maturity: 2025-04-30
    rate: 0.07
    counterparty: wholesale
    currency: USD
    schedule:
      - {date: 2025-02-28, principal: 100000000}
      - {date: 2025-03-31, principal: 100000000}
`

func TestParseYAML(t *testing.T) {
	t.Parallel()

	pf, err := Parse([]byte(samplePortfolioYAML))
	require.NoError(t, err)
	require.Equal(t, 3, pf.Len())

	ust := pf.Positions[0]
	assert.Equal(t, Treasury, ust.Type)
	require.NotNil(t, ust.Maturity)
	assert.Equal(t, time.Date(2027, 1, 31, 0, 0, 0, 0, time.UTC), *ust.Maturity)

	dda := pf.Positions[1]
	assert.Nil(t, dda.Maturity)
	require.NotNil(t, dda.StableFundingFactor)
	assert.InDelta(t, 0.9, *dda.StableFundingFactor, 1e-12)

	loan := pf.Positions[2]
	assert.True(t, loan.Amortizing())
	assert.Len(t, loan.Schedule, 2)

	assert.NoError(t, pf.Validate(time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)))
}

func TestLoadFileJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "book.json")
	data := `{"positions":[{"id":"CP-1","type":"commercial_paper","notional":250,"maturity":"2025-02-14","counterparty":"wholesale","currency":"USD"}]}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	pf, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, 1, pf.Len())
	assert.Equal(t, CommercialPaper, pf.Positions[0].Type)
	assert.Equal(t, "CP-1", pf.ByID()["CP-1"].ID)
}

func TestParseBadDate(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("positions:\n  - id: X\n    type: repo\n    maturity: next-tuesday\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "maturity")
}

func TestSizeProxies(t *testing.T) {
	t.Parallel()

	pf := Portfolio{Positions: []Position{
		{ID: "a", Type: RetailDeposit, Notional: 100},
		{ID: "b", Type: CertificateOfDeposit, Notional: 50},
		{ID: "c", Type: Repo, Notional: 70},
		{ID: "d", Type: InterestRateSwap, Notional: 1000},
		{ID: "e", Type: FXForward, Notional: 300},
		{ID: "f", Type: Loan, Notional: 999},
	}}

	px := SizeProxies(pf)
	assert.InDelta(t, 150.0, px.DepositBase, 1e-9)
	assert.InDelta(t, 70.0, px.WholesaleBase, 1e-9)
	assert.InDelta(t, 1000.0, px.IRNotionals, 1e-9)
	assert.InDelta(t, 300.0, px.FXNotionals, 1e-9)
}
