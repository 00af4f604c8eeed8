package portfolio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeRiskDecomposition(t *testing.T) {
	holdings := []Holding{
		{Ticker: "HALKB", Sector: "Banking", CurrentValue: 3000, Beta: fp(1.1), StdDev: fp(40.0)},
		{Ticker: "THYAO", Sector: "Aviation", CurrentValue: 5000, StdDev: fp(50.0)},
		{Ticker: "VAKBN", Sector: "Banking", CurrentValue: 2000, Beta: fp(0.9)},
	}

	rd := ComputeRiskDecomposition(holdings)

	require.Len(t, rd.Sectors, 2)
	// first-occurrence order
	assert.Equal(t, "Banking", rd.Sectors[0].Sector)
	assert.Equal(t, []string{"HALKB", "VAKBN"}, rd.Sectors[0].Stocks)
	assert.Equal(t, 5000.0, rd.Sectors[0].TotalValue)
	assert.Equal(t, 50.0, rd.Sectors[0].Weight)
	assert.Equal(t, "Aviation", rd.Sectors[1].Sector)
	assert.Equal(t, 50.0, rd.Sectors[1].Weight)

	require.Len(t, rd.Stocks, 3)
	halkb := rd.Stocks[0]
	assert.Equal(t, "HALKB", halkb.Ticker)
	assert.Equal(t, 30.0, halkb.Weight)
	require.NotNil(t, halkb.Beta)
	assert.Equal(t, 1.1, *halkb.Beta)
	// 30 * (40/100) / 100 * 100 = 12
	assert.Equal(t, 12.0, halkb.VolContribution)

	thyao := rd.Stocks[1]
	assert.Equal(t, 50.0, thyao.Weight)
	// 50 * (50/100) / 100 * 100 = 25
	assert.Equal(t, 25.0, thyao.VolContribution)

	vakbn := rd.Stocks[2]
	assert.Nil(t, vakbn.StdDev)
	assert.Equal(t, 0.0, vakbn.VolContribution)
}

func TestComputeRiskDecompositionZeroValue(t *testing.T) {
	holdings := []Holding{
		{Ticker: "HALKB", Sector: "Banking", CurrentValue: 0},
	}
	rd := ComputeRiskDecomposition(holdings)
	require.Len(t, rd.Sectors, 1)
	assert.Equal(t, 0.0, rd.Sectors[0].Weight)
	require.Len(t, rd.Stocks, 1)
	assert.Equal(t, 0.0, rd.Stocks[0].Weight)
}

func TestComputeSectorSummary(t *testing.T) {
	holdings := []Holding{
		{Ticker: "HALKB", Sector: "Banking", InvestmentAmount: 1000, CurrentValue: 1200, DividendsUSD: 50},
		{Ticker: "THYAO", Sector: "Aviation", InvestmentAmount: 2000, CurrentValue: 1800},
		{Ticker: "VAKBN", Sector: "Banking", InvestmentAmount: 500, CurrentValue: 750.4},
	}

	sectors := ComputeSectorSummary(holdings)
	require.Len(t, sectors, 2)

	banking := sectors[0]
	assert.Equal(t, "Banking", banking.Sector)
	assert.Equal(t, []string{"HALKB", "VAKBN"}, banking.Stocks)
	assert.Equal(t, 1500.0, banking.TotalInvestment)
	assert.Equal(t, 1950.0, banking.TotalCurrentValue)
	assert.Equal(t, 50.0, banking.TotalDividends)
	// (1950.4 + 50 - 1500) / 1500 * 100 = 33.36
	assert.Equal(t, 33.36, banking.ReturnPct)

	aviation := sectors[1]
	assert.Equal(t, "Aviation", aviation.Sector)
	// (1800 - 2000) / 2000 * 100
	assert.Equal(t, -10.0, aviation.ReturnPct)
}

func TestComputeSectorSummaryZeroInvestment(t *testing.T) {
	holdings := []Holding{
		{Ticker: "HALKB", Sector: "Banking", CurrentValue: 100},
	}
	sectors := ComputeSectorSummary(holdings)
	require.Len(t, sectors, 1)
	assert.Equal(t, 0.0, sectors[0].ReturnPct)
}
