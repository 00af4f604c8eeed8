package portfolio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeTotals(t *testing.T) {
	holdings := []Holding{
		{InvestmentAmount: 1000, CurrentValue: 1500, DividendsUSD: 0},
		{InvestmentAmount: 2000, CurrentValue: 1800, DividendsUSD: 200},
	}

	totals := ComputeTotals(holdings)

	assert.Equal(t, 3000.0, totals.TotalInvestment)
	assert.Equal(t, 3300.0, totals.TotalCurrentValue)
	assert.Equal(t, 200.0, totals.TotalDividends)
	assert.Equal(t, 500.0, totals.TotalGain)
	// (3300 + 200 - 3000) / 3000 * 100
	assert.InDelta(t, 16.67, totals.TotalReturnPct, 0.001)
	assert.Equal(t, 2, totals.NumHoldings)
}

func TestComputeTotalsEmpty(t *testing.T) {
	totals := ComputeTotals(nil)

	assert.Equal(t, 0.0, totals.TotalInvestment)
	assert.Equal(t, 0.0, totals.TotalGain)
	assert.Equal(t, 0.0, totals.TotalReturnPct)
	assert.Equal(t, 0, totals.NumHoldings)
	assert.Nil(t, totals.PortfolioBeta)
	assert.Nil(t, totals.PortfolioSharpe)
	assert.Nil(t, totals.PortfolioSortino)
	assert.Nil(t, totals.PortfolioStd)
}

func TestWeightedMetrics(t *testing.T) {
	t.Run("value weighted mean", func(t *testing.T) {
		holdings := []Holding{
			{CurrentValue: 3000, Beta: fp(1.0)},
			{CurrentValue: 1000, Beta: fp(2.0)},
		}
		totals := ComputeTotals(holdings)
		require.NotNil(t, totals.PortfolioBeta)
		// (3000*1.0 + 1000*2.0) / 4000
		assert.Equal(t, 1.25, *totals.PortfolioBeta)
	})

	t.Run("holdings without the metric are skipped", func(t *testing.T) {
		holdings := []Holding{
			{CurrentValue: 5000},
			{CurrentValue: 1000, Beta: fp(1.2)},
		}
		totals := ComputeTotals(holdings)
		require.NotNil(t, totals.PortfolioBeta)
		assert.Equal(t, 1.2, *totals.PortfolioBeta)
	})

	t.Run("no contributors means nil, not zero", func(t *testing.T) {
		holdings := []Holding{
			{CurrentValue: 5000},
			{CurrentValue: 1000},
		}
		totals := ComputeTotals(holdings)
		assert.Nil(t, totals.PortfolioBeta)
		assert.Nil(t, totals.PortfolioStd)
	})

	t.Run("zero weight sum means nil", func(t *testing.T) {
		holdings := []Holding{
			{CurrentValue: 0, Beta: fp(1.5)},
		}
		totals := ComputeTotals(holdings)
		assert.Nil(t, totals.PortfolioBeta)
	})

	t.Run("metrics weight independently", func(t *testing.T) {
		// Sharpe present on one holding, std-dev on the other: each uses
		// only its own contributors.
		holdings := []Holding{
			{CurrentValue: 1000, Sharpe: fp(0.8)},
			{CurrentValue: 9000, StdDev: fp(35.0)},
		}
		totals := ComputeTotals(holdings)
		require.NotNil(t, totals.PortfolioSharpe)
		assert.Equal(t, 0.8, *totals.PortfolioSharpe)
		require.NotNil(t, totals.PortfolioStd)
		assert.Equal(t, 35.0, *totals.PortfolioStd)
	})
}
