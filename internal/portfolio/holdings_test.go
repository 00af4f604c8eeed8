package portfolio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bistboard/bistboard/internal/workbook"
)

func fp(v float64) *float64 { return &v }
func sp(s string) *string   { return &s }

func TestStripTickerPrefix(t *testing.T) {
	assert.Equal(t, "THYAO", StripTickerPrefix("IST:THYAO"))
	assert.Equal(t, "THYAO", StripTickerPrefix("BIST:THYAO"))
	assert.Equal(t, "THYAO", StripTickerPrefix("  THYAO "))
	assert.Equal(t, "THYAO", StripTickerPrefix("THYAO"))
}

func TestBuildHolding(t *testing.T) {
	row := workbook.OverviewRow{
		Ticker:           "IST:THYAO",
		Name:             sp("Turkish Airlines"),
		Sector:           "Aviation",
		InvestmentDate:   sp("2021-03-15"),
		DayElapsed:       fp(730.5),
		InvPriceTRY:      fp(13.456),
		CurPriceTRY:      fp(250.789),
		InvPriceUSD:      fp(1.83219),
		CurPriceUSD:      fp(7.41876),
		Shareholding:     fp(0.4923), // fraction of issued shares
		InvestmentAmount: fp(1000000.4),
		CurrentValue:     fp(4049523.7),
		DividendUSD:      fp(50000.2),
		EPS:              fp(12.3456),
		High52TRY:        fp(330.004),
		Low52TRY:         fp(118.996),
		Return1D:         fp(0.0123),
		Return1Y:         fp(0.8541),
		StdDev:           fp(0.4217),
		Beta:             fp(1.2342),
		Sharpe:           fp(0.98765),
	}

	h := buildHolding(row)

	assert.Equal(t, "THYAO", h.Ticker)
	assert.Equal(t, "Turkish Airlines", h.Name)
	assert.Equal(t, "Aviation", h.Sector)
	assert.Equal(t, 730, h.DaysElapsed)

	// TRY prices 2dp, USD prices 4dp
	require.NotNil(t, h.InvPriceTRY)
	assert.Equal(t, 13.46, *h.InvPriceTRY)
	require.NotNil(t, h.CurPriceUSD)
	assert.Equal(t, 7.4188, *h.CurPriceUSD)

	// fraction scaled to percent, 1dp
	assert.Equal(t, 49.2, h.ShareholdingPct)

	// money 0dp
	assert.Equal(t, 1000000.0, h.InvestmentAmount)
	assert.Equal(t, 4049524.0, h.CurrentValue)
	assert.Equal(t, 50000.0, h.DividendsUSD)

	// price return: (7.41876/1.83219 - 1) * 100 = 304.91...
	assert.InDelta(t, 304.91, h.TotalReturnUSD, 0.01)
	// with-dividends return on the amount basis
	assert.InDelta(t, 309.95, h.TotalReturnWithDiv, 0.01)

	// period returns scaled to percent, 2dp
	require.NotNil(t, h.Return1D)
	assert.Equal(t, 1.23, *h.Return1D)
	require.NotNil(t, h.Return1Y)
	assert.Equal(t, 85.41, *h.Return1Y)
	require.NotNil(t, h.StdDev)
	assert.Equal(t, 42.17, *h.StdDev)

	// ratios 3dp
	require.NotNil(t, h.Beta)
	assert.Equal(t, 1.234, *h.Beta)
	require.NotNil(t, h.Sharpe)
	assert.Equal(t, 0.988, *h.Sharpe)

	// untouched nullables stay nil
	assert.Nil(t, h.Sortino)
	assert.Nil(t, h.Return1W)
	assert.Nil(t, h.VolumeCorr)
}

func TestBuildHoldingFallbacks(t *testing.T) {
	t.Run("missing name falls back to ticker", func(t *testing.T) {
		h := buildHolding(workbook.OverviewRow{Ticker: "BIST:HALKB"})
		assert.Equal(t, "HALKB", h.Name)
	})

	t.Run("missing prices zero the returns", func(t *testing.T) {
		h := buildHolding(workbook.OverviewRow{Ticker: "HALKB"})
		assert.Equal(t, 0.0, h.TotalReturnUSD)
		assert.Equal(t, 0.0, h.TotalReturnWithDiv)
		assert.Equal(t, 0.0, h.CAGR)
		assert.Nil(t, h.InvPriceUSD)
		assert.Nil(t, h.CurPriceUSD)
	})

	t.Run("zero investment price zeroes the price return", func(t *testing.T) {
		h := buildHolding(workbook.OverviewRow{
			Ticker:      "HALKB",
			InvPriceUSD: fp(0),
			CurPriceUSD: fp(5),
		})
		assert.Equal(t, 0.0, h.TotalReturnUSD)
	})

	t.Run("zero invested amount falls back to price return", func(t *testing.T) {
		h := buildHolding(workbook.OverviewRow{
			Ticker:      "HALKB",
			InvPriceUSD: fp(2),
			CurPriceUSD: fp(3),
		})
		assert.Equal(t, 50.0, h.TotalReturnUSD)
		assert.Equal(t, 50.0, h.TotalReturnWithDiv)
	})
}

func TestCAGR(t *testing.T) {
	t.Run("doubling in exactly two years", func(t *testing.T) {
		twoYears := 2 * daysPerYear
		days := int(twoYears)
		got := cagrPct(fp(1), fp(2), days)
		// sqrt(2)-1 = 41.42%, small drift from the int truncation of days
		assert.InDelta(t, 41.42, got, 0.05)
	})

	t.Run("non-positive day count floors to one year", func(t *testing.T) {
		assert.InDelta(t, 100.0, cagrPct(fp(1), fp(2), 0), 1e-9)
		assert.InDelta(t, 100.0, cagrPct(fp(1), fp(2), -3), 1e-9)
	})

	t.Run("sub-year holding annualizes upward", func(t *testing.T) {
		// +10% in half a year is about +21% annualized
		got := cagrPct(fp(10), fp(11), 183)
		assert.Greater(t, got, 20.0)
		assert.Less(t, got, 22.0)
	})

	t.Run("missing inputs give zero", func(t *testing.T) {
		assert.Equal(t, 0.0, cagrPct(nil, fp(2), 100))
		assert.Equal(t, 0.0, cagrPct(fp(1), nil, 100))
		assert.Equal(t, 0.0, cagrPct(fp(-1), fp(2), 100))
	})
}

func TestBuildHoldingsPreservesOrder(t *testing.T) {
	rows := []workbook.OverviewRow{
		{Ticker: "THYAO"},
		{Ticker: "HALKB"},
		{Ticker: "TCELL"},
	}
	holdings := BuildHoldings(rows)
	require.Len(t, holdings, 3)
	assert.Equal(t, "THYAO", holdings[0].Ticker)
	assert.Equal(t, "HALKB", holdings[1].Ticker)
	assert.Equal(t, "TCELL", holdings[2].Ticker)
}
