package portfolio

import (
	"math"
	"strings"

	"github.com/bistboard/bistboard/internal/workbook"
)

// daysPerYear converts elapsed days to year fractions for annualization.
const daysPerYear = 365.25

// Holding is the fully derived per-instrument record served to the
// dashboard. Nullable metrics stay nil when the source omits them; the
// zero-valued returns below are explicit fallbacks, not computed results.
type Holding struct {
	Ticker         string  `json:"ticker"`
	Name           string  `json:"name"`
	Sector         string  `json:"sector"`
	InvestmentDate *string `json:"investment_date"`
	DaysElapsed    int     `json:"days_elapsed"`

	InvPriceTRY *float64 `json:"inv_price_try"`
	CurPriceTRY *float64 `json:"cur_price_try"`
	InvPriceUSD *float64 `json:"inv_price_usd"`
	CurPriceUSD *float64 `json:"cur_price_usd"`

	ShareholdingPct  float64 `json:"shareholding_pct"`
	InvestmentAmount float64 `json:"investment_amount"` // USD
	CurrentValue     float64 `json:"current_value"`     // proportional share, USD
	DividendsUSD     float64 `json:"dividends_usd"`

	TotalReturnUSD     float64 `json:"total_return_usd"`      // price-only, %
	TotalReturnWithDiv float64 `json:"total_return_with_div"` // %
	CAGR               float64 `json:"cagr"`                  // annualized, %

	EPS       *float64 `json:"eps"`
	High52TRY *float64 `json:"high52_try"`
	Low52TRY  *float64 `json:"low52_try"`

	Return1D  *float64 `json:"return_1d"`
	Return1W  *float64 `json:"return_1w"`
	Return1M  *float64 `json:"return_1m"`
	Return1Y  *float64 `json:"return_1y"`
	ReturnYTD *float64 `json:"ytd_return"`

	StdDev     *float64 `json:"std_dev"` // %
	Beta       *float64 `json:"beta"`
	Sharpe     *float64 `json:"sharpe"`
	Sortino    *float64 `json:"sortino"`
	VolumeCorr *float64 `json:"xu100_vol_corr"`
}

// StripTickerPrefix removes exchange prefixes from a ticker symbol.
func StripTickerPrefix(ticker string) string {
	t := strings.TrimSpace(ticker)
	t = strings.TrimPrefix(t, "IST:")
	t = strings.TrimPrefix(t, "BIST:")
	return t
}

// BuildHoldings derives one Holding per Overview row, in source row order.
func BuildHoldings(rows []workbook.OverviewRow) []Holding {
	holdings := make([]Holding, 0, len(rows))
	for _, r := range rows {
		holdings = append(holdings, buildHolding(r))
	}
	return holdings
}

func buildHolding(r workbook.OverviewRow) Holding {
	ticker := StripTickerPrefix(r.Ticker)

	name := ticker
	if r.Name != nil {
		name = *r.Name
	}

	days := 0
	if r.DayElapsed != nil {
		days = int(*r.DayElapsed)
	}

	invAmount := orZero(r.InvestmentAmount)
	curValue := orZero(r.CurrentValue)
	dividends := orZero(r.DividendUSD)

	totalReturnUSD := priceReturnPct(r.InvPriceUSD, r.CurPriceUSD)

	// Total return including dividends, on the investment-amount basis.
	// Falls back to the price-only return when no amount was invested.
	totalReturnWithDiv := totalReturnUSD
	if invAmount > 0 {
		totalReturnWithDiv = (curValue + dividends - invAmount) / invAmount * 100
	}

	return Holding{
		Ticker:             ticker,
		Name:               name,
		Sector:             r.Sector,
		InvestmentDate:     r.InvestmentDate,
		DaysElapsed:        days,
		InvPriceTRY:        roundPtr(r.InvPriceTRY, 2),
		CurPriceTRY:        roundPtr(r.CurPriceTRY, 2),
		InvPriceUSD:        roundPtr(r.InvPriceUSD, 4),
		CurPriceUSD:        roundPtr(r.CurPriceUSD, 4),
		ShareholdingPct:    orZero(roundPctPtr(r.Shareholding, 1)),
		InvestmentAmount:   round(invAmount, 0),
		CurrentValue:       round(curValue, 0),
		DividendsUSD:       round(dividends, 0),
		TotalReturnUSD:     round(totalReturnUSD, 2),
		TotalReturnWithDiv: round(totalReturnWithDiv, 2),
		CAGR:               round(cagrPct(r.InvPriceUSD, r.CurPriceUSD, days), 2),
		EPS:                roundPtr(r.EPS, 2),
		High52TRY:          roundPtr(r.High52TRY, 2),
		Low52TRY:           roundPtr(r.Low52TRY, 2),
		Return1D:           roundPctPtr(r.Return1D, 2),
		Return1W:           roundPctPtr(r.Return1W, 2),
		Return1M:           roundPctPtr(r.Return1M, 2),
		Return1Y:           roundPctPtr(r.Return1Y, 2),
		ReturnYTD:          roundPctPtr(r.ReturnYTD, 2),
		StdDev:             roundPctPtr(r.StdDev, 2),
		Beta:               roundPtr(r.Beta, 3),
		Sharpe:             roundPtr(r.Sharpe, 3),
		Sortino:            roundPtr(r.Sortino, 3),
		VolumeCorr:         roundPtr(r.VolumeCorr, 3),
	}
}

// priceReturnPct is the price-only total return in percent. Zero when the
// investment price is missing or non-positive, or the current price is
// missing.
func priceReturnPct(invPrice, curPrice *float64) float64 {
	if invPrice == nil || *invPrice <= 0 || curPrice == nil {
		return 0
	}
	return (*curPrice / *invPrice - 1) * 100
}

// cagrPct annualizes the USD price return over the elapsed days, with a
// one-year floor when the day count is non-positive. Zero under the same
// conditions as priceReturnPct.
func cagrPct(invPrice, curPrice *float64, days int) float64 {
	if invPrice == nil || *invPrice <= 0 || curPrice == nil {
		return 0
	}
	years := 1.0
	if days > 0 {
		years = float64(days) / daysPerYear
	}
	return (math.Pow(*curPrice / *invPrice, 1/years) - 1) * 100
}
