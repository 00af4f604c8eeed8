package portfolio

import "gonum.org/v1/gonum/stat"

// Totals is the portfolio-level aggregate. The four weighted metrics are
// value-weighted means over the holdings that carry the metric; nil when
// no holding does.
type Totals struct {
	TotalInvestment   float64  `json:"total_investment"`
	TotalCurrentValue float64  `json:"total_current_value"`
	TotalDividends    float64  `json:"total_dividends"`
	TotalGain         float64  `json:"total_gain"`
	TotalReturnPct    float64  `json:"total_return_pct"`
	PortfolioBeta     *float64 `json:"portfolio_beta"`
	PortfolioSharpe   *float64 `json:"portfolio_sharpe"`
	PortfolioSortino  *float64 `json:"portfolio_sortino"`
	PortfolioStd      *float64 `json:"portfolio_std"`
	NumHoldings       int      `json:"num_holdings"`
}

// ComputeTotals aggregates holdings into portfolio totals. Tolerates an
// empty list (all sums zero, weighted metrics nil) and zero-value holdings
// (zero weight, division always against the guarded weight sum).
func ComputeTotals(holdings []Holding) Totals {
	var totalInv, totalCur, totalDiv float64
	for _, h := range holdings {
		totalInv += h.InvestmentAmount
		totalCur += h.CurrentValue
		totalDiv += h.DividendsUSD
	}

	totalReturn := 0.0
	if totalInv > 0 {
		totalReturn = (totalCur + totalDiv - totalInv) / totalInv * 100
	}

	return Totals{
		TotalInvestment:   round(totalInv, 0),
		TotalCurrentValue: round(totalCur, 0),
		TotalDividends:    round(totalDiv, 0),
		TotalGain:         round(totalCur+totalDiv-totalInv, 0),
		TotalReturnPct:    round(totalReturn, 2),
		PortfolioBeta:     roundPtr(weightedMetric(holdings, func(h Holding) *float64 { return h.Beta }), 3),
		PortfolioSharpe:   roundPtr(weightedMetric(holdings, func(h Holding) *float64 { return h.Sharpe }), 3),
		PortfolioSortino:  roundPtr(weightedMetric(holdings, func(h Holding) *float64 { return h.Sortino }), 3),
		PortfolioStd:      roundPtr(weightedMetric(holdings, func(h Holding) *float64 { return h.StdDev }), 2),
		NumHoldings:       len(holdings),
	}
}

// weightedMetric computes the current-value-weighted mean of a nullable
// metric over the holdings that supply it. Weights are strictly the
// current value, never the investment amount. Nil when no holding supplies
// the metric or the weight sum is zero.
func weightedMetric(holdings []Holding, metric func(Holding) *float64) *float64 {
	var values, weights []float64
	var weightSum float64
	for _, h := range holdings {
		if m := metric(h); m != nil {
			values = append(values, *m)
			weights = append(weights, h.CurrentValue)
			weightSum += h.CurrentValue
		}
	}
	if len(values) == 0 || weightSum <= 0 {
		return nil
	}

	mean := stat.Mean(values, weights)
	return &mean
}
