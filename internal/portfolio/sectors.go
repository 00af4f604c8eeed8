package portfolio

// SectorSummary aggregates investment, value, and dividends per sector.
// Return uses the same gain-over-investment formula as the portfolio
// totals.
type SectorSummary struct {
	Sector            string   `json:"sector"`
	Stocks            []string `json:"stocks"`
	TotalInvestment   float64  `json:"total_investment"`
	TotalCurrentValue float64  `json:"total_current_value"`
	TotalDividends    float64  `json:"total_dividends"`
	ReturnPct         float64  `json:"return_pct"`
}

// ComputeSectorSummary folds holdings into per-sector accumulators, keyed
// in first-occurrence order.
func ComputeSectorSummary(holdings []Holding) []SectorSummary {
	sectorIdx := make(map[string]int)
	var sectors []SectorSummary

	for _, h := range holdings {
		i, seen := sectorIdx[h.Sector]
		if !seen {
			i = len(sectors)
			sectorIdx[h.Sector] = i
			sectors = append(sectors, SectorSummary{Sector: h.Sector})
		}
		sectors[i].Stocks = append(sectors[i].Stocks, h.Ticker)
		sectors[i].TotalInvestment += h.InvestmentAmount
		sectors[i].TotalCurrentValue += h.CurrentValue
		sectors[i].TotalDividends += h.DividendsUSD
	}

	for i := range sectors {
		s := &sectors[i]
		ret := 0.0
		if s.TotalInvestment > 0 {
			ret = (s.TotalCurrentValue + s.TotalDividends - s.TotalInvestment) / s.TotalInvestment * 100
		}
		s.ReturnPct = round(ret, 2)
		s.TotalInvestment = round(s.TotalInvestment, 0)
		s.TotalCurrentValue = round(s.TotalCurrentValue, 0)
		s.TotalDividends = round(s.TotalDividends, 0)
	}

	return sectors
}
