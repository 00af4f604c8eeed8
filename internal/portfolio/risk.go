package portfolio

// SectorRisk is one sector's slice of the portfolio by current value.
type SectorRisk struct {
	Sector     string   `json:"sector"`
	Stocks     []string `json:"stocks"`
	TotalValue float64  `json:"total_value"`
	Weight     float64  `json:"weight"` // % of total portfolio value
}

// StockRisk is one instrument's weight and risk pass-throughs. The
// volatility contribution is weight x std-dev with no correlation
// adjustment - a deliberate approximation, not a full decomposition.
type StockRisk struct {
	Ticker          string   `json:"ticker"`
	Sector          string   `json:"sector"`
	Weight          float64  `json:"weight"`
	Beta            *float64 `json:"beta"`
	StdDev          *float64 `json:"std_dev"`
	VolContribution float64  `json:"vol_contribution"`
}

// RiskDecomposition groups holdings by sector and by instrument.
type RiskDecomposition struct {
	Sectors []SectorRisk `json:"sectors"`
	Stocks  []StockRisk  `json:"stocks"`
}

// ComputeRiskDecomposition derives sector weights and per-instrument risk
// contributions. The value denominator is summed here, independently of
// ComputeTotals: the two stages share no state.
func ComputeRiskDecomposition(holdings []Holding) RiskDecomposition {
	var totalValue float64
	for _, h := range holdings {
		totalValue += h.CurrentValue
	}

	// Sector fold, first-occurrence order.
	sectorIdx := make(map[string]int)
	var sectors []SectorRisk
	for _, h := range holdings {
		i, seen := sectorIdx[h.Sector]
		if !seen {
			i = len(sectors)
			sectorIdx[h.Sector] = i
			sectors = append(sectors, SectorRisk{Sector: h.Sector})
		}
		sectors[i].Stocks = append(sectors[i].Stocks, h.Ticker)
		sectors[i].TotalValue += h.CurrentValue
	}

	for i := range sectors {
		if totalValue > 0 {
			sectors[i].Weight = round(sectors[i].TotalValue/totalValue*100, 2)
		}
	}

	stocks := make([]StockRisk, 0, len(holdings))
	for _, h := range holdings {
		weight := 0.0
		if totalValue > 0 {
			weight = h.CurrentValue / totalValue * 100
		}

		stdDev := orZero(h.StdDev)
		volContribution := weight * (stdDev / 100) / 100

		stocks = append(stocks, StockRisk{
			Ticker:          h.Ticker,
			Sector:          h.Sector,
			Weight:          round(weight, 2),
			Beta:            h.Beta,
			StdDev:          h.StdDev,
			VolContribution: round(volContribution*100, 3),
		})
	}

	return RiskDecomposition{Sectors: sectors, Stocks: stocks}
}
