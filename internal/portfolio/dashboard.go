// Package portfolio computes the dashboard aggregate from loaded workbook
// tables: per-holding metrics, value-weighted portfolio totals, indexed
// performance and drawdown series, the USD cross-rate of the composite
// index, and sector/risk breakdowns. Every function here is a pure
// transformation - no I/O, no shared state, identical output for identical
// input tables.
package portfolio

import "github.com/bistboard/bistboard/internal/workbook"

// Dashboard is the single aggregate consumed by the presentation layer.
// Plain nested structs/maps/slices throughout, directly serializable.
type Dashboard struct {
	Holdings           []Holding                  `json:"holdings"`
	Totals             Totals                     `json:"totals"`
	IndexedPerformance map[string]*IndexedSeries  `json:"indexed_performance"`
	Drawdown           map[string]*DrawdownSeries `json:"drawdown"`
	XU100USD           CrossRate                  `json:"xu100_usd"`
	RiskDecomposition  RiskDecomposition          `json:"risk_decomposition"`
	SectorSummary      []SectorSummary            `json:"sector_summary"`
}

// BuildDashboard runs the full pipeline over a loaded workbook.
func BuildDashboard(wb *workbook.Workbook) *Dashboard {
	holdings := BuildHoldings(wb.Overview)

	return &Dashboard{
		Holdings:           holdings,
		Totals:             ComputeTotals(holdings),
		IndexedPerformance: ComputeIndexedPerformance(wb.History),
		Drawdown:           ComputeDrawdowns(wb.History),
		XU100USD:           ComputeCrossRate(wb.XU100, wb.USDTRY),
		RiskDecomposition:  ComputeRiskDecomposition(holdings),
		SectorSummary:      ComputeSectorSummary(holdings),
	}
}
