package portfolio

import (
	"sort"

	"github.com/bistboard/bistboard/internal/workbook"
)

// benchmarkInstruments are index identifiers in the combined time series.
// They chart indexed performance but are excluded from drawdown output,
// which is holding-specific.
var benchmarkInstruments = map[string]bool{
	"XU30":  true,
	"XBANK": true,
	"XU100": true,
}

// IndexedSeries carries the precomputed base-100 performance columns of
// one instrument, verbatim from the source (no re-derivation), sorted by
// date ascending.
type IndexedSeries struct {
	Dates            []*string  `json:"dates"`
	Indexed          []*float64 `json:"indexed"`
	CumulativeReturn []*float64 `json:"cumulative_return"`
	USDClose         []*float64 `json:"usd_close"`
}

// DrawdownSeries is the percent decline from the running peak of one
// instrument's USD close series. Values are <= 0 by construction.
type DrawdownSeries struct {
	Dates       []*string `json:"dates"`
	Drawdown    []float64 `json:"drawdown"`
	MaxDrawdown float64   `json:"max_drawdown"`
}

// groupHistory splits the combined series per instrument, keeping
// instruments in first-occurrence order and rows date-sorted (stable, nil
// dates last).
func groupHistory(rows []workbook.HistoryRow) ([]string, map[string][]workbook.HistoryRow) {
	var order []string
	groups := make(map[string][]workbook.HistoryRow)
	for _, r := range rows {
		if _, seen := groups[r.Instrument]; !seen {
			order = append(order, r.Instrument)
		}
		groups[r.Instrument] = append(groups[r.Instrument], r)
	}

	for _, instrument := range order {
		g := groups[instrument]
		sort.SliceStable(g, func(i, j int) bool {
			di, dj := g[i].Date, g[j].Date
			switch {
			case di == nil:
				return false
			case dj == nil:
				return true
			default:
				return *di < *dj
			}
		})
	}

	return order, groups
}

// ComputeIndexedPerformance emits the indexed/cumulative-return/USD-close
// columns for every instrument in the combined series.
func ComputeIndexedPerformance(rows []workbook.HistoryRow) map[string]*IndexedSeries {
	order, groups := groupHistory(rows)

	result := make(map[string]*IndexedSeries, len(order))
	for _, instrument := range order {
		g := groups[instrument]
		if len(g) == 0 {
			continue
		}

		s := &IndexedSeries{
			Dates:            make([]*string, len(g)),
			Indexed:          make([]*float64, len(g)),
			CumulativeReturn: make([]*float64, len(g)),
			USDClose:         make([]*float64, len(g)),
		}
		for i, r := range g {
			s.Dates[i] = r.Date
			s.Indexed[i] = roundPtr(r.Indexed, 2)
			s.CumulativeReturn[i] = roundPtr(r.CumulativeReturn, 2)
			s.USDClose[i] = roundPtr(r.USDClose, 4)
		}
		result[instrument] = s
	}

	return result
}

// ComputeDrawdowns derives the peak-tracking drawdown series per holding
// instrument. Benchmark indices are excluded.
func ComputeDrawdowns(rows []workbook.HistoryRow) map[string]*DrawdownSeries {
	order, groups := groupHistory(rows)

	result := make(map[string]*DrawdownSeries, len(order))
	for _, instrument := range order {
		if benchmarkInstruments[instrument] {
			continue
		}
		g := groups[instrument]
		if len(g) == 0 {
			continue
		}

		s := &DrawdownSeries{
			Dates:    make([]*string, len(g)),
			Drawdown: make([]float64, len(g)),
		}

		// Running peak seeded by the first observed price; missing prices
		// and an unset peak both resolve to a drawdown of 0.
		var peak float64
		for i, r := range g {
			s.Dates[i] = r.Date
			p := r.USDClose
			if p != nil && *p > peak {
				peak = *p
			}
			if p != nil && peak > 0 {
				s.Drawdown[i] = round((*p-peak)/peak*100, 2)
			}
		}

		// Drawdowns are never positive, so the most negative value is the max.
		maxDD := 0.0
		for _, dd := range s.Drawdown {
			if dd < maxDD {
				maxDD = dd
			}
		}
		s.MaxDrawdown = round(maxDD, 2)

		result[instrument] = s
	}

	return result
}
