package portfolio

import "github.com/bistboard/bistboard/internal/workbook"

// CrossRate is the composite index level restated in USD at the latest
// observation. Both inputs are assumed chronologically ascending; the last
// row of each approximates "latest" with no date alignment attempted
// between the two series.
type CrossRate struct {
	XU100TRY float64 `json:"xu100_try"`
	USDTRY   float64 `json:"usdtry"`
	XU100USD float64 `json:"xu100_usd"`
}

// ComputeCrossRate divides the latest local index close by the latest FX
// close. A missing or non-positive FX rate resolves to zero.
func ComputeCrossRate(index, fx []workbook.ClosePoint) CrossRate {
	indexClose := lastClose(index, 0)
	fxClose := lastClose(fx, 1)

	crossRate := 0.0
	if fxClose > 0 {
		crossRate = indexClose / fxClose
	}

	return CrossRate{
		XU100TRY: round(indexClose, 2),
		USDTRY:   round(fxClose, 4),
		XU100USD: round(crossRate, 2),
	}
}

func lastClose(points []workbook.ClosePoint, fallback float64) float64 {
	if len(points) == 0 {
		return fallback
	}
	last := points[len(points)-1].Close
	if last == nil {
		return fallback
	}
	return *last
}
