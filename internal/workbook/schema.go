package workbook

import (
	"errors"
	"fmt"
)

// ErrSheetMissing marks a fatal load failure: a required sheet is absent
// from the workbook. Optional sheets are silently omitted instead.
var ErrSheetMissing = errors.New("required sheet missing")

// SchemaError reports a required column missing from a sheet. Schemas are
// validated once at load time so downstream computations never hit a
// missing-column lookup.
type SchemaError struct {
	Sheet  string
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("sheet %q: required column %q missing", e.Sheet, e.Column)
}

// OverviewRow is one holding's snapshot from the Overview sheet. All
// numeric fields are nullable; blank cells decode to nil, never zero.
type OverviewRow struct {
	Ticker         string
	Name           *string
	Sector         string
	InvestmentDate *string
	DayElapsed     *float64

	InvPriceTRY *float64
	CurPriceTRY *float64
	InvPriceUSD *float64
	CurPriceUSD *float64

	Shareholding     *float64 // fraction of the company held
	InvestmentAmount *float64 // USD
	CurrentValue     *float64 // proportional share value, USD
	DividendUSD      *float64

	EPS       *float64
	High52TRY *float64
	Low52TRY  *float64

	Return1D  *float64 // fractions, scaled to percent downstream
	Return1W  *float64
	Return1M  *float64
	Return1Y  *float64
	ReturnYTD *float64

	StdDev     *float64 // fraction
	Beta       *float64
	Sharpe     *float64
	Sortino    *float64
	VolumeCorr *float64
}

// HistoryRow is one observation from the combined Append1 time series.
type HistoryRow struct {
	Instrument       string
	Date             *string // normalized calendar date
	Indexed          *float64
	CumulativeReturn *float64
	USDClose         *float64
}

// ClosePoint is one observation from a single-instrument close series
// (XU100, USDTRY, XU30, XBANK).
type ClosePoint struct {
	Date  *string
	Close *float64
}

// NormalizeDate converts a date cell to its canonical calendar-date string:
// date-valued cells (textual dates and Excel serials) become YYYY-MM-DD,
// other non-empty text passes through as-is, blanks are nil.
func NormalizeDate(c Cell) *string {
	if c.IsEmpty() {
		return nil
	}
	if t := c.Time(); t != nil {
		s := t.Format("2006-01-02")
		return &s
	}
	return c.String()
}

func requireColumns(t *RawTable, cols ...string) error {
	for _, col := range cols {
		if !t.HasColumn(col) {
			return &SchemaError{Sheet: t.Name, Column: col}
		}
	}
	return nil
}

// decodeOverview validates and types the Overview sheet.
func decodeOverview(t *RawTable) ([]OverviewRow, error) {
	if err := requireColumns(t,
		"Ticker", "Sector", "Investment Date", "Day Elapsed",
		"Investment Price TRY", "Current Price TRY",
		"Investment Price USD", "Current Price USD",
		"Shareholding Percentage", "Investment Amount ($)", "TVF Share ($)",
		"Dividend (USD)",
	); err != nil {
		return nil, err
	}

	rows := make([]OverviewRow, 0, t.Len())
	for _, r := range t.Rows {
		ticker := r.String("Ticker")
		if ticker == nil {
			continue // trailing blank rows
		}

		sector := ""
		if s := r.String("Sector"); s != nil {
			sector = *s
		}

		rows = append(rows, OverviewRow{
			Ticker:           *ticker,
			Name:             r.String("Name"),
			Sector:           sector,
			InvestmentDate:   NormalizeDate(r["Investment Date"]),
			DayElapsed:       r.Float("Day Elapsed"),
			InvPriceTRY:      r.Float("Investment Price TRY"),
			CurPriceTRY:      r.Float("Current Price TRY"),
			InvPriceUSD:      r.Float("Investment Price USD"),
			CurPriceUSD:      r.Float("Current Price USD"),
			Shareholding:     r.Float("Shareholding Percentage"),
			InvestmentAmount: r.Float("Investment Amount ($)"),
			CurrentValue:     r.Float("TVF Share ($)"),
			DividendUSD:      r.Float("Dividend (USD)"),
			EPS:              r.Float("EPS"),
			High52TRY:        r.Float("High52 (TRY)"),
			Low52TRY:         r.Float("Low52 (TRY)"),
			Return1D:         r.Float("1D Return USD"),
			Return1W:         r.Float("1W Return USD"),
			Return1M:         r.Float("1M Return"),
			Return1Y:         r.Float("1Y Return USD"),
			ReturnYTD:        r.Float("YTD Return"),
			StdDev:           r.Float("Standart Sapma"),
			Beta:             r.Float("Beta"),
			Sharpe:           r.Float("Sharpe"),
			Sortino:          r.Float("Sortino"),
			VolumeCorr:       r.Float("XU100 Hacim Korelasyonu"),
		})
	}

	return rows, nil
}

// decodeHistory validates and types the combined Append1 time series.
func decodeHistory(t *RawTable) ([]HistoryRow, error) {
	if err := requireColumns(t,
		"Comp", "Date", "Indexed (Base 100)", "Cumulative Return %", "USD Close",
	); err != nil {
		return nil, err
	}

	rows := make([]HistoryRow, 0, t.Len())
	for _, r := range t.Rows {
		comp := r.String("Comp")
		if comp == nil {
			continue
		}

		rows = append(rows, HistoryRow{
			Instrument:       *comp,
			Date:             NormalizeDate(r["Date"]),
			Indexed:          r.Float("Indexed (Base 100)"),
			CumulativeReturn: r.Float("Cumulative Return %"),
			USDClose:         r.Float("USD Close"),
		})
	}

	return rows, nil
}

// decodeCloses validates and types a Date/Close series sheet.
func decodeCloses(t *RawTable) ([]ClosePoint, error) {
	if err := requireColumns(t, "Date", "Close"); err != nil {
		return nil, err
	}

	points := make([]ClosePoint, 0, t.Len())
	for _, r := range t.Rows {
		if r["Date"].IsEmpty() && r["Close"].IsEmpty() {
			continue
		}
		points = append(points, ClosePoint{
			Date:  NormalizeDate(r["Date"]),
			Close: r.Float("Close"),
		})
	}

	return points, nil
}
