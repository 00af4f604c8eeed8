package workbook

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// Sheet names. Overview and Append1 plus the two required index series
// must be present; everything else is best-effort.
const (
	SheetOverview      = "Overview"
	SheetHistory       = "Append1"
	SheetXU100         = "XU100"
	SheetUSDTRY        = "USDTRY"
	SheetXU30          = "XU30"
	SheetXBANK         = "XBANK"
	SheetDividends     = "Dividends"
	SheetOverviewYahoo = "Overview_Yahoo"
)

// Workbook is the loaded, validated source data. Raw tables are kept by
// sheet name; the required sheets are additionally decoded into typed rows.
// Read-only once returned by the Loader.
type Workbook struct {
	Overview []OverviewRow
	History  []HistoryRow
	XU100    []ClosePoint
	USDTRY   []ClosePoint
	XU30     []ClosePoint // nil when the sheet is absent
	XBANK    []ClosePoint // nil when the sheet is absent

	Tables map[string]*RawTable
}

// Table returns a loaded raw table by sheet name.
func (w *Workbook) Table(name string) (*RawTable, bool) {
	t, ok := w.Tables[name]
	return t, ok
}

// Loader reads a portfolio workbook from a local path or an s3:// URI.
// It is the sole I/O boundary of the computation pipeline.
type Loader struct {
	tickers []string // per-ticker optional sheets to pick up
	log     zerolog.Logger
}

// NewLoader creates a workbook loader.
func NewLoader(tickers []string, log zerolog.Logger) *Loader {
	return &Loader{
		tickers: tickers,
		log:     log.With().Str("component", "workbook").Logger(),
	}
}

// Load reads, parses, and validates the workbook. A missing required sheet
// or column is fatal; optional sheets are omitted silently.
func (l *Loader) Load(ctx context.Context, source string) (*Workbook, error) {
	path := source
	if strings.HasPrefix(source, "s3://") {
		downloaded, cleanup, err := fetchFromS3(ctx, source)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch workbook from S3: %w", err)
		}
		defer cleanup()
		path = downloaded
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()

	wb := &Workbook{Tables: make(map[string]*RawTable)}

	// Required sheets first: their absence aborts the load.
	for _, name := range []string{SheetOverview, SheetHistory, SheetXU100, SheetUSDTRY} {
		table, ok := l.readSheet(f, name)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrSheetMissing, name)
		}
		wb.Tables[name] = table
	}

	if wb.Overview, err = decodeOverview(wb.Tables[SheetOverview]); err != nil {
		return nil, err
	}
	if wb.History, err = decodeHistory(wb.Tables[SheetHistory]); err != nil {
		return nil, err
	}
	if wb.XU100, err = decodeCloses(wb.Tables[SheetXU100]); err != nil {
		return nil, err
	}
	if wb.USDTRY, err = decodeCloses(wb.Tables[SheetUSDTRY]); err != nil {
		return nil, err
	}

	// Optional sheets: absent or malformed ones are dropped, never fatal.
	optional := append([]string{SheetDividends, SheetXU30, SheetXBANK, SheetOverviewYahoo}, l.tickers...)
	for _, name := range optional {
		table, ok := l.readSheet(f, name)
		if !ok {
			continue
		}
		wb.Tables[name] = table
	}

	if t, ok := wb.Tables[SheetXU30]; ok {
		if wb.XU30, err = decodeCloses(t); err != nil {
			l.log.Warn().Err(err).Str("sheet", SheetXU30).Msg("Skipping malformed optional sheet")
			wb.XU30 = nil
		}
	}
	if t, ok := wb.Tables[SheetXBANK]; ok {
		if wb.XBANK, err = decodeCloses(t); err != nil {
			l.log.Warn().Err(err).Str("sheet", SheetXBANK).Msg("Skipping malformed optional sheet")
			wb.XBANK = nil
		}
	}

	l.log.Info().
		Int("sheets", len(wb.Tables)).
		Int("holdings", len(wb.Overview)).
		Int("history_rows", len(wb.History)).
		Msg("Workbook loaded")

	return wb, nil
}

// readSheet reads one sheet into a RawTable. Returns false when the sheet
// does not exist in the workbook.
func (l *Loader) readSheet(f *excelize.File, name string) (*RawTable, bool) {
	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, false
	}
	if len(rows) == 0 {
		return &RawTable{Name: name}, true
	}

	header := rows[0]
	columns := make([]string, len(header))
	for i, h := range header {
		// The export writes some headers with a trailing space ("Name ").
		columns[i] = strings.TrimRight(h, " ")
		if columns[i] == "" {
			columns[i] = header[i]
		}
	}

	table := &RawTable{Name: name, Columns: columns}
	for _, raw := range rows[1:] {
		row := make(Row, len(columns))
		empty := true
		for i, col := range columns {
			var v string
			if i < len(raw) {
				v = raw[i]
			}
			cell := NewCell(v)
			if !cell.IsEmpty() {
				empty = false
			}
			row[col] = cell
		}
		if empty {
			continue
		}
		table.Rows = append(table.Rows, row)
	}

	return table, true
}
