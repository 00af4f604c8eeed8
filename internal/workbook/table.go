// Package workbook loads portfolio spreadsheets into typed in-memory tables.
package workbook

import (
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Cell holds a single spreadsheet value. The raw text is always kept;
// numeric and date interpretations are derived once at load time.
type Cell struct {
	Raw    string
	number *float64
	date   *time.Time
}

// dateLayouts are the textual date forms seen in exported sheets.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"01-02-06",
	"1/2/06 15:04",
	"1/2/2006",
}

// NewCell parses a raw cell value into a Cell. Empty strings stay empty
// (IsEmpty), numbers are parsed eagerly, and date-looking text is parsed
// against the known layouts.
func NewCell(raw string) Cell {
	c := Cell{Raw: strings.TrimSpace(raw)}
	if c.Raw == "" {
		return c
	}

	if f, err := strconv.ParseFloat(c.Raw, 64); err == nil {
		c.number = &f
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, c.Raw); err == nil {
			c.date = &t
			break
		}
	}

	return c
}

// IsEmpty reports whether the cell held no value at all.
func (c Cell) IsEmpty() bool {
	return c.Raw == ""
}

// Float returns the numeric interpretation, or nil for blank or
// non-numeric cells. Missing values are nil, never zero.
func (c Cell) Float() *float64 {
	return c.number
}

// String returns the raw text, or nil when the cell is blank.
func (c Cell) String() *string {
	if c.Raw == "" {
		return nil
	}
	s := c.Raw
	return &s
}

// Time returns the date interpretation when one exists. Numeric cells in
// the Excel serial-date range are converted via the 1900 epoch, which is
// how index sheets (XU100, USDTRY) store their date column.
func (c Cell) Time() *time.Time {
	if c.date != nil {
		return c.date
	}
	if c.number != nil && *c.number > 20000 && *c.number < 80000 {
		if t, err := excelize.ExcelDateToTime(*c.number, false); err == nil {
			return &t
		}
	}
	return nil
}

// Row maps column names to cells. Columns absent from the sheet are
// absent from the map; blank cells are present but empty.
type Row map[string]Cell

// Float returns the numeric value of a column, nil if absent or blank.
func (r Row) Float(col string) *float64 {
	return r[col].Float()
}

// String returns the text value of a column, nil if absent or blank.
func (r Row) String(col string) *string {
	return r[col].String()
}

// Time returns the date value of a column, nil if absent or undateable.
func (r Row) Time(col string) *time.Time {
	return r[col].Time()
}

// RawTable is one named sheet: an ordered header plus ordered rows.
// Read-only after the loader returns it.
type RawTable struct {
	Name    string
	Columns []string
	Rows    []Row
}

// HasColumn reports whether the sheet header contains the column.
func (t *RawTable) HasColumn(col string) bool {
	for _, c := range t.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// Len returns the number of data rows.
func (t *RawTable) Len() int {
	return len(t.Rows)
}
