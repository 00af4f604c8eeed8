package workbook

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCell(t *testing.T) {
	t.Run("blank", func(t *testing.T) {
		c := NewCell("   ")
		assert.True(t, c.IsEmpty())
		assert.Nil(t, c.Float())
		assert.Nil(t, c.String())
		assert.Nil(t, c.Time())
	})

	t.Run("number", func(t *testing.T) {
		c := NewCell("12.345")
		require.NotNil(t, c.Float())
		assert.Equal(t, 12.345, *c.Float())
		require.NotNil(t, c.String())
		assert.Equal(t, "12.345", *c.String())
	})

	t.Run("text", func(t *testing.T) {
		c := NewCell("THYAO")
		assert.Nil(t, c.Float())
		require.NotNil(t, c.String())
		assert.Equal(t, "THYAO", *c.String())
	})

	t.Run("textual date", func(t *testing.T) {
		c := NewCell("2024-03-15")
		require.NotNil(t, c.Time())
		assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), *c.Time())
	})

	t.Run("excel serial date", func(t *testing.T) {
		// 45366 is 2024-03-15 in the 1900 epoch
		c := NewCell("45366")
		require.NotNil(t, c.Time())
		assert.Equal(t, "2024-03-15", c.Time().Format("2006-01-02"))
		// still a number too
		require.NotNil(t, c.Float())
	})

	t.Run("small numbers are not dates", func(t *testing.T) {
		c := NewCell("123.45")
		assert.Nil(t, c.Time())
	})
}

func TestRowAccessors(t *testing.T) {
	row := Row{
		"Ticker": NewCell("HALKB"),
		"Beta":   NewCell("1.1"),
		"EPS":    NewCell(""),
	}

	require.NotNil(t, row.String("Ticker"))
	assert.Equal(t, "HALKB", *row.String("Ticker"))
	require.NotNil(t, row.Float("Beta"))
	assert.Equal(t, 1.1, *row.Float("Beta"))

	// blank and absent columns both read as nil
	assert.Nil(t, row.Float("EPS"))
	assert.Nil(t, row.Float("Sharpe"))
	assert.Nil(t, row.String("Sharpe"))
}

func TestNormalizeDate(t *testing.T) {
	t.Run("blank is nil", func(t *testing.T) {
		assert.Nil(t, NormalizeDate(NewCell("")))
	})

	t.Run("textual date canonicalizes", func(t *testing.T) {
		got := NormalizeDate(NewCell("2024-03-15 00:00:00"))
		require.NotNil(t, got)
		assert.Equal(t, "2024-03-15", *got)
	})

	t.Run("excel serial canonicalizes", func(t *testing.T) {
		got := NormalizeDate(NewCell("45366"))
		require.NotNil(t, got)
		assert.Equal(t, "2024-03-15", *got)
	})

	t.Run("undateable text passes through", func(t *testing.T) {
		got := NormalizeDate(NewCell("Q1 2024"))
		require.NotNil(t, got)
		assert.Equal(t, "Q1 2024", *got)
	})
}

func TestRawTableHasColumn(t *testing.T) {
	table := &RawTable{Name: "Overview", Columns: []string{"Ticker", "Name"}}
	assert.True(t, table.HasColumn("Ticker"))
	assert.False(t, table.HasColumn("Sector"))
	assert.Equal(t, 0, table.Len())
}
