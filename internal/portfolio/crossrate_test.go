package portfolio

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bistboard/bistboard/internal/workbook"
)

func closePoint(date string, close float64) workbook.ClosePoint {
	return workbook.ClosePoint{Date: sp(date), Close: fp(close)}
}

func TestComputeCrossRate(t *testing.T) {
	index := []workbook.ClosePoint{
		closePoint("2024-01-01", 95000),
		closePoint("2024-01-02", 100000),
	}
	fx := []workbook.ClosePoint{
		closePoint("2024-01-01", 29.5),
		closePoint("2024-01-02", 30.0),
	}

	cr := ComputeCrossRate(index, fx)

	assert.Equal(t, 100000.0, cr.XU100TRY)
	assert.Equal(t, 30.0, cr.USDTRY)
	assert.Equal(t, 3333.33, cr.XU100USD)
}

func TestComputeCrossRateFallbacks(t *testing.T) {
	t.Run("empty series use neutral defaults", func(t *testing.T) {
		cr := ComputeCrossRate(nil, nil)
		assert.Equal(t, 0.0, cr.XU100TRY)
		assert.Equal(t, 1.0, cr.USDTRY)
		assert.Equal(t, 0.0, cr.XU100USD)
	})

	t.Run("nil closing values fall back too", func(t *testing.T) {
		cr := ComputeCrossRate(
			[]workbook.ClosePoint{{Date: sp("2024-01-01")}},
			[]workbook.ClosePoint{{Date: sp("2024-01-01")}},
		)
		assert.Equal(t, 0.0, cr.XU100TRY)
		assert.Equal(t, 1.0, cr.USDTRY)
	})

	t.Run("non-positive fx yields zero cross rate", func(t *testing.T) {
		cr := ComputeCrossRate(
			[]workbook.ClosePoint{closePoint("2024-01-01", 100000)},
			[]workbook.ClosePoint{closePoint("2024-01-01", 0)},
		)
		assert.Equal(t, 0.0, cr.XU100USD)
	})
}
