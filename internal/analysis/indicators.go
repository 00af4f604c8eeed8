// Package analysis derives technical-indicator summaries from close
// series for the chat assistant.
package analysis

import (
	"math"

	"github.com/markcheno/go-talib"
)

// Summary is a compact indicator readout over a daily close series. Nil
// fields mean the series was too short for that indicator.
type Summary struct {
	Ticker      string   `json:"ticker"`
	DataPoints  int      `json:"data_points"`
	LastClose   *float64 `json:"last_close"`
	RSI14       *float64 `json:"rsi_14"`
	SMA20       *float64 `json:"sma_20"`
	SMA50       *float64 `json:"sma_50"`
	Momentum10  *float64 `json:"momentum_10"` // % change over 10 bars
	TrendSignal string   `json:"trend_signal"`
}

// Summarize computes the indicator summary for one symbol's closes.
func Summarize(ticker string, closes []float64) Summary {
	s := Summary{Ticker: ticker, DataPoints: len(closes)}
	if len(closes) == 0 {
		s.TrendSignal = "insufficient data"
		return s
	}

	last := closes[len(closes)-1]
	s.LastClose = &last

	s.RSI14 = lastOf(talibSafe(closes, 15, func() []float64 { return talib.Rsi(closes, 14) }))
	s.SMA20 = lastOf(talibSafe(closes, 20, func() []float64 { return talib.Sma(closes, 20) }))
	s.SMA50 = lastOf(talibSafe(closes, 50, func() []float64 { return talib.Sma(closes, 50) }))
	s.Momentum10 = momentumPct(closes, 10)
	s.TrendSignal = trendSignal(last, s.SMA20, s.SMA50)

	return s
}

// talibSafe guards go-talib calls against series shorter than the
// indicator lookback, which it does not tolerate.
func talibSafe(closes []float64, minLen int, f func() []float64) []float64 {
	if len(closes) < minLen {
		return nil
	}
	return f()
}

func lastOf(series []float64) *float64 {
	if len(series) == 0 {
		return nil
	}
	v := series[len(series)-1]
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

// momentumPct is the percent change over the trailing window.
func momentumPct(closes []float64, bars int) *float64 {
	if len(closes) < bars+1 {
		return nil
	}
	start := closes[len(closes)-bars-1]
	if start == 0 {
		return nil
	}
	m := (closes[len(closes)-1] - start) / start * 100
	return &m
}

func trendSignal(last float64, sma20, sma50 *float64) string {
	switch {
	case sma20 == nil || sma50 == nil:
		return "insufficient data"
	case last > *sma20 && *sma20 > *sma50:
		return "uptrend"
	case last < *sma20 && *sma20 < *sma50:
		return "downtrend"
	default:
		return "sideways"
	}
}
