// Package yahoo is a Yahoo Finance API client for BIST quotes and
// history. It is the live-data counterpart of the workbook loader and
// backs the chat assistant's function registry.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Endpoint bases, variables so tests can point them at a stub server.
var (
	quoteURL = "https://query1.finance.yahoo.com/v7/finance/quote"
	chartURL = "https://query1.finance.yahoo.com/v8/finance/chart"
)

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"

// ValidPeriods are the ranges accepted by the chart endpoint.
var ValidPeriods = map[string]bool{
	"1d": true, "5d": true, "1mo": true, "3mo": true, "6mo": true,
	"1y": true, "2y": true, "5y": true, "10y": true, "ytd": true, "max": true,
}

// Client is a Yahoo Finance API client
type Client struct {
	client *http.Client
	log    zerolog.Logger
}

// NewClient creates a new Yahoo Finance client
func NewClient(log zerolog.Logger) *Client {
	return &Client{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log.With().Str("client", "yahoo").Logger(),
	}
}

// ConvertSymbol converts a portfolio ticker to Yahoo Finance format:
// exchange prefixes are stripped and the Istanbul suffix appended.
// Examples: "IST:THYAO" -> "THYAO.IS", "halkb" -> "HALKB.IS".
func ConvertSymbol(symbol string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	s = strings.TrimPrefix(s, "IST:")
	s = strings.TrimPrefix(s, "BIST:")
	if !strings.HasSuffix(s, ".IS") {
		s += ".IS"
	}
	return s
}

// GetQuote returns the current price and daily change for one symbol.
func (c *Client) GetQuote(ctx context.Context, symbol string) Quote {
	yfSymbol := ConvertSymbol(symbol)

	info, err := c.getQuoteInfo(ctx, yfSymbol)
	if err != nil {
		return Quote{Ticker: yfSymbol, Error: err.Error()}
	}

	price := getFloat64(info, "currentPrice")
	if price == nil {
		price = getFloat64(info, "regularMarketPrice")
	}

	q := Quote{
		Ticker:   yfSymbol,
		Price:    price,
		Currency: getString(info, "currency", "TRY"),
	}

	prev := getFloat64(info, "regularMarketPreviousClose")
	if price != nil && prev != nil && *prev != 0 {
		change := math.Round((*price-*prev)/(*prev)*100*100) / 100
		q.ChangePercent = &change
	}

	return q
}

// GetStockInfo returns the comprehensive snapshot for one symbol.
func (c *Client) GetStockInfo(ctx context.Context, symbol string) StockInfo {
	yfSymbol := ConvertSymbol(symbol)

	info, err := c.getQuoteInfo(ctx, yfSymbol)
	if err != nil {
		return StockInfo{Ticker: yfSymbol, Error: err.Error()}
	}

	price := getFloat64(info, "currentPrice")
	if price == nil {
		price = getFloat64(info, "regularMarketPrice")
	}
	open := getFloat64(info, "regularMarketOpen")
	dayHigh := getFloat64(info, "regularMarketDayHigh")
	dayLow := getFloat64(info, "regularMarketDayLow")
	volume := getInt64(info, "regularMarketVolume")

	name := getString(info, "longName", "")
	if name == "" {
		name = getString(info, "shortName", "N/A")
	}

	return StockInfo{
		Ticker:        yfSymbol,
		Name:          name,
		Sector:        getString(info, "sector", "N/A"),
		Industry:      getString(info, "industry", "N/A"),
		Currency:      getString(info, "currency", "TRY"),
		CurrentPrice:  price,
		PreviousClose: getFloat64(info, "regularMarketPreviousClose"),
		Open:          open,
		DayHigh:       dayHigh,
		DayLow:        dayLow,
		Volume:        volume,
		MarketCap:     getInt64(info, "marketCap"),
		PERatio:       getFloat64(info, "trailingPE"),
		DividendYield: getFloat64(info, "dividendYield"),
		High52Week:    getFloat64(info, "fiftyTwoWeekHigh"),
		Low52Week:     getFloat64(info, "fiftyTwoWeekLow"),
		Avg50Day:      getFloat64(info, "fiftyDayAverage"),
		Avg200Day:     getFloat64(info, "twoHundredDayAverage"),
	}
}

// GetMultipleQuotes fetches quotes for several symbols. A failing symbol
// reports its error in-band and never fails the batch.
func (c *Client) GetMultipleQuotes(ctx context.Context, symbols []string) []Quote {
	quotes := make([]Quote, 0, len(symbols))
	for _, s := range symbols {
		quotes = append(quotes, c.GetQuote(ctx, s))
	}
	return quotes
}

// GetMarketSummary counts gainers and losers across the given symbols.
func (c *Client) GetMarketSummary(ctx context.Context, symbols []string) MarketSummary {
	quotes := c.GetMultipleQuotes(ctx, symbols)

	summary := MarketSummary{
		TotalStocks: len(quotes),
		Stocks:      quotes,
	}
	for _, q := range quotes {
		if q.Error != "" || q.ChangePercent == nil {
			continue
		}
		switch {
		case *q.ChangePercent > 0:
			summary.Gainers++
		case *q.ChangePercent < 0:
			summary.Losers++
		}
	}
	summary.Unchanged = summary.TotalStocks - summary.Gainers - summary.Losers

	return summary
}

// CompareStocks returns the full snapshot for each symbol side by side.
func (c *Client) CompareStocks(ctx context.Context, symbols []string) Comparison {
	cmp := Comparison{Comparison: make([]StockInfo, 0, len(symbols))}
	for _, s := range symbols {
		cmp.Comparison = append(cmp.Comparison, c.GetStockInfo(ctx, s))
	}
	return cmp
}

// chartResponse is the v8 chart API envelope.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []float64 `json:"open"`
					High   []float64 `json:"high"`
					Low    []float64 `json:"low"`
					Close  []float64 `json:"close"`
					Volume []int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error any `json:"error"`
	} `json:"chart"`
}

// GetHistory fetches daily bars for a period (1d, 5d, 1mo, 3mo, 6mo, 1y,
// 2y, 5y, 10y, ytd, max). Only the last 10 bars are carried in History
// for the assistant; the full close series stays in Closes.
func (c *Client) GetHistory(ctx context.Context, symbol, period string) History {
	yfSymbol := ConvertSymbol(symbol)
	if period == "" {
		period = "1mo"
	}
	if !ValidPeriods[period] {
		return History{Ticker: yfSymbol, Period: period, Error: fmt.Sprintf("invalid period: %s", period)}
	}

	reqURL := fmt.Sprintf("%s/%s?range=%s&interval=1d", chartURL, url.PathEscape(yfSymbol), period)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return History{Ticker: yfSymbol, Period: period, Error: err.Error()}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return History{Ticker: yfSymbol, Period: period, Error: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return History{Ticker: yfSymbol, Period: period, Error: fmt.Sprintf("chart API returned status %d", resp.StatusCode)}
	}

	var cr chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return History{Ticker: yfSymbol, Period: period, Error: err.Error()}
	}
	if len(cr.Chart.Result) == 0 || len(cr.Chart.Result[0].Indicators.Quote) == 0 {
		return History{Ticker: yfSymbol, Period: period, Error: "no historical data available"}
	}

	res := cr.Chart.Result[0]
	quote := res.Indicators.Quote[0]

	bars := make([]Bar, 0, len(res.Timestamp))
	closes := make([]float64, 0, len(res.Timestamp))
	for i, ts := range res.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == 0 {
			continue
		}
		bar := Bar{
			Date:  time.Unix(ts, 0).UTC().Format("2006-01-02"),
			Close: quote.Close[i],
		}
		if i < len(quote.Open) {
			bar.Open = quote.Open[i]
		}
		if i < len(quote.High) {
			bar.High = quote.High[i]
		}
		if i < len(quote.Low) {
			bar.Low = quote.Low[i]
		}
		if i < len(quote.Volume) {
			bar.Volume = quote.Volume[i]
		}
		bars = append(bars, bar)
		closes = append(closes, quote.Close[i])
	}

	h := History{
		Ticker:     yfSymbol,
		Period:     period,
		DataPoints: len(bars),
		History:    bars,
		Closes:     closes,
	}
	if len(bars) > 10 {
		h.History = bars[len(bars)-10:]
	}

	return h
}

// getQuoteInfo fetches quote information from the v7 quote endpoint.
func (c *Client) getQuoteInfo(ctx context.Context, symbol string) (map[string]interface{}, error) {
	params := url.Values{}
	params.Add("symbols", symbol)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, quoteURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quote: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("quote API returned status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		QuoteResponse struct {
			Result []map[string]interface{} `json:"result"`
			Error  interface{}              `json:"error"`
		} `json:"quoteResponse"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if result.QuoteResponse.Error != nil {
		return nil, fmt.Errorf("quote API error: %v", result.QuoteResponse.Error)
	}
	if len(result.QuoteResponse.Result) == 0 {
		return nil, fmt.Errorf("no quote data returned for symbol %s", symbol)
	}

	return result.QuoteResponse.Result[0], nil
}

// Helper functions to safely extract values from map

func getFloat64(m map[string]interface{}, key string) *float64 {
	if val, ok := m[key]; ok && val != nil {
		switch v := val.(type) {
		case float64:
			return &v
		case int:
			f := float64(v)
			return &f
		case int64:
			f := float64(v)
			return &f
		}
	}
	return nil
}

func getInt64(m map[string]interface{}, key string) *int64 {
	if val, ok := m[key]; ok && val != nil {
		switch v := val.(type) {
		case float64:
			i := int64(v)
			return &i
		case int:
			i := int64(v)
			return &i
		case int64:
			return &v
		}
	}
	return nil
}

func getString(m map[string]interface{}, key string, defaultVal string) string {
	if val, ok := m[key]; ok && val != nil {
		if s, ok := val.(string); ok {
			return s
		}
	}
	return defaultVal
}
