package yahoo

// Quote is the current price and daily change of one symbol. A failed
// lookup carries its error in-band so batch calls degrade per symbol.
type Quote struct {
	Ticker        string   `json:"ticker"`
	Price         *float64 `json:"price"`
	Currency      string   `json:"currency"`
	ChangePercent *float64 `json:"change_percent"`
	Error         string   `json:"error,omitempty"`
}

// StockInfo is the comprehensive per-symbol snapshot served to the chat
// assistant.
type StockInfo struct {
	Ticker        string   `json:"ticker"`
	Name          string   `json:"name"`
	Sector        string   `json:"sector"`
	Industry      string   `json:"industry"`
	Currency      string   `json:"currency"`
	CurrentPrice  *float64 `json:"current_price"`
	PreviousClose *float64 `json:"previous_close"`
	Open          *float64 `json:"open"`
	DayHigh       *float64 `json:"day_high"`
	DayLow        *float64 `json:"day_low"`
	Volume        *int64   `json:"volume"`
	MarketCap     *int64   `json:"market_cap"`
	PERatio       *float64 `json:"pe_ratio"`
	DividendYield *float64 `json:"dividend_yield"`
	High52Week    *float64 `json:"52_week_high"`
	Low52Week     *float64 `json:"52_week_low"`
	Avg50Day      *float64 `json:"50_day_avg"`
	Avg200Day     *float64 `json:"200_day_avg"`
	Error         string   `json:"error,omitempty"`
}

// Bar is one daily OHLCV observation.
type Bar struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// History is a bounded slice of recent bars for one symbol. Closes keeps
// the full close series for indicator math; the LLM only sees the trimmed
// bars.
type History struct {
	Ticker     string    `json:"ticker"`
	Period     string    `json:"period"`
	DataPoints int       `json:"data_points"`
	History    []Bar     `json:"history"`
	Closes     []float64 `json:"-"`
	Error      string    `json:"error,omitempty"`
}

// MarketSummary counts gainers/losers across a set of symbols.
type MarketSummary struct {
	TotalStocks int     `json:"total_stocks"`
	Gainers     int     `json:"gainers"`
	Losers      int     `json:"losers"`
	Unchanged   int     `json:"unchanged"`
	Stocks      []Quote `json:"stocks"`
}

// Comparison is a side-by-side of several symbols.
type Comparison struct {
	Comparison []StockInfo `json:"comparison"`
}
