package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/bistboard/bistboard/internal/analysis"
	"github.com/bistboard/bistboard/internal/clients/yahoo"
	"github.com/bistboard/bistboard/internal/portfolio"
)

// FunctionSpec describes a callable function in the form the model sees.
type FunctionSpec struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Parameters  map[string]string `json:"parameters"`
}

// DashboardProvider supplies the current portfolio dashboard for the
// get_portfolio function.
type DashboardProvider interface {
	Get(ctx context.Context) (*portfolio.Dashboard, error)
}

// Functions executes the market-data functions the assistant may call.
type Functions struct {
	yahoo     *yahoo.Client
	dashboard DashboardProvider
	tickers   []string
}

// NewFunctions creates the function executor. dashboard may be nil, in
// which case get_portfolio reports an error to the model.
func NewFunctions(client *yahoo.Client, dashboard DashboardProvider, tickers []string) *Functions {
	return &Functions{yahoo: client, dashboard: dashboard, tickers: tickers}
}

// Specs returns the function descriptions embedded in the system prompt.
func (f *Functions) Specs() []FunctionSpec {
	return []FunctionSpec{
		{
			Name:        "get_stock_info",
			Description: "Get comprehensive information about a stock including price, volume, PE ratio, market cap, etc.",
			Parameters:  map[string]string{"ticker": "Stock ticker symbol (e.g., 'THYAO' or 'THYAO.IS')"},
		},
		{
			Name:        "get_price",
			Description: "Get current price and daily change for a stock",
			Parameters:  map[string]string{"ticker": "Stock ticker symbol"},
		},
		{
			Name:        "get_historical_data",
			Description: "Get historical price data for a stock",
			Parameters: map[string]string{
				"ticker": "Stock ticker symbol",
				"period": "Time period: 1d, 5d, 1mo, 3mo, 6mo, 1y, 2y, 5y, 10y, ytd, max",
			},
		},
		{
			Name:        "get_multiple_prices",
			Description: "Get prices for multiple stocks at once",
			Parameters:  map[string]string{"tickers": "Comma-separated ticker symbols (optional, uses default portfolio if not provided)"},
		},
		{
			Name:        "get_portfolio_summary",
			Description: "Get summary of portfolio performance",
			Parameters:  map[string]string{"tickers": "Comma-separated ticker symbols (optional)"},
		},
		{
			Name:        "compare_stocks",
			Description: "Compare multiple stocks side by side",
			Parameters:  map[string]string{"tickers": "Comma-separated ticker symbols to compare"},
		},
		{
			Name:        "get_technical_analysis",
			Description: "Get technical indicators (RSI, moving averages, momentum, trend) for a stock",
			Parameters: map[string]string{
				"ticker": "Stock ticker symbol",
				"period": "Time period for the underlying history (default 6mo)",
			},
		},
		{
			Name:        "get_portfolio",
			Description: "Get the full portfolio dashboard: holdings, totals, risk decomposition and sector summary",
			Parameters:  map[string]string{},
		},
	}
}

// Execute runs a named function with loosely-typed parameters. Errors are
// returned in-band so the model can read them.
func (f *Functions) Execute(ctx context.Context, name string, params map[string]interface{}) interface{} {
	switch name {
	case "get_stock_info":
		return f.yahoo.GetStockInfo(ctx, stringParam(params, "ticker"))
	case "get_price":
		return f.yahoo.GetQuote(ctx, stringParam(params, "ticker"))
	case "get_historical_data":
		period := stringParam(params, "period")
		if period == "" {
			period = "1mo"
		}
		return f.yahoo.GetHistory(ctx, stringParam(params, "ticker"), period)
	case "get_multiple_prices":
		return f.yahoo.GetMultipleQuotes(ctx, f.tickersParam(params))
	case "get_portfolio_summary":
		return f.yahoo.GetMarketSummary(ctx, f.tickersParam(params))
	case "compare_stocks":
		tickers := listParam(params, "tickers")
		if len(tickers) < 2 {
			return map[string]string{"error": "compare_stocks needs at least two tickers"}
		}
		return f.yahoo.CompareStocks(ctx, tickers)
	case "get_technical_analysis":
		return f.technicalAnalysis(ctx, params)
	case "get_portfolio":
		if f.dashboard == nil {
			return map[string]string{"error": "portfolio data is not available"}
		}
		dash, err := f.dashboard.Get(ctx)
		if err != nil {
			return map[string]string{"error": err.Error()}
		}
		return dash
	default:
		return map[string]string{"error": fmt.Sprintf("unknown function: %s", name)}
	}
}

func (f *Functions) technicalAnalysis(ctx context.Context, params map[string]interface{}) interface{} {
	ticker := stringParam(params, "ticker")
	period := stringParam(params, "period")
	if period == "" {
		period = "6mo"
	}
	hist := f.yahoo.GetHistory(ctx, ticker, period)
	if hist.Error != "" {
		return map[string]string{"error": hist.Error}
	}
	return analysis.Summarize(hist.Ticker, hist.Closes)
}

// tickersParam resolves the optional tickers parameter, falling back to
// the configured portfolio.
func (f *Functions) tickersParam(params map[string]interface{}) []string {
	if tickers := listParam(params, "tickers"); len(tickers) > 0 {
		return tickers
	}
	return f.tickers
}

func stringParam(params map[string]interface{}, key string) string {
	if v, ok := params[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

// listParam accepts both a JSON array and a comma-separated string; the
// model is not consistent about which it emits.
func listParam(params map[string]interface{}, key string) []string {
	var out []string
	switch v := params[key].(type) {
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
	case string:
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}
