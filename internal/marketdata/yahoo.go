package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"stock-backtest-lab/internal/domain"
)

const defaultYahooBaseURL = "https://query1.finance.yahoo.com"

// YahooFetcher implements Fetcher using the Yahoo Finance public chart API.
type YahooFetcher struct {
	client  *http.Client
	baseURL string
}

// NewYahooFetcher creates a new Yahoo Finance fetcher.
func NewYahooFetcher() *YahooFetcher {
	return &YahooFetcher{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: defaultYahooBaseURL,
	}
}

// NewYahooFetcherWithBaseURL creates a fetcher against a custom endpoint,
// used by tests to point at a local server.
func NewYahooFetcherWithBaseURL(client *http.Client, baseURL string) *YahooFetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &YahooFetcher{client: client, baseURL: baseURL}
}

// Compile-time interface check.
var _ Fetcher = (*YahooFetcher)(nil)

// Name returns the source identifier.
func (f *YahooFetcher) Name() string { return "yahoo" }

// yahooChart is the response structure from the Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []interface{} `json:"open"`
					High   []interface{} `json:"high"`
					Low    []interface{} `json:"low"`
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
				Adjclose []struct {
					Adjclose []interface{} `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// toFloat converts the API's nullable numbers; null becomes 0.
func toFloat(v interface{}) float64 {
	if v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

// FetchDailyBars retrieves daily bars for a ticker within [start, end].
// Null bars (market holidays) are skipped; the output is not yet cleaned,
// run it through Clean before storage.
func (f *YahooFetcher) FetchDailyBars(ctx context.Context, ticker string, start, end time.Time) ([]*domain.PriceBar, error) {
	// period2 is exclusive, so push it one day past the inclusive end.
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&period1=%d&period2=%d",
		f.baseURL, url.PathEscape(ticker), start.Unix(), end.AddDate(0, 0, 1).Unix())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrSourceUnavailable, resp.StatusCode)
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoData, ticker)
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoData, ticker)
	}
	quote := result.Indicators.Quote[0]

	var adjclose []interface{}
	if len(result.Indicators.Adjclose) > 0 {
		adjclose = result.Indicators.Adjclose[0].Adjclose
	}

	bars := make([]*domain.PriceBar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		o := toFloat(quote.Open[i])
		h := toFloat(quote.High[i])
		l := toFloat(quote.Low[i])
		c := toFloat(quote.Close[i])
		if o == 0 && h == 0 && l == 0 && c == 0 {
			continue // skip null bars (holidays etc.)
		}

		adj := c
		if i < len(adjclose) {
			if v := toFloat(adjclose[i]); v != 0 {
				adj = v
			}
		}

		day := time.Unix(ts, 0).UTC()
		bars = append(bars, &domain.PriceBar{
			Ticker:   ticker,
			Date:     time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC),
			Open:     o,
			High:     h,
			Low:      l,
			Close:    c,
			AdjClose: adj,
			Volume:   int64(toFloat(quote.Volume[i])),
		})
	}

	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoData, ticker)
	}

	return bars, nil
}
