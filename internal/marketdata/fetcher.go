// Package marketdata fetches and cleans daily price history from external
// sources before it enters storage.
package marketdata

import (
	"context"
	"errors"
	"time"

	"stock-backtest-lab/internal/domain"
)

// Fetcher errors
var (
	// ErrNoData is returned when a source has no bars for the request.
	ErrNoData = errors.New("no market data returned")

	// ErrSourceUnavailable is returned for transport-level failures.
	ErrSourceUnavailable = errors.New("market data source unavailable")
)

// Fetcher retrieves daily bars for a ticker within [start, end] (inclusive).
type Fetcher interface {
	FetchDailyBars(ctx context.Context, ticker string, start, end time.Time) ([]*domain.PriceBar, error)
	Name() string
}
