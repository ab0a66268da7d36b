package clickhouse

import (
	"context"
	"fmt"
	"time"

	"stock-backtest-lab/internal/domain"
	"stock-backtest-lab/internal/storage"
)

// BarStore implements storage.BarStore using ClickHouse.
// MergeTree engines do not enforce uniqueness at insert time, so duplicate
// (ticker, date) keys are checked explicitly before every batch.
type BarStore struct {
	conn *Conn
}

// NewBarStore creates a new BarStore.
func NewBarStore(conn *Conn) *BarStore {
	return &BarStore{conn: conn}
}

// Compile-time interface check.
var _ storage.BarStore = (*BarStore)(nil)

// InsertBulk adds multiple bars. Fails entire batch on any duplicate
// (ticker, date).
func (s *BarStore) InsertBulk(ctx context.Context, bars []*domain.PriceBar) error {
	if len(bars) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	type key struct {
		ticker string
		date   string
	}
	seen := make(map[key]struct{}, len(bars))
	for _, b := range bars {
		if b == nil || b.Ticker == "" {
			return storage.ErrInvalidInput
		}
		k := key{b.Ticker, b.Date.UTC().Format("2006-01-02")}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}

	// Check for duplicates against existing DB rows
	for _, b := range bars {
		exists, err := s.exists(ctx, b.Ticker, b.Date)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO price_bars (
			ticker, date, open, high, low, close, adj_close, volume
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, b := range bars {
		err = batch.Append(
			b.Ticker, b.Date, b.Open, b.High, b.Low,
			b.Close, b.AdjClose, b.Volume,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByTicker retrieves all bars for a ticker, ordered by date ASC.
func (s *BarStore) GetByTicker(ctx context.Context, ticker string) ([]*domain.PriceBar, error) {
	query := `
		SELECT ticker, date, open, high, low, close, adj_close, volume
		FROM price_bars
		WHERE ticker = ?
		ORDER BY date ASC
	`

	rows, err := s.conn.Query(ctx, query, ticker)
	if err != nil {
		return nil, fmt.Errorf("query by ticker: %w", err)
	}
	defer rows.Close()

	return scanBars(rows)
}

// GetByDateRange retrieves bars for a ticker within [start, end] (inclusive).
func (s *BarStore) GetByDateRange(ctx context.Context, ticker string, start, end time.Time) ([]*domain.PriceBar, error) {
	query := `
		SELECT ticker, date, open, high, low, close, adj_close, volume
		FROM price_bars
		WHERE ticker = ? AND date >= ? AND date <= ?
		ORDER BY date ASC
	`

	rows, err := s.conn.Query(ctx, query, ticker, start, end)
	if err != nil {
		return nil, fmt.Errorf("query by date range: %w", err)
	}
	defer rows.Close()

	return scanBars(rows)
}

// exists checks if a bar with the given key exists.
func (s *BarStore) exists(ctx context.Context, ticker string, date time.Time) (bool, error) {
	query := `
		SELECT count(*) FROM price_bars
		WHERE ticker = ? AND date = ?
	`

	var count uint64
	err := s.conn.QueryRow(ctx, query, ticker, date).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// chRows is the subset of driver.Rows used by the scan helper.
type chRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

// scanBars scans multiple rows.
func scanBars(rows chRows) ([]*domain.PriceBar, error) {
	var bars []*domain.PriceBar

	for rows.Next() {
		var b domain.PriceBar

		err := rows.Scan(
			&b.Ticker, &b.Date, &b.Open, &b.High, &b.Low,
			&b.Close, &b.AdjClose, &b.Volume,
		)
		if err != nil {
			return nil, fmt.Errorf("scan price bar row: %w", err)
		}

		b.Date = b.Date.UTC()
		bars = append(bars, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate price bar rows: %w", err)
	}

	return bars, nil
}
