package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"stock-backtest-lab/internal/domain"
	"stock-backtest-lab/internal/storage"
)

// BarStore implements storage.BarStore using PostgreSQL.
type BarStore struct {
	pool *Pool
}

// NewBarStore creates a new BarStore.
func NewBarStore(pool *Pool) *BarStore {
	return &BarStore{pool: pool}
}

// Compile-time interface check.
var _ storage.BarStore = (*BarStore)(nil)

// InsertBulk adds multiple bars atomically. Fails entire batch on any
// duplicate (ticker, date).
func (s *BarStore) InsertBulk(ctx context.Context, bars []*domain.PriceBar) error {
	if len(bars) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO price_bars (
			ticker, date, open, high, low, close, adj_close, volume
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	for _, b := range bars {
		if b == nil || b.Ticker == "" {
			return storage.ErrInvalidInput
		}
		_, err := tx.Exec(ctx, query,
			b.Ticker,
			b.Date,
			b.Open,
			b.High,
			b.Low,
			b.Close,
			b.AdjClose,
			b.Volume,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert price bar in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetByTicker retrieves all bars for a ticker, ordered by date ASC.
func (s *BarStore) GetByTicker(ctx context.Context, ticker string) ([]*domain.PriceBar, error) {
	query := `
		SELECT ticker, date, open, high, low, close, adj_close, volume
		FROM price_bars
		WHERE ticker = $1
		ORDER BY date ASC
	`

	rows, err := s.pool.Query(ctx, query, ticker)
	if err != nil {
		return nil, fmt.Errorf("get bars by ticker: %w", err)
	}
	defer rows.Close()

	return scanBars(rows)
}

// GetByDateRange retrieves bars for a ticker within [start, end] (inclusive).
func (s *BarStore) GetByDateRange(ctx context.Context, ticker string, start, end time.Time) ([]*domain.PriceBar, error) {
	query := `
		SELECT ticker, date, open, high, low, close, adj_close, volume
		FROM price_bars
		WHERE ticker = $1 AND date >= $2 AND date <= $3
		ORDER BY date ASC
	`

	rows, err := s.pool.Query(ctx, query, ticker, start, end)
	if err != nil {
		return nil, fmt.Errorf("get bars by date range: %w", err)
	}
	defer rows.Close()

	return scanBars(rows)
}

// scanBars scans multiple rows into a slice of PriceBar.
func scanBars(rows pgx.Rows) ([]*domain.PriceBar, error) {
	var bars []*domain.PriceBar

	for rows.Next() {
		var b domain.PriceBar

		err := rows.Scan(
			&b.Ticker,
			&b.Date,
			&b.Open,
			&b.High,
			&b.Low,
			&b.Close,
			&b.AdjClose,
			&b.Volume,
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
