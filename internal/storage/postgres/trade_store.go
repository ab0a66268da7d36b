package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"stock-backtest-lab/internal/domain"
	"stock-backtest-lab/internal/storage"
)

// TradeStore implements storage.TradeStore using PostgreSQL.
type TradeStore struct {
	pool *Pool
}

// NewTradeStore creates a new TradeStore.
func NewTradeStore(pool *Pool) *TradeStore {
	return &TradeStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TradeStore = (*TradeStore)(nil)

// InsertBulk adds multiple trades atomically. Fails entire batch on any
// duplicate (run_id, seq).
func (s *TradeStore) InsertBulk(ctx context.Context, trades []*domain.Trade) error {
	if len(trades) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO trades (
			run_id, seq, ticker, action, quantity, price, cash_delta, date
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	for _, t := range trades {
		if t == nil || t.RunID == "" {
			return storage.ErrInvalidInput
		}
		_, err := tx.Exec(ctx, query,
			t.RunID,
			t.Seq,
			t.Ticker,
			string(t.Action),
			t.Quantity,
			t.Price,
			t.CashDelta,
			t.Date,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert trade in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetByRunID retrieves all trades for a run, ordered by seq ASC.
func (s *TradeStore) GetByRunID(ctx context.Context, runID string) ([]*domain.Trade, error) {
	query := `
		SELECT run_id, seq, ticker, action, quantity, price, cash_delta, date
		FROM trades
		WHERE run_id = $1
		ORDER BY seq ASC
	`

	rows, err := s.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("get trades by run id: %w", err)
	}
	defer rows.Close()

	return scanTrades(rows)
}

// scanTrades scans multiple rows into a slice of Trade.
func scanTrades(rows pgx.Rows) ([]*domain.Trade, error) {
	var trades []*domain.Trade

	for rows.Next() {
		var t domain.Trade
		var action string

		err := rows.Scan(
			&t.RunID,
			&t.Seq,
			&t.Ticker,
			&action,
			&t.Quantity,
			&t.Price,
			&t.CashDelta,
			&t.Date,
		)
		if err != nil {
			return nil, fmt.Errorf("scan trade row: %w", err)
		}

		t.Action = domain.Action(action)
		t.Date = t.Date.UTC()
		trades = append(trades, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trade rows: %w", err)
	}

	return trades, nil
}
