package storage

import (
	"context"
	"time"

	"stock-backtest-lab/internal/domain"
)

// BarStore provides access to daily price bar storage.
type BarStore interface {
	// InsertBulk adds multiple bars atomically. Fails entire batch on any
	// duplicate (ticker, date).
	InsertBulk(ctx context.Context, bars []*domain.PriceBar) error

	// GetByTicker retrieves all bars for a ticker, ordered by date ASC.
	GetByTicker(ctx context.Context, ticker string) ([]*domain.PriceBar, error)

	// GetByDateRange retrieves bars for a ticker within [start, end] (inclusive).
	GetByDateRange(ctx context.Context, ticker string, start, end time.Time) ([]*domain.PriceBar, error)
}

// TradeStore provides access to executed trade storage.
type TradeStore interface {
	// InsertBulk adds multiple trades atomically. Fails entire batch on any
	// duplicate (run_id, seq).
	InsertBulk(ctx context.Context, trades []*domain.Trade) error

	// GetByRunID retrieves all trades for a run, ordered by seq ASC.
	GetByRunID(ctx context.Context, runID string) ([]*domain.Trade, error)
}

// SnapshotStore provides access to daily snapshot storage.
type SnapshotStore interface {
	// InsertBulk adds multiple snapshots atomically. Fails entire batch on
	// any duplicate (run_id, date).
	InsertBulk(ctx context.Context, snapshots []*domain.DailySnapshot) error

	// GetByRunID retrieves all snapshots for a run, ordered by date ASC.
	GetByRunID(ctx context.Context, runID string) ([]*domain.DailySnapshot, error)

	// ListRunIDs returns the distinct run identifiers with stored snapshots.
	ListRunIDs(ctx context.Context) ([]string, error)
}
