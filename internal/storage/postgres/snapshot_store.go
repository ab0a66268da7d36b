package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"stock-backtest-lab/internal/domain"
	"stock-backtest-lab/internal/storage"
)

// SnapshotStore implements storage.SnapshotStore using PostgreSQL.
// Positions are stored as a JSONB object keyed by ticker.
type SnapshotStore struct {
	pool *Pool
}

// NewSnapshotStore creates a new SnapshotStore.
func NewSnapshotStore(pool *Pool) *SnapshotStore {
	return &SnapshotStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SnapshotStore = (*SnapshotStore)(nil)

// InsertBulk adds multiple snapshots atomically. Fails entire batch on any
// duplicate (run_id, date).
func (s *SnapshotStore) InsertBulk(ctx context.Context, snapshots []*domain.DailySnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO daily_snapshots (
			run_id, date, portfolio_value, cash, signal_action, signal_quantity, positions
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	for _, snap := range snapshots {
		if snap == nil || snap.RunID == "" {
			return storage.ErrInvalidInput
		}

		positions, err := json.Marshal(snap.Positions)
		if err != nil {
			return fmt.Errorf("marshal positions: %w", err)
		}

		_, err = tx.Exec(ctx, query,
			snap.RunID,
			snap.Date,
			snap.PortfolioValue,
			snap.Cash,
			string(snap.Signal.Action),
			snap.Signal.Quantity,
			positions,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert snapshot in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetByRunID retrieves all snapshots for a run, ordered by date ASC.
func (s *SnapshotStore) GetByRunID(ctx context.Context, runID string) ([]*domain.DailySnapshot, error) {
	query := `
		SELECT run_id, date, portfolio_value, cash, signal_action, signal_quantity, positions
		FROM daily_snapshots
		WHERE run_id = $1
		ORDER BY date ASC
	`

	rows, err := s.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("get snapshots by run id: %w", err)
	}
	defer rows.Close()

	return scanSnapshots(rows)
}

// ListRunIDs returns the distinct run identifiers with stored snapshots.
func (s *SnapshotStore) ListRunIDs(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT run_id
		FROM daily_snapshots
		ORDER BY run_id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list run ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan run id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run id rows: %w", err)
	}

	return ids, nil
}

// scanSnapshots scans multiple rows into a slice of DailySnapshot.
func scanSnapshots(rows pgx.Rows) ([]*domain.DailySnapshot, error) {
	var snapshots []*domain.DailySnapshot

	for rows.Next() {
		var snap domain.DailySnapshot
		var action string
		var positions []byte

		err := rows.Scan(
			&snap.RunID,
			&snap.Date,
			&snap.PortfolioValue,
			&snap.Cash,
			&action,
			&snap.Signal.Quantity,
			&positions,
		)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}

		snap.Signal.Action = domain.Action(action)
		snap.Date = snap.Date.UTC()
		if err := json.Unmarshal(positions, &snap.Positions); err != nil {
			return nil, fmt.Errorf("unmarshal positions: %w", err)
		}

		snapshots = append(snapshots, &snap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshot rows: %w", err)
	}

	return snapshots, nil
}
