package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"stock-backtest-lab/internal/domain"
	"stock-backtest-lab/internal/storage"
)

// SnapshotStore is an in-memory implementation of storage.SnapshotStore.
type SnapshotStore struct {
	mu   sync.RWMutex
	data map[string]*domain.DailySnapshot // keyed by (run_id, date)
}

// NewSnapshotStore creates a new in-memory snapshot store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{
		data: make(map[string]*domain.DailySnapshot),
	}
}

// snapshotKey generates a unique key for a snapshot.
func snapshotKey(runID string, date time.Time) string {
	return fmt.Sprintf("%s|%s", runID, date.UTC().Format("2006-01-02"))
}

// copySnapshot deep-copies a snapshot including its positions map.
func copySnapshot(s *domain.DailySnapshot) *domain.DailySnapshot {
	out := *s
	out.Positions = make(map[string]int64, len(s.Positions))
	for ticker, shares := range s.Positions {
		out.Positions[ticker] = shares
	}
	return &out
}

// InsertBulk adds multiple snapshots atomically. Fails entire batch on any duplicate.
func (s *SnapshotStore) InsertBulk(_ context.Context, snapshots []*domain.DailySnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(snapshots))

	for _, snap := range snapshots {
		if snap == nil || snap.RunID == "" {
			return storage.ErrInvalidInput
		}
		key := snapshotKey(snap.RunID, snap.Date)

		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	for _, snap := range snapshots {
		s.data[snapshotKey(snap.RunID, snap.Date)] = copySnapshot(snap)
	}

	return nil
}

// GetByRunID retrieves all snapshots for a run, ordered by date ASC.
func (s *SnapshotStore) GetByRunID(_ context.Context, runID string) ([]*domain.DailySnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.DailySnapshot
	for _, snap := range s.data {
		if snap.RunID == runID {
			result = append(result, copySnapshot(snap))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})

	return result, nil
}

// ListRunIDs returns the distinct run identifiers with stored snapshots.
func (s *SnapshotStore) ListRunIDs(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, snap := range s.data {
		seen[snap.RunID] = struct{}{}
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return ids, nil
}

var _ storage.SnapshotStore = (*SnapshotStore)(nil)
