package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"stock-backtest-lab/internal/domain"
	"stock-backtest-lab/internal/storage"
)

// TradeStore is an in-memory implementation of storage.TradeStore.
type TradeStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Trade // keyed by (run_id, seq)
}

// NewTradeStore creates a new in-memory trade store.
func NewTradeStore() *TradeStore {
	return &TradeStore{
		data: make(map[string]*domain.Trade),
	}
}

// tradeKey generates a unique key for a trade.
func tradeKey(runID string, seq int) string {
	return fmt.Sprintf("%s|%d", runID, seq)
}

// InsertBulk adds multiple trades atomically. Fails entire batch on any duplicate.
func (s *TradeStore) InsertBulk(_ context.Context, trades []*domain.Trade) error {
	if len(trades) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(trades))

	for _, t := range trades {
		if t == nil || t.RunID == "" {
			return storage.ErrInvalidInput
		}
		key := tradeKey(t.RunID, t.Seq)

		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	for _, t := range trades {
		tradeCopy := *t
		s.data[tradeKey(t.RunID, t.Seq)] = &tradeCopy
	}

	return nil
}

// GetByRunID retrieves all trades for a run, ordered by seq ASC.
func (s *TradeStore) GetByRunID(_ context.Context, runID string) ([]*domain.Trade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Trade
	for _, t := range s.data {
		if t.RunID == runID {
			tradeCopy := *t
			result = append(result, &tradeCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Seq < result[j].Seq
	})

	return result, nil
}

var _ storage.TradeStore = (*TradeStore)(nil)
