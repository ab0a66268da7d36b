// Package memory provides in-memory store implementations for tests and
// fully offline runs.
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

// BarStore is an in-memory implementation of storage.BarStore.
type BarStore struct {
	mu   sync.RWMutex
	data map[string]*domain.PriceBar // keyed by (ticker, date)
}

// NewBarStore creates a new in-memory bar store.
func NewBarStore() *BarStore {
	return &BarStore{
		data: make(map[string]*domain.PriceBar),
	}
}

// barKey generates a unique key for a bar.
func barKey(ticker string, date time.Time) string {
	return fmt.Sprintf("%s|%s", ticker, date.UTC().Format("2006-01-02"))
}

// InsertBulk adds multiple bars. Fails entire batch on duplicate.
func (s *BarStore) InsertBulk(_ context.Context, bars []*domain.PriceBar) error {
	if len(bars) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Track keys in this batch to detect intra-batch duplicates
	batchKeys := make(map[string]struct{}, len(bars))

	for _, b := range bars {
		if b == nil || b.Ticker == "" {
			return storage.ErrInvalidInput
		}
		key := barKey(b.Ticker, b.Date)

		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	for _, b := range bars {
		barCopy := *b
		s.data[barKey(b.Ticker, b.Date)] = &barCopy
	}

	return nil
}

// GetByTicker retrieves all bars for a ticker, ordered by date ASC.
func (s *BarStore) GetByTicker(_ context.Context, ticker string) ([]*domain.PriceBar, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.PriceBar
	for _, b := range s.data {
		if b.Ticker == ticker {
			barCopy := *b
			result = append(result, &barCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})

	return result, nil
}

// GetByDateRange retrieves bars for a ticker within [start, end] (inclusive).
func (s *BarStore) GetByDateRange(_ context.Context, ticker string, start, end time.Time) ([]*domain.PriceBar, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.PriceBar
	for _, b := range s.data {
		if b.Ticker == ticker && !b.Date.Before(start) && !b.Date.After(end) {
			barCopy := *b
			result = append(result, &barCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})

	return result, nil
}

var _ storage.BarStore = (*BarStore)(nil)
