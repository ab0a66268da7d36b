package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"stock-backtest-lab/internal/domain"
	"stock-backtest-lab/internal/storage"
)

func testDay(n int) time.Time {
	return time.Date(2024, 1, n, 0, 0, 0, 0, time.UTC)
}

func TestBarStore_InsertBulkAndGet(t *testing.T) {
	store := NewBarStore()
	ctx := context.Background()

	bars := []*domain.PriceBar{
		{Ticker: "AAPL", Date: testDay(1), Close: 190.5, Volume: 1000},
		{Ticker: "AAPL", Date: testDay(2), Close: 191.2, Volume: 1500},
	}

	if err := store.InsertBulk(ctx, bars); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	result, err := store.GetByTicker(ctx, "AAPL")
	if err != nil {
		t.Fatalf("GetByTicker failed: %v", err)
	}

	if len(result) != 2 {
		t.Errorf("Expected 2 bars, got %d", len(result))
	}
}

func TestBarStore_DuplicateKey(t *testing.T) {
	store := NewBarStore()
	ctx := context.Background()

	bars := []*domain.PriceBar{
		{Ticker: "AAPL", Date: testDay(1), Close: 190.5},
	}

	if err := store.InsertBulk(ctx, bars); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}

	err := store.InsertBulk(ctx, bars)
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestBarStore_IntraBatchDuplicate(t *testing.T) {
	store := NewBarStore()
	ctx := context.Background()

	bars := []*domain.PriceBar{
		{Ticker: "AAPL", Date: testDay(1), Close: 190.5},
		{Ticker: "AAPL", Date: testDay(1), Close: 191.0}, // duplicate key
	}

	err := store.InsertBulk(ctx, bars)
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey for intra-batch duplicate, got %v", err)
	}

	// Verify nothing was inserted
	result, _ := store.GetByTicker(ctx, "AAPL")
	if len(result) != 0 {
		t.Errorf("Expected 0 bars (rollback), got %d", len(result))
	}
}

func TestBarStore_GetByDateRange(t *testing.T) {
	store := NewBarStore()
	ctx := context.Background()

	bars := []*domain.PriceBar{
		{Ticker: "AAPL", Date: testDay(1), Close: 1.0},
		{Ticker: "AAPL", Date: testDay(2), Close: 1.1},
		{Ticker: "AAPL", Date: testDay(3), Close: 1.2},
		{Ticker: "MSFT", Date: testDay(2), Close: 2.0}, // different ticker
	}

	if err := store.InsertBulk(ctx, bars); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	result, err := store.GetByDateRange(ctx, "AAPL", testDay(2), testDay(2))
	if err != nil {
		t.Fatalf("GetByDateRange failed: %v", err)
	}

	if len(result) != 1 {
		t.Fatalf("Expected 1 bar in range, got %d", len(result))
	}
	if !result[0].Date.Equal(testDay(2)) {
		t.Errorf("Expected date %v, got %v", testDay(2), result[0].Date)
	}
}

func TestBarStore_OrderByDate(t *testing.T) {
	store := NewBarStore()
	ctx := context.Background()

	bars := []*domain.PriceBar{
		{Ticker: "AAPL", Date: testDay(3), Close: 1.2},
		{Ticker: "AAPL", Date: testDay(1), Close: 1.0},
		{Ticker: "AAPL", Date: testDay(2), Close: 1.1},
	}

	if err := store.InsertBulk(ctx, bars); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	result, _ := store.GetByTicker(ctx, "AAPL")
	for i := 1; i < len(result); i++ {
		if !result[i-1].Date.Before(result[i].Date) {
			t.Errorf("Bars not ordered by date at index %d", i)
		}
	}
}

func TestBarStore_InvalidInput(t *testing.T) {
	store := NewBarStore()
	ctx := context.Background()

	err := store.InsertBulk(ctx, []*domain.PriceBar{{Date: testDay(1)}})
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for empty ticker, got %v", err)
	}
}

func TestBarStore_DefensiveCopies(t *testing.T) {
	store := NewBarStore()
	ctx := context.Background()

	bars := []*domain.PriceBar{
		{Ticker: "AAPL", Date: testDay(1), Close: 1.0},
	}
	if err := store.InsertBulk(ctx, bars); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	// Mutating the caller's bar must not affect stored data
	bars[0].Close = 999

	result, _ := store.GetByTicker(ctx, "AAPL")
	if result[0].Close != 1.0 {
		t.Errorf("Store did not copy on insert: got close %f", result[0].Close)
	}
}
