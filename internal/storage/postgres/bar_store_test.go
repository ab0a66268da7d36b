package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-backtest-lab/internal/domain"
	"stock-backtest-lab/internal/storage"
)

func testBar(ticker string, date time.Time, close float64) *domain.PriceBar {
	return &domain.PriceBar{
		Ticker:   ticker,
		Date:     date,
		Open:     close - 1,
		High:     close + 1,
		Low:      close - 2,
		Close:    close,
		AdjClose: close,
		Volume:   10_000,
	}
}

func TestBarStore_InsertBulkAndGetByTicker(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewBarStore(pool)

	bars := []*domain.PriceBar{
		testBar("ACME", day(2024, 1, 3), 11),
		testBar("ACME", day(2024, 1, 2), 10),
		testBar("OTHER", day(2024, 1, 2), 99),
	}
	require.NoError(t, store.InsertBulk(ctx, bars))

	got, err := store.GetByTicker(ctx, "ACME")
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, day(2024, 1, 2), got[0].Date)
	assert.Equal(t, day(2024, 1, 3), got[1].Date)
	assert.InDelta(t, 10.0, got[0].Close, 0.0001)
	assert.InDelta(t, 11.0, got[1].Close, 0.0001)
	assert.Equal(t, int64(10_000), got[0].Volume)
}

func TestBarStore_InsertBulkDuplicate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewBarStore(pool)

	require.NoError(t, store.InsertBulk(ctx, []*domain.PriceBar{
		testBar("ACME", day(2024, 1, 2), 10),
	}))

	// Same (ticker, date) again fails the whole batch, including the
	// fresh bar in it.
	err := store.InsertBulk(ctx, []*domain.PriceBar{
		testBar("ACME", day(2024, 1, 3), 11),
		testBar("ACME", day(2024, 1, 2), 12),
	})
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	got, err := store.GetByTicker(ctx, "ACME")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestBarStore_GetByDateRange(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewBarStore(pool)

	var bars []*domain.PriceBar
	for i := 0; i < 5; i++ {
		bars = append(bars, testBar("ACME", day(2024, 1, 2+i), float64(10+i)))
	}
	require.NoError(t, store.InsertBulk(ctx, bars))

	// Both endpoints inclusive.
	got, err := store.GetByDateRange(ctx, "ACME", day(2024, 1, 3), day(2024, 1, 5))
	require.NoError(t, err)

	require.Len(t, got, 3)
	assert.Equal(t, day(2024, 1, 3), got[0].Date)
	assert.Equal(t, day(2024, 1, 5), got[2].Date)
}

func TestBarStore_GetByTickerUnknown(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	got, err := NewBarStore(pool).GetByTicker(context.Background(), "NOPE")
	require.NoError(t, err)
	assert.Empty(t, got)
}
