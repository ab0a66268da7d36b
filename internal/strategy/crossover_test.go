package strategy

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-backtest-lab/internal/domain"
)

// Helper to build a bar series from closes, one bar per day.
func makeHistory(closes []float64) []*domain.PriceBar {
	bars := make([]*domain.PriceBar, len(closes))
	for i, c := range closes {
		bars[i] = &domain.PriceBar{
			Ticker: "TEST",
			Date:   time.Date(2024, 1, 1+i, 0, 0, 0, 0, time.UTC),
			Close:  c,
		}
	}
	return bars
}

func TestMACrossover_LiteralScenario(t *testing.T) {
	// closes [5,5,5,8,1] with MA(2,3) and quantity 100 must produce
	// HOLD, HOLD, HOLD, BUY(100), SELL(100) day by day.
	closes := []float64{5, 5, 5, 8, 1}
	s := NewMACrossover(2, 3, 100)

	expected := []domain.Signal{
		{Action: domain.ActionHold, Quantity: 0},
		{Action: domain.ActionHold, Quantity: 0},
		{Action: domain.ActionHold, Quantity: 0},
		{Action: domain.ActionBuy, Quantity: 100},
		{Action: domain.ActionSell, Quantity: 100},
	}

	bars := makeHistory(closes)
	for i := range bars {
		got := s.GenerateSignal(bars[:i+1])
		assert.Equal(t, expected[i], got, "day %d", i+1)
	}
}

func TestMACrossover_InsufficientWarmup(t *testing.T) {
	s := NewMACrossover(20, 50, 100)

	// fewer bars than the long window always holds
	got := s.GenerateSignal(makeHistory([]float64{1, 2, 3}))
	assert.Equal(t, domain.Hold(), got)
}

func TestMACrossover_WarmupShadow(t *testing.T) {
	// History length equals the long window, but the previous-day long
	// average is still undefined. NaN comparisons are false, so no
	// signal fires even on a strong move.
	s := NewMACrossover(2, 3, 50)

	got := s.GenerateSignal(makeHistory([]float64{5, 5, 100}))
	assert.Equal(t, domain.Hold(), got)
}

func TestMACrossover_TouchingCrossFromBelow(t *testing.T) {
	// shortPrev == longPrev counts as crossing from below when
	// shortNow moves strictly above.
	s := NewMACrossover(2, 3, 10)

	// closes [4,4,4,10]: prev SMAs (4,4) equal, now short 7 > long 6
	got := s.GenerateSignal(makeHistory([]float64{4, 4, 4, 10}))
	assert.Equal(t, domain.Signal{Action: domain.ActionBuy, Quantity: 10}, got)
}

func TestMACrossover_NoCrossHolds(t *testing.T) {
	s := NewMACrossover(2, 3, 10)

	// monotonically rising closes keep short above long with no cross
	// after the initial one
	closes := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	got := s.GenerateSignal(makeHistory(closes))
	assert.Equal(t, domain.Hold(), got)
}

func TestMACrossover_Deterministic(t *testing.T) {
	s := NewMACrossover(2, 3, 100)
	bars := makeHistory([]float64{5, 5, 5, 8, 1})

	first := s.GenerateSignal(bars)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, s.GenerateSignal(bars))
	}
}

func TestMACrossover_ID(t *testing.T) {
	s := NewMACrossover(20, 50, 100)
	assert.Equal(t, "MA_CROSSOVER_20_50_q100", s.ID())
}

func TestRollingMean_WarmupIsNaN(t *testing.T) {
	out := rollingMean([]float64{2, 4, 6, 8}, 3)
	require.Len(t, out, 4)

	assert.True(t, math.IsNaN(out[0]))
	assert.True(t, math.IsNaN(out[1]))
	assert.InDelta(t, 4.0, out[2], 1e-12)
	assert.InDelta(t, 6.0, out[3], 1e-12)
}
