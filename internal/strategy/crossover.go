package strategy

import (
	"fmt"
	"math"

	"stock-backtest-lab/internal/domain"
)

// MACrossover signals on simple moving-average crossovers of the close.
// BUY when the short average crosses above the long one, SELL when it
// crosses below. ShortWindow < LongWindow by convention, not enforced.
type MACrossover struct {
	ShortWindow int   // short SMA window, in trading days
	LongWindow  int   // long SMA window, in trading days
	Quantity    int64 // fixed order size in shares
}

// NewMACrossover creates a new MACrossover strategy.
func NewMACrossover(shortWindow, longWindow int, quantity int64) *MACrossover {
	return &MACrossover{
		ShortWindow: shortWindow,
		LongWindow:  longWindow,
		Quantity:    quantity,
	}
}

// ID returns the strategy identifier including parameters.
func (s *MACrossover) ID() string {
	return fmt.Sprintf("MA_CROSSOVER_%d_%d_q%d", s.ShortWindow, s.LongWindow, s.Quantity)
}

// GenerateSignal compares the two most recent SMA pairs:
//   - BUY  iff shortPrev <= longPrev and shortNow > longNow
//   - SELL iff shortPrev >= longPrev and shortNow < longNow
//   - HOLD otherwise
//
// A position with fewer than window preceding closes has no average; such
// positions carry NaN, and every comparison against NaN is false. That
// keeps signals suppressed through the warm-up tail: even when the history
// already spans LongWindow bars, the previous-day short average can still
// be undefined.
func (s *MACrossover) GenerateSignal(history []*domain.PriceBar) domain.Signal {
	n := len(history)
	if n < s.LongWindow || n < 2 {
		return domain.Hold()
	}

	closes := make([]float64, n)
	for i, b := range history {
		closes[i] = b.Close
	}

	maShort := rollingMean(closes, s.ShortWindow)
	maLong := rollingMean(closes, s.LongWindow)

	shortPrev, shortNow := maShort[n-2], maShort[n-1]
	longPrev, longNow := maLong[n-2], maLong[n-1]

	if shortPrev <= longPrev && shortNow > longNow {
		return domain.Signal{Action: domain.ActionBuy, Quantity: s.Quantity}
	}
	if shortPrev >= longPrev && shortNow < longNow {
		return domain.Signal{Action: domain.ActionSell, Quantity: s.Quantity}
	}
	return domain.Hold()
}

// rollingMean computes the trailing simple moving average over window
// observations. Positions with fewer than window observations are NaN.
func rollingMean(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i+1 < window {
			out[i] = math.NaN()
		} else {
			out[i] = sum / float64(window)
		}
	}
	return out
}

// Ensure MACrossover implements Strategy
var _ Strategy = (*MACrossover)(nil)
