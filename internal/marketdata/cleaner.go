package marketdata

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"stock-backtest-lab/internal/domain"
)

// Cleaner errors
var (
	// ErrInvalidBars is returned when cleaned data still violates the
	// dataset contract (duplicates, non-positive prices).
	ErrInvalidBars = errors.New("invalid price bars")
)

// Clean prepares raw fetched bars for storage: sorts by date, rejects
// duplicate dates, forward-fills missing prices from the previous bar, and
// zeroes missing volume. Leading bars with no price to fill from are
// dropped. The input slice is not modified.
func Clean(bars []*domain.PriceBar) ([]*domain.PriceBar, error) {
	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrInvalidBars)
	}

	sorted := make([]*domain.PriceBar, len(bars))
	for i, b := range bars {
		if b == nil {
			return nil, fmt.Errorf("%w: nil bar", ErrInvalidBars)
		}
		barCopy := *b
		sorted[i] = &barCopy
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	for i := 1; i < len(sorted); i++ {
		if sorted[i].Date.Equal(sorted[i-1].Date) {
			return nil, fmt.Errorf("%w: duplicate date %s", ErrInvalidBars, sorted[i].Date.Format("2006-01-02"))
		}
	}

	out := make([]*domain.PriceBar, 0, len(sorted))
	var prev *domain.PriceBar
	for _, b := range sorted {
		if missingPrice(b) {
			if prev == nil {
				// No earlier price to carry forward.
				continue
			}
			b.Open = prev.Open
			b.High = prev.High
			b.Low = prev.Low
			b.Close = prev.Close
			b.AdjClose = prev.AdjClose
		}
		if b.Volume < 0 {
			b.Volume = 0
		}
		prev = b
		out = append(out, b)
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no usable bars", ErrInvalidBars)
	}

	for _, b := range out {
		if b.Open <= 0 || b.High <= 0 || b.Low <= 0 || b.Close <= 0 || b.AdjClose <= 0 {
			return nil, fmt.Errorf("%w: non-positive price on %s", ErrInvalidBars, b.Date.Format("2006-01-02"))
		}
	}

	return out, nil
}

// missingPrice reports whether any price field is absent (zero or NaN).
func missingPrice(b *domain.PriceBar) bool {
	for _, v := range []float64{b.Open, b.High, b.Low, b.Close, b.AdjClose} {
		if v == 0 || math.IsNaN(v) {
			return true
		}
	}
	return false
}
