// Package dataset exposes causal windows over a historical bar series.
// The provider exists so strategies can only ever see bars at or before
// the simulated date, never future ones.
package dataset

import (
	"errors"
	"sort"
	"time"

	"stock-backtest-lab/internal/domain"
)

// Errors returned by the provider.
var (
	// ErrInvalidDataset is returned when the dataset is absent, empty,
	// unsorted, or contains duplicate dates.
	ErrInvalidDataset = errors.New("invalid dataset")

	// ErrDateOutOfRange is returned when a window is requested strictly
	// before the first or strictly after the last bar date.
	ErrDateOutOfRange = errors.New("date out of dataset range")
)

// Provider serves causal slices of an immutable bar series.
type Provider struct {
	bars []*domain.PriceBar
}

// NewProvider creates a provider over bars. The series must be non-empty
// and strictly increasing by date with no duplicates; anything else is
// ErrInvalidDataset.
func NewProvider(bars []*domain.PriceBar) (*Provider, error) {
	if len(bars) == 0 {
		return nil, ErrInvalidDataset
	}
	for i, b := range bars {
		if b == nil {
			return nil, ErrInvalidDataset
		}
		if i > 0 && !bars[i-1].Date.Before(b.Date) {
			// covers both out-of-order and duplicate dates
			return nil, ErrInvalidDataset
		}
	}
	return &Provider{bars: bars}, nil
}

// WindowTo returns all bars with date <= d, preserving order.
// The returned slice never contains bars after d.
func (p *Provider) WindowTo(d time.Time) ([]*domain.PriceBar, error) {
	if d.Before(p.bars[0].Date) || d.After(p.bars[len(p.bars)-1].Date) {
		return nil, ErrDateOutOfRange
	}

	// First index with date > d; everything before it is causal.
	n := sort.Search(len(p.bars), func(i int) bool {
		return p.bars[i].Date.After(d)
	})
	return p.bars[:n:n], nil
}

// Dates returns the chronological date sequence of the dataset.
func (p *Provider) Dates() []time.Time {
	dates := make([]time.Time, len(p.bars))
	for i, b := range p.bars {
		dates[i] = b.Date
	}
	return dates
}

// Len returns the number of bars in the dataset.
func (p *Provider) Len() int {
	return len(p.bars)
}
