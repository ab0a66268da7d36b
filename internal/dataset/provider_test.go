package dataset

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-backtest-lab/internal/domain"
)

func day(n int) time.Time {
	return time.Date(2024, 1, n, 0, 0, 0, 0, time.UTC)
}

func makeBars(closes []float64) []*domain.PriceBar {
	bars := make([]*domain.PriceBar, len(closes))
	for i, c := range closes {
		bars[i] = &domain.PriceBar{
			Ticker: "TEST",
			Date:   day(i + 1),
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Volume: 1000,
		}
	}
	return bars
}

func TestNewProvider_EmptyDataset(t *testing.T) {
	_, err := NewProvider(nil)
	assert.ErrorIs(t, err, ErrInvalidDataset)

	_, err = NewProvider([]*domain.PriceBar{})
	assert.ErrorIs(t, err, ErrInvalidDataset)
}

func TestNewProvider_UnsortedDataset(t *testing.T) {
	bars := makeBars([]float64{1, 2, 3})
	bars[0], bars[2] = bars[2], bars[0]

	_, err := NewProvider(bars)
	assert.ErrorIs(t, err, ErrInvalidDataset)
}

func TestNewProvider_DuplicateDates(t *testing.T) {
	bars := makeBars([]float64{1, 2, 3})
	bars[1].Date = bars[0].Date

	_, err := NewProvider(bars)
	assert.ErrorIs(t, err, ErrInvalidDataset)
}

func TestWindowTo_CausalSlice(t *testing.T) {
	bars := makeBars([]float64{1, 2, 3, 4, 5})
	p, err := NewProvider(bars)
	require.NoError(t, err)

	for i := range bars {
		window, err := p.WindowTo(day(i + 1))
		require.NoError(t, err)

		// length equals the count of bars with date <= d
		require.Len(t, window, i+1)

		// max timestamp <= d
		last := window[len(window)-1]
		assert.False(t, last.Date.After(day(i+1)), "window leaked future bar")
	}
}

func TestWindowTo_PreservesOrder(t *testing.T) {
	bars := makeBars([]float64{5, 5, 5, 8, 1})
	p, err := NewProvider(bars)
	require.NoError(t, err)

	window, err := p.WindowTo(day(4))
	require.NoError(t, err)
	require.Len(t, window, 4)
	for i := 1; i < len(window); i++ {
		assert.True(t, window[i-1].Date.Before(window[i].Date))
	}
}

func TestWindowTo_BeforeFirstDate(t *testing.T) {
	p, err := NewProvider(makeBars([]float64{1, 2, 3}))
	require.NoError(t, err)

	_, err = p.WindowTo(day(1).AddDate(0, 0, -1))
	assert.ErrorIs(t, err, ErrDateOutOfRange)
}

func TestWindowTo_AfterLastDate(t *testing.T) {
	p, err := NewProvider(makeBars([]float64{1, 2, 3}))
	require.NoError(t, err)

	_, err = p.WindowTo(day(4))
	assert.ErrorIs(t, err, ErrDateOutOfRange)
}

func TestWindowTo_BetweenBars(t *testing.T) {
	// a date between two bars (weekend) is in range and returns only
	// bars at or before it
	bars := makeBars([]float64{1, 2, 3})
	bars[2].Date = day(6)
	p, err := NewProvider(bars)
	require.NoError(t, err)

	window, err := p.WindowTo(day(4))
	require.NoError(t, err)
	assert.Len(t, window, 2)
}

func TestDates_Chronological(t *testing.T) {
	p, err := NewProvider(makeBars([]float64{1, 2, 3}))
	require.NoError(t, err)

	dates := p.Dates()
	require.Len(t, dates, 3)
	for i := 1; i < len(dates); i++ {
		assert.True(t, dates[i-1].Before(dates[i]))
	}
}

func TestWindowTo_ErrorsAreSentinels(t *testing.T) {
	p, err := NewProvider(makeBars([]float64{1}))
	require.NoError(t, err)

	_, err = p.WindowTo(day(9))
	assert.True(t, errors.Is(err, ErrDateOutOfRange))
}
