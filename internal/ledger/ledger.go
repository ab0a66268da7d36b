// Package ledger tracks cash and per-instrument share counts for one
// simulation run, with an append-only trade log.
package ledger

import (
	"errors"
	"fmt"
	"time"

	"stock-backtest-lab/internal/domain"
)

// Ledger errors.
var (
	// ErrInsufficientCash is returned when a buy would cost more than the
	// available cash. State is unchanged on failure.
	ErrInsufficientCash = errors.New("insufficient cash")

	// ErrInsufficientShares is returned when a sell exceeds the held
	// position. State is unchanged on failure.
	ErrInsufficientShares = errors.New("insufficient shares")

	// ErrMissingPriceData is returned by Value when a held, non-zero
	// position has no corresponding price. A position is never valued
	// at a default price silently.
	ErrMissingPriceData = errors.New("missing price data")

	// ErrInvalidOrder is returned when quantity or price is not positive.
	ErrInvalidOrder = errors.New("order quantity and price must be positive")
)

// Ledger holds the cash balance, open positions, and trade log of one run.
// It is owned exclusively by the simulation loop; cash and every position
// count stay >= 0 across every operation.
type Ledger struct {
	runID     string
	cash      float64
	positions map[string]int64
	trades    []domain.Trade
}

// New creates a ledger with the given starting cash.
func New(runID string, initialCash float64) *Ledger {
	return &Ledger{
		runID:     runID,
		cash:      initialCash,
		positions: make(map[string]int64),
		trades:    make([]domain.Trade, 0),
	}
}

// Buy purchases quantity shares at price. Fails with ErrInsufficientCash
// when cash < quantity*price, leaving state untouched.
func (l *Ledger) Buy(ticker string, quantity int64, price float64, date time.Time) error {
	if quantity <= 0 || price <= 0 {
		return ErrInvalidOrder
	}

	cost := float64(quantity) * price
	if l.cash < cost {
		return fmt.Errorf("%w: need %.2f, have %.2f", ErrInsufficientCash, cost, l.cash)
	}

	l.cash -= cost
	l.positions[ticker] += quantity
	l.trades = append(l.trades, domain.Trade{
		RunID:     l.runID,
		Seq:       len(l.trades),
		Ticker:    ticker,
		Action:    domain.ActionBuy,
		Quantity:  quantity,
		Price:     price,
		CashDelta: -cost,
		Date:      date,
	})
	return nil
}

// Sell disposes quantity shares at price. Fails with ErrInsufficientShares
// when the held position is smaller, leaving state untouched.
func (l *Ledger) Sell(ticker string, quantity int64, price float64, date time.Time) error {
	if quantity <= 0 || price <= 0 {
		return ErrInvalidOrder
	}

	held := l.positions[ticker]
	if held < quantity {
		return fmt.Errorf("%w: selling %d, hold %d", ErrInsufficientShares, quantity, held)
	}

	proceeds := float64(quantity) * price
	l.cash += proceeds
	l.positions[ticker] = held - quantity
	l.trades = append(l.trades, domain.Trade{
		RunID:     l.runID,
		Seq:       len(l.trades),
		Ticker:    ticker,
		Action:    domain.ActionSell,
		Quantity:  quantity,
		Price:     price,
		CashDelta: proceeds,
		Date:      date,
	})
	return nil
}

// Value returns cash plus the value of every held position at the given
// prices. Fails with ErrMissingPriceData when a non-zero position has no
// price in the lookup.
func (l *Ledger) Value(prices map[string]float64) (float64, error) {
	total := l.cash
	for ticker, shares := range l.positions {
		if shares == 0 {
			continue
		}
		price, ok := prices[ticker]
		if !ok {
			return 0, fmt.Errorf("%w: %s", ErrMissingPriceData, ticker)
		}
		total += float64(shares) * price
	}
	return total, nil
}

// Cash returns the current cash balance.
func (l *Ledger) Cash() float64 {
	return l.cash
}

// Positions returns a copy of the current share counts.
func (l *Ledger) Positions() map[string]int64 {
	out := make(map[string]int64, len(l.positions))
	for ticker, shares := range l.positions {
		out[ticker] = shares
	}
	return out
}

// Trades returns a copy of the append-only trade log, in execution order.
func (l *Ledger) Trades() []domain.Trade {
	out := make([]domain.Trade, len(l.trades))
	copy(out, l.trades)
	return out
}
