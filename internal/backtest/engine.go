// Package backtest replays a historical dataset through a strategy and a
// ledger, one trading day at a time.
package backtest

import (
	"context"
	"errors"
	"time"

	"stock-backtest-lab/internal/dataset"
	"stock-backtest-lab/internal/domain"
	"stock-backtest-lab/internal/ledger"
	"stock-backtest-lab/internal/strategy"
)

// Outcome classifies what happened to one day's order.
type Outcome string

// Outcome constants.
const (
	// OutcomeExecuted means the order went through and a trade was logged.
	OutcomeExecuted Outcome = "executed"

	// OutcomeRejected means the ledger refused the order (insufficient
	// cash or shares) and the day proceeded as if no trade occurred.
	OutcomeRejected Outcome = "rejected"

	// OutcomeHeld means the strategy signaled HOLD, no order attempted.
	OutcomeHeld Outcome = "held"
)

// Results holds the output of one simulation run.
type Results struct {
	RunID      string
	StrategyID string
	Ticker     string

	BarCount       int // trading days replayed
	SignalCount    int // non-HOLD signals produced
	ExecutedOrders int
	RejectedOrders int

	// Snapshots is the complete ordered day-by-day output.
	Snapshots []*domain.DailySnapshot

	// Trades is the ledger's append-only log at the end of the run.
	Trades []domain.Trade

	FinalValue float64
	FinalCash  float64
}

// Engine executes one dataset/strategy pair against a ledger it owns
// exclusively. Transitions are strictly sequential: the ledger state at
// day t is a function of all trades up to t-1, so days are never
// processed out of order or in parallel.
type Engine struct {
	runID    string
	ticker   string
	provider *dataset.Provider
	strategy strategy.Strategy
	ledger   *ledger.Ledger
}

// NewEngine creates an engine for one run. The ledger must not be shared
// with any other component while the run is in progress.
func NewEngine(runID, ticker string, provider *dataset.Provider, strat strategy.Strategy, led *ledger.Ledger) *Engine {
	return &Engine{
		runID:    runID,
		ticker:   ticker,
		provider: provider,
		strategy: strat,
		ledger:   led,
	}
}

// Run replays every date of the dataset in chronological order.
// Per date: causal window, signal, order attempt, valuation, snapshot.
// Rejected orders are absorbed as no-ops; every other error aborts the
// run, since a silently wrong valuation is worse than a crash.
func (e *Engine) Run(ctx context.Context) (*Results, error) {
	results := &Results{
		RunID:      e.runID,
		StrategyID: e.strategy.ID(),
		Ticker:     e.ticker,
		Snapshots:  make([]*domain.DailySnapshot, 0, e.provider.Len()),
	}

	for _, date := range e.provider.Dates() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		history, err := e.provider.WindowTo(date)
		if err != nil {
			return nil, err
		}
		results.BarCount++

		signal := e.strategy.GenerateSignal(history)
		if signal.Action != domain.ActionHold {
			results.SignalCount++
		}

		// The window is never empty for dates the provider yields.
		closePrice := history[len(history)-1].Close

		outcome, err := e.applySignal(signal, closePrice, date)
		if err != nil {
			return nil, err
		}
		switch outcome {
		case OutcomeExecuted:
			results.ExecutedOrders++
		case OutcomeRejected:
			results.RejectedOrders++
		}

		value, err := e.ledger.Value(map[string]float64{e.ticker: closePrice})
		if err != nil {
			return nil, err
		}

		results.Snapshots = append(results.Snapshots, &domain.DailySnapshot{
			RunID:          e.runID,
			Date:           date,
			PortfolioValue: value,
			Cash:           e.ledger.Cash(),
			Signal:         signal,
			Positions:      e.ledger.Positions(),
		})
	}

	results.Trades = e.ledger.Trades()
	results.FinalCash = e.ledger.Cash()
	if n := len(results.Snapshots); n > 0 {
		results.FinalValue = results.Snapshots[n-1].PortfolioValue
	}

	return results, nil
}

// applySignal attempts the day's order and classifies the result.
// Insufficient cash on BUY and insufficient shares on SELL are expected
// rejections and become no-ops; any other ledger error propagates.
func (e *Engine) applySignal(signal domain.Signal, price float64, date time.Time) (Outcome, error) {
	switch signal.Action {
	case domain.ActionBuy:
		err := e.ledger.Buy(e.ticker, signal.Quantity, price, date)
		switch {
		case err == nil:
			return OutcomeExecuted, nil
		case errors.Is(err, ledger.ErrInsufficientCash):
			return OutcomeRejected, nil
		default:
			return "", err
		}
	case domain.ActionSell:
		err := e.ledger.Sell(e.ticker, signal.Quantity, price, date)
		switch {
		case err == nil:
			return OutcomeExecuted, nil
		case errors.Is(err, ledger.ErrInsufficientShares):
			return OutcomeRejected, nil
		default:
			return "", err
		}
	default:
		return OutcomeHeld, nil
	}
}
