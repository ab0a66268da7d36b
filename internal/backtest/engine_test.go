package backtest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-backtest-lab/internal/dataset"
	"stock-backtest-lab/internal/domain"
	"stock-backtest-lab/internal/ledger"
	"stock-backtest-lab/internal/strategy"
)

func barsFromCloses(t *testing.T, ticker string, closes []float64) []*domain.PriceBar {
	t.Helper()
	bars := make([]*domain.PriceBar, len(closes))
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		bars[i] = &domain.PriceBar{
			Ticker:   ticker,
			Date:     start.AddDate(0, 0, i),
			Open:     c,
			High:     c,
			Low:      c,
			Close:    c,
			AdjClose: c,
			Volume:   1000,
		}
	}
	return bars
}

func TestEngineRunCrossoverScenario(t *testing.T) {
	bars := barsFromCloses(t, "ACME", []float64{5, 5, 5, 8, 1})
	provider, err := dataset.NewProvider(bars)
	require.NoError(t, err)

	strat := &strategy.MACrossover{ShortWindow: 2, LongWindow: 3, Quantity: 100}
	led := ledger.New("run-1", 1000)
	engine := NewEngine("run-1", "ACME", provider, strat, led)

	results, err := engine.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, results.Snapshots, 5)
	assert.Equal(t, 5, results.BarCount)
	assert.Equal(t, 2, results.SignalCount)
	assert.Equal(t, 2, results.ExecutedOrders)
	assert.Equal(t, 0, results.RejectedOrders)

	wantActions := []domain.Action{
		domain.ActionHold,
		domain.ActionHold,
		domain.ActionHold,
		domain.ActionBuy,
		domain.ActionSell,
	}
	for i, snap := range results.Snapshots {
		assert.Equal(t, wantActions[i], snap.Signal.Action, "day %d", i)
		assert.Equal(t, bars[i].Date, snap.Date)
		assert.Equal(t, "run-1", snap.RunID)
	}

	// Day 3: buy 100 @ 8 leaves 200 cash, position worth 800.
	assert.InDelta(t, 200.0, results.Snapshots[3].Cash, 1e-9)
	assert.InDelta(t, 1000.0, results.Snapshots[3].PortfolioValue, 1e-9)
	assert.Equal(t, int64(100), results.Snapshots[3].Positions["ACME"])

	// Day 4: sell 100 @ 1 leaves 300 cash and no position.
	assert.InDelta(t, 300.0, results.Snapshots[4].Cash, 1e-9)
	assert.InDelta(t, 300.0, results.Snapshots[4].PortfolioValue, 1e-9)
	assert.Equal(t, int64(0), results.Snapshots[4].Positions["ACME"])

	assert.InDelta(t, 300.0, results.FinalValue, 1e-9)
	assert.InDelta(t, 300.0, results.FinalCash, 1e-9)
	require.Len(t, results.Trades, 2)
	assert.Equal(t, domain.ActionBuy, results.Trades[0].Action)
	assert.Equal(t, domain.ActionSell, results.Trades[1].Action)
}

// sellFirst signals SELL on the first day and holds afterwards, to drive
// a rejection without touching the ledger directly.
type sellFirst struct {
	quantity int64
}

func (s *sellFirst) GenerateSignal(history []*domain.PriceBar) domain.Signal {
	if len(history) == 1 {
		return domain.Signal{Action: domain.ActionSell, Quantity: s.quantity}
	}
	return domain.Hold()
}

func (s *sellFirst) ID() string { return "sell_first" }

func TestEngineRunRejectsSellWithoutPosition(t *testing.T) {
	bars := barsFromCloses(t, "ACME", []float64{5, 6, 7})
	provider, err := dataset.NewProvider(bars)
	require.NoError(t, err)

	led := ledger.New("run-2", 1000)
	engine := NewEngine("run-2", "ACME", provider, &sellFirst{quantity: 10}, led)

	results, err := engine.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, results.RejectedOrders)
	assert.Equal(t, 0, results.ExecutedOrders)
	assert.Empty(t, results.Trades)

	// The rejected day still produced a snapshot with untouched state.
	require.Len(t, results.Snapshots, 3)
	assert.Equal(t, domain.ActionSell, results.Snapshots[0].Signal.Action)
	assert.InDelta(t, 1000.0, results.Snapshots[0].Cash, 1e-9)
	assert.InDelta(t, 1000.0, results.Snapshots[0].PortfolioValue, 1e-9)
}

func TestEngineRunRejectsBuyBeyondCash(t *testing.T) {
	bars := barsFromCloses(t, "ACME", []float64{5, 5, 5, 8, 1})
	provider, err := dataset.NewProvider(bars)
	require.NoError(t, err)

	// 100 shares at 8 cost 800 but only 500 is available.
	strat := &strategy.MACrossover{ShortWindow: 2, LongWindow: 3, Quantity: 100}
	led := ledger.New("run-3", 500)
	engine := NewEngine("run-3", "ACME", provider, strat, led)

	results, err := engine.Run(context.Background())
	require.NoError(t, err)

	// The BUY on day 3 is rejected; with no position, the SELL cross on
	// day 4 is rejected too.
	assert.Equal(t, 0, results.ExecutedOrders)
	assert.Equal(t, 2, results.RejectedOrders)
	assert.InDelta(t, 500.0, results.FinalValue, 1e-9)
	assert.Empty(t, results.Trades)
}

func TestEngineRunCausalWindows(t *testing.T) {
	bars := barsFromCloses(t, "ACME", []float64{1, 2, 3, 4})
	provider, err := dataset.NewProvider(bars)
	require.NoError(t, err)

	stub := strategy.NewStub()
	led := ledger.New("run-4", 100)
	engine := NewEngine("run-4", "ACME", provider, stub, led)

	_, err = engine.Run(context.Background())
	require.NoError(t, err)

	histories := stub.Histories()
	require.Len(t, histories, 4)
	for i, history := range histories {
		require.Len(t, history, i+1, "day %d window", i)
		// The last bar of each window is the current day, never a
		// future one.
		assert.Equal(t, bars[i].Date, history[len(history)-1].Date)
	}
}

func TestEngineRunContextCancelled(t *testing.T) {
	bars := barsFromCloses(t, "ACME", []float64{1, 2, 3})
	provider, err := dataset.NewProvider(bars)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine := NewEngine("run-5", "ACME", provider, strategy.NewStub(), ledger.New("run-5", 100))
	_, err = engine.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
