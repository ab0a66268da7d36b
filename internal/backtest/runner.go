package backtest

import (
	"context"
	"errors"
	"fmt"

	"stock-backtest-lab/internal/dataset"
	"stock-backtest-lab/internal/domain"
	"stock-backtest-lab/internal/ledger"
	"stock-backtest-lab/internal/risk"
	"stock-backtest-lab/internal/storage"
	"stock-backtest-lab/internal/strategy"
)

// Runner errors
var (
	ErrNoBars         = errors.New("no price bars found for ticker")
	ErrInvalidCapital = errors.New("initial cash must be positive")
)

// Runner loads bars from storage, executes a full simulation run, and
// optionally persists trades and snapshots.
type Runner struct {
	barStore      storage.BarStore
	tradeStore    storage.TradeStore
	snapshotStore storage.SnapshotStore
}

// RunnerOptions contains configuration for creating a Runner.
// TradeStore and SnapshotStore may be nil to skip persistence.
type RunnerOptions struct {
	BarStore      storage.BarStore
	TradeStore    storage.TradeStore
	SnapshotStore storage.SnapshotStore
}

// NewRunner creates a backtest runner.
func NewRunner(opts RunnerOptions) *Runner {
	return &Runner{
		barStore:      opts.BarStore,
		tradeStore:    opts.TradeStore,
		snapshotStore: opts.SnapshotStore,
	}
}

// RunRequest describes one backtest run.
type RunRequest struct {
	Ticker      string
	InitialCash float64
	Strategy    domain.StrategyConfig

	// RiskFreeRate and Confidence feed the risk report. Confidence
	// defaults to risk.DefaultConfidence when zero.
	RiskFreeRate float64
	Confidence   float64
}

// RunReport bundles the simulation output with its risk metrics.
type RunReport struct {
	Results *Results
	Risk    *domain.RiskReport
}

// Run executes a backtest end to end.
// Steps:
//  1. Build strategy via strategy.FromConfig(cfg)
//  2. Load all bars for the ticker and build the dataset provider
//  3. Replay the dataset through the engine
//  4. Compute the risk report from the daily value series
//  5. Persist trades and snapshots when stores are configured
func (r *Runner) Run(ctx context.Context, req RunRequest) (*RunReport, error) {
	if req.InitialCash <= 0 {
		return nil, ErrInvalidCapital
	}

	// 1. Build strategy via factory
	strat, err := strategy.FromConfig(req.Strategy)
	if err != nil {
		return nil, err
	}

	// 2. Load bars and build the provider
	bars, err := r.barStore.GetByTicker(ctx, req.Ticker)
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoBars, req.Ticker)
	}

	provider, err := dataset.NewProvider(bars)
	if err != nil {
		return nil, err
	}

	// 3. Replay through the engine
	runID := fmt.Sprintf("%s_%s", strat.ID(), req.Ticker)
	led := ledger.New(runID, req.InitialCash)
	engine := NewEngine(runID, req.Ticker, provider, strat, led)

	results, err := engine.Run(ctx)
	if err != nil {
		return nil, err
	}

	// 4. Risk report from the daily value series
	report := &RunReport{Results: results}
	values := make([]float64, 0, len(results.Snapshots))
	for _, snap := range results.Snapshots {
		values = append(values, snap.PortfolioValue)
	}
	if returns := risk.ReturnsFromValues(values); returns != nil {
		analyzer, err := risk.NewAnalyzer(returns)
		if err != nil {
			return nil, err
		}
		confidence := req.Confidence
		if confidence == 0 {
			confidence = risk.DefaultConfidence
		}
		riskReport := analyzer.Metrics(req.RiskFreeRate, confidence)
		report.Risk = &riskReport
	}

	// 5. Persist trades and snapshots
	if r.tradeStore != nil && len(results.Trades) > 0 {
		trades := make([]*domain.Trade, len(results.Trades))
		for i := range results.Trades {
			trades[i] = &results.Trades[i]
		}
		if err := r.tradeStore.InsertBulk(ctx, trades); err != nil {
			return nil, err
		}
	}
	if r.snapshotStore != nil && len(results.Snapshots) > 0 {
		if err := r.snapshotStore.InsertBulk(ctx, results.Snapshots); err != nil {
			return nil, err
		}
	}

	return report, nil
}
