package reporting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stock-backtest-lab/internal/domain"
	"stock-backtest-lab/internal/risk"
	"stock-backtest-lab/internal/storage"
)

// Generator errors
var (
	ErrNoSnapshots = errors.New("no snapshots stored for run")
)

// Generator produces reports from stored run output.
type Generator struct {
	tradeStore    storage.TradeStore
	snapshotStore storage.SnapshotStore
	now           func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator(tradeStore storage.TradeStore, snapshotStore storage.SnapshotStore) *Generator {
	return &Generator{
		tradeStore:    tradeStore,
		snapshotStore: snapshotStore,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate builds a complete report for one run.
func (g *Generator) Generate(ctx context.Context, runID string, riskFreeRate, confidence float64) (*Report, error) {
	snapshots, err := g.snapshotStore.GetByRunID(ctx, runID)
	if err != nil {
		return nil, err
	}
	if len(snapshots) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoSnapshots, runID)
	}

	trades, err := g.tradeStore.GetByRunID(ctx, runID)
	if err != nil {
		return nil, err
	}

	report := &Report{
		GeneratedAt: g.now(),
		RunID:       runID,
		PeriodStart: snapshots[0].Date,
		PeriodEnd:   snapshots[len(snapshots)-1].Date,
		TradingDays: len(snapshots),
		Summary:     buildSummary(snapshots, trades),
		Trades:      buildTradeRows(trades),
		EquityCurve: buildEquityCurve(snapshots),
	}
	if len(trades) > 0 {
		report.Ticker = trades[0].Ticker
	}

	riskSection, err := buildRiskSection(snapshots, riskFreeRate, confidence)
	if err != nil {
		return nil, err
	}
	report.Risk = riskSection

	return report, nil
}

func buildSummary(snapshots []*domain.DailySnapshot, trades []*domain.Trade) RunSummary {
	first := snapshots[0]
	last := snapshots[len(snapshots)-1]

	summary := RunSummary{
		StartValue:  first.PortfolioValue,
		FinalValue:  last.PortfolioValue,
		FinalCash:   last.Cash,
		TotalTrades: len(trades),
	}
	if first.PortfolioValue != 0 {
		summary.TotalReturn = last.PortfolioValue/first.PortfolioValue - 1
	}

	for _, t := range trades {
		switch t.Action {
		case domain.ActionBuy:
			summary.BuyCount++
			summary.TotalCashSpent += -t.CashDelta
		case domain.ActionSell:
			summary.SellCount++
			summary.TotalProceeds += t.CashDelta
		}
	}

	return summary
}

func buildRiskSection(snapshots []*domain.DailySnapshot, riskFreeRate, confidence float64) (RiskSection, error) {
	if confidence == 0 {
		confidence = risk.DefaultConfidence
	}
	section := RiskSection{
		RiskFreeRate: riskFreeRate,
		Confidence:   confidence,
	}

	values := make([]float64, len(snapshots))
	for i, snap := range snapshots {
		values[i] = snap.PortfolioValue
	}

	returns := risk.ReturnsFromValues(values)
	if returns == nil {
		// A single-day run has no return series.
		return section, nil
	}

	analyzer, err := risk.NewAnalyzer(returns)
	if err != nil {
		return section, err
	}

	metrics := analyzer.Metrics(riskFreeRate, confidence)
	section.AnnualizedReturn = metrics.AnnualizedReturn
	section.AnnualizedVolatility = metrics.AnnualizedVolatility
	section.SharpeRatio = metrics.SharpeRatio
	section.MaxDrawdown = metrics.MaxDrawdown
	section.ValueAtRisk = metrics.ValueAtRisk

	return section, nil
}

func buildTradeRows(trades []*domain.Trade) []TradeRow {
	rows := make([]TradeRow, len(trades))
	for i, t := range trades {
		rows[i] = TradeRow{
			Seq:       t.Seq,
			Date:      t.Date,
			Action:    string(t.Action),
			Quantity:  t.Quantity,
			Price:     t.Price,
			CashDelta: t.CashDelta,
		}
	}
	return rows
}

func buildEquityCurve(snapshots []*domain.DailySnapshot) []EquityPoint {
	points := make([]EquityPoint, len(snapshots))
	for i, snap := range snapshots {
		points[i] = EquityPoint{
			Date:           snap.Date,
			PortfolioValue: snap.PortfolioValue,
			Cash:           snap.Cash,
			SignalAction:   string(snap.Signal.Action),
		}
	}
	return points
}
