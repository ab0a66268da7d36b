// Package reporting turns stored run output into human-readable reports.
package reporting

import "time"

// Report summarizes one backtest run.
type Report struct {
	// Metadata
	GeneratedAt time.Time
	RunID       string
	Ticker      string

	// Period covered by the run.
	PeriodStart time.Time
	PeriodEnd   time.Time
	TradingDays int

	// Outcome
	Summary RunSummary

	// Risk metrics over the daily value series.
	Risk RiskSection

	// Trades is the complete ordered trade log.
	Trades []TradeRow

	// EquityCurve is the day-by-day portfolio value.
	EquityCurve []EquityPoint
}

// RunSummary holds the headline run numbers.
type RunSummary struct {
	StartValue     float64
	FinalValue     float64
	FinalCash      float64
	TotalReturn    float64 // final / start - 1
	TotalTrades    int
	BuyCount       int
	SellCount      int
	TotalCashSpent float64 // sum of BUY costs
	TotalProceeds  float64 // sum of SELL proceeds
}

// RiskSection holds the annualized risk metrics.
type RiskSection struct {
	AnnualizedReturn     float64
	AnnualizedVolatility float64
	SharpeRatio          float64
	MaxDrawdown          float64
	ValueAtRisk          float64
	RiskFreeRate         float64
	Confidence           float64
}

// TradeRow is one executed order in the report.
type TradeRow struct {
	Seq       int
	Date      time.Time
	Action    string
	Quantity  int64
	Price     float64
	CashDelta float64
}

// EquityPoint is one day of the equity curve.
type EquityPoint struct {
	Date           time.Time
	PortfolioValue float64
	Cash           float64
	SignalAction   string
}
