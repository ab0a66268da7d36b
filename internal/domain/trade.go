package domain

import "time"

// Trade is one executed order. Records are immutable once appended to the
// ledger's trade log; the log grows by exactly one entry per successful
// buy or sell.
type Trade struct {
	RunID     string    // backtest run this trade belongs to
	Seq       int       // position in the ledger's append-only log
	Ticker    string    // instrument symbol
	Action    Action    // BUY or SELL, never HOLD
	Quantity  int64     // shares, always positive
	Price     float64   // execution price (bar close)
	CashDelta float64   // signed cash movement: -cost on BUY, +proceeds on SELL
	Date      time.Time // trading day of execution
}
