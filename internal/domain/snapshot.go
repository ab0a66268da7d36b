package domain

import "time"

// DailySnapshot records the portfolio state at the end of one simulated day.
// Snapshots are immutable once recorded; the full ordered sequence is the
// simulation's output.
type DailySnapshot struct {
	RunID          string           // backtest run this snapshot belongs to
	Date           time.Time        // trading day
	PortfolioValue float64          // cash + sum of positions at close
	Cash           float64          // cash after the day's order
	Signal         Signal           // signal the strategy produced that day
	Positions      map[string]int64 // share counts copied at snapshot time
}
