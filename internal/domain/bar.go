package domain

import "time"

// PriceBar represents one trading day's quotes for one instrument.
// A dataset is an ordered slice of bars with strictly increasing,
// duplicate-free dates.
type PriceBar struct {
	Ticker   string    // instrument symbol
	Date     time.Time // trading day (UTC midnight)
	Open     float64   // opening price
	High     float64   // session high
	Low      float64   // session low
	Close    float64   // closing price, used for execution and valuation
	AdjClose float64   // dividend/split adjusted close
	Volume   int64     // shares traded, never negative
}
