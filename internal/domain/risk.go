package domain

// RiskReport holds summary risk statistics derived from a return series.
// All values are plain floats; SharpeRatio may be +Inf or -Inf when the
// volatility of the series is exactly zero.
type RiskReport struct {
	AnnualizedReturn     float64
	AnnualizedVolatility float64
	SharpeRatio          float64
	MaxDrawdown          float64 // always <= 0
	ValueAtRisk          float64 // empirical quantile at 1 - confidence
}
