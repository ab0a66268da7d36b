// Package risk derives summary risk statistics from a realized return
// series.
package risk

import (
	"errors"
	"math"
	"sort"

	"stock-backtest-lab/internal/domain"
)

// Analyzer errors.
var (
	// ErrEmptyReturns is returned when the series has zero length.
	ErrEmptyReturns = errors.New("empty return series")

	// ErrNullReturns is returned when any return is NaN. Missing values
	// indicate a malformed input and must not be swallowed.
	ErrNullReturns = errors.New("null returns detected")
)

// TradingDaysPerYear is the annualization factor for daily returns.
const TradingDaysPerYear = 252

// Default parameters for derived ratios.
const (
	DefaultRiskFreeRate = 0.02
	DefaultConfidence   = 0.95
)

// Analyzer computes risk statistics over a fixed return series.
// All methods are pure functions of the stored series.
type Analyzer struct {
	returns []float64
}

// NewAnalyzer validates and stores the series.
func NewAnalyzer(returns []float64) (*Analyzer, error) {
	if len(returns) == 0 {
		return nil, ErrEmptyReturns
	}
	for _, r := range returns {
		if math.IsNaN(r) {
			return nil, ErrNullReturns
		}
	}

	stored := make([]float64, len(returns))
	copy(stored, returns)
	return &Analyzer{returns: stored}, nil
}

// AnnualizedReturn is the mean per-period return scaled to a trading year.
func (a *Analyzer) AnnualizedReturn() float64 {
	return computeMean(a.returns) * TradingDaysPerYear
}

// AnnualizedVolatility is the sample standard deviation scaled to a
// trading year.
func (a *Analyzer) AnnualizedVolatility() float64 {
	mean := computeMean(a.returns)
	return computeStddev(a.returns, mean) * math.Sqrt(TradingDaysPerYear)
}

// SharpeRatio is the annualized excess return per unit of volatility.
// When volatility is exactly zero the ratio is infinite, not an error.
func (a *Analyzer) SharpeRatio(riskFreeRate float64) float64 {
	excess := a.AnnualizedReturn() - riskFreeRate
	vol := a.AnnualizedVolatility()
	if vol == 0 {
		if excess < 0 {
			return math.Inf(-1)
		}
		return math.Inf(1)
	}
	return excess / vol
}

// MaxDrawdown is the worst fractional decline of the cumulative return
// series from its running peak. Always <= 0.
func (a *Analyzer) MaxDrawdown() float64 {
	cumulative := 1.0
	peak := 0.0
	worst := 0.0

	for i, r := range a.returns {
		cumulative *= 1 + r
		if i == 0 || cumulative > peak {
			peak = cumulative
		}
		drawdown := (cumulative - peak) / peak
		if drawdown < worst {
			worst = drawdown
		}
	}
	return worst
}

// ValueAtRisk is the empirical return quantile at 1 - confidence: the
// loss threshold exceeded with probability confidence.
func (a *Analyzer) ValueAtRisk(confidence float64) float64 {
	sorted := make([]float64, len(a.returns))
	copy(sorted, a.returns)
	sort.Float64s(sorted)
	return computeQuantile(sorted, 1-confidence)
}

// Metrics computes all five statistics at once.
func (a *Analyzer) Metrics(riskFreeRate, confidence float64) domain.RiskReport {
	return domain.RiskReport{
		AnnualizedReturn:     a.AnnualizedReturn(),
		AnnualizedVolatility: a.AnnualizedVolatility(),
		SharpeRatio:          a.SharpeRatio(riskFreeRate),
		MaxDrawdown:          a.MaxDrawdown(),
		ValueAtRisk:          a.ValueAtRisk(confidence),
	}
}

// ReturnsFromValues derives per-period fractional returns from a valuation
// history. The result has one fewer element than the input.
func ReturnsFromValues(values []float64) []float64 {
	if len(values) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		returns = append(returns, (values[i]-values[i-1])/values[i-1])
	}
	return returns
}

// computeMean calculates the arithmetic mean.
func computeMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// computeStddev calculates sample standard deviation (n-1 denominator).
func computeStddev(values []float64, mean float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	sumSq := 0.0
	for _, v := range values {
		diff := v - mean
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(n-1))
}

// computeQuantile uses linear interpolation.
// sorted must be pre-sorted ASC; p in [0, 1].
func computeQuantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}

	idx := p * float64(n-1)
	lower := int(idx)
	upper := lower + 1
	if lower < 0 {
		return sorted[0]
	}
	if upper >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}
