package strategy

import (
	"stock-backtest-lab/internal/domain"
)

// Strategy produces a trade signal from a causal price history.
// Implementations must be pure with respect to their input and
// deterministic: same history, same signal.
type Strategy interface {
	// GenerateSignal inspects the history (bars up to and including the
	// simulated day) and returns the day's signal.
	GenerateSignal(history []*domain.PriceBar) domain.Signal

	// ID returns the strategy identifier (includes parameters).
	ID() string
}
