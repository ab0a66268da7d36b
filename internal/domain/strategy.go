package domain

// StrategyConfig represents strategy configuration parameters.
// Pointer fields are required or not depending on StrategyType; the
// strategy factory validates per type.
type StrategyConfig struct {
	StrategyType string // "MA_CROSSOVER"

	// MA_CROSSOVER parameters
	ShortWindow *int   // short moving-average window, in trading days
	LongWindow  *int   // long moving-average window, in trading days
	Quantity    *int64 // fixed order size in shares
}

// Strategy type constants
const (
	StrategyTypeMACrossover = "MA_CROSSOVER"
)
