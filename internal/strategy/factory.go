package strategy

import (
	"errors"

	"stock-backtest-lab/internal/domain"
)

// Factory errors
var (
	ErrUnknownStrategyType = errors.New("unknown strategy type")
	ErrMissingShortWindow  = errors.New("MA_CROSSOVER requires ShortWindow")
	ErrMissingLongWindow   = errors.New("MA_CROSSOVER requires LongWindow")
	ErrMissingQuantity     = errors.New("MA_CROSSOVER requires Quantity")
	ErrInvalidWindow       = errors.New("moving-average windows must be positive")
	ErrInvalidQuantity     = errors.New("order quantity must be positive")
)

// FromConfig creates a Strategy from domain.StrategyConfig.
// Validates required parameters per strategy type.
func FromConfig(cfg domain.StrategyConfig) (Strategy, error) {
	switch cfg.StrategyType {
	case domain.StrategyTypeMACrossover:
		return fromCrossoverConfig(cfg)
	default:
		return nil, ErrUnknownStrategyType
	}
}

// fromCrossoverConfig creates MACrossover from config.
func fromCrossoverConfig(cfg domain.StrategyConfig) (*MACrossover, error) {
	if cfg.ShortWindow == nil {
		return nil, ErrMissingShortWindow
	}
	if cfg.LongWindow == nil {
		return nil, ErrMissingLongWindow
	}
	if cfg.Quantity == nil {
		return nil, ErrMissingQuantity
	}
	if *cfg.ShortWindow <= 0 || *cfg.LongWindow <= 0 {
		return nil, ErrInvalidWindow
	}
	if *cfg.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	return NewMACrossover(*cfg.ShortWindow, *cfg.LongWindow, *cfg.Quantity), nil
}
