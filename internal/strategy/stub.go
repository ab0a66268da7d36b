package strategy

import (
	"stock-backtest-lab/internal/domain"
)

// Stub is a no-op strategy for testing.
// It records the history lengths it was shown and always holds.
type Stub struct {
	histories [][]*domain.PriceBar
}

// NewStub creates a new stub strategy.
func NewStub() *Stub {
	return &Stub{
		histories: make([][]*domain.PriceBar, 0),
	}
}

// GenerateSignal records the history for verification.
// Always returns HOLD.
func (s *Stub) GenerateSignal(history []*domain.PriceBar) domain.Signal {
	s.histories = append(s.histories, history)
	return domain.Hold()
}

// ID returns the strategy identifier.
func (s *Stub) ID() string {
	return "stub"
}

// Histories returns the recorded inputs for test verification.
func (s *Stub) Histories() [][]*domain.PriceBar {
	return s.histories
}

// Ensure Stub implements Strategy
var _ Strategy = (*Stub)(nil)
