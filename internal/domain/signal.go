package domain

// Action represents a trade action.
type Action string

// Action constants.
const (
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
	ActionHold Action = "HOLD"
)

// Signal is a strategy's decision for one simulated day.
// Quantity is zero when Action is HOLD.
type Signal struct {
	Action   Action
	Quantity int64
}

// Hold returns the neutral signal.
func Hold() Signal {
	return Signal{Action: ActionHold, Quantity: 0}
}
