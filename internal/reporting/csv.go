package reporting

import (
	"fmt"
	"strings"
)

// RenderEquityCSV renders the equity curve as a CSV string.
func RenderEquityCSV(points []EquityPoint) string {
	var sb strings.Builder

	sb.WriteString("date,portfolio_value,cash,signal\n")
	for _, p := range points {
		sb.WriteString(fmt.Sprintf("%s,%.6f,%.6f,%s\n",
			p.Date.Format("2006-01-02"), p.PortfolioValue, p.Cash, p.SignalAction))
	}

	return sb.String()
}

// RenderTradesCSV renders the trade log as a CSV string.
func RenderTradesCSV(trades []TradeRow) string {
	var sb strings.Builder

	sb.WriteString("seq,date,action,quantity,price,cash_delta\n")
	for _, t := range trades {
		sb.WriteString(fmt.Sprintf("%d,%s,%s,%d,%.6f,%.6f\n",
			t.Seq, t.Date.Format("2006-01-02"), t.Action, t.Quantity, t.Price, t.CashDelta))
	}

	return sb.String()
}
