package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders a report as a Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString(fmt.Sprintf("# Backtest Report: %s\n\n", r.RunID))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Period: %s to %s (%d trading days)\n\n",
		r.PeriodStart.Format("2006-01-02"), r.PeriodEnd.Format("2006-01-02"), r.TradingDays))

	// Summary
	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Start Value | %.2f |\n", r.Summary.StartValue))
	sb.WriteString(fmt.Sprintf("| Final Value | %.2f |\n", r.Summary.FinalValue))
	sb.WriteString(fmt.Sprintf("| Final Cash | %.2f |\n", r.Summary.FinalCash))
	sb.WriteString(fmt.Sprintf("| Total Return | %.4f |\n", r.Summary.TotalReturn))
	sb.WriteString(fmt.Sprintf("| Total Trades | %d |\n", r.Summary.TotalTrades))
	sb.WriteString(fmt.Sprintf("| Buys / Sells | %d / %d |\n", r.Summary.BuyCount, r.Summary.SellCount))
	sb.WriteString(fmt.Sprintf("| Cash Spent | %.2f |\n", r.Summary.TotalCashSpent))
	sb.WriteString(fmt.Sprintf("| Proceeds | %.2f |\n", r.Summary.TotalProceeds))
	sb.WriteString("\n")

	// Risk
	sb.WriteString("## Risk\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Annualized Return | %.4f |\n", r.Risk.AnnualizedReturn))
	sb.WriteString(fmt.Sprintf("| Annualized Volatility | %.4f |\n", r.Risk.AnnualizedVolatility))
	sb.WriteString(fmt.Sprintf("| Sharpe Ratio (rf=%.2f) | %.4f |\n", r.Risk.RiskFreeRate, r.Risk.SharpeRatio))
	sb.WriteString(fmt.Sprintf("| Max Drawdown | %.4f |\n", r.Risk.MaxDrawdown))
	sb.WriteString(fmt.Sprintf("| VaR (%.0f%%) | %.4f |\n", r.Risk.Confidence*100, r.Risk.ValueAtRisk))
	sb.WriteString("\n")

	// Trades
	sb.WriteString("## Trades\n\n")
	if len(r.Trades) > 0 {
		sb.WriteString("| Seq | Date | Action | Quantity | Price | Cash Delta |\n")
		sb.WriteString("|-----|------|--------|----------|-------|------------|\n")
		for _, t := range r.Trades {
			sb.WriteString(fmt.Sprintf("| %d | %s | %s | %d | %.2f | %.2f |\n",
				t.Seq, t.Date.Format("2006-01-02"), t.Action, t.Quantity, t.Price, t.CashDelta))
		}
	} else {
		sb.WriteString("No trades executed.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}
