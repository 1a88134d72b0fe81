package analytics

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/yourusername/trade-log-tracker/internal/models"
)

// GenerateConsoleReport formats summary metrics for terminal output
func GenerateConsoleReport(summary Summary) string {
	var builder strings.Builder
	builder.WriteString("Trade Log Report\n")
	builder.WriteString("================\n")
	builder.WriteString(fmt.Sprintf("Trades: %d (%d closed days)\n", summary.TotalTrades, summary.TradingDays))
	if !summary.FirstClose.IsZero() {
		builder.WriteString(fmt.Sprintf("Closed: %s to %s\n", summary.FirstClose.Format(time.DateOnly), summary.LastClose.Format(time.DateOnly)))
	}
	builder.WriteString(fmt.Sprintf("Total P/L: %s\n", summary.TotalPL.StringFixed(2)))
	builder.WriteString(fmt.Sprintf("Win Rate: %.2f%%\n", summary.WinRate*100))
	builder.WriteString(fmt.Sprintf("Profit Factor: %.2f\n", summary.ProfitFactor))
	builder.WriteString(fmt.Sprintf("Expectancy: %.2f\n", summary.Expectancy))
	builder.WriteString(fmt.Sprintf("Max Drawdown: %s\n", summary.MaxDrawdown.StringFixed(2)))
	if summary.MaxDrawdownPct != nil {
		builder.WriteString(fmt.Sprintf("Max Drawdown (starting fund): %.2f%%\n", *summary.MaxDrawdownPct))
	}
	builder.WriteString(fmt.Sprintf("Longest Drawdown: %d days\n", summary.MaxDrawdownDuration))
	if summary.TotalReturnPct != nil {
		builder.WriteString(fmt.Sprintf("Total Return: %.2f%%\n", *summary.TotalReturnPct))
	}
	if summary.CAGR != nil {
		builder.WriteString(fmt.Sprintf("CAGR: %.2f%%\n", *summary.CAGR*100))
	}
	return builder.String()
}

// WriteSeriesTable renders a daily series as an aligned text table
func WriteSeriesTable(w io.Writer, series models.DailySeries) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	header := "Date Closed\tDaily P/L\tTrades\tCum P/L\tDD\tDD Days\t"
	if series.HasFund() {
		header += "DD %\t"
	}
	fmt.Fprintln(tw, header)
	for _, row := range series.Rows {
		line := fmt.Sprintf("%s\t%s\t%d\t%s\t%s\t%d\t",
			row.DateClosed.Format(time.DateOnly),
			row.DailyPL.StringFixed(2),
			row.DailyCount,
			row.CumulativePL.StringFixed(2),
			row.Drawdown.StringFixed(2),
			row.DrawdownDuration,
		)
		if series.HasFund() {
			line += fmt.Sprintf("%.2f\t", *row.DrawdownPct)
		}
		fmt.Fprintln(tw, line)
	}
	return tw.Flush()
}

// WriteStrategyTable renders per-strategy P/L sums
func WriteStrategyTable(w io.Writer, rows []models.StrategyPL) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Strategy\tTrades\tP/L")
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", row.Strategy, row.TradeCount, row.ProfitLoss.StringFixed(2))
	}
	return tw.Flush()
}
