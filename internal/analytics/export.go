package analytics

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/yourusername/trade-log-tracker/internal/models"
)

// SeriesCSVHeader returns the CSV columns written for a series
func SeriesCSVHeader(series models.DailySeries) []string {
	header := []string{"date_closed", "daily_pl", "daily_count", "cumulative_pl", "running_peak", "drawdown", "drawdown_duration_days"}
	if series.HasFund() {
		header = append(header, "fund", "drawdown_pct_of_starting_fund")
	}
	return header
}

// WriteCSV exports a daily series; P/L fields keep full decimal precision
func WriteCSV(w io.Writer, series models.DailySeries) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(SeriesCSVHeader(series)); err != nil {
		return err
	}
	for _, row := range series.Rows {
		record := []string{
			row.DateClosed.Format(time.DateOnly),
			row.DailyPL.String(),
			strconv.Itoa(row.DailyCount),
			row.CumulativePL.String(),
			row.RunningPeak.String(),
			row.Drawdown.String(),
			strconv.Itoa(row.DrawdownDuration),
		}
		if series.HasFund() {
			record = append(record, row.Fund.String(), formatFloat(*row.DrawdownPct))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ToJSON exports a daily series to JSON
func ToJSON(series models.DailySeries) ([]byte, error) {
	return json.Marshal(series)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
