package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/yourusername/trade-log-tracker/internal/analytics"
	"github.com/yourusername/trade-log-tracker/internal/ledger"
	"github.com/yourusername/trade-log-tracker/internal/models"
)

var (
	outputFormat string
	exportFormat string
	fundFlag     float64
	strategyFlag []string
	fromFlag     string
	toFlag       string
	noFund       bool
	outputPath   string
)

func init() {
	for _, cmd := range []*cobra.Command{summaryCmd, portfolioCmd, strategiesCmd} {
		cmd.Flags().StringVarP(&outputFormat, "format", "f", "table", "Output format: table or json")
	}
	for _, cmd := range []*cobra.Command{portfolioCmd, strategiesCmd, exportCmd} {
		cmd.Flags().Float64Var(&fundFlag, "fund", 0, "Starting fund (defaults to analytics.starting_fund)")
		cmd.Flags().StringSliceVarP(&strategyFlag, "strategy", "s", nil, "Strategies to include (default all)")
		cmd.Flags().StringVar(&fromFlag, "from", "", "Earliest open date, YYYY-MM-DD")
		cmd.Flags().StringVar(&toFlag, "to", "", "Latest open date, YYYY-MM-DD")
	}
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "csv", "Output format: csv or json")
	exportCmd.Flags().BoolVar(&noFund, "no-fund", false, "Export the series without starting fund scaling")
	exportCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write to file instead of stdout")
}

var summaryCmd = &cobra.Command{
	Use:   "summary [trade-log]",
	Short: "Show quick stats and the daily P/L series",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := loadLedger(cmd.Context(), args)
		if err != nil {
			return err
		}
		view, err := dashboard.Summary(cmd.Context(), l)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if outputFormat == "json" {
			return writeJSON(out, view)
		}
		printQuickStats(out, view.Stats)
		printWarnings(out, view.Warnings)
		return analytics.WriteSeriesTable(out, view.Series)
	},
}

var portfolioCmd = &cobra.Command{
	Use:   "portfolio [trade-log]",
	Short: "Show the fund-scaled series and performance summary",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		l, filter, fund, err := loadView(cmd, args)
		if err != nil {
			return err
		}
		view, err := dashboard.Portfolio(cmd.Context(), l, filter, fund)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if outputFormat == "json" {
			return writeJSON(out, view)
		}
		printWarnings(out, view.Warnings)
		fmt.Fprintln(out, analytics.GenerateConsoleReport(view.Summary))
		return analytics.WriteSeriesTable(out, view.Series)
	},
}

var strategiesCmd = &cobra.Command{
	Use:   "strategies [trade-log]",
	Short: "Show P/L per strategy",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		l, filter, fund, err := loadView(cmd, args)
		if err != nil {
			return err
		}
		view, err := dashboard.Strategies(cmd.Context(), l, filter, fund)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if outputFormat == "json" {
			return writeJSON(out, view)
		}
		printWarnings(out, view.Warnings)
		return analytics.WriteStrategyTable(out, view.PLPerStrategy)
	},
}

var exportCmd = &cobra.Command{
	Use:   "export [trade-log]",
	Short: "Export the daily P/L series as CSV or JSON",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		l, filter, fund, err := loadView(cmd, args)
		if err != nil {
			return err
		}
		selected, err := filter.Apply(l)
		if err != nil {
			return err
		}
		if noFund {
			fund = 0
		}
		series, err := dashboard.Series(cmd.Context(), selected, fund)
		if err != nil {
			return err
		}

		if outputPath == "" {
			return writeExport(cmd.OutOrStdout(), series, exportFormat)
		}
		return writeExportFile(outputPath, series, exportFormat)
	},
}

// writeExportFile writes the series to path; a failed close fails the export
func writeExportFile(path string, series models.DailySeries, format string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()
	return writeExport(f, series, format)
}

func writeExport(out io.Writer, series models.DailySeries, format string) error {
	switch format {
	case "csv":
		return analytics.WriteCSV(out, series)
	case "json":
		data, err := analytics.ToJSON(series)
		if err != nil {
			return err
		}
		_, err = out.Write(append(data, '\n'))
		return err
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

// loadView loads the ledger and resolves the shared view flags
func loadView(cmd *cobra.Command, args []string) (*ledger.Ledger, ledger.Filter, float64, error) {
	filter, err := ledger.ParseFilter(strategyFlag, fromFlag, toFlag)
	if err != nil {
		return nil, ledger.Filter{}, 0, err
	}
	fund := dashboard.DefaultFund()
	if cmd.Flags().Changed("fund") {
		fund = fundFlag
	}
	l, err := loadLedger(cmd.Context(), args)
	if err != nil {
		return nil, ledger.Filter{}, 0, err
	}
	return l, filter, fund, nil
}

func printQuickStats(w io.Writer, stats ledger.QuickStats) {
	fmt.Fprintf(w, "Trades: %d\n", stats.TradeCount)
	fmt.Fprintf(w, "Strategies (%d): %v\n", stats.StrategyCount, stats.Strategies)
	if stats.TradeCount > 0 {
		fmt.Fprintf(w, "Opened: %s to %s\n", stats.StartDate.Format(time.DateOnly), stats.EndDate.Format(time.DateOnly))
	}
	fmt.Fprintln(w)
}

func printWarnings(w io.Writer, warnings []*models.EmptyResultWarning) {
	for _, warning := range warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
