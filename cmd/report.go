package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/tsb/internal/model"
	"github.com/Tiliavir/tsb/internal/timecalc"
)

var reportFormat string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show the board's weekly totals",
	Args:  cobra.NoArgs,
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportFormat, "format", "md", "Output format: md, csv, json")
}

// weekTotal is one line of the weekly report.
type weekTotal struct {
	Week  string `json:"week"`
	Hours string `json:"hours"`
}

func runReport(cmd *cobra.Command, args []string) error {
	b, err := openBoard(cmd.Context())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	list, err := b.client.List(cmd.Context())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := writeReport(os.Stdout, list, reportFormat); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	return nil
}

// weekTotals returns the aggregates ordered by week number. Totals are
// taken from the board as-is.
func weekTotals(list model.RecordList) []weekTotal {
	totals := make([]weekTotal, 0, len(list.Aggregates))
	for w, h := range list.Aggregates {
		totals = append(totals, weekTotal{Week: w, Hours: string(h)})
	}
	sort.Slice(totals, func(i, j int) bool {
		a, okA := model.Week(totals[i].Week).Number()
		b, okB := model.Week(totals[j].Week).Number()
		if okA && okB && a != b {
			return a < b
		}
		return totals[i].Week < totals[j].Week
	})
	return totals
}

func writeReport(w io.Writer, list model.RecordList, format string) error {
	totals := weekTotals(list)

	// The grand total is only shown when every aggregate parses.
	var grand int64
	grandOK := true
	for _, t := range totals {
		sec, err := timecalc.ParseHours(t.Hours)
		if err != nil {
			grandOK = false
			break
		}
		grand += sec
	}

	switch format {
	case "csv":
		fmt.Fprintln(w, "week,hours")
		for _, t := range totals {
			fmt.Fprintf(w, "%s,%s\n", csvEscape(t.Week), csvEscape(t.Hours))
		}
	case "json":
		out := struct {
			Weeks        []weekTotal `json:"weeks"`
			TotalMinutes *int64      `json:"total_minutes,omitempty"`
		}{Weeks: totals}
		if grandOK {
			minutes := grand / 60
			out.TotalMinutes = &minutes
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("error encoding JSON: %w", err)
		}
	case "md":
		fmt.Fprintln(w, "Week totals")
		fmt.Fprintln(w, strings.Repeat("-", 32))
		for _, t := range totals {
			fmt.Fprintf(w, "%-20s%sh\n", "Week "+t.Week, t.Hours)
		}
		fmt.Fprintln(w, strings.Repeat("-", 32))
		if grandOK {
			fmt.Fprintf(w, "%-20s%s\n", "Total", timecalc.FormatDuration(grand))
		}
	default:
		return fmt.Errorf("unknown format %q: must be md, csv or json", format)
	}
	return nil
}
