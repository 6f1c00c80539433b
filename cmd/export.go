package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/tsb/internal/model"
	"github.com/Tiliavir/tsb/internal/timesheet"
)

var exportFormat string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export time records to stdout",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: csv, json, md")
}

func runExport(cmd *cobra.Command, args []string) error {
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

	switch exportFormat {
	case "json":
		data, err := json.MarshalIndent(list.Records, "", "  ")
		if err != nil {
			fmt.Fprintln(os.Stderr, "error encoding JSON:", err)
			os.Exit(2)
		}
		fmt.Println(string(data))
	case "md":
		tmpl := timesheet.DefaultTemplate
		printRows(os.Stdout, tmpl, timesheet.Render(list, b.mode, tmpl))
	default: // csv
		printCSV(os.Stdout, list.Records)
	}

	return nil
}

func printCSV(w io.Writer, records []model.Record) {
	fmt.Fprintln(w, "id,date,start,end,week,type,notes,approved")
	for _, r := range records {
		fmt.Fprintf(w, "%d,%s,%s,%s,%s,%s,%s,%s\n",
			r.ID,
			csvEscape(r.Field(model.FieldStartDate)),
			csvEscape(r.Field(model.FieldStart)),
			csvEscape(r.Field(model.FieldEnd)),
			csvEscape(r.Field(model.FieldWeek)),
			csvEscape(r.TaskTypeDesc),
			csvEscape(r.Notes),
			r.Field(model.FieldApproved),
		)
	}
}

// csvEscape wraps a field in quotes if it contains a comma, quote, or newline.
func csvEscape(s string) string {
	needsQuote := false
	for _, c := range s {
		if c == ',' || c == '"' || c == '\n' || c == '\r' {
			needsQuote = true
			break
		}
	}
	if !needsQuote {
		return s
	}
	// Escape internal double quotes by doubling them.
	escaped := ""
	for _, c := range s {
		if c == '"' {
			escaped += "\""
		}
		escaped += string(c)
	}
	return `"` + escaped + `"`
}
