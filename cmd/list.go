package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/tsb/internal/sortable"
	"github.com/Tiliavir/tsb/internal/timesheet"
)

var (
	listSort int
	listDesc bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the timesheet",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().IntVar(&listSort, "sort", 0, "Sort by column number ("+sortColumnsHelp(timesheet.DefaultTemplate)+")")
	listCmd.Flags().BoolVar(&listDesc, "desc", false, "Sort descending (with --sort)")
}

func runList(cmd *cobra.Command, args []string) error {
	b, view, err := loadView(cmd.Context())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	rows := view.Rows()
	if listSort > 0 {
		rows = sortRows(view.Template(), rows, listSort-1, listDesc, b.sortOptions()...)
	}
	printRows(os.Stdout, view.Template(), rows)
	return nil
}

// sortColumnsHelp numbers the sortable columns; the ID column printed
// first is not one of them.
func sortColumnsHelp(tmpl timesheet.Template) string {
	parts := make([]string, len(tmpl.Headers))
	for i, h := range tmpl.Headers {
		parts[i] = fmt.Sprintf("%d = %s", i+1, h)
	}
	return strings.Join(parts, ", ")
}

// sortRows orders rendered rows by column col the way a header click does.
func sortRows(tmpl timesheet.Template, rows []timesheet.Row, col int, desc bool, opts ...sortable.Option) []timesheet.Row {
	all := append([]timesheet.Row{timesheet.HeaderRow(tmpl)}, rows...)
	tbl := sortable.New(all, opts...)
	tbl.Click(col)
	if desc {
		tbl.Click(col)
	}
	return tbl.Rows()[1:]
}

// printRows writes the timesheet as aligned text. Summary rows span the
// whole line.
func printRows(w io.Writer, tmpl timesheet.Template, rows []timesheet.Row) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No records found.")
		return
	}

	headers := append([]string{"ID"}, tmpl.Headers...)
	headers = append(headers, "Action")
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	lines := make([][]string, 0, len(rows))
	for _, r := range rows {
		if r.Kind != timesheet.RowRecord {
			lines = append(lines, nil)
			continue
		}
		line := append([]string{strconv.FormatInt(r.ID, 10)}, r.Cells...)
		line = append(line, r.Action)
		for i, c := range line {
			if i < len(widths) {
				widths[i] = max(widths[i], utf8.RuneCountInString(c))
			}
		}
		lines = append(lines, line)
	}

	fmt.Fprintln(w, formatLine(headers, widths))
	for i, r := range rows {
		if lines[i] == nil {
			fmt.Fprintln(w, r.Text())
			continue
		}
		fmt.Fprintln(w, formatLine(lines[i], widths))
	}
}

func formatLine(cells []string, widths []int) string {
	var sb strings.Builder
	for i, c := range cells {
		if i >= len(widths) {
			break
		}
		if i > 0 {
			sb.WriteString("  ")
		}
		sb.WriteString(c)
		if i < len(cells)-1 {
			sb.WriteString(strings.Repeat(" ", widths[i]-utf8.RuneCountInString(c)))
		}
	}
	return sb.String()
}
