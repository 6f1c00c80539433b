package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/tsb/internal/api"
	"github.com/Tiliavir/tsb/internal/timecalc"
	"github.com/Tiliavir/tsb/internal/timesheet"
)

var (
	addDate  string
	addStart string
	addEnd   string
	addNotes string
	addType  string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a time record to your timesheet",
	Args:  cobra.NoArgs,
	RunE:  runAdd,
}

func init() {
	addCmd.Flags().StringVar(&addDate, "date", "", "Date (YYYY-MM-DD); defaults to today")
	addCmd.Flags().StringVar(&addStart, "start", "", "Start time (HH:MM)")
	addCmd.Flags().StringVar(&addEnd, "end", "", "End time (HH:MM)")
	addCmd.Flags().StringVar(&addNotes, "notes", "", "Description of the work")
	addCmd.Flags().StringVar(&addType, "type", "", "Task type ID")
	_ = addCmd.MarkFlagRequired("start")
	_ = addCmd.MarkFlagRequired("end")
	_ = addCmd.MarkFlagRequired("type")
}

func runAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	b, view, err := loadView(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if b.mode != timesheet.ModeTutor {
		fmt.Fprintln(os.Stderr, "records cannot be added in admin mode; drop --admin-user")
		os.Exit(1)
	}

	draft := timesheet.Draft{
		Date:       addDate,
		Start:      addStart,
		End:        addEnd,
		Notes:      addNotes,
		TaskTypeID: addType,
	}
	if draft.Date == "" {
		draft.Date = timecalc.Today(time.Now())
	}

	err = view.Add(ctx, draft)
	var se *api.ServerError
	if errors.As(err, &se) {
		fmt.Fprintln(os.Stderr, view.Banner())
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	printRows(os.Stdout, view.Template(), view.Rows())
	return nil
}
