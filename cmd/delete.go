package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/tsb/internal/api"
	"github.com/Tiliavir/tsb/internal/timesheet"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <record-id>",
	Short: "Delete an unapproved record",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	id, err := parseRecordID(args[0])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	_, view, err := loadView(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	err = view.Delete(ctx, id)
	switch {
	case err == nil:
		fmt.Printf("Deleted record %d\n", id)
	case api.IsStatus(err):
		// The board answered; the record is gone from the view either way.
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	case errors.Is(err, timesheet.ErrApproved), errors.Is(err, timesheet.ErrNotFound), errors.Is(err, timesheet.ErrWrongMode):
		fmt.Fprintf(os.Stderr, "record %d: %v\n", id, err)
		os.Exit(1)
	default:
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	return nil
}

func parseRecordID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid record id %q", s)
	}
	return id, nil
}
