package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/tsb/internal/timesheet"
)

var approveCmd = &cobra.Command{
	Use:   "approve <record-id>",
	Short: "Approve a record of the user given by --admin-user",
	Args:  cobra.ExactArgs(1),
	RunE:  runApprove,
}

func runApprove(cmd *cobra.Command, args []string) error {
	id, err := parseRecordID(args[0])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	b, view, err := loadView(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if b.mode != timesheet.ModeAdmin {
		fmt.Fprintln(os.Stderr, "approving requires --admin-user <user-id>")
		os.Exit(1)
	}

	err = view.Approve(ctx, id)
	switch {
	case err == nil:
		row, _ := view.Row(id)
		fmt.Printf("Record %d: %s\n", id, row.Action)
	case errors.Is(err, timesheet.ErrApprovalFailed):
		fmt.Fprintln(os.Stderr, timesheet.ApprovalAlert)
		b.logger.Printf("%v", err)
		os.Exit(2)
	default:
		fmt.Fprintf(os.Stderr, "record %d: %v\n", id, err)
		os.Exit(1)
	}
	return nil
}
