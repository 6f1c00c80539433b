package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/tsb/internal/config"
	"github.com/Tiliavir/tsb/internal/preview"
	"github.com/Tiliavir/tsb/internal/timesheet"
	"github.com/Tiliavir/tsb/internal/tui"
)

var uiDraft string

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Open the interactive timesheet and markdown editor",
	Args:  cobra.NoArgs,
	RunE:  runUI,
}

func init() {
	uiCmd.Flags().StringVar(&uiDraft, "markdown", "", "Markdown file to open in the editor")
}

func runUI(cmd *cobra.Command, args []string) error {
	b, err := openBoard(cmd.Context())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	var draft string
	if uiDraft != "" {
		draft, err = readSource([]string{uiDraft})
		if err != nil {
			return err
		}
	}

	var renderer preview.Renderer = b.client
	if b.cfg.Preview.Renderer == config.RendererLocal {
		renderer = preview.NewGoldmark()
	}

	return tui.Run(cmd.Context(), tui.Options{
		View:        timesheet.NewView(b.client, b.mode, timesheet.WithLogger(b.logger)),
		Renderer:    renderer,
		Debounce:    b.cfg.Debounce(),
		SortOptions: b.sortOptions(),
		Markdown:    draft,
		Logger:      b.logger,
	})
}
