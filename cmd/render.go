package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/tsb/internal/config"
	"github.com/Tiliavir/tsb/internal/preview"
)

var (
	renderLocal    bool
	renderText     bool
	renderTerminal bool
	renderWidth    int
)

var renderCmd = &cobra.Command{
	Use:   "render [file]",
	Short: "Render task markdown to HTML (reads stdin without a file)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRender,
}

func init() {
	renderCmd.Flags().BoolVar(&renderLocal, "local", false, "Render offline instead of through the board")
	renderCmd.Flags().BoolVar(&renderText, "text", false, "Print the rendered HTML as plain text")
	renderCmd.Flags().BoolVar(&renderTerminal, "terminal", false, "Render the markdown for the terminal (offline)")
	renderCmd.Flags().IntVar(&renderWidth, "width", 80, "Wrap width for --terminal")
}

func runRender(cmd *cobra.Command, args []string) error {
	src, err := readSource(args)
	if err != nil {
		return err
	}

	if renderTerminal {
		fmt.Println(preview.Terminal(src, renderWidth))
		return nil
	}

	r, err := markdownRenderer(cmd, renderLocal)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	html, err := r.Render(cmd.Context(), src)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if renderText {
		html = preview.PlainText(html)
	}
	fmt.Println(html)
	return nil
}

func readSource(args []string) (string, error) {
	if len(args) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", args[0], err)
	}
	return string(data), nil
}

// markdownRenderer picks the board endpoint or the built-in renderer.
func markdownRenderer(cmd *cobra.Command, forceLocal bool) (preview.Renderer, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if forceLocal || cfg.Preview.Renderer == config.RendererLocal {
		return preview.NewGoldmark(), nil
	}
	b, err := openBoard(cmd.Context())
	if err != nil {
		return nil, err
	}
	return b.client, nil
}
