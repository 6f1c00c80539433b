package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/tsb/internal/api"
	"github.com/Tiliavir/tsb/internal/config"
	"github.com/Tiliavir/tsb/internal/session"
	"github.com/Tiliavir/tsb/internal/sortable"
	"github.com/Tiliavir/tsb/internal/timesheet"
)

var (
	flagConfig    string
	flagBaseURL   string
	flagAdminUser int
	flagVerbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "tsb",
	Short: "tsb – timesheet and task-admin client for the board",
	Long: `tsb talks to the board's timesheet API from the terminal.
Records stay on the board; tsb only renders what the board returns.
Configuration lives in ~/.tsb/config.json, credentials in ~/.tsb/session.json.`,
	SilenceUsage: true,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default ~/.tsb/config.json)")
	rootCmd.PersistentFlags().StringVar(&flagBaseURL, "base-url", "", "Board root URL, overrides the config file")
	rootCmd.PersistentFlags().IntVar(&flagAdminUser, "admin-user", 0, "Open this user's timesheet in admin mode")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log requests to stderr")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(approveCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(uiCmd)
}

// board bundles what every command needs to reach the board.
type board struct {
	cfg    config.Config
	client *api.Client
	logger *log.Logger
	mode   timesheet.Mode
}

func newLogger() *log.Logger {
	if flagVerbose {
		return log.New(os.Stderr, "tsb: ", log.LstdFlags|log.Lmicroseconds)
	}
	return log.New(io.Discard, "", 0)
}

// loadConfig reads the config file and applies command-line overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagBaseURL != "" {
		cfg.Server.BaseURL = flagBaseURL
	}
	if flagAdminUser > 0 {
		cfg.Timesheet.AdminUser = flagAdminUser
	}
	return cfg, nil
}

// openBoard loads configuration and credentials and builds an API client.
func openBoard(ctx context.Context) (*board, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger := newLogger()

	base, err := session.BaseDir()
	if err != nil {
		return nil, err
	}
	sess, err := session.Load(base)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		sess = session.Session{}
	}
	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = sess.BaseURL
	}
	if sess.Empty() {
		logger.Printf("no stored session; requests are anonymous")
	}

	client, err := api.NewClient(ctx, api.Options{
		BaseURL:    cfg.Server.BaseURL,
		AdminUser:  cfg.Timesheet.AdminUser,
		Session:    sess,
		CookieName: cfg.Server.CookieName,
		Timeout:    cfg.Timeout(),
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("%w\nTip: set server.base_url in ~/.tsb/config.json or pass --base-url", err)
	}

	mode := timesheet.ModeTutor
	if client.Admin() {
		mode = timesheet.ModeAdmin
	}
	return &board{cfg: cfg, client: client, logger: logger, mode: mode}, nil
}

// loadView opens the board and renders the current timesheet.
func loadView(ctx context.Context) (*board, *timesheet.View, error) {
	b, err := openBoard(ctx)
	if err != nil {
		return nil, nil, err
	}
	view := timesheet.NewView(b.client, b.mode, timesheet.WithLogger(b.logger))
	if err := view.Load(ctx); err != nil {
		return nil, nil, err
	}
	return b, view, nil
}

// sortOptions returns the table options for the configured collation and
// direction mode. An unusable locale from the environment falls back to
// the root collation.
func (b *board) sortOptions() []sortable.Option {
	var opts []sortable.Option
	if tag, err := sortable.ParseLocale(b.cfg.CollationLocale()); err != nil {
		b.logger.Printf("%v; sorting with the root collation", err)
	} else {
		opts = append(opts, sortable.WithLocale(tag))
	}
	if b.cfg.Timesheet.SharedSortDirection {
		opts = append(opts, sortable.SharedDirection())
	}
	return opts
}
