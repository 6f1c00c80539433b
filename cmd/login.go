package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"github.com/Tiliavir/tsb/internal/session"
)

var (
	loginCookie string
	loginToken  string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store board credentials",
	Long: `Store the board's session cookie (copied from a logged-in browser) and,
for boards behind an auth proxy, a bearer token. Credentials are saved in
~/.tsb/session.json with owner-only permissions.`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget stored board credentials",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

func init() {
	loginCmd.Flags().StringVar(&loginCookie, "cookie", "", "Value of the board session cookie")
	loginCmd.Flags().StringVar(&loginToken, "token", "", "Bearer token for an auth proxy")
}

func runLogin(cmd *cobra.Command, args []string) error {
	if loginCookie == "" && loginToken == "" {
		return fmt.Errorf("nothing to store: pass --cookie and/or --token")
	}
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	sess := session.Session{BaseURL: cfg.Server.BaseURL, Cookie: loginCookie}
	if loginToken != "" {
		sess.Token = &oauth2.Token{AccessToken: loginToken, TokenType: "Bearer"}
	}

	base, err := session.BaseDir()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := session.Save(base, sess); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if sess.BaseURL == "" {
		fmt.Fprintln(os.Stderr, "Warning: no board URL configured; set server.base_url or pass --base-url")
	}
	fmt.Println("Credentials saved.")
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	base, err := session.BaseDir()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := session.Clear(base); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	fmt.Println("Credentials removed.")
	return nil
}
