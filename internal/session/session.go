package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
)

// Session holds the credentials used to talk to the board.
type Session struct {
	// BaseURL is the board the credentials belong to.
	BaseURL string `json:"base_url,omitempty"`
	// Cookie is the value of the board's login session cookie.
	Cookie string `json:"cookie,omitempty"`
	// Token is an optional bearer token for boards behind an auth proxy.
	Token *oauth2.Token `json:"token,omitempty"`
}

// Empty reports whether s carries no credentials.
func (s Session) Empty() bool {
	return s.Cookie == "" && (s.Token == nil || s.Token.AccessToken == "")
}

// BaseDir returns the root data directory (~/.tsb).
func BaseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".tsb"), nil
}

func filePath(base string) string {
	return filepath.Join(base, "session.json")
}

// Load reads the stored session. A missing file yields an empty Session.
func Load(base string) (Session, error) {
	path := filePath(base)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Session{}, nil
	}
	if err != nil {
		return Session{}, fmt.Errorf("reading session file %s: %w", path, err)
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return Session{}, fmt.Errorf("corrupt session file (delete %s to log in again): %w", path, err)
	}
	return s, nil
}

// Save atomically writes s.
func Save(base string, s Session) error {
	path := filePath(base)
	if err := os.MkdirAll(base, 0o700); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling session: %w", err)
	}
	// Atomic write: write to temp file then rename.
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("saving session file: %w", err)
	}
	return nil
}

// Clear removes the stored session. Clearing a missing session is not an error.
func Clear(base string) error {
	if err := os.Remove(filePath(base)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing session file: %w", err)
	}
	return nil
}
