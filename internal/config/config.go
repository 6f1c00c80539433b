package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"

	"github.com/Tiliavir/tsb/internal/sortable"
)

// Config is the root configuration for tsb, stored in ~/.tsb/config.json.
// The file supports single-line // comments for documentation purposes.
type Config struct {
	Server    ServerConfig    `json:"server"`
	Timesheet TimesheetConfig `json:"timesheet"`
	Preview   PreviewConfig   `json:"preview"`
}

// ServerConfig locates the board.
type ServerConfig struct {
	// BaseURL is the board root, e.g. "https://board.example.org".
	BaseURL string `json:"base_url"`
	// CookieName is the name of the board's login session cookie.
	CookieName string `json:"cookie_name"`
	// TimeoutSeconds bounds a single request.
	TimeoutSeconds int `json:"timeout_seconds"`
}

// TimesheetConfig holds timesheet view settings.
type TimesheetConfig struct {
	// AdminUser opens the admin view of that user's timesheet when > 0.
	AdminUser int `json:"admin_user"`
	// SharedSortDirection makes all columns share one sort direction flag.
	SharedSortDirection bool `json:"shared_sort_direction"`
	// Locale selects the collation for text columns, e.g. "de" or "sv-SE".
	// Empty falls back to LC_ALL, LC_COLLATE and LANG.
	Locale string `json:"locale"`
}

// PreviewConfig holds markdown preview settings.
type PreviewConfig struct {
	// DebounceMS is the quiet period before the preview is refreshed.
	DebounceMS int `json:"debounce_ms"`
	// Renderer is "remote" (board endpoint) or "local" (built in).
	Renderer string `json:"renderer"`
}

const (
	DefaultCookieName     = "session"
	DefaultTimeoutSeconds = 15
	DefaultDebounceMS     = 1000
	RendererRemote        = "remote"
	RendererLocal         = "local"

	// EnvPrefix prefixes environment overrides, e.g. TSB_BASE_URL.
	EnvPrefix = "TSB_"
)

// Timeout returns the request timeout as a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.Server.TimeoutSeconds) * time.Second
}

// Debounce returns the preview quiet period as a duration.
func (c Config) Debounce() time.Duration {
	return time.Duration(c.Preview.DebounceMS) * time.Millisecond
}

// CollationLocale returns the locale text columns sort by: the configured
// one, else the first of LC_ALL, LC_COLLATE and LANG that is set.
func (c Config) CollationLocale() string {
	if c.Timesheet.Locale != "" {
		return c.Timesheet.Locale
	}
	for _, name := range []string{"LC_ALL", "LC_COLLATE", "LANG"} {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			return v
		}
	}
	return ""
}

// defaultConfig returns a Config pre-filled with sensible defaults.
func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			BaseURL:        "",
			CookieName:     DefaultCookieName,
			TimeoutSeconds: DefaultTimeoutSeconds,
		},
		Preview: PreviewConfig{
			DebounceMS: DefaultDebounceMS,
			Renderer:   RendererRemote,
		},
	}
}

// configTemplate is the annotated config written on first run.
// Lines whose trimmed content starts with // are stripped before JSON parsing,
// allowing human-readable documentation inside the file.
const configTemplate = `// tsb configuration – ~/.tsb/config.json
//
// Every setting can also be given as an environment variable with the
// TSB_ prefix (TSB_BASE_URL, TSB_ADMIN_USER, TSB_LOCALE, ...) or as a
// command-line flag.
{
  // ── Board connection ─────────────────────────────────────────────────────
  "server": {
    // Root URL of the board, e.g. "https://board.example.org".
    "base_url": "",

    // Name of the login session cookie. Store its value with: tsb login --cookie <value>
    "cookie_name": "session",

    // Per-request timeout in seconds.
    "timeout_seconds": 15
  },

  // ── Timesheet ────────────────────────────────────────────────────────────
  "timesheet": {
    // Open another user's timesheet in admin (approval) mode. 0 = own timesheet.
    "admin_user": 0,

    // Share one sort direction between all columns instead of one per column.
    "shared_sort_direction": false,

    // Collation for sorting text columns, e.g. "de" or "sv-SE". Empty uses $LANG.
    "locale": ""
  },

  // ── Markdown preview ─────────────────────────────────────────────────────
  "preview": {
    // Quiet period in milliseconds before the preview is refreshed.
    "debounce_ms": 1000,

    // "remote" renders through the board, "local" renders offline.
    "renderer": "remote"
  }
}
`

// DefaultPath returns the path to ~/.tsb/config.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".tsb", "config.json"), nil
}

// stripLineComments removes lines whose leading non-whitespace content starts
// with //. Only full-line comments are handled; inline comments are not stripped.
func stripLineComments(data []byte) []byte {
	var out []byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if bytes.HasPrefix(bytes.TrimLeft(line, " \t"), []byte("//")) {
			continue
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out
}

// Load reads the config file at path, creating it with annotated defaults
// on first run, and then applies TSB_* environment overrides. An empty
// path means DefaultPath.
func Load(path string) (Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return defaultConfig(), err
		}
		path = p
	}

	cfg, err := loadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	fillDefaults(&cfg)
	return cfg, cfg.Validate()
}

func loadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		// First run: write the annotated template so users can discover options.
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
		return defaultConfig(), nil
	}
	if err != nil {
		return defaultConfig(), fmt.Errorf("reading config file %s: %w", path, err)
	}

	cleaned := stripLineComments(data)
	var cfg Config
	if err := json.Unmarshal(cleaned, &cfg); err != nil {
		return defaultConfig(), fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
	}
	return cfg, nil
}

// applyEnv overlays TSB_* variables: TSB_BASE_URL -> base_url, etc.
func applyEnv(cfg *Config) error {
	k := koanf.New(".")
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return fmt.Errorf("loading env overrides: %w", err)
	}

	if k.Exists("base_url") {
		cfg.Server.BaseURL = k.String("base_url")
	}
	if k.Exists("cookie_name") {
		cfg.Server.CookieName = k.String("cookie_name")
	}
	if k.Exists("timeout_seconds") {
		cfg.Server.TimeoutSeconds = k.Int("timeout_seconds")
	}
	if k.Exists("admin_user") {
		cfg.Timesheet.AdminUser = k.Int("admin_user")
	}
	if k.Exists("shared_sort_direction") {
		cfg.Timesheet.SharedSortDirection = k.Bool("shared_sort_direction")
	}
	if k.Exists("locale") {
		cfg.Timesheet.Locale = k.String("locale")
	}
	if k.Exists("debounce_ms") {
		cfg.Preview.DebounceMS = k.Int("debounce_ms")
	}
	if k.Exists("renderer") {
		cfg.Preview.Renderer = k.String("renderer")
	}
	return nil
}

// fillDefaults fills zero-value fields with built-in defaults so callers
// always get a usable Config even if the user only partially fills in the file.
func fillDefaults(cfg *Config) {
	if cfg.Server.CookieName == "" {
		cfg.Server.CookieName = DefaultCookieName
	}
	if cfg.Server.TimeoutSeconds <= 0 {
		cfg.Server.TimeoutSeconds = DefaultTimeoutSeconds
	}
	if cfg.Preview.DebounceMS <= 0 {
		cfg.Preview.DebounceMS = DefaultDebounceMS
	}
	if cfg.Preview.Renderer == "" {
		cfg.Preview.Renderer = RendererRemote
	}
}

// Validate checks that the configuration contains valid values.
func (c Config) Validate() error {
	if c.Timesheet.AdminUser < 0 {
		return fmt.Errorf("admin_user must be non-negative")
	}
	if c.Timesheet.Locale != "" {
		if _, err := sortable.ParseLocale(c.Timesheet.Locale); err != nil {
			return err
		}
	}
	switch c.Preview.Renderer {
	case RendererRemote, RendererLocal:
	default:
		return fmt.Errorf("invalid renderer %q: must be remote or local", c.Preview.Renderer)
	}
	return nil
}

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
