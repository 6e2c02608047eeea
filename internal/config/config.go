// Package config provides configuration types and defaults for strata.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zjrosen/strata/internal/log"
	"github.com/zjrosen/strata/internal/tracing"
)

// Config holds all configuration options for strata.
type Config struct {
	Board     BoardConfig     `mapstructure:"board"`
	Theme     ThemeConfig     `mapstructure:"theme"`
	Clipboard ClipboardConfig `mapstructure:"clipboard"`
	Watch     WatchConfig     `mapstructure:"watch"`
	State     StateConfig     `mapstructure:"state"`
	Tracing   tracing.Config  `mapstructure:"tracing"`
}

// BoardConfig holds board rendering options.
type BoardConfig struct {
	DimTrailingItems bool   `mapstructure:"dim_trailing_items"` // Dim every item after the first in a list
	PathSeparator    string `mapstructure:"path_separator"`     // Joins breadcrumb labels
}

// Style is a foreground/background colour pair. Colours are names
// ("yellow", "lightblue"), "#rgb" or "#rrggbb", ANSI indexes ("239"), or ""
// for the terminal default.
type Style struct {
	Fg string `mapstructure:"fg"`
	Bg string `mapstructure:"bg"`
}

// ThemeConfig holds the style of every board element.
type ThemeConfig struct {
	Header       Style `mapstructure:"header"`
	ActiveHeader Style `mapstructure:"active_header"`
	Item         Style `mapstructure:"item"`
	Tag          Style `mapstructure:"tag"`
	TagHashsign  Style `mapstructure:"tag_hashsign"`
	FringeOn     Style `mapstructure:"fringe_on"`
	FringeOff    Style `mapstructure:"fringe_off"`
	Selected     Style `mapstructure:"selected"`
}

// Styles returns the theme styles keyed by their config name.
func (t ThemeConfig) Styles() map[string]Style {
	return map[string]Style{
		"header":        t.Header,
		"active_header": t.ActiveHeader,
		"item":          t.Item,
		"tag":           t.Tag,
		"tag_hashsign":  t.TagHashsign,
		"fringe_on":     t.FringeOn,
		"fringe_off":    t.FringeOff,
		"selected":      t.Selected,
	}
}

// ClipboardConfig controls mirroring yanks into the OS clipboard.
type ClipboardConfig struct {
	System bool `mapstructure:"system"`
}

// WatchConfig controls external change detection on the open document.
type WatchConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Debounce time.Duration `mapstructure:"debounce"`
}

// StateConfig controls the view-state database.
type StateConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"` // Default: ~/.config/strata/state.db
}

// DefaultConfigDir returns ~/.config/strata, or .strata when the home
// directory is unknown.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".strata"
	}
	return filepath.Join(home, ".config", "strata")
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	dir := DefaultConfigDir()
	tr := tracing.DefaultConfig()
	tr.FilePath = filepath.Join(dir, "traces", "traces.jsonl")

	return Config{
		Board: BoardConfig{
			DimTrailingItems: false,
			PathSeparator:    " 〉 ",
		},
		Theme: ThemeConfig{
			Header:       Style{Fg: "white"},
			ActiveHeader: Style{Fg: "white"},
			Item:         Style{},
			Tag:          Style{Fg: "yellow"},
			TagHashsign:  Style{Fg: "darkgray"},
			FringeOn:     Style{Fg: "lightblue"},
			FringeOff:    Style{Fg: "239"},
			Selected:     Style{Bg: "235"},
		},
		Clipboard: ClipboardConfig{System: false},
		Watch: WatchConfig{
			Enabled:  true,
			Debounce: 200 * time.Millisecond,
		},
		State: StateConfig{
			Enabled: true,
			Path:    filepath.Join(dir, "state.db"),
		},
		Tracing: tr,
	}
}

// Validate checks the configuration for errors.
func Validate(c Config) error {
	for name, s := range c.Theme.Styles() {
		if _, err := ParseColor(s.Fg); err != nil {
			return fmt.Errorf("theme.%s.fg: %w", name, err)
		}
		if _, err := ParseColor(s.Bg); err != nil {
			return fmt.Errorf("theme.%s.bg: %w", name, err)
		}
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative, got %s", c.Watch.Debounce)
	}
	if c.State.Enabled && c.State.Path == "" {
		return fmt.Errorf("state.path is required when state is enabled")
	}
	return ValidateTracing(c.Tracing)
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(tr tracing.Config) error {
	if tr.SampleRate < 0.0 || tr.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tr.SampleRate)
	}

	if tr.Exporter != "" {
		switch tr.Exporter {
		case "none", "file", "stdout", "otlp":
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tr.Exporter)
		}
	}

	if tr.Enabled {
		if tr.Exporter == "file" && tr.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if tr.Exporter == "otlp" && tr.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}
	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# strata configuration

board:
  dim_trailing_items: false   # Dim every item after the first one in a list
  path_separator: " 〉 "      # Joins the breadcrumb of nested boards

# Colours: names (black, red, green, yellow, blue, magenta, cyan, white,
# darkgray, lightred, lightgreen, lightyellow, lightblue, lightmagenta,
# lightcyan, lightgray), "#rgb", "#rrggbb", ANSI indexes like "239",
# or "" for the terminal default.
theme:
  header:        { fg: white, bg: "" }
  active_header: { fg: white, bg: "" }
  item:          { fg: "", bg: "" }
  tag:           { fg: yellow, bg: "" }
  tag_hashsign:  { fg: darkgray, bg: "" }
  fringe_on:     { fg: lightblue, bg: "" }
  fringe_off:    { fg: "239", bg: "" }
  selected:      { fg: "", bg: "235" }

# Copy yanked and cut items to the system clipboard as well
clipboard:
  system: false

# Warn when the open document is changed by another program
watch:
  enabled: true
  debounce: 200ms

# Remember the open board and selection per document
state:
  enabled: true
  # path: ~/.config/strata/state.db

# OpenTelemetry spans for history steps and saves
# tracing:
#   enabled: false                 # Enable/disable tracing (default: false)
#   exporter: file                 # Export backend: none, file, stdout, otlp (default: file)
#   file_path: ~/.config/strata/traces/traces.jsonl
#   otlp_endpoint: localhost:4317  # OTLP collector endpoint (for otlp exporter)
#   sample_rate: 1.0               # Trace sampling rate 0.0-1.0 (default: 1.0)
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
