package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/strata/internal/app"
	"github.com/zjrosen/strata/internal/config"
	"github.com/zjrosen/strata/internal/log"
	"github.com/zjrosen/strata/internal/outline"
	"github.com/zjrosen/strata/internal/sysclip"
	"github.com/zjrosen/strata/internal/tracing"
	"github.com/zjrosen/strata/internal/viewstate"
	"github.com/zjrosen/strata/internal/watcher"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in input fields.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

const localConfigPath = ".strata/config.yaml"

var (
	version    = "dev"
	cfgFile    string
	debugFlag  bool
	cfg        config.Config
	configPath string
	configErr  error
)

var rootCmd = &cobra.Command{
	Use:     "strata FILE",
	Short:   "A terminal outliner of nested kanban boards",
	Long:    `Edit a markdown outline as boards of lists. Any item can hold a board of its own.`,
	Version: version,
	Args:    cobra.ExactArgs(1),
	RunE:    runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ./.strata/config.yaml, then ~/.config/strata/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false,
		"write a debug log and enable the log pane (ctrl+x)")
}

func initConfig() {
	cfg, configPath, configErr = loadConfig(viper.GetViper(), cfgFile)
}

// loadConfig reads the config file into the defaults. Without an explicit
// path it looks in ./.strata, then in the user config directory, and writes
// a default file there when neither exists.
func loadConfig(v *viper.Viper, explicit string) (config.Config, string, error) {
	defaults := config.Defaults()
	v.SetDefault("board.dim_trailing_items", defaults.Board.DimTrailingItems)
	v.SetDefault("board.path_separator", defaults.Board.PathSeparator)
	v.SetDefault("watch.enabled", defaults.Watch.Enabled)
	v.SetDefault("watch.debounce", defaults.Watch.Debounce)
	v.SetDefault("state.enabled", defaults.State.Enabled)
	v.SetDefault("state.path", defaults.State.Path)

	userDir := config.DefaultConfigDir()
	switch {
	case explicit != "":
		v.SetConfigFile(explicit)
	case fileExists(localConfigPath):
		v.SetConfigFile(localConfigPath)
	default:
		v.AddConfigPath(userDir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return defaults, v.ConfigFileUsed(), fmt.Errorf("reading config: %w", err)
		}
		defaultPath := filepath.Join(userDir, "config.yaml")
		if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
			v.SetConfigFile(defaultPath)
			_ = v.ReadInConfig()
		} else {
			log.Warn(log.CatConfig, "writing default config failed", "path", defaultPath, "error", writeErr)
		}
	}

	out := defaults
	if err := v.Unmarshal(&out); err != nil {
		return defaults, v.ConfigFileUsed(), fmt.Errorf("decoding config: %w", err)
	}
	return out, v.ConfigFileUsed(), nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// initLogging enables the debug log from --debug or STRATA_DEBUG. The log
// goes to STRATA_LOG, or strata-debug.log in the working directory, and
// STRATA_LOG_LEVEL raises the minimum level.
func initLogging() (bool, func(), error) {
	if !debugFlag && os.Getenv("STRATA_DEBUG") == "" {
		return false, func() {}, nil
	}
	logPath := os.Getenv("STRATA_LOG")
	if logPath == "" {
		logPath = "strata-debug.log"
	}
	cleanup, err := log.InitWithTeaLog(logPath, "strata")
	if err != nil {
		return false, nil, fmt.Errorf("initializing logging: %w", err)
	}
	if raw := os.Getenv("STRATA_LOG_LEVEL"); raw != "" {
		level, err := log.ParseLevel(raw)
		if err != nil {
			cleanup()
			return false, nil, fmt.Errorf("STRATA_LOG_LEVEL: %w", err)
		}
		log.SetMinLevel(level)
	}
	log.Info(log.CatConfig, "strata starting", "version", version, "session", log.SessionID(), "logPath", logPath)
	return true, cleanup, nil
}

func runApp(_ *cobra.Command, args []string) error {
	debug, cleanup, err := initLogging()
	if err != nil {
		return err
	}
	defer cleanup()

	if configErr != nil {
		return configErr
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration in %s: %w", configPath, err)
	}

	provider, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("starting tracing: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if shutdownErr := provider.Shutdown(ctx); shutdownErr != nil {
			log.ErrorErr(log.CatTrace, "flushing spans failed", shutdownErr)
		}
	}()

	file := outline.NewFile(args[0])
	f, err := file.Open(context.Background())
	if err != nil {
		return fmt.Errorf("opening document: %w", err)
	}

	var store *viewstate.Store
	if cfg.State.Enabled {
		// The editor works without remembered positions.
		if store, err = viewstate.Open(cfg.State.Path); err != nil {
			log.ErrorErr(log.CatState, "opening view state failed", err, "path", cfg.State.Path)
			store = nil
		} else {
			defer func() { _ = store.Close() }()
		}
	}

	var w *watcher.Watcher
	if cfg.Watch.Enabled {
		w = startWatcher(file.Path(), cfg.Watch.Debounce)
	}

	zone.NewGlobal()

	model, err := app.New(app.Options{
		Config:     cfg,
		ConfigPath: configPath,
		File:       file,
		Forest:     f,
		State:      store,
		Watcher:    w,
		Clipboard:  sysclip.New(cfg.Clipboard.System),
		Tracer:     provider.Tracer(),
		Debug:      debug,
	})
	if err != nil {
		if w != nil {
			_ = w.Stop()
		}
		return err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	final, err := p.Run()
	if err != nil {
		_ = model.Close()
		return fmt.Errorf("running program: %w", err)
	}

	done, ok := final.(app.Model)
	if !ok {
		_ = model.Close()
		return nil
	}
	if closeErr := done.Close(); closeErr != nil {
		log.ErrorErr(log.CatWatcher, "stopping watcher failed", closeErr)
	}
	return done.Err()
}

// startWatcher watches the document for changes made by other programs. The
// editor works without it, so failures are only logged.
func startWatcher(path string, debounce time.Duration) *watcher.Watcher {
	w, err := watcher.New(watcher.Config{Path: path, DebounceDur: debounce})
	if err != nil {
		log.ErrorErr(log.CatWatcher, "creating watcher failed", err)
		return nil
	}
	if err := w.Start(); err != nil {
		log.ErrorErr(log.CatWatcher, "starting watcher failed", err)
		_ = w.Stop()
		return nil
	}
	return w
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
