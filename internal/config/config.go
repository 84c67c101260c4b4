// Package config loads multitimer settings through viper. Values come from
// defaults, then $XDG_CONFIG_HOME/multitimer/config.yaml, then MULTITIMER_*
// environment variables.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/sadopc/multitimer/internal/timer"
)

const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
)

// EnvPrefix is prepended to environment overrides, e.g.
// MULTITIMER_ENGINE_TICK_INTERVAL for engine.tick_interval.
const EnvPrefix = "MULTITIMER"

type Config struct {
	Storage StorageConfig `mapstructure:"storage"`
	Engine  EngineConfig  `mapstructure:"engine"`
	Logging LoggingConfig `mapstructure:"logging"`
	TUI     TUIConfig     `mapstructure:"tui"`
}

// StorageConfig selects where the snapshot is persisted.
type StorageConfig struct {
	// Backend is "sqlite" or "file".
	Backend string `mapstructure:"backend"`
	// Path overrides the default database or state file location.
	Path string `mapstructure:"path"`
}

type EngineConfig struct {
	// TickInterval is how much wall time one tick represents.
	TickInterval time.Duration `mapstructure:"tick_interval"`
	// Categories seeds the category list of a fresh snapshot.
	Categories []string `mapstructure:"categories"`
}

type LoggingConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Level   string `mapstructure:"level"`
}

type TUIConfig struct {
	// HistoryLimit caps the rows shown in the history view (0 = no limit).
	HistoryLimit int `mapstructure:"history_limit"`
	// ConfirmDelete asks before deleting a timer.
	ConfirmDelete bool `mapstructure:"confirm_delete"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{Backend: BackendSQLite},
		Engine: EngineConfig{
			TickInterval: time.Second,
			Categories:   timer.DefaultCategories(),
		},
		Logging: LoggingConfig{Enabled: true, Level: "info"},
		TUI:     TUIConfig{HistoryLimit: 200, ConfirmDelete: true},
	}
}

// SetDefaults registers Default() with viper.
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("storage.backend", defaults.Storage.Backend)
	viper.SetDefault("storage.path", defaults.Storage.Path)

	viper.SetDefault("engine.tick_interval", defaults.Engine.TickInterval.String())
	viper.SetDefault("engine.categories", defaults.Engine.Categories)

	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)

	viper.SetDefault("tui.history_limit", defaults.TUI.HistoryLimit)
	viper.SetDefault("tui.confirm_delete", defaults.TUI.ConfirmDelete)
}

// Load reads the configuration from viper into a Config struct and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}
	return &cfg, nil
}

// ConfigDir returns $XDG_CONFIG_HOME/multitimer, falling back to
// ~/.config/multitimer.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "multitimer")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".multitimer"
	}
	return filepath.Join(home, ".config", "multitimer")
}

// ConfigFile returns the path to the config file.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// StoragePath is the configured path, or the backend's default file inside
// ConfigDir.
func (c *Config) StoragePath() string {
	if c.Storage.Path != "" {
		return c.Storage.Path
	}
	if c.Storage.Backend == BackendFile {
		return filepath.Join(ConfigDir(), "state.json")
	}
	return filepath.Join(ConfigDir(), "multitimer.db")
}

// LogDir is where debug.log is written when logging is enabled.
func (c *Config) LogDir() string {
	return filepath.Join(ConfigDir(), "logs")
}
