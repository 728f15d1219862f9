package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lowaak/zen-breath/internal/breathing"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides, e.g. ZEN_BREATH_SESSION_TICK_INTERVAL_MS
const EnvPrefix = "ZEN_BREATH"

// Config represents the complete zen-breath configuration
type Config struct {
	Session  SessionConfig   `mapstructure:"session"`
	Patterns []PatternConfig `mapstructure:"patterns"`
	Logging  LoggingConfig   `mapstructure:"logging"`
	Paths    PathsConfig     `mapstructure:"paths"`
}

// SessionConfig controls how breathing sessions run
type SessionConfig struct {
	// TickIntervalMs is the time between ticks in milliseconds (default: 1000)
	TickIntervalMs int `mapstructure:"tick_interval_ms"`
	// DefaultPattern is the pattern selected on launch when none was remembered
	DefaultPattern string `mapstructure:"default_pattern"`
	// AutoStart starts the selected pattern immediately on launch
	AutoStart bool `mapstructure:"auto_start"`
}

// PatternConfig is a user-defined breathing pattern. Durations are in seconds.
type PatternConfig struct {
	Name            string `mapstructure:"name"`
	Description     string `mapstructure:"description"`
	Inhale          int    `mapstructure:"inhale"`
	Hold            int    `mapstructure:"hold"`
	Exhale          int    `mapstructure:"exhale"`
	HoldAfterExhale int    `mapstructure:"hold_after_exhale"`
	Cycles          int    `mapstructure:"cycles"`
}

// LoggingConfig controls the rotating log file
type LoggingConfig struct {
	// Enabled turns the log file on or off; the in-app log pane is always on
	Enabled bool `mapstructure:"enabled"`
	// File is the log file path (default: <config dir>/zen-breath.log)
	File string `mapstructure:"file"`
	// MaxSizeMB is the size in megabytes at which the file is rotated (default: 10)
	MaxSizeMB int `mapstructure:"max_size_mb"`
	// MaxBackups is the number of rotated files to keep (default: 3)
	MaxBackups int `mapstructure:"max_backups"`
	// MaxAgeDays removes rotated files older than this many days (0 = never)
	MaxAgeDays int `mapstructure:"max_age_days"`
	// Compress gzips rotated files
	Compress bool `mapstructure:"compress"`
}

// PathsConfig controls where state is stored
type PathsConfig struct {
	// StateFile holds remembered UI preferences such as the last pattern
	StateFile string `mapstructure:"state_file"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Session: SessionConfig{
			TickIntervalMs: 1000,
			DefaultPattern: breathing.PatternRelaxing478,
			AutoStart:      false,
		},
		Logging: LoggingConfig{
			Enabled:    true,
			File:       filepath.Join(ConfigDir(), "zen-breath.log"),
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
			Compress:   false,
		},
		Paths: PathsConfig{
			StateFile: filepath.Join(StateDir(), "ui_state.json"),
		},
	}
}

// TickInterval returns the tick cadence as a duration
func (c *SessionConfig) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalMs) * time.Millisecond
}

// Pattern converts the config entry to a breathing pattern
func (p PatternConfig) Pattern() breathing.Pattern {
	return breathing.Pattern{
		Name:            p.Name,
		Description:     p.Description,
		Inhale:          p.Inhale,
		Hold:            p.Hold,
		Exhale:          p.Exhale,
		HoldAfterExhale: p.HoldAfterExhale,
		Cycles:          p.Cycles,
	}
}

// Catalog returns the built-in catalog extended with the configured patterns
func (c *Config) Catalog() (*breathing.Catalog, error) {
	extra := make([]breathing.Pattern, 0, len(c.Patterns))
	for _, p := range c.Patterns {
		extra = append(extra, p.Pattern())
	}
	return breathing.DefaultCatalog().With(extra...)
}

// SetDefaults registers defaults and environment overrides on v
func SetDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("session.tick_interval_ms", defaults.Session.TickIntervalMs)
	v.SetDefault("session.default_pattern", defaults.Session.DefaultPattern)
	v.SetDefault("session.auto_start", defaults.Session.AutoStart)

	v.SetDefault("logging.enabled", defaults.Logging.Enabled)
	v.SetDefault("logging.file", defaults.Logging.File)
	v.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	v.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)
	v.SetDefault("logging.max_age_days", defaults.Logging.MaxAgeDays)
	v.SetDefault("logging.compress", defaults.Logging.Compress)

	v.SetDefault("paths.state_file", defaults.Paths.StateFile)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// ReadFile loads a YAML config file into v. An explicit path must exist;
// when path is empty the default location is used if present.
func ReadFile(v *viper.Viper, path string) error {
	explicit := path != ""
	if !explicit {
		path = ConfigFile()
	}
	if _, err := os.Stat(path); err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config file %s: %w", path, err)
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	return nil
}

// Load reads the configuration from v into a Config struct and validates it
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "zen-breath")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".zen-breath"
	}
	return filepath.Join(home, ".config", "zen-breath")
}

// ConfigFile returns the path to the default config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// StateDir returns the directory holding remembered UI state
func StateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".zen-breath")
}
