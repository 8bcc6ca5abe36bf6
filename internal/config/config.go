// Package config handles loading and validating taskboard configuration.
// Supports a global YAML file, a per-project YAML file and TASKBOARD_
// environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/marcus/taskboard/internal/logging"
	"github.com/marcus/taskboard/internal/tasks"
)

// Config holds all taskboard configuration.
type Config struct {
	Logging    LoggingConfig    `mapstructure:"logging"`
	Seed       SeedConfig       `mapstructure:"seed"`
	Categories CategoriesConfig `mapstructure:"categories"`
	Display    DisplayConfig    `mapstructure:"display"`
	Search     SearchConfig     `mapstructure:"search"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level         string `mapstructure:"level"`
	Format        string `mapstructure:"format"`
	Path          string `mapstructure:"path"` // empty logs to stderr
	RetentionDays int    `mapstructure:"retention_days"`
}

// SeedConfig points at the file tasks and categories are loaded from.
type SeedConfig struct {
	Path  string `mapstructure:"path"` // empty uses the built-in sample data
	Watch bool   `mapstructure:"watch"`
}

// CategoriesConfig selects the category store.
type CategoriesConfig struct {
	Backend string `mapstructure:"backend"` // memory, sqlite
	DBPath  string `mapstructure:"db_path"`
}

// DisplayConfig controls how tasks are presented.
type DisplayConfig struct {
	DefaultSort string `mapstructure:"default_sort"`
	Timezone    string `mapstructure:"timezone"`
}

// SearchConfig controls search behaviour.
type SearchConfig struct {
	Trace bool `mapstructure:"trace"` // log every predicate outcome at debug level
}

// Defaults.
const (
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "text"
	DefaultRetentionDays = 7
	DefaultBackend       = BackendMemory
	DefaultDBPath        = ":memory:"
	DefaultSort          = "deadline-asc"
	DefaultTimezone      = "Local"

	BackendMemory = "memory"
	BackendSQLite = "sqlite"

	ProjectConfigName = "taskboard.yaml"
	EnvPrefix         = "TASKBOARD"
)

var (
	ErrInvalidLogLevel  = errors.New("logging.level must be one of debug, info, warn, error")
	ErrInvalidLogFormat = errors.New("logging.format must be json or text")
	ErrInvalidBackend   = errors.New("categories.backend must be memory or sqlite")
	ErrInvalidSortKey   = errors.New("display.default_sort is not a known sort key")
	ErrInvalidTimezone  = errors.New("display.timezone is not a known location")
)

// GlobalConfigPath returns ~/.config/taskboard/config.yaml.
func GlobalConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "taskboard", "config.yaml")
	}
	return filepath.Join(home, ".config", "taskboard", "config.yaml")
}

// Load reads the global config and the project config in the working
// directory.
func Load() (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}
	return LoadFromPaths(cwd, GlobalConfigPath())
}

// LoadFromPaths merges globalPath and projectDir/taskboard.yaml over the
// defaults. Missing files are skipped; the project file wins.
func LoadFromPaths(projectDir, globalPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigType("yaml")

	for _, path := range []string{globalPath, filepath.Join(projectDir, ProjectConfigName)} {
		if path == "" {
			continue
		}
		path = expandPath(path)
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("checking config %s: %w", path, err)
		}
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.format", DefaultLogFormat)
	v.SetDefault("logging.path", "")
	v.SetDefault("logging.retention_days", DefaultRetentionDays)

	v.SetDefault("seed.path", "")
	v.SetDefault("seed.watch", false)

	v.SetDefault("categories.backend", DefaultBackend)
	v.SetDefault("categories.db_path", DefaultDBPath)

	v.SetDefault("display.default_sort", DefaultSort)
	v.SetDefault("display.timezone", DefaultTimezone)

	v.SetDefault("search.trace", false)
}

// Validate checks cfg for values the rest of taskboard cannot use. Empty
// fields are accepted and fall back to defaults.
func Validate(cfg *Config) error {
	if cfg.Logging.Level != "" && !logging.ValidLevel(cfg.Logging.Level) {
		return ErrInvalidLogLevel
	}
	switch cfg.Logging.Format {
	case "", "json", "text":
	default:
		return ErrInvalidLogFormat
	}

	switch cfg.Categories.Backend {
	case "", BackendMemory, BackendSQLite:
	default:
		return ErrInvalidBackend
	}

	if cfg.Display.DefaultSort != "" {
		if _, err := tasks.ParseSortKey(cfg.Display.DefaultSort); err != nil {
			return ErrInvalidSortKey
		}
	}
	if cfg.Display.Timezone != "" {
		if _, err := time.LoadLocation(cfg.Display.Timezone); err != nil {
			return ErrInvalidTimezone
		}
	}

	return nil
}

// LoggingOptions converts the logging section for logging.Init.
func (c *Config) LoggingOptions() logging.Config {
	return logging.Config{
		Level:         c.Logging.Level,
		Format:        c.Logging.Format,
		Path:          c.Logging.Path,
		RetentionDays: c.Logging.RetentionDays,
	}
}

// Location returns the display timezone, falling back to time.Local.
func (c *Config) Location() *time.Location {
	if c.Display.Timezone == "" || c.Display.Timezone == DefaultTimezone {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Display.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// DefaultSortKey returns the configured sort key, or deadline ascending.
func (c *Config) DefaultSortKey() tasks.SortKey {
	key, err := tasks.ParseSortKey(c.Display.DefaultSort)
	if err != nil {
		return tasks.DeadlineAsc
	}
	return key
}

// SeedPath returns the expanded seed file path.
func (c *Config) SeedPath() string {
	return expandPath(c.Seed.Path)
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
