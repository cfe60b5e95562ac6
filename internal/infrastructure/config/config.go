// Package config provides configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigDir is the directory name for revmod configuration.
	DefaultConfigDir = ".revmod"
	// DefaultConfigFile is the default config file name.
	DefaultConfigFile = "config.yaml"
	// DefaultDatabaseFile is the default SQLite database file name.
	DefaultDatabaseFile = "revmod.db"
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "REVMOD"
)

// Config holds static infrastructure configuration (read-only after init).
type Config struct {
	SQLite     SQLiteConfig     `yaml:"sqlite,omitempty"`
	Redis      RedisConfig      `yaml:"redis,omitempty"`
	Log        LogConfig        `yaml:"log,omitempty"`
	Moderation ModerationConfig `yaml:"moderation,omitempty"`
}

// SQLiteConfig holds configuration for the SQLite revision store.
type SQLiteConfig struct {
	// Path is the file path to the SQLite database. Relative paths are
	// resolved against the project directory.
	Path string `yaml:"path,omitempty"`
}

// RedisConfig holds configuration for the access decision cache.
type RedisConfig struct {
	Enabled bool          `yaml:"enabled"`
	Addr    string        `yaml:"addr,omitempty"`
	TTL     time.Duration `yaml:"ttl,omitempty"`
}

// LogConfig holds logger configuration.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level,omitempty"`
	// Format is json or console.
	Format string `yaml:"format,omitempty"`
}

// ModerationConfig holds moderation policy.
type ModerationConfig struct {
	EntityKind       string   `yaml:"entity_kind,omitempty"`
	DraftSupport     bool     `yaml:"draft_support"`
	DraftOperation   string   `yaml:"draft_operation,omitempty"`
	UnpublishedTypes []string `yaml:"unpublished_types,omitempty"`
}

// envOverrides are read from REVMOD_* environment variables. Unset or empty
// values leave the file configuration untouched.
type envOverrides struct {
	SQLitePath   string `envconfig:"SQLITE_PATH"`
	RedisAddr    string `envconfig:"REDIS_ADDR"`
	RedisEnabled *bool  `envconfig:"REDIS_ENABLED"`
	LogLevel     string `envconfig:"LOG_LEVEL"`
	LogFormat    string `envconfig:"LOG_FORMAT"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		SQLite: SQLiteConfig{
			Path: filepath.Join(DefaultConfigDir, DefaultDatabaseFile),
		},
		Redis: RedisConfig{
			Addr: "127.0.0.1:6379",
			TTL:  10 * time.Minute,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Moderation: ModerationConfig{
			EntityKind:     "nodes",
			DraftSupport:   true,
			DraftOperation: "view",
		},
	}
}

// Load loads configuration from the .revmod directory in the given path and
// applies environment overrides.
func Load(basePath string) (*Config, error) {
	configFile := ConfigFilePath(basePath)

	data, err := os.ReadFile(configFile)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s (run 'revmod init' first)", configFile)
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Start with defaults
	cfg := Default()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	if !filepath.IsAbs(cfg.SQLite.Path) && cfg.SQLite.Path != ":memory:" {
		cfg.SQLite.Path = filepath.Join(basePath, cfg.SQLite.Path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() error {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return fmt.Errorf("reading environment: %w", err)
	}

	if env.SQLitePath != "" {
		c.SQLite.Path = env.SQLitePath
	}
	if env.RedisAddr != "" {
		c.Redis.Addr = env.RedisAddr
		c.Redis.Enabled = true
	}
	if env.RedisEnabled != nil {
		c.Redis.Enabled = *env.RedisEnabled
	}
	if env.LogLevel != "" {
		c.Log.Level = env.LogLevel
	}
	if env.LogFormat != "" {
		c.Log.Format = env.LogFormat
	}
	return nil
}

// Validate rejects configuration values the application cannot use.
func (c *Config) Validate() error {
	if c.SQLite.Path == "" {
		return errors.New("sqlite.path is required")
	}
	if c.Redis.Enabled {
		if c.Redis.Addr == "" {
			return errors.New("redis.addr is required when redis is enabled")
		}
		if c.Redis.TTL < 0 {
			return errors.New("redis.ttl must not be negative")
		}
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log.level: %s (valid: debug, info, warn, error)", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid log.format: %s (valid: json, console)", c.Log.Format)
	}
	if c.Moderation.EntityKind == "" {
		return errors.New("moderation.entity_kind is required")
	}
	switch c.Moderation.DraftOperation {
	case "view", "update":
	default:
		return fmt.Errorf("invalid moderation.draft_operation: %s (valid: view, update)", c.Moderation.DraftOperation)
	}
	return nil
}

// ConfigDir returns the path to the .revmod config directory.
func ConfigDir(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir)
}

// ConfigFilePath returns the path to the config file.
func ConfigFilePath(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir, DefaultConfigFile)
}
