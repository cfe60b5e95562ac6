package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultConfigYAML is the default configuration content.
const DefaultConfigYAML = `# revmod configuration

sqlite:
  path: .revmod/revmod.db

redis:
  # Cache access decisions in Redis (or set REVMOD_REDIS_ADDR).
  enabled: false
  addr: 127.0.0.1:6379
  ttl: 10m

log:
  level: info    # debug, info, warn, error
  format: console # console or json

moderation:
  # Kind used in the "administer <kind>" permission.
  entity_kind: nodes
  # When false every default revision is protected from revert and delete.
  draft_support: true
  # Operation checked on the draft revision: view or update.
  draft_operation: view
  # Entity types whose editors may only save drafts of published content.
  # unpublished_types: [news]
`

// WriteDefault creates the .revmod directory and writes a default config file.
func WriteDefault(basePath string) error {
	configDir := ConfigDir(basePath)
	configFile := ConfigFilePath(basePath)

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists: %s", configFile)
	}

	if err := os.WriteFile(configFile, []byte(DefaultConfigYAML), 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// Exists checks if a revmod config exists in the given path.
func Exists(basePath string) bool {
	_, err := os.Stat(ConfigFilePath(basePath))
	return err == nil
}

// DatabaseDir returns the directory holding the SQLite database.
func DatabaseDir(cfg *Config) string {
	return filepath.Dir(cfg.SQLite.Path)
}
