// Package config handles global configuration and path resolution.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents configuration stored in ~/.config/alfpass/config.yml.
type Config struct {
	DBPath          string   `yaml:"db_path,omitempty"`
	DefaultLength   int      `yaml:"default_length,omitempty"`
	MaxLength       int      `yaml:"max_length,omitempty"`
	CopyToClipboard bool     `yaml:"copy_to_clipboard,omitempty"`
	ShortLabels     []string `yaml:"short_labels,omitempty"`
	LogFile         string   `yaml:"log_file,omitempty"`
}

const (
	// AppDir is the directory name under XDG_CONFIG_HOME and XDG_DATA_HOME.
	AppDir = "alfpass"
	// ConfigFile is the config file name.
	ConfigFile = "config.yml"
	// DBFile is the database file name.
	DBFile = "passwords.db"
)

// Length defaults applied when the config leaves them unset.
const (
	DefaultLength    = 16
	DefaultMaxLength = 512
)

// Environment variables consulted by ApplyEnv and ResolveDBPath.
const (
	EnvConfig  = "ALFPASS_CONFIG"
	EnvDB      = "ALFPASS_DB"
	EnvLogFile = "ALFPASS_LOG_FILE"
	// EnvWorkflowData is set by Alfred to the workflow's private data directory.
	EnvWorkflowData = "alfred_workflow_data"
)

// ErrInvalidConfig is returned when a loaded config fails validation.
var ErrInvalidConfig = errors.New("invalid config")

// Default returns a config with every default filled in.
func Default() *Config {
	return &Config{
		DefaultLength: DefaultLength,
		MaxLength:     DefaultMaxLength,
	}
}

// GlobalConfigPath returns the path to the global config file.
// ALFPASS_CONFIG wins; otherwise XDG_CONFIG_HOME is respected and defaults
// to ~/.config/alfpass/config.yml.
func GlobalConfigPath() string {
	if p := os.Getenv(EnvConfig); p != "" {
		return ExpandPath(p)
	}
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, AppDir, ConfigFile)
}

// DefaultDBPath returns the database location used when nothing is configured.
func DefaultDBPath() string {
	if dir := os.Getenv(EnvWorkflowData); dir != "" {
		return filepath.Join(dir, DBFile)
	}
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return DBFile
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, AppDir, DBFile)
}

// Load reads configuration from path, filling in defaults.
// Returns the default config (not an error) if the file doesn't exist.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.DefaultLength == 0 {
		cfg.DefaultLength = DefaultLength
	}
	if cfg.MaxLength == 0 {
		cfg.MaxLength = DefaultMaxLength
	}
	if cfg.DBPath != "" {
		cfg.DBPath = ExpandPath(cfg.DBPath)
	}
	if cfg.LogFile != "" {
		cfg.LogFile = ExpandPath(cfg.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the numeric limits.
func (c *Config) Validate() error {
	if c.DefaultLength < 1 {
		return fmt.Errorf("%w: default_length must be at least 1, got %d", ErrInvalidConfig, c.DefaultLength)
	}
	if c.MaxLength < c.DefaultLength {
		return fmt.Errorf("%w: max_length %d is below default_length %d", ErrInvalidConfig, c.MaxLength, c.DefaultLength)
	}
	return nil
}

// Save writes the config as YAML to path, creating the directory.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// ApplyEnv overrides file settings with ALFPASS_* environment variables.
func (c *Config) ApplyEnv() {
	if p := os.Getenv(EnvDB); p != "" {
		c.DBPath = ExpandPath(p)
	}
	if p := os.Getenv(EnvLogFile); p != "" {
		c.LogFile = ExpandPath(p)
	}
}

// ResolveDBPath picks the database file: flag, then config (which already
// includes ALFPASS_DB after ApplyEnv), then the default location.
func (c *Config) ResolveDBPath(flag string) string {
	if flag != "" {
		return ExpandPath(flag)
	}
	if c.DBPath != "" {
		return c.DBPath
	}
	return DefaultDBPath()
}

// LoadDotEnv loads .env files from the working directory and from the
// directory holding the executable. Missing files are ignored and existing
// environment variables are never overridden.
func LoadDotEnv() {
	_ = godotenv.Load()
	if exe, err := os.Executable(); err == nil {
		_ = godotenv.Load(filepath.Join(filepath.Dir(exe), ".env"))
	}
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path // Return original if we can't get home directory
	}

	return filepath.Join(home, path[1:])
}
