// Package config provides configuration loading for the repouri application.
// Settings come from built-in defaults, an optional TOML file, and
// environment variables (optionally seeded from a .env file), in that order
// of increasing precedence.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Environment variable names.
const (
	// EnvConfigFile is the path to an optional TOML configuration file.
	EnvConfigFile = "REPOURI_CONFIG"

	// EnvBaseURL is the web base URL prefixed to pretty blob URLs.
	EnvBaseURL = "REPOURI_BASE_URL"

	// EnvRemote is the git remote used to derive the repository path.
	EnvRemote = "REPOURI_REMOTE"

	// EnvLogLevel is the log level (debug, info, error).
	EnvLogLevel = "LOG_LEVEL"

	// EnvLogAppName is the application name for log context.
	EnvLogAppName = "LOG_APP_NAME"
)

// Default values.
const (
	DefaultRemote     = "origin"
	DefaultLogLevel   = "info"
	DefaultLogAppName = "repouri"
	DefaultEnvFile    = ".env"
)

// Configuration errors.
var (
	// ErrConfigNotFound indicates REPOURI_CONFIG points at a missing file.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrConfigInvalid indicates the configuration file is not valid TOML
	// or contains unknown keys.
	ErrConfigInvalid = errors.New("configuration file is not valid TOML")

	// ErrInvalidBaseURL indicates the base URL is not an absolute http(s) URL.
	ErrInvalidBaseURL = errors.New("base URL must be an absolute http or https URL")
)

// Config holds all application configuration.
type Config struct {
	// BaseURL is prefixed to pretty blob URLs, e.g. https://sourcegraph.example.com.
	// Empty means blob URLs are printed as root-relative paths.
	BaseURL string `toml:"base_url"`

	// Remote is the git remote whose URL names the repository.
	Remote string `toml:"remote"`

	// LogLevel is the logging level (debug, info, error).
	LogLevel string `toml:"log_level"`

	// LogAppName is the application name for log context.
	LogAppName string `toml:"log_app_name"`
}

// Load loads configuration, first seeding the environment from ./.env if
// it exists.
func Load() (*Config, error) {
	return LoadWithEnvFiles(DefaultEnvFile)
}

// LoadWithEnvFiles loads configuration after seeding the environment from
// the given .env files. Missing .env files are ignored, and variables
// already set in the environment are never overridden.
func LoadWithEnvFiles(envFiles ...string) (*Config, error) {
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	cfg := &Config{
		Remote:     DefaultRemote,
		LogLevel:   DefaultLogLevel,
		LogAppName: DefaultLogAppName,
	}

	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFile overlays the TOML file at path onto cfg. Keys absent from the
// file keep their current values.
func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return fmt.Errorf("failed to read configuration file: %w", err)
	}

	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrConfigInvalid, path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	overrides := map[string]*string{
		EnvBaseURL:    &cfg.BaseURL,
		EnvRemote:     &cfg.Remote,
		EnvLogLevel:   &cfg.LogLevel,
		EnvLogAppName: &cfg.LogAppName,
	}
	for env, field := range overrides {
		if v := os.Getenv(env); v != "" {
			*field = v
		}
	}
}

// Validate checks the settings that can be wrong independently of the
// environment they came from.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return nil
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidBaseURL, c.BaseURL)
	}
	return nil
}
