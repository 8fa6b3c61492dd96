package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned by Validate for unusable settings.
var ErrInvalid = errors.New("invalid config")

// Config represents the bot configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
	CodeHook  CodeHookConfig  `yaml:"codehook"`
	Providers ProvidersConfig `yaml:"providers"`
	Dedupe    DedupeConfig    `yaml:"dedupe"`
	NATS      NATSConfig      `yaml:"nats"`
	Locale    string          `yaml:"locale"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// CodeHookConfig holds settings for the HTTP code hook endpoint.
type CodeHookConfig struct {
	// Secret signs request bodies. Empty disables signature checks.
	Secret string `yaml:"secret"`
}

// ProvidersConfig holds repository hosting provider settings.
type ProvidersConfig struct {
	Default        string       `yaml:"default"`
	TimeoutSeconds int          `yaml:"timeout_seconds"`
	GitHub         GitHubConfig `yaml:"github"`
	GitLab         GitLabConfig `yaml:"gitlab"`
}

// GitHubConfig holds GitHub-specific settings.
type GitHubConfig struct {
	BaseURL string `yaml:"base_url"`
}

// GitLabConfig holds GitLab-specific settings. GitLab is enabled only when
// Enabled is set.
type GitLabConfig struct {
	Enabled bool   `yaml:"enabled"`
	BaseURL string `yaml:"base_url"`
}

// DedupeConfig controls suppression of repeated confirmed turns.
type DedupeConfig struct {
	WindowSeconds int    `yaml:"window_seconds"`
	RedisURL      string `yaml:"redis_url"`
}

// NATSConfig holds settings for the NATS request/reply transport.
type NATSConfig struct {
	URL            string `yaml:"url"`
	Subject        string `yaml:"subject"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// envVarPattern matches ${VAR_NAME} patterns.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 7000,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Providers: ProvidersConfig{
			Default:        "github",
			TimeoutSeconds: 10,
		},
		NATS: NATSConfig{
			URL:            "nats://localhost:4222",
			Subject:        "oscar.codehook",
			TimeoutSeconds: 30,
		},
		Locale: "en",
	}
}

// Load reads and parses the config file at the given path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Substitute environment variables
	data = envVarPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		varName := envVarPattern.FindSubmatch(match)[1]
		return []byte(os.Getenv(string(varName)))
	})

	cfg := DefaultConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// FromEnv builds a Config from OSCAR_* environment variables. It is used
// where no config file is shipped, such as the Lambda runtime.
func FromEnv() (*Config, error) {
	cfg := DefaultConfig()

	cfg.Logging.Level = getEnv("OSCAR_LOG_LEVEL", cfg.Logging.Level)
	cfg.Locale = getEnv("OSCAR_LOCALE", cfg.Locale)
	cfg.CodeHook.Secret = getEnv("OSCAR_CODEHOOK_SECRET", "")
	cfg.Providers.Default = getEnv("OSCAR_DEFAULT_PROVIDER", cfg.Providers.Default)
	cfg.Providers.GitHub.BaseURL = getEnv("OSCAR_GITHUB_BASE_URL", "")
	cfg.Providers.GitLab.BaseURL = getEnv("OSCAR_GITLAB_BASE_URL", "")
	cfg.Providers.GitLab.Enabled = getEnv("OSCAR_GITLAB_ENABLED", "") == "true"
	cfg.Dedupe.RedisURL = getEnv("OSCAR_REDIS_URL", "")

	var err error
	if cfg.Providers.TimeoutSeconds, err = getIntEnv("OSCAR_PROVIDER_TIMEOUT_SECONDS", cfg.Providers.TimeoutSeconds); err != nil {
		return nil, err
	}
	if cfg.Dedupe.WindowSeconds, err = getIntEnv("OSCAR_DEDUPE_WINDOW_SECONDS", 0); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that would otherwise fail at request time.
func (c *Config) Validate() error {
	switch c.Providers.Default {
	case "github":
	case "gitlab":
		if !c.Providers.GitLab.Enabled {
			return fmt.Errorf("%w: default provider gitlab is not enabled", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown default provider %q", ErrInvalid, c.Providers.Default)
	}

	if c.Providers.TimeoutSeconds < 0 {
		return fmt.Errorf("%w: providers.timeout_seconds must not be negative", ErrInvalid)
	}
	if c.Dedupe.WindowSeconds < 0 {
		return fmt.Errorf("%w: dedupe.window_seconds must not be negative", ErrInvalid)
	}
	if c.NATS.TimeoutSeconds < 0 {
		return fmt.Errorf("%w: nats.timeout_seconds must not be negative", ErrInvalid)
	}
	return nil
}

// ProviderTimeout bounds the external calls of one turn. Zero means no limit.
func (c *Config) ProviderTimeout() time.Duration {
	return time.Duration(c.Providers.TimeoutSeconds) * time.Second
}

// DedupeWindow is how long a successful star suppresses repeats.
func (c *Config) DedupeWindow() time.Duration {
	return time.Duration(c.Dedupe.WindowSeconds) * time.Second
}

// NATSTimeout bounds handling of one NATS request.
func (c *Config) NATSTimeout() time.Duration {
	return time.Duration(c.NATS.TimeoutSeconds) * time.Second
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalid, key, err)
	}
	return n, nil
}
