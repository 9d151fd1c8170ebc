package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Extractor ExtractorConfig `yaml:"extractor"`
	Workspace WorkspaceConfig `yaml:"workspace"`
	Fetch     FetchConfig     `yaml:"fetch"`
	History   HistoryConfig   `yaml:"history"`
}

// ServerConfig holds HTTP server configuration. APIKey is optional; when
// empty the API is unauthenticated.
type ServerConfig struct {
	Host         string        `yaml:"host" envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port         int           `yaml:"port" envconfig:"SERVER_PORT" default:"9848"`
	APIKey       string        `yaml:"api_key" envconfig:"API_KEY"`
	ReadTimeout  time.Duration `yaml:"read_timeout" envconfig:"SERVER_READ_TIMEOUT" default:"30s"`
	WriteTimeout time.Duration `yaml:"write_timeout" envconfig:"SERVER_WRITE_TIMEOUT" default:"5m"`
}

// ExtractorConfig holds extraction tool configuration.
type ExtractorConfig struct {
	BinPath string        `yaml:"bin_path" envconfig:"EXTRACTOR_BIN" default:"yt-dlp"`
	Timeout time.Duration `yaml:"timeout" envconfig:"EXTRACTOR_TIMEOUT" default:"60s"`
}

// WorkspaceConfig holds scratch directory configuration. Root defaults to
// the system temp dir when empty.
type WorkspaceConfig struct {
	Root         string        `yaml:"root" envconfig:"WORKSPACE_ROOT"`
	ReapInterval time.Duration `yaml:"reap_interval" envconfig:"WORKSPACE_REAP_INTERVAL" default:"10m"`
	MaxAge       time.Duration `yaml:"max_age" envconfig:"WORKSPACE_MAX_AGE" default:"1h"`
}

// FetchConfig holds direct HTTP fetch configuration (thumbnails and the
// image fallback path).
type FetchConfig struct {
	Timeout   time.Duration `yaml:"timeout" envconfig:"FETCH_TIMEOUT" default:"30s"`
	UserAgent string        `yaml:"user_agent" envconfig:"FETCH_USER_AGENT" default:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"`
}

// HistoryConfig holds request history store configuration.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled" envconfig:"HISTORY_ENABLED" default:"true"`
	Path    string `yaml:"path" envconfig:"HISTORY_PATH" default:"grabba.db"`
}

// Load reads configuration from file and environment variables.
// Environment variables override file values.
func Load(configPath string) (*Config, error) {
	cfg := &Config{}

	// Load from YAML file if provided
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	// Override with environment variables
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration values are set.
func (c *Config) Validate() error {
	if c.Extractor.BinPath == "" {
		return fmt.Errorf("EXTRACTOR_BIN is required")
	}
	if c.Extractor.Timeout <= 0 {
		return fmt.Errorf("EXTRACTOR_TIMEOUT must be positive")
	}
	if c.History.Enabled && c.History.Path == "" {
		return fmt.Errorf("HISTORY_PATH is required when history is enabled")
	}
	return nil
}

// Address returns the server address in host:port format.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
