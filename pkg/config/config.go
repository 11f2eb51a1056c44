package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all githubcards configuration.
type Config struct {
	Title string `yaml:"title" validate:"required"`

	Form    FormConfig    `yaml:"form"`
	GitHub  GitHubConfig  `yaml:"github"`
	Server  ServerConfig  `yaml:"server"`
	Cache   CacheConfig   `yaml:"cache"`
	Logging LoggingConfig `yaml:"logging"`
}

// FormConfig selects the form the app mounts.
type FormConfig struct {
	Variant string `yaml:"variant" validate:"oneof=ref value"` // ref, value
}

// GitHubConfig configures the users API client.
type GitHubConfig struct {
	BaseURL string `yaml:"base_url" validate:"required,url"`
	Token   string `yaml:"token"`
	Timeout string `yaml:"timeout"` // "0" disables
}

// ServerConfig configures the web frontend.
type ServerConfig struct {
	Addr string `yaml:"addr" validate:"required"`
}

// CacheConfig configures the lookup cache.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=json console"`
	File   string `yaml:"file"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Title: "The GitHub Cards App",
		Form: FormConfig{
			Variant: "ref",
		},
		GitHub: GitHubConfig{
			BaseURL: "https://api.github.com",
			Timeout: "30s",
		},
		Server: ServerConfig{
			Addr: ":8081",
		},
		Cache: CacheConfig{
			Enabled: false,
			Path:    "file::memory:?cache=shared",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. A .env file in the working directory is read first, and
// environment variables override the file.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if title := os.Getenv("GHCARDS_TITLE"); title != "" {
		c.Title = title
	}
	if variant := os.Getenv("GHCARDS_FORM"); variant != "" {
		c.Form.Variant = variant
	}
	if url := os.Getenv("GITHUB_API_URL"); url != "" {
		c.GitHub.BaseURL = url
	}
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		c.GitHub.Token = token
	}
	if addr := os.Getenv("GHCARDS_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
	if path := os.Getenv("GHCARDS_CACHE"); path != "" {
		c.Cache.Enabled = true
		c.Cache.Path = path
	}
	if level := os.Getenv("GHCARDS_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

var validate = validator.New()

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s fails %q (got %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := c.GetGitHubTimeout(); err != nil {
		return err
	}
	return nil
}

// GetGitHubTimeout returns the users API timeout.
func (c *Config) GetGitHubTimeout() (time.Duration, error) {
	if c.GitHub.Timeout == "" || c.GitHub.Timeout == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.GitHub.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid config: github.timeout: %w", err)
	}
	return d, nil
}
