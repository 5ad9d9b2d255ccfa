package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all ReFurrm configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// LLM configuration
	LLM LLMConfig `yaml:"llm"`

	// HTTP server configuration
	Server ServerConfig `yaml:"server"`

	// Persistence configuration
	Store StoreConfig `yaml:"store"`

	// Ambassador directory configuration
	Directory DirectoryConfig `yaml:"directory"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// LLMConfig configures the appraisal model client.
type LLMConfig struct {
	Provider string `yaml:"provider"` // gemini, genai
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url"`
	Timeout  string `yaml:"timeout"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string `yaml:"addr"`
	ReadTimeout     string `yaml:"read_timeout"`
	WriteTimeout    string `yaml:"write_timeout"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`
}

// StoreConfig configures SQLite persistence.
type StoreConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// DirectoryConfig configures the ambassador roster.
type DirectoryConfig struct {
	RosterPath string `yaml:"roster_path"`
	// WatchRoster enables hot-reload of the roster file.
	WatchRoster bool `yaml:"watch_roster"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
	File   string `yaml:"file"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "ReFurrm",
		Version: "1.0.0",

		LLM: LLMConfig{
			Provider: "gemini",
			Model:    "gemini-2.5-flash",
			BaseURL:  "https://generativelanguage.googleapis.com/v1beta",
			Timeout:  "120s",
		},

		Server: ServerConfig{
			Addr:            ":8090",
			ReadTimeout:     "30s",
			WriteTimeout:    "150s",
			ShutdownTimeout: "10s",
		},

		Store: StoreConfig{
			DatabasePath: "data/refurrm.db",
		},

		Directory: DirectoryConfig{
			RosterPath:  "",
			WatchRoster: false,
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			File:   "refurrm.log",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return defaults if config file doesn't exist
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Override with environment variables
	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
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
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.LLM.APIKey = key
		if c.LLM.Provider == "" {
			c.LLM.Provider = "gemini"
		}
	}
	if model := os.Getenv("REFURRM_MODEL"); model != "" {
		c.LLM.Model = model
	}
	if addr := os.Getenv("REFURRM_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
	if path := os.Getenv("REFURRM_DB"); path != "" {
		c.Store.DatabasePath = path
	}
	if path := os.Getenv("REFURRM_ROSTER"); path != "" {
		c.Directory.RosterPath = path
	}
}

// GetLLMTimeout returns the LLM timeout as a duration.
func (c *Config) GetLLMTimeout() time.Duration {
	d, err := time.ParseDuration(c.LLM.Timeout)
	if err != nil {
		return 120 * time.Second
	}
	return d
}

// GetReadTimeout returns the server read timeout as a duration.
func (c *Config) GetReadTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.ReadTimeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// GetWriteTimeout returns the server write timeout as a duration.
func (c *Config) GetWriteTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.WriteTimeout)
	if err != nil {
		return 150 * time.Second
	}
	return d
}

// GetShutdownTimeout returns the graceful shutdown timeout as a duration.
func (c *Config) GetShutdownTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.ShutdownTimeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// ValidProviders lists all supported LLM providers.
var ValidProviders = []string{"gemini", "genai"}

// Validate checks the configuration for obvious problems.
func (c *Config) Validate() error {
	valid := false
	for _, p := range ValidProviders {
		if c.LLM.Provider == p {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("unknown llm provider %q (valid: %v)", c.LLM.Provider, ValidProviders)
	}
	if c.Store.DatabasePath == "" {
		return fmt.Errorf("store.database_path is required")
	}
	return nil
}
