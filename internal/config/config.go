package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mcncl/scriptkit/internal/errors"
)

// Config represents the complete configuration shared by the scriptkit tools
type Config struct {
	Log    LogConfig    `yaml:"log"`
	Format FormatConfig `yaml:"format"`
	HTTP   HTTPConfig   `yaml:"http"`
	Server ServerConfig `yaml:"server"`
}

// LogConfig controls diagnostic output
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn or error
}

// FormatConfig holds defaults for the data tool's format commands
type FormatConfig struct {
	Currency string `yaml:"currency"`
	Decimals int    `yaml:"decimals"`
}

// HTTPConfig controls the network tool's client
type HTTPConfig struct {
	Timeout   time.Duration `yaml:"timeout"` // e.g. "10s"; zero disables the timeout
	UserAgent string        `yaml:"user_agent"`
}

// ServerConfig controls the demo servers
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

var logLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level: "info",
		},
		Format: FormatConfig{
			Currency: "USD",
			Decimals: 2,
		},
		HTTP: HTTPConfig{
			Timeout:   0,
			UserAgent: "",
		},
		Server: ServerConfig{
			Addr: ":3001",
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewIOError("failed to read config file", err)
	}

	// Start with defaults
	cfg := NewConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.NewInvalidInputError(fmt.Sprintf("failed to parse config file %s", path), err)
	}

	if err := cfg.validate(); err != nil {
		return nil, errors.NewInvalidInputError(fmt.Sprintf("invalid config file %s", path), err)
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".scriptkit.yml", ".scriptkit.yaml", "scriptkit.yml", "scriptkit.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	// Search up the directory tree
	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	return ""
}

// Load resolves the configuration for a tool invocation. An explicit path
// must exist; otherwise the nearest config file is used, falling back to
// defaults. debug forces the debug log level.
func Load(configPath string, debug bool) (*Config, error) {
	cfg := NewConfig()

	if configPath == "" {
		configPath = FindConfigFile()
	}
	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	if debug {
		cfg.Log.Level = "debug"
	}

	return cfg, nil
}

// validate normalises and checks values that yaml cannot type-check
func (c *Config) validate() error {
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if !logLevels[c.Log.Level] {
		return fmt.Errorf("log.level %q must be one of debug, info, warn, error", c.Log.Level)
	}

	c.Format.Currency = strings.ToUpper(strings.TrimSpace(c.Format.Currency))
	if len(c.Format.Currency) != 3 {
		return fmt.Errorf("format.currency %q must be a three-letter ISO 4217 code", c.Format.Currency)
	}
	if c.Format.Decimals < 0 || c.Format.Decimals > 100 {
		return fmt.Errorf("format.decimals %d must be between 0 and 100", c.Format.Decimals)
	}

	if c.HTTP.Timeout < 0 {
		return fmt.Errorf("http.timeout %s must not be negative", c.HTTP.Timeout)
	}

	if strings.TrimSpace(c.Server.Addr) == "" {
		c.Server.Addr = ":3001"
	}

	return nil
}
