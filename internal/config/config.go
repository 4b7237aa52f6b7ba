// Package config handles configuration loading for investmodel.
// It supports YAML config files with environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const envPrefix = "INVESTMODEL"

// Config represents the complete application configuration.
type Config struct {
	Engine  EngineConfig  `mapstructure:"engine"  json:"engine"  yaml:"engine"`
	API     APIConfig     `mapstructure:"api"     json:"api"     yaml:"api"`
	Logging LoggingConfig `mapstructure:"logging" json:"logging" yaml:"logging"`
	Output  OutputConfig  `mapstructure:"output"  json:"output"  yaml:"output"`
}

// EngineConfig holds Monte Carlo defaults applied when a request leaves
// them unset.
type EngineConfig struct {
	DefaultIterations int   `mapstructure:"default_iterations" json:"default_iterations" yaml:"default_iterations"`
	MaxIterations     int   `mapstructure:"max_iterations"     json:"max_iterations"     yaml:"max_iterations"`
	Workers           int   `mapstructure:"workers"            json:"workers"            yaml:"workers"` // 0 = GOMAXPROCS
	Seed              int64 `mapstructure:"seed"               json:"seed"               yaml:"seed"`    // 0 = unseeded
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	Host              string   `mapstructure:"host"                json:"host"                yaml:"host"`
	Port              int      `mapstructure:"port"                json:"port"                yaml:"port"`
	CORSOrigins       []string `mapstructure:"cors_origins"        json:"cors_origins"        yaml:"cors_origins"`
	RequestTimeoutSec int      `mapstructure:"request_timeout_sec" json:"request_timeout_sec" yaml:"request_timeout_sec"`
	RateLimitRPS      float64  `mapstructure:"rate_limit_rps"      json:"rate_limit_rps"      yaml:"rate_limit_rps"`
	RateLimitBurst    int      `mapstructure:"rate_limit_burst"    json:"rate_limit_burst"    yaml:"rate_limit_burst"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  json:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" json:"format" yaml:"format"` // "text" or "json"
}

// OutputConfig controls how the CLI renders results.
type OutputConfig struct {
	Format string `mapstructure:"format" json:"format" yaml:"format"` // "text", "json" or "yaml"
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.investmodel/config.yaml (home directory)
//  3. /etc/investmodel/config.yaml (system)
//
// Environment variables override config file values.
// Format: INVESTMODEL_<SECTION>_<KEY>, e.g., INVESTMODEL_API_PORT
func Load() (*Config, error) {
	v, err := newViper("")
	if err != nil {
		return nil, err
	}
	return decode(v)
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v, err := newViper(path)
	if err != nil {
		return nil, err
	}
	return decode(v)
}

// newViper builds a viper instance with defaults and env bindings and
// reads path, or the search paths when path is empty. A missing file is
// only an error when path was given explicitly.
func newViper(path string) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(filepath.Join(homeDir(), ".investmodel"))
		v.AddConfigPath("/etc/investmodel")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if path != "" {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, use defaults + env vars
	}
	return v, nil
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// Engine defaults
	v.SetDefault("engine.default_iterations", 1000)
	v.SetDefault("engine.max_iterations", 100000)
	v.SetDefault("engine.workers", 0)
	v.SetDefault("engine.seed", 0)

	// API defaults
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.cors_origins", []string{"http://localhost:3000"})
	v.SetDefault("api.request_timeout_sec", 60)
	v.SetDefault("api.rate_limit_rps", 5)
	v.SetDefault("api.rate_limit_burst", 10)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	// Output defaults
	v.SetDefault("output.format", "text")
}

// Validate reports the first setting outside its accepted values.
func (c *Config) Validate() error {
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("config: logging.format %q: must be text or json", c.Logging.Format)
	}
	switch c.Output.Format {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("config: output.format %q: must be text, json or yaml", c.Output.Format)
	}
	if c.API.Port <= 0 || c.API.Port > 65535 {
		return fmt.Errorf("config: api.port %d: must be between 1 and 65535", c.API.Port)
	}
	if c.Engine.DefaultIterations < 1 || c.Engine.DefaultIterations > c.Engine.MaxIterations {
		return fmt.Errorf("config: engine.default_iterations %d: must be between 1 and engine.max_iterations (%d)",
			c.Engine.DefaultIterations, c.Engine.MaxIterations)
	}
	if c.Engine.Workers < 0 {
		return fmt.Errorf("config: engine.workers %d: must not be negative", c.Engine.Workers)
	}
	return nil
}

// SaveToFile writes cfg as YAML, creating parent directories as needed.
func SaveToFile(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// DefaultFilePath is where `investmodel config init` writes a fresh config.
func DefaultFilePath() string {
	return filepath.Join(homeDir(), ".investmodel", "config.yaml")
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
